package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/developia-II/vendora-onboarding/internal/onboarding"
	"github.com/developia-II/vendora-onboarding/internal/services/vendor"
	"github.com/developia-II/vendora-onboarding/utils"
	"github.com/gin-gonic/gin"
)

// multipartOverhead is headroom for boundaries and headers on top of the file limit.
const multipartOverhead = 1 << 20

var allowedDocumentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"application/pdf": true,
}

type UploadHandler struct {
	Service *vendor.Service
}

func NewUploadHandler(svc *vendor.Service) *UploadHandler {
	return &UploadHandler{Service: svc}
}

func slotParam(c *gin.Context) (onboarding.SlotKey, bool) {
	slot, ok := onboarding.ParseSlot(c.Param("slot"))
	if !ok {
		c.JSON(http.StatusNotFound, utils.ErrorResponse("Unknown document slot: "+c.Param("slot")))
	}
	return slot, ok
}

// UploadDocument handles POST /documents/:slot. The file is read into
// memory up to the slot limit, sniffed, and handed to the tracker. The
// upload itself finishes in the background; clients poll GET /documents.
func (h *UploadHandler) UploadDocument(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.ErrorResponse("Invalid or missing token"))
		return
	}
	slot, ok := slotParam(c)
	if !ok {
		return
	}
	limit := h.Service.Limit(slot)

	// Oversized files still go through the tracker so the slot shows the
	// error, whether the body cap trips during parsing or the part itself
	// is too large.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+multipartOverhead)
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || c.Request.ContentLength > limit+multipartOverhead {
			size := c.Request.ContentLength
			if size <= limit {
				size = limit + 1
			}
			res, err := h.Service.UploadDocument(c.Request.Context(), uid, slot, onboarding.File{
				Size: size,
				Body: http.NoBody,
			})
			respondSlot(c, res, err)
			return
		}
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("No file provided"))
		return
	}
	defer file.Close()

	if header.Size > limit {
		res, err := h.Service.UploadDocument(c.Request.Context(), uid, slot, onboarding.File{
			Name: header.Filename,
			Size: header.Size,
			Body: file,
		})
		respondSlot(c, res, err)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to read file"))
		return
	}

	// Magic number check; the client's Content-Type header is not trusted.
	contentType := http.DetectContentType(data)
	if len(data) > 0 && !allowedDocumentTypes[contentType] {
		c.JSON(http.StatusUnsupportedMediaType, utils.ErrorResponse("Unsupported file type. Please upload JPG, PNG, WEBP, or PDF"))
		return
	}

	res, err := h.Service.UploadDocument(c.Request.Context(), uid, slot, onboarding.File{
		Name:        header.Filename,
		ContentType: contentType,
		Size:        int64(len(data)),
		Body:        bytes.NewReader(data),
	})
	if err != nil {
		respondSlot(c, res, err)
		return
	}
	c.JSON(http.StatusAccepted, utils.SuccessResponse("Upload started", res))
}

func (h *UploadHandler) ListDocuments(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.ErrorResponse("Invalid or missing token"))
		return
	}

	slots, err := h.Service.Documents(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Documents fetched", slots))
}

func (h *UploadHandler) RetryDocument(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.ErrorResponse("Invalid or missing token"))
		return
	}
	slot, ok := slotParam(c)
	if !ok {
		return
	}

	res, err := h.Service.RetryDocument(c.Request.Context(), uid, slot)
	if err != nil {
		respondSlot(c, res, err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Slot ready for a new upload", res))
}

func (h *UploadHandler) ClearDocument(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.ErrorResponse("Invalid or missing token"))
		return
	}
	slot, ok := slotParam(c)
	if !ok {
		return
	}

	res, err := h.Service.ClearDocument(c.Request.Context(), uid, slot)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Document removed", res))
}

// respondSlot answers a failed slot operation with the slot state attached.
func respondSlot(c *gin.Context, slot onboarding.DocumentSlot, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, onboarding.ErrSizeExceeded):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, onboarding.ErrEmptyFile):
		status = http.StatusBadRequest
	case errors.Is(err, onboarding.ErrSlotBusy), errors.Is(err, onboarding.ErrNotRetryable):
		status = http.StatusConflict
	default:
		respondError(c, err)
		return
	}
	c.JSON(status, utils.ErrorResponseWithData(err.Error(), slot))
}
