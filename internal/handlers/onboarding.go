package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/developia-II/vendora-onboarding/internal/core/domain"
	"github.com/developia-II/vendora-onboarding/internal/onboarding"
	"github.com/developia-II/vendora-onboarding/internal/services/vendor"
	"github.com/developia-II/vendora-onboarding/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var errInvalidBody = errors.New("invalid JSON format")

type OnboardingHandler struct {
	Service *vendor.Service
}

func NewOnboardingHandler(svc *vendor.Service) *OnboardingHandler {
	return &OnboardingHandler{Service: svc}
}

// userID reads the id AuthMiddleware put on the context.
func userID(c *gin.Context) (string, bool) {
	v, ok := c.Get("userId")
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

func (h *OnboardingHandler) GetState(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.ErrorResponse("Invalid or missing token"))
		return
	}

	view, err := h.Service.View(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Onboarding state fetched", view))
}

// UpdateApplication merges the JSON body into the vendor-entered fields.
// Keys that are absent keep their stored value. Documents only change
// through uploads, so a "documents" key is rejected.
func (h *OnboardingHandler) UpdateApplication(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.ErrorResponse("Invalid or missing token"))
		return
	}

	body, err := c.GetRawData()
	if err != nil || len(bytes.TrimSpace(body)) == 0 {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid JSON format"))
		return
	}

	view, err := h.Service.UpdateFields(c.Request.Context(), uid, func(f *domain.ApplicationFields) error {
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.DisallowUnknownFields()
		if err := dec.Decode(f); err != nil {
			return errors.Join(errInvalidBody, err)
		}
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Application updated", view))
}

func (h *OnboardingHandler) Next(c *gin.Context) {
	h.navigate(c, func(uid string) (vendor.NavResult, error) {
		return h.Service.Next(c.Request.Context(), uid)
	})
}

func (h *OnboardingHandler) Prev(c *gin.Context) {
	h.navigate(c, func(uid string) (vendor.NavResult, error) {
		return h.Service.Prev(c.Request.Context(), uid)
	})
}

func (h *OnboardingHandler) JumpTo(c *gin.Context) {
	step, err := strconv.Atoi(c.Param("step"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Step must be a number"))
		return
	}
	h.navigate(c, func(uid string) (vendor.NavResult, error) {
		return h.Service.JumpTo(c.Request.Context(), uid, step)
	})
}

// navigate answers 200 whether or not the wizard moved. A blocked move
// carries the fields the current step still needs.
func (h *OnboardingHandler) navigate(c *gin.Context, move func(uid string) (vendor.NavResult, error)) {
	uid, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.ErrorResponse("Invalid or missing token"))
		return
	}

	res, err := move(uid)
	if err != nil {
		respondError(c, err)
		return
	}
	msg := "Step changed"
	if !res.Moved {
		msg = "Step unchanged"
	}
	c.JSON(http.StatusOK, utils.SuccessResponse(msg, res))
}

func (h *OnboardingHandler) Submit(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, utils.ErrorResponse("Invalid or missing token"))
		return
	}

	app, decision, err := h.Service.Submit(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}

	msg := "Application submitted and is under review"
	switch app.Status {
	case domain.ApplicationApproved:
		msg = "Application approved"
	case domain.ApplicationRejected:
		msg = "Application rejected"
	}
	c.JSON(http.StatusCreated, utils.SuccessResponse(msg, gin.H{
		"application": app,
		"decision":    decision,
	}))
}

// respondError maps service errors to status codes.
func respondError(c *gin.Context, err error) {
	var incomplete *onboarding.IncompleteError
	switch {
	case errors.Is(err, errInvalidBody):
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Validation failed: "+err.Error()))
	case errors.As(err, &incomplete):
		c.JSON(http.StatusUnprocessableEntity, utils.ErrorResponseWithData("Application is incomplete", incomplete.Steps))
	case errors.Is(err, onboarding.ErrUnknownSlot):
		c.JSON(http.StatusNotFound, utils.ErrorResponse(err.Error()))
	case errors.Is(err, onboarding.ErrSizeExceeded):
		c.JSON(http.StatusRequestEntityTooLarge, utils.ErrorResponse(err.Error()))
	case errors.Is(err, onboarding.ErrEmptyFile):
		c.JSON(http.StatusBadRequest, utils.ErrorResponse(err.Error()))
	case errors.Is(err, onboarding.ErrSlotBusy),
		errors.Is(err, onboarding.ErrNotRetryable),
		errors.Is(err, domain.ErrActiveApplication):
		c.JSON(http.StatusConflict, utils.ErrorResponse(err.Error()))
	case errors.Is(err, onboarding.ErrTrackerClosed):
		c.JSON(http.StatusServiceUnavailable, utils.ErrorResponse("Server is shutting down"))
	default:
		logrus.WithError(err).WithField("path", c.FullPath()).Error("Onboarding request failed")
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Internal server error"))
	}
}
