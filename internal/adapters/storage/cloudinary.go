package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/developia-II/vendora-onboarding/internal/core/domain"
	"github.com/developia-II/vendora-onboarding/internal/onboarding"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const DefaultFolder = "seller-verification"

// Cloudinary streams onboarding documents to Cloudinary. It implements
// onboarding.Storage.
type Cloudinary struct {
	cld     *cloudinary.Cloudinary
	folder  string
	timeout time.Duration
}

func NewCloudinary(cloudName, apiKey, apiSecret, folder string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("initialize cloudinary: %w", err)
	}
	if folder == "" {
		folder = DefaultFolder
	}
	return &Cloudinary{cld: cld, folder: folder, timeout: 60 * time.Second}, nil
}

func (s *Cloudinary) Store(ctx context.Context, slot onboarding.SlotKey, file onboarding.File, progress func(pct int)) (domain.FileRef, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	// UUID public ids keep user-supplied names out of storage paths.
	publicID := uuid.New().String()
	overwrite := false
	body := newProgressReader(file.Body, file.Size, progress)

	res, err := s.cld.Upload.Upload(ctx, body, uploader.UploadParams{
		PublicID:     publicID,
		Folder:       s.folder + "/" + string(slot),
		ResourceType: "auto",
		Overwrite:    &overwrite,
	})
	if err != nil {
		return domain.FileRef{}, fmt.Errorf("cloudinary upload: %w", err)
	}
	if res.Error.Message != "" {
		return domain.FileRef{}, fmt.Errorf("cloudinary upload: %s", res.Error.Message)
	}

	logrus.WithFields(logrus.Fields{
		"slot":     slot,
		"publicId": res.PublicID,
		"bytes":    file.Size,
	}).Info("Document stored")

	return domain.FileRef{
		PublicID:    res.PublicID,
		URL:         res.SecureURL,
		FileName:    file.Name,
		Size:        file.Size,
		ContentType: file.ContentType,
		UploadedAt:  time.Now().UTC(),
	}, nil
}
