package app

import (
	"context"
	"log/slog"

	"github.com/quotably/quotesync/internal/domain"
	"github.com/quotably/quotesync/internal/ports"
)

// UploadedImage carries the two URLs produced by an author image upload:
// the CDN URL from the image host and the durable blob storage URL.
type UploadedImage struct {
	HostedURL string
	StoredURL string
}

// ImageService handles author image uploads and listings. Uploads go to
// the image host (for serving) and blob storage (for durability)
// concurrently; a failure of either fails the upload.
type ImageService struct {
	blob     ports.BlobStore
	uploader ports.ImageUploader
	logger   *slog.Logger
}

// ImageServiceConfig contains configuration for the image service.
type ImageServiceConfig struct {
	Blob     ports.BlobStore
	Uploader ports.ImageUploader
	Logger   *slog.Logger
}

// NewImageService creates a new image service with the provided
// dependencies.
func NewImageService(cfg ImageServiceConfig) *ImageService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &ImageService{
		blob:     cfg.Blob,
		uploader: cfg.Uploader,
		logger:   logger,
	}
}

// UploadAuthorImage pushes the image to the host and blob storage in
// parallel and returns both resulting URLs.
func (s *ImageService) UploadAuthorImage(ctx context.Context, author string, data []byte, contentType string) (*UploadedImage, error) {
	if author == "" {
		return nil, domain.NewValidationError("author", "is required")
	}

	if len(data) == 0 {
		return nil, domain.NewValidationError("image", "must not be empty")
	}

	hostedURL, storedURL, err := Parallel2(ctx,
		func(ctx context.Context) (string, error) {
			return s.uploader.Upload(ctx, data, contentType)
		},
		func(ctx context.Context) (string, error) {
			return s.blob.UploadAuthorImage(ctx, author, data, contentType)
		},
	)
	if err != nil {
		s.logger.ErrorContext(ctx, "author image upload failed",
			slog.String("author", author),
			slog.Any("error", err),
		)

		return nil, err
	}

	s.logger.InfoContext(ctx, "author image uploaded",
		slog.String("author", author),
		slog.String("hosted_url", hostedURL),
	)

	return &UploadedImage{HostedURL: hostedURL, StoredURL: storedURL}, nil
}

// AuthorImages resolves a download URL for every stored image of the
// author.
func (s *ImageService) AuthorImages(ctx context.Context, author string) ([]string, error) {
	if author == "" {
		return nil, domain.NewValidationError("author", "is required")
	}

	return s.blob.ListAuthorImages(ctx, author)
}
