package acl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"

	"github.com/quotably/quotesync/internal/adapters/clients"
	"github.com/quotably/quotesync/internal/domain"
)

// imageHostServiceName identifies the image host in errors.
const imageHostServiceName = "image-host"

// ImageHostClientConfig contains configuration for the image host client.
type ImageHostClientConfig struct {
	// Client is the HTTP client pointed at the image hosting API.
	Client *clients.Client

	// UploadPreset names the server-side transformation preset applied
	// to every upload.
	UploadPreset string

	// Logger is the structured logger.
	Logger *slog.Logger
}

// ImageHostClient implements ports.ImageUploader against the external
// image hosting service. Uploads go up as multipart form data with a
// named preset; the host answers with the hosted secure URL.
type ImageHostClient struct {
	BaseAdapter
	preset string
	logger *slog.Logger
}

// NewImageHostClient creates a new image host adapter.
// Panics if Client is nil. Defaults logger to slog.Default().
func NewImageHostClient(cfg ImageHostClientConfig) *ImageHostClient {
	if cfg.Client == nil {
		panic("ImageHostClient: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &ImageHostClient{
		BaseAdapter: NewBaseAdapter(cfg.Client, imageHostServiceName),
		preset:      cfg.UploadPreset,
		logger:      logger,
	}
}

// uploadResponse is the host's upload payload. Internal to the ACL.
type uploadResponse struct {
	SecureURL string `json:"secure_url"`
}

// Upload sends image bytes and returns the hosted secure URL.
// Implements ports.ImageUploader.
func (c *ImageHostClient) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", domain.NewValidationError("image", "must not be empty")
	}

	body, formContentType, err := c.buildMultipartBody(data, contentType)
	if err != nil {
		return "", domain.NewUploadError(imageHostServiceName, err)
	}

	resp, err := c.Client().PostWithContentType(ctx, "/v1/upload", body, formContentType)
	if err != nil {
		return "", domain.NewUploadError(imageHostServiceName, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		c.logger.Warn("image host rejected upload",
			slog.Int("status", resp.StatusCode),
		)

		return "", domain.NewUploadError(imageHostServiceName,
			fmt.Errorf("upload failed with status %d", resp.StatusCode))
	}

	var external uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&external); err != nil {
		return "", domain.NewParseError("upload response", err)
	}

	if !isValidSecureURL(external.SecureURL) {
		return "", domain.NewUploadError(imageHostServiceName, domain.ErrInvalidURL)
	}

	c.logger.DebugContext(ctx, "image uploaded",
		slog.String("url", external.SecureURL),
	)

	return external.SecureURL, nil
}

// buildMultipartBody assembles the multipart form: the preset field plus
// the image file part.
func (c *ImageHostClient) buildMultipartBody(data []byte, contentType string) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if c.preset != "" {
		if err := writer.WriteField("upload_preset", c.preset); err != nil {
			return nil, "", fmt.Errorf("writing preset field: %w", err)
		}
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="image"`)
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("creating file part: %w", err)
	}

	if _, err := part.Write(data); err != nil {
		return nil, "", fmt.Errorf("writing file part: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("closing multipart writer: %w", err)
	}

	return &buf, writer.FormDataContentType(), nil
}

// isValidSecureURL accepts only absolute https URLs from the host.
func isValidSecureURL(raw string) bool {
	if raw == "" {
		return false
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}

	return parsed.Scheme == "https" && parsed.Host != ""
}
