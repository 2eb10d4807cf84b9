package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quotably/quotesync/internal/adapters/http/dto"
	"github.com/quotably/quotesync/internal/app"
)

// defaultImageContentType is assumed when the upload part carries none.
const defaultImageContentType = "application/octet-stream"

// ImageHandler handles author image endpoints.
type ImageHandler struct {
	images *app.ImageService
}

// NewImageHandler creates a new image handler.
func NewImageHandler(images *app.ImageService) *ImageHandler {
	return &ImageHandler{images: images}
}

// UploadImage handles POST /api/v1/authors/:author/images.
// Expects a multipart form with a "file" part.
func (h *ImageHandler) UploadImage(c *gin.Context) {
	author := c.Param("author")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		dto.HandleBindingError(c, err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		dto.HandleBindingError(c, err)
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		dto.HandleBindingError(c, err)
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = defaultImageContentType
	}

	uploaded, err := h.images.UploadAuthorImage(c.Request.Context(), author, data, contentType)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.UploadedImageResponse{
		HostedURL: uploaded.HostedURL,
		StoredURL: uploaded.StoredURL,
	})
}

// ListImages handles GET /api/v1/authors/:author/images.
func (h *ImageHandler) ListImages(c *gin.Context) {
	author := c.Param("author")

	urls, err := h.images.AuthorImages(c.Request.Context(), author)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ImageListResponse{
		Author: author,
		URLs:   urls,
	})
}

// RegisterImageRoutes registers author image routes on the given router group.
func (h *ImageHandler) RegisterImageRoutes(rg *gin.RouterGroup) {
	authors := rg.Group("/authors/:author/images")
	authors.POST("", h.UploadImage)
	authors.GET("", h.ListImages)
}
