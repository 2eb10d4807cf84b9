package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotably/quotesync/internal/adapters/http/dto"
	"github.com/quotably/quotesync/internal/app"
	"github.com/quotably/quotesync/internal/domain"
)

type imageFixture struct {
	uploader *stubUploader
	blob     *stubBlob
	router   *gin.Engine
}

func newImageFixture() *imageFixture {
	f := &imageFixture{
		uploader: &stubUploader{url: "https://images.quotably.io/seneca.png"},
		blob: &stubBlob{
			uploadURL: "https://blob.quotably.io/author-images/seneca/seneca.png",
			listURLs:  []string{"https://blob.quotably.io/author-images/seneca/seneca.png"},
		},
	}

	images := app.NewImageService(app.ImageServiceConfig{
		Blob:     f.blob,
		Uploader: f.uploader,
		Logger:   discardLogger(),
	})

	f.router = gin.New()
	api := f.router.Group("/api/v1")
	NewImageHandler(images).RegisterImageRoutes(api)

	return f
}

// multipartUpload builds a multipart request with a single "file" part.
func multipartUpload(t *testing.T, path string, data []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", "seneca.png")
	require.NoError(t, err)

	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return req
}

func TestUploadImage_ReturnsBothURLs(t *testing.T) {
	f := newImageFixture()

	req := multipartUpload(t, "/api/v1/authors/seneca/images", []byte("png-bytes"))

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp dto.UploadedImageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "https://images.quotably.io/seneca.png", resp.HostedURL)
	assert.Equal(t, "https://blob.quotably.io/author-images/seneca/seneca.png", resp.StoredURL)
}

func TestUploadImage_MissingFilePart(t *testing.T) {
	f := newImageFixture()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/authors/seneca/images", nil)
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadImage_HostRejection(t *testing.T) {
	f := newImageFixture()
	f.uploader.err = domain.NewUploadError("image-host", errors.New("preset rejected"))

	req := multipartUpload(t, "/api/v1/authors/seneca/images", []byte("png-bytes"))

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadGateway, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrorCodeUpload, resp.Error.Code)
	assert.Equal(t, "try uploading again", resp.Error.Suggestion)
}

func TestListImages_ResolvesURLs(t *testing.T) {
	f := newImageFixture()

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/authors/seneca/images", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.ImageListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "seneca", resp.Author)
	require.Len(t, resp.URLs, 1)
}

func TestListImages_NoImagesIs404(t *testing.T) {
	f := newImageFixture()
	f.blob.listURLs = nil
	f.blob.listErr = domain.NewNotFoundError("author images", "marcus-aurelius")

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/authors/marcus-aurelius/images", nil))

	require.Equal(t, http.StatusNotFound, w.Code)
}
