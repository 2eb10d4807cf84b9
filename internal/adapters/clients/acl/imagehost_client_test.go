package acl

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotably/quotesync/internal/domain"
)

func newImageHostClientFor(t *testing.T, server *httptest.Server, preset string) *ImageHostClient {
	t.Helper()

	return NewImageHostClient(ImageHostClientConfig{
		Client:       newTestHTTPClient(t, server.URL, imageHostServiceName),
		UploadPreset: preset,
		Logger:       discardLogger(),
	})
}

func TestImageHostClient_Upload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/upload", r.URL.Path)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "author-images", r.FormValue("upload_preset"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer func() { _ = file.Close() }()

		data, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, []byte{0x89, 0x50}, data)
		assert.Equal(t, "image/png", header.Header.Get("Content-Type"))

		_, _ = w.Write([]byte(`{"secure_url": "https://cdn.example.com/img/abc.png"}`))
	}))
	defer server.Close()

	client := newImageHostClientFor(t, server, "author-images")

	url, err := client.Upload(context.Background(), []byte{0x89, 0x50}, "image/png")

	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/img/abc.png", url)
}

func TestImageHostClient_Upload_EmptyData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for empty data")
	}))
	defer server.Close()

	client := newImageHostClientFor(t, server, "author-images")

	_, err := client.Upload(context.Background(), nil, "image/png")

	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestImageHostClient_Upload_RejectedByHost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": {"message": "unsupported format"}}`))
	}))
	defer server.Close()

	client := newImageHostClientFor(t, server, "author-images")

	_, err := client.Upload(context.Background(), []byte{1}, "image/png")

	require.Error(t, err)
	assert.True(t, domain.IsUpload(err))
}

func TestImageHostClient_Upload_InvalidSecureURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{name: "empty", url: ""},
		{name: "plain http", url: "http://cdn.example.com/img.png"},
		{name: "relative", url: "/img.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"secure_url": "` + tt.url + `"}`))
			}))
			defer server.Close()

			client := newImageHostClientFor(t, server, "author-images")

			_, err := client.Upload(context.Background(), []byte{1}, "image/png")

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidURL)
		})
	}
}

func TestImageHostClient_Upload_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := newImageHostClientFor(t, server, "author-images")

	_, err := client.Upload(context.Background(), []byte{1}, "image/png")

	require.Error(t, err)
	assert.True(t, domain.IsParse(err))
}
