// Package blob stores author images in S3-compatible object storage.
package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/quotably/quotesync/internal/app"
	"github.com/quotably/quotesync/internal/domain"
)

const (
	// authorPrefix namespaces all author images in the bucket.
	authorPrefix = "authors/"

	// presignExpiry bounds the lifetime of resolved download URLs.
	presignExpiry = 24 * time.Hour

	// defaultListConcurrency bounds the presign fan-out when the
	// configured value is unusable.
	defaultListConcurrency = 4
)

// Config contains MinIO connection settings.
type Config struct {
	Endpoint        string
	AccessKey       string
	SecretKey       string
	Bucket          string
	UseSSL          bool
	ListConcurrency int
	Logger          *slog.Logger
}

// Store implements ports.BlobStore backed by a MinIO bucket.
type Store struct {
	client          *minio.Client
	bucket          string
	listConcurrency int
	logger          *slog.Logger
}

// New creates the MinIO client and ensures the bucket exists.
func New(ctx context.Context, cfg Config) (*Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("checking bucket %q: %w", cfg.Bucket, err)
	}

	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("creating bucket %q: %w", cfg.Bucket, err)
		}
	}

	concurrency := cfg.ListConcurrency
	if concurrency <= 0 {
		concurrency = defaultListConcurrency
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{
		client:          client,
		bucket:          cfg.Bucket,
		listConcurrency: concurrency,
		logger:          logger.With(slog.String("component", "blob.Store")),
	}, nil
}

// UploadAuthorImage stores image bytes under the author's prefix and
// returns the public URL. Implements ports.BlobStore.
func (s *Store) UploadAuthorImage(ctx context.Context, author string, data []byte, contentType string) (string, error) {
	key := authorPrefix + author + "/" + uuid.New().String()

	_, err := s.client.PutObject(ctx, s.bucket, key,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return "", domain.NewUploadError("blob storage", err)
	}

	url := fmt.Sprintf("%s/%s/%s", s.client.EndpointURL(), s.bucket, key)

	s.logger.DebugContext(ctx, "author image stored",
		slog.String("author", author),
		slog.String("key", key),
	)

	return url, nil
}

// ListAuthorImages resolves a presigned download URL for every stored
// image of the author. URL resolution fans out with bounded concurrency
// and tolerates individual failures; only an empty aggregate is an
// error. Implements ports.BlobStore.
func (s *Store) ListAuthorImages(ctx context.Context, author string) ([]string, error) {
	prefix := authorPrefix + author + "/"

	var keys []string

	for object := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			return nil, domain.NewUnavailableError("blob storage", object.Err)
		}

		keys = append(keys, object.Key)
	}

	if len(keys) == 0 {
		return nil, domain.NewNotFoundError("author images", author)
	}

	resolvers := make([]func(context.Context) (string, error), len(keys))
	for i, key := range keys {
		resolvers[i] = func(ctx context.Context) (string, error) {
			return s.presignedURL(ctx, key)
		}
	}

	results := app.ParallelPartialLimit(ctx, s.listConcurrency, resolvers...)

	urls := make([]string, 0, len(results))

	for i, result := range results {
		if result.Err != nil {
			s.logger.Warn("failed to resolve image url",
				slog.String("key", keys[i]),
				slog.Any("error", result.Err),
			)

			continue
		}

		urls = append(urls, result.Value)
	}

	if len(urls) == 0 {
		return nil, domain.NewUnavailableError("blob storage",
			errors.New("no image url could be resolved"))
	}

	return urls, nil
}

// presignedURL resolves a time-limited GET URL for an object.
func (s *Store) presignedURL(ctx context.Context, key string) (string, error) {
	url, err := s.client.PresignedGetObject(ctx, s.bucket, key, presignExpiry, nil)
	if err != nil {
		return "", fmt.Errorf("presigning %q: %w", key, err)
	}

	return url.String(), nil
}
