package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
)

// BlobStore persists uploaded media and hands back a retrievable URL.
type BlobStore interface {
	// Store writes data under key and returns the URL clients should use.
	Store(ctx context.Context, key string, data []byte, contentType string) (string, error)
	// Delete removes the blob previously returned by Store. Unknown URLs are ignored.
	Delete(ctx context.Context, url string) error
}

// ErrForeignURL is returned when a URL does not belong to the store.
var ErrForeignURL = errors.New("storage: url not managed by this store")

// Config selects and configures a backend.
type Config struct {
	Type string // local, s3, minio

	// local
	BasePath string
	BaseURL  string

	// s3 and minio
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	Endpoint  string
	UseSSL    bool
	PublicURL string
}

// New builds the backend named by cfg.Type.
func New(ctx context.Context, cfg Config) (BlobStore, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocalStorage(cfg)
	case "s3":
		return NewS3Storage(ctx, cfg)
	case "minio":
		return NewMinioStorage(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

// keyFromURL strips the store's public prefix from url.
func keyFromURL(prefix, url string) (string, error) {
	prefix = strings.TrimRight(prefix, "/") + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", ErrForeignURL
	}
	key := strings.TrimPrefix(url, prefix)
	if key == "" || strings.Contains(key, "..") {
		return "", ErrForeignURL
	}
	return key, nil
}

// CleanKey normalises a caller supplied key so it cannot escape the store root.
func CleanKey(key string) string {
	cleaned := path.Clean("/" + strings.ReplaceAll(key, "\\", "/"))
	return strings.TrimPrefix(cleaned, "/")
}
