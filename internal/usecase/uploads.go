package usecase

import (
	"context"
	"errors"
	"fmt"
	"path"

	"jobmarket-backend/internal/domain"
	"jobmarket-backend/pkg/apperror"
	"jobmarket-backend/pkg/imaging"
	"jobmarket-backend/pkg/logger"
	"jobmarket-backend/pkg/security"
	"jobmarket-backend/pkg/storage"

	"github.com/google/uuid"
)

const (
	imageMaxDimension = 1600
	imageQuality      = 85
)

// mediaKinds lists what each portfolio media type may carry.
var mediaKinds = map[domain.MediaType][]security.FileKind{
	domain.MediaVideo: {security.KindVideo},
	domain.MediaAudio: {security.KindAudio},
	domain.MediaText:  {security.KindText, security.KindDocument},
	domain.MediaLink:  {security.KindText},
	domain.MediaFile:  {security.KindDocument, security.KindText, security.KindImage},
}

var certificateKinds = []security.FileKind{security.KindDocument, security.KindImage}

// storeImage validates and re-encodes an uploaded image before storing it under prefix.
func storeImage(ctx context.Context, store storage.BlobStore, prefix string, file domain.Upload) (string, error) {
	if len(file.Data) == 0 {
		return "", apperror.Validation("File is empty")
	}
	if _, ok := imaging.DetectType(file.Data); !ok {
		return "", apperror.Validation("Unsupported image type. Use JPEG, PNG, GIF or WEBP")
	}
	data, err := imaging.Normalize(file.Data, imageMaxDimension, imageQuality)
	if err != nil {
		if errors.Is(err, imaging.ErrUnsupported) {
			return "", apperror.Validation("Could not decode image")
		}
		return "", apperror.Internal(err)
	}

	key := path.Join(prefix, uuid.NewString()+".jpg")
	return putBlob(ctx, store, key, data, "image/jpeg")
}

// storeFile stores a non-image upload after checking its extension and
// magic bytes against the allowed kinds.
func storeFile(ctx context.Context, store storage.BlobStore, prefix string, file domain.Upload, kinds ...security.FileKind) (string, error) {
	if len(file.Data) == 0 {
		return "", apperror.Validation("File is empty")
	}
	check := security.ValidateFile(file.Filename, file.Data, kinds...)
	if !check.Valid {
		return "", apperror.Validation(fmt.Sprintf("Unsupported file: %s", check.Error))
	}
	contentType := file.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = check.DetectedMIME
	}

	key := path.Join(prefix, uuid.NewString()+check.Extension)
	return putBlob(ctx, store, key, file.Data, contentType)
}

func putBlob(ctx context.Context, store storage.BlobStore, key string, data []byte, contentType string) (string, error) {
	url, err := store.Store(ctx, key, data, contentType)
	if err != nil {
		if errors.Is(err, storage.ErrRejected) {
			return "", apperror.Validation("File was rejected by the malware scan")
		}
		return "", apperror.Internal(err)
	}
	return url, nil
}

// discardBlob removes a replaced blob. Failures only leave an orphan behind.
func discardBlob(ctx context.Context, store storage.BlobStore, url string) {
	if url == "" {
		return
	}
	if err := store.Delete(ctx, url); err != nil && !errors.Is(err, storage.ErrForeignURL) {
		logger.Log.Warn("failed to delete replaced blob", "url", url, "error", err)
	}
}
