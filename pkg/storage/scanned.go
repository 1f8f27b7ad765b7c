package storage

import (
	"context"
	"errors"
	"fmt"

	"jobmarket-backend/pkg/logger"
	"jobmarket-backend/pkg/security/antivirus"
)

// ErrRejected is returned when the malware scanner refuses a blob.
var ErrRejected = errors.New("storage: file rejected by malware scan")

type scannedStore struct {
	BlobStore
	scanner antivirus.Scanner
}

// Scanned wraps store so that every blob is scanned before it is written.
func Scanned(store BlobStore, scanner antivirus.Scanner) BlobStore {
	return &scannedStore{BlobStore: store, scanner: scanner}
}

func (s *scannedStore) Store(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	res := s.scanner.Scan(ctx, key, data)
	if res.Rejected() {
		logger.Log.Warn("upload rejected by scanner",
			"key", key,
			"scanner", res.ScannerName,
			"threat", res.ThreatName,
			"error", res.Error,
		)
		if res.Infected {
			return "", ErrRejected
		}
		return "", fmt.Errorf("%w: %v", ErrRejected, res.Error)
	}
	return s.BlobStore.Store(ctx, key, data, contentType)
}
