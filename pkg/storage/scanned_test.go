package storage

import (
	"context"
	"testing"

	"jobmarket-backend/pkg/security/antivirus"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubScanner struct{ infected bool }

func (s stubScanner) Scan(context.Context, string, []byte) antivirus.ScanResult {
	return antivirus.ScanResult{Infected: s.infected, ThreatName: "Eicar-Signature", ScannerName: "stub"}
}
func (stubScanner) Name() string                   { return "stub" }
func (stubScanner) Available(context.Context) bool { return true }

func TestScannedStoreRejectsInfectedBlob(t *testing.T) {
	ctx := context.Background()
	local, err := NewLocalStorage(Config{BasePath: t.TempDir(), BaseURL: "/media"})
	require.NoError(t, err)

	_, err = Scanned(local, stubScanner{infected: true}).Store(ctx, "certificates/a.pdf", []byte("%PDF"), "application/pdf")
	assert.ErrorIs(t, err, ErrRejected)

	url, err := Scanned(local, stubScanner{}).Store(ctx, "certificates/b.pdf", []byte("%PDF"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "/media/certificates/b.pdf", url)
}
