// Package antivirus scans uploaded files before they reach blob storage.
package antivirus

import "context"

// ScanResult contains the result of a malware scan
type ScanResult struct {
	Infected    bool
	ThreatName  string
	ScannerName string
	Error       error
}

// Rejected reports whether the upload must be refused. Scan errors fail closed.
func (r ScanResult) Rejected() bool {
	return r.Infected || r.Error != nil
}

// Scanner is the interface for pluggable antivirus implementations.
type Scanner interface {
	Scan(ctx context.Context, filename string, data []byte) ScanResult
	Name() string
	Available(ctx context.Context) bool
}

// NoOpScanner reports every file as clean. It is used when no clamd address is configured.
type NoOpScanner struct{}

var _ Scanner = NoOpScanner{}

func (NoOpScanner) Scan(context.Context, string, []byte) ScanResult {
	return ScanResult{ScannerName: "noop"}
}

func (NoOpScanner) Name() string { return "noop" }

func (NoOpScanner) Available(context.Context) bool { return true }
