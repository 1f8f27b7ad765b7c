package antivirus

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"strings"
	"time"
)

// chunkSize stays well below clamd's default StreamMaxLength.
const chunkSize = 1 << 20

// ClamAVScanner talks to a clamd daemon over TCP or a Unix socket.
type ClamAVScanner struct {
	address string
	timeout time.Duration
	dial    func(ctx context.Context, network, address string) (net.Conn, error)
}

var _ Scanner = (*ClamAVScanner)(nil)

// NewClamAVScanner creates a ClamAV scanner.
// address: TCP "localhost:3310" or Unix socket "/var/run/clamav/clamd.sock"
func NewClamAVScanner(address string, timeout time.Duration) *ClamAVScanner {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	d := &net.Dialer{Timeout: timeout}
	return &ClamAVScanner{address: address, timeout: timeout, dial: d.DialContext}
}

func (c *ClamAVScanner) Name() string { return "clamav" }

func (c *ClamAVScanner) network() string {
	if strings.HasPrefix(c.address, "/") {
		return "unix"
	}
	return "tcp"
}

// Available sends PING and expects PONG.
func (c *ClamAVScanner) Available(ctx context.Context) bool {
	conn, err := c.dial(ctx, c.network(), c.address)
	if err != nil {
		return false
	}
	defer conn.Close()

	_ = conn.SetDeadline(time.Now().Add(5 * time.Second))
	if _, err := conn.Write([]byte("zPING\x00")); err != nil {
		return false
	}
	buf := make([]byte, 16)
	n, err := conn.Read(buf)
	if err != nil {
		return false
	}
	return strings.HasPrefix(string(buf[:n]), "PONG")
}

// Scan streams the file with zINSTREAM. Any transport failure is reported as
// an error so that callers reject the upload.
func (c *ClamAVScanner) Scan(ctx context.Context, filename string, data []byte) ScanResult {
	result := ScanResult{ScannerName: c.Name()}

	conn, err := c.dial(ctx, c.network(), c.address)
	if err != nil {
		result.Error = fmt.Errorf("failed to connect to clamd: %w", err)
		return result
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(c.timeout))

	if _, err := conn.Write([]byte("zINSTREAM\x00")); err != nil {
		result.Error = fmt.Errorf("failed to send command: %w", err)
		return result
	}

	size := make([]byte, 4)
	for start := 0; start < len(data); start += chunkSize {
		end := start + chunkSize
		if end > len(data) {
			end = len(data)
		}
		binary.BigEndian.PutUint32(size, uint32(end-start))
		if _, err := conn.Write(size); err != nil {
			result.Error = fmt.Errorf("failed to send chunk size: %w", err)
			return result
		}
		if _, err := conn.Write(data[start:end]); err != nil {
			result.Error = fmt.Errorf("failed to send %s: %w", filename, err)
			return result
		}
	}
	// zero-length chunk ends the stream
	if _, err := conn.Write([]byte{0, 0, 0, 0}); err != nil {
		result.Error = fmt.Errorf("failed to send end marker: %w", err)
		return result
	}

	reply, err := io.ReadAll(io.LimitReader(conn, 1024))
	if err != nil {
		result.Error = fmt.Errorf("failed to read response: %w", err)
		return result
	}
	return parseReply(result, string(reply))
}

// parseReply interprets "stream: OK", "stream: <name> FOUND" and "... ERROR".
func parseReply(result ScanResult, reply string) ScanResult {
	reply = strings.TrimSpace(strings.TrimRight(reply, "\x00"))
	switch {
	case strings.HasSuffix(reply, "FOUND"):
		result.Infected = true
		if _, threat, ok := strings.Cut(reply, ":"); ok {
			result.ThreatName = strings.TrimSpace(strings.TrimSuffix(threat, "FOUND"))
		}
	case strings.HasSuffix(reply, "OK"):
	default:
		result.Error = fmt.Errorf("scan error: %s", reply)
	}
	return result
}
