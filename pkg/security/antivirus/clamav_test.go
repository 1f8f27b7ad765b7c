package antivirus

import (
	"context"
	"encoding/binary"
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseReply(t *testing.T) {
	clean := parseReply(ScanResult{}, "stream: OK\x00")
	assert.False(t, clean.Rejected())

	infected := parseReply(ScanResult{}, "stream: Eicar-Signature FOUND\x00")
	assert.True(t, infected.Infected)
	assert.Equal(t, "Eicar-Signature", infected.ThreatName)

	failed := parseReply(ScanResult{}, "INSTREAM size limit exceeded. ERROR")
	assert.True(t, failed.Rejected())
	assert.False(t, failed.Infected)
}

// fakeClamd reads one INSTREAM session and answers with reply.
func fakeClamd(conn net.Conn, reply string, got chan<- []byte) {
	defer conn.Close()
	cmd := make([]byte, len("zINSTREAM\x00"))
	_, err := io.ReadFull(conn, cmd)
	if err != nil {
		return
	}

	var body []byte
	size := make([]byte, 4)
	for {
		_, err := io.ReadFull(conn, size)
		if err != nil {
			return
		}
		n := binary.BigEndian.Uint32(size)
		if n == 0 {
			break
		}
		chunk := make([]byte, n)
		_, err = io.ReadFull(conn, chunk)
		if err != nil {
			return
		}
		body = append(body, chunk...)
	}
	got <- body
	_, _ = conn.Write([]byte(reply + "\x00"))
}

func TestClamAVScanStreamsFile(t *testing.T) {
	client, server := net.Pipe()
	got := make(chan []byte, 1)
	go fakeClamd(server, "stream: OK", got)

	s := NewClamAVScanner("clamd:3310", 0)
	s.dial = func(context.Context, string, string) (net.Conn, error) { return client, nil }

	res := s.Scan(context.Background(), "cv.pdf", []byte("%PDF-1.4 hello"))
	assert.False(t, res.Rejected())
	assert.Equal(t, []byte("%PDF-1.4 hello"), <-got)
}

func TestClamAVFailsClosedWhenUnreachable(t *testing.T) {
	s := NewClamAVScanner("127.0.0.1:1", 0)
	s.dial = func(context.Context, string, string) (net.Conn, error) { return nil, io.ErrClosedPipe }

	res := s.Scan(context.Background(), "x.png", []byte{1, 2, 3})
	assert.True(t, res.Rejected())
	assert.False(t, s.Available(context.Background()))
}
