package security

import (
	"bytes"
	"net/http"
	"path/filepath"
	"strings"
)

// FileKind groups extensions that an upload slot may accept.
type FileKind string

const (
	KindImage    FileKind = "image"
	KindVideo    FileKind = "video"
	KindAudio    FileKind = "audio"
	KindDocument FileKind = "document"
	KindText     FileKind = "text"
)

// FileValidationResult contains the result of file validation
type FileValidationResult struct {
	Valid        bool
	Extension    string
	Kind         FileKind
	DetectedMIME string
	Error        string
}

type signature struct {
	offset int
	magic  []byte
}

type fileRule struct {
	kind FileKind
	// signatures is empty for formats without a reliable header.
	signatures []signature
}

func at0(b ...byte) signature { return signature{magic: b} }

// Allowed file extensions (strict whitelist) and their magic bytes
var fileRules = map[string]fileRule{
	".jpg":  {KindImage, []signature{at0(0xFF, 0xD8, 0xFF)}},
	".jpeg": {KindImage, []signature{at0(0xFF, 0xD8, 0xFF)}},
	".png":  {KindImage, []signature{at0(0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A)}},
	".gif":  {KindImage, []signature{at0('G', 'I', 'F', '8', '7', 'a'), at0('G', 'I', 'F', '8', '9', 'a')}},
	".webp": {KindImage, []signature{at0('R', 'I', 'F', 'F')}},

	".mp4":  {KindVideo, []signature{{offset: 4, magic: []byte("ftyp")}}},
	".mov":  {KindVideo, []signature{{offset: 4, magic: []byte("ftyp")}, {offset: 4, magic: []byte("moov")}}},
	".webm": {KindVideo, []signature{at0(0x1A, 0x45, 0xDF, 0xA3)}},

	".mp3": {KindAudio, []signature{at0('I', 'D', '3'), at0(0xFF, 0xFB), at0(0xFF, 0xF3), at0(0xFF, 0xF2)}},
	".wav": {KindAudio, []signature{at0('R', 'I', 'F', 'F')}},
	".ogg": {KindAudio, []signature{at0('O', 'g', 'g', 'S')}},
	".m4a": {KindAudio, []signature{{offset: 4, magic: []byte("ftyp")}}},

	".pdf":  {KindDocument, []signature{at0('%', 'P', 'D', 'F')}},
	".doc":  {KindDocument, []signature{at0(0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1)}},
	".docx": {KindDocument, []signature{at0('P', 'K', 0x03, 0x04)}},
	".pptx": {KindDocument, []signature{at0('P', 'K', 0x03, 0x04)}},
	".xlsx": {KindDocument, []signature{at0('P', 'K', 0x03, 0x04)}},
	".zip":  {KindDocument, []signature{at0('P', 'K', 0x03, 0x04)}},

	".txt": {KindText, nil},
	".md":  {KindText, nil},
}

// ValidateFile checks an upload in two layers: the extension must be on the
// whitelist for one of the allowed kinds, and the content must start with
// that format's magic bytes. Text files have no header and are checked for
// a text MIME type instead.
func ValidateFile(filename string, data []byte, allowed ...FileKind) FileValidationResult {
	result := FileValidationResult{DetectedMIME: http.DetectContentType(data)}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		result.Error = "file has no extension"
		return result
	}
	result.Extension = ext

	rule, ok := fileRules[ext]
	if !ok || !kindAllowed(rule.kind, allowed) {
		result.Error = "file extension not allowed: " + ext
		return result
	}
	result.Kind = rule.kind

	if rule.kind == KindText {
		if !strings.HasPrefix(result.DetectedMIME, "text/plain") {
			result.Error = "file content is not plain text"
			return result
		}
	} else if !matchesSignature(rule.signatures, data) {
		result.Error = "file content does not match extension"
		return result
	}

	result.Valid = true
	return result
}

func kindAllowed(kind FileKind, allowed []FileKind) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, k := range allowed {
		if k == kind {
			return true
		}
	}
	return false
}

func matchesSignature(sigs []signature, data []byte) bool {
	if len(data) < 4 {
		return false
	}
	for _, sig := range sigs {
		end := sig.offset + len(sig.magic)
		if len(data) >= end && bytes.Equal(data[sig.offset:end], sig.magic) {
			return true
		}
	}
	return false
}

// AllowedExtensions lists the extensions accepted for the given kinds, for error messages.
func AllowedExtensions(kinds ...FileKind) []string {
	out := make([]string, 0, len(fileRules))
	for ext, rule := range fileRules {
		if kindAllowed(rule.kind, kinds) {
			out = append(out, ext)
		}
	}
	return out
}
