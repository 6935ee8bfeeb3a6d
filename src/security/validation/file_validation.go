// backend/src/security/validation/file_validation.go
package validation

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrFileTooLarge    = errors.New("file too large")
	ErrFileTypeInvalid = errors.New("file type not allowed")
	ErrFileBinary      = errors.New("file looks binary, not a delimited export")
)

var allowedContentTypes = map[string]bool{
	"text/csv":                 true,
	"text/plain":               true,
	"application/csv":          true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"application/octet-stream":                                          true,
}

// xlsx files are zip archives; this is the only binary magic we accept.
var zipMagic = []byte{0x50, 0x4B, 0x03, 0x04}

// ValidateUpload checks size, declared content type and content shape of an
// uploaded export before any parsing happens.
func ValidateUpload(content []byte, contentType string, maxSize int64) error {
	if int64(len(content)) > maxSize {
		return fmt.Errorf("%w: %d bytes (limit %d)", ErrFileTooLarge, len(content), maxSize)
	}
	if ct := baseContentType(contentType); ct != "" && !allowedContentTypes[ct] {
		return fmt.Errorf("%w: %s", ErrFileTypeInvalid, ct)
	}
	if IsExcelContent(content) {
		return nil
	}
	if isBinaryContent(content) {
		return ErrFileBinary
	}
	return nil
}

// IsExcelContent reports whether the bytes look like an xlsx archive.
func IsExcelContent(content []byte) bool {
	return bytes.HasPrefix(content, zipMagic)
}

// isBinaryContent samples the first KB for NUL bytes and a high ratio of
// non-printable characters.
func isBinaryContent(content []byte) bool {
	sample := content
	if len(sample) > 1024 {
		sample = sample[:1024]
	}
	if len(sample) == 0 {
		return false
	}
	nonPrintable := 0
	for _, b := range sample {
		if b == 0 {
			return true
		}
		if b < 0x09 || (b > 0x0D && b < 0x20) {
			nonPrintable++
		}
	}
	return float64(nonPrintable)/float64(len(sample)) > 0.1
}

func baseContentType(ct string) string {
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}
