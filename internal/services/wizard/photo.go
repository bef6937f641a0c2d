package wizard

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mcoot/ofelia/internal/model"
)

// DefaultMaxPhotoBytes caps uploaded photos
const DefaultMaxPhotoBytes = 5 << 20

// EncodePhoto reads an uploaded image and returns it as a base64 data URI.
// Anything that does not sniff as an image is rejected.
func EncodePhoto(r io.Reader, maxBytes int64) (string, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxPhotoBytes
	}

	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read photo: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty file", model.ErrInvalidPhoto)
	}
	if int64(len(data)) > maxBytes {
		return "", fmt.Errorf("%w: larger than %d bytes", model.ErrInvalidPhoto, maxBytes)
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%w: %s", model.ErrInvalidPhoto, contentType)
	}

	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// DecodePhoto checks a base64 image data URI and returns it re-encoded with
// its sniffed content type
func DecodePhoto(uri string, maxBytes int64) (string, error) {
	meta, payload, ok := strings.Cut(uri, ",")
	if !ok || !strings.HasPrefix(meta, "data:") || !strings.HasSuffix(meta, ";base64") {
		return "", fmt.Errorf("%w: not a base64 data URI", model.ErrInvalidPhoto)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrInvalidPhoto, err)
	}
	return EncodePhoto(bytes.NewReader(data), maxBytes)
}
