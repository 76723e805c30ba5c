// Package logo turns a user-selected image file into the base64 data URI
// embedded on an invoice.
package logo

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
)

// MaxSize is the largest accepted logo file, 1 MiB.
const MaxSize = 1024 * 1024

var (
	ErrNotImage = errors.New("logo must be an image file")
	ErrTooLarge = errors.New("logo file size must be less than 1MB")
)

// FromFile reads an image file and returns it as a data URI. Non-image
// content and files over MaxSize are rejected; callers surface these as
// user-visible messages, never as fatal errors.
func FromFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to read logo file: %w", err)
	}
	if info.Size() > MaxSize {
		return "", ErrTooLarge
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read logo file: %w", err)
	}

	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", ErrNotImage
	}

	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data)), nil
}

// Decode splits a data URI back into its MIME type and raw bytes, for
// embedding the image into a PDF.
func Decode(dataURI string) (mime string, data []byte, err error) {
	rest, ok := strings.CutPrefix(dataURI, "data:")
	if !ok {
		return "", nil, errors.New("not a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, errors.New("malformed data URI")
	}
	mime, _, _ = strings.Cut(meta, ";")

	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode logo data: %w", err)
	}
	return mime, data, nil
}
