package base64

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const (
	dataPrefix   = "data:"
	base64Marker = ";base64,"
)

var ErrInvalidDataURL = errors.New("invalid base64 data url")

// GetContentType returns the media type of a data URL such as
// "data:image/png;base64,....", or "" when value is not one.
func GetContentType(value string) string {
	if !strings.HasPrefix(value, dataPrefix) {
		return ""
	}

	end := strings.Index(value, base64Marker)
	if end < len(dataPrefix) {
		return ""
	}

	return value[len(dataPrefix):end]
}

// Decode splits a data URL into its media type and decoded payload.
func Decode(value string) (contentType string, data []byte, err error) {
	contentType = GetContentType(value)
	if contentType == "" {
		return "", nil, ErrInvalidDataURL
	}

	payload := value[strings.Index(value, base64Marker)+len(base64Marker):]

	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrInvalidDataURL, err)
	}

	return contentType, data, nil
}
