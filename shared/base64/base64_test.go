package base64_test

import (
	"testing"
	"warehub/shared/base64"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetContentType(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"png", "data:image/png;base64,iVBORw0KGgo=", "image/png"},
		{"jpeg", "data:image/jpeg;base64,/9j/4AAQ", "image/jpeg"},
		{"missing marker", "data:image/png,abc", ""},
		{"missing prefix", "image/png;base64,abc", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base64.GetContentType(tt.input))
		})
	}
}

func TestDecode(t *testing.T) {
	contentType, data, err := base64.Decode("data:text/plain;base64,aGVsbG8=")
	require.NoError(t, err)

	assert.Equal(t, "text/plain", contentType)
	assert.Equal(t, []byte("hello"), data)

	_, _, err = base64.Decode("data:text/plain;base64,***")
	assert.ErrorIs(t, err, base64.ErrInvalidDataURL)

	_, _, err = base64.Decode("hello")
	assert.ErrorIs(t, err, base64.ErrInvalidDataURL)
}
