package utils

import (
	"bytes"
	"testing"
	"vistoria/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectPhotoType(t *testing.T) {
	pngHeader := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

	tests := []struct {
		name    string
		data    []byte
		ext     string
		errKind error
	}{
		{"png", pngHeader, ".png", nil},
		{"jpeg", []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00"), ".jpg", nil},
		{"webp", []byte("RIFF\x24\x00\x00\x00WEBPVP8 "), ".webp", nil},
		{"empty", nil, "", types.ErrValidation},
		{"text", []byte("hello world"), "", types.ErrValidation},
		{"too large", bytes.Repeat([]byte{0}, MAX_PHOTO_SIZE+1), "", types.ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext, err := DetectPhotoType(tt.data)
			if tt.errKind != nil {
				assert.ErrorIs(t, err, tt.errKind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.ext, ext)
		})
	}
}
