package utils

import (
	"vistoria/internal/types"

	"github.com/gabriel-vasile/mimetype"
)

const MAX_PHOTO_SIZE = 10 << 20

var photoExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// DetectPhotoType sniffs the content and returns the file extension for an accepted image type.
func DetectPhotoType(data []byte) (string, error) {
	if len(data) == 0 {
		return "", types.ValidationMessage("photo is required")
	}
	if len(data) > MAX_PHOTO_SIZE {
		return "", types.TooLarge("photo exceeds the 10MB limit")
	}

	detected := mimetype.Detect(data)
	for mime, ext := range photoExtensions {
		if detected.Is(mime) {
			return ext, nil
		}
	}

	return "", types.ValidationMessage("unsupported photo type " + detected.String() + "; use jpeg, png or webp")
}
