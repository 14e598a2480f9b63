package menu

import (
	"errors"
	"mime"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrNotImage = errors.New("uploaded file is not an image")

	validate = validator.New()
)

// ValidateImageType accepts any image/* media type.
func ValidateImageType(contentType string) error {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ErrNotImage
	}
	if !strings.HasPrefix(mediaType, "image/") {
		return ErrNotImage
	}
	return nil
}

// ValidateItem checks the invariants of a stored menu item.
func ValidateItem(item *MenuItem) error {
	return validate.Struct(item)
}
