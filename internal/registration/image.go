package registration

import (
	"bytes"
	"image"
	"image/jpeg"
	"strings"

	_ "image/gif"
	_ "image/png"

	apperrors "github.com/spec-kit/bank-backoffice/pkg/util"
)

// NormalizeImage re-encodes an uploaded identity image to JPEG at the given
// quality. The transform is pure: the same input bytes always produce the
// same output bytes. Non-image content types and undecodable payloads are
// rejected before any pixel work.
func NormalizeImage(upload *ImageUpload, quality int) ([]byte, error) {
	if upload == nil || !strings.HasPrefix(strings.ToLower(upload.ContentType), "image/") {
		return nil, apperrors.NewValidationError(apperrors.CodeNotAnImage,
			"uploaded file is not an image")
	}

	img, _, err := image.Decode(bytes.NewReader(upload.Data))
	if err != nil {
		return nil, apperrors.NewValidationError(apperrors.CodeNotAnImage,
			"uploaded file is not a decodable image")
	}

	if quality <= 0 || quality > 100 {
		quality = jpeg.DefaultQuality
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return buf.Bytes(), nil
}
