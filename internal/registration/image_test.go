package registration

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/bank-backoffice/pkg/util"
)

func pngFixture(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNormalizeImage_ReencodesToJPEG(t *testing.T) {
	out, err := NormalizeImage(&ImageUpload{ContentType: "image/png", Data: pngFixture(t)}, 80)
	require.NoError(t, err)
	require.NotEmpty(t, out)

	// JPEG SOI marker
	assert.Equal(t, []byte{0xFF, 0xD8}, out[:2])
}

// Normalizing an already-normalized image is deterministic: repeated runs on
// the same bytes yield byte-identical output.
func TestNormalizeImage_Idempotent(t *testing.T) {
	normalized, err := NormalizeImage(&ImageUpload{ContentType: "image/png", Data: pngFixture(t)}, 80)
	require.NoError(t, err)

	first, err := NormalizeImage(&ImageUpload{ContentType: "image/jpeg", Data: normalized}, 80)
	require.NoError(t, err)
	second, err := NormalizeImage(&ImageUpload{ContentType: "image/jpeg", Data: normalized}, 80)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestNormalizeImage_RejectsNonImageContentType(t *testing.T) {
	_, err := NormalizeImage(&ImageUpload{ContentType: "application/pdf", Data: pngFixture(t)}, 80)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotAnImage, apperrors.CodeOf(err))

	_, err = NormalizeImage(nil, 80)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotAnImage, apperrors.CodeOf(err))
}

func TestNormalizeImage_RejectsUndecodableBytes(t *testing.T) {
	_, err := NormalizeImage(&ImageUpload{ContentType: "image/png", Data: []byte("definitely not pixels")}, 80)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotAnImage, apperrors.CodeOf(err))
}
