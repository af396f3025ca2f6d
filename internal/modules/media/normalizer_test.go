package media

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func opaquePNG(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()
	c.A = 255
	return encodePNG(t, imaging.New(w, h, c))
}

func alphaPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 255, A: 128})
		}
	}
	return encodePNG(t, img)
}

func TestNormalizeOpaquePNGKeepsFormat(t *testing.T) {
	src := opaquePNG(t, 40, 30, color.NRGBA{R: 10, G: 20, B: 30})

	n, err := Normalize(src, "png")
	require.NoError(t, err)

	assert.Equal(t, imaging.PNG, n.Format)
	assert.Equal(t, ".png", n.CanonicalExt)
	assert.Equal(t, 40, n.Image.Bounds().Dx())
	assert.Equal(t, 30, n.Image.Bounds().Dy())
}

func TestNormalizeAlphaForcesJPEG(t *testing.T) {
	src := alphaPNG(t, 20, 20)

	n, err := Normalize(src, "png")
	require.NoError(t, err)

	assert.Equal(t, imaging.JPEG, n.Format)
	assert.Equal(t, ".jpeg", n.CanonicalExt)

	// Half-transparent red over white composites to pink, fully opaque.
	got := n.Image.NRGBAAt(10, 10)
	assert.EqualValues(t, 255, got.A)
	assert.Greater(t, got.R, uint8(200))
	assert.InDelta(t, 127, int(got.G), 3)
	assert.InDelta(t, 127, int(got.B), 3)
}

func TestNormalizeGrayscaleConverts(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 10, 10))
	for i := range gray.Pix {
		gray.Pix[i] = 99
	}
	src := encodePNG(t, gray)

	n, err := Normalize(src, "png")
	require.NoError(t, err)

	// Grayscale has no alpha channel, so the format survives.
	assert.Equal(t, imaging.PNG, n.Format)
	got := n.Image.NRGBAAt(5, 5)
	assert.Equal(t, color.NRGBA{R: 99, G: 99, B: 99, A: 255}, got)
}

func TestNormalizeCorruptBytes(t *testing.T) {
	_, err := Normalize([]byte("definitely not an image"), "png")
	assert.ErrorIs(t, err, ErrDecode)

	_, err = Normalize([]byte("also not heif"), "heic")
	assert.ErrorIs(t, err, ErrDecode)
}
