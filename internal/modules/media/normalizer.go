package media

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	// Register the stdlib decoders plus BMP for the general decode path.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"

	"github.com/disintegration/imaging"
	"github.com/jdeng/goheif"
)

// Normalized is an opaque RGB pixel buffer ready for derivative generation,
// together with the encoding policy for the largest tier. Transparency never
// survives normalization: flattened images always leave as JPEG.
type Normalized struct {
	Image        *image.NRGBA
	Format       imaging.Format
	CanonicalExt string
}

// Normalize decodes source bytes into an opaque RGB buffer.
//
// HEIC goes through its dedicated decoder and always takes the JPEG output
// path. Everything else goes through image.Decode with the decoder-reported
// format preserved and the original extension kept as the canonical one.
// Images carrying an alpha channel are composited over an opaque white
// background and forced onto the JPEG path; other non-RGB modes are cloned
// losslessly.
func Normalize(src []byte, ext string) (*Normalized, error) {
	var (
		img          image.Image
		format       imaging.Format
		canonicalExt string
	)

	if ext == "heic" {
		decoded, err := goheif.Decode(bytes.NewReader(src))
		if err != nil {
			return nil, fmt.Errorf("%w: heic: %v", ErrDecode, err)
		}
		img = decoded
		format = imaging.JPEG
		canonicalExt = ".jpeg"
	} else {
		decoded, name, err := image.Decode(bytes.NewReader(src))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		img = decoded
		format, err = imaging.FormatFromExtension("." + name)
		if err != nil {
			return nil, fmt.Errorf("%w: unexpected format %q", ErrDecode, name)
		}
		canonicalExt = "." + ext
	}

	// The stdlib decoders only produce NRGBA buffers for files that carry an
	// alpha channel (truecolor+alpha and gray+alpha); opaque truecolor comes
	// out as RGBA or YCbCr, palette as Paletted.
	switch img.(type) {
	case *image.NRGBA, *image.NRGBA64:
		return &Normalized{
			Image:        flattenOnWhite(img),
			Format:       imaging.JPEG,
			CanonicalExt: ".jpeg",
		}, nil
	}

	return &Normalized{
		Image:        imaging.Clone(img),
		Format:       format,
		CanonicalExt: canonicalExt,
	}, nil
}

func flattenOnWhite(img image.Image) *image.NRGBA {
	bounds := img.Bounds()
	background := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	draw.Draw(background, background.Bounds(), img, bounds.Min, draw.Over)
	return background
}
