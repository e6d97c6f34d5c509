package image

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"math"

	xdraw "golang.org/x/image/draw"
)

const (
	// MaxWidth bounds output width; height scales proportionally.
	MaxWidth = 1200
	// MaxSizeBytes is the encoded size budget (1.5 MiB). Best effort:
	// the quality floor result is accepted even if still over.
	MaxSizeBytes = 1536 << 10

	startQuality = 75
	floorQuality = 30
	qualityStep  = 10
)

var ErrNotImage = errors.New("not a decodable image")

// Normalize decodes an arbitrary raster image (jpeg/png/gif), scales it
// down to MaxWidth preserving aspect ratio, and encodes JPEG at
// decreasing quality until the result fits MaxSizeBytes or the quality
// floor is reached. Deterministic for identical input.
func Normalize(r io.Reader) ([]byte, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotImage, err)
	}

	data, _, err := encode(scale(src))
	return data, err
}

func scale(src image.Image) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= MaxWidth {
		if _, ok := src.(*image.RGBA); ok {
			return src
		}
		// re-draw so the encoder always sees the same color model
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.Draw(dst, dst.Bounds(), src, b.Min, xdraw.Src)
		return dst
	}

	h = int(math.Round(float64(h) * MaxWidth / float64(w)))
	w = MaxWidth
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}

// encode runs the quality ladder and reports the quality that produced
// the returned bytes.
func encode(img image.Image) ([]byte, int, error) {
	var buf bytes.Buffer
	quality := startQuality
	for {
		buf.Reset()
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, 0, fmt.Errorf("encode jpeg: %w", err)
		}
		if buf.Len() <= MaxSizeBytes || quality-qualityStep < floorQuality {
			return bytes.Clone(buf.Bytes()), quality, nil
		}
		quality -= qualityStep
	}
}
