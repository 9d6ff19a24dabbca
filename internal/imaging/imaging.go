// Package imaging normalizes item photos: it checks the uploaded format,
// shrinks large pictures and stores everything as JPEG.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/webp"

	"github.com/erazemk/najdeno/internal/model"
)

// MaxUploadBytes caps how much of an upload is read.
const MaxUploadBytes = 8 << 20

// MaxDimension is the maximum width or height of a stored photo.
const MaxDimension = 1024

// MaxPixels caps width*height of an upload. Small files can declare huge
// canvases, so this is checked from the header before decoding.
const MaxPixels = 40_000_000

// JPEGQuality is the compression quality of stored photos.
const JPEGQuality = 85

type format struct {
	config func(io.Reader) (image.Config, error)
	decode func(io.Reader) (image.Image, error)
}

// formats maps accepted upload types to their decoder.
var formats = map[string]format{
	"image/jpeg": {jpeg.DecodeConfig, jpeg.Decode},
	"image/png":  {png.DecodeConfig, png.Decode},
	"image/webp": {webp.DecodeConfig, webp.Decode},
}

// Photo is a processed item photo.
type Photo struct {
	Data []byte
	MIME string
}

// Process reads an upload, sniffs its format from the bytes, downscales it
// to MaxDimension and re-encodes it as JPEG. Unsupported or oversized
// uploads yield a *model.ValidationError.
func Process(r io.Reader) (*Photo, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}
	if len(data) > MaxUploadBytes {
		return nil, &model.ValidationError{Field: "image", Reason: fmt.Sprintf("image larger than %d bytes", MaxUploadBytes)}
	}
	if len(data) == 0 {
		return nil, &model.ValidationError{Field: "image", Reason: "missing required field: image"}
	}

	// Client headers are not trusted.
	detected := mimetype.Detect(data).String()
	f, ok := formats[detected]
	if !ok {
		return nil, &model.ValidationError{
			Field:  "image",
			Reason: fmt.Sprintf("unsupported image format: %s (JPEG, PNG or WebP accepted)", detected),
		}
	}

	cfg, err := f.config(bytes.NewReader(data))
	if err != nil {
		return nil, &model.ValidationError{Field: "image", Reason: "image could not be decoded"}
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, &model.ValidationError{
			Field:  "image",
			Reason: fmt.Sprintf("image dimensions %dx%d exceed %d pixels", cfg.Width, cfg.Height, MaxPixels),
		}
	}

	img, err := f.decode(bytes.NewReader(data))
	if err != nil {
		return nil, &model.ValidationError{Field: "image", Reason: "image could not be decoded"}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, downscale(img, MaxDimension), &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}
	return &Photo{Data: buf.Bytes(), MIME: "image/jpeg"}, nil
}

// downscale fits img within maxDim on both sides, keeping its aspect ratio.
// Images already within bounds are returned as is.
func downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}

	newW, newH := maxDim, maxDim
	if w > h {
		newH = max(1, h*maxDim/w)
	} else {
		newW = max(1, w*maxDim/h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
