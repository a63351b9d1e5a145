// Package imaging loads thumbnail, logo and footer images into a form the
// PDF renderer accepts.
//
// JPEG, GIF and baseline 8-bit PNG files pass through untouched. Interlaced
// or 16-bit PNG files and BMP, TIFF and WebP files are decoded and re-encoded
// as PNG. Images larger than the configured maximum dimension are downscaled.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"

	"golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// Image types understood by the renderer.
const (
	TypeJPEG = "JPG"
	TypePNG  = "PNG"
	TypeGIF  = "GIF"
)

// DefaultMaxDimension bounds the longest side of a loaded image in pixels.
const DefaultMaxDimension = 2400

// ErrUnsupported is returned for files no registered decoder recognizes.
var ErrUnsupported = errors.New("imaging: unsupported image format")

// Image is an encoded image ready to hand to the renderer.
type Image struct {
	Data   []byte
	Type   string // TypeJPEG, TypePNG or TypeGIF
	Width  int    // pixels
	Height int
}

// Aspect returns height divided by width.
func (img *Image) Aspect() float64 {
	if img.Width == 0 {
		return 1
	}
	return float64(img.Height) / float64(img.Width)
}

// Loader converts image files. The zero value uses DefaultMaxDimension.
type Loader struct {
	// MaxDimension is the longest side kept, in pixels. Zero means
	// DefaultMaxDimension and a negative value disables downscaling.
	MaxDimension int
}

// Load reads path with the default Loader.
func Load(path string) (*Image, error) {
	var l Loader
	return l.Load(path)
}

// Load reads and converts the image file at path.
func (l *Loader) Load(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("imaging: %w", err)
	}
	img, err := l.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("imaging: %s: %w", path, err)
	}
	return img, nil
}

// Decode converts an encoded image.
func (l *Loader) Decode(data []byte) (*Image, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	limit := l.MaxDimension
	if limit == 0 {
		limit = DefaultMaxDimension
	}
	tooLarge := limit > 0 && (cfg.Width > limit || cfg.Height > limit)

	if !tooLarge {
		switch format {
		case "jpeg":
			return &Image{Data: data, Type: TypeJPEG, Width: cfg.Width, Height: cfg.Height}, nil
		case "gif":
			return &Image{Data: data, Type: TypeGIF, Width: cfg.Width, Height: cfg.Height}, nil
		case "png":
			if pngIsPlain(data) {
				return &Image{Data: data, Type: TypePNG, Width: cfg.Width, Height: cfg.Height}, nil
			}
		}
	}

	src, err := decode(data, format)
	if err != nil {
		return nil, err
	}
	if tooLarge {
		src = downscale(src, limit)
	}
	return encode(src, format)
}

func decode(data []byte, format string) (image.Image, error) {
	r := bytes.NewReader(data)
	var (
		img image.Image
		err error
	)
	switch format {
	case "jpeg":
		img, err = jpeg.Decode(r)
	case "png":
		img, err = png.Decode(r)
	case "gif":
		img, err = gif.Decode(r)
	case "bmp":
		img, err = bmp.Decode(r)
	case "tiff":
		img, err = tiff.Decode(r)
	case "webp":
		img, err = webp.Decode(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, format)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", format, err)
	}
	return img, nil
}

// encode writes JPEG sources back as JPEG and everything else as PNG.
func encode(img image.Image, format string) (*Image, error) {
	var buf bytes.Buffer
	b := img.Bounds()
	out := &Image{Width: b.Dx(), Height: b.Dy()}
	if format == "jpeg" {
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
			return nil, fmt.Errorf("encode jpeg: %w", err)
		}
		out.Type = TypeJPEG
	} else {
		if err := png.Encode(&buf, flatten(img)); err != nil {
			return nil, fmt.Errorf("encode png: %w", err)
		}
		out.Type = TypePNG
	}
	out.Data = buf.Bytes()
	return out, nil
}

// flatten converts 16-bit images to 8-bit so the PNG encoder never writes a
// 16-bit depth.
func flatten(img image.Image) image.Image {
	switch img.(type) {
	case *image.RGBA64, *image.NRGBA64, *image.Gray16:
		b := img.Bounds()
		dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		xdraw.Draw(dst, dst.Bounds(), img, b.Min, xdraw.Src)
		return dst
	}
	return img
}

func downscale(img image.Image, limit int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w >= h {
		h = max(1, h*limit/w)
		w = limit
	} else {
		w = max(1, w*limit/h)
		h = limit
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

// pngIsPlain reports whether a PNG is 8-bit or less and not interlaced.
func pngIsPlain(data []byte) bool {
	// signature(8) length(4) "IHDR"(4) width(4) height(4) depth(1) color(1)
	// compression(1) filter(1) interlace(1)
	if len(data) < 29 || string(data[12:16]) != "IHDR" {
		return false
	}
	depth, interlace := data[24], data[28]
	return depth <= 8 && interlace == 0
}
