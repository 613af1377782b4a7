// Package imageutil inspects and normalizes downloaded images before they are
// embedded into documents.
package imageutil

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	"image/png"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

// Sentinel errors for image inspection.
var (
	ErrEmptyImage       = errors.New("image data is empty")
	ErrUnsupportedImage = errors.New("unsupported image format")
	ErrImageDimensions  = errors.New("image has invalid dimensions")
)

// MaxPixelWidth is the widest image kept as-is. Wider images are downscaled,
// which keeps documents small without visible loss at display size.
const MaxPixelWidth = 1600

// jpegQuality is used when re-encoding downscaled JPEG images.
const jpegQuality = 85

// Info describes a decoded image header.
type Info struct {
	Format string // as registered with the image package: "png", "jpeg", "webp", ...
	Width  int
	Height int
}

// MediaType returns the MIME type of the image format.
func (i Info) MediaType() string {
	return "image/" + i.Format
}

// Extension returns the file extension used when packaging the image.
func (i Info) Extension() string {
	if i.Format == "jpeg" {
		return "jpg"
	}
	return i.Format
}

// HeightFor returns the display height that keeps the aspect ratio at the given width.
func (i Info) HeightFor(width float64) float64 {
	if i.Width <= 0 {
		return width
	}
	return width * float64(i.Height) / float64(i.Width)
}

// Inspect reads the image header without decoding pixel data.
func Inspect(data []byte) (Info, error) {
	if len(data) == 0 {
		return Info{}, ErrEmptyImage
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Info{}, fmt.Errorf("%w: %dx%d", ErrImageDimensions, cfg.Width, cfg.Height)
	}
	return Info{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

// portable lists formats that word processors and browsers display natively.
var portable = map[string]bool{"png": true, "jpeg": true, "gif": true}

// Normalize returns image bytes every output format can embed.
// PNG, JPEG and GIF within MaxPixelWidth are returned untouched. Other formats
// (WebP, BMP, TIFF) are transcoded to PNG, and oversized images are downscaled.
func Normalize(data []byte) ([]byte, Info, error) {
	info, err := Inspect(data)
	if err != nil {
		return nil, Info{}, err
	}
	if portable[info.Format] && info.Width <= MaxPixelWidth {
		return data, info, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, Info{}, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	if info.Width > MaxPixelWidth {
		img = downscale(img, MaxPixelWidth)
	}

	var buf bytes.Buffer
	out := Info{Width: img.Bounds().Dx(), Height: img.Bounds().Dy()}
	if info.Format == "jpeg" {
		out.Format = "jpeg"
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality})
	} else {
		out.Format = "png"
		err = png.Encode(&buf, img)
	}
	if err != nil {
		return nil, Info{}, fmt.Errorf("encoding %s: %w", out.Format, err)
	}
	return buf.Bytes(), out, nil
}

// downscale resizes img to width, keeping the aspect ratio.
func downscale(img image.Image, width int) image.Image {
	b := img.Bounds()
	height := b.Dy() * width / b.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
