// Package images stores product photos as resized JPEGs.
package images

import (
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/nfnt/resize"
)

// MaxWidth is the width product photos are scaled down to.
const MaxWidth = 800

var ErrUnsupportedFormat = errors.New("unsupported image format, only PNG, JPG and JPEG are allowed")

// Decode reads a PNG or JPEG, chosen by the file extension of name.
func Decode(r io.Reader, name string) (image.Image, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		img, err := png.Decode(r)
		return img, errors.Wrap(err, "decode png")
	case ".jpg", ".jpeg":
		img, err := jpeg.Decode(r)
		return img, errors.Wrap(err, "decode jpeg")
	default:
		return nil, ErrUnsupportedFormat
	}
}

// Save writes img to dir as <uuid>.jpg, scaled down to MaxWidth when wider,
// and returns the file name.
func Save(img image.Image, dir string) (string, error) {
	if img.Bounds().Dx() > MaxWidth {
		img = resize.Resize(MaxWidth, 0, img, resize.Lanczos3)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "create upload dir")
	}
	name := uuid.New().String() + ".jpg"
	out, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", errors.Wrap(err, "create image file")
	}
	defer out.Close()

	if err := jpeg.Encode(out, img, &jpeg.Options{Quality: 80}); err != nil {
		return "", errors.Wrap(err, "encode jpeg")
	}
	return name, out.Close()
}

// SaveFile decodes the image at path and saves it into dir.
func SaveFile(path, dir string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(err, "open image")
	}
	defer f.Close()

	img, err := Decode(f, path)
	if err != nil {
		return "", err
	}
	return Save(img, dir)
}
