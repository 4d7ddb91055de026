// Package imagefile decodes image files and derives perceptual fingerprints.
package imagefile

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"image-ranker/internal/model"
)

// Decode reads one image from r, applying EXIF orientation. The format is
// sniffed from the content, never from the file name.
func Decode(name string, r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, &model.DecodeError{Name: name, Err: err}
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, &model.DecodeError{Name: name, Err: errors.New("empty image")}
	}
	return img, nil
}

// DecodeBytes is Decode over an in-memory file.
func DecodeBytes(name string, data []byte) (image.Image, error) {
	return Decode(name, bytes.NewReader(data))
}

// Open decodes the image stored at path.
func Open(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("image %s: %w", path, model.ErrNotFound)
		}
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	return Decode(path, f)
}
