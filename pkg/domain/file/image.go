package file

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	xe "github.com/opensilex/phis/pkg/errors"
	"golang.org/x/image/draw"
)

// the content is not an image which can be resized.
var ErrNotImage = errors.New("content is not a JPEG or PNG image")

const jpegQuality = 90

// Resize scales the image in content to fit in width x height, keeping its aspect ratio.
//
// A zero dimension is not bounded. When both are zero, the image keeps its size.
// The result has the format of the source.
//
// Returns:
//
// - []byte: encoded image.
//
// - string: content type of the image, "image/jpeg" or "image/png".
//
// - error: ErrNotImage when content is neither JPEG nor PNG.
func Resize(content io.Reader, width, height int) ([]byte, string, error) {
	src, format, err := image.Decode(content)
	if errors.Is(err, image.ErrFormat) {
		return nil, "", xe.Wrap(ErrNotImage)
	}
	if err != nil {
		return nil, "", xe.Wrap(err)
	}

	w, h := fit(src.Bounds().Dx(), src.Bounds().Dy(), width, height)
	dst := image.Image(src)
	if w != src.Bounds().Dx() || h != src.Bounds().Dy() {
		scaled := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), src, src.Bounds(), draw.Over, nil)
		dst = scaled
	}

	buf := new(bytes.Buffer)
	switch format {
	case "jpeg":
		if err := jpeg.Encode(buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, "", xe.Wrap(err)
		}
		return buf.Bytes(), "image/jpeg", nil
	case "png":
		if err := png.Encode(buf, dst); err != nil {
			return nil, "", xe.Wrap(err)
		}
		return buf.Bytes(), "image/png", nil
	}
	return nil, "", xe.Wrap(ErrNotImage)
}

// fit is the largest size in the bounds with the aspect ratio of w x h. Zero bound is unbounded.
func fit(w, h, boundW, boundH int) (int, int) {
	if w == 0 || h == 0 || (boundW == 0 && boundH == 0) {
		return w, h
	}
	// scale by the tighter bound
	nw, nh := boundW, h*boundW/w
	if boundW == 0 || (boundH != 0 && boundH*w < boundW*h) {
		nw, nh = w*boundH/h, boundH
	}
	return max(nw, 1), max(nh, 1)
}
