package file_test

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/opensilex/phis/pkg/domain/file"
)

// picture is a w x h gradient, encoded in format ("png" or "jpeg").
func picture(t *testing.T, format string, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 128, A: 255})
		}
	}
	buf := new(bytes.Buffer)
	var err error
	switch format {
	case "png":
		err = png.Encode(buf, img)
	case "jpeg":
		err = jpeg.Encode(buf, img, nil)
	}
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestResize(t *testing.T) {
	for name, testcase := range map[string]struct {
		format        string
		width, height int
		thenType      string
		thenFormat    string
		thenW, thenH  int
	}{
		"width only keeps aspect ratio": {
			format: "png", width: 10,
			thenType: "image/png", thenFormat: "png", thenW: 10, thenH: 5,
		},
		"height only keeps aspect ratio": {
			format: "jpeg", height: 10,
			thenType: "image/jpeg", thenFormat: "jpeg", thenW: 20, thenH: 10,
		},
		"both fit in the box": {
			format: "png", width: 10, height: 10,
			thenType: "image/png", thenFormat: "png", thenW: 10, thenH: 5,
		},
		"tall box is bounded by width": {
			format: "jpeg", width: 8, height: 100,
			thenType: "image/jpeg", thenFormat: "jpeg", thenW: 8, thenH: 4,
		},
		"it can enlarge": {
			format: "png", width: 80,
			thenType: "image/png", thenFormat: "png", thenW: 80, thenH: 40,
		},
	} {
		t.Run(name, func(t *testing.T) {
			got, ctype, err := file.Resize(bytes.NewReader(picture(t, testcase.format, 40, 20)), testcase.width, testcase.height)
			if err != nil {
				t.Fatal(err)
			}
			if ctype != testcase.thenType {
				t.Errorf("content type = %s, expected %s", ctype, testcase.thenType)
			}
			cfg, format, err := image.DecodeConfig(bytes.NewReader(got))
			if err != nil {
				t.Fatal(err)
			}
			if format != testcase.thenFormat || cfg.Width != testcase.thenW || cfg.Height != testcase.thenH {
				t.Errorf(
					"resized = %s %dx%d, expected %s %dx%d",
					format, cfg.Width, cfg.Height, testcase.thenFormat, testcase.thenW, testcase.thenH,
				)
			}
		})
	}

	t.Run("other content is not an image", func(t *testing.T) {
		_, _, err := file.Resize(strings.NewReader("a,b\n1,2\n"), 10, 10)
		if !errors.Is(err, file.ErrNotImage) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
