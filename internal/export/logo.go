package export

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"

	"golang.org/x/image/draw"
)

// MaxLogoPixels bounds the longest side of an embedded logo
const MaxLogoPixels = 600

// loadLogo reads an image file and returns it PNG-encoded, downscaled so
// that neither side exceeds maxDim while keeping the aspect ratio
func loadLogo(path string, maxDim int) ([]byte, image.Rectangle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, image.Rectangle{}, fmt.Errorf("failed to read logo: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, image.Rectangle{}, fmt.Errorf("failed to decode logo: %w", err)
	}

	img = scale(img, maxDim)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, image.Rectangle{}, fmt.Errorf("failed to encode logo: %w", err)
	}
	return buf.Bytes(), img.Bounds(), nil
}

func scale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= maxDim && height <= maxDim {
		return img
	}

	var newWidth, newHeight int
	if width > height {
		newWidth = maxDim
		newHeight = max(1, int(float64(height)*float64(maxDim)/float64(width)))
	} else {
		newHeight = maxDim
		newWidth = max(1, int(float64(width)*float64(maxDim)/float64(height)))
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
