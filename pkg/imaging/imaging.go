package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"net/http"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ErrUnsupported is returned for payloads that are not a decodable image.
var ErrUnsupported = errors.New("imaging: unsupported image format")

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// DetectType sniffs the payload and reports whether it is an accepted image type.
func DetectType(data []byte) (string, bool) {
	contentType := http.DetectContentType(data)
	return contentType, allowedTypes[contentType]
}

// Fit returns the dimensions of a w×h box scaled down to fit maxDimension,
// keeping aspect ratio. Smaller images are returned unchanged.
func Fit(width, height, maxDimension int) (int, int) {
	if width <= maxDimension && height <= maxDimension {
		return width, height
	}
	if width > height {
		return maxDimension, max(1, int(float64(height)*float64(maxDimension)/float64(width)))
	}
	return max(1, int(float64(width)*float64(maxDimension)/float64(height))), maxDimension
}

// Normalize decodes any registered format, downscales it to maxDimension and
// re-encodes it as JPEG at the given quality.
func Normalize(data []byte, maxDimension, quality int) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w (format: %q): %v", ErrUnsupported, format, err)
	}

	bounds := img.Bounds()
	newWidth, newHeight := Fit(bounds.Dx(), bounds.Dy(), maxDimension)

	resized := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
