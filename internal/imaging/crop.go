package imaging

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/text-extractor-mcp/internal/geometry"
)

// CropRegion cuts r out of img, grown by padding pixels on every side and
// clipped to the image, then resizes it by scale. It is used to zoom into a
// detected word.
//
// r is in the pixel space of img with the origin at the image's top-left
// corner, even when img.Bounds() does not start at zero.
func CropRegion(img image.Image, r geometry.ImageRect, padding int, scale float64) (*EncodedImage, error) {
	if r.Width <= 0 || r.Height <= 0 {
		return nil, fmt.Errorf("invalid crop region %v: width and height must be positive", r)
	}
	if padding < 0 {
		return nil, fmt.Errorf("padding must not be negative, got %d", padding)
	}
	if scale <= 0 {
		scale = 1.0
	}

	bounds := img.Bounds()
	rect := image.Rect(
		int(math.Floor(r.X))-padding,
		int(math.Floor(r.Y))-padding,
		int(math.Ceil(r.X+r.Width))+padding,
		int(math.Ceil(r.Y+r.Height))+padding,
	).Add(bounds.Min).Intersect(bounds)
	if rect.Empty() {
		return nil, fmt.Errorf("crop region %v outside image bounds %dx%d", r, bounds.Dx(), bounds.Dy())
	}

	cropped := imaging.Crop(img, rect)

	if scale != 1.0 {
		newWidth := int(math.Round(float64(cropped.Bounds().Dx()) * scale))
		newHeight := int(math.Round(float64(cropped.Bounds().Dy()) * scale))
		if newWidth < 1 || newHeight < 1 {
			return nil, fmt.Errorf("scale %g shrinks the region to nothing", scale)
		}
		cropped = imaging.Resize(cropped, newWidth, newHeight, imaging.Lanczos)
	}

	return EncodePNG(cropped)
}
