package imaging

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/ironsheep/text-extractor-mcp/internal/geometry"
)

// Orientation is an EXIF orientation tag. It describes how the stored pixel
// grid must be rotated (and possibly mirrored) to render upright.
type Orientation int

// EXIF orientation values. The names describe where the top of the stored
// image ends up when it is displayed.
const (
	OrientationUp            Orientation = 1
	OrientationUpMirrored    Orientation = 2
	OrientationDown          Orientation = 3
	OrientationDownMirrored  Orientation = 4
	OrientationLeftMirrored  Orientation = 5
	OrientationRight         Orientation = 6
	OrientationRightMirrored Orientation = 7
	OrientationLeft          Orientation = 8
)

var orientationNames = map[Orientation]string{
	OrientationUp:            "up",
	OrientationUpMirrored:    "up-mirrored",
	OrientationDown:          "down",
	OrientationDownMirrored:  "down-mirrored",
	OrientationLeftMirrored:  "left-mirrored",
	OrientationRight:         "right",
	OrientationRightMirrored: "right-mirrored",
	OrientationLeft:          "left",
}

// Valid reports whether o is one of the eight EXIF values.
func (o Orientation) Valid() bool {
	return o >= OrientationUp && o <= OrientationLeft
}

func (o Orientation) String() string {
	if name, ok := orientationNames[o]; ok {
		return name
	}
	return fmt.Sprintf("orientation(%d)", int(o))
}

// Rotation returns the clockwise rotation in degrees (0, 90, 180 or 270)
// applied to the stored pixels to display them.
func (o Orientation) Rotation() int {
	switch o {
	case OrientationDown, OrientationDownMirrored:
		return 180
	case OrientationRight, OrientationRightMirrored:
		return 90
	case OrientationLeft, OrientationLeftMirrored:
		return 270
	default:
		return 0
	}
}

// Mirrored reports whether the tag includes a horizontal flip.
func (o Orientation) Mirrored() bool {
	switch o {
	case OrientationUpMirrored, OrientationDownMirrored, OrientationLeftMirrored, OrientationRightMirrored:
		return true
	}
	return false
}

// SwapsAxes reports whether the displayed image has its width and height
// swapped relative to the stored pixels.
func (o Orientation) SwapsAxes() bool {
	r := o.Rotation()
	return r == 90 || r == 270
}

// ParseOrientation accepts an EXIF number ("6") or a name ("right").
func ParseOrientation(s string) (Orientation, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for o, name := range orientationNames {
		if s == name || s == fmt.Sprintf("%d", int(o)) {
			return o, nil
		}
	}
	return 0, fmt.Errorf("unknown orientation: %q", s)
}

// Bitmap is a decoded image together with its orientation tag.
//
// A Bitmap is treated as immutable once decoded. Normalize returns a new
// Bitmap and never writes into the input.
type Bitmap struct {
	// Image holds the stored (possibly rotated) pixels.
	Image image.Image

	// Orientation is the tag read from the file, OrientationUp when absent.
	Orientation Orientation

	// Format is the decoder name: "png", "jpeg" or "gif".
	Format string
}

// PixelSize returns the size of the stored pixel grid.
func (b *Bitmap) PixelSize() geometry.Size {
	bounds := b.Image.Bounds()
	return geometry.Size{Width: float64(bounds.Dx()), Height: float64(bounds.Dy())}
}

// DisplaySize returns the size of the image as it renders upright.
func (b *Bitmap) DisplaySize() geometry.Size {
	s := b.PixelSize()
	if b.Orientation.SwapsAxes() {
		return geometry.Size{Width: s.Height, Height: s.Width}
	}
	return s
}

// ErrOrientation matches every *OrientationError via errors.Is.
var ErrOrientation = errors.New("orientation normalization failed")

// OrientationError reports why a bitmap could not be normalized. Callers
// recover by falling back to the original, possibly misoriented, bitmap.
type OrientationError struct {
	Orientation Orientation
	Reason      string
	Err         error
}

func (e *OrientationError) Error() string {
	msg := fmt.Sprintf("cannot normalize %s bitmap: %s", e.Orientation, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is makes errors.Is(err, ErrOrientation) true for any OrientationError.
func (e *OrientationError) Is(target error) bool {
	return target == ErrOrientation
}

func (e *OrientationError) Unwrap() error {
	return e.Err
}
