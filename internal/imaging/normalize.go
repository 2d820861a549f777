package imaging

import (
	"image"
	"image/draw"
	"math"

	"github.com/anthonynsimon/bild/transform"
	"gonum.org/v1/gonum/mat"
)

// maxSurfacePixels bounds the drawing surface Normalize will allocate.
const maxSurfacePixels = 1 << 28

// NormalizeOptions controls orientation normalization.
type NormalizeOptions struct {
	// CorrectMirroring flips mirrored tags horizontally before rotating.
	// When false (the default) a mirrored tag is handled exactly like its
	// unmirrored rotation, so mirrored images come out rotated but not
	// flipped.
	CorrectMirroring bool
}

// Normalize returns a bitmap whose pixels are visually upright.
//
// An upright bitmap is returned as is, without copying. For every other tag
// the stored pixels are drawn through the orientation transform onto a new
// surface of the display size: the stored size for 0 and 180 degrees, the
// swapped size for 90 and 270. The new bitmap is tagged OrientationUp and
// keeps the source pixel format where the format is a standard library type.
//
// Normalize returns an *OrientationError (matching ErrOrientation) when the
// bitmap has no pixels, its color model is unknown, the surface cannot be
// allocated, or the transform cannot be inverted. The input is never modified.
func Normalize(b *Bitmap, opts NormalizeOptions) (*Bitmap, error) {
	if b == nil || b.Image == nil {
		return nil, &OrientationError{Orientation: OrientationUp, Reason: "bitmap has no backing pixels"}
	}
	if b.Orientation == OrientationUp {
		return b, nil
	}
	if !b.Orientation.Valid() {
		return nil, &OrientationError{Orientation: b.Orientation, Reason: "unknown orientation tag"}
	}
	if b.Image.ColorModel() == nil {
		return nil, &OrientationError{Orientation: b.Orientation, Reason: "color model cannot be determined"}
	}

	display := b.DisplaySize()
	outW, outH := int(display.Width), int(display.Height)
	if outW <= 0 || outH <= 0 || outW*outH > maxSurfacePixels {
		return nil, &OrientationError{Orientation: b.Orientation, Reason: "drawing surface cannot be allocated"}
	}

	src := b.Image
	if opts.CorrectMirroring && b.Orientation.Mirrored() {
		src = transform.FlipH(src)
	}

	var inv mat.Dense
	if err := inv.Inverse(orientationTransform(b.Orientation, display.Width, display.Height)); err != nil {
		return nil, &OrientationError{Orientation: b.Orientation, Reason: "orientation transform is not invertible", Err: err}
	}

	dst := newSurface(b.Image, outW, outH)
	drawTransformed(dst, src, affineFrom(&inv))

	return &Bitmap{
		Image:       dst,
		Orientation: OrientationUp,
		Format:      b.Format,
	}, nil
}

// newSurface allocates a w x h image in the pixel format of like.
func newSurface(like image.Image, w, h int) draw.Image {
	r := image.Rect(0, 0, w, h)
	switch like.(type) {
	case *image.Gray:
		return image.NewGray(r)
	case *image.Gray16:
		return image.NewGray16(r)
	case *image.RGBA:
		return image.NewRGBA(r)
	case *image.RGBA64:
		return image.NewRGBA64(r)
	case *image.NRGBA64:
		return image.NewNRGBA64(r)
	default:
		return image.NewNRGBA(r)
	}
}

// drawTransformed fills dst by sampling src at the inverse-transformed center
// of every destination pixel.
func drawTransformed(dst draw.Image, src image.Image, inv affine) {
	sb := src.Bounds()
	db := dst.Bounds()
	for y := db.Min.Y; y < db.Max.Y; y++ {
		for x := db.Min.X; x < db.Max.X; x++ {
			fx, fy := inv.apply(float64(x-db.Min.X)+0.5, float64(y-db.Min.Y)+0.5)
			sx := sb.Min.X + int(math.Floor(fx))
			sy := sb.Min.Y + int(math.Floor(fy))
			if sx < sb.Min.X || sx >= sb.Max.X || sy < sb.Min.Y || sy >= sb.Max.Y {
				continue
			}
			dst.Set(x, y, src.At(sx, sy))
		}
	}
}
