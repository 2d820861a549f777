package imaging

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// translation returns a homogeneous 3x3 translation matrix.
func translation(tx, ty float64) *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		1, 0, tx,
		0, 1, ty,
		0, 0, 1,
	})
}

// rotation returns a homogeneous 3x3 rotation by theta radians. With Y
// pointing down a positive angle turns clockwise on screen.
func rotation(theta float64) *mat.Dense {
	c, s := snap(math.Cos(theta)), snap(math.Sin(theta))
	return mat.NewDense(3, 3, []float64{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	})
}

// snap removes the rounding noise of cos/sin at multiples of pi/2 so pixel
// centers land exactly on integer boundaries.
func snap(v float64) float64 {
	if r := math.Round(v); math.Abs(v-r) < 1e-12 {
		return r
	}
	return v
}

// orientationTransform maps stored pixel coordinates to upright coordinates
// on a surface of outW x outH. The point is rotated first, then translated.
func orientationTransform(o Orientation, outW, outH float64) *mat.Dense {
	var t, r *mat.Dense
	switch o.Rotation() {
	case 180:
		t, r = translation(outW, outH), rotation(math.Pi)
	case 90:
		t, r = translation(outW, 0), rotation(math.Pi/2)
	case 270:
		t, r = translation(0, outH), rotation(-math.Pi/2)
	default:
		return translation(0, 0)
	}

	var m mat.Dense
	m.Mul(t, r)
	return &m
}

// affine is the 2x3 part of a homogeneous transform, unpacked for the pixel
// loop.
type affine struct {
	a, b, c float64
	d, e, f float64
}

func affineFrom(m mat.Matrix) affine {
	return affine{
		a: m.At(0, 0), b: m.At(0, 1), c: m.At(0, 2),
		d: m.At(1, 0), e: m.At(1, 1), f: m.At(1, 2),
	}
}

func (t affine) apply(x, y float64) (float64, float64) {
	return t.a*x + t.b*y + t.c, t.d*x + t.e*y + t.f
}
