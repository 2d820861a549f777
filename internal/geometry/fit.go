package geometry

import "fmt"

// Fit describes how an image is aspect-fit into a view: scaled uniformly so it
// fits entirely inside the view, then centered.
type Fit struct {
	// Scale is the uniform factor applied to image pixels.
	Scale float64 `json:"scale"`

	// Offset is the letterbox/pillarbox translation of the scaled image
	// inside the view.
	Offset Point `json:"offset"`

	// Footprint is the size of the scaled image inside the view.
	Footprint Size `json:"footprint"`
}

// AspectFit computes the fit of an image of the given pixel size into view.
//
// The image is scaled on its constraining axis: when the view is relatively
// wider than the image the heights are matched, otherwise the widths are. The
// scaled image is centered on both axes.
//
// AspectFit panics if either size has a non-positive dimension. Callers pass
// decoded image sizes and laid-out view sizes, so a zero dimension is a bug in
// the caller rather than a runtime condition.
func AspectFit(image Size, view ViewRect) Fit {
	if image.Width <= 0 || image.Height <= 0 {
		panic(fmt.Sprintf("geometry: image size must be positive, got %gx%g", image.Width, image.Height))
	}
	if view.Width <= 0 || view.Height <= 0 {
		panic(fmt.Sprintf("geometry: view size must be positive, got %gx%g", view.Width, view.Height))
	}

	var scale float64
	if view.Size().Aspect() > image.Aspect() {
		scale = view.Height / image.Height
	} else {
		scale = view.Width / image.Width
	}

	footprint := Size{Width: image.Width * scale, Height: image.Height * scale}
	return Fit{
		Scale: scale,
		Offset: Point{
			X: (view.Width - footprint.Width) / 2,
			Y: (view.Height - footprint.Height) / 2,
		},
		Footprint: footprint,
	}
}

// ToView maps an image-space rectangle into the view.
func (f Fit) ToView(r ImageRect) ViewRect {
	return ViewRect{
		X:      f.Offset.X + r.X*f.Scale,
		Y:      f.Offset.Y + r.Y*f.Scale,
		Width:  r.Width * f.Scale,
		Height: r.Height * f.Scale,
	}
}

// ToImage maps a view-space rectangle back into image pixels. It is the
// inverse of ToView.
func (f Fit) ToImage(r ViewRect) ImageRect {
	return ImageRect{
		X:      (r.X - f.Offset.X) / f.Scale,
		Y:      (r.Y - f.Offset.Y) / f.Scale,
		Width:  r.Width / f.Scale,
		Height: r.Height / f.Scale,
	}
}

// ImageFrame returns the view-space rectangle covered by the whole image.
func (f Fit) ImageFrame() ViewRect {
	return ViewRect{
		X:      f.Offset.X,
		Y:      f.Offset.Y,
		Width:  f.Footprint.Width,
		Height: f.Footprint.Height,
	}
}

// Scale maps a detection rectangle in image pixels to the view the image is
// aspect-fit into. The result is relative to the view's own origin; the
// origin of view is not added.
func Scale(r ImageRect, image Size, view ViewRect) ViewRect {
	return AspectFit(image, view).ToView(r)
}

// Unscale maps a view-space rectangle back to image pixels.
func Unscale(r ViewRect, image Size, view ViewRect) ImageRect {
	return AspectFit(image, view).ToImage(r)
}
