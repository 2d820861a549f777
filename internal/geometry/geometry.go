// Package geometry maps detection rectangles between image-pixel space and
// the view an image is displayed in.
//
// Image-space and view-space rectangles are distinct types. The only way to
// move a rectangle from one space to the other is through a Fit, which keeps
// the two coordinate systems from being mixed by accident.
//
// # Coordinate System
//
// Both spaces put (0,0) at the top-left corner with X increasing rightward and
// Y increasing downward. All values are real-valued.
package geometry

import "fmt"

// Size is a width and height pair.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Aspect returns width divided by height.
func (s Size) Aspect() float64 {
	return s.Width / s.Height
}

// Point is a 2D position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ImageRect is a rectangle in source-image pixel coordinates.
type ImageRect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Size returns the rectangle's width and height.
func (r ImageRect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

func (r ImageRect) String() string {
	return fmt.Sprintf("image(%g,%g %gx%g)", r.X, r.Y, r.Width, r.Height)
}

// ViewRect is a rectangle in the coordinate space of the view an image is
// displayed in.
type ViewRect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Size returns the rectangle's width and height.
func (r ViewRect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// Center returns the midpoint of the rectangle.
func (r ViewRect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Corners returns the four corners clockwise from the top-left.
func (r ViewRect) Corners() []Point {
	return []Point{
		{X: r.X, Y: r.Y},
		{X: r.X + r.Width, Y: r.Y},
		{X: r.X + r.Width, Y: r.Y + r.Height},
		{X: r.X, Y: r.Y + r.Height},
	}
}

func (r ViewRect) String() string {
	return fmt.Sprintf("view(%g,%g %gx%g)", r.X, r.Y, r.Width, r.Height)
}
