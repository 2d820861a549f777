// Package imaging loads bitmaps and normalizes their orientation.
//
// A Bitmap is a decoded image plus the EXIF orientation tag that says how its
// stored pixels must be rotated (and possibly mirrored) to render upright.
// Normalize draws such a bitmap through the matching affine transform so that
// downstream coordinate math can assume an unrotated frame.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y increasing downward. Rotations are described
// clockwise as seen on screen.
//
// # Orientation Families
//
// The eight EXIF tags fall into four rotation families:
//
//   - up, up-mirrored: no rotation
//   - down, down-mirrored: 180 degrees
//   - right, right-mirrored: 90 degrees clockwise (width and height swap)
//   - left, left-mirrored: 270 degrees clockwise (width and height swap)
//
// Mirrored tags share the rotation of their family. The horizontal flip is
// only applied when NormalizeOptions.CorrectMirroring is set.
//
// # Cropping
//
// CropRegion zooms into a rectangle of an upright image, typically a detected
// word's bounds, and returns it PNG encoded.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Normalize is a pure function
// and may be called from any goroutine as long as nobody mutates the input
// bitmap concurrently.
//
// # Error Handling
//
// Normalization failures are *OrientationError values matching
// ErrOrientation. They are never fatal: callers fall back to the original
// bitmap and show it without correction.
package imaging
