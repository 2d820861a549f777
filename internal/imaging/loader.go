package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"sync"

	"github.com/rwcarlsen/goexif/exif"
)

// ImageCache provides thread-safe caching of decoded bitmaps to avoid
// redundant disk reads.
//
// The cache stores *Bitmap values keyed by their file path. Once a file is
// loaded, subsequent Load() calls for the same path return the cached bitmap
// without disk I/O. Cached bitmaps are shared and must not be modified.
//
// ImageCache is safe for concurrent use by multiple goroutines.
//
// # Memory Management
//
// Cached bitmaps remain in memory until explicitly removed via Evict() or
// Clear().
type ImageCache struct {
	mu      sync.RWMutex
	bitmaps map[string]*Bitmap
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		bitmaps: make(map[string]*Bitmap),
	}
}

// Load retrieves a bitmap from the cache or decodes it from disk if not cached.
//
// Supported formats are PNG, JPEG and GIF. For JPEG files the EXIF orientation
// tag is read; a missing or unreadable tag leaves the bitmap tagged
// OrientationUp. The pixels are returned as stored, not normalized.
//
// # Errors
//
//   - Returns error if the file does not exist or cannot be read
//   - Returns error if the file is not a valid PNG, JPEG, or GIF image
func (c *ImageCache) Load(path string) (*Bitmap, error) {
	c.mu.RLock()
	if b, ok := c.bitmaps[path]; ok {
		c.mu.RUnlock()
		return b, nil
	}
	c.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	b, err := DecodeBitmap(data)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.bitmaps[path] = b
	c.mu.Unlock()

	return b, nil
}

// Clear removes all bitmaps from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.bitmaps = make(map[string]*Bitmap)
	c.mu.Unlock()
}

// Evict removes a specific bitmap from the cache by its path.
// If the path is not in the cache, this method does nothing.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.bitmaps, path)
	c.mu.Unlock()
}

// DecodeBitmap decodes encoded image bytes and their orientation tag.
func DecodeBitmap(data []byte) (*Bitmap, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	orientation := OrientationUp
	if format == "jpeg" {
		orientation = readOrientation(data)
	}

	return &Bitmap{
		Image:       img,
		Orientation: orientation,
		Format:      format,
	}, nil
}

// readOrientation returns the EXIF orientation tag, or OrientationUp when the
// file carries none.
func readOrientation(data []byte) Orientation {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return OrientationUp
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return OrientationUp
	}
	v, err := tag.Int(0)
	if err != nil {
		return OrientationUp
	}
	if o := Orientation(v); o.Valid() {
		return o
	}
	return OrientationUp
}

// ImageInfo contains metadata about a loaded image file.
type ImageInfo struct {
	// Width is the stored pixel width.
	Width int `json:"width"`

	// Height is the stored pixel height.
	Height int `json:"height"`

	// DisplayWidth and DisplayHeight are the dimensions once the
	// orientation tag is applied.
	DisplayWidth  int `json:"display_width"`
	DisplayHeight int `json:"display_height"`

	// Format is the decoder that read the file: "png", "jpeg" or "gif".
	Format string `json:"format"`

	// Orientation is the EXIF orientation value (1-8).
	Orientation int `json:"orientation"`

	// OrientationName is the readable form of Orientation, e.g. "right".
	OrientationName string `json:"orientation_name"`

	// ColorDepth indicates the bit depth per channel: "8-bit" or "16-bit".
	ColorDepth string `json:"color_depth"`

	// HasAlpha indicates whether the image has an alpha channel.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image and returns its metadata, including the
// orientation tag and the upright display dimensions.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	b, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	hasAlpha := false
	colorDepth := "8-bit"
	switch b.Image.(type) {
	case *image.RGBA, *image.NRGBA:
		hasAlpha = true
	case *image.RGBA64, *image.NRGBA64:
		hasAlpha = true
		colorDepth = "16-bit"
	case *image.Gray16:
		colorDepth = "16-bit"
	}

	pixels := b.PixelSize()
	display := b.DisplaySize()
	return &ImageInfo{
		Width:           int(pixels.Width),
		Height:          int(pixels.Height),
		DisplayWidth:    int(display.Width),
		DisplayHeight:   int(display.Height),
		Format:          b.Format,
		Orientation:     int(b.Orientation),
		OrientationName: b.Orientation.String(),
		ColorDepth:      colorDepth,
		HasAlpha:        hasAlpha,
		FileSizeBytes:   stat.Size(),
	}, nil
}
