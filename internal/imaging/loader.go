package imaging

import (
	"container/list"
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
)

// ImageCache keeps recently decoded images keyed by path.
//
// An entry is reused only while the file's size and modification time are
// unchanged, so an image re-exported between tool calls is decoded again.
// At most the configured number of images is held; the least recently used
// one is dropped first. Images are decoded with EXIF auto-orientation, so a
// rotated JPEG is binarized the way it is displayed. A file whose header
// declares more pixels than the cache's pixel limit is refused before any
// pixel data is decoded.
//
//	cache := imaging.NewImageCache(16, 4<<20)
//	img, err := cache.Load("/path/to/scan.png")
//	if err != nil {
//	    return err
//	}
//	g := imaging.Binarize(img, imaging.BinarizeOptions{Threshold: 128})
type ImageCache struct {
	mu        sync.Mutex
	max       int
	maxPixels int
	order     *list.List // front = most recently used
	entries   map[string]*list.Element
}

// ErrImageTooLarge is wrapped by load errors for files over the pixel limit.
var ErrImageTooLarge = errors.New("image too large")

type cacheEntry struct {
	path    string
	img     image.Image
	size    int64
	modTime time.Time
}

// NewImageCache creates an empty cache holding at most maxEntries images.
// Values below one are treated as one. maxPixels bounds width*height of the
// files it will decode; zero or less disables the check.
func NewImageCache(maxEntries, maxPixels int) *ImageCache {
	return &ImageCache{
		max:       max(maxEntries, 1),
		maxPixels: maxPixels,
		order:     list.New(),
		entries:   make(map[string]*list.Element),
	}
}

// Load returns the decoded image at path, from the cache when the file is
// unchanged. Supported formats are those of the imaging library: PNG, JPEG,
// GIF, BMP and TIFF.
func (c *ImageCache) Load(path string) (image.Image, error) {
	e, err := c.load(path)
	if err != nil {
		return nil, err
	}
	return e.img, nil
}

func (c *ImageCache) load(path string) (*cacheEntry, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load image %s: %w", path, err)
	}

	c.mu.Lock()
	if el, ok := c.entries[path]; ok {
		e := el.Value.(*cacheEntry)
		if e.size == stat.Size() && e.modTime.Equal(stat.ModTime()) {
			c.order.MoveToFront(el)
			c.mu.Unlock()
			return e, nil
		}
	}
	c.mu.Unlock()

	if err := c.checkPixels(path); err != nil {
		return nil, err
	}
	// Decode outside the lock; concurrent misses on one path both decode
	// and the later store wins.
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to load image %s: %w", path, err)
	}
	e := &cacheEntry{path: path, img: img, size: stat.Size(), modTime: stat.ModTime()}

	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[path]; ok {
		el.Value = e
		c.order.MoveToFront(el)
	} else {
		c.entries[path] = c.order.PushFront(e)
	}
	for c.order.Len() > c.max {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).path)
	}
	return e, nil
}

// checkPixels reads only the image header of path and rejects files
// declaring more pixels than the limit.
func (c *ImageCache) checkPixels(path string) error {
	if c.maxPixels <= 0 {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to load image %s: %w", path, err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return fmt.Errorf("failed to load image %s: %w", path, err)
	}
	if n := int64(cfg.Width) * int64(cfg.Height); n > int64(c.maxPixels) {
		return fmt.Errorf("%w: %s is %dx%d, limit is %d pixels", ErrImageTooLarge, path, cfg.Width, cfg.Height, c.maxPixels)
	}
	return nil
}

// Len reports the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// ImageInfo describes an image file as the binarizer will see it.
type ImageInfo struct {
	// Width and Height are in pixels, after auto-orientation.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Pixels is Width*Height, the figure checked against the server's
	// pixel limit.
	Pixels int `json:"pixels"`

	// Format is detected from the file extension: "png", "jpeg", "gif",
	// "bmp", "tiff" or "unknown".
	Format string `json:"format"`

	// ColorModel is "gray", "gray16", "rgba", "rgba64", "ycbcr", "cmyk",
	// "paletted" or "other".
	ColorModel string `json:"color_model"`

	// Grayscale is true when the decoded image has a single channel, in
	// which case the luminance threshold applies to stored values directly.
	Grayscale bool `json:"grayscale"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image through the cache and returns its metadata.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	e, err := cache.load(path)
	if err != nil {
		return nil, err
	}

	model := colorModelName(e.img.ColorModel())
	return &ImageInfo{
		Width:         e.img.Bounds().Dx(),
		Height:        e.img.Bounds().Dy(),
		Pixels:        Pixels(e.img),
		Format:        formatFromExt(path),
		ColorModel:    model,
		Grayscale:     model == "gray" || model == "gray16",
		FileSizeBytes: e.size,
	}, nil
}

func colorModelName(m color.Model) string {
	switch m {
	case color.GrayModel:
		return "gray"
	case color.Gray16Model:
		return "gray16"
	case color.RGBAModel, color.NRGBAModel:
		return "rgba"
	case color.RGBA64Model, color.NRGBA64Model:
		return "rgba64"
	case color.YCbCrModel, color.NYCbCrAModel:
		return "ycbcr"
	case color.CMYKModel:
		return "cmyk"
	}
	if _, ok := m.(color.Palette); ok {
		return "paletted"
	}
	return "other"
}

func formatFromExt(path string) string {
	format, err := imaging.FormatFromFilename(path)
	if err != nil {
		return "unknown"
	}
	return strings.ToLower(format.String())
}

// DimensionsResult contains the width and height of an image.
type DimensionsResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// GetDimensions returns the dimensions of an image without additional metadata.
func GetDimensions(cache *ImageCache, path string) (*DimensionsResult, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}
	return &DimensionsResult{
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
	}, nil
}

// Pixels returns width*height of an image.
func Pixels(img image.Image) int {
	b := img.Bounds()
	return b.Dx() * b.Dy()
}
