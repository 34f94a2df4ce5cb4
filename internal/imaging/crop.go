package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Region is a region of interest in image coordinates. X1,Y1 is the
// inclusive top-left corner and X2,Y2 the exclusive bottom-right, so a
// region covers (X2-X1) x (Y2-Y1) pixels.
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Rect converts the region to an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2)
}

// CropRegion cuts r out of img. The result is re-based so its top-left pixel
// is (0,0). The region must be non-empty and lie inside the image.
func CropRegion(img image.Image, r Region) (image.Image, error) {
	if r.X1 >= r.X2 || r.Y1 >= r.Y2 {
		return nil, fmt.Errorf("empty region (%d,%d)-(%d,%d): need x1 < x2 and y1 < y2", r.X1, r.Y1, r.X2, r.Y2)
	}
	rect := r.Rect()
	if b := img.Bounds(); !rect.In(b) {
		return nil, fmt.Errorf("region %v outside image bounds %v", rect, b)
	}
	return imaging.Crop(img, rect), nil
}
