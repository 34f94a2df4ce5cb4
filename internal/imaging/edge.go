package imaging

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/convolution"
	"github.com/anthonynsimon/bild/effect"

	"github.com/ironsheep/morphology-mcp/internal/grid"
)

// EdgeDetector selects how Binarize turns an image into an edge map before
// thresholding.
type EdgeDetector int

const (
	// EdgesNone thresholds the luminance directly.
	EdgesNone EdgeDetector = iota
	// EdgesSobel thresholds the Sobel gradient magnitude.
	EdgesSobel
	// EdgesCanny runs Canny detection with the threshold as the strong
	// edge level and LowThreshold as the weak one.
	EdgesCanny
)

func (d EdgeDetector) String() string {
	switch d {
	case EdgesNone:
		return "none"
	case EdgesSobel:
		return "sobel"
	case EdgesCanny:
		return "canny"
	}
	return fmt.Sprintf("EdgeDetector(%d)", int(d))
}

// ParseEdgeDetector converts a detector name to an EdgeDetector. The empty
// string and "none" select EdgesNone.
func ParseEdgeDetector(name string) (EdgeDetector, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return EdgesNone, nil
	case "sobel":
		return EdgesSobel, nil
	case "canny":
		return EdgesCanny, nil
	}
	return EdgesNone, fmt.Errorf("unknown edge detector %q (want sobel or canny)", name)
}

// cannySmoothing is the bild Gaussian radius applied before the gradient,
// close to the usual sigma of 1.4.
const cannySmoothing = 1.0

// Canny marks the edges of img in a grid with one cell per pixel.
//
// The image is smoothed and converted to luminance, then the Sobel gradient
// is taken. Gradient magnitudes are on the scale of 0-255 luminance steps,
// so a hard black/white boundary scores several hundred. Only local maxima
// across the gradient direction survive. A surviving pixel at or above high
// is a strong edge; one at or above low is kept only when it is connected
// (8-neighbourhood) to a strong edge. low is raised to high when larger.
// The outermost ring of pixels is never an edge.
func Canny(img image.Image, low, high uint8) *grid.Grid[uint8] {
	if low > high {
		low = high
	}
	gray := effect.Grayscale(blur.Gaussian(img, cannySmoothing))
	bounds := gray.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	gx := signedConvolve(gray, []float64{
		-1, 0, 1,
		-2, 0, 2,
		-1, 0, 1,
	})
	gy := signedConvolve(gray, []float64{
		-1, -2, -1,
		0, 0, 0,
		1, 2, 1,
	})

	magnitude := make([]float64, width*height)
	for i := range magnitude {
		magnitude[i] = math.Hypot(gx[i], gy[i])
	}

	suppressed := make([]float64, width*height)
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			i := y*width + x
			n1, n2 := neighboursAcross(math.Atan2(gy[i], gx[i]), width)
			if m := magnitude[i]; m >= magnitude[i+n1] && m >= magnitude[i+n2] {
				suppressed[i] = m
			}
		}
	}

	return hysteresis(suppressed, width, height, float64(low), float64(high))
}

// neighboursAcross returns the index offsets of the two pixels on either
// side of a pixel along the gradient direction angle, quantized to 45
// degrees.
func neighboursAcross(angle float64, width int) (int, int) {
	a := math.Abs(angle)
	switch {
	case a < math.Pi/8 || a >= 7*math.Pi/8:
		return -1, 1
	case a >= 3*math.Pi/8 && a < 5*math.Pi/8:
		return -width, width
	case (angle > 0) == (a < math.Pi/2):
		// Gradient toward +x+y or -x-y.
		return -width - 1, width + 1
	default:
		return -width + 1, width - 1
	}
}

// hysteresis keeps strong pixels and every weak pixel connected to one.
func hysteresis(mag []float64, width, height int, low, high float64) *grid.Grid[uint8] {
	g := grid.New[uint8](height, width)
	var stack []int
	for i, m := range mag {
		if m >= high && m > 0 {
			g.Set(i/width, i%width, 1)
			stack = append(stack, i)
		}
	}

	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		y, x := i/width, i%width
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				ny, nx := y+dy, x+dx
				if ny < 0 || ny >= height || nx < 0 || nx >= width || g.Foreground(ny, nx) {
					continue
				}
				if j := ny*width + nx; mag[j] >= low && mag[j] > 0 {
					g.Set(ny, nx, 1)
					stack = append(stack, j)
				}
			}
		}
	}
	return g
}

// signedConvolve applies a 3x3 kernel to the red channel of a grayscale
// image and returns one value per pixel, sign included. bild clamps its
// output to 0-255, so the kernel is scaled down by four and applied once as
// given and once negated; the positive parts of the two runs recombine into
// the signed response.
func signedConvolve(src image.Image, matrix []float64) []float64 {
	pos := &convolution.Kernel{Matrix: make([]float64, 9), Width: 3, Height: 3}
	neg := &convolution.Kernel{Matrix: make([]float64, 9), Width: 3, Height: 3}
	for i, v := range matrix {
		pos.Matrix[i] = v / 4
		neg.Matrix[i] = -v / 4
	}
	opts := &convolution.Options{KeepAlpha: true}
	p := convolution.Convolve(src, pos, opts)
	n := convolution.Convolve(src, neg, opts)

	b := p.Bounds()
	out := make([]float64, b.Dx()*b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			off := y*p.Stride + x*4
			out[y*b.Dx()+x] = 4 * (float64(p.Pix[off]) - float64(n.Pix[off]))
		}
	}
	return out
}
