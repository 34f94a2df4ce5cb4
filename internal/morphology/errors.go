package morphology

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/ironsheep/morphology-mcp/internal/grid"
)

// ErrInvalidArgument is wrapped by every error caused by unusable input,
// such as a zero-sized mask or a significance grid that does not match its
// mask.
var ErrInvalidArgument = errors.New("invalid argument")

var logger atomic.Pointer[zerolog.Logger]

func init() {
	nop := zerolog.Nop()
	logger.Store(&nop)
}

// SetLogger installs the logger used for non-fatal warnings.
func SetLogger(l zerolog.Logger) {
	logger.Store(&l)
}

func currentLogger() *zerolog.Logger {
	return logger.Load()
}

// warnMaskTooLarge reports a mask that does not fit inside the image.
func warnMaskTooLarge(op string, rows, cols, maskRows, maskCols int) {
	currentLogger().Warn().
		Str("op", op).
		Int("image_rows", rows).
		Int("image_cols", cols).
		Int("mask_rows", maskRows).
		Int("mask_cols", maskCols).
		Msg("mask cannot be larger than image")
}

func checkImage[T grid.Pixel](image *grid.Grid[T]) error {
	if image == nil {
		return fmt.Errorf("%w: nil image", ErrInvalidArgument)
	}
	return nil
}

func checkMask[U grid.Pixel](mask *grid.Grid[U]) error {
	if mask == nil {
		return fmt.Errorf("%w: nil mask", ErrInvalidArgument)
	}
	if mask.Rows() <= 0 || mask.Cols() <= 0 {
		return fmt.Errorf("%w: mask must have positive extents, got %dx%d",
			ErrInvalidArgument, mask.Rows(), mask.Cols())
	}
	return nil
}

func checkArgs[T, U grid.Pixel](image *grid.Grid[T], mask *grid.Grid[U]) error {
	if err := checkImage(image); err != nil {
		return err
	}
	return checkMask(mask)
}

// origin returns the mask cell aligned with the pixel under test.
func origin[U grid.Pixel](mask *grid.Grid[U]) (int, int) {
	return mask.Rows() / 2, mask.Cols() / 2
}

// offset is a foreground mask cell.
type offset struct {
	r, c int
}

// footprint lists the foreground cells of a mask in row-major order.
func footprint[U grid.Pixel](mask *grid.Grid[U]) []offset {
	out := make([]offset, 0, mask.Rows()*mask.Cols())
	for r := 0; r < mask.Rows(); r++ {
		for c, v := range mask.Row(r) {
			if grid.IsForeground(v) {
				out = append(out, offset{r, c})
			}
		}
	}
	return out
}
