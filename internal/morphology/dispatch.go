package morphology

import (
	"fmt"
	"strings"

	"github.com/ironsheep/morphology-mcp/internal/grid"
)

// Operation selects the transform run by Morphology.
type Operation int

const (
	OperationErode Operation = iota
	OperationDilate
	OperationOpen
	OperationClose
	OperationTopHat
	OperationBottomHat
)

var operationNames = map[Operation]string{
	OperationErode:     "erode",
	OperationDilate:    "dilate",
	OperationOpen:      "open",
	OperationClose:     "close",
	OperationTopHat:    "tophat",
	OperationBottomHat: "bottomhat",
}

func (o Operation) String() string {
	if name, ok := operationNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Operation(%d)", int(o))
}

// Operations lists every operation in declaration order.
func Operations() []Operation {
	return []Operation{
		OperationErode,
		OperationDilate,
		OperationOpen,
		OperationClose,
		OperationTopHat,
		OperationBottomHat,
	}
}

// ParseOperation converts an operation name to an Operation. Matching is
// case-insensitive and ignores '-' and '_', so "top-hat" and "TOP_HAT" both
// select OperationTopHat. "erosion", "dilation", "opening" and "closing"
// are accepted as well.
func ParseOperation(name string) (Operation, error) {
	key := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(name))
	switch key {
	case "erode", "erosion":
		return OperationErode, nil
	case "dilate", "dilation":
		return OperationDilate, nil
	case "open", "opening":
		return OperationOpen, nil
	case "close", "closing":
		return OperationClose, nil
	case "tophat":
		return OperationTopHat, nil
	case "bottomhat":
		return OperationBottomHat, nil
	default:
		return 0, fmt.Errorf("%w: unknown operation %q", ErrInvalidArgument, name)
	}
}

// Morphology runs the transform selected by op. handleBorders is only used
// by OperationErode; the compositions use DefaultHandleBorders. An
// unrecognized op returns a copy of the image.
func Morphology[T, U grid.Pixel](image *grid.Grid[T], mask *grid.Grid[U], op Operation, handleBorders bool) (*grid.Grid[T], error) {
	switch op {
	case OperationErode:
		return Erode(image, mask, handleBorders)
	case OperationDilate:
		return Dilate(image, mask)
	case OperationOpen:
		return Open(image, mask)
	case OperationClose:
		return Close(image, mask)
	case OperationTopHat:
		return TopHat(image, mask)
	case OperationBottomHat:
		return BottomHat(image, mask)
	default:
		if err := checkImage(image); err != nil {
			return nil, err
		}
		return image.Clone(), nil
	}
}

// Options is a validated description of one morphology call: the
// operation, the structuring element to generate, and the erosion border
// policy.
type Options struct {
	Operation     Operation
	Shape         MaskShape
	MaskRows      int
	MaskCols      int
	HandleBorders bool
}

// DefaultOptions returns a 3x3 rectangular erosion with border handling.
func DefaultOptions() Options {
	return Options{
		Operation:     OperationErode,
		Shape:         MaskRectangular,
		MaskRows:      3,
		MaskCols:      3,
		HandleBorders: DefaultHandleBorders,
	}
}

// Validate checks that the options describe a usable transform.
func (o Options) Validate() error {
	if _, ok := operationNames[o.Operation]; !ok {
		return fmt.Errorf("%w: unknown operation %d", ErrInvalidArgument, int(o.Operation))
	}
	if _, ok := maskShapeNames[o.Shape]; !ok {
		return fmt.Errorf("%w: unknown mask shape %d", ErrInvalidArgument, int(o.Shape))
	}
	if o.MaskRows <= 0 {
		return fmt.Errorf("%w: mask rows must be positive, got %d", ErrInvalidArgument, o.MaskRows)
	}
	if o.MaskCols < 0 {
		return fmt.Errorf("%w: mask cols must not be negative, got %d", ErrInvalidArgument, o.MaskCols)
	}
	return nil
}

// Mask generates the structuring element described by the options.
func (o Options) Mask() (*grid.Grid[uint8], error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return CreateMask[uint8](o.Shape, o.MaskRows, o.MaskCols)
}

// Apply validates the options, builds the mask and runs the operation.
func Apply[T grid.Pixel](image *grid.Grid[T], o Options) (*grid.Grid[T], error) {
	mask, err := o.Mask()
	if err != nil {
		return nil, err
	}
	return Morphology(image, mask, o.Operation, o.HandleBorders)
}
