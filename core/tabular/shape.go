package tabular

import "github.com/gcopen/cheetah/schema"

// Shape classifies a column by its first non-missing cell.
type Shape uint8

// All column shapes.
const (
	ShapeMissing Shape = iota
	ShapeNumber
	ShapeText
	ShapeNumericSequence
)

// String returns the lowercase name of the shape.
func (s Shape) String() string {
	switch s {
	case ShapeNumber:
		return "number"
	case ShapeText:
		return "text"
	case ShapeNumericSequence:
		return "numeric sequence"
	default:
		return "missing"
	}
}

// ShapeOf returns the shape of a column. An all-missing column is ShapeMissing.
func ShapeOf(values []schema.Value) Shape {
	for _, v := range values {
		switch v.Kind() {
		case schema.KindNumber:
			return ShapeNumber
		case schema.KindText:
			return ShapeText
		case schema.KindSequence:
			return ShapeNumericSequence
		}
	}
	return ShapeMissing
}
