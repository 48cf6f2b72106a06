package pointcloud

import (
	"fmt"

	"github.com/pkg/errors"
)

// DimensionNotFoundError is returned when a dimension name is not part of a schema.
type DimensionNotFoundError struct {
	Name string
}

func (e *DimensionNotFoundError) Error() string {
	return fmt.Sprintf("dimension %q does not exist in schema", e.Name)
}

// NewDimensionNotFoundError returns an error for a dimension name missing from a schema.
func NewDimensionNotFoundError(name string) error {
	return &DimensionNotFoundError{Name: name}
}

// IsDimensionNotFoundError returns whether err is, or wraps, a DimensionNotFoundError.
func IsDimensionNotFoundError(err error) bool {
	var errArt *DimensionNotFoundError
	return errors.As(err, &errArt)
}

// EncodingOverflowError is returned when a value cannot be stored in a dimension, either because
// it is out of range for the dimension's interpretation after scaling and rounding, or because it
// is not a finite number and the dimension stores integers.
type EncodingOverflowError struct {
	Dimension      string
	Interpretation Interpretation
	Value          float64
}

func (e *EncodingOverflowError) Error() string {
	return fmt.Sprintf("value %g does not fit dimension %q of type %s", e.Value, e.Dimension, e.Interpretation)
}

// NewEncodingOverflowError returns an error for a value that cannot be encoded in dimension d.
func NewEncodingOverflowError(d Dimension, value float64) error {
	return &EncodingOverflowError{Dimension: d.Name, Interpretation: d.Interpretation, Value: value}
}

// IsEncodingOverflowError returns whether err is, or wraps, an EncodingOverflowError.
func IsEncodingOverflowError(err error) bool {
	var errArt *EncodingOverflowError
	return errors.As(err, &errArt)
}
