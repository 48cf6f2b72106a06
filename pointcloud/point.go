package pointcloud

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// NewVector convenience method for creating a vector.
func NewVector(x, y, z float64) r3.Vector {
	return r3.Vector{X: x, Y: y, Z: z}
}

// Point is a single point record: one raw value per dimension of its schema, laid out as the
// schema describes.
type Point struct {
	schema *Schema
	data   []byte
}

// NewPoint returns a point of the given schema with every raw value set to zero.
func NewPoint(schema *Schema) *Point {
	return &Point{schema: schema, data: make([]byte, schema.Size())}
}

// NewPointFromBytes returns a point holding a copy of the given record.
func NewPointFromBytes(schema *Schema, data []byte) (*Point, error) {
	if len(data) != schema.Size() {
		return nil, errors.Errorf("point record is %d bytes, schema %d expects %d", len(data), schema.PCID(), schema.Size())
	}
	return &Point{schema: schema, data: append([]byte(nil), data...)}, nil
}

// NewPointFromValues returns a point holding the given logical values, one per dimension in
// schema order.
func NewPointFromValues(schema *Schema, values ...float64) (*Point, error) {
	if len(values) != schema.NumDimensions() {
		return nil, errors.Errorf("got %d values for a schema of %d dimensions", len(values), schema.NumDimensions())
	}
	pt := NewPoint(schema)
	for i, v := range values {
		h := DimensionHandle{dim: schema.dims[i]}
		if err := h.Encode(pt.data, v); err != nil {
			return nil, err
		}
	}
	return pt, nil
}

// Schema returns the schema of the point.
func (pt *Point) Schema() *Schema {
	return pt.schema
}

// Bytes returns a copy of the raw record.
func (pt *Point) Bytes() []byte {
	return append([]byte(nil), pt.data...)
}

// Clone returns a deep copy of the point.
func (pt *Point) Clone() *Point {
	return &Point{schema: pt.schema, data: pt.Bytes()}
}

// Get returns the logical value of the named dimension.
func (pt *Point) Get(name string) (float64, error) {
	h, err := Resolve(pt.schema, name)
	if err != nil {
		return 0, err
	}
	return h.Decode(pt.data), nil
}

// Set stores the logical value of the named dimension.
func (pt *Point) Set(name string, value float64) error {
	h, err := Resolve(pt.schema, name)
	if err != nil {
		return err
	}
	return h.Encode(pt.data, value)
}

// Values returns the logical value of every dimension in schema order.
func (pt *Point) Values() []float64 {
	values := make([]float64, len(pt.schema.dims))
	for i, d := range pt.schema.dims {
		values[i] = DimensionHandle{dim: d}.Decode(pt.data)
	}
	return values
}

// Position returns the point's position along the three named dimensions.
func (pt *Point) Position(xName, yName, zName string) (r3.Vector, error) {
	handles, err := ResolveSpatial(pt.schema, xName, yName, zName)
	if err != nil {
		return r3.Vector{}, err
	}
	return handles.Decode(pt.data), nil
}
