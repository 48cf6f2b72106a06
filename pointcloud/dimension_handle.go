package pointcloud

import (
	"math"

	"github.com/golang/geo/r3"
)

// DimensionHandle is a resolved reference to a dimension of a schema. It carries everything
// needed to read and write the dimension in a point record so that a name only needs to be
// looked up once no matter how many records are visited.
type DimensionHandle struct {
	dim Dimension
}

// Resolve looks up the dimension with exactly the given name.
func Resolve(schema *Schema, name string) (DimensionHandle, error) {
	idx, ok := schema.nameIndex[name]
	if !ok {
		return DimensionHandle{}, NewDimensionNotFoundError(name)
	}
	return DimensionHandle{dim: schema.dims[idx]}, nil
}

// Dimension returns the resolved dimension.
func (h DimensionHandle) Dimension() Dimension {
	return h.dim
}

// Decode returns the logical value of the dimension stored in record.
func (h DimensionHandle) Decode(record []byte) float64 {
	raw := h.dim.Interpretation.read(record[h.dim.byteOffset:])
	if !h.dim.IsScaled() {
		return raw
	}
	return raw*h.dim.scale() + h.dim.Offset
}

// Encode stores value into record, inverting Decode. Integer dimensions round to the nearest
// integer, with halves rounded away from zero. Record is left untouched if the value cannot be
// represented.
func (h DimensionHandle) Encode(record []byte, value float64) error {
	raw, err := h.raw(value)
	if err != nil {
		return err
	}
	h.dim.Interpretation.write(record[h.dim.byteOffset:], raw)
	return nil
}

func (h DimensionHandle) raw(value float64) (float64, error) {
	raw := value
	if h.dim.IsScaled() {
		raw = (value - h.dim.Offset) / h.dim.scale()
	}
	if !h.dim.Interpretation.IsFloat() {
		raw = math.Round(raw)
	}
	if !h.dim.Interpretation.fits(raw) {
		return 0, NewEncodingOverflowError(h.dim, value)
	}
	return raw, nil
}

// SpatialHandles are the three resolved dimensions that make up a point's position.
type SpatialHandles struct {
	X, Y, Z DimensionHandle
}

// ResolveSpatial resolves the three named dimensions. It fails on the first missing name.
func ResolveSpatial(schema *Schema, xName, yName, zName string) (SpatialHandles, error) {
	var handles SpatialHandles
	var err error
	if handles.X, err = Resolve(schema, xName); err != nil {
		return SpatialHandles{}, err
	}
	if handles.Y, err = Resolve(schema, yName); err != nil {
		return SpatialHandles{}, err
	}
	if handles.Z, err = Resolve(schema, zName); err != nil {
		return SpatialHandles{}, err
	}
	return handles, nil
}

// Decode returns the position stored in record.
func (sh SpatialHandles) Decode(record []byte) r3.Vector {
	return r3.Vector{X: sh.X.Decode(record), Y: sh.Y.Decode(record), Z: sh.Z.Decode(record)}
}

// Encode stores v into record. Either all three values are written or, on error, none are.
func (sh SpatialHandles) Encode(record []byte, v r3.Vector) error {
	x, err := sh.X.raw(v.X)
	if err != nil {
		return err
	}
	y, err := sh.Y.raw(v.Y)
	if err != nil {
		return err
	}
	z, err := sh.Z.raw(v.Z)
	if err != nil {
		return err
	}
	sh.X.dim.Interpretation.write(record[sh.X.dim.byteOffset:], x)
	sh.Y.dim.Interpretation.write(record[sh.Y.dim.byteOffset:], y)
	sh.Z.dim.Interpretation.write(record[sh.Z.dim.byteOffset:], z)
	return nil
}
