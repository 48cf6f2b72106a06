package pointcloud

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Dimension is a named, typed field of a point record. When Scale or Offset are set the
// stored value is a fixed-point encoding of the logical value:
//
//	logical = raw*Scale + Offset
//
// A Scale of zero means the dimension is not scaled.
type Dimension struct {
	Name           string
	Description    string
	Interpretation Interpretation
	Scale          float64
	Offset         float64

	position   int
	byteOffset int
}

// NewDimension returns an unscaled dimension.
func NewDimension(name string, interp Interpretation) Dimension {
	return Dimension{Name: name, Interpretation: interp, Scale: 1}
}

// NewScaledDimension returns a dimension storing raw*scale+offset.
func NewScaledDimension(name string, interp Interpretation, scale, offset float64) Dimension {
	return Dimension{Name: name, Interpretation: interp, Scale: scale, Offset: offset}
}

// Position returns the index of the dimension within its schema.
func (d Dimension) Position() int {
	return d.position
}

// ByteOffset returns where the dimension starts inside a point record.
func (d Dimension) ByteOffset() int {
	return d.byteOffset
}

// Size returns the number of bytes the dimension occupies in a point record.
func (d Dimension) Size() int {
	return d.Interpretation.Size()
}

// IsScaled reports whether the dimension uses a fixed-point encoding.
func (d Dimension) IsScaled() bool {
	return d.scale() != 1 || d.Offset != 0
}

func (d Dimension) scale() float64 {
	if d.Scale == 0 {
		return 1
	}
	return d.Scale
}

// Schema describes the layout of point records: an ordered set of uniquely named dimensions
// stored back to back in little endian order. Schemas are immutable once built and are safe
// to share between goroutines.
type Schema struct {
	pcid       uint32
	dims       []Dimension
	size       int
	nameIndex  map[string]int
	xyzIndexes [3]int
}

// NewSchema lays out the given dimensions in order and returns the resulting schema.
// Dimension names are matched exactly, so "X" and "x" are distinct dimensions.
func NewSchema(pcid uint32, dims ...Dimension) (*Schema, error) {
	if len(dims) == 0 {
		return nil, errors.New("schema must have at least one dimension")
	}
	s := &Schema{
		pcid:       pcid,
		dims:       make([]Dimension, len(dims)),
		nameIndex:  make(map[string]int, len(dims)),
		xyzIndexes: [3]int{-1, -1, -1},
	}
	for i, d := range dims {
		if d.Name == "" {
			return nil, errors.Errorf("dimension %d has no name", i)
		}
		if _, ok := s.nameIndex[d.Name]; ok {
			return nil, errors.Errorf("dimension name %q is not unique", d.Name)
		}
		if d.Interpretation.Size() == 0 {
			return nil, errors.Errorf("dimension %q has unknown interpretation", d.Name)
		}
		d.position = i
		d.byteOffset = s.size
		s.size += d.Size()
		s.dims[i] = d
		s.nameIndex[d.Name] = i
	}

	// conventional spatial dimensions are recognized the same way regardless of case
	for axis, name := range []string{"X", "Y", "Z"} {
		for i, d := range s.dims {
			if strings.EqualFold(d.Name, name) {
				s.xyzIndexes[axis] = i
				break
			}
		}
	}
	return s, nil
}

// PCID returns the identifier the schema was registered under.
func (s *Schema) PCID() uint32 {
	return s.pcid
}

// Size returns the size in bytes of one point record.
func (s *Schema) Size() int {
	return s.size
}

// NumDimensions returns the number of dimensions in the schema.
func (s *Schema) NumDimensions() int {
	return len(s.dims)
}

// Dimension returns the dimension at the given position.
func (s *Schema) Dimension(i int) Dimension {
	return s.dims[i]
}

// Dimensions returns a copy of the schema's dimensions in order.
func (s *Schema) Dimensions() []Dimension {
	return append([]Dimension(nil), s.dims...)
}

// Names returns the dimension names in order.
func (s *Schema) Names() []string {
	return lo.Map(s.dims, func(d Dimension, _ int) string { return d.Name })
}

// SpatialNames returns the names of the schema's conventional X, Y and Z dimensions, if it
// has all three.
func (s *Schema) SpatialNames() (x, y, z string, ok bool) {
	for _, idx := range s.xyzIndexes {
		if idx < 0 {
			return "", "", "", false
		}
	}
	return s.dims[s.xyzIndexes[0]].Name, s.dims[s.xyzIndexes[1]].Name, s.dims[s.xyzIndexes[2]].Name, true
}

func (s *Schema) String() string {
	parts := lo.Map(s.dims, func(d Dimension, _ int) string {
		if d.IsScaled() {
			return fmt.Sprintf("%s:%s(%g,%g)", d.Name, d.Interpretation, d.scale(), d.Offset)
		}
		return fmt.Sprintf("%s:%s", d.Name, d.Interpretation)
	})
	return fmt.Sprintf("schema %d [%s]", s.pcid, strings.Join(parts, " "))
}

// A SchemaProvider maps schema identifiers to schemas.
type SchemaProvider interface {
	Schema(pcid uint32) (*Schema, error)
}

// SchemaRegistry is an in memory SchemaProvider. It is safe for concurrent use.
type SchemaRegistry struct {
	mu      sync.RWMutex
	schemas map[uint32]*Schema
}

// NewSchemaRegistry returns an empty registry.
func NewSchemaRegistry() *SchemaRegistry {
	return &SchemaRegistry{schemas: map[uint32]*Schema{}}
}

// Register adds a schema under its PCID. Registering two schemas with the same PCID is an error.
func (reg *SchemaRegistry) Register(s *Schema) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if _, ok := reg.schemas[s.PCID()]; ok {
		return errors.Errorf("schema with pcid %d already registered", s.PCID())
	}
	reg.schemas[s.PCID()] = s
	return nil
}

// Schema returns the schema registered under pcid.
func (reg *SchemaRegistry) Schema(pcid uint32) (*Schema, error) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	s, ok := reg.schemas[pcid]
	if !ok {
		return nil, errors.Errorf("no schema with pcid %d", pcid)
	}
	return s, nil
}
