package pointcloud

import (
	"github.com/pkg/errors"
)

// Patch is an ordered batch of points sharing one schema. It caches the bounding extent of its
// points and, once computed, per dimension statistics.
type Patch struct {
	schema  *Schema
	npoints int
	data    []byte

	extent Extent
	stats  *Stats
}

// NewPatch returns a patch holding copies of the given points, in order. All points must use
// schema. The extent is computed over the schema's X, Y and Z dimensions when it has them.
func NewPatch(schema *Schema, points ...*Point) (*Patch, error) {
	data := make([]byte, 0, len(points)*schema.Size())
	for i, pt := range points {
		if pt.schema != schema {
			return nil, errors.Errorf("point %d uses schema %d, patch uses schema %d", i, pt.schema.PCID(), schema.PCID())
		}
		data = append(data, pt.data...)
	}
	return newPatch(schema, data), nil
}

// NewPatchFromBytes returns a patch over a copy of data, which must hold whole point records.
func NewPatchFromBytes(schema *Schema, data []byte) (*Patch, error) {
	if len(data)%schema.Size() != 0 {
		return nil, errors.Errorf("patch data of %d bytes is not a multiple of the %d byte record size", len(data), schema.Size())
	}
	return newPatch(schema, append([]byte(nil), data...)), nil
}

func newPatch(schema *Schema, data []byte) *Patch {
	p := &Patch{
		schema:  schema,
		npoints: len(data) / schema.Size(),
		data:    data,
		extent:  NewExtent(),
	}
	if x, y, z, ok := schema.SpatialNames(); ok {
		// the names come from the schema itself so they always resolve
		if extent, err := p.ComputeExtent(x, y, z); err == nil {
			p.extent = extent
		}
	}
	return p
}

// Schema returns the schema shared by the patch's points.
func (p *Patch) Schema() *Schema {
	return p.schema
}

// NumPoints returns the number of points in the patch.
func (p *Patch) NumPoints() int {
	return p.npoints
}

func (p *Patch) record(i int) []byte {
	size := p.schema.Size()
	return p.data[i*size : (i+1)*size]
}

// Point returns a copy of the i-th point.
func (p *Patch) Point(i int) *Point {
	return &Point{schema: p.schema, data: append([]byte(nil), p.record(i)...)}
}

// Bytes returns a copy of the patch's records.
func (p *Patch) Bytes() []byte {
	return append([]byte(nil), p.data...)
}

// Iterate calls fn with a copy of each point in order until fn returns false.
func (p *Patch) Iterate(fn func(i int, pt *Point) bool) {
	for i := 0; i < p.npoints; i++ {
		if !fn(i, p.Point(i)) {
			return
		}
	}
}

// Extent returns the cached bounding extent of the patch.
func (p *Patch) Extent() Extent {
	return p.extent
}

// ComputeExtent returns the bounding extent of the patch's points along the three named
// dimensions. It does not change the cached extent.
func (p *Patch) ComputeExtent(xName, yName, zName string) (Extent, error) {
	handles, err := ResolveSpatial(p.schema, xName, yName, zName)
	if err != nil {
		return Extent{}, err
	}
	extent := NewExtent()
	for i := 0; i < p.npoints; i++ {
		extent.Merge(handles.Decode(p.record(i)))
	}
	return extent, nil
}

// Stats returns the cached statistics, or nil if they have not been computed.
func (p *Patch) Stats() *Stats {
	return p.stats
}

// ComputeStats computes and caches the minimum, maximum and average of every dimension.
func (p *Patch) ComputeStats() *Stats {
	stats := newStats(p.schema)
	handles := make([]DimensionHandle, p.schema.NumDimensions())
	for i, d := range p.schema.dims {
		handles[i] = DimensionHandle{dim: d}
	}
	for i := 0; i < p.npoints; i++ {
		record := p.record(i)
		for j, h := range handles {
			stats.merge(j, h.Decode(record))
		}
	}
	stats.finish(p.npoints)
	p.stats = stats
	return stats
}
