// Package pointcloud defines schema-described point records, patches of them, and the
// transforms that rotate or otherwise affinely move their spatial dimensions.
//
// Points and patches carry raw records. Only the three dimensions named in a transform are
// decoded, moved and re-encoded; every other byte of a record is copied as is. Transforms
// never modify their input and always return a new point or patch. Callers must not mutate a
// patch while a transform over it is in flight.
package pointcloud

import (
	"math"

	"github.com/golang/geo/r3"
)

// Extent is the axis aligned bounding box of a set of positions.
type Extent struct {
	MinX, MaxX float64
	MinY, MaxY float64
	MinZ, MaxZ float64
}

// NewExtent returns an empty extent that any merged position will replace.
func NewExtent() Extent {
	return Extent{
		MinX: math.MaxFloat64,
		MinY: math.MaxFloat64,
		MinZ: math.MaxFloat64,
		MaxX: -math.MaxFloat64,
		MaxY: -math.MaxFloat64,
		MaxZ: -math.MaxFloat64,
	}
}

// IsEmpty reports whether nothing has been merged into the extent.
func (e Extent) IsEmpty() bool {
	return e.MinX > e.MaxX
}

// Merge grows the extent to include v.
func (e *Extent) Merge(v r3.Vector) {
	if v.X > e.MaxX {
		e.MaxX = v.X
	}
	if v.Y > e.MaxY {
		e.MaxY = v.Y
	}
	if v.Z > e.MaxZ {
		e.MaxZ = v.Z
	}

	if v.X < e.MinX {
		e.MinX = v.X
	}
	if v.Y < e.MinY {
		e.MinY = v.Y
	}
	if v.Z < e.MinZ {
		e.MinZ = v.Z
	}
}

// Contains reports whether v lies inside the extent, bounds included.
func (e Extent) Contains(v r3.Vector) bool {
	return v.X >= e.MinX && v.X <= e.MaxX &&
		v.Y >= e.MinY && v.Y <= e.MaxY &&
		v.Z >= e.MinZ && v.Z <= e.MaxZ
}

// Min returns the minimum corner of the extent.
func (e Extent) Min() r3.Vector {
	return r3.Vector{X: e.MinX, Y: e.MinY, Z: e.MinZ}
}

// Max returns the maximum corner of the extent.
func (e Extent) Max() r3.Vector {
	return r3.Vector{X: e.MaxX, Y: e.MaxY, Z: e.MaxZ}
}
