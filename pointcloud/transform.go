package pointcloud

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/pcedit/spatialmath"
)

// RotatePoint returns a copy of pt with the position held in the three named dimensions rotated
// by the unit quaternion q. All other dimensions are copied unchanged.
func RotatePoint(pt *Point, q quat.Number, xName, yName, zName string) (*Point, error) {
	rm := spatialmath.RotationFromQuaternion(q)
	return transformPoint(pt, rm.Multiply, xName, yName, zName)
}

// TransformPointAffine returns a copy of pt with the position held in the three named dimensions
// moved by the affine matrix m. All other dimensions are copied unchanged.
func TransformPointAffine(pt *Point, m spatialmath.AffineMatrix, xName, yName, zName string) (*Point, error) {
	return transformPoint(pt, m.Transform, xName, yName, zName)
}

// RotatePatch returns a copy of patch with every point rotated by the unit quaternion q, see
// RotatePoint. If any point cannot be rotated no patch is returned.
func RotatePatch(patch *Patch, q quat.Number, xName, yName, zName string) (*Patch, error) {
	rm := spatialmath.RotationFromQuaternion(q)
	return transformPatch(patch, rm.Multiply, xName, yName, zName)
}

// TransformPatchAffine returns a copy of patch with every point moved by the affine matrix m, see
// TransformPointAffine. If any point cannot be moved no patch is returned.
func TransformPatchAffine(patch *Patch, m spatialmath.AffineMatrix, xName, yName, zName string) (*Patch, error) {
	return transformPatch(patch, m.Transform, xName, yName, zName)
}

// TranslatePatch returns a copy of patch with every point offset by (dx, dy, dz).
func TranslatePatch(patch *Patch, dx, dy, dz float64, xName, yName, zName string) (*Patch, error) {
	return TransformPatchAffine(patch, spatialmath.NewTranslation(dx, dy, dz), xName, yName, zName)
}

func transformPoint(pt *Point, fn func(r3.Vector) r3.Vector, xName, yName, zName string) (*Point, error) {
	handles, err := ResolveSpatial(pt.schema, xName, yName, zName)
	if err != nil {
		return nil, err
	}
	data, _, _, err := transformRecords(pt.schema, pt.data, handles, fn)
	if err != nil {
		return nil, err
	}
	return &Point{schema: pt.schema, data: data}, nil
}

func transformPatch(patch *Patch, fn func(r3.Vector) r3.Vector, xName, yName, zName string) (*Patch, error) {
	handles, err := ResolveSpatial(patch.schema, xName, yName, zName)
	if err != nil {
		return nil, err
	}
	data, extent, failed, err := transformRecords(patch.schema, patch.data, handles, fn)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot transform point %d of patch", failed)
	}
	// statistics of the input no longer describe the output, so none are carried over
	return &Patch{
		schema:  patch.schema,
		npoints: patch.npoints,
		data:    data,
		extent:  extent,
	}, nil
}

// transformRecords moves the position of every record in data by fn and returns the new records
// along with the extent of the stored positions. On failure it returns the index of the record
// that could not be encoded and data is left untouched.
func transformRecords(
	schema *Schema,
	data []byte,
	handles SpatialHandles,
	fn func(r3.Vector) r3.Vector,
) ([]byte, Extent, int, error) {
	size := schema.Size()
	out := append([]byte(nil), data...)
	extent := NewExtent()
	for i, off := 0, 0; off < len(out); i, off = i+1, off+size {
		record := out[off : off+size]
		if err := handles.Encode(record, fn(handles.Decode(record))); err != nil {
			return nil, Extent{}, i, err
		}
		// decode again so the extent bounds what was actually stored
		extent.Merge(handles.Decode(record))
	}
	return out, extent, -1, nil
}
