package pointcloud

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/pcedit/spatialmath"
)

// PatchTransform turns one patch into a transformed copy.
type PatchTransform func(*Patch) (*Patch, error)

// Rotation returns a PatchTransform that calls RotatePatch.
func Rotation(q quat.Number, xName, yName, zName string) PatchTransform {
	return func(p *Patch) (*Patch, error) {
		return RotatePatch(p, q, xName, yName, zName)
	}
}

// Affine returns a PatchTransform that calls TransformPatchAffine.
func Affine(m spatialmath.AffineMatrix, xName, yName, zName string) PatchTransform {
	return func(p *Patch) (*Patch, error) {
		return TransformPatchAffine(p, m, xName, yName, zName)
	}
}

// TransformPatches applies transform to every patch, using up to workers goroutines (all
// patches at once when workers <= 0). Each patch is handled by exactly one goroutine. The
// results are in the same order as patches. The first failure stops any patch not yet started
// and is returned alone.
func TransformPatches(ctx context.Context, patches []*Patch, transform PatchTransform, workers int) ([]*Patch, error) {
	out := make([]*Patch, len(patches))
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, p := range patches {
		i, p := i, p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := transform(p)
			if err != nil {
				return errors.Wrapf(err, "patch %d", i)
			}
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
