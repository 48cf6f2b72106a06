// Package config defines the job files that drive batch transforms of LAS files.
package config

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/pcedit/logging"
	"go.viam.com/pcedit/pointcloud"
	"go.viam.com/pcedit/spatialmath"
)

// DefaultPCID is the schema identifier given to patches read by a job that does not set one.
const DefaultPCID = 1

// Config describes one batch transform: every input file is read into a patch, moved by the
// same transform and written to OutputDir under its original base name. Inputs are given
// consecutive schema identifiers starting at PCID.
type Config struct {
	Inputs     []string    `json:"inputs"`
	OutputDir  string      `json:"output_dir"`
	PCID       uint32      `json:"pcid,omitempty"`
	Dimensions Dimensions  `json:"dimensions"`
	Quaternion *Quaternion `json:"quaternion,omitempty"`
	// Affine is a row major 3x4 matrix: a, b, c, xoff, d, e, f, yoff, g, h, i, zoff.
	Affine []float64 `json:"affine,omitempty"`
	// Translate is applied after Quaternion or Affine when either is set.
	Translate *Translation `json:"translate,omitempty"`

	// Normalize rescales the quaternion to unit length before it is used.
	Normalize bool `json:"normalize,omitempty"`
	// Workers bounds how many files are transformed at once. Zero means no bound.
	Workers int `json:"workers,omitempty"`

	LogLevel  string                        `json:"log_level,omitempty"`
	LogConfig []logging.LoggerPatternConfig `json:"log_configuration,omitempty"`

	ConfigFilePath string `json:"-"`
}

// Dimensions names the schema dimensions holding a point's position.
type Dimensions struct {
	X string `json:"x"`
	Y string `json:"y"`
	Z string `json:"z"`
}

// Quaternion is a rotation given as (w, x, y, z).
type Quaternion struct {
	W float64 `json:"w"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Number returns the quaternion as a gonum quaternion.
func (q Quaternion) Number() quat.Number {
	return spatialmath.NewQuaternion(q.W, q.X, q.Y, q.Z)
}

// Translation is an offset along each axis.
type Translation struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Validate ensures the dimension names are usable. Leaving all three empty selects X, Y and Z.
func (d *Dimensions) Validate(path string) error {
	if d.X == "" && d.Y == "" && d.Z == "" {
		d.X, d.Y, d.Z = pointcloud.LASDimX, pointcloud.LASDimY, pointcloud.LASDimZ
		return nil
	}
	if d.X == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "x")
	}
	if d.Y == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "y")
	}
	if d.Z == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "z")
	}
	if d.X == d.Y || d.Y == d.Z || d.X == d.Z {
		return utils.NewConfigValidationError(path, errors.New("x, y and z must name different dimensions"))
	}
	return nil
}

// Ensure validates the config and fills in defaults. Every problem found is returned.
func (c *Config) Ensure() error {
	var allErrs error
	if len(c.Inputs) == 0 {
		allErrs = multierr.Append(allErrs, utils.NewConfigValidationFieldRequiredError("job", "inputs"))
	}
	outputs := make(map[string]int, len(c.Inputs))
	for idx, in := range c.Inputs {
		path := fmt.Sprintf("inputs.%d", idx)
		if in == "" {
			allErrs = multierr.Append(allErrs, utils.NewConfigValidationError(path, errors.New("path must not be empty")))
			continue
		}
		base := filepath.Base(in)
		if other, ok := outputs[base]; ok {
			allErrs = multierr.Append(allErrs, utils.NewConfigValidationError(path,
				errors.Errorf("output %q is also written by inputs.%d", base, other)))
			continue
		}
		outputs[base] = idx
	}
	if c.OutputDir == "" {
		allErrs = multierr.Append(allErrs, utils.NewConfigValidationFieldRequiredError("job", "output_dir"))
	}
	if c.PCID == 0 {
		c.PCID = DefaultPCID
	}
	if last := uint64(c.PCID) + uint64(len(c.Inputs)); len(c.Inputs) > 0 && last-1 > math.MaxUint32 {
		allErrs = multierr.Append(allErrs, utils.NewConfigValidationError("pcid",
			errors.Errorf("%d inputs do not fit schema identifiers starting at %d", len(c.Inputs), c.PCID)))
	}
	allErrs = multierr.Append(allErrs, c.Dimensions.Validate("dimensions"))
	allErrs = multierr.Append(allErrs, c.validateTransform())
	if c.Workers < 0 {
		allErrs = multierr.Append(allErrs, utils.NewConfigValidationError("workers", errors.New("must not be negative")))
	}
	if c.LogLevel != "" {
		if _, err := logging.LevelFromString(c.LogLevel); err != nil {
			allErrs = multierr.Append(allErrs, utils.NewConfigValidationError("log_level", err))
		}
	}
	for idx, lpc := range c.LogConfig {
		if err := lpc.Validate(); err != nil {
			allErrs = multierr.Append(allErrs, utils.NewConfigValidationError(fmt.Sprintf("log_configuration.%d", idx), err))
		}
	}
	return allErrs
}

func (c *Config) validateTransform() error {
	switch {
	case c.Quaternion == nil && c.Affine == nil && c.Translate == nil:
		return utils.NewConfigValidationError("job", errors.New("one of quaternion, affine or translate is required"))
	case c.Quaternion != nil && c.Affine != nil:
		return utils.NewConfigValidationError("job", errors.New("only one of quaternion or affine may be set"))
	}
	if c.Affine != nil && len(c.Affine) != 12 {
		return utils.NewConfigValidationError("affine", errors.Errorf("expected 12 values, got %d", len(c.Affine)))
	}
	if c.Quaternion != nil && c.Normalize {
		if _, err := spatialmath.NormalizeQuaternion(c.Quaternion.Number()); err != nil {
			return utils.NewConfigValidationError("quaternion", err)
		}
	}
	return nil
}

// AffineMatrix returns the transform of the config as an affine matrix. A translation set next to
// a quaternion or affine matrix is applied after it.
func (c *Config) AffineMatrix() (spatialmath.AffineMatrix, error) {
	m := spatialmath.IdentityAffine()
	switch {
	case c.Quaternion != nil:
		q, err := c.rotation()
		if err != nil {
			return spatialmath.AffineMatrix{}, err
		}
		m = spatialmath.RotationFromQuaternion(q).Affine()
	case c.Affine != nil:
		if len(c.Affine) != 12 {
			return spatialmath.AffineMatrix{}, errors.Errorf("affine matrix needs 12 values, got %d", len(c.Affine))
		}
		copy(m[:], c.Affine)
	case c.Translate == nil:
		return spatialmath.AffineMatrix{}, errors.New("config has no transform")
	}
	if c.Translate != nil {
		m = m.Compose(spatialmath.NewTranslation(c.Translate.X, c.Translate.Y, c.Translate.Z))
	}
	return m, nil
}

func (c *Config) rotation() (quat.Number, error) {
	q := c.Quaternion.Number()
	if !c.Normalize {
		return q, nil
	}
	return spatialmath.NormalizeQuaternion(q)
}

// PatchTransform returns the transform of the config as a function over patches. A quaternion
// alone goes through RotatePatch so that rotations use the quaternion matrix directly.
func (c *Config) PatchTransform() (pointcloud.PatchTransform, error) {
	d := c.Dimensions
	if c.Quaternion != nil && c.Translate == nil {
		q, err := c.rotation()
		if err != nil {
			return nil, err
		}
		return pointcloud.Rotation(q, d.X, d.Y, d.Z), nil
	}
	m, err := c.AffineMatrix()
	if err != nil {
		return nil, err
	}
	return pointcloud.Affine(m, d.X, d.Y, d.Z), nil
}

// OutputPath returns where the transformed copy of input is written.
func (c *Config) OutputPath(input string) string {
	return filepath.Join(c.OutputDir, filepath.Base(input))
}
