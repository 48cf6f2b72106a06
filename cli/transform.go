package cli

import (
	"context"
	"math"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/pcedit/config"
	"go.viam.com/pcedit/logging"
	"go.viam.com/pcedit/pointcloud"
	"go.viam.com/pcedit/spatialmath"
)

// RotateAction rotates the points of every input file by a quaternion, or by an angle about an
// axis.
func RotateAction(c *cli.Context) error {
	q, err := rotationFromFlags(c)
	if err != nil {
		return err
	}
	conf, err := configFromFlags(c)
	if err != nil {
		return err
	}
	conf.Quaternion = &config.Quaternion{W: q.Real, X: q.Imag, Y: q.Jmag, Z: q.Kmag}
	conf.Normalize = c.Bool(normalizeFlag)
	if !conf.Normalize && !spatialmath.IsUnitQuaternion(q, 0) {
		warningf(c.App.ErrWriter, "quaternion %v is not of unit length, points will also be scaled (see --%s)",
			[]float64{q.Real, q.Imag, q.Jmag, q.Kmag}, normalizeFlag)
	}
	return runFromFlags(c, conf)
}

func rotationFromFlags(c *cli.Context) (quat.Number, error) {
	switch {
	case c.IsSet(quaternionFlag) && c.IsSet(axisFlag):
		return quat.Number{}, errors.Errorf("--%s and --%s cannot be used together", quaternionFlag, axisFlag)
	case c.IsSet(quaternionFlag):
		q, err := floatsFromFlag(c, quaternionFlag, 4)
		if err != nil {
			return quat.Number{}, err
		}
		return spatialmath.NewQuaternion(q[0], q[1], q[2], q[3]), nil
	case c.IsSet(axisFlag):
		axis, err := floatsFromFlag(c, axisFlag, 3)
		if err != nil {
			return quat.Number{}, err
		}
		theta := c.Float64(degreesFlag) * math.Pi / 180
		return spatialmath.QuaternionFromAxisAngle(pointcloud.NewVector(axis[0], axis[1], axis[2]), theta)
	default:
		return quat.Number{}, errors.Errorf("one of --%s or --%s is required", quaternionFlag, axisFlag)
	}
}

// AffineAction moves the points of every input file by an affine matrix.
func AffineAction(c *cli.Context) error {
	m, err := floatsFromFlag(c, matrixFlag, 12)
	if err != nil {
		return err
	}
	conf, err := configFromFlags(c)
	if err != nil {
		return err
	}
	conf.Affine = m
	return runFromFlags(c, conf)
}

// TranslateAction offsets the points of every input file.
func TranslateAction(c *cli.Context) error {
	offset, err := floatsFromFlag(c, offsetFlag, 3)
	if err != nil {
		return err
	}
	conf, err := configFromFlags(c)
	if err != nil {
		return err
	}
	conf.Translate = &config.Translation{X: offset[0], Y: offset[1], Z: offset[2]}
	return runFromFlags(c, conf)
}

// RunAction runs the job described by a job file.
func RunAction(c *cli.Context) error {
	logger, registry := loggers(c)
	ctx := commandContext(c)
	conf, err := config.Read(ctx, c.String(jobFlag), registry.Logger("config"))
	if err != nil {
		return err
	}
	if err := conf.ConfigureLogging(logger, registry); err != nil {
		return err
	}
	return RunJob(ctx, conf, registry)
}

func configFromFlags(c *cli.Context) (*config.Config, error) {
	dims, err := dimsFromFlag(c)
	if err != nil {
		return nil, err
	}
	pcid := c.Int64(pcidFlag)
	if pcid < 0 || pcid > math.MaxUint32 {
		return nil, errors.Errorf("--%s must be between 0 and %d, got %d", pcidFlag, uint32(math.MaxUint32), pcid)
	}
	return &config.Config{
		Inputs:     c.StringSlice(inputFlag),
		OutputDir:  c.String(outputDirFlag),
		PCID:       uint32(pcid),
		Dimensions: config.Dimensions{X: dims[0], Y: dims[1], Z: dims[2]},
		Workers:    c.Int(workersFlag),
	}, nil
}

func runFromFlags(c *cli.Context, conf *config.Config) error {
	if err := conf.Ensure(); err != nil {
		return err
	}
	_, registry := loggers(c)
	return RunJob(commandContext(c), conf, registry)
}

// RunJob reads every input of the job, transforms the patches concurrently and writes them out.
// Every transformed patch is checked before the first file is written.
func RunJob(ctx context.Context, conf *config.Config, registry *logging.Registry) error {
	logger := logging.FromContext(ctx, registry.Logger("job"))
	readLogger := registry.Logger("las.reader")

	transform, err := conf.PatchTransform()
	if err != nil {
		return err
	}

	start := time.Now()
	schemas := pointcloud.NewSchemaRegistry()
	patches := make([]*pointcloud.Patch, 0, len(conf.Inputs))
	for i, in := range conf.Inputs {
		patch, err := pointcloud.NewPatchFromFile(in, conf.PCID+uint32(i), readLogger)
		if err != nil {
			return errors.Wrapf(err, "cannot read %q", in)
		}
		if err := schemas.Register(patch.Schema()); err != nil {
			return errors.Wrapf(err, "cannot read %q", in)
		}
		logger.Debugw("read patch", "file", in, "points", patch.NumPoints(), "schema", patch.Schema().String())
		patches = append(patches, patch)
	}

	transformed, err := pointcloud.TransformPatches(ctx, patches, transform, conf.Workers)
	if err != nil {
		return err
	}

	for i, patch := range transformed {
		schema, err := schemas.Schema(conf.PCID + uint32(i))
		if err != nil {
			return err
		}
		if patch.Schema() != schema {
			return errors.Errorf("transformed patch %d does not have the schema read from %q", i, conf.Inputs[i])
		}
		if err := pointcloud.CheckLASWritable(patch); err != nil {
			return errors.Wrapf(err, "cannot write %q", conf.OutputPath(conf.Inputs[i]))
		}
	}

	if err := os.MkdirAll(conf.OutputDir, 0o750); err != nil {
		return err
	}
	for i, patch := range transformed {
		out := conf.OutputPath(conf.Inputs[i])
		if err := pointcloud.WritePatchToLASFile(patch, out); err != nil {
			return errors.Wrapf(err, "cannot write %q", out)
		}
		extent := patch.Extent()
		fileLogger := logger.With("input", conf.Inputs[i])
		fileLogger.Infow("transformed patch", "output", out, "points", patch.NumPoints())
		if !extent.IsEmpty() {
			fileLogger.Debugw("extent", "min", extent.Min(), "max", extent.Max())
		}
	}
	logger.Debugw("job done", "files", len(transformed), "duration", time.Since(start).String())
	return nil
}
