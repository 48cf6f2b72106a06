package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.viam.com/test"

	"go.viam.com/pcedit/logging"
	"go.viam.com/pcedit/pointcloud"
	"go.viam.com/pcedit/spatialmath"
)

func TestFromReaderValidate(t *testing.T) {
	ctx := context.Background()
	logger := logging.NewTestLogger(t)

	_, err := FromReader(ctx, "somepath", strings.NewReader(""), logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "EOF")

	_, err = FromReader(ctx, "somepath", strings.NewReader(`{"inputs": 1}`), logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "unmarshal")

	_, err = FromReader(ctx, "somepath", strings.NewReader(`{"unknown": 1}`), logger)
	test.That(t, err, test.ShouldNotBeNil)

	_, err = FromReader(ctx, "somepath", strings.NewReader(`{}`), logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `"inputs" is required`)
	test.That(t, err.Error(), test.ShouldContainSubstring, `"output_dir" is required`)
	test.That(t, err.Error(), test.ShouldContainSubstring, "one of quaternion, affine or translate is required")

	_, err = FromReader(ctx, "somepath", strings.NewReader(`{
		"inputs": ["a.las"], "output_dir": "out",
		"quaternion": {"w": 1}, "affine": [1,0,0,0,0,1,0,0,0,0,1,0]}`), logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "only one of")

	_, err = FromReader(ctx, "somepath", strings.NewReader(`{
		"inputs": ["a.las"], "output_dir": "out",
		"translate": {"x": 1}, "affine": [1,0,0,0,0,1,0,0,0,0,1,0]}`), logger)
	test.That(t, err, test.ShouldBeNil)

	_, err = FromReader(ctx, "somepath", strings.NewReader(`{
		"inputs": ["x/a.las", "y/a.las"], "output_dir": "out", "translate": {"x": 1}}`), logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "inputs.1")

	_, err = FromReader(ctx, "somepath", strings.NewReader(`{
		"inputs": ["a.las"], "output_dir": "out", "affine": [1,0,0]}`), logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "expected 12 values")

	_, err = FromReader(ctx, "somepath", strings.NewReader(`{
		"inputs": ["a.las"], "output_dir": "out", "dimensions": {"x": "X"},
		"translate": {"x": 1}}`), logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `"y" is required`)

	_, err = FromReader(ctx, "somepath", strings.NewReader(`{
		"inputs": ["a.las"], "output_dir": "out", "normalize": true,
		"quaternion": {"w": 0, "x": 0, "y": 0, "z": 0}}`), logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "quaternion")

	_, err = FromReader(ctx, "somepath", strings.NewReader(`{
		"inputs": ["a.las"], "output_dir": "out", "translate": {"x": 1},
		"workers": -1, "log_level": "loud", "log_configuration": [{"pattern": "..", "level": "debug"}]}`), logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "workers")
	test.That(t, err.Error(), test.ShouldContainSubstring, "log_level")
	test.That(t, err.Error(), test.ShouldContainSubstring, "log_configuration.0")

	_, err = FromReader(ctx, "somepath", strings.NewReader(`{
		"inputs": ["a.las", "b.las"], "output_dir": "out", "pcid": 4294967295, "translate": {"x": 1}}`), logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "pcid")

	conf, err := FromReader(ctx, "somepath", strings.NewReader(`{
		"inputs": ["a.las", "b.las"], "output_dir": "out", "translate": {"x": 10}}`), logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, conf, test.ShouldResemble, &Config{
		Inputs:         []string{"a.las", "b.las"},
		OutputDir:      "out",
		PCID:           DefaultPCID,
		Dimensions:     Dimensions{X: "X", Y: "Y", Z: "Z"},
		Translate:      &Translation{X: 10},
		ConfigFilePath: "somepath",
	})
	test.That(t, conf.OutputPath("in/b.las"), test.ShouldEqual, filepath.Join("out", "b.las"))
}

func TestNonUnitQuaternionWarns(t *testing.T) {
	logger, observed := logging.NewObservedTestLogger(t)
	conf, err := FromReader(context.Background(), "somepath", strings.NewReader(`{
		"inputs": ["a.las"], "output_dir": "out", "quaternion": {"w": 2}}`), logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, conf.Quaternion, test.ShouldResemble, &Quaternion{W: 2})
	test.That(t, observed.FilterMessageSnippet("not of unit length").Len(), test.ShouldEqual, 1)

	observed.TakeAll()
	conf, err = FromReader(context.Background(), "somepath", strings.NewReader(`{
		"inputs": ["a.las"], "output_dir": "out", "quaternion": {"w": 2}, "normalize": true}`), logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, observed.Len(), test.ShouldEqual, 0)
	m, err := conf.AffineMatrix()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m, test.ShouldResemble, spatialmath.IdentityAffine())
}

func TestReadExpandsEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PCEDIT_TEST_OUT", filepath.Join(dir, "out"))
	fn := filepath.Join(dir, "job.json")
	err := os.WriteFile(fn, []byte(`{
		"inputs": ["in.las"],
		"output_dir": "${PCEDIT_TEST_OUT}",
		"dimensions": {"x": "Easting", "y": "Northing", "z": "Height"},
		"affine": [1, 0, 0, 5, 0, 1, 0, 6, 0, 0, 1, 7],
		"workers": 2,
		"log_level": "debug"
	}`), 0o600)
	test.That(t, err, test.ShouldBeNil)

	conf, err := Read(context.Background(), fn, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, conf.OutputDir, test.ShouldEqual, filepath.Join(dir, "out"))
	test.That(t, conf.ConfigFilePath, test.ShouldEqual, fn)
	test.That(t, conf.Dimensions, test.ShouldResemble, Dimensions{X: "Easting", Y: "Northing", Z: "Height"})
	test.That(t, conf.Workers, test.ShouldEqual, 2)

	m, err := conf.AffineMatrix()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.Translation(), test.ShouldResemble, pointcloud.NewVector(5, 6, 7))

	_, err = Read(context.Background(), filepath.Join(dir, "missing.json"), logging.NewTestLogger(t))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestPatchTransform(t *testing.T) {
	schema, err := pointcloud.NewSchema(1,
		pointcloud.NewDimension("X", pointcloud.Double),
		pointcloud.NewDimension("Y", pointcloud.Double),
		pointcloud.NewDimension("Z", pointcloud.Double),
	)
	test.That(t, err, test.ShouldBeNil)
	pt, err := pointcloud.NewPointFromValues(schema, 1, 0, 0)
	test.That(t, err, test.ShouldBeNil)
	patch, err := pointcloud.NewPatch(schema, pt)
	test.That(t, err, test.ShouldBeNil)

	for _, tc := range []struct {
		name     string
		conf     Config
		expected []float64
	}{
		{"quaternion", Config{Quaternion: &Quaternion{Z: 1}}, []float64{-1, 0, 0}},
		{"normalized quaternion", Config{Quaternion: &Quaternion{Z: 3}, Normalize: true}, []float64{-1, 0, 0}},
		{"affine", Config{Affine: []float64{0, -1, 0, 0, 1, 0, 0, 0, 0, 0, 1, 2}}, []float64{0, 1, 2}},
		{"translate", Config{Translate: &Translation{X: 1, Y: 2, Z: 3}}, []float64{2, 2, 3}},
		{
			"quaternion then translate",
			Config{Quaternion: &Quaternion{Z: 1}, Translate: &Translation{X: 1, Y: 2, Z: 3}},
			[]float64{0, 2, 3},
		},
		{
			"affine then translate",
			Config{Affine: []float64{2, 0, 0, 1, 0, 2, 0, 0, 0, 0, 2, 0}, Translate: &Translation{Z: -1}},
			[]float64{3, 0, -1},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			tc.conf.Dimensions = Dimensions{X: "X", Y: "Y", Z: "Z"}
			transform, err := tc.conf.PatchTransform()
			test.That(t, err, test.ShouldBeNil)
			out, err := transform(patch)
			test.That(t, err, test.ShouldBeNil)
			got := out.Point(0).Values()
			for i := range got {
				test.That(t, got[i], test.ShouldAlmostEqual, tc.expected[i])
			}
		})
	}

	_, err = (&Config{}).PatchTransform()
	test.That(t, err, test.ShouldNotBeNil)

	// the composed matrix matches applying the rotation and then the translation
	conf := Config{Quaternion: &Quaternion{W: 1, Z: 1}, Normalize: true, Translate: &Translation{X: 5, Y: -3, Z: 2}}
	m, err := conf.AffineMatrix()
	test.That(t, err, test.ShouldBeNil)
	q, err := spatialmath.NormalizeQuaternion(spatialmath.NewQuaternion(1, 0, 0, 1))
	test.That(t, err, test.ShouldBeNil)
	v := pointcloud.NewVector(1, 2, 3)
	expected := spatialmath.RotationFromQuaternion(q).Affine().Transform(v).Add(pointcloud.NewVector(5, -3, 2))
	got := m.Transform(v)
	test.That(t, got.X, test.ShouldAlmostEqual, expected.X)
	test.That(t, got.Y, test.ShouldAlmostEqual, expected.Y)
	test.That(t, got.Z, test.ShouldAlmostEqual, expected.Z)
}

func TestConfigureLogging(t *testing.T) {
	root := logging.NewBlankLogger("pcedit")
	registry := logging.NewRegistry(root)
	reader := registry.Logger("las.reader")
	conf := &Config{
		LogLevel:  "warn",
		LogConfig: []logging.LoggerPatternConfig{{Pattern: "las.*", Level: "debug"}},
	}
	test.That(t, conf.ConfigureLogging(root, registry), test.ShouldBeNil)
	test.That(t, root.GetLevel(), test.ShouldEqual, logging.WARN)
	test.That(t, reader.GetLevel(), test.ShouldEqual, logging.DEBUG)
	test.That(t, registry.Logger("job").GetLevel(), test.ShouldEqual, logging.WARN)
}
