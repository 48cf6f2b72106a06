package pointcloud

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func newXYZISchema(t *testing.T) *Schema {
	t.Helper()
	schema, err := NewSchema(1,
		NewDimension("X", Double),
		NewDimension("Y", Double),
		NewDimension("Z", Double),
		NewDimension("Intensity", Uint16),
		NewDimension("Classification", Uint8),
	)
	test.That(t, err, test.ShouldBeNil)
	return schema
}

func newScaledSchema(t *testing.T, interp Interpretation, scale float64) *Schema {
	t.Helper()
	schema, err := NewSchema(2,
		NewScaledDimension("X", interp, scale, 0),
		NewScaledDimension("Y", interp, scale, 0),
		NewScaledDimension("Z", interp, scale, 0),
		NewDimension("Intensity", Uint16),
	)
	test.That(t, err, test.ShouldBeNil)
	return schema
}

func TestSchemaLayout(t *testing.T) {
	schema := newXYZISchema(t)
	test.That(t, schema.PCID(), test.ShouldEqual, uint32(1))
	test.That(t, schema.Size(), test.ShouldEqual, 27)
	test.That(t, schema.NumDimensions(), test.ShouldEqual, 5)
	test.That(t, schema.Names(), test.ShouldResemble, []string{"X", "Y", "Z", "Intensity", "Classification"})

	intensity := schema.Dimension(3)
	test.That(t, intensity.Position(), test.ShouldEqual, 3)
	test.That(t, intensity.ByteOffset(), test.ShouldEqual, 24)
	test.That(t, intensity.Size(), test.ShouldEqual, 2)
	test.That(t, intensity.IsScaled(), test.ShouldBeFalse)

	x, y, z, ok := schema.SpatialNames()
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, []string{x, y, z}, test.ShouldResemble, []string{"X", "Y", "Z"})
	test.That(t, schema.String(), test.ShouldEqual,
		"schema 1 [X:double Y:double Z:double Intensity:uint16_t Classification:uint8_t]")
}

func TestSchemaErrors(t *testing.T) {
	_, err := NewSchema(1)
	test.That(t, err, test.ShouldNotBeNil)

	_, err = NewSchema(1, NewDimension("X", Double), NewDimension("X", Int32))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "not unique")

	_, err = NewSchema(1, NewDimension("X", Unknown))
	test.That(t, err, test.ShouldNotBeNil)

	_, err = NewSchema(1, NewDimension("", Double))
	test.That(t, err, test.ShouldNotBeNil)

	// names differing only in case are distinct
	schema, err := NewSchema(1, NewDimension("x", Double), NewDimension("X", Double))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, schema.NumDimensions(), test.ShouldEqual, 2)
}

func TestParseInterpretation(t *testing.T) {
	for _, interp := range []Interpretation{Int8, Uint8, Int16, Uint16, Int32, Uint32, Int64, Uint64, Double, Float} {
		parsed, err := ParseInterpretation(interp.String())
		test.That(t, err, test.ShouldBeNil)
		test.That(t, parsed, test.ShouldEqual, interp)
	}
	_, err := ParseInterpretation("unknown")
	test.That(t, err, test.ShouldNotBeNil)
	_, err = ParseInterpretation("int128_t")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, Double.IsFloat(), test.ShouldBeTrue)
	test.That(t, Int64.IsFloat(), test.ShouldBeFalse)
}

func TestSchemaRegistry(t *testing.T) {
	reg := NewSchemaRegistry()
	schema := newXYZISchema(t)
	test.That(t, reg.Register(schema), test.ShouldBeNil)
	test.That(t, reg.Register(schema), test.ShouldNotBeNil)

	var provider SchemaProvider = reg
	got, err := provider.Schema(1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got, test.ShouldEqual, schema)

	_, err = provider.Schema(7)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestResolve(t *testing.T) {
	schema := newXYZISchema(t)
	h, err := Resolve(schema, "Intensity")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, h.Dimension().Name, test.ShouldEqual, "Intensity")

	_, err = Resolve(schema, "intensity")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, IsDimensionNotFoundError(err), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "intensity")

	_, err = ResolveSpatial(schema, "X", "Y", "W")
	test.That(t, IsDimensionNotFoundError(err), test.ShouldBeTrue)
	var notFound *DimensionNotFoundError
	test.That(t, err, test.ShouldHaveSameTypeAs, notFound)
	test.That(t, err.(*DimensionNotFoundError).Name, test.ShouldEqual, "W")
}

func TestEncodeDecode(t *testing.T) {
	schema, err := NewSchema(3,
		NewScaledDimension("X", Int32, 0.01, 100),
		NewDimension("Count", Uint8),
		NewDimension("Signed", Int16),
		NewDimension("F", Float),
		NewScaledDimension("NoScale", Int32, 0, 0),
	)
	test.That(t, err, test.ShouldBeNil)
	record := make([]byte, schema.Size())

	x, err := Resolve(schema, "X")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, x.Encode(record, 101.006), test.ShouldBeNil)
	test.That(t, x.Decode(record), test.ShouldAlmostEqual, 101.01)

	count, err := Resolve(schema, "Count")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, count.Encode(record, 255), test.ShouldBeNil)
	test.That(t, count.Decode(record), test.ShouldEqual, 255.0)
	test.That(t, count.Encode(record, -0.4), test.ShouldBeNil)
	test.That(t, count.Decode(record), test.ShouldEqual, 0.0)

	before := append([]byte(nil), record...)
	err = count.Encode(record, 256)
	test.That(t, IsEncodingOverflowError(err), test.ShouldBeTrue)
	err = count.Encode(record, -1)
	test.That(t, IsEncodingOverflowError(err), test.ShouldBeTrue)
	err = count.Encode(record, math.NaN())
	test.That(t, IsEncodingOverflowError(err), test.ShouldBeTrue)
	test.That(t, record, test.ShouldResemble, before)

	signed, err := Resolve(schema, "Signed")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, signed.Encode(record, -2.5), test.ShouldBeNil)
	test.That(t, signed.Decode(record), test.ShouldEqual, -3.0)
	test.That(t, signed.Encode(record, 2.5), test.ShouldBeNil)
	test.That(t, signed.Decode(record), test.ShouldEqual, 3.0)
	err = signed.Encode(record, 32768)
	test.That(t, err, test.ShouldNotBeNil)
	var overflow *EncodingOverflowError
	test.That(t, err, test.ShouldHaveSameTypeAs, overflow)
	test.That(t, err.(*EncodingOverflowError).Dimension, test.ShouldEqual, "Signed")
	test.That(t, err.(*EncodingOverflowError).Interpretation, test.ShouldEqual, Int16)

	f, err := Resolve(schema, "F")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, f.Encode(record, 0.5), test.ShouldBeNil)
	test.That(t, f.Decode(record), test.ShouldEqual, 0.5)
	test.That(t, f.Encode(record, math.NaN()), test.ShouldBeNil)
	test.That(t, math.IsNaN(f.Decode(record)), test.ShouldBeTrue)
	test.That(t, IsEncodingOverflowError(f.Encode(record, 1e40)), test.ShouldBeTrue)

	noScale, err := Resolve(schema, "NoScale")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, noScale.Dimension().IsScaled(), test.ShouldBeFalse)
	test.That(t, noScale.Encode(record, 42), test.ShouldBeNil)
	test.That(t, noScale.Decode(record), test.ShouldEqual, 42.0)
}

func TestSpatialEncodeIsAllOrNothing(t *testing.T) {
	schema := newScaledSchema(t, Int16, 0.01)
	handles, err := ResolveSpatial(schema, "X", "Y", "Z")
	test.That(t, err, test.ShouldBeNil)

	record := make([]byte, schema.Size())
	test.That(t, handles.Encode(record, NewVector(1, 2, 3)), test.ShouldBeNil)
	before := append([]byte(nil), record...)

	err = handles.Encode(record, NewVector(4, 5, 400))
	test.That(t, IsEncodingOverflowError(err), test.ShouldBeTrue)
	test.That(t, record, test.ShouldResemble, before)

	pos := handles.Decode(record)
	test.That(t, pos.X, test.ShouldAlmostEqual, 1)
	test.That(t, pos.Y, test.ShouldAlmostEqual, 2)
	test.That(t, pos.Z, test.ShouldAlmostEqual, 3)
}

func TestPoint(t *testing.T) {
	schema := newXYZISchema(t)
	pt, err := NewPointFromValues(schema, 1, 2, 3, 500, 6)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pt.Schema(), test.ShouldEqual, schema)
	test.That(t, pt.Values(), test.ShouldResemble, []float64{1, 2, 3, 500, 6})

	v, err := pt.Get("Intensity")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v, test.ShouldEqual, 500.0)

	clone := pt.Clone()
	test.That(t, clone.Set("Intensity", 7), test.ShouldBeNil)
	v, err = pt.Get("Intensity")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v, test.ShouldEqual, 500.0)

	pos, err := pt.Position("X", "Y", "Z")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pos, test.ShouldResemble, NewVector(1, 2, 3))

	_, err = pt.Get("Missing")
	test.That(t, IsDimensionNotFoundError(err), test.ShouldBeTrue)

	_, err = NewPointFromValues(schema, 1, 2)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = NewPointFromValues(schema, 1, 2, 3, 70000, 0)
	test.That(t, IsEncodingOverflowError(err), test.ShouldBeTrue)

	fromBytes, err := NewPointFromBytes(schema, pt.Bytes())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, fromBytes.Values(), test.ShouldResemble, pt.Values())
	_, err = NewPointFromBytes(schema, make([]byte, 3))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestExtent(t *testing.T) {
	e := NewExtent()
	test.That(t, e.IsEmpty(), test.ShouldBeTrue)
	e.Merge(NewVector(1, -2, 3))
	e.Merge(NewVector(-1, 2, 0))
	test.That(t, e.IsEmpty(), test.ShouldBeFalse)
	test.That(t, e.Min(), test.ShouldResemble, NewVector(-1, -2, 0))
	test.That(t, e.Max(), test.ShouldResemble, NewVector(1, 2, 3))
	test.That(t, e.Contains(NewVector(0, 0, 1)), test.ShouldBeTrue)
	test.That(t, e.Contains(NewVector(0, 0, 4)), test.ShouldBeFalse)
}
