package pointcloud

import (
	"math"
	"path/filepath"

	"github.com/edaniels/lidario"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"go.viam.com/pcedit/logging"
)

// Dimension names of patches read from LAS files.
const (
	LASDimX                  = "X"
	LASDimY                  = "Y"
	LASDimZ                  = "Z"
	LASDimIntensity          = "Intensity"
	LASDimReturnBits         = "ReturnBits"
	LASDimClassificationBits = "ClassificationBits"
	LASDimScanAngle          = "ScanAngle"
	LASDimUserData           = "UserData"
	LASDimPointSourceID      = "PointSourceId"
	LASDimRed                = "Red"
	LASDimGreen              = "Green"
	LASDimBlue               = "Blue"
)

const (
	lasFormatPoint    = 0
	lasFormatPointRGB = 2
)

// NewPatchFromFile returns a patch read in from the given file. The schema of the patch is
// given the identifier pcid.
func NewPatchFromFile(fn string, pcid uint32, logger logging.Logger) (*Patch, error) {
	switch filepath.Ext(fn) {
	case ".las":
		return NewPatchFromLASFile(fn, pcid, logger)
	default:
		return nil, errors.Errorf("do not know how to read file %q", fn)
	}
}

// LASSchema returns the schema used for points of the given LAS point format. X, Y and Z are
// stored as scaled 32 bit integers, exactly as in the LAS point record.
func LASSchema(pcid uint32, pointFormat byte, scale, offset [3]float64) (*Schema, error) {
	dims := []Dimension{
		NewScaledDimension(LASDimX, Int32, scale[0], offset[0]),
		NewScaledDimension(LASDimY, Int32, scale[1], offset[1]),
		NewScaledDimension(LASDimZ, Int32, scale[2], offset[2]),
		NewDimension(LASDimIntensity, Uint16),
		NewDimension(LASDimReturnBits, Uint8),
		NewDimension(LASDimClassificationBits, Uint8),
		NewDimension(LASDimScanAngle, Int8),
		NewDimension(LASDimUserData, Uint8),
		NewDimension(LASDimPointSourceID, Uint16),
	}
	switch pointFormat {
	case lasFormatPoint:
	case lasFormatPointRGB:
		dims = append(dims,
			NewDimension(LASDimRed, Uint16),
			NewDimension(LASDimGreen, Uint16),
			NewDimension(LASDimBlue, Uint16),
		)
	default:
		return nil, errors.Errorf("unsupported LAS point format %d", pointFormat)
	}
	return NewSchema(pcid, dims...)
}

// NewPatchFromLASFile returns a patch holding every point of a LAS file, in file order.
func NewPatchFromLASFile(fn string, pcid uint32, logger logging.Logger) (*Patch, error) {
	lf, err := lidario.NewLasFile(fn, "r")
	if err != nil {
		return nil, err
	}
	defer utils.UncheckedErrorFunc(lf.Close)

	header := lf.Header
	scale := [3]float64{header.XScaleFactor, header.YScaleFactor, header.ZScaleFactor}
	offset := [3]float64{header.XOffset, header.YOffset, header.ZOffset}
	for i, s := range scale {
		if s == 0 {
			logger.Warnw("LAS header has no scale factor, coordinates are stored unscaled", "file", fn, "axis", i)
		}
	}
	schema, err := LASSchema(pcid, header.PointFormatID, scale, offset)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read %q", fn)
	}
	handles, err := resolveLASHandles(schema)
	if err != nil {
		return nil, err
	}

	data := make([]byte, header.NumberPoints*schema.Size())
	for i := 0; i < header.NumberPoints; i++ {
		p, err := lf.LasPoint(i)
		if err != nil {
			return nil, err
		}
		record := data[i*schema.Size() : (i+1)*schema.Size()]
		if err := handles.encode(record, p); err != nil {
			return nil, errors.Wrapf(err, "cannot store point %d of %q", i, fn)
		}
	}
	logger.Debugw("read LAS file", "file", fn, "points", header.NumberPoints, "schema", schema.String())
	return newPatch(schema, data), nil
}

// WritePatchToLASFile writes the patch out to a LAS file. The patch must use a schema returned
// by LASSchema and pass CheckLASWritable. Coordinates keep the scale of the patch's schema but are
// offset from their minimum, which is the offset lidario always writes.
func WritePatchToLASFile(patch *Patch, fn string) (err error) {
	layout, err := planLASWrite(patch)
	if err != nil {
		return err
	}
	handles := layout.handles

	lf, err := lidario.NewLasFile(fn, "w")
	if err != nil {
		return
	}
	defer func() {
		cerr := lf.Close()
		err = multierr.Combine(err, cerr)
	}()

	pointFormatID := byte(lasFormatPoint)
	if handles.hasRGB {
		pointFormatID = lasFormatPointRGB
	}
	if err = lf.AddHeader(lidario.LasHeader{PointFormatID: pointFormatID}); err != nil {
		return
	}
	// AddHeader resets the scales, and zero scales are the only ones replaced when the file is closed.
	lf.Header.XScaleFactor = layout.scale.X
	lf.Header.YScaleFactor = layout.scale.Y
	lf.Header.ZScaleFactor = layout.scale.Z

	for i := 0; i < patch.NumPoints(); i++ {
		p := handles.decode(patch.record(i))
		layout.snap(p.PointData())
		if err = lf.AddLasPoint(p); err != nil {
			return
		}
	}

	// nolint:nakedret
	return
}

// CheckLASWritable returns an error if WritePatchToLASFile cannot write the patch. The check does
// not touch the file system.
func CheckLASWritable(patch *Patch) error {
	_, err := planLASWrite(patch)
	return err
}

// lasLayout is the coordinate encoding of a LAS file about to be written. lidario stores each
// coordinate as int32((v-min)/scale), truncated, where min is the smallest coordinate on the axis.
type lasLayout struct {
	handles *lasHandles
	scale   r3.Vector
	min     r3.Vector
}

func planLASWrite(patch *Patch) (*lasLayout, error) {
	handles, err := resolveLASHandles(patch.Schema())
	if err != nil {
		return nil, err
	}
	if patch.NumPoints() == 0 {
		return nil, errors.New("cannot write a patch without points to a LAS file")
	}

	extent := NewExtent()
	for i := 0; i < patch.NumPoints(); i++ {
		extent.Merge(handles.spatial.Decode(patch.record(i)))
	}
	dims := [3]Dimension{
		handles.spatial.X.Dimension(),
		handles.spatial.Y.Dimension(),
		handles.spatial.Z.Dimension(),
	}
	layout := &lasLayout{
		handles: handles,
		scale:   NewVector(dims[0].scale(), dims[1].scale(), dims[2].scale()),
		min:     extent.Min(),
	}
	low, high := extent.Min(), extent.Max()
	for i, axis := range [3][3]float64{
		{low.X, high.X, layout.scale.X},
		{low.Y, high.Y, layout.scale.Y},
		{low.Z, high.Z, layout.scale.Z},
	} {
		steps := math.Round((axis[1] - axis[0]) / axis[2])
		if !(steps <= math.MaxInt32) {
			return nil, errors.Wrap(NewEncodingOverflowError(dims[i], axis[1]), "cannot write patch to a LAS file")
		}
	}
	return layout, nil
}

// snap moves a coordinate to the middle of the step it rounds to, so that lidario's truncation
// stores the rounded step. Coordinates that round to the minimum stay on it because the minimum
// becomes the file offset.
func (l *lasLayout) snap(pd *lidario.PointRecord0) {
	pd.X = snapToStep(pd.X, l.min.X, l.scale.X)
	pd.Y = snapToStep(pd.Y, l.min.Y, l.scale.Y)
	pd.Z = snapToStep(pd.Z, l.min.Z, l.scale.Z)
}

func snapToStep(v, minimum, scale float64) float64 {
	steps := math.Round((v - minimum) / scale)
	if steps == 0 {
		return minimum
	}
	return minimum + (steps+0.5)*scale
}

type lasHandles struct {
	spatial                                     SpatialHandles
	intensity, returnBits, classBits, scanAngle DimensionHandle
	userData, pointSourceID, red, green, blue   DimensionHandle
	hasRGB                                      bool
}

func resolveLASHandles(schema *Schema) (*lasHandles, error) {
	var h lasHandles
	var err error
	if h.spatial, err = ResolveSpatial(schema, LASDimX, LASDimY, LASDimZ); err != nil {
		return nil, errors.Wrap(err, "schema is not a LAS schema")
	}
	for _, dh := range []struct {
		name   string
		handle *DimensionHandle
	}{
		{LASDimIntensity, &h.intensity},
		{LASDimReturnBits, &h.returnBits},
		{LASDimClassificationBits, &h.classBits},
		{LASDimScanAngle, &h.scanAngle},
		{LASDimUserData, &h.userData},
		{LASDimPointSourceID, &h.pointSourceID},
	} {
		if *dh.handle, err = Resolve(schema, dh.name); err != nil {
			return nil, errors.Wrap(err, "schema is not a LAS schema")
		}
	}
	h.red, err = Resolve(schema, LASDimRed)
	h.hasRGB = err == nil
	if h.hasRGB {
		if h.green, err = Resolve(schema, LASDimGreen); err != nil {
			return nil, err
		}
		if h.blue, err = Resolve(schema, LASDimBlue); err != nil {
			return nil, err
		}
	}
	return &h, nil
}

// encode stores a LAS point into a record. Every value comes from a field of the same or
// narrower width, so only the coordinates can fail to encode.
func (h *lasHandles) encode(record []byte, p lidario.LasPointer) error {
	data := p.PointData()
	if err := h.spatial.Encode(record, NewVector(data.X, data.Y, data.Z)); err != nil {
		return err
	}
	for _, field := range []struct {
		handle DimensionHandle
		value  float64
	}{
		{h.intensity, float64(data.Intensity)},
		{h.returnBits, float64(data.BitField.Value)},
		{h.classBits, float64(data.ClassBitField.Value)},
		{h.scanAngle, float64(data.ScanAngle)},
		{h.userData, float64(data.UserData)},
		{h.pointSourceID, float64(data.PointSourceID)},
	} {
		if err := field.handle.Encode(record, field.value); err != nil {
			return err
		}
	}
	if h.hasRGB {
		rgb := p.RgbData()
		if rgb == nil {
			return errors.New("LAS point is missing its color")
		}
		for _, field := range []struct {
			handle DimensionHandle
			value  uint16
		}{{h.red, rgb.Red}, {h.green, rgb.Green}, {h.blue, rgb.Blue}} {
			if err := field.handle.Encode(record, float64(field.value)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *lasHandles) decode(record []byte) lidario.LasPointer {
	pos := h.spatial.Decode(record)
	pr0 := &lidario.PointRecord0{
		X:         pos.X,
		Y:         pos.Y,
		Z:         pos.Z,
		Intensity: uint16(h.intensity.Decode(record)),
		BitField: lidario.PointBitField{
			Value: uint8(h.returnBits.Decode(record)),
		},
		ClassBitField: lidario.ClassificationBitField{
			Value: uint8(h.classBits.Decode(record)),
		},
		ScanAngle:     int8(h.scanAngle.Decode(record)),
		UserData:      uint8(h.userData.Decode(record)),
		PointSourceID: uint16(h.pointSourceID.Decode(record)),
	}
	if !h.hasRGB {
		return pr0
	}
	return &lidario.PointRecord2{
		PointRecord0: pr0,
		RGB: &lidario.RgbData{
			Red:   uint16(h.red.Decode(record)),
			Green: uint16(h.green.Decode(record)),
			Blue:  uint16(h.blue.Decode(record)),
		},
	}
}
