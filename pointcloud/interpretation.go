package pointcloud

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

// Interpretation is the storage type of a single dimension inside a point record.
type Interpretation int

// The known interpretations. Their names match the ones used in point cloud schema documents.
const (
	Unknown Interpretation = iota
	Int8
	Uint8
	Int16
	Uint16
	Int32
	Uint32
	Int64
	Uint64
	Double
	Float
)

var interpretationNames = map[Interpretation]string{
	Unknown: "unknown",
	Int8:    "int8_t",
	Uint8:   "uint8_t",
	Int16:   "int16_t",
	Uint16:  "uint16_t",
	Int32:   "int32_t",
	Uint32:  "uint32_t",
	Int64:   "int64_t",
	Uint64:  "uint64_t",
	Double:  "double",
	Float:   "float",
}

// ParseInterpretation returns the interpretation with the given name, e.g. "int32_t".
func ParseInterpretation(name string) (Interpretation, error) {
	for interp, n := range interpretationNames {
		if interp != Unknown && n == name {
			return interp, nil
		}
	}
	return Unknown, errors.Errorf("unknown interpretation %q", name)
}

func (i Interpretation) String() string {
	if n, ok := interpretationNames[i]; ok {
		return n
	}
	return interpretationNames[Unknown]
}

// Size returns the number of bytes a value of this interpretation occupies. Unknown
// interpretations have size 0.
func (i Interpretation) Size() int {
	switch i {
	case Int8, Uint8:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float:
		return 4
	case Int64, Uint64, Double:
		return 8
	case Unknown:
		return 0
	default:
		return 0
	}
}

// IsFloat reports whether values are stored as IEEE 754 floating point numbers.
func (i Interpretation) IsFloat() bool {
	return i == Float || i == Double
}

// bounds returns the representable range of integer interpretations. For 64 bit types the upper
// bound is exclusive since it is not exactly representable as a float64.
func (i Interpretation) bounds() (lo, hi float64, hiInclusive bool) {
	switch i {
	case Int8:
		return math.MinInt8, math.MaxInt8, true
	case Uint8:
		return 0, math.MaxUint8, true
	case Int16:
		return math.MinInt16, math.MaxInt16, true
	case Uint16:
		return 0, math.MaxUint16, true
	case Int32:
		return math.MinInt32, math.MaxInt32, true
	case Uint32:
		return 0, math.MaxUint32, true
	case Int64:
		return math.MinInt64, -float64(math.MinInt64), false
	case Uint64:
		return 0, 2 * -float64(math.MinInt64), false
	case Unknown, Double, Float:
		return math.Inf(-1), math.Inf(1), true
	default:
		return math.Inf(-1), math.Inf(1), true
	}
}

// fits reports whether raw, an already rounded value for integer types, can be stored.
func (i Interpretation) fits(raw float64) bool {
	switch i {
	case Double:
		return true
	case Float:
		return math.IsNaN(raw) || math.IsInf(raw, 0) || math.Abs(raw) <= math.MaxFloat32
	case Unknown:
		return false
	case Int8, Uint8, Int16, Uint16, Int32, Uint32, Int64, Uint64:
	}
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return false
	}
	lo, hi, hiInclusive := i.bounds()
	if raw < lo {
		return false
	}
	if hiInclusive {
		return raw <= hi
	}
	return raw < hi
}

// read returns the raw stored value found at the start of buf.
func (i Interpretation) read(buf []byte) float64 {
	switch i {
	case Int8:
		return float64(int8(buf[0]))
	case Uint8:
		return float64(buf[0])
	case Int16:
		return float64(int16(binary.LittleEndian.Uint16(buf)))
	case Uint16:
		return float64(binary.LittleEndian.Uint16(buf))
	case Int32:
		return float64(int32(binary.LittleEndian.Uint32(buf)))
	case Uint32:
		return float64(binary.LittleEndian.Uint32(buf))
	case Int64:
		return float64(int64(binary.LittleEndian.Uint64(buf)))
	case Uint64:
		return float64(binary.LittleEndian.Uint64(buf))
	case Float:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(buf)))
	case Double:
		return math.Float64frombits(binary.LittleEndian.Uint64(buf))
	case Unknown:
		return 0
	default:
		return 0
	}
}

// write stores raw at the start of buf. raw must already satisfy fits.
func (i Interpretation) write(buf []byte, raw float64) {
	switch i {
	case Int8:
		buf[0] = byte(int8(raw))
	case Uint8:
		buf[0] = uint8(raw)
	case Int16:
		binary.LittleEndian.PutUint16(buf, uint16(int16(raw)))
	case Uint16:
		binary.LittleEndian.PutUint16(buf, uint16(raw))
	case Int32:
		binary.LittleEndian.PutUint32(buf, uint32(int32(raw)))
	case Uint32:
		binary.LittleEndian.PutUint32(buf, uint32(raw))
	case Int64:
		binary.LittleEndian.PutUint64(buf, uint64(int64(raw)))
	case Uint64:
		binary.LittleEndian.PutUint64(buf, uint64(raw))
	case Float:
		binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(raw)))
	case Double:
		binary.LittleEndian.PutUint64(buf, math.Float64bits(raw))
	case Unknown:
	}
}
