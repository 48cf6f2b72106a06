package pointcloud

import "math"

// Stats holds the minimum, maximum and average logical value of each dimension of a patch.
type Stats struct {
	schema        *Schema
	min, max, avg []float64
}

func newStats(schema *Schema) *Stats {
	n := schema.NumDimensions()
	s := &Stats{
		schema: schema,
		min:    make([]float64, n),
		max:    make([]float64, n),
		avg:    make([]float64, n),
	}
	for i := range s.min {
		s.min[i] = math.MaxFloat64
		s.max[i] = -math.MaxFloat64
	}
	return s
}

func (s *Stats) merge(dim int, v float64) {
	if v < s.min[dim] {
		s.min[dim] = v
	}
	if v > s.max[dim] {
		s.max[dim] = v
	}
	s.avg[dim] += v
}

func (s *Stats) finish(npoints int) {
	if npoints == 0 {
		return
	}
	for i := range s.avg {
		s.avg[i] /= float64(npoints)
	}
}

// Min returns the smallest value of the named dimension.
func (s *Stats) Min(name string) (float64, error) {
	return s.lookup(s.min, name)
}

// Max returns the largest value of the named dimension.
func (s *Stats) Max(name string) (float64, error) {
	return s.lookup(s.max, name)
}

// Avg returns the mean value of the named dimension.
func (s *Stats) Avg(name string) (float64, error) {
	return s.lookup(s.avg, name)
}

func (s *Stats) lookup(values []float64, name string) (float64, error) {
	h, err := Resolve(s.schema, name)
	if err != nil {
		return 0, err
	}
	return values[h.dim.position], nil
}
