package domain

import "fmt"

// PathMatrix is a dense (paths x months) float64 grid stored row-major.
// Value paths carry months+1 columns (month 0 included); contribution and
// outflow grids carry months columns. All batch operations run over the
// flat backing slice; there is no per-path recomputation anywhere.
type PathMatrix struct {
	Paths int
	Cols  int
	Data  []float64
}

// NewPathMatrix allocates a zeroed matrix.
func NewPathMatrix(paths, cols int) *PathMatrix {
	return &PathMatrix{
		Paths: paths,
		Cols:  cols,
		Data:  make([]float64, paths*cols),
	}
}

// At returns the value at (path, col).
func (m *PathMatrix) At(path, col int) float64 {
	return m.Data[path*m.Cols+col]
}

// Set writes the value at (path, col).
func (m *PathMatrix) Set(path, col int, v float64) {
	m.Data[path*m.Cols+col] = v
}

// Row returns the backing slice for one path. The slice aliases the
// matrix; writes through it are visible to all readers.
func (m *PathMatrix) Row(path int) []float64 {
	return m.Data[path*m.Cols : (path+1)*m.Cols]
}

// Column copies column col into dst and returns it. dst must have
// capacity for Paths entries; pass nil to allocate.
func (m *PathMatrix) Column(col int, dst []float64) []float64 {
	if dst == nil {
		dst = make([]float64, m.Paths)
	}
	dst = dst[:m.Paths]
	for p := 0; p < m.Paths; p++ {
		dst[p] = m.Data[p*m.Cols+col]
	}
	return dst
}

// Clone returns a deep copy.
func (m *PathMatrix) Clone() *PathMatrix {
	out := &PathMatrix{Paths: m.Paths, Cols: m.Cols, Data: make([]float64, len(m.Data))}
	copy(out.Data, m.Data)
	return out
}

// AddInPlace adds other element-wise into m.
func (m *PathMatrix) AddInPlace(other *PathMatrix) {
	MustSameShape(m, other)
	for i, v := range other.Data {
		m.Data[i] += v
	}
}

// SubInPlace subtracts other element-wise from m.
func (m *PathMatrix) SubInPlace(other *PathMatrix) {
	MustSameShape(m, other)
	for i, v := range other.Data {
		m.Data[i] -= v
	}
}

// MustSameShape panics when two matrices that are about to combine have
// different dimensions. A mismatch is an internal defect, never a caller
// error: it cannot happen for a validated config, so it fails loudly
// instead of broadcasting.
func MustSameShape(a, b *PathMatrix) {
	if a.Paths != b.Paths || a.Cols != b.Cols {
		panic(fmt.Sprintf("path matrix shape mismatch: (%d,%d) vs (%d,%d)",
			a.Paths, a.Cols, b.Paths, b.Cols))
	}
}
