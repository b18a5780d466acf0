package peaq

// Matrix is a row-major frames-by-bands buffer allocated once per evaluation.
//
// Rows are contiguous, so frame i owns data[i*cols : (i+1)*cols] and
// concurrent writers on distinct rows never share memory.
type Matrix struct {
	rows int
	cols int
	data []float64
}

// NewMatrix allocates a zeroed rows x cols matrix.
func NewMatrix(rows, cols int) *Matrix {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	return &Matrix{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

// Rows returns the frame count.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the band count.
func (m *Matrix) Cols() int { return m.cols }

// Row returns row i as a slice aliasing the matrix storage.
func (m *Matrix) Row(i int) []float64 {
	return m.data[i*m.cols : (i+1)*m.cols : (i+1)*m.cols]
}

// At returns element (i, j).
func (m *Matrix) At(i, j int) float64 {
	return m.data[i*m.cols+j]
}

// Set assigns element (i, j).
func (m *Matrix) Set(i, j int, v float64) {
	m.data[i*m.cols+j] = v
}

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	out := &Matrix{rows: m.rows, cols: m.cols, data: make([]float64, len(m.data))}
	copy(out.data, m.data)
	return out
}

// ToSlices copies the matrix into a [][]float64 for callers that plot or
// serialise it.
func (m *Matrix) ToSlices() [][]float64 {
	out := make([][]float64, m.rows)
	for i := range out {
		out[i] = append([]float64(nil), m.Row(i)...)
	}
	return out
}
