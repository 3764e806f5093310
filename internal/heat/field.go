package heat

import "math"

// Field is a square temperature field stored row-major. Row i, column j
// is node (i, j). A Field is not modified once it has been returned by
// NewField or Step.
type Field struct {
	n      int
	values []float64
}

// NewField builds an n×n field with every node at interior, then sets the
// first and last row and column to boundary.
func NewField(n int, interior, boundary float64) (*Field, error) {
	if n < MinNodes {
		return nil, &InvalidSizeError{N: n}
	}
	f := newField(n)
	for k := range f.values {
		f.values[k] = interior
	}
	last := n - 1
	for k := 0; k < n; k++ {
		f.set(0, k, boundary)
		f.set(last, k, boundary)
		f.set(k, 0, boundary)
		f.set(k, last, boundary)
	}
	return f, nil
}

func newField(n int) *Field {
	return &Field{n: n, values: make([]float64, n*n)}
}

func (f *Field) set(i, j int, v float64) { f.values[i*f.n+j] = v }

// N returns the number of nodes per dimension.
func (f *Field) N() int { return f.n }

// At returns the temperature at row i, column j. It panics if either
// index is out of range.
func (f *Field) At(i, j int) float64 {
	if i < 0 || i >= f.n || j < 0 || j >= f.n {
		panic("heat: field index out of range")
	}
	return f.values[i*f.n+j]
}

// Row returns a copy of row i.
func (f *Field) Row(i int) []float64 {
	r := make([]float64, f.n)
	copy(r, f.values[i*f.n:(i+1)*f.n])
	return r
}

// Values returns a copy of all node values in row-major order.
func (f *Field) Values() []float64 {
	v := make([]float64, len(f.values))
	copy(v, f.values)
	return v
}

// Clone returns an independent copy of the field.
func (f *Field) Clone() *Field {
	return &Field{n: f.n, values: f.Values()}
}

// Equal reports whether both fields have the same size and bit-identical values.
func (f *Field) Equal(other *Field) bool {
	if other == nil || f.n != other.n {
		return false
	}
	for k, v := range f.values {
		if math.Float64bits(v) != math.Float64bits(other.values[k]) {
			return false
		}
	}
	return true
}

// IsBorder reports whether (i, j) lies on the first or last row or column.
func (f *Field) IsBorder(i, j int) bool {
	last := f.n - 1
	return i == 0 || j == 0 || i == last || j == last
}
