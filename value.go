package formula

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Value is the result of evaluating an expression or the value of a variable.
// It is either a real scalar or an array of reals with a fixed shape. The zero
// Value is the scalar 0. Values are immutable.
type Value struct {
	// x is the value of a scalar.
	x float64
	// shape is the array shape, or nil for a scalar.
	shape []int
	// data holds array elements in row-major order.
	data []float64
}

// Scalar creates a scalar value.
func Scalar(x float64) Value {
	return Value{x: x}
}

// Vector creates a one-dimensional array value. The elements are copied.
func Vector(xs ...float64) Value {
	return Value{
		shape: []int{len(xs)},
		data:  append(make([]float64, 0, len(xs)), xs...),
	}
}

// Array creates an array value with the given shape from elements in
// row-major order. The shape and elements are copied. Each dimension must be
// non-negative, and the number of elements must be the product of the
// dimensions. An empty shape is a scalar.
func Array(shape []int, data []float64) (Value, error) {
	n := 1
	for _, d := range shape {
		if d < 0 {
			return Value{}, errors.New("negative dimension in shape " + shapestr(shape))
		}
		n *= d
	}
	if n != len(data) {
		return Value{}, errors.New("shape " + shapestr(shape) + " needs " + strconv.Itoa(n) + " elements, not " + strconv.Itoa(len(data)))
	}
	if len(shape) == 0 {
		return Scalar(data[0]), nil
	}
	return Value{
		shape: append(make([]int, 0, len(shape)), shape...),
		data:  append(make([]float64, 0, len(data)), data...),
	}, nil
}

// IsScalar returns whether v is a scalar.
func (v Value) IsScalar() bool {
	return v.shape == nil
}

// Float64 returns the value of a scalar. If v is an array, the result is 0 and
// false.
func (v Value) Float64() (float64, bool) {
	if v.shape != nil {
		return 0, false
	}
	return v.x, true
}

// Shape returns a copy of the shape of v, or nil if v is a scalar.
func (v Value) Shape() []int {
	if v.shape == nil {
		return nil
	}
	return append(make([]int, 0, len(v.shape)), v.shape...)
}

// Len returns the number of elements in v. Scalars have one element.
func (v Value) Len() int {
	if v.shape == nil {
		return 1
	}
	return len(v.data)
}

// At returns the element of v at flat index i in row-major order.
func (v Value) At(i int) float64 {
	if v.shape == nil {
		if i != 0 {
			panic("formula: index " + strconv.Itoa(i) + " out of range for scalar")
		}
		return v.x
	}
	return v.data[i]
}

// Floats returns a copy of the elements of v in row-major order.
func (v Value) Floats() []float64 {
	return append([]float64(nil), v.flat()...)
}

// flat returns the elements of v without copying.
func (v Value) flat() []float64 {
	if v.shape == nil {
		return []float64{v.x}
	}
	return v.data
}

// hasZero returns whether any element of v is zero.
func (v Value) hasZero() bool {
	for _, x := range v.flat() {
		if x == 0 {
			return true
		}
	}
	return false
}

// String formats v using %v.
func (v Value) String() string {
	return fmt.Sprint(v)
}

// Format implements fmt.Formatter. Scalars format as float64. Arrays format
// as nested brackets of elements separated by spaces, each element formatted
// with the same verb and flags.
func (v Value) Format(f fmt.State, verb rune) {
	layout := fmt.FormatString(f, verb)
	if verb == 'v' {
		layout = "%" + layout[1:len(layout)-1] + "g"
	}
	if v.shape == nil {
		fmt.Fprintf(f, layout, v.x)
		return
	}
	var b strings.Builder
	v.fmtdim(&b, layout, 0, 0)
	f.Write([]byte(b.String()))
}

// fmtdim writes dimension d of v starting at flat offset off and returns the
// offset after it.
func (v Value) fmtdim(b *strings.Builder, layout string, d, off int) int {
	b.WriteByte('[')
	defer b.WriteByte(']')
	for i := 0; i < v.shape[d]; i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		if d == len(v.shape)-1 {
			fmt.Fprintf(b, layout, v.data[off])
			off++
			continue
		}
		off = v.fmtdim(b, layout, d+1, off)
	}
	return off
}

func shapestr(shape []int) string {
	v := make([]string, len(shape))
	for i, d := range shape {
		v[i] = strconv.Itoa(d)
	}
	return "(" + strings.Join(v, ", ") + ")"
}
