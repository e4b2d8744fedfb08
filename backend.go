package formula

// Backend applies scalar operations elementwise to values. The evaluator
// decides what each operation computes; a Backend decides how operands of
// different shapes combine.
//
// Backends must not modify their operands. Errors returned by f must be
// returned unchanged; any other error indicates operands that cannot be
// combined.
type Backend interface {
	// Map applies f to each element of x.
	Map(x Value, f func(float64) (float64, error)) (Value, error)
	// Zip applies f to corresponding elements of x and y.
	Zip(x, y Value, f func(a, b float64) (float64, error)) (Value, error)
}

// Elementwise is the default Backend. Shapes combine by broadcasting: they are
// aligned at their last dimensions, and each pair of dimensions must be equal
// or one of them must be 1, which stretches to match the other. A scalar
// combines with any shape.
type Elementwise struct {
	// Strict disables broadcasting between arrays. Arrays must have the same
	// shape, although scalars still combine with any array.
	Strict bool
}

// ShapeError is an error indicating operands whose shapes cannot be combined.
type ShapeError struct {
	// X and Y are the shapes of the operands.
	X, Y []int
}

func (err *ShapeError) Error() string {
	return "operands with shapes " + shapestr(err.X) + " and " + shapestr(err.Y) + " cannot be combined"
}

func (Elementwise) Map(x Value, f func(float64) (float64, error)) (Value, error) {
	if x.shape == nil {
		r, err := f(x.x)
		if err != nil {
			return Value{}, err
		}
		return Scalar(r), nil
	}
	out := make([]float64, len(x.data))
	for i, v := range x.data {
		r, err := f(v)
		if err != nil {
			return Value{}, err
		}
		out[i] = r
	}
	return Value{shape: x.shape, data: out}, nil
}

func (b Elementwise) Zip(x, y Value, f func(a, b float64) (float64, error)) (Value, error) {
	if x.shape == nil && y.shape == nil {
		r, err := f(x.x, y.x)
		if err != nil {
			return Value{}, err
		}
		return Scalar(r), nil
	}
	shape, err := b.combine(x.shape, y.shape)
	if err != nil {
		return Value{}, err
	}
	n := 1
	for _, d := range shape {
		n *= d
	}
	out := make([]float64, n)
	xs, ys := strides(x.shape, shape), strides(y.shape, shape)
	xd, yd := x.flat(), y.flat()
	idx := make([]int, len(shape))
	xo, yo := 0, 0
	for i := range out {
		r, err := f(xd[xo], yd[yo])
		if err != nil {
			return Value{}, err
		}
		out[i] = r
		// Advance the index like an odometer, last dimension fastest.
		for d := len(shape) - 1; d >= 0; d-- {
			idx[d]++
			xo += xs[d]
			yo += ys[d]
			if idx[d] < shape[d] {
				break
			}
			xo -= xs[d] * shape[d]
			yo -= ys[d] * shape[d]
			idx[d] = 0
		}
	}
	return Value{shape: shape, data: out}, nil
}

// combine gets the shape of the result of combining shapes x and y.
func (b Elementwise) combine(x, y []int) ([]int, error) {
	switch {
	case x == nil:
		return y, nil
	case y == nil:
		return x, nil
	}
	if b.Strict {
		if len(x) != len(y) {
			return nil, &ShapeError{X: x, Y: y}
		}
		for i := range x {
			if x[i] != y[i] {
				return nil, &ShapeError{X: x, Y: y}
			}
		}
		return x, nil
	}
	n := len(x)
	if len(y) > n {
		n = len(y)
	}
	r := make([]int, n)
	for i := 1; i <= n; i++ {
		a, c := dim(x, len(x)-i), dim(y, len(y)-i)
		switch {
		case a == c, c == 1:
			r[n-i] = a
		case a == 1:
			r[n-i] = c
		default:
			return nil, &ShapeError{X: x, Y: y}
		}
	}
	return r, nil
}

// dim gets dimension i of shape, or 1 if i is before the first dimension.
func dim(shape []int, i int) int {
	if i < 0 {
		return 1
	}
	return shape[i]
}

// strides gets the flat index step for each dimension of out when iterating
// over an operand of shape in broadcast to out. Broadcast dimensions have step
// 0. A nil in is a scalar with one element.
func strides(in, out []int) []int {
	s := make([]int, len(out))
	acc := 1
	for i := len(in) - 1; i >= 0; i-- {
		if in[i] != 1 {
			s[len(out)-len(in)+i] = acc
		}
		acc *= in[i]
	}
	return s
}

var _ Backend = Elementwise{}
