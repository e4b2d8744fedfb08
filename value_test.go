package formula_test

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/zephyrtronium/formula"
)

func TestValueFormat(t *testing.T) {
	m, err := formula.Array([]int{2, 2}, []float64{1, 2, 3, 4.5})
	if err != nil {
		t.Fatal(err)
	}
	cube, err := formula.Array([]int{2, 1, 2}, []float64{1, 2, 3, 4})
	if err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		name string
		f    string
		v    formula.Value
		want string
	}{
		{"zero", "%v", formula.Value{}, "0"},
		{"scalar", "%v", formula.Scalar(2.5), "2.5"},
		{"scalar-g", "%g", formula.Scalar(1e21), "1e+21"},
		{"scalar-f", "%.2f", formula.Scalar(1.0 / 3), "0.33"},
		{"scalar-width", "%-5g|", formula.Scalar(1), "1    |"},
		{"vector", "%v", formula.Vector(3, 3.1), "[3 3.1]"},
		{"vector-f", "%.1f", formula.Vector(1, 2), "[1.0 2.0]"},
		{"empty", "%v", formula.Vector(), "[]"},
		{"matrix", "%v", m, "[[1 2] [3 4.5]]"},
		{"cube", "%g", cube, "[[[1 2]] [[3 4]]]"},
		{"plus", "%+v", formula.Vector(1, -1), "[+1 -1]"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := fmt.Sprintf(c.f, c.v); got != c.want {
				t.Errorf("want %q, got %q", c.want, got)
			}
		})
	}
	if s := formula.Vector(1, 2).String(); s != "[1 2]" {
		t.Errorf("String gave %q", s)
	}
}

func TestArray(t *testing.T) {
	cases := []struct {
		name  string
		shape []int
		data  []float64
		err   bool
	}{
		{"vector", []int{3}, []float64{1, 2, 3}, false},
		{"matrix", []int{2, 3}, []float64{1, 2, 3, 4, 5, 6}, false},
		{"empty", []int{0}, nil, false},
		{"empty-2d", []int{2, 0}, nil, false},
		{"scalar", nil, []float64{7}, false},
		{"short", []int{2, 2}, []float64{1, 2, 3}, true},
		{"long", []int{2}, []float64{1, 2, 3}, true},
		{"negative", []int{-1}, nil, true},
		{"scalar-empty", nil, nil, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			v, err := formula.Array(c.shape, c.data)
			if c.err {
				if err == nil {
					t.Errorf("no error for shape %v with %d elements", c.shape, len(c.data))
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if len(c.shape) == 0 {
				if !v.IsScalar() {
					t.Errorf("empty shape gave array %v", v)
				}
				if f, ok := v.Float64(); !ok || f != c.data[0] {
					t.Errorf("wrong scalar %v", v)
				}
				return
			}
			if !reflect.DeepEqual(v.Shape(), c.shape) {
				t.Errorf("wrong shape: want %v, got %v", c.shape, v.Shape())
			}
			if v.Len() != len(c.data) {
				t.Errorf("wrong length: want %d, got %d", len(c.data), v.Len())
			}
			for i, x := range c.data {
				if v.At(i) != x {
					t.Errorf("element %d: want %g, got %g", i, x, v.At(i))
				}
			}
		})
	}
}

func TestValueImmutable(t *testing.T) {
	shape := []int{2}
	data := []float64{1, 2}
	v, err := formula.Array(shape, data)
	if err != nil {
		t.Fatal(err)
	}
	shape[0] = 1
	data[0] = 100
	if s := v.Shape(); s[0] != 2 {
		t.Errorf("shape changed with argument: %v", s)
	}
	if v.At(0) != 1 {
		t.Errorf("data changed with argument: %v", v)
	}
	v.Shape()[0] = 5
	v.Floats()[0] = 5
	if fmt.Sprint(v) != "[1 2]" {
		t.Errorf("value changed through accessors: %v", v)
	}
	xs := []float64{3, 4}
	w := formula.Vector(xs...)
	xs[0] = 0
	if w.At(0) != 3 {
		t.Errorf("Vector shares its argument: %v", w)
	}
}

func TestScalarAccessors(t *testing.T) {
	v := formula.Scalar(3)
	if !v.IsScalar() || v.Shape() != nil || v.Len() != 1 || v.At(0) != 3 {
		t.Errorf("wrong scalar accessors for %v", v)
	}
	if got := v.Floats(); !reflect.DeepEqual(got, []float64{3}) {
		t.Errorf("Floats gave %v", got)
	}
	if _, ok := formula.Vector(1).Float64(); ok {
		t.Error("vector converted to float64")
	}
	defer func() {
		if recover() == nil {
			t.Error("no panic for scalar index 1")
		}
	}()
	v.At(1)
}
