// Package bindings reads tables of variable values for formulas from YAML,
// JSON, and TOML documents and merges them.
//
// A table maps names to numbers, to lists of numbers (nested to any depth, as
// long as every list at the same depth has the same length), or to strings
// holding constant formulas such as "sqrt(2)":
//
//	a: 1.5
//	o2: [3.0, 3.1]
//	m: [[1, 2], [3, 4]]
//	r: "sqrt(2) / 2"
package bindings

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/formula"
)

// Format is the format of a variable table.
type Format int

const (
	// FormatAuto detects the format from a file extension.
	FormatAuto Format = iota
	// FormatYAML is YAML, which includes JSON.
	FormatYAML
	// FormatTOML is TOML.
	FormatTOML
)

func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	default:
		return "unknown"
	}
}

// DetectFormat gets the format for a file name from its extension. Unknown
// extensions are YAML.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	default:
		return FormatYAML
	}
}

// Load reads a variable table from a file.
func Load(path string) (formula.Vars, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading variables: %w", err)
	}
	vars, err := Decode(data, DetectFormat(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return vars, nil
}

// Decode parses a variable table. FormatAuto is treated as YAML.
func Decode(data []byte, format Format) (formula.Vars, error) {
	var m map[string]any
	switch format {
	case FormatAuto, FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decoding yaml: %w", err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("decoding toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown format %v", format)
	}
	return FromMap(m)
}

// FromMap converts decoded values to variables.
func FromMap(m map[string]any) (formula.Vars, error) {
	vars := make(formula.Vars, len(m))
	for k, v := range m {
		x, err := value(v)
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", k, err)
		}
		vars[k] = x
	}
	return vars, nil
}

// Merge combines variable tables. Later tables override earlier ones.
func Merge(vs ...formula.Vars) formula.Vars {
	n := 0
	for _, v := range vs {
		n += len(v)
	}
	r := make(formula.Vars, n)
	for _, v := range vs {
		for k, x := range v {
			r[k] = x
		}
	}
	return r
}

// value converts one decoded value.
func value(v any) (formula.Value, error) {
	switch v := v.(type) {
	case string:
		r, err := formula.EvalString(v, nil)
		if err != nil {
			return formula.Value{}, fmt.Errorf("evaluating %q: %w", v, err)
		}
		return r, nil
	case []any:
		shape := shapeof(v)
		data, err := flatten(v, shape, nil)
		if err != nil {
			return formula.Value{}, err
		}
		return formula.Array(shape, data)
	default:
		x, ok := number(v)
		if !ok {
			return formula.Value{}, fmt.Errorf("%T is not a number or list of numbers", v)
		}
		return formula.Scalar(x), nil
	}
}

// shapeof gets the shape of a nested list by following first elements.
func shapeof(v any) []int {
	var shape []int
	for {
		l, ok := v.([]any)
		if !ok {
			return shape
		}
		shape = append(shape, len(l))
		if len(l) == 0 {
			return shape
		}
		v = l[0]
	}
}

// flatten appends the elements of v to data in row-major order, checking that
// v has the given shape.
func flatten(v any, shape []int, data []float64) ([]float64, error) {
	if len(shape) == 0 {
		if _, ok := v.([]any); ok {
			return nil, errors.New("ragged list: list where a number was expected")
		}
		x, ok := number(v)
		if !ok {
			return nil, fmt.Errorf("%T in list is not a number", v)
		}
		return append(data, x), nil
	}
	l, ok := v.([]any)
	if !ok {
		return nil, errors.New("ragged list: number where a list was expected")
	}
	if len(l) != shape[0] {
		return nil, fmt.Errorf("ragged list: length %d, expected %d", len(l), shape[0])
	}
	for _, e := range l {
		var err error
		data, err = flatten(e, shape[1:], data)
		if err != nil {
			return nil, err
		}
	}
	return data, nil
}

// number converts the numeric types the decoders produce.
func number(v any) (float64, bool) {
	switch v := v.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}
