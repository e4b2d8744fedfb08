package bindings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zephyrtronium/formula"
)

// writeTestFile creates a temporary file with the given content and returns its path.
func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDetectFormat(t *testing.T) {
	cases := []struct {
		path string
		want Format
	}{
		{"vars.yaml", FormatYAML},
		{"vars.yml", FormatYAML},
		{"vars.json", FormatYAML},
		{"vars.toml", FormatTOML},
		{"VARS.TOML", FormatTOML},
		{"vars", FormatYAML},
	}
	for _, c := range cases {
		if got := DetectFormat(c.path); got != c.want {
			t.Errorf("%s: want %v, got %v", c.path, c.want, got)
		}
	}
}

func TestDecode(t *testing.T) {
	cases := []struct {
		name   string
		data   string
		format Format
		want   map[string]string
	}{
		{
			name:   "yaml",
			data:   "a: 1\nb: 2.5\no2: [3.0, 3.1]\nm: [[1, 2], [3, 4]]\nr: \"sqrt(16) / 2\"\n",
			format: FormatYAML,
			want:   map[string]string{"a": "1", "b": "2.5", "o2": "[3 3.1]", "m": "[[1 2] [3 4]]", "r": "2"},
		},
		{
			name:   "json",
			data:   `{"x": -4, "v": [1, 2, 3], "e": []}`,
			format: FormatAuto,
			want:   map[string]string{"x": "-4", "v": "[1 2 3]", "e": "[]"},
		},
		{
			name:   "toml",
			data:   "a = 1\nb = 2.5\no2 = [3.0, 3.1]\nm = [[1, 2], [3, 4]]\nr = \"2 ^ 10\"\n",
			format: FormatTOML,
			want:   map[string]string{"a": "1", "b": "2.5", "o2": "[3 3.1]", "m": "[[1 2] [3 4]]", "r": "1024"},
		},
		{
			name:   "empty",
			data:   "",
			format: FormatYAML,
			want:   map[string]string{},
		},
		{
			name:   "deep",
			data:   "t: [[[1], [2]], [[3], [4]]]\n",
			format: FormatYAML,
			want:   map[string]string{"t": "[[[1] [2]] [[3] [4]]]"},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			vars, err := Decode([]byte(c.data), c.format)
			if err != nil {
				t.Fatal(err)
			}
			if len(vars) != len(c.want) {
				t.Errorf("want %d variables, got %d: %v", len(c.want), len(vars), vars)
			}
			for k, want := range c.want {
				v, ok := vars[k]
				if !ok {
					t.Errorf("missing %s", k)
					continue
				}
				if got := fmt.Sprint(v); got != want {
					t.Errorf("%s: want %s, got %s", k, want, got)
				}
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	cases := []struct {
		name   string
		data   string
		format Format
		res    []string
	}{
		{"ragged", "r: [[1, 2], [3]]\n", FormatYAML, []string{`"r"`, "ragged"}},
		{"ragged-depth", "r: [[1, 2], 3]\n", FormatYAML, []string{"ragged"}},
		{"ragged-deeper", "r: [1, [2]]\n", FormatYAML, []string{"ragged"}},
		{"bool", "b: true\n", FormatYAML, []string{`"b"`, "bool"}},
		{"map", "m: {x: 1}\n", FormatYAML, []string{`"m"`}},
		{"list-string", "l: [1, \"2\"]\n", FormatYAML, []string{"string"}},
		{"bad-formula", "f: \"1 +\"\n", FormatYAML, []string{`"f"`, "invalid syntax"}},
		{"formula-var", "f: \"x + 1\"\n", FormatYAML, []string{"undefined variable"}},
		{"bad-yaml", "a: [1, 2\n", FormatYAML, []string{"yaml"}},
		{"bad-toml", "a = \n", FormatTOML, []string{"toml"}},
		{"bad-format", "a: 1\n", Format(99), []string{"unknown format"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			vars, err := Decode([]byte(c.data), c.format)
			if err == nil {
				t.Fatalf("no error, got %v", vars)
			}
			for _, re := range c.res {
				if !strings.Contains(err.Error(), re) {
					t.Errorf("error %q doesn't contain %q", err.Error(), re)
				}
			}
		})
	}
}

func TestDecodeFormulaError(t *testing.T) {
	_, err := Decode([]byte("z: \"1 / 0\"\n"), FormatYAML)
	var ze *formula.ZeroDivisionError
	if !errors.As(err, &ze) {
		t.Errorf("want wrapped ZeroDivisionError, got %#v", err)
	}
}

func TestLoad(t *testing.T) {
	yml := writeTestFile(t, "vars.yaml", "a: 1\nb: [1, 2]\n")
	tml := writeTestFile(t, "vars.toml", "a = 2\nc = \"ln(1)\"\n")
	a, err := Load(yml)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Load(tml)
	if err != nil {
		t.Fatal(err)
	}
	got := Merge(a, b, formula.Vars{"d": formula.Scalar(4)})
	want := map[string]string{"a": "2", "b": "[1 2]", "c": "0", "d": "4"}
	if len(got) != len(want) {
		t.Errorf("want %d variables, got %v", len(want), got)
	}
	for k, w := range want {
		if s := fmt.Sprint(got[k]); s != w {
			t.Errorf("%s: want %s, got %s", k, w, s)
		}
	}

	bad := writeTestFile(t, "bad.yaml", "a: [1, [2]]\n")
	if _, err := Load(bad); err == nil || !strings.Contains(err.Error(), bad) {
		t.Errorf("error for bad file doesn't name it: %v", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("want not-exist error, got %v", err)
	}
}

func TestMerge(t *testing.T) {
	a := formula.Vars{"x": formula.Scalar(1), "y": formula.Scalar(1)}
	b := formula.Vars{"y": formula.Scalar(2)}
	m := Merge(a, nil, b)
	if s := fmt.Sprint(m["x"], m["y"]); s != "1 2" {
		t.Errorf("wrong merge: %v", m)
	}
	m["x"] = formula.Scalar(5)
	if f, _ := a["x"].Float64(); f != 1 {
		t.Error("Merge result shares its first argument")
	}
	if m := Merge(); m == nil || len(m) != 0 {
		t.Errorf("empty merge gave %v", m)
	}
}
