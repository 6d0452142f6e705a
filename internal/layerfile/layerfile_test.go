package layerfile

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const sample = `{
  "water": {
    "coordinates": [0, 0, 0, 1, 0, 0, 0, 1, 0],
    "indices": [0, 1, 2],
    "color": [0.2, 0.4, 0.8, 0.9]
  },
  "buildings": {
    "coordinates": [0, 0, 5, 1, 0, 5, 0, 1, 5],
    "indices": [0, 1, 2],
    "color": [0.7, 0.7, 0.7],
    "normals": [0, 0, 1, 0, 0, 1, 0, 0, 1]
  },
  "surface": {
    "coordinates": [],
    "indices": [],
    "color": [1, 1, 1, 1]
  }
}`

func TestDecodeKeepsFileOrder(t *testing.T) {
	file, err := Decode(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	var names []string
	for _, l := range file.Layers {
		names = append(names, l.Name)
	}
	want := []string{"water", "buildings", "surface"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("names = %v, want %v", names, want)
	}
}

func TestDecodeFields(t *testing.T) {
	file, err := Decode(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	layers := file.Layers

	water := layers[0]
	if water.Normals != nil {
		t.Errorf("water normals = %v, want nil", water.Normals)
	}
	if water.Color != [4]float32{0.2, 0.4, 0.8, 0.9} {
		t.Errorf("water color = %v", water.Color)
	}
	if !reflect.DeepEqual(water.Indices, []uint32{0, 1, 2}) {
		t.Errorf("water indices = %v", water.Indices)
	}

	buildings := layers[1]
	if buildings.Color[3] != 1 {
		t.Errorf("RGB color alpha = %v, want 1", buildings.Color[3])
	}
	if len(buildings.Normals) != 9 {
		t.Errorf("buildings normals = %d floats, want 9", len(buildings.Normals))
	}
}

func TestDecodeDuplicateKeepsFirstPosition(t *testing.T) {
	in := `{"a": {"color": [1,0,0]}, "b": {"color": [0,1,0]}, "a": {"color": [0,0,1]}}`
	file, err := Decode(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	layers := file.Layers
	if len(layers) != 2 || layers[0].Name != "a" || layers[1].Name != "b" {
		t.Fatalf("layers = %+v", layers)
	}
	if layers[0].Color != [4]float32{0, 0, 1, 1} {
		t.Errorf("duplicate did not take last value: %v", layers[0].Color)
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", "geometry"},
		{"array root", `[1, 2, 3]`},
		{"truncated", `{"a": {"color": [1,1,1]}`},
		{"unterminated entry", `{"a": {"color": [1,1,1]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("Decode() error = %v, want ErrMalformed", err)
			}
		})
	}
}

func TestDecodeRejectsBadEntryOnly(t *testing.T) {
	tests := []struct {
		name  string
		entry string
	}{
		{"layer not object", `5`},
		{"negative index", `{"coordinates": [0,0,0], "indices": [-1], "color": [1,1,1]}`},
		{"string coordinates", `{"coordinates": "0 0 0", "color": [1,1,1]}`},
		{"missing color", `{"coordinates": [0,0,0]}`},
		{"short color", `{"color": [1, 0]}`},
		{"null", `null`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := `{"good": {"coordinates": [0,0,0], "indices": [0,0,0], "color": [1,0,0,1]}, "bad": ` + tt.entry + `}`
			file, err := Decode(strings.NewReader(in))
			if err != nil {
				t.Fatalf("Decode() error = %v, want per-entry rejection", err)
			}
			if len(file.Layers) != 1 || file.Layers[0].Name != "good" {
				t.Errorf("layers = %+v, want only good", file.Layers)
			}
			if len(file.Rejected) != 1 || file.Rejected[0].Name != "bad" {
				t.Fatalf("rejected = %v, want bad", file.Rejected)
			}
			if !errors.Is(file.Rejected[0], ErrMalformed) {
				t.Errorf("rejection %v does not wrap ErrMalformed", file.Rejected[0])
			}
		})
	}
}

func TestDecodeBadDuplicateKeepsEarlierValue(t *testing.T) {
	in := `{"a": {"color": [1,0,0]}, "a": {"color": [1]}}`
	file, err := Decode(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(file.Layers) != 1 || file.Layers[0].Color != [4]float32{1, 0, 0, 1} {
		t.Errorf("layers = %+v", file.Layers)
	}
	if len(file.Rejected) != 1 {
		t.Errorf("rejected = %v, want one", file.Rejected)
	}
}

func TestDecodeEmptyObject(t *testing.T) {
	file, err := Decode(strings.NewReader(`{}`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(file.Layers) != 0 || len(file.Rejected) != 0 {
		t.Errorf("file = %+v, want empty", file)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "city.json")
	if err := os.WriteFile(path, []byte(sample), 0644); err != nil {
		t.Fatal(err)
	}
	file, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(file.Layers) != 3 {
		t.Errorf("Load() = %d layers, want 3", len(file.Layers))
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) error = %v, want not-exist", err)
	}
}
