// Package layerfile decodes layer geometry files.
//
// A file is a JSON object mapping layer names to geometry:
//
//	{
//	  "surface": {
//	    "coordinates": [x0, y0, z0, x1, y1, z1, ...],
//	    "indices":     [0, 1, 2, ...],
//	    "color":       [r, g, b, a],
//	    "normals":     [nx0, ny0, nz0, ...]
//	  },
//	  ...
//	}
//
// normals is optional. color may omit alpha, which then defaults to 1.
// Layers are returned in file order.
package layerfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrMalformed is returned when the input is not a layer file, and wrapped
// by EntryError for a single bad entry.
var ErrMalformed = errors.New("malformed layer file")

// Layer is one decoded entry. Geometry is not validated here.
type Layer struct {
	Name        string
	Coordinates []float32
	Indices     []uint32
	Color       [4]float32
	Normals     []float32
}

// EntryError reports a layer entry that was skipped.
type EntryError struct {
	Name string
	Err  error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("layer %q: %v", e.Name, e.Err)
}

func (e *EntryError) Unwrap() error { return e.Err }

// File is a decoded layer file. Entries that fail to decode are listed in
// Rejected and do not affect the others.
type File struct {
	Layers   []Layer
	Rejected []*EntryError
}

type rawLayer struct {
	Coordinates []float32 `json:"coordinates"`
	Indices     []uint32  `json:"indices"`
	Color       []float32 `json:"color"`
	Normals     []float32 `json:"normals"`
}

// Load reads and decodes the file at path.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening layer file: %w", err)
	}
	defer f.Close()

	file, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return file, nil
}

// Decode reads a layer file from r, keeping entries in the order they appear.
// A duplicated name keeps its first position and its last valid value.
// Only a broken document is an error; a bad entry is rejected on its own.
func Decode(r io.Reader) (*File, error) {
	dec := json.NewDecoder(r)

	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	file := &File{}
	seen := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: expected layer name, got %v", ErrMalformed, tok)
		}

		var msg json.RawMessage
		if err := dec.Decode(&msg); err != nil {
			return nil, fmt.Errorf("%w: layer %q: %v", ErrMalformed, name, err)
		}
		layer, err := decodeLayer(name, msg)
		if err != nil {
			file.Rejected = append(file.Rejected, &EntryError{Name: name, Err: err})
			continue
		}

		if i, dup := seen[name]; dup {
			file.Layers[i] = layer
			continue
		}
		seen[name] = len(file.Layers)
		file.Layers = append(file.Layers, layer)
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return file, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("%w: expected %q, got %v", ErrMalformed, want, tok)
	}
	return nil
}

func decodeLayer(name string, msg json.RawMessage) (Layer, error) {
	var r rawLayer
	if err := json.Unmarshal(msg, &r); err != nil {
		return Layer{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	l := Layer{
		Name:        name,
		Coordinates: r.Coordinates,
		Indices:     r.Indices,
		Normals:     r.Normals,
	}
	switch len(r.Color) {
	case 4:
		copy(l.Color[:], r.Color)
	case 3:
		copy(l.Color[:], r.Color)
		l.Color[3] = 1
	default:
		return Layer{}, fmt.Errorf("%w: color has %d components, want 3 or 4", ErrMalformed, len(r.Color))
	}
	return l, nil
}
