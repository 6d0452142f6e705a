package scene

import (
	"testing"

	"github.com/Faultbox/layerview/internal/engine/gpu/gputest"
)

func newTestCollection(t *testing.T) (*Collection, *gputest.Recorder) {
	t.Helper()
	rec := gputest.New()
	progs, err := NewPrograms(rec)
	if err != nil {
		t.Fatalf("NewPrograms() error = %v", err)
	}
	rec.Reset()
	return NewCollection(rec, progs), rec
}

func newTestRenderer(t *testing.T) (*Renderer, *gputest.Recorder) {
	t.Helper()
	rec := gputest.New()
	r, err := New(rec, Config{ShadowResolution: 512})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(r.Destroy)
	return r, rec
}

// Unit right triangle in the XY plane, counter-clockwise seen from +Z.
var (
	triVertices = []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}
	triIndices  = []uint32{0, 1, 2}
	white       = [4]float32{1, 1, 1, 1}
)

func mustAdd(t *testing.T, c *Collection, name string, v []float32, idx []uint32, normals []float32) {
	t.Helper()
	if err := c.Add(name, v, idx, white, normals); err != nil {
		t.Fatalf("Add(%q) error = %v", name, err)
	}
}

func near(a, b float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-5
}
