package scene

import (
	"slices"
	"sort"

	"github.com/Faultbox/layerview/internal/engine/camera"
	"github.com/Faultbox/layerview/internal/engine/gpu"
	"github.com/Faultbox/layerview/internal/engine/shadow"
	"github.com/Faultbox/layerview/pkg/math"
)

// SurfaceLayer is pushed back in depth so coplanar features drawn on top of
// it win the depth test.
const SurfaceLayer = "surface"

// Collection owns the named layers and their shared centroid. Layers render
// in name order.
type Collection struct {
	dev   gpu.Device
	progs *Programs

	layers   map[string]*Layer
	names    []string
	centroid math.Vec3
}

// NewCollection creates an empty collection drawing with progs on dev.
func NewCollection(dev gpu.Device, progs *Programs) *Collection {
	return &Collection{
		dev:    dev,
		progs:  progs,
		layers: make(map[string]*Layer),
	}
}

// Add validates and uploads a layer, replacing any layer of the same name,
// then recomputes the centroid. The collection keeps its own copy of the
// geometry. Invalid input is rejected before anything
// reaches the device and leaves the collection untouched.
func (c *Collection) Add(name string, vertices []float32, indices []uint32, color [4]float32, normals []float32) error {
	if err := validateLayer(name, vertices, indices, normals); err != nil {
		return err
	}

	l := &Layer{
		Name:     name,
		Vertices: slices.Clone(vertices),
		Indices:  slices.Clone(indices),
		Color:    color,
		Normals:  slices.Clone(normals),
	}
	if err := l.upload(c.dev, c.progs); err != nil {
		return err
	}

	if old, ok := c.layers[name]; ok {
		old.release(c.dev)
	} else {
		c.insertName(name)
	}
	c.layers[name] = l
	c.UpdateCentroid()
	return nil
}

func (c *Collection) insertName(name string) {
	i := sort.SearchStrings(c.names, name)
	c.names = append(c.names, "")
	copy(c.names[i+1:], c.names[i:])
	c.names[i] = name
}

// Remove releases and forgets the named layer. Unknown names are ignored.
// The centroid is left as is; call UpdateCentroid to refresh it.
func (c *Collection) Remove(name string) {
	l, ok := c.layers[name]
	if !ok {
		return
	}
	l.release(c.dev)
	delete(c.layers, name)

	i := sort.SearchStrings(c.names, name)
	c.names = append(c.names[:i], c.names[i+1:]...)
}

// Get returns the named layer, or nil.
func (c *Collection) Get(name string) *Layer {
	return c.layers[name]
}

// Names returns layer names in render order.
func (c *Collection) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Len returns the number of layers.
func (c *Collection) Len() int { return len(c.layers) }

// VertexCount returns the total vertex count across layers.
func (c *Collection) VertexCount() int {
	n := 0
	for _, l := range c.layers {
		n += l.VertexCount()
	}
	return n
}

// Centroid returns the cached mean vertex position.
func (c *Collection) Centroid() math.Vec3 { return c.centroid }

// UpdateCentroid recomputes the mean of all vertex positions. An empty
// collection has its centroid at the origin.
func (c *Collection) UpdateCentroid() {
	var sx, sy, sz float64
	n := 0
	for _, name := range c.names {
		v := c.layers[name].Vertices
		for i := 0; i+2 < len(v); i += 3 {
			sx += float64(v[i])
			sy += float64(v[i+1])
			sz += float64(v[i+2])
		}
		n += len(v) / 3
	}
	if n == 0 {
		c.centroid = math.Vec3{}
		return
	}
	c.centroid = math.Vec3{
		X: float32(sx / float64(n)),
		Y: float32(sy / float64(n)),
		Z: float32(sz / float64(n)),
	}
}

// Render draws every layer in name order.
func (c *Collection) Render(mode Mode, t camera.Transforms, depth shadow.DepthMap) {
	for _, name := range c.names {
		if name == SurfaceLayer {
			c.dev.PolygonOffset(1, 1)
		} else {
			c.dev.PolygonOffset(0, 0)
		}
		c.layers[name].Render(c.dev, c.progs, mode, t, depth)
	}
}

// Clear removes every layer and resets the centroid.
func (c *Collection) Clear() {
	for _, l := range c.layers {
		l.release(c.dev)
	}
	c.layers = make(map[string]*Layer)
	c.names = nil
	c.centroid = math.Vec3{}
}

// Destroy releases all layers. The shared programs are owned elsewhere.
func (c *Collection) Destroy() {
	c.Clear()
}
