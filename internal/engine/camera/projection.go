package camera

import (
	"fmt"
	"strings"
)

// Projection selects the camera projection.
type Projection int

const (
	Perspective Projection = iota
	Orthographic
)

func (p Projection) String() string {
	if p == Orthographic {
		return "orthographic"
	}
	return "perspective"
}

// Toggle returns the other projection.
func (p Projection) Toggle() Projection {
	if p == Orthographic {
		return Perspective
	}
	return Orthographic
}

// ParseProjection accepts "perspective" or "orthographic" (case-insensitive).
func ParseProjection(s string) (Projection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "perspective":
		return Perspective, nil
	case "orthographic", "ortho":
		return Orthographic, nil
	}
	return Perspective, fmt.Errorf("unknown projection %q", s)
}
