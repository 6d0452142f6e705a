// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// LayerVertexShader is the vertex shader for flat layer rendering.
// The depth pass draws with it from the light's point of view.
//
//go:embed layer.vert
var LayerVertexShader string

// LayerFragmentShader is the fragment shader for flat layer rendering.
//
//go:embed layer.frag
var LayerFragmentShader string

// ShadowVertexShader is the vertex shader for the shaded pass. It expects
// MIN_BRIGHTNESS to be defined by the program builder.
//
//go:embed shadow.vert
var ShadowVertexShader string

// ShadowFragmentShader is the fragment shader for the shaded pass (PCF). It
// expects SHADOW_BIAS, MAX_DARKENING and PCF_KERNEL to be defined by the
// program builder.
//
//go:embed shadow.frag
var ShadowFragmentShader string

// DepthViewVertexShader is the vertex shader for the full-screen depth quad.
//
//go:embed depth.vert
var DepthViewVertexShader string

// DepthViewFragmentShader shows the depth texture as grayscale.
//
//go:embed depth.frag
var DepthViewFragmentShader string
