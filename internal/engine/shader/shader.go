// Package shader compiles and links GLSL programs on the current GL context.
package shader

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Stage names a shader stage for error messages.
type Stage struct {
	Type uint32
	Name string
}

var (
	Vertex   = Stage{gl.VERTEX_SHADER, "vertex"}
	Fragment = Stage{gl.FRAGMENT_SHADER, "fragment"}
)

// CompileProgram compiles vertex and fragment sources and links them.
// Returns the program ID or an error carrying the driver's info log.
func CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vert, err := compile(vertexSrc, Vertex)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vert)

	frag, err := compile(fragmentSrc, Fragment)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(frag)

	program := gl.CreateProgram()
	gl.AttachShader(program, vert)
	gl.AttachShader(program, frag)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := infoLog(logLen, func(buf []byte) {
			gl.GetProgramInfoLog(program, logLen, nil, &buf[0])
		})
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", log)
	}

	return program, nil
}

func compile(source string, stage Stage) (uint32, error) {
	sh := gl.CreateShader(stage.Type)
	csource, free := gl.Strs(terminate(source))
	gl.ShaderSource(sh, 1, csource, nil)
	free()
	gl.CompileShader(sh)

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLen)
		log := infoLog(logLen, func(buf []byte) {
			gl.GetShaderInfoLog(sh, logLen, nil, &buf[0])
		})
		gl.DeleteShader(sh)
		return 0, fmt.Errorf("%s shader: %s", stage.Name, log)
	}

	return sh, nil
}

func infoLog(length int32, fetch func([]byte)) string {
	if length <= 0 {
		return "(no info log)"
	}
	buf := make([]byte, length)
	fetch(buf)
	return strings.TrimRight(string(buf), "\x00\n")
}

// terminate appends the NUL byte go-gl expects on C strings.
func terminate(s string) string {
	if strings.HasSuffix(s, "\x00") {
		return s
	}
	return s + "\x00"
}

// GetUniform returns the uniform location for the given name, or -1 when the
// uniform is absent or optimized out.
func GetUniform(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(terminate(name)))
}

// GetAttrib returns the attribute location for the given name, or -1.
func GetAttrib(program uint32, name string) int32 {
	return gl.GetAttribLocation(program, gl.Str(terminate(name)))
}
