package scene

import (
	"strings"
	"testing"

	"github.com/Faultbox/layerview/internal/engine/gpu/gputest"
	"github.com/Faultbox/layerview/internal/engine/scene/shaders"
)

func TestShadowProgramUsesShadowConstants(t *testing.T) {
	rec := gputest.New()
	progs, err := NewPrograms(rec)
	if err != nil {
		t.Fatalf("NewPrograms() error = %v", err)
	}
	vert, frag := rec.ProgramSource(progs.shadow.id)

	want := []string{
		"#define SHADOW_BIAS 0.0025",
		"#define MAX_DARKENING 0.5",
		"#define MIN_BRIGHTNESS 0.25",
		"#define PCF_KERNEL 1",
	}
	for _, src := range []string{vert, frag} {
		if !strings.HasPrefix(src, "#version 410 core\n#define ") {
			t.Errorf("defines must follow the version line:\n%.80s", src)
		}
		for _, w := range want {
			if !strings.Contains(src, w+"\n") {
				t.Errorf("shader source missing %q", w)
			}
		}
	}
}

func TestShadowShadersHaveNoInlineConstants(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		macros []string
		banned []string
	}{
		{"fragment", shaders.ShadowFragmentShader,
			[]string{"SHADOW_BIAS", "MAX_DARKENING", "PCF_KERNEL"},
			[]string{"0.0025", "shadow * 0.5", "9.0"}},
		{"vertex", shaders.ShadowVertexShader,
			[]string{"MIN_BRIGHTNESS"},
			[]string{"0.25"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, m := range tt.macros {
				if !strings.Contains(tt.src, m) {
					t.Errorf("shader does not use %s", m)
				}
				if strings.Contains(tt.src, "#define "+m) {
					t.Errorf("shader defines %s itself", m)
				}
			}
			for _, b := range tt.banned {
				if strings.Contains(tt.src, b) {
					t.Errorf("shader hard-codes %s", b)
				}
			}
		})
	}
}

func TestWithDefines(t *testing.T) {
	defs := []string{"#define A 1"}
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"after version", "#version 410 core\nvoid main() {}\n", "#version 410 core\n#define A 1\nvoid main() {}\n"},
		{"version only", "#version 410 core", "#version 410 core\n#define A 1\n"},
		{"no version", "void main() {}", "#define A 1\nvoid main() {}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := withDefines(tt.src, defs); got != tt.want {
				t.Errorf("withDefines() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGLSLFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0.0025, "0.0025"},
		{0.5, "0.5"},
		{1, "1.0"},
	}
	for _, tt := range tests {
		if got := glslFloat(tt.in); got != tt.want {
			t.Errorf("glslFloat(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
