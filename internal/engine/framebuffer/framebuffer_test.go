package framebuffer

import (
	"errors"
	"testing"

	"github.com/Faultbox/layerview/internal/engine/gpu"
	"github.com/Faultbox/layerview/internal/engine/gpu/gputest"
)

func TestNewAttachesColorAndDepth(t *testing.T) {
	dev := gputest.New()
	fb, err := New(dev, 320, 200)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer fb.Destroy()

	specs := dev.Find("CreateTexture2D")
	if len(specs) != 2 {
		t.Fatalf("textures created = %d, want 2", len(specs))
	}
	if s := specs[0].Args[0].(gpu.TextureSpec); s.Format != gpu.FormatRGBA8 || s.Width != 320 || s.Height != 200 {
		t.Errorf("color spec = %+v", s)
	}
	if s := specs[1].Args[0].(gpu.TextureSpec); s.Format != gpu.FormatDepth32F {
		t.Errorf("depth spec = %+v", s)
	}
	attach := dev.Find("AttachTexture")
	if len(attach) != 1 || attach[0].Args[1] != gpu.AttachDepth {
		t.Errorf("AttachTexture = %v, want one depth attachment", attach)
	}
	if w, h := fb.Size(); w != 320 || h != 200 {
		t.Errorf("Size() = %dx%d", w, h)
	}
}

func TestNewClampsSize(t *testing.T) {
	fb, err := New(gputest.New(), 0, -4)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if w, h := fb.Size(); w != 1 || h != 1 {
		t.Errorf("Size() = %dx%d, want 1x1", w, h)
	}
}

func TestNewFailureReleasesTextures(t *testing.T) {
	dev := gputest.New()
	dev.Fail["AttachTexture"] = true

	if _, err := New(dev, 64, 64); !errors.Is(err, gputest.ErrInjected) {
		t.Fatalf("New() error = %v, want injected failure", err)
	}
	if dev.LiveCount("texture") != 0 || dev.LiveCount("framebuffer") != 0 {
		t.Errorf("leaked textures=%d framebuffers=%d", dev.LiveCount("texture"), dev.LiveCount("framebuffer"))
	}
}

func TestResize(t *testing.T) {
	dev := gputest.New()
	fb, err := New(dev, 100, 100)
	if err != nil {
		t.Fatal(err)
	}
	before := fb.ColorTexture()

	dev.Reset()
	if err := fb.Resize(100, 100); err != nil {
		t.Fatal(err)
	}
	if len(dev.Calls) != 0 {
		t.Errorf("same-size Resize touched the device: %v", dev.Ops())
	}

	if err := fb.Resize(200, 50); err != nil {
		t.Fatalf("Resize() error = %v", err)
	}
	if w, h := fb.Size(); w != 200 || h != 50 {
		t.Errorf("Size() = %dx%d", w, h)
	}
	if fb.ColorTexture() == before {
		t.Error("Resize should rebuild the color texture")
	}
	if dev.LiveCount("texture") != 2 || dev.LiveCount("framebuffer") != 1 {
		t.Errorf("live textures=%d framebuffers=%d, want 2 and 1", dev.LiveCount("texture"), dev.LiveCount("framebuffer"))
	}
}

func TestResizeFailureKeepsPreviousTarget(t *testing.T) {
	tests := []struct {
		name string
		fail string
	}{
		{"color texture", "CreateTexture2D"},
		{"framebuffer object", "CreateFramebuffer"},
		{"depth attachment", "AttachTexture"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := gputest.New()
			fb, err := New(dev, 100, 80)
			if err != nil {
				t.Fatal(err)
			}
			target, color := fb.Target(), fb.ColorTexture()

			dev.Fail[tt.fail] = true
			if err := fb.Resize(200, 160); !errors.Is(err, gputest.ErrInjected) {
				t.Fatalf("Resize() error = %v, want injected failure", err)
			}
			if w, h := fb.Size(); w != 100 || h != 80 {
				t.Errorf("Size() after failed Resize = %dx%d, want 100x80", w, h)
			}
			if fb.Target() != target || fb.Target() == gpu.Screen {
				t.Errorf("Target() = %d, want previous target %d", fb.Target(), target)
			}
			if fb.ColorTexture() != color {
				t.Errorf("ColorTexture() = %d, want %d", fb.ColorTexture(), color)
			}
			if dev.LiveCount("texture") != 2 || dev.LiveCount("framebuffer") != 1 {
				t.Errorf("live textures=%d framebuffers=%d, want 2 and 1", dev.LiveCount("texture"), dev.LiveCount("framebuffer"))
			}

			delete(dev.Fail, tt.fail)
			if err := fb.Resize(200, 160); err != nil {
				t.Fatalf("retried Resize() error = %v", err)
			}
			if w, h := fb.Size(); w != 200 || h != 160 {
				t.Errorf("Size() after retry = %dx%d, want 200x160", w, h)
			}
			if fb.Target() == target || fb.Target() == gpu.Screen {
				t.Errorf("Target() after retry = %d, want a new offscreen target", fb.Target())
			}
			if dev.LiveCount("texture") != 2 || dev.LiveCount("framebuffer") != 1 {
				t.Errorf("live textures=%d framebuffers=%d after retry", dev.LiveCount("texture"), dev.LiveCount("framebuffer"))
			}
		})
	}
}

func TestResizeRebuildsAfterDestroy(t *testing.T) {
	dev := gputest.New()
	fb, err := New(dev, 64, 64)
	if err != nil {
		t.Fatal(err)
	}
	fb.Destroy()

	if err := fb.Resize(64, 64); err != nil {
		t.Fatalf("Resize() error = %v", err)
	}
	if fb.Target() == gpu.Screen {
		t.Error("same-size Resize of a released framebuffer should rebuild it")
	}
}
