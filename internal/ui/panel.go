package ui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"go.uber.org/zap"

	"github.com/Faultbox/layerview/internal/control"
	"github.com/Faultbox/layerview/internal/engine/camera"
	"github.com/Faultbox/layerview/internal/engine/framebuffer"
	"github.com/Faultbox/layerview/internal/engine/gpu"
	"github.com/Faultbox/layerview/internal/logger"
	"github.com/Faultbox/layerview/internal/viewer"
)

const panelWidth = 300

// Panel draws the scene view and the control panel each ImGui frame.
type Panel struct {
	session *viewer.Session
	dev     gpu.Device
	backend *Backend
	fb      *framebuffer.Framebuffer
	log     *zap.Logger
}

// NewPanel creates the offscreen scene target.
func NewPanel(b *Backend, dev gpu.Device, s *viewer.Session) (*Panel, error) {
	fb, err := framebuffer.New(dev, 1, 1)
	if err != nil {
		return nil, err
	}
	return &Panel{
		session: s,
		dev:     dev,
		backend: b,
		fb:      fb,
		log:     logger.Named("ui"),
	}, nil
}

// Render is the backend's per-frame callback.
func (p *Panel) Render() {
	for _, a := range pressedActions() {
		if p.session.Handle(a) {
			p.backend.Close()
		}
	}

	x, y, w, h := Viewport()
	sceneW := w - panelWidth
	if sceneW < 1 {
		sceneW = 1
	}

	p.renderScene(x, y, sceneW, h)
	p.renderControls(x+sceneW, y, panelWidth, h)
}

func (p *Panel) renderScene(x, y, w, h float32) {
	width, height := max(int32(w), 1), max(int32(h), 1)
	if fw, fh := p.fb.Size(); fw != width || fh != height {
		if err := p.fb.Resize(width, height); err != nil {
			p.log.Error("failed to resize scene target", zap.Error(err))
			width, height = p.fb.Size()
		}
	}

	p.session.Frame(p.fb.Target(), width, height)
	p.dev.BindFramebuffer(gpu.Screen)

	imgui.SetNextWindowPos(imgui.NewVec2(x, y))
	imgui.SetNextWindowSize(imgui.NewVec2(w, h))

	flags := imgui.WindowFlagsNoTitleBar | imgui.WindowFlagsNoResize |
		imgui.WindowFlagsNoMove | imgui.WindowFlagsNoScrollbar |
		imgui.WindowFlagsNoScrollWithMouse | imgui.WindowFlagsNoBringToFrontOnFocus

	imgui.PushStyleVarVec2(imgui.StyleVarWindowPadding, imgui.NewVec2(0, 0))
	if imgui.BeginV("##Scene", nil, flags) {
		texRef := imgui.NewTextureRefTextureID(imgui.TextureID(p.fb.ColorTexture()))
		imgui.ImageV(*texRef,
			imgui.NewVec2(w, h),
			imgui.NewVec2(0, 1),
			imgui.NewVec2(1, 0))

		if imgui.IsItemHovered() {
			if wheel := imgui.CurrentIO().MouseWheel(); wheel != 0 {
				p.session.State().ZoomBy(wheel * control.ZoomStep)
			}
		}
	}
	imgui.End()
	imgui.PopStyleVar()
}

func (p *Panel) renderControls(x, y, w, h float32) {
	imgui.SetNextWindowPos(imgui.NewVec2(x, y))
	imgui.SetNextWindowSize(imgui.NewVec2(w, h))

	flags := imgui.WindowFlagsNoResize | imgui.WindowFlagsNoMove | imgui.WindowFlagsNoCollapse
	imgui.PushStyleVarVec2(imgui.StyleVarWindowPadding, imgui.NewVec2(8, 8))
	if imgui.BeginV("Controls", nil, flags) {
		p.renderView()
		imgui.Separator()
		p.renderLayers()
		imgui.Separator()
		p.renderActions()
		imgui.Separator()
		imgui.TextWrapped(p.session.Status())
		res := p.session.ShadowResolution()
		imgui.TextDisabled(fmt.Sprintf("Frames %d, shadow map %dx%d", p.session.Frames(), res, res))
	}
	imgui.End()
	imgui.PopStyleVar()
}

func (p *Panel) renderView() {
	state := p.session.State()
	params := state.Params()

	imgui.Text("Camera")
	rotation := int32(params.Rotation)
	imgui.SetNextItemWidth(-1)
	if imgui.SliderIntV("##Rotation", &rotation, 0, 359, "Rotation %d", imgui.SliderFlagsNone) {
		state.SetRotation(int(rotation))
	}

	zoom := params.Zoom
	imgui.SetNextItemWidth(-1)
	if imgui.SliderFloatV("##Zoom", &zoom, 0, camera.MaxZoom, "Zoom %.0f", imgui.SliderFlagsNone) {
		state.SetZoom(zoom)
	}

	ortho := params.Projection == camera.Orthographic
	if imgui.Checkbox("Orthographic", &ortho) {
		if ortho {
			state.SetProjection(camera.Orthographic)
		} else {
			state.SetProjection(camera.Perspective)
		}
	}

	imgui.Spacing()
	imgui.Text("Light")
	light := int32(params.LightRotation)
	imgui.SetNextItemWidth(-1)
	if imgui.SliderIntV("##Light", &light, 0, 359, "Rotation %d", imgui.SliderFlagsNone) {
		state.SetLightRotation(int(light))
	}

	show := params.ShowShadowMap
	if imgui.Checkbox("Show shadow map", &show) {
		state.SetShowShadowMap(show)
	}
}

func (p *Panel) renderLayers() {
	layers := p.session.Layers()
	imgui.Text(fmt.Sprintf("Layers (%d, %d vertices)", layers.Len(), layers.VertexCount()))

	if layers.Len() == 0 {
		imgui.TextDisabled("Open a layer file to begin")
		return
	}

	var remove string
	for _, name := range layers.Names() {
		l := layers.Get(name)
		if imgui.Button("X##" + name) {
			remove = name
		}
		imgui.SameLine()
		imgui.Text(name)
		if imgui.IsItemHovered() {
			imgui.SetTooltip(fmt.Sprintf("%d vertices, %d triangles, normals: %t",
				l.VertexCount(), l.TriangleCount(), l.HasNormals()))
		}
	}
	if remove != "" {
		p.session.RemoveLayer(remove)
	}

	if imgui.ButtonV("Clear", imgui.NewVec2(-1, 0)) {
		p.session.ClearLayers()
	}
}

func (p *Panel) renderActions() {
	picking := p.session.Picking()
	if picking {
		imgui.BeginDisabledV(true)
	}
	if imgui.ButtonV("Open...", imgui.NewVec2(-1, 0)) {
		p.session.OpenFile()
	}
	if picking {
		imgui.EndDisabled()
	}

	if imgui.ButtonV("Screenshot", imgui.NewVec2(-1, 0)) {
		p.session.RequestScreenshot()
	}
	if imgui.ButtonV("Save view", imgui.NewVec2(-1, 0)) {
		if _, err := p.session.SaveView(); err != nil {
			p.log.Error("failed to save view", zap.Error(err))
		}
	}
}

// Destroy releases the scene target.
func (p *Panel) Destroy() {
	p.fb.Destroy()
}
