package forward

import "testing"

func TestDecideDepthPrepass(t *testing.T) {
	copyable := fixedCaps{copyDepth: true}
	uncopyable := fixedCaps{copyDepth: false}

	tests := []struct {
		name  string
		caps  Capabilities
		setup func(f *FrameState)
		want  bool
	}{
		{"nothing", copyable, func(*FrameState) {}, false},
		{"screen space resolve", copyable, func(f *FrameState) { f.Shadows.RequiresScreenSpaceResolve = true }, true},
		{"scene view", copyable, func(f *FrameState) { f.Camera.SceneView = true }, true},
		{"depth texture copyable", copyable, func(f *FrameState) { f.Camera.RequiresDepthTexture = true }, false},
		{"depth texture not copyable", uncopyable, func(f *FrameState) { f.Camera.RequiresDepthTexture = true }, true},
		{"not copyable without request", uncopyable, func(*FrameState) {}, false},
		{"stereo", copyable, func(f *FrameState) { f.Camera.Stereo = true }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame := baseFrame()
			tt.setup(frame)
			d := Decide(frame, tt.caps, TargetDescriptor{})
			if d.DepthPrepass != tt.want {
				t.Errorf("DepthPrepass = %v, want %v", d.DepthPrepass, tt.want)
			}
			if d.DepthPrepass && d.DepthAttachment {
				t.Error("DepthPrepass and DepthAttachment both set")
			}
		})
	}
}

func TestDecideDepthAttachment(t *testing.T) {
	frame := baseFrame()
	frame.Camera.RequiresDepthTexture = true

	d := Decide(frame, fixedCaps{copyDepth: true}, TargetDescriptor{})
	if !d.DepthAttachment || !d.DepthCopy {
		t.Errorf("DepthAttachment=%v DepthCopy=%v, want both", d.DepthAttachment, d.DepthCopy)
	}

	frame.Camera.Stereo = true
	d = Decide(frame, fixedCaps{copyDepth: true}, TargetDescriptor{})
	if d.DepthAttachment || d.DepthCopy {
		t.Errorf("stereo: DepthAttachment=%v DepthCopy=%v, want neither", d.DepthAttachment, d.DepthCopy)
	}
}

// probeCaps records the arguments of the color probe.
type probeCaps struct {
	gotDepth bool
	gotBase  TargetDescriptor
	answer   bool
}

func (p *probeCaps) CanCopyDepth(*CameraData) bool { return true }

func (p *probeCaps) RequiresIntermediateColor(_ *CameraData, base TargetDescriptor, depth bool) bool {
	p.gotBase = base
	p.gotDepth = depth
	return p.answer
}

func TestDecideColorAttachmentUsesProbe(t *testing.T) {
	frame := baseFrame()
	frame.Camera.RequiresDepthTexture = true
	base := TargetDescriptor{Width: 10, Height: 20}

	probe := &probeCaps{answer: true}
	d := Decide(frame, probe, base)

	if !d.ColorAttachment {
		t.Error("ColorAttachment should follow the probe")
	}
	if !probe.gotDepth {
		t.Error("probe should receive the depth attachment decision")
	}
	if probe.gotBase != base {
		t.Errorf("probe base = %+v, want %+v", probe.gotBase, base)
	}
}

func TestDecidePresent(t *testing.T) {
	tests := []struct {
		name      string
		post      bool
		offscreen bool
		color     bool
		wantPP    bool
		wantBlit  bool
	}{
		{"direct", false, false, false, false, false},
		{"intermediate", false, false, true, false, true},
		{"intermediate offscreen", false, true, true, false, false},
		{"post", true, false, true, true, false},
		{"post offscreen", true, true, false, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame := baseFrame()
			frame.Camera.PostProcess.Enabled = tt.post
			frame.Camera.Offscreen = tt.offscreen
			d := Decide(frame, fixedCaps{copyDepth: true, intermediateColor: tt.color}, TargetDescriptor{})
			if d.TransparentPostProcess != tt.wantPP || d.FinalBlit != tt.wantBlit {
				t.Errorf("post=%v blit=%v, want %v/%v", d.TransparentPostProcess, d.FinalBlit, tt.wantPP, tt.wantBlit)
			}
		})
	}
}

func TestDecideOpaquePostProcess(t *testing.T) {
	frame := baseFrame()
	frame.Camera.PostProcess = PostProcessData{
		Enabled: true,
		Effects: []PostProcessEffect{
			{Name: "bloom", Enabled: true},
			{Name: "ssao", Enabled: false, OpaqueOnly: true},
		},
	}
	if d := Decide(frame, DefaultCapabilities(), TargetDescriptor{}); d.OpaquePostProcess {
		t.Error("disabled opaque-only effect must not enable the opaque stage")
	}

	frame.Camera.PostProcess.Effects[1].Enabled = true
	if d := Decide(frame, DefaultCapabilities(), TargetDescriptor{}); !d.OpaquePostProcess {
		t.Error("enabled opaque-only effect should enable the opaque stage")
	}

	frame.Camera.PostProcess.Enabled = false
	if d := Decide(frame, DefaultCapabilities(), TargetDescriptor{}); d.OpaquePostProcess {
		t.Error("post-processing disabled disables every stage")
	}
}

func TestDecideScreenSpaceShadowResolve(t *testing.T) {
	frame := baseFrame()
	frame.Shadows.RequiresScreenSpaceResolve = true
	if Decide(frame, DefaultCapabilities(), TargetDescriptor{}).ScreenSpaceShadowResolve {
		t.Error("resolve needs directional shadows")
	}
	frame.Shadows.RenderDirectional = true
	if !Decide(frame, DefaultCapabilities(), TargetDescriptor{}).ScreenSpaceShadowResolve {
		t.Error("directional shadows with resolve request should resolve")
	}
}
