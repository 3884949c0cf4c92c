package forward

import (
	"testing"

	"github.com/gogpu/gputypes"
)

func TestCanCopyDepth(t *testing.T) {
	tests := []struct {
		name    string
		caps    DeviceCapabilities
		samples uint32
		want    bool
	}{
		{"default single sample", DefaultCapabilities(), 1, true},
		{"default msaa", DefaultCapabilities(), 4, true},
		{"texture copy only", DeviceCapabilities{TextureCopy: true}, 1, true},
		{"msaa without multisampled textures", DeviceCapabilities{TextureCopy: true, DepthTarget: true}, 4, false},
		{"nothing", DeviceCapabilities{}, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := CameraData{MSAASamples: tt.samples}
			if got := tt.caps.CanCopyDepth(&cam); got != tt.want {
				t.Errorf("CanCopyDepth() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRequiresIntermediateColor(t *testing.T) {
	caps := DefaultCapabilities()
	tests := []struct {
		name  string
		cam   CameraData
		base  TargetDescriptor
		depth bool
		want  bool
	}{
		{"plain", CameraData{}, TargetDescriptor{ArrayLayers: 1}, false, false},
		{"depth attachment", CameraData{}, TargetDescriptor{}, true, true},
		{"scene view", CameraData{SceneView: true}, TargetDescriptor{}, false, true},
		{"scaled", CameraData{RenderScale: 0.5}, TargetDescriptor{}, false, true},
		{"unit scale", CameraData{RenderScale: 1}, TargetDescriptor{}, false, false},
		{"nearly unit scale", CameraData{RenderScale: 0.99999994}, TargetDescriptor{}, false, false},
		{"slightly scaled", CameraData{RenderScale: 0.999}, TargetDescriptor{}, false, true},
		{"hdr", CameraData{HDR: true}, TargetDescriptor{}, false, true},
		{"post", CameraData{PostProcess: PostProcessData{Enabled: true}}, TargetDescriptor{}, false, true},
		{"opaque texture", CameraData{RequiresOpaqueTexture: true}, TargetDescriptor{}, false, true},
		{"array target", CameraData{}, TargetDescriptor{ArrayLayers: 2}, false, true},
		{"custom viewport", CameraData{CustomViewport: true}, TargetDescriptor{}, false, true},
		{"msaa", CameraData{MSAASamples: 4}, TargetDescriptor{}, false, true},
		{"offscreen hdr", CameraData{Offscreen: true, HDR: true}, TargetDescriptor{}, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := caps.RequiresIntermediateColor(&tt.cam, tt.base, tt.depth); got != tt.want {
				t.Errorf("RequiresIntermediateColor() = %v, want %v", got, tt.want)
			}
		})
	}

	msaaBackBuffer := DefaultCapabilities()
	msaaBackBuffer.MultisampledBackBuffer = true
	cam := CameraData{MSAASamples: 4}
	if msaaBackBuffer.RequiresIntermediateColor(&cam, TargetDescriptor{}, false) {
		t.Error("multisampled back buffer should render MSAA directly")
	}
}

func TestNewTargetDescriptor(t *testing.T) {
	cam := CameraData{Width: 1920, Height: 1080, RenderScale: 0.5, MSAASamples: 4}
	desc := NewTargetDescriptor(&cam, gputypes.TextureFormatRGBA8Unorm)

	if desc.Width != 960 || desc.Height != 540 {
		t.Errorf("size = %dx%d, want 960x540", desc.Width, desc.Height)
	}
	if desc.SampleCount != 4 {
		t.Errorf("SampleCount = %d, want 4", desc.SampleCount)
	}
	if desc.ColorFormat != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("ColorFormat = %v, want surface format", desc.ColorFormat)
	}
	if desc.DepthFormat != gputypes.TextureFormatDepth24PlusStencil8 {
		t.Errorf("DepthFormat = %v", desc.DepthFormat)
	}
	if desc.ArrayLayers != 1 {
		t.Errorf("ArrayLayers = %d, want 1", desc.ArrayLayers)
	}

	cam.HDR = true
	cam.Stereo = true
	cam.StereoMode = StereoSinglePassInstanced
	desc = NewTargetDescriptor(&cam, gputypes.TextureFormatRGBA8Unorm)
	if desc.ColorFormat != gputypes.TextureFormatRGBA16Float {
		t.Errorf("HDR ColorFormat = %v, want RGBA16Float", desc.ColorFormat)
	}
	if desc.ArrayLayers != 2 {
		t.Errorf("instanced stereo ArrayLayers = %d, want 2", desc.ArrayLayers)
	}

	cam.StereoMode = StereoSinglePass
	desc = NewTargetDescriptor(&cam, gputypes.TextureFormatRGBA8Unorm)
	if desc.Width != 1920 {
		t.Errorf("single-pass stereo width = %d, want 1920", desc.Width)
	}
}

func TestSequencerOptions(t *testing.T) {
	s := NewSequencer(
		WithSurfaceFormat(gputypes.TextureFormatRGBA8Unorm),
		WithMaxVisibleLocalLights(-1),
		WithCapabilities(nil),
	)
	if s.opts.surfaceFormat != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("surface format = %v", s.opts.surfaceFormat)
	}
	if s.opts.maxVisibleLocalLights != DefaultMaxVisibleLocalLights {
		t.Errorf("non-positive light bound should keep the default, got %d", s.opts.maxVisibleLocalLights)
	}
	if _, ok := s.opts.caps.(DeviceCapabilities); !ok {
		t.Errorf("nil capabilities should keep the default, got %T", s.opts.caps)
	}

	s = NewSequencer(WithSurfaceFormat(gputypes.TextureFormatUndefined))
	if s.opts.surfaceFormat != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("undefined surface format should keep BGRA8Unorm, got %v", s.opts.surfaceFormat)
	}
}
