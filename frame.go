package forward

import (
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"
)

// CameraClearFlags describes how a camera clears its target before drawing.
type CameraClearFlags int

const (
	// CameraClearSkybox clears color and depth, then draws the skybox.
	CameraClearSkybox CameraClearFlags = iota

	// CameraClearColor clears color to the background color and clears depth.
	CameraClearColor

	// CameraClearDepth clears depth only.
	CameraClearDepth

	// CameraClearNothing keeps the previous content of the target.
	CameraClearNothing
)

// String returns the clear mode name.
func (f CameraClearFlags) String() string {
	switch f {
	case CameraClearSkybox:
		return "Skybox"
	case CameraClearColor:
		return "Color"
	case CameraClearDepth:
		return "Depth"
	case CameraClearNothing:
		return "Nothing"
	default:
		return "Unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (f CameraClearFlags) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(f.String())), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Names are matched
// case-insensitively.
func (f *CameraClearFlags) UnmarshalText(text []byte) error {
	for c := CameraClearSkybox; c <= CameraClearNothing; c++ {
		if strings.EqualFold(string(text), c.String()) {
			*f = c
			return nil
		}
	}
	return fmt.Errorf("forward: unknown camera clear flags %q", text)
}

// StereoMode selects how stereo eyes are laid out in the render targets.
type StereoMode int

const (
	// StereoMultiPass renders each eye to its own 2D target.
	StereoMultiPass StereoMode = iota

	// StereoSinglePass renders both eyes side by side in one double-wide target.
	StereoSinglePass

	// StereoSinglePassInstanced renders both eyes into a 2-layer texture array.
	StereoSinglePassInstanced
)

var stereoModeNames = [...]string{"multi_pass", "single_pass", "single_pass_instanced"}

// String returns the stereo mode name.
func (m StereoMode) String() string {
	if m < 0 || int(m) >= len(stereoModeNames) {
		return "unknown"
	}
	return stereoModeNames[m]
}

// MarshalText implements encoding.TextMarshaler.
func (m StereoMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *StereoMode) UnmarshalText(text []byte) error {
	for i, name := range stereoModeNames {
		if strings.EqualFold(string(text), name) {
			*m = StereoMode(i)
			return nil
		}
	}
	return fmt.Errorf("forward: unknown stereo mode %q", text)
}

// BuildMode distinguishes editor frames from runtime frames.
// Editor-only passes are included by ordinary branching on this flag.
type BuildMode int

const (
	// BuildModeRuntime is a player build; editor-only passes are skipped.
	BuildModeRuntime BuildMode = iota

	// BuildModeEditor enables editor-only passes such as the scene-view
	// depth visualization.
	BuildModeEditor
)

// MarshalText implements encoding.TextMarshaler.
func (m BuildMode) MarshalText() ([]byte, error) {
	if m == BuildModeEditor {
		return []byte("editor"), nil
	}
	return []byte("runtime"), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *BuildMode) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "runtime", "":
		*m = BuildModeRuntime
	case "editor":
		*m = BuildModeEditor
	default:
		return fmt.Errorf("forward: unknown build mode %q", text)
	}
	return nil
}

// PostProcessEffect is one active post-processing effect.
type PostProcessEffect struct {
	// Name identifies the effect (for logs and tools).
	Name string `yaml:"name" toml:"name"`

	// Enabled reports whether the effect is active this frame.
	Enabled bool `yaml:"enabled" toml:"enabled"`

	// OpaqueOnly marks effects that run after opaques and before
	// transparents (e.g. ambient occlusion, fog).
	OpaqueOnly bool `yaml:"opaque_only" toml:"opaque_only"`
}

// PostProcessData holds the post-processing state of a camera.
type PostProcessData struct {
	Enabled bool                `yaml:"enabled" toml:"enabled"`
	Effects []PostProcessEffect `yaml:"effects" toml:"effects"`
}

// HasOpaqueOnlyEffects reports whether at least one enabled effect runs
// in the opaque-only stage.
func (p *PostProcessData) HasOpaqueOnlyEffects() bool {
	for i := range p.Effects {
		if p.Effects[i].Enabled && p.Effects[i].OpaqueOnly {
			return true
		}
	}
	return false
}

// CameraData is the per-camera part of a frame snapshot.
type CameraData struct {
	// Name is a debug label for the camera.
	Name string `yaml:"name" toml:"name"`

	// Width and Height are the camera pixel dimensions before render scale.
	Width  uint32 `yaml:"width" toml:"width"`
	Height uint32 `yaml:"height" toml:"height"`

	// RenderScale scales the intermediate targets. Zero is treated as 1.
	RenderScale float32 `yaml:"render_scale" toml:"render_scale"`

	// CustomViewport is set when the camera renders to a sub-rectangle
	// of its target.
	CustomViewport bool `yaml:"custom_viewport" toml:"custom_viewport"`

	HDR         bool   `yaml:"hdr" toml:"hdr"`
	MSAASamples uint32 `yaml:"msaa_samples" toml:"msaa_samples"`

	ClearFlags      CameraClearFlags `yaml:"clear_flags" toml:"clear_flags"`
	BackgroundColor gputypes.Color   `yaml:"background_color" toml:"background_color"`

	RequiresDepthTexture  bool `yaml:"requires_depth_texture" toml:"requires_depth_texture"`
	RequiresOpaqueTexture bool `yaml:"requires_opaque_texture" toml:"requires_opaque_texture"`

	// SceneView marks the editor scene-view camera.
	SceneView bool `yaml:"scene_view" toml:"scene_view"`

	Stereo     bool       `yaml:"stereo" toml:"stereo"`
	StereoMode StereoMode `yaml:"stereo_mode" toml:"stereo_mode"`

	// Offscreen is set when the camera renders into a texture rather than
	// to the display.
	Offscreen bool `yaml:"offscreen" toml:"offscreen"`

	PostProcess PostProcessData `yaml:"post_process" toml:"post_process"`
}

// Samples returns the MSAA sample count, never less than 1.
func (c *CameraData) Samples() uint32 {
	if c.MSAASamples < 1 {
		return 1
	}
	return c.MSAASamples
}

// Scale returns the render scale, treating zero as 1.
func (c *CameraData) Scale() float32 {
	if c.RenderScale == 0 {
		return 1
	}
	return c.RenderScale
}

// ShadowData is the shadow part of a frame snapshot.
type ShadowData struct {
	RenderDirectional bool `yaml:"render_directional" toml:"render_directional"`
	RenderLocal       bool `yaml:"render_local" toml:"render_local"`

	// RequiresScreenSpaceResolve requests that directional shadows be
	// resolved into a screen-space shadow texture.
	RequiresScreenSpaceResolve bool `yaml:"requires_screen_space_resolve" toml:"requires_screen_space_resolve"`

	DirectionalResolution uint32 `yaml:"directional_resolution" toml:"directional_resolution"`
	LocalResolution       uint32 `yaml:"local_resolution" toml:"local_resolution"`
}

// LightData is the lighting part of a frame snapshot.
type LightData struct {
	// AdditionalLightsCount is the number of visible lights besides the
	// main directional light.
	AdditionalLightsCount int `yaml:"additional_lights" toml:"additional_lights"`
}

// FrameState is an immutable per-frame snapshot produced by the host.
// The sequencer reads it and never modifies it.
type FrameState struct {
	Camera  CameraData `yaml:"camera" toml:"camera"`
	Shadows ShadowData `yaml:"shadows" toml:"shadows"`
	Lights  LightData  `yaml:"lights" toml:"lights"`

	DynamicBatching bool      `yaml:"dynamic_batching" toml:"dynamic_batching"`
	Mode            BuildMode `yaml:"mode" toml:"mode"`
}
