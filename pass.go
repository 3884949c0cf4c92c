package forward

import (
	"slices"

	"github.com/gogpu/gputypes"
)

// PassKind identifies what a pass does.
type PassKind int

const (
	PassDirectionalShadow PassKind = iota
	PassLocalShadow
	PassForwardSetup
	PassDepthOnlyPrepass
	PassScreenSpaceShadowResolve
	PassRenderTextureAlloc
	PassBeginStereo
	PassLightingConstants
	PassOpaqueForward
	PassOpaquePostProcess
	PassSkybox
	PassCopyDepth
	PassCopyColor
	PassTransparentForward
	PassTransparentPostProcess
	PassFinalBlit
	PassEndStereo
	PassSceneViewDepthCopy

	// PassCustom is a pass supplied by an extension provider.
	PassCustom
)

var passKindNames = [...]string{
	PassDirectionalShadow:        "DirectionalShadow",
	PassLocalShadow:              "LocalShadow",
	PassForwardSetup:             "ForwardSetup",
	PassDepthOnlyPrepass:         "DepthOnlyPrepass",
	PassScreenSpaceShadowResolve: "ScreenSpaceShadowResolve",
	PassRenderTextureAlloc:       "RenderTextureAlloc",
	PassBeginStereo:              "BeginStereo",
	PassLightingConstants:        "LightingConstants",
	PassOpaqueForward:            "OpaqueForward",
	PassOpaquePostProcess:        "OpaquePostProcess",
	PassSkybox:                   "Skybox",
	PassCopyDepth:                "CopyDepth",
	PassCopyColor:                "CopyColor",
	PassTransparentForward:       "TransparentForward",
	PassTransparentPostProcess:   "TransparentPostProcess",
	PassFinalBlit:                "FinalBlit",
	PassEndStereo:                "EndStereo",
	PassSceneViewDepthCopy:       "SceneViewDepthCopy",
	PassCustom:                   "Custom",
}

// String returns the pass kind name.
func (k PassKind) String() string {
	if k < 0 || int(k) >= len(passKindNames) {
		return "Unknown"
	}
	return passKindNames[k]
}

// ClearFlag selects which buffers a pass clears before drawing.
type ClearFlag uint8

// ClearNone preserves the previous content of color and depth.
const ClearNone ClearFlag = 0

const (
	ClearColor ClearFlag = 1 << iota
	ClearDepth

	ClearAll = ClearColor | ClearDepth
)

// ClearFlagFor maps camera clear flags to the clear of the first pass that
// draws into the camera targets.
func ClearFlagFor(flags CameraClearFlags) ClearFlag {
	if flags == CameraClearNothing {
		return ClearNone
	}
	f := ClearDepth
	if flags == CameraClearColor || flags == CameraClearSkybox {
		f |= ClearColor
	}
	return f
}

// RendererConfiguration is the set of per-object data a draw pass binds.
type RendererConfiguration uint8

const (
	PerObjectLightProbe RendererConfiguration = 1 << iota
	PerObjectReflectionProbes
	PerObjectLightmaps
	PerObjectLightIndices
)

// RendererConfigurationFor returns the per-object data needed for a frame
// with the given number of additional lights.
func RendererConfigurationFor(additionalLights int) RendererConfiguration {
	config := PerObjectLightProbe | PerObjectReflectionProbes | PerObjectLightmaps
	if additionalLights > 0 {
		config |= PerObjectLightIndices
	}
	return config
}

// PassParams holds the kind-specific parameters of a pass. Fields that do
// not apply to a kind are left zero.
type PassParams struct {
	// Target is the descriptor the pass allocates or renders against.
	Target TargetDescriptor

	Clear      ClearFlag
	ClearColor gputypes.Color

	SampleCount     uint32
	DynamicBatching bool
	Configuration   RendererConfiguration

	// MaxVisibleLocalLights bounds local shadows and lighting constants.
	MaxVisibleLocalLights int

	// ShadowResolution is the shadow map size for shadow passes.
	ShadowResolution uint32
}

// Pass is one unit of rendering work with declared inputs and outputs.
// A Pass is a value: once appended to a Sequence it is not modified.
type Pass struct {
	Kind PassKind

	// Name is the kind name for built-in passes and the provider's label
	// for custom passes.
	Name string

	Inputs  []Handle
	Outputs []Handle

	Params PassParams
}

// NewCustomPass creates a pass for an extension provider.
func NewCustomPass(name string, inputs, outputs []Handle) Pass {
	return Pass{
		Kind:    PassCustom,
		Name:    name,
		Inputs:  slices.Clone(inputs),
		Outputs: slices.Clone(outputs),
	}
}

// Reads reports whether the pass declares h as an input.
func (p *Pass) Reads(h Handle) bool { return slices.Contains(p.Inputs, h) }

// Writes reports whether the pass declares h as an output.
func (p *Pass) Writes(h Handle) bool { return slices.Contains(p.Outputs, h) }

// handles collects the valid handles of hs, dropping zero values.
func handles(hs ...Handle) []Handle {
	out := make([]Handle, 0, len(hs))
	for _, h := range hs {
		if h.IsValid() {
			out = append(out, h)
		}
	}
	return out
}
