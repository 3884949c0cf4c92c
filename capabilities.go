package forward

import (
	"math"

	"github.com/gogpu/gputypes"
)

// scaleEpsilon is how far a render scale may stray from 1 and still count
// as unscaled.
const scaleEpsilon = 1e-5

// Capabilities answers the platform questions the decision engine cannot
// derive from the frame alone. Hosts inject their own implementation with
// WithCapabilities; DeviceCapabilities is the default.
type Capabilities interface {
	// CanCopyDepth reports whether the camera depth can be obtained by
	// copying the depth attachment after opaques instead of running a
	// depth prepass.
	CanCopyDepth(cam *CameraData) bool

	// RequiresIntermediateColor reports whether color must be rendered to
	// an intermediate attachment instead of the camera target.
	RequiresIntermediateColor(cam *CameraData, base TargetDescriptor, depthAttachment bool) bool
}

// DeviceCapabilities is a Capabilities built from plain device facts.
type DeviceCapabilities struct {
	// TextureCopy reports support for texture-to-texture copies.
	TextureCopy bool

	// DepthTarget reports support for sampling a depth render target.
	DepthTarget bool

	// MultisampledTextures reports support for resolving multisampled
	// depth in a shader.
	MultisampledTextures bool

	// MultisampledBackBuffer reports whether the camera target itself can
	// be multisampled. When false, MSAA needs an intermediate color target.
	MultisampledBackBuffer bool
}

// DefaultCapabilities returns the capabilities of a typical WebGPU device:
// texture copies, depth targets and multisampled textures are available,
// the swapchain cannot be multisampled.
func DefaultCapabilities() DeviceCapabilities {
	return DeviceCapabilities{
		TextureCopy:          true,
		DepthTarget:          true,
		MultisampledTextures: true,
	}
}

// CanCopyDepth implements Capabilities.
func (c DeviceCapabilities) CanCopyDepth(cam *CameraData) bool {
	msaa := cam.Samples() > 1
	supportsDepthCopy := !msaa && (c.DepthTarget || c.TextureCopy)
	msaaDepthResolve := msaa && c.MultisampledTextures
	return supportsDepthCopy || msaaDepthResolve
}

// RequiresIntermediateColor implements Capabilities.
func (c DeviceCapabilities) RequiresIntermediateColor(cam *CameraData, base TargetDescriptor, depthAttachment bool) bool {
	// Offscreen cameras render into their own texture.
	if cam.Offscreen {
		return false
	}

	scaled := math.Abs(float64(cam.Scale())-1) > scaleEpsilon
	arrayTarget := base.ArrayLayers > 1
	msaaResolve := cam.Samples() > 1 && !c.MultisampledBackBuffer

	return depthAttachment || cam.SceneView || scaled || cam.HDR ||
		cam.PostProcess.Enabled || cam.RequiresOpaqueTexture || arrayTarget ||
		cam.CustomViewport || msaaResolve
}

// Ensure DeviceCapabilities implements Capabilities.
var _ Capabilities = DeviceCapabilities{}

// TargetDescriptor describes the camera-sized targets of a frame. It is the
// base every attachment of the frame is derived from.
type TargetDescriptor struct {
	Width  uint32
	Height uint32

	// ArrayLayers is 2 for single-pass instanced stereo, 1 otherwise.
	ArrayLayers uint32

	SampleCount uint32

	ColorFormat gputypes.TextureFormat
	DepthFormat gputypes.TextureFormat
}

// NewTargetDescriptor derives the base target descriptor of a camera.
// surface is the format of the camera target, used for non-HDR color.
func NewTargetDescriptor(cam *CameraData, surface gputypes.TextureFormat) TargetDescriptor {
	scale := cam.Scale()
	desc := TargetDescriptor{
		Width:       uint32(float32(cam.Width)*scale + 0.5),
		Height:      uint32(float32(cam.Height)*scale + 0.5),
		ArrayLayers: 1,
		SampleCount: cam.Samples(),
		ColorFormat: surface,
		DepthFormat: gputypes.TextureFormatDepth24PlusStencil8,
	}
	if cam.HDR {
		desc.ColorFormat = gputypes.TextureFormatRGBA16Float
	}
	if cam.Stereo && cam.StereoMode == StereoSinglePassInstanced {
		desc.ArrayLayers = 2
	}
	if cam.Stereo && cam.StereoMode == StereoSinglePass {
		desc.Width *= 2
	}
	return desc
}
