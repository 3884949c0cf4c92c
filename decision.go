package forward

// Decisions is the set of per-frame choices the sequencer acts on.
// It is a pure function of the frame state and the device capabilities.
type Decisions struct {
	// DepthPrepass renders a depth-only pass into the depth texture before
	// opaques.
	DepthPrepass bool

	// DepthAttachment keeps depth in an intermediate attachment so it can
	// be copied into the depth texture after opaques.
	DepthAttachment bool

	// ColorAttachment renders color to an intermediate attachment instead
	// of the camera target.
	ColorAttachment bool

	// ScreenSpaceShadowResolve resolves directional shadows to screen space.
	ScreenSpaceShadowResolve bool

	// OpaqueColorCopy copies color into the opaque texture before
	// transparents.
	OpaqueColorCopy bool

	// DepthCopy copies the depth attachment into the depth texture.
	DepthCopy bool

	// OpaquePostProcess runs the opaque-only post-processing stack.
	OpaquePostProcess bool

	// TransparentPostProcess runs the final post-processing stack, which
	// writes to the camera target. Never set together with FinalBlit.
	TransparentPostProcess bool

	// FinalBlit copies the intermediate color attachment to the camera
	// target.
	FinalBlit bool

	// Skybox draws the skybox after opaques.
	Skybox bool

	// SceneViewDepthCopy copies depth for the editor scene view.
	SceneViewDepthCopy bool
}

// Decide computes the decisions for a frame. base is the frame's target
// descriptor; it feeds the intermediate color probe.
func Decide(frame *FrameState, caps Capabilities, base TargetDescriptor) Decisions {
	cam := &frame.Camera
	shadows := &frame.Shadows

	var d Decisions

	d.DepthPrepass = shadows.RequiresScreenSpaceResolve ||
		cam.SceneView ||
		(cam.RequiresDepthTexture && !caps.CanCopyDepth(cam))

	// Multisampled depth cannot be resolved per eye, so stereo always
	// renders an explicit prepass.
	d.DepthPrepass = d.DepthPrepass || cam.Stereo

	d.DepthAttachment = cam.RequiresDepthTexture && !d.DepthPrepass
	d.ColorAttachment = caps.RequiresIntermediateColor(cam, base, d.DepthAttachment)
	d.ScreenSpaceShadowResolve = shadows.RenderDirectional && shadows.RequiresScreenSpaceResolve
	d.OpaqueColorCopy = cam.RequiresOpaqueTexture
	d.DepthCopy = d.DepthAttachment

	d.OpaquePostProcess = cam.PostProcess.Enabled && cam.PostProcess.HasOpaqueOnlyEffects()
	d.TransparentPostProcess = cam.PostProcess.Enabled
	d.FinalBlit = !d.TransparentPostProcess && !cam.Offscreen && d.ColorAttachment

	d.Skybox = cam.ClearFlags == CameraClearSkybox
	d.SceneViewDepthCopy = frame.Mode == BuildModeEditor && cam.SceneView

	return d
}
