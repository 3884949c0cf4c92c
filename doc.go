// Package forward builds the render-pass sequence of a forward renderer.
//
// # Overview
//
// forward does not render anything itself. Given a FrameState snapshot of a
// camera, its shadows and its lights, a Sequencer decides which passes the
// frame needs and emits them in an order a strictly sequential executor can
// run: shadow maps, depth prepass, screen-space shadow resolve, attachment
// allocation, opaques, skybox, depth and color copies, transparents, then
// post-processing or a final blit to the camera target.
//
// # Quick Start
//
//	import "github.com/gogpu/forward"
//
//	s := forward.NewSequencer()
//
//	frame := &forward.FrameState{
//	    Camera: forward.CameraData{
//	        Width: 1920, Height: 1080,
//	        ClearFlags: forward.CameraClearSkybox,
//	    },
//	    Shadows: forward.ShadowData{RenderDirectional: true},
//	}
//
//	seq := s.Build(frame, nil)
//	for _, p := range seq.Passes {
//	    fmt.Println(p.Name, p.Inputs, p.Outputs)
//	}
//
// # Handles
//
// Passes declare the targets they read and write as Handles: symbolic names
// resolved by the host at execution time. CameraTarget stands for the final
// camera target. A sequence satisfies one invariant, checked by
// Sequence.Validate: a handle is read only after some earlier pass wrote it.
//
// # Extension Points
//
// Hosts splice their own passes into fixed slots (AfterOpaque, AfterSkybox,
// ...) by registering Providers on an Extensions registry passed to Build.
// Providers of a slot run in registration order and each returns at most
// one pass.
//
// # Capabilities
//
// Whether depth can be copied instead of prepassed and whether color needs
// an intermediate attachment depend on the device. The decision engine asks
// an injected Capabilities; DeviceCapabilities covers the common cases.
//
// # Architecture
//
//	FrameState ──► Decide ──► Decisions
//	                              │
//	HandleTable ──────────────────┤
//	                              ▼
//	Extensions ──────────────► Sequencer.Build ──► Sequence ──► Enqueuer
//
// The render package turns a Sequence into attachment plans and executes it
// over a gogpu/wgpu HAL device.
package forward

// Version is the current version of the library.
const Version = "0.1.0"
