package forward

import (
	"slices"
)

// Enqueuer receives the passes of a frame, one call per pass, in order.
// The host's executor implements it.
type Enqueuer interface {
	EnqueuePass(p Pass)
}

// Sequence is the ordered pass list of one frame together with the
// choices that produced it.
type Sequence struct {
	Passes    []Pass
	Decisions Decisions

	// Color and Depth are the handles opaque and transparent passes
	// render into; either may be CameraTarget.
	Color Handle
	Depth Handle

	// Target is the frame's base target descriptor.
	Target TargetDescriptor
}

// Kinds returns the kind of every pass, in order.
func (s *Sequence) Kinds() []PassKind {
	kinds := make([]PassKind, len(s.Passes))
	for i := range s.Passes {
		kinds[i] = s.Passes[i].Kind
	}
	return kinds
}

// Index returns the position of the first pass of kind k, or -1.
func (s *Sequence) Index(k PassKind) int {
	return slices.IndexFunc(s.Passes, func(p Pass) bool { return p.Kind == k })
}

// Contains reports whether the sequence has a pass of kind k.
func (s *Sequence) Contains(k PassKind) bool { return s.Index(k) >= 0 }

// Submit hands every pass to q in order.
func (s *Sequence) Submit(q Enqueuer) {
	for _, p := range s.Passes {
		q.EnqueuePass(p)
	}
}

// Sequencer builds the forward-rendering pass sequence of a frame.
//
// A Sequencer is created once and reused every frame. Its handle table is
// initialized on first use; everything else is rebuilt by each Build call.
// Build is not safe for concurrent use on the same Sequencer.
type Sequencer struct {
	handles HandleTable
	opts    sequencerOptions
}

// NewSequencer creates a sequencer with the given options.
func NewSequencer(opts ...SequencerOption) *Sequencer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Sequencer{opts: o}
}

// Handles returns the sequencer's handle table, initializing it if needed.
func (s *Sequencer) Handles() *HandleTable {
	s.handles.Init()
	return &s.handles
}

// Setup builds the sequence for frame and enqueues its passes on q.
func (s *Sequencer) Setup(frame *FrameState, ext *Extensions, q Enqueuer) *Sequence {
	seq := s.Build(frame, ext)
	seq.Submit(q)
	return seq
}

// Build produces the ordered pass list for frame. Extension providers in
// ext are asked for passes at their slots; ext may be nil.
func (s *Sequencer) Build(frame *FrameState, ext *Extensions) *Sequence {
	h := s.Handles()
	cam := &frame.Camera
	shadows := &frame.Shadows

	base := NewTargetDescriptor(cam, s.opts.surfaceFormat)
	d := Decide(frame, s.opts.caps, base)
	color := h.ResolveColor(d)
	depth := h.ResolveDepth(d)

	b := builder{
		seq: &Sequence{
			Decisions: d,
			Color:     color,
			Depth:     depth,
			Target:    base,
		},
		ext: ext,
	}

	// Shadow maps the draw passes sample.
	var shadowInputs []Handle

	if shadows.RenderDirectional {
		b.add(Pass{
			Kind:    PassDirectionalShadow,
			Outputs: handles(h.DirectionalShadowmap),
			Params:  PassParams{ShadowResolution: shadows.DirectionalResolution},
		})
		shadowInputs = append(shadowInputs, h.DirectionalShadowmap)
	}

	if shadows.RenderLocal {
		b.add(Pass{
			Kind:    PassLocalShadow,
			Outputs: handles(h.LocalShadowmap),
			Params: PassParams{
				ShadowResolution:      shadows.LocalResolution,
				MaxVisibleLocalLights: s.opts.maxVisibleLocalLights,
			},
		})
		shadowInputs = append(shadowInputs, h.LocalShadowmap)
	}

	b.add(Pass{Kind: PassForwardSetup})

	if d.DepthPrepass {
		prepass := base
		prepass.SampleCount = 1
		b.add(Pass{
			Kind:    PassDepthOnlyPrepass,
			Outputs: handles(h.DepthTexture),
			Params:  PassParams{Target: prepass, SampleCount: 1, Clear: ClearDepth},
		})
		b.extend(Slot{Point: AfterDepthPrepass, Target: prepass, Depth: h.DepthTexture})
	}

	if d.ScreenSpaceShadowResolve {
		b.add(Pass{
			Kind:    PassScreenSpaceShadowResolve,
			Inputs:  handles(h.DirectionalShadowmap, h.DepthTexture),
			Outputs: handles(h.ScreenSpaceShadowmap),
			Params:  PassParams{Target: base},
		})
		shadowInputs[0] = h.ScreenSpaceShadowmap
	}

	b.add(Pass{
		Kind:    PassRenderTextureAlloc,
		Outputs: attachments(color, depth),
		Params:  PassParams{Target: base, SampleCount: base.SampleCount},
	})

	if cam.Stereo {
		b.add(Pass{Kind: PassBeginStereo})
	}

	config := RendererConfigurationFor(frame.Lights.AdditionalLightsCount)

	b.add(Pass{
		Kind: PassLightingConstants,
		Params: PassParams{
			MaxVisibleLocalLights: s.opts.maxVisibleLocalLights,
			Configuration:         config,
		},
	})

	b.add(Pass{
		Kind:    PassOpaqueForward,
		Inputs:  append(slices.Clone(shadowInputs), color, depth),
		Outputs: handles(color, depth),
		Params: PassParams{
			Target:          base,
			Clear:           ClearFlagFor(cam.ClearFlags),
			ClearColor:      cam.BackgroundColor,
			SampleCount:     base.SampleCount,
			DynamicBatching: frame.DynamicBatching,
			Configuration:   config,
		},
	})
	b.extend(Slot{Point: AfterOpaque, Target: base, Color: color, Depth: depth})

	if d.OpaquePostProcess {
		b.add(Pass{
			Kind:    PassOpaquePostProcess,
			Inputs:  handles(color),
			Outputs: handles(color),
			Params:  PassParams{Target: base},
		})
		b.extend(Slot{Point: AfterOpaquePostProcess, Target: base, Color: color})
	}

	if d.Skybox {
		b.add(Pass{
			Kind:    PassSkybox,
			Inputs:  handles(color, depth),
			Outputs: handles(color, depth),
			Params:  PassParams{Target: base},
		})
	}
	b.extend(Slot{Point: AfterSkybox, Target: base, Color: color, Depth: depth})

	if d.DepthCopy {
		b.add(Pass{
			Kind:    PassCopyDepth,
			Inputs:  handles(depth),
			Outputs: handles(h.DepthTexture),
			Params:  PassParams{Target: base},
		})
	}

	if d.OpaqueColorCopy {
		b.add(Pass{
			Kind:    PassCopyColor,
			Inputs:  handles(color),
			Outputs: handles(h.OpaqueColor),
			Params:  PassParams{Target: base},
		})
	}

	b.add(Pass{
		Kind:    PassTransparentForward,
		Inputs:  append(slices.Clone(shadowInputs), color, depth),
		Outputs: handles(color, depth),
		Params: PassParams{
			Target:          base,
			Clear:           ClearNone,
			ClearColor:      cam.BackgroundColor,
			SampleCount:     base.SampleCount,
			DynamicBatching: frame.DynamicBatching,
			Configuration:   config,
		},
	})
	b.extend(Slot{Point: AfterTransparent, Target: base, Color: color, Depth: depth})

	switch {
	case d.TransparentPostProcess:
		b.add(Pass{
			Kind:    PassTransparentPostProcess,
			Inputs:  handles(color),
			Outputs: handles(CameraTarget),
			Params:  PassParams{Target: base},
		})
	case d.FinalBlit:
		b.add(Pass{
			Kind:    PassFinalBlit,
			Inputs:  handles(color),
			Outputs: handles(CameraTarget),
			Params:  PassParams{Target: base},
		})
	}

	b.extend(Slot{Point: AfterRender, Target: base})

	if cam.Stereo {
		b.add(Pass{Kind: PassEndStereo})
	}

	if d.SceneViewDepthCopy {
		b.add(Pass{
			Kind:    PassSceneViewDepthCopy,
			Inputs:  handles(h.DepthTexture),
			Outputs: handles(CameraTarget),
			Params:  PassParams{Target: base},
		})
	}

	Logger().Debug("forward: sequence built",
		"camera", cam.Name,
		"passes", len(b.seq.Passes),
		"color", color.String(),
		"depth", depth.String(),
		"prepass", d.DepthPrepass)

	return b.seq
}

// attachments lists the handles the allocation pass creates; the camera
// target is owned by the host and never allocated.
func attachments(color, depth Handle) []Handle {
	var out []Handle
	if !color.IsCameraTarget() {
		out = append(out, color)
	}
	if !depth.IsCameraTarget() {
		out = append(out, depth)
	}
	return out
}

// builder accumulates the passes of one Build call.
type builder struct {
	seq *Sequence
	ext *Extensions
}

func (b *builder) add(p Pass) {
	if p.Name == "" {
		p.Name = p.Kind.String()
	}
	b.seq.Passes = append(b.seq.Passes, p)
}

// extend asks every provider of the slot for a pass, in registration order.
func (b *builder) extend(slot Slot) {
	for _, provider := range b.ext.Providers(slot.Point) {
		p, ok := provider.PassToEnqueue(slot)
		if !ok {
			continue
		}
		b.add(p)
	}
}
