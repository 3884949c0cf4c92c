// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"testing"

	"github.com/gogpu/forward"
	"github.com/gogpu/gputypes"
)

func planFor(t *testing.T, seq *forward.Sequence, k forward.PassKind) PassAttachments {
	t.Helper()
	i := seq.Index(k)
	if i < 0 {
		t.Fatalf("sequence has no %s pass", k)
	}
	return PlanAttachments(seq.Passes)[i]
}

func TestPlanAttachmentsOnePerPass(t *testing.T) {
	seq := forward.NewSequencer().Build(msaaPostFrame(), nil)
	plan := PlanAttachments(seq.Passes)

	if len(plan) != len(seq.Passes) {
		t.Fatalf("len(plan) = %d, want %d", len(plan), len(seq.Passes))
	}
	for i := range plan {
		if plan[i].Index != i {
			t.Errorf("plan[%d].Index = %d", i, plan[i].Index)
		}
		if plan[i].Pass != &seq.Passes[i] {
			t.Errorf("plan[%d].Pass does not point at the sequence pass", i)
		}
	}
}

func TestPlanAttachmentsNonRenderingPasses(t *testing.T) {
	seq := forward.NewSequencer().Build(msaaPostFrame(), nil)

	for _, k := range []forward.PassKind{
		forward.PassForwardSetup,
		forward.PassRenderTextureAlloc,
		forward.PassLightingConstants,
	} {
		t.Run(k.String(), func(t *testing.T) {
			a := planFor(t, seq, k)
			if a.Renders() {
				t.Errorf("%s should not open a render pass", k)
			}
		})
	}
}

func TestPlanAttachmentsLoadStore(t *testing.T) {
	frame := msaaPostFrame()
	frame.Camera.BackgroundColor = gputypes.Color{R: 0.1, G: 0.2, B: 0.3, A: 1}

	s := forward.NewSequencer()
	h := s.Handles()
	seq := s.Build(frame, nil)

	type want struct {
		color      forward.Handle
		colorLoad  gputypes.LoadOp
		depth      forward.Handle
		depthLoad  gputypes.LoadOp
		depthStore gputypes.StoreOp
	}
	tests := []struct {
		kind forward.PassKind
		want want
	}{
		{forward.PassDirectionalShadow, want{
			depth: h.DirectionalShadowmap, depthLoad: gputypes.LoadOpClear, depthStore: gputypes.StoreOpStore,
		}},
		{forward.PassOpaqueForward, want{
			color: h.Color, colorLoad: gputypes.LoadOpClear,
			depth: h.DepthAttachment, depthLoad: gputypes.LoadOpClear, depthStore: gputypes.StoreOpStore,
		}},
		{forward.PassSkybox, want{
			color: h.Color, colorLoad: gputypes.LoadOpLoad,
			depth: h.DepthAttachment, depthLoad: gputypes.LoadOpLoad, depthStore: gputypes.StoreOpStore,
		}},
		{forward.PassTransparentForward, want{
			color: h.Color, colorLoad: gputypes.LoadOpLoad,
			depth: h.DepthAttachment, depthLoad: gputypes.LoadOpLoad, depthStore: gputypes.StoreOpDiscard,
		}},
		{forward.PassTransparentPostProcess, want{
			color: forward.CameraTarget, colorLoad: gputypes.LoadOpLoad,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			a := planFor(t, seq, tt.kind)
			if !a.Renders() {
				t.Fatalf("%s should render", tt.kind)
			}

			if tt.want.color.IsValid() {
				if len(a.Colors) != 1 {
					t.Fatalf("len(Colors) = %d, want 1", len(a.Colors))
				}
				c := a.Colors[0]
				if c.Handle != tt.want.color {
					t.Errorf("color = %s, want %s", c.Handle, tt.want.color)
				}
				if c.LoadOp != tt.want.colorLoad {
					t.Errorf("color LoadOp = %v, want %v", c.LoadOp, tt.want.colorLoad)
				}
				if c.StoreOp != gputypes.StoreOpStore {
					t.Errorf("color StoreOp = %v, want Store", c.StoreOp)
				}
			} else if len(a.Colors) != 0 {
				t.Errorf("len(Colors) = %d, want 0", len(a.Colors))
			}

			if tt.want.depth.IsValid() {
				if a.Depth == nil {
					t.Fatal("expected a depth attachment")
				}
				if a.Depth.Handle != tt.want.depth {
					t.Errorf("depth = %s, want %s", a.Depth.Handle, tt.want.depth)
				}
				if a.Depth.LoadOp != tt.want.depthLoad {
					t.Errorf("depth LoadOp = %v, want %v", a.Depth.LoadOp, tt.want.depthLoad)
				}
				if a.Depth.StoreOp != tt.want.depthStore {
					t.Errorf("depth StoreOp = %v, want %v", a.Depth.StoreOp, tt.want.depthStore)
				}
				if a.Depth.ClearValue != DepthClearValue {
					t.Errorf("depth ClearValue = %v, want %v", a.Depth.ClearValue, DepthClearValue)
				}
			} else if a.Depth != nil {
				t.Errorf("unexpected depth attachment %s", a.Depth.Handle)
			}
		})
	}

	opaque := planFor(t, seq, forward.PassOpaqueForward)
	if got := opaque.Colors[0].ClearValue; got != frame.Camera.BackgroundColor {
		t.Errorf("opaque ClearValue = %+v, want %+v", got, frame.Camera.BackgroundColor)
	}
}

func TestPlanAttachmentsClearFlags(t *testing.T) {
	tests := []struct {
		flags     forward.CameraClearFlags
		colorLoad gputypes.LoadOp
		depthLoad gputypes.LoadOp
	}{
		{forward.CameraClearSkybox, gputypes.LoadOpClear, gputypes.LoadOpClear},
		{forward.CameraClearColor, gputypes.LoadOpClear, gputypes.LoadOpClear},
		{forward.CameraClearDepth, gputypes.LoadOpLoad, gputypes.LoadOpClear},
		{forward.CameraClearNothing, gputypes.LoadOpLoad, gputypes.LoadOpLoad},
	}
	for _, tt := range tests {
		t.Run(tt.flags.String(), func(t *testing.T) {
			seq := forward.NewSequencer().Build(&forward.FrameState{
				Camera: forward.CameraData{Width: 320, Height: 240, ClearFlags: tt.flags},
			}, nil)
			a := planFor(t, seq, forward.PassOpaqueForward)

			if a.Colors[0].Handle != forward.CameraTarget {
				t.Fatalf("color = %s, want CameraTarget", a.Colors[0].Handle)
			}
			if a.Colors[0].LoadOp != tt.colorLoad {
				t.Errorf("color LoadOp = %v, want %v", a.Colors[0].LoadOp, tt.colorLoad)
			}
			if a.Depth == nil {
				t.Fatal("expected the camera target as depth attachment")
			}
			if a.Depth.LoadOp != tt.depthLoad {
				t.Errorf("depth LoadOp = %v, want %v", a.Depth.LoadOp, tt.depthLoad)
			}
			// The camera target is owned by the host and always stored.
			if a.Depth.StoreOp != gputypes.StoreOpStore {
				t.Errorf("depth StoreOp = %v, want Store", a.Depth.StoreOp)
			}
		})
	}
}

func TestPlanAttachmentsPrepass(t *testing.T) {
	s := forward.NewSequencer()
	seq := s.Build(&forward.FrameState{
		Camera: forward.CameraData{Width: 320, Height: 240, SceneView: true},
	}, nil)

	a := planFor(t, seq, forward.PassDepthOnlyPrepass)
	if len(a.Colors) != 0 {
		t.Errorf("prepass has %d color attachments, want 0", len(a.Colors))
	}
	if a.Depth == nil || a.Depth.Handle != s.Handles().DepthTexture {
		t.Fatal("prepass should render into the depth texture")
	}
	if a.Depth.LoadOp != gputypes.LoadOpClear || a.Depth.StoreOp != gputypes.StoreOpStore {
		t.Errorf("prepass depth ops = %v/%v, want Clear/Store", a.Depth.LoadOp, a.Depth.StoreOp)
	}
}

func TestPlanAttachmentsCustomPass(t *testing.T) {
	mask := forward.HandleFor("_OutlineMask")
	depth := forward.HandleFor(forward.NameCameraDepth)
	p := forward.NewCustomPass("Outline", []forward.Handle{depth}, []forward.Handle{mask, depth})
	p.Params.Clear = forward.ClearColor

	plan := PlanAttachments([]forward.Pass{p})
	a := plan[0]
	if len(a.Colors) != 1 || a.Colors[0].Handle != mask {
		t.Fatalf("Colors = %+v, want the outline mask", a.Colors)
	}
	if a.Colors[0].LoadOp != gputypes.LoadOpClear {
		t.Errorf("color LoadOp = %v, want Clear", a.Colors[0].LoadOp)
	}
	if a.Depth == nil || a.Depth.Handle != depth {
		t.Fatal("custom pass should bind the depth attachment")
	}
	if a.Depth.StoreOp != gputypes.StoreOpDiscard {
		t.Errorf("depth StoreOp = %v, want Discard after its last use", a.Depth.StoreOp)
	}
}

func TestPlanAttachmentsMSAACopies(t *testing.T) {
	s := forward.NewSequencer()
	h := s.Handles()
	seq := s.Build(msaaCopyFrame(), nil)
	plan := PlanAttachments(seq.Passes)
	resolve := ResolveHandle(h.Color)

	copyDepth := planFor(t, seq, forward.PassCopyDepth)
	if copyDepth.Depth == nil || copyDepth.Depth.Handle != h.DepthTexture {
		t.Fatal("depth copy should render into the depth texture")
	}
	if copyDepth.Depth.LoadOp != gputypes.LoadOpClear {
		t.Errorf("depth copy LoadOp = %v, want Clear", copyDepth.Depth.LoadOp)
	}
	// Multisampled depth has no resolve; the copy reads it directly.
	if copyDepth.Source != h.DepthAttachment {
		t.Errorf("depth copy Source = %s, want %s", copyDepth.Source, h.DepthAttachment)
	}

	copyColor := planFor(t, seq, forward.PassCopyColor)
	if len(copyColor.Colors) != 1 || copyColor.Colors[0].Handle != h.OpaqueColor {
		t.Fatalf("color copy Colors = %+v, want the opaque texture", copyColor.Colors)
	}
	if copyColor.Source != resolve {
		t.Errorf("color copy Source = %s, want %s", copyColor.Source, resolve)
	}

	blit := planFor(t, seq, forward.PassFinalBlit)
	if blit.Source != resolve {
		t.Errorf("final blit Source = %s, want %s", blit.Source, resolve)
	}

	// The last pass rendering the color before each sampler resolves it.
	tests := []struct {
		kind    forward.PassKind
		resolve bool
	}{
		{forward.PassOpaqueForward, true},
		{forward.PassTransparentForward, true},
	}
	for _, tt := range tests {
		a := planFor(t, seq, tt.kind)
		if got := a.Colors[0].Resolve.IsValid(); got != tt.resolve {
			t.Errorf("%s resolves = %v, want %v", tt.kind, got, tt.resolve)
		}
		if tt.resolve && a.Colors[0].Resolve != resolve {
			t.Errorf("%s Resolve = %s, want %s", tt.kind, a.Colors[0].Resolve, resolve)
		}
	}

	descs := AttachmentDescriptors(seq)
	for i := range plan {
		for _, c := range plan[i].Colors {
			if c.Resolve.IsValid() {
				if _, ok := descs[c.Resolve]; !ok {
					t.Errorf("pass %d resolves into unallocated %s", i, c.Resolve)
				}
			}
		}
		if src := plan[i].Source; src.IsValid() {
			if d, ok := descs[src]; ok && d.SampleCount > 1 && src != h.DepthAttachment {
				t.Errorf("pass %s samples multisampled %s", seq.Passes[i].Name, src)
			}
		}
	}
}

func TestPlanAttachmentsSkyboxResolves(t *testing.T) {
	frame := msaaCopyFrame()
	frame.Camera.ClearFlags = forward.CameraClearSkybox

	s := forward.NewSequencer()
	seq := s.Build(frame, nil)

	// The skybox loads the color the opaque pass drew, so only the skybox
	// resolves before the copy.
	if planFor(t, seq, forward.PassOpaqueForward).Colors[0].Resolve.IsValid() {
		t.Error("opaque pass should not resolve when the skybox draws next")
	}
	if got := planFor(t, seq, forward.PassSkybox).Colors[0].Resolve; got != ResolveHandle(s.Handles().Color) {
		t.Errorf("skybox Resolve = %s, want the color resolve target", got)
	}
}

func TestPlanAttachmentsSingleSampleSource(t *testing.T) {
	s := forward.NewSequencer()
	h := s.Handles()
	seq := s.Build(&forward.FrameState{
		Camera: forward.CameraData{Width: 320, Height: 240, RequiresOpaqueTexture: true},
	}, nil)

	a := planFor(t, seq, forward.PassCopyColor)
	if a.Source != h.Color {
		t.Errorf("Source = %s, want %s", a.Source, h.Color)
	}
	if planFor(t, seq, forward.PassOpaqueForward).Colors[0].Resolve.IsValid() {
		t.Error("single-sample color needs no resolve")
	}
}

func TestRecorder(t *testing.T) {
	var r Recorder
	seq := forward.NewSequencer().Setup(msaaPostFrame(), nil, &r)

	if len(r.Passes()) != len(seq.Passes) {
		t.Fatalf("recorded %d passes, want %d", len(r.Passes()), len(seq.Passes))
	}
	for i, p := range r.Passes() {
		if p.Kind != seq.Passes[i].Kind {
			t.Errorf("pass %d = %s, want %s", i, p.Kind, seq.Passes[i].Kind)
		}
	}
	if len(r.Plan()) != len(seq.Passes) {
		t.Errorf("len(Plan()) = %d, want %d", len(r.Plan()), len(seq.Passes))
	}

	r.Reset()
	if len(r.Passes()) != 0 {
		t.Errorf("after Reset recorded %d passes, want 0", len(r.Passes()))
	}
}
