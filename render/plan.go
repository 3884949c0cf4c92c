// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/forward"
	"github.com/gogpu/gputypes"
)

// DepthClearValue is the depth a cleared depth attachment starts with.
const DepthClearValue float32 = 1.0

// ColorAttachment is one color target of a render pass.
type ColorAttachment struct {
	Handle forward.Handle

	// Resolve is the single-sample target the multisampled Handle is
	// resolved into at the end of the pass, or the zero Handle.
	Resolve forward.Handle

	LoadOp     gputypes.LoadOp
	StoreOp    gputypes.StoreOp
	ClearValue gputypes.Color
}

// DepthAttachment is the depth-stencil target of a render pass.
type DepthAttachment struct {
	Handle     forward.Handle
	LoadOp     gputypes.LoadOp
	StoreOp    gputypes.StoreOp
	ClearValue float32
}

// PassAttachments is the attachment plan of one pass.
//
// Passes that do not open a render pass (setup, allocation, lighting
// constants and stereo markers) have no attachments. Copies, post-processing
// and the final blit are fullscreen draws into their output.
type PassAttachments struct {
	// Index is the position of the pass in the sequence.
	Index int

	Pass   *forward.Pass
	Colors []ColorAttachment
	Depth  *DepthAttachment

	// Source is the texture a fullscreen pass samples: the resolved
	// companion of a multisampled color, or the input itself. It is the
	// zero Handle for draw passes.
	Source forward.Handle
}

// Renders reports whether the pass opens a render pass.
func (a *PassAttachments) Renders() bool {
	return len(a.Colors) > 0 || a.Depth != nil
}

// PlanAttachments derives the load and store operations of every pass of
// passes. One entry is returned per pass, in order.
//
// An attachment is cleared when the pass's clear flags ask for it (shadow
// maps, the screen-space shadow map and copy destinations are always
// cleared) and loaded otherwise. Every attachment is stored, except the
// intermediate depth attachment after the last pass that touches it.
//
// A multisampled color is resolved by the last pass that renders it before
// a pass samples it; the sampling pass reads the ResolveHandle companion.
func PlanAttachments(passes []forward.Pass) []PassAttachments {
	lastUse := lastDepthUse(passes)
	descs := describePasses(passes)
	multisampled := func(h forward.Handle) bool {
		_, ok := descs[ResolveHandle(h)]
		return ok
	}

	plan := make([]PassAttachments, len(passes))
	for i := range passes {
		p := &passes[i]
		entry := PassAttachments{Index: i, Pass: p}
		if src := source(p); src.IsValid() {
			entry.Source = src
			if multisampled(src) {
				entry.Source = ResolveHandle(src)
			}
		}

		color, depth, ok := targets(p)
		if !ok {
			plan[i] = entry
			continue
		}

		if color.IsValid() {
			load := gputypes.LoadOpLoad
			if p.Params.Clear&forward.ClearColor != 0 || alwaysCleared(p.Kind) {
				load = gputypes.LoadOpClear
			}
			c := ColorAttachment{
				Handle:     color,
				LoadOp:     load,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: p.Params.ClearColor,
			}
			if multisampled(color) && sampledNext(passes, i, color) {
				c.Resolve = ResolveHandle(color)
			}
			entry.Colors = []ColorAttachment{c}
		}

		if depth.IsValid() {
			load := gputypes.LoadOpLoad
			if p.Params.Clear&forward.ClearDepth != 0 || alwaysCleared(p.Kind) {
				load = gputypes.LoadOpClear
			}
			store := gputypes.StoreOpStore
			if last, tracked := lastUse[depth]; tracked && last == i {
				store = gputypes.StoreOpDiscard
			}
			entry.Depth = &DepthAttachment{
				Handle:     depth,
				LoadOp:     load,
				StoreOp:    store,
				ClearValue: DepthClearValue,
			}
		}

		plan[i] = entry
	}
	return plan
}

// targets returns the color and depth targets of a pass that renders.
func targets(p *forward.Pass) (color, depth forward.Handle, ok bool) {
	switch p.Kind {
	case forward.PassDirectionalShadow, forward.PassLocalShadow, forward.PassDepthOnlyPrepass:
		return forward.Handle{}, first(p.Outputs), true

	case forward.PassCopyDepth:
		return forward.Handle{}, first(p.Outputs), true

	case forward.PassScreenSpaceShadowResolve,
		forward.PassOpaquePostProcess,
		forward.PassTransparentPostProcess,
		forward.PassFinalBlit,
		forward.PassCopyColor:
		return first(p.Outputs), forward.Handle{}, true

	case forward.PassOpaqueForward, forward.PassSkybox, forward.PassTransparentForward:
		// Draw passes write (color, depth).
		if len(p.Outputs) < 2 {
			return first(p.Outputs), forward.Handle{}, true
		}
		return p.Outputs[0], p.Outputs[1], true

	case forward.PassCustom:
		for _, h := range p.Outputs {
			if isDepthName(h.Name()) {
				if !depth.IsValid() {
					depth = h
				}
			} else if !color.IsValid() {
				color = h
			}
		}
		return color, depth, color.IsValid() || depth.IsValid()
	}
	return forward.Handle{}, forward.Handle{}, false
}

func alwaysCleared(k forward.PassKind) bool {
	switch k {
	case forward.PassDirectionalShadow, forward.PassLocalShadow, forward.PassScreenSpaceShadowResolve,
		forward.PassCopyDepth, forward.PassCopyColor:
		return true
	}
	return false
}

// source returns the input a fullscreen pass samples.
func source(p *forward.Pass) forward.Handle {
	switch p.Kind {
	case forward.PassCopyDepth, forward.PassCopyColor,
		forward.PassOpaquePostProcess, forward.PassTransparentPostProcess,
		forward.PassFinalBlit:
		return first(p.Inputs)
	case forward.PassCustom:
		for _, h := range p.Inputs {
			if samples(p, h) {
				return h
			}
		}
	}
	return forward.Handle{}
}

// samples reports whether p reads h through a texture binding rather than
// loading it as one of its own attachments. Post-processing samples the
// color it writes.
func samples(p *forward.Pass, h forward.Handle) bool {
	if !h.IsValid() || h.IsCameraTarget() || !p.Reads(h) {
		return false
	}
	switch p.Kind {
	case forward.PassOpaquePostProcess, forward.PassTransparentPostProcess:
		return true
	}
	color, depth, ok := targets(p)
	return !ok || (h != color && h != depth)
}

// sampledNext reports whether the first pass after i that touches h
// samples it.
func sampledNext(passes []forward.Pass, i int, h forward.Handle) bool {
	for j := i + 1; j < len(passes); j++ {
		p := &passes[j]
		if samples(p, h) {
			return true
		}
		if p.Reads(h) || p.Writes(h) {
			return false
		}
	}
	return false
}

func isDepthName(name string) bool {
	switch name {
	case forward.NameCameraDepth, forward.NameDepthTexture,
		forward.NameDirectionalShadowmap, forward.NameLocalShadowmap:
		return true
	}
	return false
}

// lastDepthUse returns, for the intermediate depth attachment, the index
// of the last pass that reads or writes it.
func lastDepthUse(passes []forward.Pass) map[forward.Handle]int {
	out := make(map[forward.Handle]int)
	for i := range passes {
		p := &passes[i]
		for _, hs := range [][]forward.Handle{p.Inputs, p.Outputs} {
			for _, h := range hs {
				if h.Name() == forward.NameCameraDepth {
					out[h] = i
				}
			}
		}
	}
	return out
}

func first(hs []forward.Handle) forward.Handle {
	if len(hs) == 0 {
		return forward.Handle{}
	}
	return hs[0]
}
