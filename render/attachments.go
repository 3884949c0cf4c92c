// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/forward"
	"github.com/gogpu/gputypes"
)

// DefaultShadowResolution is the shadow map size used when a shadow pass
// does not specify one.
const DefaultShadowResolution = 1024

// DescribeOutput returns the texture a pass needs for one of its outputs.
// It reports false for the camera target, which the host owns, and for
// outputs the pass does not allocate (draw passes render into targets an
// earlier pass allocated).
func DescribeOutput(p *forward.Pass, h forward.Handle) (TextureDescriptor, bool) {
	if !h.IsValid() || h.IsCameraTarget() || !p.Writes(h) {
		return TextureDescriptor{}, false
	}
	t := p.Params.Target

	switch p.Kind {
	case forward.PassDirectionalShadow, forward.PassLocalShadow:
		size := p.Params.ShadowResolution
		if size == 0 {
			size = DefaultShadowResolution
		}
		desc := DefaultTextureDescriptor(size, size, gputypes.TextureFormatDepth24PlusStencil8)
		desc.Label = h.Name()
		return desc, true

	case forward.PassDepthOnlyPrepass, forward.PassCopyDepth:
		// The copy writes depth from a fullscreen draw, so it works from a
		// multisampled source too.
		desc := layered(t, t.DepthFormat, 1)
		desc.Label = h.Name()
		if p.Kind == forward.PassCopyDepth {
			desc.Usage |= TextureUsageCopyDst
		}
		return desc, true

	case forward.PassScreenSpaceShadowResolve:
		desc := layered(t, gputypes.TextureFormatR8Unorm, 1)
		desc.Label = h.Name()
		return desc, true

	case forward.PassRenderTextureAlloc:
		format := t.ColorFormat
		if h.Name() == forward.NameCameraDepth {
			format = t.DepthFormat
		}
		desc := layered(t, format, t.SampleCount)
		desc.Label = h.Name()
		desc.Usage |= TextureUsageCopySrc
		return desc, true

	case forward.PassCopyColor:
		desc := layered(t, t.ColorFormat, 1)
		desc.Label = h.Name()
		desc.Usage |= TextureUsageCopyDst
		return desc, true

	case forward.PassCustom:
		// Custom passes may introduce their own targets; they get a
		// single-sample texture of the frame size.
		if t.Width == 0 || t.Height == 0 || h.Name() == "" {
			return TextureDescriptor{}, false
		}
		format := t.ColorFormat
		if isDepthName(h.Name()) {
			format = t.DepthFormat
		}
		desc := layered(t, format, 1)
		desc.Label = h.Name()
		return desc, true
	}
	return TextureDescriptor{}, false
}

func layered(t forward.TargetDescriptor, format gputypes.TextureFormat, samples uint32) TextureDescriptor {
	desc := DefaultTextureDescriptor(t.Width, t.Height, format)
	if t.ArrayLayers > 1 {
		desc.Depth = t.ArrayLayers
	}
	if samples > 1 {
		desc.SampleCount = samples
	}
	return desc
}

// ResolveHandle returns the single-sample companion of a multisampled
// color handle. Render passes resolve into it before a later pass samples
// the color.
func ResolveHandle(h forward.Handle) forward.Handle {
	return forward.HandleFor(h.Name() + "Resolve")
}

// AttachmentDescriptors returns the texture each allocated handle of seq
// needs. The first pass that can allocate a handle determines its
// descriptor; the camera target is never included. A multisampled color
// that a later pass samples also gets its ResolveHandle companion.
func AttachmentDescriptors(seq *forward.Sequence) map[forward.Handle]TextureDescriptor {
	return describePasses(seq.Passes)
}

func describePasses(passes []forward.Pass) map[forward.Handle]TextureDescriptor {
	out := make(map[forward.Handle]TextureDescriptor)
	for i := range passes {
		p := &passes[i]
		for _, h := range p.Outputs {
			if _, done := out[h]; done {
				continue
			}
			if desc, ok := DescribeOutput(p, h); ok {
				out[h] = desc
			}
		}
	}

	var resolved []forward.Handle
	for h, desc := range out {
		if desc.SampleCount > 1 && !isDepthName(h.Name()) && isSampled(passes, h) {
			resolved = append(resolved, h)
		}
	}
	for _, h := range resolved {
		resolve := out[h]
		resolve.Label = h.Name() + "Resolve"
		resolve.SampleCount = 1
		resolve.Usage = TextureUsageTextureBinding | TextureUsageRenderAttachment | TextureUsageCopySrc
		out[ResolveHandle(h)] = resolve
	}
	return out
}

// isSampled reports whether any pass of passes samples h.
func isSampled(passes []forward.Pass, h forward.Handle) bool {
	for i := range passes {
		if samples(&passes[i], h) {
			return true
		}
	}
	return false
}
