package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// AttachmentDesc describes the texture backing one render target handle.
type AttachmentDesc struct {
	Label       string
	Width       uint32
	Height      uint32
	Layers      uint32
	SampleCount uint32
	Format      gputypes.TextureFormat
	Usage       gputypes.TextureUsage
}

// attachment is a live texture and its default view.
type attachment struct {
	desc AttachmentDesc
	tex  hal.Texture
	view hal.TextureView
}

// AttachmentPool owns the textures behind render target handles. Each
// handle ID maps to at most one texture; the texture is recreated when
// the requested descriptor changes and kept otherwise, so steady-state
// frames allocate nothing.
//
// AttachmentPool is not safe for concurrent use.
type AttachmentPool struct {
	device  hal.Device
	entries map[int32]*attachment
}

// NewAttachmentPool creates an empty pool on device.
func NewAttachmentPool(device hal.Device) *AttachmentPool {
	return &AttachmentPool{
		device:  device,
		entries: make(map[int32]*attachment),
	}
}

// Ensure returns the view for id, creating or recreating its texture if
// the descriptor differs from the current one.
func (p *AttachmentPool) Ensure(id int32, desc AttachmentDesc) (hal.TextureView, error) {
	if desc.Width == 0 || desc.Height == 0 {
		return nil, fmt.Errorf("attachment %q: zero size %dx%d", desc.Label, desc.Width, desc.Height)
	}
	if desc.Layers == 0 {
		desc.Layers = 1
	}
	if desc.SampleCount == 0 {
		desc.SampleCount = 1
	}

	if a, ok := p.entries[id]; ok {
		if a.desc == desc {
			return a.view, nil
		}
		p.destroy(a)
		delete(p.entries, id)
	}

	tex, err := p.device.CreateTexture(&hal.TextureDescriptor{
		Label:         desc.Label,
		Size:          hal.Extent3D{Width: desc.Width, Height: desc.Height, DepthOrArrayLayers: desc.Layers},
		MipLevelCount: 1,
		SampleCount:   desc.SampleCount,
		Dimension:     gputypes.TextureDimension2D,
		Format:        desc.Format,
		Usage:         desc.Usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create attachment %q: %w", desc.Label, err)
	}

	view, err := p.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: desc.Label + "_view",
	})
	if err != nil {
		p.device.DestroyTexture(tex)
		return nil, fmt.Errorf("create attachment view %q: %w", desc.Label, err)
	}

	p.entries[id] = &attachment{desc: desc, tex: tex, view: view}
	Logger().Debug("gpu: attachment created",
		"label", desc.Label,
		"width", desc.Width,
		"height", desc.Height,
		"samples", desc.SampleCount)
	return view, nil
}

// View returns the view of id if it has been allocated.
func (p *AttachmentPool) View(id int32) (hal.TextureView, bool) {
	a, ok := p.entries[id]
	if !ok {
		return nil, false
	}
	return a.view, true
}

// Texture returns the texture of id if it has been allocated.
func (p *AttachmentPool) Texture(id int32) (hal.Texture, bool) {
	a, ok := p.entries[id]
	if !ok {
		return nil, false
	}
	return a.tex, true
}

// Desc returns the descriptor id was allocated with.
func (p *AttachmentPool) Desc(id int32) (AttachmentDesc, bool) {
	a, ok := p.entries[id]
	if !ok {
		return AttachmentDesc{}, false
	}
	return a.desc, true
}

// Len returns the number of live attachments.
func (p *AttachmentPool) Len() int { return len(p.entries) }

// Release destroys the texture of id, if any.
func (p *AttachmentPool) Release(id int32) {
	if a, ok := p.entries[id]; ok {
		p.destroy(a)
		delete(p.entries, id)
	}
}

// Destroy releases every attachment.
func (p *AttachmentPool) Destroy() {
	for id, a := range p.entries {
		p.destroy(a)
		delete(p.entries, id)
	}
}

func (p *AttachmentPool) destroy(a *attachment) {
	if a.view != nil {
		p.device.DestroyTextureView(a.view)
		a.view = nil
	}
	if a.tex != nil {
		p.device.DestroyTexture(a.tex)
		a.tex = nil
	}
}
