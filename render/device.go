// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/forward"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// DeviceHandle provides GPU device access from the host application.
//
// The host (e.g., gogpu.App) owns the device and the window surface. The
// sequencer only needs the surface format to pick the color format of
// non-HDR attachments; the executor needs the HAL device.
//
// DeviceHandle is an alias for gpucontext.DeviceProvider, providing a
// forward-specific name for the interface while maintaining full
// compatibility with the gpucontext ecosystem.
type DeviceHandle = gpucontext.DeviceProvider

// SurfaceFormat returns the surface format of the host, or BGRA8Unorm when
// the host has no surface (headless or NullDeviceHandle).
func SurfaceFormat(h DeviceHandle) gputypes.TextureFormat {
	if h == nil {
		return gputypes.TextureFormatBGRA8Unorm
	}
	if f := h.SurfaceFormat(); f != gputypes.TextureFormatUndefined {
		return f
	}
	return gputypes.TextureFormatBGRA8Unorm
}

// SequencerOptions returns the sequencer options derived from the host
// device.
//
// Example:
//
//	s := forward.NewSequencer(render.SequencerOptions(handle, caps)...)
func SequencerOptions(h DeviceHandle, caps forward.Capabilities) []forward.SequencerOption {
	return []forward.SequencerOption{
		forward.WithSurfaceFormat(SurfaceFormat(h)),
		forward.WithCapabilities(caps),
	}
}

// TextureDescriptor describes parameters for creating an attachment texture.
// This mirrors the WebGPU GPUTextureDescriptor specification.
type TextureDescriptor struct {
	// Label is an optional debug label for the texture.
	Label string

	// Width is the texture width in pixels.
	Width uint32

	// Height is the texture height in pixels.
	Height uint32

	// Depth is the array layer count.
	// Use 1 for regular 2D textures.
	Depth uint32

	// SampleCount is the number of samples for multisampling.
	// Use 1 for no multisampling.
	SampleCount uint32

	// Format is the texture pixel format.
	Format gputypes.TextureFormat

	// Usage specifies how the texture will be used.
	Usage TextureUsage
}

// TextureUsage specifies how a texture can be used.
// These flags can be combined with bitwise OR.
type TextureUsage uint32

const (
	// TextureUsageCopySrc allows the texture to be used as a copy source.
	TextureUsageCopySrc TextureUsage = 1 << iota

	// TextureUsageCopyDst allows the texture to be used as a copy destination.
	TextureUsageCopyDst

	// TextureUsageTextureBinding allows the texture to be used in a texture binding.
	TextureUsageTextureBinding

	// TextureUsageStorageBinding allows the texture to be used in a storage binding.
	TextureUsageStorageBinding

	// TextureUsageRenderAttachment allows the texture to be used as a render attachment.
	TextureUsageRenderAttachment
)

// GPU converts the usage flags to their gputypes equivalent.
func (u TextureUsage) GPU() gputypes.TextureUsage {
	var out gputypes.TextureUsage
	if u&TextureUsageCopySrc != 0 {
		out |= gputypes.TextureUsageCopySrc
	}
	if u&TextureUsageCopyDst != 0 {
		out |= gputypes.TextureUsageCopyDst
	}
	if u&TextureUsageTextureBinding != 0 {
		out |= gputypes.TextureUsageTextureBinding
	}
	if u&TextureUsageStorageBinding != 0 {
		out |= gputypes.TextureUsageStorageBinding
	}
	if u&TextureUsageRenderAttachment != 0 {
		out |= gputypes.TextureUsageRenderAttachment
	}
	return out
}

// DefaultTextureDescriptor returns a TextureDescriptor with sensible defaults.
// Only Width, Height, and Format need to be set.
func DefaultTextureDescriptor(width, height uint32, format gputypes.TextureFormat) TextureDescriptor {
	return TextureDescriptor{
		Width:       width,
		Height:      height,
		Depth:       1,
		SampleCount: 1,
		Format:      format,
		Usage:       TextureUsageTextureBinding | TextureUsageRenderAttachment,
	}
}

// NullDeviceHandle is a DeviceHandle that provides nil implementations.
// Used for headless sequencing where no GPU is available.
type NullDeviceHandle struct{}

// Device returns nil for the null device.
func (NullDeviceHandle) Device() gpucontext.Device { return nil }

// Queue returns nil for the null device.
func (NullDeviceHandle) Queue() gpucontext.Queue { return nil }

// Adapter returns nil for the null device.
func (NullDeviceHandle) Adapter() gpucontext.Adapter { return nil }

// SurfaceFormat returns undefined format for the null device.
func (NullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

// Ensure NullDeviceHandle implements DeviceHandle.
var _ DeviceHandle = NullDeviceHandle{}
