// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/forward"
	"github.com/gogpu/forward/internal/gpu"
	"github.com/gogpu/wgpu/hal"
)

// Errors returned by GPUExecutor.
var (
	// ErrNoSurface is returned when a frame presents to the camera target
	// but no surface view has been set.
	ErrNoSurface = errors.New("render: no surface target set")

	// ErrMissingAttachment is returned when a pass renders into a handle
	// no pass allocated.
	ErrMissingAttachment = errors.New("render: attachment not allocated")

	// ErrExecutorDestroyed is returned by Execute after Destroy.
	ErrExecutorDestroyed = errors.New("render: executor destroyed")
)

// DefaultFenceTimeout bounds how long Execute waits for the GPU.
const DefaultFenceTimeout = 5 * time.Second

// PassContext is what a PassRunner receives for one pass.
type PassContext struct {
	Pass        *forward.Pass
	Attachments *PassAttachments

	// Encoder records the frame's commands. A render pass is open on it
	// whenever RenderPass is set.
	Encoder hal.CommandEncoder

	// RenderPass is open while the runner is called for a pass that
	// renders, and nil otherwise. The executor ends it.
	RenderPass hal.RenderPassEncoder

	// Views and Textures hold every resolved handle of the frame,
	// including CameraTarget when a surface is set.
	Views    map[forward.Handle]hal.TextureView
	Textures map[forward.Handle]hal.Texture

	// Source is the view of Attachments.Source, the single-sample texture
	// a fullscreen pass samples. It is nil for draw passes.
	Source hal.TextureView

	// Blit is the fullscreen blit shader module. It is set for
	// PassCopyColor and PassFinalBlit.
	Blit hal.ShaderModule
}

// PassRunner records the draw calls of a pass. The host implements it;
// the executor owns attachments, render pass scopes and submission.
type PassRunner interface {
	RunPass(ctx context.Context, pc *PassContext) error
}

// PassRunnerFunc adapts a function to PassRunner.
type PassRunnerFunc func(ctx context.Context, pc *PassContext) error

// RunPass calls f(ctx, pc).
func (f PassRunnerFunc) RunPass(ctx context.Context, pc *PassContext) error { return f(ctx, pc) }

// ExecutorOption configures a GPUExecutor.
type ExecutorOption func(*GPUExecutor)

// WithFenceTimeout sets how long Execute waits for the GPU to finish a
// frame. Non-positive values keep DefaultFenceTimeout.
func WithFenceTimeout(d time.Duration) ExecutorOption {
	return func(e *GPUExecutor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// GPUExecutor is an Enqueuer that runs passes on a gogpu/wgpu HAL device.
//
// Passes are collected by EnqueuePass and run by Execute as one command
// buffer. Attachments are pooled across frames and recreated only when a
// frame asks for a different size or format.
//
// GPUExecutor is not safe for concurrent use.
type GPUExecutor struct {
	device  hal.Device
	queue   hal.Queue
	runner  PassRunner
	pool    *gpu.AttachmentPool
	timeout time.Duration

	surface      hal.TextureView
	surfaceTex   hal.Texture
	surfaceDepth hal.TextureView

	pending   []forward.Pass
	blit      hal.ShaderModule
	allocated map[int32]forward.Handle

	destroyed bool
}

// NewGPUExecutor creates an executor on device and queue. runner may be
// nil, in which case passes open and close their render passes without
// drawing.
func NewGPUExecutor(device hal.Device, queue hal.Queue, runner PassRunner, opts ...ExecutorOption) *GPUExecutor {
	e := &GPUExecutor{
		device:  device,
		queue:   queue,
		runner:  runner,
		pool:    gpu.NewAttachmentPool(device),
		timeout: DefaultFenceTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EnqueuePass queues p for the next Execute.
func (e *GPUExecutor) EnqueuePass(p forward.Pass) {
	e.pending = append(e.pending, p)
}

// Pending returns the number of queued passes.
func (e *GPUExecutor) Pending() int { return len(e.pending) }

// SetSurfaceTarget sets the view CameraTarget resolves to. tex may be nil
// when the host does not expose the surface texture.
func (e *GPUExecutor) SetSurfaceTarget(view hal.TextureView, tex hal.Texture) {
	e.surface = view
	e.surfaceTex = tex
}

// SetSurfaceDepth sets the depth view used when depth stays on the camera
// target. Without one, such passes render without a depth attachment.
func (e *GPUExecutor) SetSurfaceDepth(view hal.TextureView) {
	e.surfaceDepth = view
}

// Attachments returns the number of pooled attachment textures.
func (e *GPUExecutor) Attachments() int { return e.pool.Len() }

// Execute runs the queued passes and waits for the GPU. The queue is
// emptied whether or not execution succeeds.
func (e *GPUExecutor) Execute(ctx context.Context) error {
	passes := e.pending
	e.pending = nil

	if e.destroyed {
		return ErrExecutorDestroyed
	}
	if len(passes) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	views, textures, err := e.resolve(passes)
	if err != nil {
		return err
	}

	plan := PlanAttachments(passes)
	if err := e.encodeAndSubmit(ctx, plan, views, textures); err != nil {
		return err
	}

	forward.Logger().Debug("render: frame executed",
		"passes", len(passes),
		"attachments", e.pool.Len())
	return nil
}

// resolve allocates the frame's attachments and maps every handle to its
// view and texture.
func (e *GPUExecutor) resolve(passes []forward.Pass) (map[forward.Handle]hal.TextureView, map[forward.Handle]hal.Texture, error) {
	descs := describePasses(passes)

	views := make(map[forward.Handle]hal.TextureView, len(descs)+1)
	textures := make(map[forward.Handle]hal.Texture, len(descs)+1)
	live := make(map[int32]forward.Handle, len(descs))

	for h, d := range descs {
		view, err := e.pool.Ensure(h.ID(), gpu.AttachmentDesc{
			Label:       d.Label,
			Width:       d.Width,
			Height:      d.Height,
			Layers:      d.Depth,
			SampleCount: d.SampleCount,
			Format:      d.Format,
			Usage:       d.Usage.GPU(),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("render: %w", err)
		}
		views[h] = view
		if tex, ok := e.pool.Texture(h.ID()); ok {
			textures[h] = tex
		}
		live[h.ID()] = h
	}

	e.releaseStale(live)

	if presents(passes) {
		if e.surface == nil {
			return nil, nil, ErrNoSurface
		}
		views[forward.CameraTarget] = e.surface
		if e.surfaceTex != nil {
			textures[forward.CameraTarget] = e.surfaceTex
		}
	}
	return views, textures, nil
}

// releaseStale destroys attachments the previous frame used and the
// current one does not, such as the intermediate color target after
// post-processing is turned off.
func (e *GPUExecutor) releaseStale(live map[int32]forward.Handle) {
	for id, h := range e.allocated {
		if _, ok := live[id]; ok {
			continue
		}
		e.pool.Release(id)
		forward.Logger().Debug("render: attachment released", "handle", h.Name())
	}
	e.allocated = live
}

func presents(passes []forward.Pass) bool {
	for i := range passes {
		if passes[i].Writes(forward.CameraTarget) || passes[i].Reads(forward.CameraTarget) {
			return true
		}
	}
	return false
}

func (e *GPUExecutor) encodeAndSubmit(
	ctx context.Context,
	plan []PassAttachments,
	views map[forward.Handle]hal.TextureView,
	textures map[forward.Handle]hal.Texture,
) error {
	encoder, err := e.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "forward_encoder",
	})
	if err != nil {
		return fmt.Errorf("render: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("forward_frame"); err != nil {
		return fmt.Errorf("render: begin encoding: %w", err)
	}

	for i := range plan {
		if err := ctx.Err(); err != nil {
			encoder.DiscardEncoding()
			return err
		}
		if err := e.runPass(ctx, encoder, &plan[i], views, textures); err != nil {
			encoder.DiscardEncoding()
			return err
		}
	}

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("render: end encoding: %w", err)
	}
	defer e.device.FreeCommandBuffer(cmdBuf)

	fence, err := e.device.CreateFence()
	if err != nil {
		return fmt.Errorf("render: create fence: %w", err)
	}
	defer e.device.DestroyFence(fence)

	if err := e.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("render: submit: %w", err)
	}
	ok, err := e.device.Wait(fence, 1, e.timeout)
	if err != nil {
		return fmt.Errorf("render: wait for GPU: %w", err)
	}
	if !ok {
		return fmt.Errorf("render: GPU timeout after %v", e.timeout)
	}
	return nil
}

func (e *GPUExecutor) runPass(
	ctx context.Context,
	encoder hal.CommandEncoder,
	a *PassAttachments,
	views map[forward.Handle]hal.TextureView,
	textures map[forward.Handle]hal.Texture,
) error {
	pc := &PassContext{
		Pass:        a.Pass,
		Attachments: a,
		Encoder:     encoder,
		Views:       views,
		Textures:    textures,
	}

	if a.Source.IsValid() {
		view, ok := views[a.Source]
		if !ok {
			return fmt.Errorf("%w: %s sampled by pass %q", ErrMissingAttachment, a.Source, a.Pass.Name)
		}
		pc.Source = view
	}

	if k := a.Pass.Kind; k == forward.PassFinalBlit || k == forward.PassCopyColor {
		blit, err := e.blitModule()
		if err != nil {
			return err
		}
		pc.Blit = blit
	}

	if !a.Renders() {
		return e.run(ctx, pc)
	}

	desc, err := e.renderPassDescriptor(a, views)
	if err != nil {
		return err
	}
	pc.RenderPass = encoder.BeginRenderPass(desc)
	err = e.run(ctx, pc)
	pc.RenderPass.End()
	return err
}

func (e *GPUExecutor) run(ctx context.Context, pc *PassContext) error {
	if e.runner == nil {
		return nil
	}
	if err := e.runner.RunPass(ctx, pc); err != nil {
		return fmt.Errorf("render: pass %q: %w", pc.Pass.Name, err)
	}
	return nil
}

// blitModule compiles the blit shader on first use.
func (e *GPUExecutor) blitModule() (hal.ShaderModule, error) {
	if e.blit != nil {
		return e.blit, nil
	}
	module, err := gpu.CreateBlitModule(e.device)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	e.blit = module
	forward.Logger().Info("render: blit shader compiled")
	return module, nil
}

func (e *GPUExecutor) renderPassDescriptor(a *PassAttachments, views map[forward.Handle]hal.TextureView) (*hal.RenderPassDescriptor, error) {
	desc := &hal.RenderPassDescriptor{Label: a.Pass.Name}

	for _, c := range a.Colors {
		view, ok := views[c.Handle]
		if !ok {
			return nil, fmt.Errorf("%w: %s in pass %q", ErrMissingAttachment, c.Handle, a.Pass.Name)
		}
		ca := hal.RenderPassColorAttachment{
			View:       view,
			LoadOp:     c.LoadOp,
			StoreOp:    c.StoreOp,
			ClearValue: c.ClearValue,
		}
		if c.Resolve.IsValid() {
			ca.ResolveTarget, ok = views[c.Resolve]
			if !ok {
				return nil, fmt.Errorf("%w: %s in pass %q", ErrMissingAttachment, c.Resolve, a.Pass.Name)
			}
		}
		desc.ColorAttachments = append(desc.ColorAttachments, ca)
	}

	if d := a.Depth; d != nil {
		view, ok := views[d.Handle]
		if d.Handle.IsCameraTarget() {
			view, ok = e.surfaceDepth, e.surfaceDepth != nil
			if !ok {
				return desc, nil
			}
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s in pass %q", ErrMissingAttachment, d.Handle, a.Pass.Name)
		}
		desc.DepthStencilAttachment = &hal.RenderPassDepthStencilAttachment{
			View:              view,
			DepthLoadOp:       d.LoadOp,
			DepthStoreOp:      d.StoreOp,
			DepthClearValue:   d.ClearValue,
			StencilLoadOp:     d.LoadOp,
			StencilStoreOp:    d.StoreOp,
			StencilClearValue: 0,
		}
	}
	return desc, nil
}

// Destroy releases the executor's attachments and shader modules. The
// surface view is owned by the host and left alone.
func (e *GPUExecutor) Destroy() {
	if e.destroyed {
		return
	}
	if n := len(e.pending); n > 0 {
		forward.Logger().Warn("render: executor destroyed with pending passes", "passes", n)
		e.pending = nil
	}
	e.pool.Destroy()
	e.allocated = nil
	if e.blit != nil {
		e.device.DestroyShaderModule(e.blit)
		e.blit = nil
	}
	e.surface = nil
	e.surfaceTex = nil
	e.surfaceDepth = nil
	e.destroyed = true
}

// Ensure GPUExecutor implements forward.Enqueuer.
var _ forward.Enqueuer = (*GPUExecutor)(nil)
