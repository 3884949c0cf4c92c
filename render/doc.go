// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render executes forward pass sequences on a GPU device.
//
// The forward package decides which passes a frame needs and in what
// order. This package is the host side: it turns each pass into the
// textures it allocates and the attachments it loads and stores, and runs
// the sequence on a gogpu/wgpu HAL device.
//
// # Key Principle
//
// render RECEIVES a GPU device from the host application, it does NOT
// create its own. The host owns the device, the queue and the window
// surface; the executor owns the intermediate attachments.
//
// # Core Types
//
//   - DeviceHandle: GPU device access from the host application
//   - TextureDescriptor: what an allocated handle needs (DescribeOutput)
//   - PassAttachments: load/store plan of one pass (PlanAttachments)
//   - Recorder: headless Enqueuer that keeps the passes
//   - GPUExecutor: Enqueuer that runs passes through a PassRunner
//
// # Usage
//
//	s := forward.NewSequencer(render.SequencerOptions(handle, caps)...)
//	exec := render.NewGPUExecutor(device, queue, runner)
//	defer exec.Destroy()
//
//	app.OnDraw(func(gc *gogpu.Context) {
//	    exec.SetSurfaceTarget(surfaceView, nil)
//	    s.Setup(frame, ext, exec)
//	    if err := exec.Execute(ctx); err != nil {
//	        log.Printf("frame: %v", err)
//	    }
//	})
//
// # Architecture
//
//	forward.Sequence
//	       │
//	       ▼
//	  GPUExecutor ──► DescribeOutput ──► AttachmentPool (pooled textures)
//	       │
//	       ├────────► PlanAttachments ──► hal.RenderPassDescriptor
//	       │
//	       ▼
//	  PassRunner (host draws) ──► hal.Queue.Submit
//
// # Thread Safety
//
// Executors are NOT thread-safe. Each executor should be used from a single
// goroutine, or external synchronization must be used.
package render
