// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/forward"
)

// Recorder is an Enqueuer that keeps the passes it receives. It is the
// headless executor: tools and tests use it to inspect what a frame would
// run.
type Recorder struct {
	passes []forward.Pass
}

// EnqueuePass appends p to the recording.
func (r *Recorder) EnqueuePass(p forward.Pass) {
	r.passes = append(r.passes, p)
}

// Passes returns the recorded passes in enqueue order.
func (r *Recorder) Passes() []forward.Pass {
	return r.passes
}

// Plan returns the attachment plan of the recorded passes.
func (r *Recorder) Plan() []PassAttachments {
	return PlanAttachments(r.passes)
}

// Reset discards the recording, keeping its storage.
func (r *Recorder) Reset() {
	r.passes = r.passes[:0]
}

// Ensure Recorder implements forward.Enqueuer.
var _ forward.Enqueuer = (*Recorder)(nil)
