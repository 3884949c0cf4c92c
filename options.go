package forward

import "github.com/gogpu/gputypes"

// DefaultMaxVisibleLocalLights is the local light bound used when no
// WithMaxVisibleLocalLights option is given.
const DefaultMaxVisibleLocalLights = 16

// SequencerOption configures a Sequencer during creation.
//
// Example:
//
//	s := forward.NewSequencer(
//	    forward.WithSurfaceFormat(gputypes.TextureFormatRGBA8Unorm),
//	    forward.WithMaxVisibleLocalLights(8),
//	)
type SequencerOption func(*sequencerOptions)

// sequencerOptions holds optional configuration for Sequencer creation.
type sequencerOptions struct {
	caps                  Capabilities
	surfaceFormat         gputypes.TextureFormat
	maxVisibleLocalLights int
}

// defaultOptions returns the default sequencer options.
func defaultOptions() sequencerOptions {
	return sequencerOptions{
		caps:                  DefaultCapabilities(),
		surfaceFormat:         gputypes.TextureFormatBGRA8Unorm,
		maxVisibleLocalLights: DefaultMaxVisibleLocalLights,
	}
}

// WithCapabilities injects the device capability probe used by the
// decision engine. A nil value keeps the default.
func WithCapabilities(c Capabilities) SequencerOption {
	return func(o *sequencerOptions) {
		if c != nil {
			o.caps = c
		}
	}
}

// WithSurfaceFormat sets the camera target format used for non-HDR color
// attachments. TextureFormatUndefined keeps the default (BGRA8Unorm).
func WithSurfaceFormat(f gputypes.TextureFormat) SequencerOption {
	return func(o *sequencerOptions) {
		if f != gputypes.TextureFormatUndefined {
			o.surfaceFormat = f
		}
	}
}

// WithMaxVisibleLocalLights sets the bound passed to the local shadow and
// lighting-constants passes. Non-positive values keep the default.
func WithMaxVisibleLocalLights(n int) SequencerOption {
	return func(o *sequencerOptions) {
		if n > 0 {
			o.maxVisibleLocalLights = n
		}
	}
}
