package forward

// ExtensionPoint is a named slot where host-supplied passes are spliced
// into the sequence.
type ExtensionPoint int

const (
	AfterDepthPrepass ExtensionPoint = iota
	AfterOpaque
	AfterOpaquePostProcess
	AfterSkybox
	AfterTransparent
	AfterRender

	numExtensionPoints
)

var extensionPointNames = [numExtensionPoints]string{
	"after-depth-prepass",
	"after-opaque",
	"after-opaque-postprocess",
	"after-skybox",
	"after-transparent",
	"after-render",
}

// String returns the slot name.
func (p ExtensionPoint) String() string {
	if p < 0 || p >= numExtensionPoints {
		return "unknown"
	}
	return extensionPointNames[p]
}

// ParseExtensionPoint returns the extension point with the given name.
func ParseExtensionPoint(name string) (ExtensionPoint, bool) {
	for i, n := range extensionPointNames {
		if n == name {
			return ExtensionPoint(i), true
		}
	}
	return 0, false
}

// Slot is what a provider sees when it is asked for a pass.
//
// Target is the frame's base descriptor except where noted. Which handles
// are set depends on the point:
//   - AfterDepthPrepass: Target is the prepass descriptor, Depth is the
//     depth texture.
//   - AfterOpaque, AfterSkybox, AfterTransparent: Color and Depth.
//   - AfterOpaquePostProcess: Color.
//   - AfterRender: no handles; new targets take the Target size.
type Slot struct {
	Point  ExtensionPoint
	Target TargetDescriptor
	Color  Handle
	Depth  Handle
}

// Provider supplies at most one pass for an extension point.
type Provider interface {
	// PassToEnqueue returns the pass to splice and true, or false to add
	// nothing this frame.
	PassToEnqueue(slot Slot) (Pass, bool)
}

// ProviderFunc adapts a function to a Provider.
type ProviderFunc func(slot Slot) (Pass, bool)

// PassToEnqueue calls f(slot).
func (f ProviderFunc) PassToEnqueue(slot Slot) (Pass, bool) { return f(slot) }

// StaticProvider returns a provider that always enqueues p.
func StaticProvider(p Pass) Provider {
	return ProviderFunc(func(Slot) (Pass, bool) { return p, true })
}

// Extensions is a registry of providers per extension point. Providers of
// one point run in registration order. The zero value is ready to use and
// a nil *Extensions has no providers.
type Extensions struct {
	providers [numExtensionPoints][]Provider
}

// Register adds a provider to an extension point.
func (e *Extensions) Register(point ExtensionPoint, p Provider) {
	if point < 0 || point >= numExtensionPoints {
		panic("forward: invalid extension point")
	}
	e.providers[point] = append(e.providers[point], p)
}

// Providers returns the providers registered for point.
func (e *Extensions) Providers(point ExtensionPoint) []Provider {
	if e == nil || point < 0 || point >= numExtensionPoints {
		return nil
	}
	return e.providers[point]
}

// Len returns the number of providers registered for point.
func (e *Extensions) Len(point ExtensionPoint) int {
	return len(e.Providers(point))
}
