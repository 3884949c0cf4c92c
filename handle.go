package forward

import (
	"sync"
)

// Handle is a symbolic name for a render target. The host resolves it to
// an actual GPU resource when the pass that uses it executes.
//
// The zero Handle means "no handle". CameraTarget is the sentinel for the
// final camera target, which always exists.
type Handle struct {
	id   int32
	name string
}

// CameraTarget is the sentinel handle for rendering directly to the final
// camera target.
var CameraTarget = Handle{id: -1, name: "CameraTarget"}

// ID returns the interned identifier of the handle.
func (h Handle) ID() int32 { return h.id }

// Name returns the logical name the handle was created from.
func (h Handle) Name() string { return h.name }

// IsValid reports whether h refers to something (a named target or the
// camera target).
func (h Handle) IsValid() bool { return h.id != 0 }

// IsCameraTarget reports whether h is the CameraTarget sentinel.
func (h Handle) IsCameraTarget() bool { return h.id == CameraTarget.id }

// String returns the handle name.
func (h Handle) String() string {
	if !h.IsValid() {
		return "<none>"
	}
	return h.name
}

// names interns logical target names to process-wide identifiers, so every
// table in the process agrees on the ID of a given name.
var names = struct {
	sync.Mutex
	ids  map[string]int32
	next int32
}{ids: make(map[string]int32), next: 1}

// HandleFor returns the handle for a logical target name. The same name
// always yields the same handle.
func HandleFor(name string) Handle {
	names.Lock()
	defer names.Unlock()

	id, ok := names.ids[name]
	if !ok {
		id = names.next
		names.next++
		names.ids[name] = id
	}
	return Handle{id: id, name: name}
}

// Logical target names.
const (
	NameCameraColor          = "_CameraColorTexture"
	NameCameraDepth          = "_CameraDepthAttachment"
	NameDepthTexture         = "_CameraDepthTexture"
	NameOpaqueColor          = "_CameraOpaqueTexture"
	NameDirectionalShadowmap = "_DirectionalShadowmapTexture"
	NameLocalShadowmap       = "_LocalShadowmapTexture"
	NameScreenSpaceShadowmap = "_ScreenSpaceShadowMapTexture"
)

// HandleTable holds the handles a sequencer uses. The assignment is done
// once by Init and is read-only afterwards.
type HandleTable struct {
	once sync.Once

	Color                Handle
	DepthAttachment      Handle
	DepthTexture         Handle
	OpaqueColor          Handle
	DirectionalShadowmap Handle
	LocalShadowmap       Handle
	ScreenSpaceShadowmap Handle
}

// Init assigns every logical name to its handle. Calling Init more than
// once is a no-op.
func (t *HandleTable) Init() {
	t.once.Do(func() {
		t.Color = HandleFor(NameCameraColor)
		t.DepthAttachment = HandleFor(NameCameraDepth)
		t.DepthTexture = HandleFor(NameDepthTexture)
		t.OpaqueColor = HandleFor(NameOpaqueColor)
		t.DirectionalShadowmap = HandleFor(NameDirectionalShadowmap)
		t.LocalShadowmap = HandleFor(NameLocalShadowmap)
		t.ScreenSpaceShadowmap = HandleFor(NameScreenSpaceShadowmap)

		Logger().Info("forward: handle table initialized",
			"color", t.Color.id, "depth", t.DepthAttachment.id)
	})
}

// ResolveColor returns the intermediate color handle, or CameraTarget when
// the frame renders color straight to the camera target.
func (t *HandleTable) ResolveColor(d Decisions) Handle {
	if d.ColorAttachment {
		return t.Color
	}
	return CameraTarget
}

// ResolveDepth returns the depth attachment handle, or CameraTarget when
// depth stays on the camera target.
func (t *HandleTable) ResolveDepth(d Decisions) Handle {
	if d.DepthAttachment {
		return t.DepthAttachment
	}
	return CameraTarget
}
