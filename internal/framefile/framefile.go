// Package framefile loads frame descriptions for offline sequencing.
//
// A frame file holds one FrameState, the device capabilities to plan
// against, and the custom passes to splice into extension points. YAML
// (.yaml, .yml) and TOML (.toml) are accepted; both use the same snake_case
// keys.
//
//	frame:
//	  camera:
//	    name: main
//	    width: 1920
//	    height: 1080
//	    clear_flags: skybox
//	  shadows:
//	    render_directional: true
//	extensions:
//	  - name: Outline
//	    point: after-opaque
//	    inputs: ["@depth"]
//	    outputs: ["_OutlineMask"]
package framefile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/forward"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a frame file.
type Format int

const (
	// FormatYAML is YAML, decoded with gopkg.in/yaml.v3.
	FormatYAML Format = iota
	// FormatTOML is TOML, decoded with go-toml/v2.
	FormatTOML
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Errors returned while loading frame files.
var (
	// ErrUnknownFormat is returned for file extensions other than .yaml,
	// .yml and .toml.
	ErrUnknownFormat = errors.New("framefile: unknown format")

	// ErrInvalidFrame is returned when a decoded frame cannot be sequenced.
	ErrInvalidFrame = errors.New("framefile: invalid frame")
)

// Slot handle references usable in extension inputs and outputs.
const (
	RefColor  = "@color"
	RefDepth  = "@depth"
	RefCamera = "@camera"
)

// File is a decoded frame file.
type File struct {
	Frame forward.FrameState `yaml:"frame" toml:"frame"`

	// Capabilities overrides the default device capabilities.
	Capabilities *Capabilities `yaml:"capabilities,omitempty" toml:"capabilities,omitempty"`

	// MaxVisibleLocalLights overrides the sequencer default when positive.
	MaxVisibleLocalLights int `yaml:"max_visible_local_lights,omitempty" toml:"max_visible_local_lights,omitempty"`

	Extensions []ExtensionPass `yaml:"extensions,omitempty" toml:"extensions,omitempty"`
}

// Capabilities mirrors forward.DeviceCapabilities.
type Capabilities struct {
	TextureCopy            bool `yaml:"texture_copy" toml:"texture_copy"`
	DepthTarget            bool `yaml:"depth_target" toml:"depth_target"`
	MultisampledTextures   bool `yaml:"multisampled_textures" toml:"multisampled_textures"`
	MultisampledBackBuffer bool `yaml:"multisampled_back_buffer" toml:"multisampled_back_buffer"`
}

// ExtensionPass is a custom pass enqueued at an extension point.
type ExtensionPass struct {
	Name  string `yaml:"name" toml:"name"`
	Point string `yaml:"point" toml:"point"`

	// Inputs and Outputs are handle names. RefColor and RefDepth stand for
	// the slot's color and depth handles, RefCamera for the camera target.
	Inputs  []string `yaml:"inputs,omitempty" toml:"inputs,omitempty"`
	Outputs []string `yaml:"outputs,omitempty" toml:"outputs,omitempty"`
}

// Load reads the frame file at path, choosing the decoder by extension.
func Load(path string) (*File, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("framefile: %w", err)
	}
	f, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// FormatOf returns the format implied by the extension of path.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
}

// Decode decodes a frame file from r and validates it. Unknown keys are
// rejected.
func Decode(r io.Reader, format Format) (*File, error) {
	var f File
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("framefile: decode yaml: %w", err)
		}
	case FormatTOML:
		dec := toml.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("framefile: decode toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks that the frame can be sequenced and that every extension
// names a known point.
func (f *File) Validate() error {
	cam := &f.Frame.Camera
	if cam.Width == 0 || cam.Height == 0 {
		return fmt.Errorf("%w: camera size %dx%d", ErrInvalidFrame, cam.Width, cam.Height)
	}
	if cam.RenderScale < 0 {
		return fmt.Errorf("%w: negative render scale %g", ErrInvalidFrame, cam.RenderScale)
	}
	for i, e := range f.Extensions {
		if e.Name == "" {
			return fmt.Errorf("%w: extension %d has no name", ErrInvalidFrame, i)
		}
		if _, ok := forward.ParseExtensionPoint(e.Point); !ok {
			return fmt.Errorf("%w: extension %q: unknown point %q", ErrInvalidFrame, e.Name, e.Point)
		}
	}
	return nil
}

// Options returns the sequencer options the file asks for.
func (f *File) Options() []forward.SequencerOption {
	var opts []forward.SequencerOption
	if c := f.Capabilities; c != nil {
		opts = append(opts, forward.WithCapabilities(forward.DeviceCapabilities{
			TextureCopy:            c.TextureCopy,
			DepthTarget:            c.DepthTarget,
			MultisampledTextures:   c.MultisampledTextures,
			MultisampledBackBuffer: c.MultisampledBackBuffer,
		}))
	}
	if f.MaxVisibleLocalLights > 0 {
		opts = append(opts, forward.WithMaxVisibleLocalLights(f.MaxVisibleLocalLights))
	}
	return opts
}

// Registry builds the extension registry of the file. Extensions are
// registered in file order.
func (f *File) Registry() (*forward.Extensions, error) {
	ext := &forward.Extensions{}
	for _, e := range f.Extensions {
		point, ok := forward.ParseExtensionPoint(e.Point)
		if !ok {
			return nil, fmt.Errorf("%w: extension %q: unknown point %q", ErrInvalidFrame, e.Name, e.Point)
		}
		ext.Register(point, e.provider())
	}
	return ext, nil
}

// provider enqueues the pass with slot references resolved.
func (e ExtensionPass) provider() forward.Provider {
	return forward.ProviderFunc(func(slot forward.Slot) (forward.Pass, bool) {
		p := forward.NewCustomPass(e.Name, resolve(e.Inputs, slot), resolve(e.Outputs, slot))
		p.Params.Target = slot.Target
		p.Params.SampleCount = slot.Target.SampleCount
		return p, true
	})
}

func resolve(names []string, slot forward.Slot) []forward.Handle {
	out := make([]forward.Handle, 0, len(names))
	for _, n := range names {
		var h forward.Handle
		switch n {
		case RefColor:
			h = slot.Color
		case RefDepth:
			h = slot.Depth
		case RefCamera:
			h = forward.CameraTarget
		case "":
			continue
		default:
			h = forward.HandleFor(n)
		}
		// Slots without a color or depth leave the reference out.
		if h.IsValid() {
			out = append(out, h)
		}
	}
	return out
}
