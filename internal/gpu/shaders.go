package gpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// Embedded WGSL shader sources.

//go:embed shaders/blit.wgsl
var blitShaderSource string

// BlitShaderSource returns the WGSL source of the fullscreen blit used to
// present an intermediate color attachment.
func BlitShaderSource() string {
	return blitShaderSource
}

// CompileShaderToSPIRV compiles WGSL source to SPIR-V words.
func CompileShaderToSPIRV(wgslSource string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgslSource)
	if err != nil {
		return nil, fmt.Errorf("compile shader: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("compile shader: SPIR-V length %d is not a multiple of 4", len(spirvBytes))
	}

	// SPIR-V is little-endian 32-bit words
	spirvCode := make([]uint32, len(spirvBytes)/4)
	for i := range spirvCode {
		spirvCode[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return spirvCode, nil
}

// CreateBlitModule compiles the blit shader and creates its module on
// device.
func CreateBlitModule(device hal.Device) (hal.ShaderModule, error) {
	spirv, err := CompileShaderToSPIRV(blitShaderSource)
	if err != nil {
		return nil, fmt.Errorf("blit: %w", err)
	}
	module, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label: "forward_blit",
		Source: hal.ShaderSource{
			SPIRV: spirv,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("blit: create shader module: %w", err)
	}
	return module, nil
}
