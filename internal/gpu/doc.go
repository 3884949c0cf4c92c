// Package gpu holds the gogpu/wgpu HAL plumbing behind the render package:
// the attachment pool that backs render target handles with textures and
// the shaders the executor needs.
package gpu
