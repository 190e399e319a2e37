// Package gpu holds the GPU-side objects of the renderer: textures,
// framebuffers, shader programs and the shader library, the quad batch
// through which all pixels reach the GPU, the gradient and image texture
// caches, and [State], which bundles them for one render target.
//
// All objects in this package call through a [gl.Functions] table and must
// only be used on the goroutine that owns the corresponding native context,
// while that context is current.
//
// # Coordinates
//
// The API is top-down: (0, 0) is the top-left pixel of a target. GL stores
// framebuffers and textures bottom-up, so uploads and read-backs flip rows
// and the vertex shader flips y. Textures loaded with flipping keep their
// content anchored at the top-left of the (possibly larger) power-of-two
// allocation, which makes uploaded images and framebuffer textures sample
// the same way.
package gpu
