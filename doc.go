// Package glcanvas draws 2D vector graphics on an OpenGL context.
//
// # Overview
//
// A [GraphicsContext] accepts the drawing model of a retained 2D canvas:
// rectangles, paths, images and glyphs filled with a colour, gradient or
// image; clipping to rectangles, paths and image alpha; saved states; and
// transparency layers. It executes those commands on the GPU through a
// fixed library of shader programs and a batched quad queue.
//
// # Quick Start
//
//	f, err := gogl.New(glfw.GetProcAddress)
//	if err != nil {
//	    return err
//	}
//	g, err := glcanvas.NewContext(f, glcanvas.ScreenTarget(800, 600))
//	if err != nil {
//	    return err
//	}
//	defer g.Close()
//
//	g.SetFill(paint.SolidFill(paint.Red))
//	g.FillRect(geom.NewRect(0, 0, 50, 50), false)
//	g.ClipToRectangle(geom.NewRect(25, 25, 50, 50))
//	g.SetFill(paint.SolidFill(paint.Blue))
//	g.FillRect(geom.NewRect(0, 0, 100, 100), false)
//	g.Flush()
//
// # Implementations
//
// [NewContext] checks once per native context whether the shader library
// can be built. If it can, contexts shade every primitive on the GPU. If
// not, contexts rasterise on the CPU and upload each finished frame as one
// texture. Both satisfy the same interface; callers cannot tell them apart
// except through [GraphicsContext.IsShaderBacked].
//
// # Coordinate System
//
// Device space has its origin at the top-left pixel of the target, with y
// increasing downwards. Drawing calls take coordinates in user space,
// which the current transform maps to device space. Pure integer
// translations, the common case, take faster paths.
//
// # Threading
//
// A context, like the GL context it draws on, belongs to one goroutine,
// normally the render goroutine of package driver.
package glcanvas
