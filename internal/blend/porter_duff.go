// Package blend implements the Porter-Duff operators the software
// renderer composites with.
//
// All values are premultiplied alpha in the range 0-255. Spans are RGBA
// byte slices laid out like image.RGBA.Pix.
//
// References:
//   - Porter-Duff: "Compositing Digital Images" (1984)
package blend

import "image/color"

// BlendMode is a Porter-Duff compositing operation.
type BlendMode uint8

const (
	BlendSourceOver     BlendMode = iota // Result: S + D*(1-Sa) [default]
	BlendSource                          // Result: S (replace with source)
	BlendDestinationIn                   // Result: D*Sa
	BlendDestinationOut                  // Result: D*(1-Sa)
	BlendClear                           // Result: 0
)

// BlendFunc composites one premultiplied source pixel with a destination
// pixel.
type BlendFunc func(sr, sg, sb, sa, dr, dg, db, da byte) (r, g, b, a byte)

// GetBlendFunc returns the blend function for the given mode.
// Returns blendSourceOver for unknown modes.
func GetBlendFunc(mode BlendMode) BlendFunc {
	switch mode {
	case BlendSource:
		return blendSource
	case BlendDestinationIn:
		return blendDestinationIn
	case BlendDestinationOut:
		return blendDestinationOut
	case BlendClear:
		return blendClear
	default:
		return blendSourceOver
	}
}

func blendClear(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return 0, 0, 0, 0
}

func blendSource(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return sr, sg, sb, sa
}

// blendSourceOver composites source over destination.
// Formula: S + D * (1 - Sa)
func blendSourceOver(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	invSa := 255 - sa
	return addDiv255(sr, mulDiv255(dr, invSa)),
		addDiv255(sg, mulDiv255(dg, invSa)),
		addDiv255(sb, mulDiv255(db, invSa)),
		addDiv255(sa, mulDiv255(da, invSa))
}

// blendDestinationIn keeps destination where source is opaque.
// Formula: D * Sa
func blendDestinationIn(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return mulDiv255(dr, sa), mulDiv255(dg, sa), mulDiv255(db, sa), mulDiv255(da, sa)
}

// blendDestinationOut keeps destination where source is transparent.
// Formula: D * (1 - Sa)
func blendDestinationOut(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	invSa := 255 - sa
	return mulDiv255(dr, invSa), mulDiv255(dg, invSa), mulDiv255(db, invSa), mulDiv255(da, invSa)
}

// Span composites src into dst, one colour per pixel, with the source
// weighted by coverage. For BlendSource the result moves from the
// destination towards the source by coverage, so a partially covered pixel
// keeps part of what was below it.
func Span(mode BlendMode, dst []byte, src []color.RGBA, coverage uint8) {
	if coverage == 0 {
		return
	}
	fn := GetBlendFunc(mode)
	for i, s := range src {
		d := dst[i*4 : i*4+4 : i*4+4]
		if mode == BlendSource && coverage != 255 {
			d[0], d[1], d[2], d[3] = lerp255(d[0], s.R, coverage), lerp255(d[1], s.G, coverage),
				lerp255(d[2], s.B, coverage), lerp255(d[3], s.A, coverage)
			continue
		}
		if coverage != 255 {
			s = color.RGBA{
				R: mulDiv255(s.R, coverage), G: mulDiv255(s.G, coverage),
				B: mulDiv255(s.B, coverage), A: mulDiv255(s.A, coverage),
			}
		}
		d[0], d[1], d[2], d[3] = fn(s.R, s.G, s.B, s.A, d[0], d[1], d[2], d[3])
	}
}

// SolidSpan is Span with the same source colour for every pixel of dst.
func SolidSpan(mode BlendMode, dst []byte, c color.RGBA, coverage uint8) {
	if coverage == 0 {
		return
	}
	if coverage == 255 && (mode == BlendSource || (mode == BlendSourceOver && c.A == 255)) {
		for i := 0; i+3 < len(dst); i += 4 {
			dst[i], dst[i+1], dst[i+2], dst[i+3] = c.R, c.G, c.B, c.A
		}
		return
	}
	one := []color.RGBA{c}
	for i := 0; i+3 < len(dst); i += 4 {
		Span(mode, dst[i:i+4], one, coverage)
	}
}
