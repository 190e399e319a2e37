package geom

import (
	"math"

	"golang.org/x/image/math/f64"
)

// Affine represents a 2D affine transformation matrix.
// It uses a 2x3 matrix in row-major order:
//
//	| a  b  c |
//	| d  e  f |
//
// This represents the transformation:
//
//	x' = a*x + b*y + c
//	y' = d*x + e*y + f
type Affine struct {
	A, B, C float64
	D, E, F float64
}

// Identity returns the identity transformation.
func Identity() Affine {
	return Affine{A: 1, E: 1}
}

// Translation creates a translation transform.
func Translation(x, y float64) Affine {
	return Affine{A: 1, C: x, E: 1, F: y}
}

// Scaling creates a scaling transform.
func Scaling(x, y float64) Affine {
	return Affine{A: x, E: y}
}

// Rotation creates a rotation transform (angle in radians).
func Rotation(angle float64) Affine {
	cos := math.Cos(angle)
	sin := math.Sin(angle)
	return Affine{A: cos, B: -sin, D: sin, E: cos}
}

// Then returns the transform that applies t first and then other.
func (t Affine) Then(other Affine) Affine {
	return Affine{
		A: other.A*t.A + other.B*t.D,
		B: other.A*t.B + other.B*t.E,
		C: other.A*t.C + other.B*t.F + other.C,
		D: other.D*t.A + other.E*t.D,
		E: other.D*t.B + other.E*t.E,
		F: other.D*t.C + other.E*t.F + other.F,
	}
}

// Translated returns t followed by a translation.
func (t Affine) Translated(dx, dy float64) Affine {
	t.C += dx
	t.F += dy
	return t
}

// Determinant returns the determinant of the linear part.
func (t Affine) Determinant() float64 {
	return t.A*t.E - t.B*t.D
}

// IsSingular reports whether t cannot be inverted.
func (t Affine) IsSingular() bool {
	return math.Abs(t.Determinant()) < 1e-12
}

// Inverted returns the inverse transform.
// A singular transform is returned unchanged.
func (t Affine) Inverted() Affine {
	det := t.Determinant()
	if math.Abs(det) < 1e-12 {
		return t
	}
	inv := 1 / det
	return Affine{
		A: t.E * inv,
		B: -t.B * inv,
		C: (t.B*t.F - t.E*t.C) * inv,
		D: -t.D * inv,
		E: t.A * inv,
		F: (t.D*t.C - t.A*t.F) * inv,
	}
}

// Apply transforms a point.
func (t Affine) Apply(p Point) Point {
	return Point{
		X: t.A*p.X + t.B*p.Y + t.C,
		Y: t.D*p.X + t.E*p.Y + t.F,
	}
}

// ApplyVector transforms a direction, ignoring the translation.
func (t Affine) ApplyVector(p Point) Point {
	return Point{
		X: t.A*p.X + t.B*p.Y,
		Y: t.D*p.X + t.E*p.Y,
	}
}

// IsIdentity reports whether t is exactly the identity.
func (t Affine) IsIdentity() bool {
	return t == Identity()
}

// IsOnlyTranslation reports whether t has no scale, rotation or shear.
func (t Affine) IsOnlyTranslation() bool {
	return t.A == 1 && t.B == 0 && t.D == 0 && t.E == 1
}

// IsIntegerTranslation reports whether t is a translation by whole pixels.
func (t Affine) IsIntegerTranslation() bool {
	return t.IsOnlyTranslation() && t.C == math.Trunc(t.C) && t.F == math.Trunc(t.F)
}

// TranslationX returns the horizontal translation component.
func (t Affine) TranslationX() float64 { return t.C }

// TranslationY returns the vertical translation component.
func (t Affine) TranslationY() float64 { return t.F }

// TransformRect returns the bounding box of r after transformation.
func (t Affine) TransformRect(r RectF) RectF {
	p0 := t.Apply(Pt(r.X, r.Y))
	p1 := t.Apply(Pt(r.Right(), r.Y))
	p2 := t.Apply(Pt(r.X, r.Bottom()))
	p3 := t.Apply(Pt(r.Right(), r.Bottom()))
	minX := math.Min(math.Min(p0.X, p1.X), math.Min(p2.X, p3.X))
	minY := math.Min(math.Min(p0.Y, p1.Y), math.Min(p2.Y, p3.Y))
	maxX := math.Max(math.Max(p0.X, p1.X), math.Max(p2.X, p3.X))
	maxY := math.Max(math.Max(p0.Y, p1.Y), math.Max(p2.Y, p3.Y))
	return RectF{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// ToF64 converts t to the matrix type used by golang.org/x/image/draw.
func (t Affine) ToF64() f64.Aff3 {
	return f64.Aff3{t.A, t.B, t.C, t.D, t.E, t.F}
}
