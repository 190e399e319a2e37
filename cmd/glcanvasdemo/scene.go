package main

import (
	"math"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/glcanvas"
	"github.com/gogpu/glcanvas/font"
	"github.com/gogpu/glcanvas/geom"
	"github.com/gogpu/glcanvas/paint"
)

// scene draws the demo picture. frame moves the layered squares in
// animated hosts.
type scene struct {
	font font.Font
}

func newScene() (*scene, error) {
	face, err := font.NewSFNTFace(goregular.TTF)
	if err != nil {
		return nil, err
	}
	return &scene{font: font.Font{Face: face, Size: 28}}, nil
}

func (s *scene) draw(g glcanvas.GraphicsContext, w, h int, frame int) {
	drawBackground(g, w, h)
	drawShapes(g)
	drawClipped(g)
	drawLayer(g, frame)
	s.drawText(g, "glcanvas", geom.Pt(24, float64(h)-32))
}

func drawBackground(g glcanvas.GraphicsContext, w, h int) {
	bg := paint.NewLinearGradient(
		paint.RGB(26, 51, 102), geom.Pt(0, 0),
		paint.RGB(128, 128, 153), geom.Pt(0, float64(h)),
	)
	g.SetFill(paint.GradientFill(bg))
	g.FillRect(geom.NewRect(0, 0, w, h), true)
}

func drawShapes(g glcanvas.GraphicsContext) {
	colours := []paint.Colour{
		paint.FromFloat(1, 0.3, 0.3, 0.8),
		paint.FromFloat(0.3, 1, 0.3, 0.8),
		paint.FromFloat(0.3, 0.3, 1, 0.8),
	}
	for i, c := range colours {
		p := geom.NewPath()
		p.AddEllipse(geom.NewRectF(90+float64(i)*50, 90, 120, 120))
		g.SetFill(paint.SolidFill(c))
		g.FillPath(p, geom.Identity())
	}

	g.SaveState()
	g.SetOrigin(480, 150)
	g.AddTransform(geom.Rotation(math.Pi / 8))
	glow := paint.NewRadialGradient(paint.White, geom.Pt(0, 0), paint.RGB(255, 170, 0), geom.Pt(70, 0))
	g.SetFill(paint.GradientFill(glow))
	g.FillRectF(geom.NewRectF(-70, -70, 140, 140))
	g.RestoreState()

	g.SetFill(paint.SolidFill(paint.White))
	for i := 0; i < 12; i++ {
		a := float64(i) * math.Pi / 6
		g.DrawLine(geom.Line{
			Start: geom.Pt(680, 150),
			End:   geom.Pt(680+70*math.Cos(a), 150+70*math.Sin(a)),
		})
	}
}

// drawClipped fills a star through a circular clip with a hole in it.
func drawClipped(g glcanvas.GraphicsContext) {
	g.SaveState()
	defer g.RestoreState()

	circle := geom.NewPath()
	circle.AddEllipse(geom.NewRectF(80, 280, 220, 220))
	g.ClipToPath(circle, geom.Identity())
	g.ExcludeClipRectangle(geom.NewRect(170, 370, 40, 40))

	star := geom.NewPath()
	for i := 0; i < 10; i++ {
		r := 120.0
		if i%2 == 1 {
			r = 50
		}
		a := float64(i)*math.Pi/5 - math.Pi/2
		x, y := 190+r*math.Cos(a), 390+r*math.Sin(a)
		if i == 0 {
			star.MoveTo(x, y)
		} else {
			star.LineTo(x, y)
		}
	}
	star.Close()
	g.SetFill(paint.SolidFill(paint.RGB(255, 215, 0)))
	g.FillPath(star, geom.Identity())
}

// drawLayer draws overlapping squares into a half transparent layer, so
// their overlap does not show through.
func drawLayer(g glcanvas.GraphicsContext, frame int) {
	g.SaveState()
	defer g.RestoreState()

	g.ClipToRectangle(geom.NewRect(360, 280, 360, 240))
	g.SetOrigin(float64(frame%60), 0)
	g.BeginTransparencyLayer(0.5)
	g.SetFill(paint.SolidFill(paint.RGB(200, 40, 160)))
	g.FillRect(geom.NewRect(400, 300, 140, 140), false)
	g.SetFill(paint.SolidFill(paint.RGB(40, 160, 200)))
	g.FillRect(geom.NewRect(470, 360, 140, 140), false)
	g.EndTransparencyLayer()
}

// drawText lays out s on a baseline using outline widths for advances.
func (s *scene) drawText(g glcanvas.GraphicsContext, text string, at geom.Point) {
	g.SaveState()
	defer g.RestoreState()
	g.SetFont(s.font)
	g.SetFill(paint.SolidFill(paint.White))
	x := at.X
	for _, r := range text {
		glyph, ok := s.font.Face.GlyphIndex(r)
		if !ok {
			continue
		}
		g.DrawGlyph(glyph, geom.Translation(math.Round(x), at.Y))
		advance := s.font.Size * 0.3
		if p, ok := s.font.GlyphPath(glyph); ok && !p.IsEmpty() {
			advance = p.Bounds().Right() + s.font.Size*0.08
		}
		x += advance
	}
}
