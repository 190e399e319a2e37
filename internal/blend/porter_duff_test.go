package blend

import (
	"image/color"
	"testing"
)

func TestGetBlendFunc(t *testing.T) {
	src := [4]byte{100, 0, 0, 128}
	dst := [4]byte{0, 0, 200, 255}
	tests := []struct {
		name string
		mode BlendMode
		want [4]byte
	}{
		{"clear", BlendClear, [4]byte{0, 0, 0, 0}},
		{"source", BlendSource, src},
		{"source over", BlendSourceOver, [4]byte{100, 0, 100, 255}},
		{"destination in", BlendDestinationIn, [4]byte{0, 0, 101, 128}},
		{"destination out", BlendDestinationOut, [4]byte{0, 0, 100, 127}},
		{"unknown is source over", BlendMode(99), [4]byte{100, 0, 100, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b, a := GetBlendFunc(tt.mode)(src[0], src[1], src[2], src[3], dst[0], dst[1], dst[2], dst[3])
			got := [4]byte{r, g, b, a}
			for i := range got {
				if d := int(got[i]) - int(tt.want[i]); d < -1 || d > 1 {
					t.Errorf("%v = %v, want %v", tt.mode, got, tt.want)
					break
				}
			}
		})
	}
}

func TestSpanOpaqueSourceOver(t *testing.T) {
	dst := []byte{1, 2, 3, 255, 4, 5, 6, 255}
	Span(BlendSourceOver, dst, []color.RGBA{{255, 0, 0, 255}, {0, 255, 0, 255}}, 255)
	want := []byte{255, 0, 0, 255, 0, 255, 0, 255}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("Span() = %v, want %v", dst, want)
		}
	}
}

func TestSpanCoverage(t *testing.T) {
	dst := []byte{0, 0, 0, 255}
	Span(BlendSourceOver, dst, []color.RGBA{{255, 255, 255, 255}}, 128)
	if dst[0] < 127 || dst[0] > 129 || dst[3] != 255 {
		t.Errorf("half coverage white over black = %v, want about 128 grey", dst)
	}

	dst = []byte{200, 200, 200, 200}
	Span(BlendSource, dst, []color.RGBA{{0, 0, 0, 0}}, 255)
	if dst[3] != 0 {
		t.Errorf("full-coverage replace with transparent = %v, want transparent", dst)
	}

	dst = []byte{9, 9, 9, 9}
	Span(BlendSourceOver, dst, []color.RGBA{{255, 0, 0, 255}}, 0)
	if dst[0] != 9 {
		t.Errorf("zero coverage changed dst to %v", dst)
	}
}

func TestSolidSpan(t *testing.T) {
	dst := make([]byte, 12)
	SolidSpan(BlendSourceOver, dst, color.RGBA{0, 0, 255, 255}, 255)
	for i := 0; i < len(dst); i += 4 {
		if dst[i+2] != 255 || dst[i+3] != 255 {
			t.Fatalf("SolidSpan() = %v", dst)
		}
	}
	SolidSpan(BlendSourceOver, dst, color.RGBA{0, 0, 0, 128}, 255)
	if dst[2] < 126 || dst[2] > 128 {
		t.Errorf("half-transparent black over blue = %v", dst[:4])
	}
}
