package blend

import "testing"

// TestDiv255Fast tests the fast shift-based division.
func TestDiv255Fast(t *testing.T) {
	for x := 0; x <= 255*255; x++ {
		expected := x / 255
		got := int(div255(uint16(x)))

		// Fast div255 can be +1 higher than exact division
		if diff := got - expected; diff < 0 || diff > 1 {
			t.Fatalf("div255(%d) = %d, want %d (diff=%d)", x, got, expected, diff)
		}
	}
}

// TestDiv255Exact tests Alvy Ray Smith's exact formula.
func TestDiv255Exact(t *testing.T) {
	for x := 0; x <= 255*255; x++ {
		if got, want := int(div255Exact(uint16(x))), x/255; got != want {
			t.Fatalf("div255Exact(%d) = %d, want %d", x, got, want)
		}
	}
}

func TestMulDiv255(t *testing.T) {
	tests := []struct {
		a, b byte
		want byte
	}{
		{0, 0, 0},
		{255, 255, 255},
		{0, 255, 0},
		{255, 0, 0},
		{1, 255, 1},
		{255, 1, 1},
	}
	for _, tt := range tests {
		if got := mulDiv255(tt.a, tt.b); got != tt.want {
			t.Errorf("mulDiv255(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestAddDiv255(t *testing.T) {
	tests := []struct {
		name string
		a, b byte
		want byte
	}{
		{"zero + zero", 0, 0, 0},
		{"max + max (clamped)", 255, 255, 255},
		{"100 + 100", 100, 100, 200},
		{"200 + 100 (clamped)", 200, 100, 255},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := addDiv255(tt.a, tt.b); got != tt.want {
				t.Errorf("addDiv255(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestLerp255(t *testing.T) {
	tests := []struct {
		d, s, t byte
		want    byte
	}{
		{10, 200, 0, 10},
		{10, 200, 255, 200},
		{0, 255, 128, 128},
	}
	for _, tt := range tests {
		if got := lerp255(tt.d, tt.s, tt.t); got != tt.want {
			t.Errorf("lerp255(%d, %d, %d) = %d, want %d", tt.d, tt.s, tt.t, got, tt.want)
		}
	}
}
