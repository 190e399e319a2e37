package clip

import (
	"testing"

	"github.com/gogpu/glcanvas/geom"
)

// countingRegion records clones and releases of a rectangle region.
type countingRegion struct {
	Region
	clones, releases *int
}

func newCounting(bounds geom.Rect) (*countingRegion, *int, *int) {
	var clones, releases int
	return &countingRegion{Region: NewSoftwareRegion(&SoftwareDevice{}, bounds), clones: &clones, releases: &releases}, &clones, &releases
}

func (c *countingRegion) Clone() Region {
	*c.clones++
	return &countingRegion{Region: c.Region.Clone(), clones: c.clones, releases: c.releases}
}

func (c *countingRegion) Release() { *c.releases++ }

func (c *countingRegion) ClipToRectangle(r geom.Rect) Region {
	if c.Region = c.Region.ClipToRectangle(r); c.Region == nil {
		return nil
	}
	return c
}

func TestZeroRefIsEmpty(t *testing.T) {
	var r Ref
	if !r.IsEmpty() || r.Shared() {
		t.Errorf("zero Ref: IsEmpty() = %v, Shared() = %v", r.IsEmpty(), r.Shared())
	}
	r.Apply(func(Region) Region {
		t.Error("Apply ran on an empty Ref")
		return nil
	})
	r.Release()
	if !NewRef(nil).IsEmpty() {
		t.Error("NewRef(nil) is not empty")
	}
}

func TestRefCopyOnWrite(t *testing.T) {
	region, clones, releases := newCounting(geom.NewRect(0, 0, 100, 100))
	saved := NewRef(region)
	current := saved.Retain()
	if !current.Shared() || !saved.Shared() {
		t.Fatal("retained handles should be shared")
	}

	current.Apply(func(r Region) Region { return r.ClipToRectangle(geom.NewRect(0, 0, 10, 10)) })

	if *clones != 1 {
		t.Errorf("clones = %d, want 1", *clones)
	}
	if got, want := saved.Get().Bounds(), geom.NewRect(0, 0, 100, 100); got != want {
		t.Errorf("saved bounds = %v, want %v", got, want)
	}
	if got, want := current.Get().Bounds(), geom.NewRect(0, 0, 10, 10); got != want {
		t.Errorf("current bounds = %v, want %v", got, want)
	}
	if current.Shared() || saved.Shared() {
		t.Error("handles still shared after a write")
	}

	current.Apply(func(r Region) Region { return r.ClipToRectangle(geom.NewRect(0, 0, 5, 5)) })
	if *clones != 1 {
		t.Errorf("unshared write cloned again: clones = %d", *clones)
	}

	current.Release()
	saved.Release()
	if *releases != 2 {
		t.Errorf("releases = %d, want 2", *releases)
	}
}

func TestRefReleasesWithLastHandle(t *testing.T) {
	region, _, releases := newCounting(geom.NewRect(0, 0, 8, 8))
	a := NewRef(region)
	b := a.Retain()
	a.Release()
	if *releases != 0 {
		t.Fatalf("released while a handle remained")
	}
	if b.Get() == nil {
		t.Fatal("remaining handle lost its region")
	}
	b.Release()
	if *releases != 1 {
		t.Errorf("releases = %d, want 1", *releases)
	}
}

func TestRefApplyToEmpty(t *testing.T) {
	region, _, _ := newCounting(geom.NewRect(0, 0, 8, 8))
	r := NewRef(region)
	r.Apply(func(reg Region) Region { return reg.ClipToRectangle(geom.NewRect(20, 20, 1, 1)) })
	if !r.IsEmpty() {
		t.Errorf("Get() = %v, want empty", r.Get())
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		k    Kind
		want string
	}{
		{KindRectangleList, "rectangle-list"},
		{KindMask, "mask"},
	}
	for _, tt := range tests {
		if got := tt.k.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.k, got, tt.want)
		}
	}
}
