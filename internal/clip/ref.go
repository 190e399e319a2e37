package clip

import "sync/atomic"

type shared struct {
	region Region
	refs   atomic.Int32
}

// Ref is a counted handle to a Region shared between saved render states.
// Copies of a Ref made with Retain see the same region until one of them
// mutates it: mutation goes through CloneIfShared or Apply, which give the
// mutating handle its own copy first.
//
// The zero Ref is the empty region.
type Ref struct {
	s *shared
}

// NewRef returns a handle owning r. A nil r gives the empty Ref.
func NewRef(r Region) Ref {
	if r == nil {
		return Ref{}
	}
	s := &shared{region: r}
	s.refs.Store(1)
	return Ref{s: s}
}

// Get returns the region, or nil when empty.
func (r Ref) Get() Region {
	if r.s == nil {
		return nil
	}
	return r.s.region
}

// IsEmpty reports whether the handle refers to no region.
func (r Ref) IsEmpty() bool { return r.Get() == nil }

// Shared reports whether another handle refers to the same region.
func (r Ref) Shared() bool {
	return r.s != nil && r.s.refs.Load() > 1
}

// Retain returns a new handle to the same region.
func (r Ref) Retain() Ref {
	if r.s != nil {
		r.s.refs.Add(1)
	}
	return r
}

// Release drops the handle. The region is released with its last handle.
func (r *Ref) Release() {
	if r.s == nil {
		return
	}
	if r.s.refs.Add(-1) == 0 && r.s.region != nil {
		r.s.region.Release()
		r.s.region = nil
	}
	r.s = nil
}

// CloneIfShared makes the handle the sole owner of its region, cloning it
// if other handles share it, and returns the region. A failed clone
// leaves the handle empty.
func (r *Ref) CloneIfShared() Region {
	if !r.Shared() {
		return r.Get()
	}
	c := r.s.region.Clone()
	r.Release()
	*r = NewRef(c)
	return c
}

// Set replaces the region of an unshared handle. Operations on a Region
// return its replacement; Set stores it.
func (r *Ref) Set(region Region) {
	if !contract(!r.Shared(), "Set on a shared clip region") {
		r.Release()
		*r = NewRef(region)
		return
	}
	if region == nil {
		if r.s != nil {
			r.s.region = nil
			r.s = nil
		}
		return
	}
	if r.s == nil {
		*r = NewRef(region)
		return
	}
	r.s.region = region
}

// Apply runs op on a region owned only by this handle and stores the
// result.
func (r *Ref) Apply(op func(Region) Region) {
	region := r.CloneIfShared()
	if region == nil {
		return
	}
	r.Set(op(region))
}
