// Package registry holds the objects associated with one native GL
// context.
//
// Shader libraries, gradient caches and glyph caches are expensive to
// build and are shared by every graphics context drawing on the same GL
// context. Each native context owns one Registry; its objects are released
// together, newest first, when the native context is torn down while it is
// still current.
package registry

import (
	"sync"
)

// Object is something a registry can own.
type Object interface {
	Release()
}

// Well-known names of shared objects.
const (
	ShaderLibrary      = "glcanvas.shaderLibrary"
	GradientCache      = "glcanvas.gradientCache"
	ImageCache         = "glcanvas.imageCache"
	GlyphCache         = "glcanvas.glyphCache"
	ContextKind        = "glcanvas.contextKind"
	BackingFramebuffer = "glcanvas.backingFramebuffer"
)

// Registry maps names to objects. It is safe for concurrent use.
type Registry struct {
	mu      sync.Mutex
	objects map[string]Object
	order   []string
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{objects: make(map[string]Object)}
}

// Get returns the object registered under name.
func (r *Registry) Get(name string) (Object, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.objects[name]
	return o, ok
}

// Set registers o under name, releasing any object it replaces. A nil o
// removes the entry.
func (r *Registry) Set(name string, o Object) {
	r.mu.Lock()
	old, ok := r.objects[name]
	if o == nil {
		r.remove(name)
	} else {
		if !ok {
			r.order = append(r.order, name)
		}
		r.objects[name] = o
	}
	r.mu.Unlock()

	if ok && old != o {
		old.Release()
	}
}

// GetOrCreate returns the object registered under name, creating and
// registering it first if absent. create runs under the registry lock and
// must not call back into the registry. If create fails nothing is
// registered.
func (r *Registry) GetOrCreate(name string, create func() (Object, error)) (Object, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o, ok := r.objects[name]; ok {
		return o, nil
	}
	o, err := create()
	if err != nil {
		return nil, err
	}
	r.objects[name] = o
	r.order = append(r.order, name)
	return o, nil
}

// Remove unregisters name and returns its object without releasing it.
func (r *Registry) Remove(name string) (Object, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.objects[name]
	if ok {
		r.remove(name)
	}
	return o, ok
}

func (r *Registry) remove(name string) {
	delete(r.objects, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of registered objects.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.objects)
}

// ReleaseAll releases every object in reverse registration order and
// empties the registry.
func (r *Registry) ReleaseAll() {
	r.mu.Lock()
	order, objects := r.order, r.objects
	r.order, r.objects = nil, make(map[string]Object)
	r.mu.Unlock()

	for i := len(order) - 1; i >= 0; i-- {
		objects[order[i]].Release()
	}
}

// Value wraps a plain value so it can be registered. Releasing it does
// nothing.
type Value[T any] struct {
	V T
}

// Release implements Object.
func (Value[T]) Release() {}
