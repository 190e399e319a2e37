package registry

import (
	"errors"
	"sync"
	"testing"
)

type object struct {
	name     string
	released *[]string
}

func (o *object) Release() { *o.released = append(*o.released, o.name) }

func TestReleaseAllReverseOrder(t *testing.T) {
	var released []string
	r := New()
	for _, n := range []string{"a", "b", "c"} {
		r.Set(n, &object{name: n, released: &released})
	}
	r.ReleaseAll()

	want := []string{"c", "b", "a"}
	if len(released) != len(want) {
		t.Fatalf("released = %v, want %v", released, want)
	}
	for i := range want {
		if released[i] != want[i] {
			t.Errorf("released = %v, want %v", released, want)
			break
		}
	}
	if r.Len() != 0 {
		t.Errorf("Len() after ReleaseAll = %d, want 0", r.Len())
	}
}

func TestSetReplacesAndReleases(t *testing.T) {
	var released []string
	r := New()
	first := &object{name: "first", released: &released}
	r.Set("x", first)
	r.Set("x", first)
	if len(released) != 0 {
		t.Fatalf("re-registering the same object released it")
	}
	r.Set("x", &object{name: "second", released: &released})
	if len(released) != 1 || released[0] != "first" {
		t.Errorf("released = %v, want [first]", released)
	}
	r.Set("x", nil)
	if _, ok := r.Get("x"); ok {
		t.Error("Set(nil) left the entry")
	}
	if len(released) != 2 {
		t.Errorf("released = %v, want both objects", released)
	}
}

func TestGetOrCreate(t *testing.T) {
	var released []string
	r := New()
	calls := 0
	create := func() (Object, error) {
		calls++
		return &object{name: "lib", released: &released}, nil
	}
	a, err := r.GetOrCreate(ShaderLibrary, create)
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	b, _ := r.GetOrCreate(ShaderLibrary, create)
	if a != b || calls != 1 {
		t.Errorf("GetOrCreate() created %d objects, want 1", calls)
	}

	errBoom := errors.New("boom")
	if _, err := r.GetOrCreate("bad", func() (Object, error) { return nil, errBoom }); !errors.Is(err, errBoom) {
		t.Errorf("GetOrCreate() error = %v, want %v", err, errBoom)
	}
	if _, ok := r.Get("bad"); ok {
		t.Error("failed create was registered")
	}
}

func TestRemoveDoesNotRelease(t *testing.T) {
	var released []string
	r := New()
	r.Set("a", &object{name: "a", released: &released})
	o, ok := r.Remove("a")
	if !ok || o == nil {
		t.Fatal("Remove() did not return the object")
	}
	r.ReleaseAll()
	if len(released) != 0 {
		t.Errorf("released = %v, want none", released)
	}
	if _, ok := r.Remove("a"); ok {
		t.Error("second Remove() found the object")
	}
}

func TestConcurrentGetOrCreate(t *testing.T) {
	r := New()
	var mu sync.Mutex
	calls := 0
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = r.GetOrCreate(GlyphCache, func() (Object, error) {
				mu.Lock()
				calls++
				mu.Unlock()
				return &Value[int]{V: 1}, nil
			})
		}()
	}
	wg.Wait()
	if calls != 1 {
		t.Errorf("create ran %d times, want 1", calls)
	}
}
