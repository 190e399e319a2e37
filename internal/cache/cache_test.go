package cache

import (
	"strconv"
	"testing"
)

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	var evicted []string
	c := New[string, int](2, func(k string, _ int) { evicted = append(evicted, k) })

	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a")
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("Get(b) found an entry that should have been evicted")
	}
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %v, %v, want 1, true", v, ok)
	}
	if len(evicted) != 1 || evicted[0] != "b" {
		t.Errorf("evicted = %v, want [b]", evicted)
	}
}

func TestCache_SetReplacesAndEvictsOldValue(t *testing.T) {
	var evicted []int
	c := New[string, int](4, func(_ string, v int) { evicted = append(evicted, v) })
	c.Set("k", 1)
	c.Set("k", 2)

	if v, _ := c.Get("k"); v != 2 {
		t.Errorf("Get(k) = %d, want 2", v)
	}
	if len(evicted) != 1 || evicted[0] != 1 {
		t.Errorf("evicted = %v, want [1]", evicted)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestCache_GetOrCreate(t *testing.T) {
	c := New[string, int](0, nil)
	calls := 0
	create := func() int { calls++; return 7 }

	for i := 0; i < 3; i++ {
		if v := c.GetOrCreate("x", create); v != 7 {
			t.Fatalf("GetOrCreate() = %d, want 7", v)
		}
	}
	if calls != 1 {
		t.Errorf("create called %d times, want 1", calls)
	}
	s := c.Stats()
	if s.Hits != 2 || s.Misses != 1 {
		t.Errorf("Stats() hits/misses = %d/%d, want 2/1", s.Hits, s.Misses)
	}
}

func TestCache_ClearAndDelete(t *testing.T) {
	released := 0
	c := New[int, int](0, func(int, int) { released++ })
	for i := 0; i < 5; i++ {
		c.Set(i, i)
	}
	if !c.Delete(3) {
		t.Error("Delete(3) = false, want true")
	}
	if c.Delete(3) {
		t.Error("second Delete(3) = true, want false")
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", c.Len())
	}
	if released != 5 {
		t.Errorf("eviction callback ran %d times, want 5", released)
	}
}

func BenchmarkCacheGet(b *testing.B) {
	c := New[string, int](1000, nil)
	for i := 0; i < 100; i++ {
		c.Set(strconv.Itoa(i), i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get("50")
	}
}

func BenchmarkCacheSet(b *testing.B) {
	c := New[string, int](64, nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Set(strconv.Itoa(i%100), i)
	}
}
