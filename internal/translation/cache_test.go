package translation

import "testing"

func TestFIFOCacheEvictsOldestInserted(t *testing.T) {
	t.Parallel()

	cache := newFIFOCache[string, int](3)
	cache.Put("a", 1)
	cache.Put("b", 2)
	cache.Put("c", 3)
	cache.Put("d", 4)

	if _, ok := cache.Get("a"); ok {
		t.Fatalf("expected oldest entry a to be evicted")
	}
	for _, key := range []string{"b", "c", "d"} {
		if _, ok := cache.Get(key); !ok {
			t.Fatalf("expected key %q to survive", key)
		}
	}
	if got := cache.Len(); got != 3 {
		t.Fatalf("unexpected cache size: %d", got)
	}
}

func TestFIFOCacheGetDoesNotPromote(t *testing.T) {
	t.Parallel()

	cache := newFIFOCache[string, int](2)
	cache.Put("a", 1)
	cache.Put("b", 2)

	// Reading a repeatedly must not save it from eviction.
	for i := 0; i < 5; i++ {
		if _, ok := cache.Get("a"); !ok {
			t.Fatalf("expected a to be present before overflow")
		}
	}
	cache.Put("c", 3)

	if _, ok := cache.Get("a"); ok {
		t.Fatalf("expected a to be evicted despite recent reads")
	}
	if _, ok := cache.Get("b"); !ok {
		t.Fatalf("expected b to survive")
	}
}

func TestFIFOCacheOverwriteKeepsPosition(t *testing.T) {
	t.Parallel()

	cache := newFIFOCache[string, int](2)
	cache.Put("a", 1)
	cache.Put("b", 2)
	cache.Put("a", 10)

	if got, ok := cache.Get("a"); !ok || got != 10 {
		t.Fatalf("expected overwritten value 10, got %d (present=%v)", got, ok)
	}
	if got := cache.Len(); got != 2 {
		t.Fatalf("overwrite must not grow the cache, size=%d", got)
	}

	// a kept its original slot, so it is still the oldest.
	cache.Put("c", 3)
	if _, ok := cache.Get("a"); ok {
		t.Fatalf("expected a to be evicted first after overwrite")
	}
	if _, ok := cache.Get("b"); !ok {
		t.Fatalf("expected b to survive")
	}
}

func TestFIFOCacheNeverExceedsCapacity(t *testing.T) {
	t.Parallel()

	cache := newFIFOCache[int, int](16)
	for i := 0; i < 200; i++ {
		cache.Put(i, i)
		if got := cache.Len(); got > 16 {
			t.Fatalf("cache size %d exceeded capacity after insert %d", got, i)
		}
	}
	if got := cache.Len(); got != 16 {
		t.Fatalf("expected full cache, size=%d", got)
	}
}
