package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type countingObserver struct {
	mu           sync.Mutex
	hits, misses int
}

func (o *countingObserver) CacheHit(string) {
	o.mu.Lock()
	o.hits++
	o.mu.Unlock()
}

func (o *countingObserver) CacheMiss(string) {
	o.mu.Lock()
	o.misses++
	o.mu.Unlock()
}

func TestCache_GetSetInvalidate(t *testing.T) {
	obs := &countingObserver{}
	c := New[int](0, obs)

	if _, ok := c.Get("a"); ok {
		t.Fatal("empty cache returned a value")
	}
	c.Set("a", 1)
	c.Set("b", 2)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %v, %v", v, ok)
	}

	c.Invalidate("a", "missing")
	if _, ok := c.Get("a"); ok {
		t.Error("a should be gone after Invalidate")
	}
	if _, ok := c.Get("b"); !ok {
		t.Error("b should survive invalidating a")
	}

	if obs.hits != 2 || obs.misses != 2 {
		t.Errorf("hits/misses = %d/%d, want 2/2", obs.hits, obs.misses)
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len after Clear = %d", c.Len())
	}
}

func TestCache_Expiry(t *testing.T) {
	c := New[string](time.Minute, nil)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set("k", "v")
	now = now.Add(59 * time.Second)
	if _, ok := c.Get("k"); !ok {
		t.Fatal("entry expired early")
	}

	now = now.Add(2 * time.Second)
	if _, ok := c.Get("k"); ok {
		t.Error("entry should have expired")
	}
	if c.Len() != 0 {
		t.Error("expired entry was not removed")
	}
}

func TestFetch(t *testing.T) {
	c := New[any](0, nil)
	calls := 0
	load := func(context.Context) ([]string, error) {
		calls++
		return []string{"x"}, nil
	}

	for i := 0; i < 3; i++ {
		v, err := Fetch(context.Background(), c, EventsKey(), load)
		if err != nil || len(v) != 1 {
			t.Fatalf("Fetch = %v, %v", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("loader called %d times, want 1", calls)
	}

	c.Invalidate(EventsKey())
	if _, err := Fetch(context.Background(), c, EventsKey(), load); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("loader called %d times after invalidation, want 2", calls)
	}
}

func TestFetch_ErrorNotCached(t *testing.T) {
	c := New[any](0, nil)
	boom := errors.New("boom")

	_, err := Fetch(context.Background(), c, "k", func(context.Context) (int, error) { return 0, boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if c.Len() != 0 {
		t.Error("failed load should not be stored")
	}
}

func TestFetch_InvalidatedDuringLoadIsNotStored(t *testing.T) {
	c := New[any](0, nil)
	key := TracksKey("e1")

	v, err := Fetch(context.Background(), c, key, func(context.Context) (string, error) {
		// a write lands while the read is in flight
		c.Invalidate(key)
		return "before-write", nil
	})
	if err != nil || v != "before-write" {
		t.Fatalf("Fetch = %q, %v", v, err)
	}

	calls := 0
	v, err = Fetch(context.Background(), c, key, func(context.Context) (string, error) {
		calls++
		return "after-write", nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if calls != 1 || v != "after-write" {
		t.Errorf("stale value survived invalidation: %q (loader calls %d)", v, calls)
	}

	// the fresh load is cached again
	if got, _ := Fetch(context.Background(), c, key, func(context.Context) (string, error) { return "reload", nil }); got != "after-write" {
		t.Errorf("third Fetch = %q, want cached after-write", got)
	}
}

func TestFetch_PrefixInvalidatedDuringLoadIsNotStored(t *testing.T) {
	c := New[any](0, nil)
	key := ParticipantsKey("e1")

	if _, err := Fetch(context.Background(), c, key, func(context.Context) (int, error) {
		c.InvalidatePrefix(ParticipantsPrefix)
		return 1, nil
	}); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get(key); ok {
		t.Error("value loaded before InvalidatePrefix was stored")
	}
}

func TestCache_SetIfGeneration(t *testing.T) {
	c := New[int](0, nil)

	gen := c.Generation("k")
	if !c.SetIfGeneration("k", 1, gen) {
		t.Fatal("store with current generation refused")
	}

	c.Invalidate("k")
	if c.SetIfGeneration("k", 2, gen) {
		t.Error("store with an old generation accepted")
	}
	if _, ok := c.Get("k"); ok {
		t.Error("old-generation value is visible")
	}

	gen = c.Generation("k")
	c.Clear()
	if c.SetIfGeneration("k", 3, gen) {
		t.Error("store across Clear accepted")
	}
}

func TestCache_InvalidatePrefix(t *testing.T) {
	c := New[int](0, nil)
	c.Set(ParticipantsKey("e1"), 1)
	c.Set(ParticipantsKey("e2"), 2)
	c.Set(MarkersKey("e1"), 3)

	c.InvalidatePrefix(ParticipantsPrefix)

	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
	if _, ok := c.Get(MarkersKey("e1")); !ok {
		t.Error("markers key should survive")
	}
}

func TestEventKeys(t *testing.T) {
	keys := EventKeys("e1")
	want := map[string]bool{
		"missing_persons:e1": true,
		"participants:e1":    true,
		"markers:e1":         true,
		"tracks:e1":          true,
	}
	if len(keys) != len(want) {
		t.Fatalf("EventKeys = %v", keys)
	}
	for _, k := range keys {
		if !want[k] {
			t.Errorf("unexpected key %q", k)
		}
	}
}
