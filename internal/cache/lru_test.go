package cache

import (
	"testing"
	"time"
)

func TestGetAndSet(t *testing.T) {
	c := NewLRUCache[string](10, time.Minute)
	c.Set("k", "v")

	got, ok := c.Get("k")
	if !ok || got != "v" {
		t.Fatalf("got %q, %v", got, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Fatalf("expected miss")
	}
}

func TestTakeIsOneShot(t *testing.T) {
	c := NewLRUCache[string](10, time.Minute)
	c.Set("confirm", "armed")

	got, ok := c.Take("confirm")
	if !ok || got != "armed" {
		t.Fatalf("first take failed: %q, %v", got, ok)
	}
	if _, ok := c.Take("confirm"); ok {
		t.Fatalf("second take should miss")
	}
}

func TestTTLExpiry(t *testing.T) {
	c := NewLRUCache[string](10, 10*time.Millisecond)
	c.Set("k", "v")

	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected expired entry to miss")
	}

	c.Set("t", "v")
	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Take("t"); ok {
		t.Fatalf("Take should treat expired entries as absent")
	}
}

func TestLRUEviction(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // refresh a
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatalf("b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatalf("a should survive")
	}
	if _, ok := c.Get("c"); !ok {
		t.Fatalf("c should be present")
	}
}

func TestCleanExpired(t *testing.T) {
	c := NewLRUCache[int](10, 10*time.Millisecond)
	c.Set("a", 1)
	c.Set("b", 2)
	time.Sleep(20 * time.Millisecond)
	c.Set("fresh", 3)

	if removed := c.CleanExpired(); removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
	if _, ok := c.Get("fresh"); !ok {
		t.Fatalf("fresh entry should remain")
	}
}
