package cache

import (
	"testing"
	"time"
)

func TestLRUGetSet(t *testing.T) {
	c := NewLRUCache[[]string](2, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Fatal("empty cache should miss")
	}

	c.Set("a", []string{"Astra"})
	got, ok := c.Get("a")
	if !ok || len(got) != 1 || got[0] != "Astra" {
		t.Fatalf("unexpected hit: %v %v", got, ok)
	}
}

func TestLRUEvictsOldest(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	if _, ok := c.Get("a"); ok {
		t.Fatal("oldest entry should have been evicted")
	}
	if c.Size() != 2 {
		t.Fatalf("expected size 2, got %d", c.Size())
	}
}

func TestLRUTTLExpiry(t *testing.T) {
	c := NewLRUCache[int](10, time.Nanosecond)
	c.Set("a", 1)
	time.Sleep(time.Millisecond)

	if _, ok := c.Get("a"); ok {
		t.Fatal("expired entry should miss")
	}
}

func TestLRUPurge(t *testing.T) {
	c := NewLRUCache[int](10, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Purge()

	if c.Size() != 0 {
		t.Fatalf("purge left %d entries", c.Size())
	}
	if _, ok := c.Get("a"); ok {
		t.Fatal("purged entry should miss")
	}
}
