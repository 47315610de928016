package cache

import (
	"testing"
	"time"
)

func TestTTLCacheSetGet(t *testing.T) {
	c := NewTTLCache[string, int]()

	c.Set("a", 1, time.Minute)
	got, ok := c.Get("a")
	if !ok || got != 1 {
		t.Fatalf("expected cached value, got %d %v", got, ok)
	}

	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected miss for unknown key")
	}
}

func TestTTLCacheExpiry(t *testing.T) {
	c := NewTTLCache[string, string]()

	c.Set("k", "v", 10*time.Millisecond)
	time.Sleep(25 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Fatal("expected entry to expire")
	}
}

func TestTTLCacheDelete(t *testing.T) {
	c := NewTTLCache[string, int]()

	c.Set("k", 7, time.Minute)
	c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Fatal("expected entry removed")
	}
}

func TestPremiumCacheRoundTrip(t *testing.T) {
	c := NewPremiumCache()

	if _, ok := c.GetPremium(1); ok {
		t.Fatal("expected miss for unknown user")
	}

	c.SetPremium(1, true)
	premium, ok := c.GetPremium(1)
	if !ok || !premium {
		t.Fatal("expected cached premium flag")
	}

	c.Invalidate(1)
	if _, ok := c.GetPremium(1); ok {
		t.Fatal("expected invalidated entry gone")
	}
}
