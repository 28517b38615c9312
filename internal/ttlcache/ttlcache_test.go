package ttlcache

import (
	"testing"
	"time"
)

func TestSetThenGet(t *testing.T) {
	c := New(time.Hour)
	c.Set("k", "v")
	got, ok := c.Get("k")
	if !ok {
		t.Fatal("expected hit immediately after set")
	}
	if got != "v" {
		t.Fatalf("expected %q, got %v", "v", got)
	}
}

func TestGetMissing(t *testing.T) {
	c := New(time.Hour)
	if _, ok := c.Get("absent"); ok {
		t.Fatal("expected miss for unknown key")
	}
}

func TestSetOverwrites(t *testing.T) {
	c := New(time.Hour)
	c.Set("k", 1)
	c.Set("k", 2)
	got, ok := c.Get("k")
	if !ok || got != 2 {
		t.Fatalf("expected overwritten value 2, got %v (ok=%v)", got, ok)
	}
}

func TestExpiredEntryDeletedOnRead(t *testing.T) {
	c := New(10 * time.Millisecond)
	c.Set("k", "v")
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Fatal("expected miss after TTL elapsed")
	}

	c.mu.Lock()
	_, present := c.entries["k"]
	c.mu.Unlock()
	if present {
		t.Fatal("expected expired entry to be removed from storage")
	}
}

func TestKeyStable(t *testing.T) {
	a := Key("unified_detail", "jikan", "20")
	b := Key("unified_detail", "jikan", "20")
	if a != b {
		t.Fatalf("expected deterministic key, got %q vs %q", a, b)
	}
	if a == Key("unified_detail", "jikan", "21") {
		t.Fatal("expected distinct keys for distinct parts")
	}
}
