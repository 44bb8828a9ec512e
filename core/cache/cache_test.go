package cache

import (
	"testing"
	"time"
)

func TestCache_SetGet(t *testing.T) {
	c := NewCache()
	c.Set("k", "v", 60, nil)
	got, ok := c.Get("k")
	if !ok || got != "v" {
		t.Errorf("Get = %v, %v; want v, true", got, ok)
	}
}

func TestCache_GetMissing(t *testing.T) {
	c := NewCache()
	if _, ok := c.Get("nope"); ok {
		t.Error("expected miss for unknown key")
	}
}

func TestCache_Expiry(t *testing.T) {
	c := NewCache()
	c.Set("k", "v", 1, nil)
	if _, ok := c.Get("k"); !ok {
		t.Fatal("entry should be live before TTL")
	}
	time.Sleep(1100 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Error("entry should have expired")
	}
}

func TestCache_Delete(t *testing.T) {
	c := NewCache()
	c.Set("k", "v", 60, nil)
	c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Error("entry should be gone after Delete")
	}
}

func TestCache_CompositeKeys(t *testing.T) {
	c := NewCache()
	c.SetN([]interface{}{"stock", uint(7)}, "rec7", 60, nil)
	got, ok := c.GetN("stock", uint(7))
	if !ok || got != "rec7" {
		t.Errorf("GetN = %v, %v; want rec7, true", got, ok)
	}
	c.DeleteN("stock", uint(7))
	if _, ok := c.GetN("stock", uint(7)); ok {
		t.Error("entry should be gone after DeleteN")
	}
}

func TestCache_DeleteByTag(t *testing.T) {
	c := NewCache()
	c.Set("a", 1, 60, []string{"stock_record:1"})
	c.Set("b", 2, 60, []string{"stock_record:1", "stock_record:2"})
	c.Set("c", 3, 60, []string{"stock_record:2"})

	c.DeleteByTag("stock_record:1")

	if _, ok := c.Get("a"); ok {
		t.Error("a should be invalidated by tag")
	}
	if _, ok := c.Get("b"); ok {
		t.Error("b should be invalidated by tag")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("c should survive, different tag")
	}
}

func TestCache_Flush(t *testing.T) {
	c := NewCache()
	c.Set("a", 1, 60, []string{"t"})
	c.Set("b", 2, 60, nil)
	c.Flush()
	if _, ok := c.Get("a"); ok {
		t.Error("a should be gone after Flush")
	}
	if _, ok := c.Get("b"); ok {
		t.Error("b should be gone after Flush")
	}
	if keys := c.GetKeysByTag("t"); len(keys) != 0 {
		t.Errorf("tag index should be empty after Flush, got %d keys", len(keys))
	}
}

func TestCache_GetInstance_Singleton(t *testing.T) {
	if GetInstance() != GetInstance() {
		t.Error("GetInstance should return the same instance")
	}
}
