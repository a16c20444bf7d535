package cache

import (
	"strings"
	"testing"
	"time"

	"github.com/kodhane/mevra/internal/model"
)

func TestSearchKey_Deterministic(t *testing.T) {
	filters := model.Filters{Kind: model.KindStatute}

	k1 := SearchKey("iş kanunu", filters, 1, 10)
	k2 := SearchKey("iş kanunu", filters, 1, 10)

	if k1 != k2 {
		t.Errorf("Expected identical keys, got %s and %s", k1, k2)
	}

	if !strings.HasPrefix(k1, "mevra:v1:") {
		t.Errorf("Expected versioned key prefix, got %s", k1)
	}
}

func TestSearchKey_DiscriminatesPageAndFilters(t *testing.T) {
	base := SearchKey("iş kanunu", model.Filters{}, 1, 10)

	if SearchKey("iş kanunu", model.Filters{}, 2, 10) == base {
		t.Error("Expected different keys for different pages")
	}
	if SearchKey("iş kanunu", model.Filters{}, 1, 20) == base {
		t.Error("Expected different keys for different page sizes")
	}
	if SearchKey("iş kanunu", model.Filters{Kind: model.KindArticle}, 1, 10) == base {
		t.Error("Expected different keys for different filters")
	}
	if SearchKey("borçlar kanunu", model.Filters{}, 1, 10) == base {
		t.Error("Expected different keys for different queries")
	}
}

func TestLiveKey_SourceDiscriminator(t *testing.T) {
	if LiveKey("iş kanunu", "direct") == LiveKey("iş kanunu", "session") {
		t.Error("Expected different keys for different sources")
	}
}

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache(1 * time.Minute)

	if err := c.Set("key1", []byte("value1"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, found := c.Get("key1")
	if !found {
		t.Fatal("Expected to find key1")
	}
	if string(val) != "value1" {
		t.Errorf("Expected value1, got %s", val)
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(1 * time.Minute)

	if err := c.Set("key1", []byte("value1"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	if _, found := c.Get("key1"); found {
		t.Error("Expected expired entry to be a miss")
	}
}

func TestMemoryCache_CopiesValues(t *testing.T) {
	c := NewMemoryCache(1 * time.Minute)

	original := []byte("value1")
	_ = c.Set("key1", original, 0)
	original[0] = 'X'

	val, found := c.Get("key1")
	if !found {
		t.Fatal("Expected to find key1")
	}
	if string(val) != "value1" {
		t.Errorf("Cached entry changed with the caller's slice: %s", val)
	}

	val[0] = 'Y'
	again, _ := c.Get("key1")
	if string(again) != "value1" {
		t.Errorf("Cached entry changed with a returned slice: %s", again)
	}
}

func TestMemoryCache_Delete(t *testing.T) {
	c := NewMemoryCache(1 * time.Minute)

	_ = c.Set("key1", []byte("value1"), 0)
	if err := c.Delete("key1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, found := c.Get("key1"); found {
		t.Error("Expected deleted entry to be a miss")
	}
}

func TestDiskCache_SetGet(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, 1*time.Minute)

	if err := c.Set("key1", []byte("value1"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, found := c.Get("key1")
	if !found {
		t.Fatal("Expected to find key1")
	}
	if string(val) != "value1" {
		t.Errorf("Expected value1, got %s", val)
	}
}

func TestDiskCache_LazyEviction(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, 1*time.Minute)

	if err := c.Set("key1", []byte("value1"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	if _, found := c.Get("key1"); found {
		t.Error("Expected expired entry to be a miss")
	}

	// A second read should also miss: the file was evicted on first read.
	if _, found := c.Get("key1"); found {
		t.Error("Expected evicted entry to stay gone")
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(1*time.Minute, dir, 1*time.Minute)

	if err := c.Set("key1", []byte("value1"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// Drop the memory layer, keep disk.
	_ = c.memory.Clear()

	val, found := c.Get("key1")
	if !found {
		t.Fatal("Expected disk hit after memory clear")
	}
	if string(val) != "value1" {
		t.Errorf("Expected value1, got %s", val)
	}

	// Now the entry should be back in memory.
	if _, found := c.memory.Get("key1"); !found {
		t.Error("Expected disk hit to be promoted to memory")
	}
}

func TestLayeredCache_MemoryOnly(t *testing.T) {
	c := NewLayeredCache(1*time.Minute, "", 1*time.Minute)

	if err := c.Set("key1", []byte("value1"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if _, found := c.Get("key1"); !found {
		t.Error("Expected memory-only cache to serve the entry")
	}
}
