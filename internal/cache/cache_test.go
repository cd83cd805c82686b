package cache

import (
	"testing"
	"time"
)

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("expected miss on empty cache")
	}

	if err := c.Set("key", []byte("value"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	val, found := c.Get("key")
	if !found || string(val) != "value" {
		t.Errorf("expected hit with 'value', got %q found=%v", val, found)
	}

	if err := c.Delete("key"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, found := c.Get("key"); found {
		t.Error("expected miss after delete")
	}
}

func TestMemoryCache_TTLExpiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	_ = c.Set("short", []byte("x"), 10*time.Millisecond)

	time.Sleep(30 * time.Millisecond)
	if _, found := c.Get("short"); found {
		t.Error("expected entry to expire")
	}
}

func TestDiskCache_Persists(t *testing.T) {
	dir := t.TempDir()

	first := NewDiskCache(dir, time.Hour)
	if err := first.Set("votecast:v1:popvote:abc", []byte("rows"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// A fresh instance over the same directory sees the entry.
	second := NewDiskCache(dir, time.Hour)
	val, found := second.Get("votecast:v1:popvote:abc")
	if !found || string(val) != "rows" {
		t.Errorf("expected persisted hit, got %q found=%v", val, found)
	}
}

func TestDiskCache_ExpiredEntryMisses(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)
	_ = c.Set("key", []byte("x"), 10*time.Millisecond)

	time.Sleep(30 * time.Millisecond)
	if _, found := c.Get("key"); found {
		t.Error("expected expired disk entry to miss")
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()

	// Seed disk directly, then read through a layered cache whose memory
	// layer has never seen the key.
	disk := NewDiskCache(dir, time.Hour)
	_ = disk.Set("key", []byte("value"), time.Hour)

	layered := NewLayeredCache(time.Minute, dir, time.Hour)
	val, found := layered.Get("key")
	if !found || string(val) != "value" {
		t.Fatalf("expected disk hit through layered cache, got %q found=%v", val, found)
	}

	// Promoted entry must now live in the memory layer.
	if _, found := layered.memory.Get("key"); !found {
		t.Error("expected disk hit promoted to memory")
	}
}

func TestLayeredCache_SetWritesBothLayers(t *testing.T) {
	dir := t.TempDir()
	layered := NewLayeredCache(time.Minute, dir, time.Hour)

	if err := layered.Set("key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, found := layered.memory.Get("key"); !found {
		t.Error("expected entry in memory layer")
	}
	if _, found := layered.disk.Get("key"); !found {
		t.Error("expected entry in disk layer")
	}
}

func TestContentKey(t *testing.T) {
	a := ContentKey("popvote", []byte("contents"))
	b := ContentKey("popvote", []byte("contents"))
	if a != b {
		t.Error("identical contents must produce identical keys")
	}
	if a == ContentKey("statevotes", []byte("contents")) {
		t.Error("table name must separate keyspaces")
	}
	if a == ContentKey("popvote", []byte("other")) {
		t.Error("different contents must produce different keys")
	}
}

func TestGetSetTable(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	type row struct {
		State string `json:"state"`
		Votes int    `json:"votes"`
	}

	in := []row{{State: "Ohio", Votes: 17}}
	if err := SetTable(c, "key", in, time.Minute); err != nil {
		t.Fatalf("SetTable: %v", err)
	}

	var out []row
	if !GetTable(c, "key", &out) {
		t.Fatal("expected cached table hit")
	}
	if len(out) != 1 || out[0] != in[0] {
		t.Errorf("round trip lost data: %+v", out)
	}
}

func TestGetSetTable_NilCache(t *testing.T) {
	var out []int
	if GetTable(nil, "key", &out) {
		t.Error("nil cache must always miss")
	}
	if err := SetTable(nil, "key", []int{1}, time.Minute); err != nil {
		t.Errorf("nil cache Set must no-op, got %v", err)
	}
}

func TestGetTable_CorruptEntryDropped(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	_ = c.Set("key", []byte("{not json"), time.Minute)

	var out []int
	if GetTable(c, "key", &out) {
		t.Error("corrupt entry must miss")
	}
	if _, found := c.Get("key"); found {
		t.Error("corrupt entry must be deleted on read")
	}
}
