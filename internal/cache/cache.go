package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Cache defines the interface for caching parsed tables
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// ContentKey derives a cache key from raw file contents, so a re-run over an
// edited input file never sees stale parsed rows.
func ContentKey(table string, contents []byte) string {
	hash := sha256.Sum256(contents)
	return "votecast:v1:" + table + ":" + hex.EncodeToString(hash[:])
}

// GetTable decodes a cached table of rows into dst (a pointer to a slice).
func GetTable(c Cache, key string, dst interface{}) bool {
	if c == nil {
		return false
	}
	data, found := c.Get(key)
	if !found {
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		// Corrupt entry, drop it and reparse
		_ = c.Delete(key)
		return false
	}
	return true
}

// SetTable encodes a table of rows and stores it under key.
func SetTable(c Cache, key string, rows interface{}, ttl time.Duration) error {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("marshal table: %w", err)
	}
	return c.Set(key, data, ttl)
}
