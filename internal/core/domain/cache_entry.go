package domain

import "time"

// CacheEntry describes the tree last stored under a cache key.
type CacheEntry struct {
	Key      string    `json:"key,omitzero"`
	StoredAt time.Time `json:"stored_at,omitzero"`
	Files    int       `json:"files,omitzero"`
	Digest   string    `json:"digest,omitzero"`
}
