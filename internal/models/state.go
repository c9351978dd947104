package models

import "time"

// SensorState maps a remote cache key to its latest scalar value
// (string or float64, as decoded from the cache API).
type SensorState map[string]any

// Snapshot is the display state produced by one completed poll cycle.
type Snapshot struct {
	Values    SensorState `json:"values"`
	UpdatedAt time.Time   `json:"updated_at"`
	CycleID   string      `json:"cycle_id,omitempty"`
}

// IsZero reports whether no cycle has completed yet.
func (s Snapshot) IsZero() bool {
	return s.UpdatedAt.IsZero()
}

// CacheItem is a single item as returned by the cache API.
type CacheItem struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}
