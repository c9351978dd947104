package models

import (
	"encoding/json"
	"sort"
	"strings"
	"time"
)

// Sensor types understood by the dashboard.
const (
	SensorTypeDoor  = "door"
	SensorTypeWater = "water"
)

// Logical field names used in Sensor.Keys.
const (
	FieldOpenState  = "openState"
	FieldWaterState = "waterState"
	FieldTemp       = "temp"
	FieldHumidity   = "humidity"
)

// Sensor is a logical device whose readings live under one or more cache keys.
type Sensor struct {
	DisplayName string            `json:"displayName" validate:"required"`
	Type        string            `json:"type" validate:"required,oneof=door water"`
	Keys        map[string]string `json:"keys" validate:"required,min=1,unique,dive,required"`
}

// Key returns the cache key mapped to a logical field, or "" when unmapped.
func (s Sensor) Key(field string) string {
	return s.Keys[field]
}

// Config is the user-supplied dashboard configuration.
type Config struct {
	CacheEndpointBase string   `json:"cacheEndpointBase,omitempty" validate:"omitempty,url"`
	ProjectID         string   `json:"projectId" validate:"required"`
	CacheName         string   `json:"cacheName" validate:"required"`
	Token             string   `json:"token" validate:"required"`
	RefreshRateMs     int      `json:"refreshRateMs" validate:"gte=0"`
	Sensors           []Sensor `json:"sensors" validate:"dive"`
}

// UnmarshalJSON accepts both the current field names and the older
// ironProjectID / ironCache / ironToken / refreshRateMS spelling.
func (c *Config) UnmarshalJSON(b []byte) error {
	type plain Config
	var aux struct {
		plain
		IronProjectID string `json:"ironProjectID"`
		IronCache     string `json:"ironCache"`
		IronToken     string `json:"ironToken"`
		RefreshRateMS *int   `json:"refreshRateMS"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*c = Config(aux.plain)
	if c.ProjectID == "" {
		c.ProjectID = aux.IronProjectID
	}
	if c.CacheName == "" {
		c.CacheName = aux.IronCache
	}
	if c.Token == "" {
		c.Token = aux.IronToken
	}
	if c.RefreshRateMs == 0 && aux.RefreshRateMS != nil {
		c.RefreshRateMs = *aux.RefreshRateMS
	}
	return nil
}

// RefreshInterval is the poll period; zero means poll once only.
func (c Config) RefreshInterval() time.Duration {
	if c.RefreshRateMs <= 0 {
		return 0
	}
	return time.Duration(c.RefreshRateMs) * time.Millisecond
}

// Endpoint returns the cache API base URL without a trailing slash,
// falling back to def when the config does not name one.
func (c Config) Endpoint(def string) string {
	base := c.CacheEndpointBase
	if base == "" {
		base = def
	}
	return strings.TrimRight(base, "/")
}

// CacheKeys flattens every sensor's key mapping into one list.
// Keys shared between sensors are listed once.
func (c Config) CacheKeys() []string {
	seen := make(map[string]struct{})
	var keys []string
	for _, s := range c.Sensors {
		fields := make([]string, 0, len(s.Keys))
		for f := range s.Keys {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		for _, f := range fields {
			k := s.Keys[f]
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}
	return keys
}
