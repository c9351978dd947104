package models

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func TestConfig_UnmarshalJSON_CurrentNames(t *testing.T) {
	raw := `{
		"cacheEndpointBase": "https://cache.example.com/",
		"projectId": "p1",
		"cacheName": "home",
		"token": "tok",
		"refreshRateMs": 5000,
		"sensors": [{"displayName": "Front Door", "type": "door", "keys": {"openState": "fd_open"}}]
	}`
	var c Config
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if c.ProjectID != "p1" || c.CacheName != "home" || c.Token != "tok" || c.RefreshRateMs != 5000 {
		t.Fatalf("unexpected config: %+v", c)
	}
	if got := c.Endpoint("https://fallback"); got != "https://cache.example.com" {
		t.Fatalf("Endpoint() = %q", got)
	}
	if len(c.Sensors) != 1 || c.Sensors[0].Key(FieldOpenState) != "fd_open" {
		t.Fatalf("unexpected sensors: %+v", c.Sensors)
	}
}

func TestConfig_UnmarshalJSON_LegacyNames(t *testing.T) {
	raw := `{
		"ironProjectID": "legacy-project",
		"ironCache": "legacy-cache",
		"ironToken": "legacy-token",
		"refreshRateMS": 10000,
		"sensors": []
	}`
	var c Config
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if c.ProjectID != "legacy-project" || c.CacheName != "legacy-cache" || c.Token != "legacy-token" {
		t.Fatalf("legacy names not mapped: %+v", c)
	}
	if c.RefreshInterval() != 10*time.Second {
		t.Fatalf("RefreshInterval() = %v", c.RefreshInterval())
	}
	if got := c.Endpoint("https://fallback/"); got != "https://fallback" {
		t.Fatalf("Endpoint() fallback = %q", got)
	}
}

func TestConfig_UnmarshalJSON_Malformed(t *testing.T) {
	var c Config
	if err := json.Unmarshal([]byte(`{"projectId": `), &c); err == nil {
		t.Fatalf("expected error for malformed JSON")
	}
}

func TestConfig_RefreshInterval_ZeroAndNegative(t *testing.T) {
	for _, ms := range []int{0, -5} {
		if got := (Config{RefreshRateMs: ms}).RefreshInterval(); got != 0 {
			t.Fatalf("RefreshInterval(%d) = %v, want 0", ms, got)
		}
	}
}

func TestConfig_CacheKeys_FlattensAndDedupes(t *testing.T) {
	c := Config{Sensors: []Sensor{
		{DisplayName: "Front Door", Type: SensorTypeDoor, Keys: map[string]string{
			FieldOpenState: "A",
			FieldTemp:      "B",
		}},
		{DisplayName: "Crawlspace", Type: SensorTypeWater, Keys: map[string]string{
			FieldWaterState: "C",
			FieldTemp:       "B",
		}},
	}}
	got := c.CacheKeys()
	want := []string{"A", "B", "C"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("CacheKeys() = %v, want %v", got, want)
	}
}

func TestSnapshot_IsZero(t *testing.T) {
	if !(Snapshot{}).IsZero() {
		t.Fatalf("empty snapshot should be zero")
	}
	if (Snapshot{UpdatedAt: time.Now()}).IsZero() {
		t.Fatalf("stamped snapshot should not be zero")
	}
}
