package models

// SensorCard is the view model for one rendered sensor.
type SensorCard struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Icon        string `json:"icon"`
	State       string `json:"state"`
	Active      bool   `json:"active"` // door open / water wet
	Temperature string `json:"temperature"`
	Humidity    string `json:"humidity"`
	Age         string `json:"age"`
}

// DashboardView is everything the dashboard page needs.
type DashboardView struct {
	LastUpdated    string       `json:"last_updated"`
	RefreshSeconds int          `json:"refresh_seconds,omitempty"`
	Cards          []SensorCard `json:"cards"`
}
