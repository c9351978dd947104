package service

import (
	"time"

	"homeboy/internal/models"
)

// Icon file names served under /static/img.
const (
	IconDoorOpen   = "open-door.svg"
	IconDoorClosed = "closed-door.svg"
	IconWet        = "wet.svg"
	IconDry        = "dry.svg"
)

type sensorRenderer interface {
	render(s models.Sensor, st models.SensorState) models.SensorCard
}

// binarySensor covers sensors with a two-valued state key: door
// (open/closed) and water (wet/dry).
type binarySensor struct {
	stateField   string
	defaultState string
	activeState  string
	activeIcon   string
	idleIcon     string
}

func (b binarySensor) render(s models.Sensor, st models.SensorState) models.SensorCard {
	state := stateLabel(lookup(st, s, b.stateField), b.defaultState)
	active := state == b.activeState
	icon := b.idleIcon
	if active {
		icon = b.activeIcon
	}
	return models.SensorCard{
		Name:        s.DisplayName,
		Type:        s.Type,
		Icon:        icon,
		State:       state,
		Active:      active,
		Temperature: FormatReading(lookup(st, s, models.FieldTemp)),
		Humidity:    FormatReading(lookup(st, s, models.FieldHumidity)),
	}
}

var renderers = map[string]sensorRenderer{
	models.SensorTypeDoor: binarySensor{
		stateField:   models.FieldOpenState,
		defaultState: "closed",
		activeState:  "open",
		activeIcon:   IconDoorOpen,
		idleIcon:     IconDoorClosed,
	},
	models.SensorTypeWater: binarySensor{
		stateField:   models.FieldWaterState,
		defaultState: "dry",
		activeState:  "wet",
		activeIcon:   IconWet,
		idleIcon:     IconDry,
	},
}

func lookup(st models.SensorState, s models.Sensor, field string) any {
	key := s.Key(field)
	if key == "" {
		return nil
	}
	return st[key]
}

// RenderSensor builds the card for one sensor. ok is false for sensor types
// the dashboard does not know how to draw.
func RenderSensor(s models.Sensor, st models.SensorState) (models.SensorCard, bool) {
	r, ok := renderers[s.Type]
	if !ok {
		return models.SensorCard{}, false
	}
	return r.render(s, st), true
}

// BuildView maps the config's sensors and a snapshot onto the dashboard view.
func BuildView(cfg models.Config, snap models.Snapshot, now time.Time, loc *time.Location) models.DashboardView {
	if loc == nil {
		loc = time.UTC
	}
	updated := snap.UpdatedAt
	if !updated.IsZero() {
		updated = updated.In(loc)
	}
	age := FormatAge(snap.UpdatedAt, now)

	view := models.DashboardView{
		LastUpdated:    FormatTimestamp(updated),
		RefreshSeconds: refreshSeconds(cfg.RefreshInterval()),
		Cards:          make([]models.SensorCard, 0, len(cfg.Sensors)),
	}
	for _, s := range cfg.Sensors {
		card, ok := RenderSensor(s, snap.Values)
		if !ok {
			continue
		}
		card.Age = age
		view.Cards = append(view.Cards, card)
	}
	return view
}

func refreshSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	secs := int((d + time.Second - 1) / time.Second)
	return max(secs, 1)
}

// DashboardService renders the current config and state.
type DashboardService struct {
	configs interface {
		Current() (models.Config, bool)
	}
	state *StateStore
	now   func() time.Time
	loc   *time.Location
}

func NewDashboardService(configs interface{ Current() (models.Config, bool) }, state *StateStore) *DashboardService {
	return &DashboardService{
		configs: configs,
		state:   state,
		now:     time.Now,
		loc:     time.Local,
	}
}

func (s *DashboardService) Snapshot() models.Snapshot {
	return s.state.Snapshot()
}

// View returns ErrNoConfig while in config-entry mode.
func (s *DashboardService) View() (models.DashboardView, error) {
	cfg, ok := s.configs.Current()
	if !ok {
		return models.DashboardView{}, ErrNoConfig
	}
	return BuildView(cfg, s.state.Snapshot(), s.now(), s.loc), nil
}
