package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"homeboy/internal/logger"
	"homeboy/internal/models"
	"homeboy/internal/repository"

	"github.com/go-playground/validator/v10"
)

// ErrNoConfig is returned while the dashboard is still in config-entry mode.
var ErrNoConfig = errors.New("dashboard is not configured")

var errEmptyConfig = errors.New("config is empty")

// ConfigError reports a config blob that could not be parsed or validated.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return "invalid dashboard config: " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Reloader is the part of the poller the config service drives.
type Reloader interface {
	Reload(cfg models.Config)
}

type ConfigService struct {
	repo     repository.ConfigRepo
	poller   Reloader
	validate *validator.Validate
	log      *logger.Logger

	// serialises save and activate so the stored, current and polled
	// configs always agree
	submitMu sync.Mutex

	mu      sync.RWMutex
	current models.Config
	present bool
}

func NewConfigService(repo repository.ConfigRepo, poller Reloader, log *logger.Logger) *ConfigService {
	if log == nil {
		log = logger.Nop()
	}
	return &ConfigService{
		repo:     repo,
		poller:   poller,
		validate: newValidator(),
		log:      log,
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report JSON field names, not Go ones
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Current returns the active config and whether one is present.
func (s *ConfigService) Current() (models.Config, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.present
}

// Load reads the persisted config at startup. It returns false when nothing
// is stored. A stored blob that no longer validates is reported as a
// *ConfigError and leaves the service in config-entry mode.
func (s *ConfigService) Load(ctx context.Context) (bool, error) {
	s.submitMu.Lock()
	defer s.submitMu.Unlock()

	raw, err := s.repo.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("load dashboard config: %w", err)
	}
	if raw == nil {
		s.log.Infow("config_absent", "mode", "config_entry")
		return false, nil
	}
	cfg, err := s.Parse(raw)
	if err != nil {
		return false, err
	}
	s.activate(cfg)
	s.log.Infow("config_loaded", "sensors", len(cfg.Sensors), "refresh_ms", cfg.RefreshRateMs)
	return true, nil
}

// Submit parses, validates and persists a config blob, then switches to
// dashboard mode which triggers an immediate poll. On any error the current
// mode and config are left untouched.
func (s *ConfigService) Submit(ctx context.Context, raw []byte) (models.Config, error) {
	cfg, err := s.Parse(raw)
	if err != nil {
		s.log.Infow("config_rejected", "err", err)
		return models.Config{}, err
	}
	canonical, err := json.Marshal(cfg)
	if err != nil {
		return models.Config{}, fmt.Errorf("encode dashboard config: %w", err)
	}

	s.submitMu.Lock()
	defer s.submitMu.Unlock()
	if err := s.repo.Save(ctx, canonical); err != nil {
		return models.Config{}, fmt.Errorf("save dashboard config: %w", err)
	}
	s.activate(cfg)
	s.log.Infow("config_saved", "sensors", len(cfg.Sensors), "refresh_ms", cfg.RefreshRateMs)
	return cfg, nil
}

// Parse decodes and validates a config blob without side effects.
func (s *ConfigService) Parse(raw []byte) (models.Config, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return models.Config{}, &ConfigError{Err: errEmptyConfig}
	}
	var cfg models.Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return models.Config{}, &ConfigError{Err: err}
	}
	if err := s.validate.Struct(cfg); err != nil {
		return models.Config{}, &ConfigError{Err: describeValidation(err)}
	}
	return cfg, nil
}

func (s *ConfigService) activate(cfg models.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = cfg
	s.present = true
	if s.poller != nil {
		s.poller.Reload(cfg)
	}
}

func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		// drop the leading "Config." namespace
		field := fe.Namespace()
		if i := strings.IndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s]", field, fe.Param()))
		case "unique":
			msgs = append(msgs, field+" must not map two fields to the same cache key")
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must have at least %s entries", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %q", field, fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
