package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Store drivers.
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

const envPrefix = "HOMEBOY"

// Config is the service-level configuration read from configs/config.yml.
// The dashboard definition itself (sensors, cache credentials) is not here;
// it is submitted by the user and kept in the config store.
type Config struct {
	HTTP      HTTPConfig      `mapstructure:"http"`
	Log       LogConfig       `mapstructure:"log"`
	Store     StoreConfig     `mapstructure:"store"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
}

type HTTPConfig struct {
	Port string `mapstructure:"port"`
	// Token, when set, is required as a bearer token on /api/v1.
	Token string `mapstructure:"token"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type StoreConfig struct {
	Driver string       `mapstructure:"driver"`
	SQLite SQLiteConfig `mapstructure:"sqlite"`
	Redis  RedisConfig  `mapstructure:"redis"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Key      string `mapstructure:"key"`
}

type CacheConfig struct {
	Endpoint       string        `mapstructure:"endpoint"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type DashboardConfig struct {
	SeedFile string `mapstructure:"seed_file"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.port", "8080")
	v.SetDefault("http.token", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("store.driver", DriverSQLite)
	v.SetDefault("store.sqlite.path", "homeboy.db")
	v.SetDefault("store.redis.addr", "localhost:6379")
	v.SetDefault("store.redis.password", "")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.redis.key", "homeboy:config")
	v.SetDefault("cache.endpoint", "https://cache-aws-us-east-1.iron.io")
	v.SetDefault("cache.request_timeout", 0)
	v.SetDefault("dashboard.seed_file", "")
}

// Loader owns the viper instance so the file can be watched after loading.
type Loader struct {
	v *viper.Viper
}

// NewLoader prepares a loader looking for config.yml in the given directories.
func NewLoader(paths ...string) *Loader {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return &Loader{v: v}
}

// NewFileLoader prepares a loader for an explicit file path.
func NewFileLoader(file string) *Loader {
	l := NewLoader()
	l.v.SetConfigFile(file)
	return l
}

// Load reads the config file (a missing file is fine, defaults and env
// still apply) and validates the result.
func (l *Loader) Load() (*Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return l.decode()
}

func (l *Loader) decode() (*Config, error) {
	var c Config
	if err := l.v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// UsedFile is the config file actually read, "" when none was found.
func (l *Loader) UsedFile() string {
	return l.v.ConfigFileUsed()
}

// Watch calls fn with the re-read config whenever the file changes.
// Invalid edits are reported through onErr and otherwise ignored.
func (l *Loader) Watch(fn func(*Config), onErr func(error)) {
	l.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		c, err := l.decode()
		if err != nil {
			if onErr != nil {
				onErr(err)
			}
			return
		}
		fn(c)
	})
	l.v.WatchConfig()
}

// Validate checks the values viper cannot check by type alone.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverSQLite:
		if c.Store.SQLite.Path == "" {
			return errors.New("store.sqlite.path is required for the sqlite driver")
		}
	case DriverRedis:
		if c.Store.Redis.Addr == "" {
			return errors.New("store.redis.addr is required for the redis driver")
		}
		if c.Store.Redis.Key == "" {
			return errors.New("store.redis.key is required for the redis driver")
		}
	default:
		return fmt.Errorf("unknown store.driver %q, expected %q or %q", c.Store.Driver, DriverSQLite, DriverRedis)
	}
	if c.Cache.Endpoint == "" {
		return errors.New("cache.endpoint is required")
	}
	if c.Cache.RequestTimeout < 0 {
		return errors.New("cache.request_timeout must not be negative")
	}
	return nil
}
