package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sagarc03/vdisk"
	"github.com/sagarc03/vdisk/database"
	vdiskhttp "github.com/sagarc03/vdisk/http"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "VDISK"

// configKey is the context key for storing the loaded configuration.
type configKey struct{}

// WithContext returns a new context with the config stored.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from context.
// Returns an error if config is not found.
func FromContext(ctx context.Context) (*Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*Config)
	if !ok || cfg == nil {
		return nil, errors.New("config not found in context")
	}
	return cfg, nil
}

// Config is the root configuration struct for vdisk.
type Config struct {
	Server ServerConfig         `mapstructure:"server"`
	Disks  []vdisk.Disk         `mapstructure:"disks" validate:"dive"`
	Stats  database.Config      `mapstructure:"stats"`
	CORS   vdiskhttp.CORSConfig `mapstructure:"cors"`
	Log    LogConfig            `mapstructure:"log"`
	Env    string               `mapstructure:"env"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	BasePath        string `mapstructure:"base_path" validate:"required,startswith=/"`
	IndexPath       string `mapstructure:"index_path" validate:"required,startswith=/"`
	StaticDir       string `mapstructure:"static_dir"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" validate:"min=1"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// IsProd reports whether the configured environment is production.
func (c *Config) IsProd() bool {
	return c.Env == "prod" || c.Env == "production"
}

// flagToViperKey maps CLI flag names to viper configuration keys.
var flagToViperKey = map[string]string{
	"stats-type":  "stats.type",
	"stats-dsn":   "stats.dsn",
	"port":        "server.port",
	"base-path":   "server.base_path",
	"index-path":  "server.index_path",
	"static-dir":  "server.static_dir",
	"log-level":   "log.level",
	"stats-table": "stats.tables.downloads",
}

// unboundFlags are handled by Load itself rather than bound to a viper key.
var unboundFlags = map[string]bool{
	"disk":   true,
	"config": true,
}

// bindFlags binds CLI flags to viper keys with custom name mapping.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		if unboundFlags[f.Name] {
			return
		}

		// Use custom mapping if it exists, otherwise use flag name as-is
		viperKey := f.Name
		if mapped, ok := flagToViperKey[viperKey]; ok {
			viperKey = mapped
		}

		// Only bind if the flag was explicitly set
		if f.Changed {
			_ = v.BindPFlag(viperKey, f)
		}
	})
}

// setDefaults configures default values on the viper instance.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.base_path", vdiskhttp.DefaultBasePath)
	v.SetDefault("server.index_path", vdiskhttp.DefaultIndexPath)
	v.SetDefault("server.static_dir", "")
	v.SetDefault("server.shutdown_timeout", 10) // seconds

	v.SetDefault("stats.type", database.TypeNone)
	v.SetDefault("stats.dsn", "")
	v.SetDefault("stats.tables.downloads", "vdisk_downloads")

	v.SetDefault("cors.enabled", true)
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Content-Type", "X-Request-Id"})
	v.SetDefault("cors.max_age", 300)

	v.SetDefault("log.level", "info")
	v.SetDefault("env", "dev")
}

// ParseDiskFlag parses a --disk value of the form name=dir.
func ParseDiskFlag(s string) (vdisk.Disk, error) {
	name, top, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" || top == "" {
		return vdisk.Disk{}, fmt.Errorf("parse disk flag %q: expected name=dir", s)
	}
	return vdisk.Disk{Name: name, Top: top}, nil
}

// Load reads configuration and returns a validated Config struct.
// Order of precedence (highest to lowest): flags > env > config files > defaults
//
// Parameters:
//   - configFiles: list of config file paths (later files override earlier ones)
//   - flags: cobra flag set for flag binding (can be nil)
//
// Disks given with a repeatable "disk" flag (name=dir) are appended to the
// configured disks; a later entry with the same name wins at registration.
func Load(configFiles []string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Read config files
	if len(configFiles) > 0 {
		v.SetConfigFile(configFiles[0])
		if err := v.ReadInConfig(); err != nil {
			slog.Warn("error reading config file", "file", configFiles[0], "err", err)
		}

		for _, cf := range configFiles[1:] {
			v.SetConfigFile(cf)
			if err := v.MergeInConfig(); err != nil {
				slog.Warn("error merging config file", "file", cf, "err", err)
			}
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				slog.Warn("error reading config file", "err", err)
			}
		}
	}

	// 3. Bind environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Bind flags (if provided)
	if flags != nil {
		bindFlags(v, flags)
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if flags != nil {
		if err := appendFlagDisks(&cfg, flags); err != nil {
			return nil, err
		}
	}

	// 6. Validate using go-playground/validator
	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	if cfg.Stats.Enabled() {
		if err := cfg.Stats.Tables.Validate(); err != nil {
			return nil, fmt.Errorf("validate config: %w", err)
		}
	}

	return &cfg, nil
}

func appendFlagDisks(cfg *Config, flags *pflag.FlagSet) error {
	f := flags.Lookup("disk")
	if f == nil || !f.Changed {
		return nil
	}

	values, err := flags.GetStringArray("disk")
	if err != nil {
		return fmt.Errorf("read disk flag: %w", err)
	}

	for _, val := range values {
		d, err := ParseDiskFlag(val)
		if err != nil {
			return err
		}
		cfg.Disks = append(cfg.Disks, d)
	}

	return nil
}
