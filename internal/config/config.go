package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/urlytics/internal/common"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Defaults for keys that are not set in the config file or environment.
const (
	DefaultEndpoint        = "http://localhost:5000/predict"
	DefaultDatabasePath    = "$HOME/.local/share/urlytics/urlytics.db"
	DefaultNotificationTTL = 3 * time.Second
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "console"
)

// Config is the resolved application configuration.
type Config struct {
	Classifier    ClassifierConfig
	Logging       LoggingConfig
	DatabasePath  string        `validate:"required"`
	NotifyTTL     time.Duration `validate:"gt=0"`
	ColorScheme   string        `validate:"omitempty,oneof=auto dark light"`
	DisableSaving bool
}

// ClassifierConfig configures the classification backend.
type ClassifierConfig struct {
	Endpoint string        `validate:"required,url"`
	Timeout  time.Duration `validate:"gte=0"`
}

// LoggingConfig configures slog.
type LoggingConfig struct {
	Level  string `validate:"oneof=debug info warn error"`
	Format string `validate:"oneof=console json"`
	File   string
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("classifier.endpoint", DefaultEndpoint)
	v.SetDefault("classifier.timeout", time.Duration(0))
	v.SetDefault("notifications.ttl", DefaultNotificationTTL)
	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("theme.system", "auto")
	v.SetDefault("history.enabled", true)
	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)
}

// Load reads the configuration from v and validates it.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	cfg := &Config{
		Classifier: ClassifierConfig{
			Endpoint: strings.TrimSpace(v.GetString("classifier.endpoint")),
			Timeout:  v.GetDuration("classifier.timeout"),
		},
		Logging: LoggingConfig{
			Level:  strings.ToLower(v.GetString("logging.level")),
			Format: strings.ToLower(v.GetString("logging.format")),
			File:   ExpandPath(v.GetString("logging.file")),
		},
		DatabasePath:  ExpandPath(v.GetString("database.path")),
		NotifyTTL:     v.GetDuration("notifications.ttl"),
		ColorScheme:   strings.ToLower(v.GetString("theme.system")),
		DisableSaving: !v.GetBool("history.enabled"),
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		var msgs []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
		} else {
			msgs = append(msgs, err.Error())
		}
		return fmt.Errorf("%w: %s", common.ErrInvalidConfig, strings.Join(msgs, "; "))
	}
	return nil
}
