package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and, optionally,
// a yaml config file. Environment variables use the PICPOST_ prefix
// with underscores for nesting (PICPOST_SERVER_PORT, PICPOST_DATABASE_URL)
// and take precedence over file values.
// Returns a populated, validated Config or an error.
func Load() (*Config, error) {
	return LoadFromFile("")
}

// LoadFromFile is Load with an explicit config file path. An empty
// path skips file loading entirely; a non-empty path must exist.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("PICPOST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setDefaults registers defaults for everything that has a sensible
// one. Defaults also make viper aware of the keys so AutomaticEnv can
// bind them without explicit BindEnv calls.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("database.url", "")
	v.SetDefault("ledger.backend", "postgres")
	v.SetDefault("ledger.redis_addr", "")
	v.SetDefault("queue.backend", "channel")
	v.SetDefault("queue.buffer_size", 100)
	v.SetDefault("queue.rabbitmq_url", "")
	v.SetDefault("queue.topic", "")
	v.SetDefault("worker.count", 2)
	v.SetDefault("worker.stale_task_age", "30m")
	v.SetDefault("worker.stale_check_interval", "5m")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.access_key", "")
	v.SetDefault("storage.secret_key", "")
	v.SetDefault("storage.bucket", "posts")
	v.SetDefault("storage.use_ssl", false)
	v.SetDefault("image.target_size", 1080)
}

// validate runs struct-tag validation and rewrites the first failure
// into a readable error naming the offending key.
func validate(cfg *Config) error {
	err := validator.New().Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		return fmt.Errorf("invalid configuration: field %s failed on the %q rule",
			first.Namespace(), first.Tag())
	}
	return fmt.Errorf("invalid configuration: %w", err)
}
