package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Server holds service settings. Each field reads from RINKSIM_<KEY> or
// from an optional rinksim.yaml.
type Server struct {
	HTTPAddr       string        `mapstructure:"HTTP_ADDR"`
	GRPCAddr       string        `mapstructure:"GRPC_ADDR"`
	ConfigDir      string        `mapstructure:"CONFIG_DIR"`
	TuningProfile  string        `mapstructure:"TUNING_PROFILE"`
	ReloadInterval time.Duration `mapstructure:"RELOAD_INTERVAL"`
	MaxTrials      int           `mapstructure:"MAX_TRIALS"`
	MaxBodyBytes   int64         `mapstructure:"MAX_BODY_BYTES"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	LogFormat      string        `mapstructure:"LOG_FORMAT"`
}

// LoadServer reads settings. searchPaths are directories checked for
// rinksim.yaml; with none given the working directory is used.
func LoadServer(searchPaths ...string) (*Server, error) {
	v := viper.New()
	v.SetConfigName("rinksim")
	v.SetConfigType("yaml")
	if len(searchPaths) == 0 {
		searchPaths = []string{"."}
	}
	for _, p := range searchPaths {
		v.AddConfigPath(p)
	}

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("GRPC_ADDR", ":9090")
	v.SetDefault("CONFIG_DIR", "config")
	v.SetDefault("TUNING_PROFILE", "")
	v.SetDefault("RELOAD_INTERVAL", "2s")
	v.SetDefault("MAX_TRIALS", 10000)
	v.SetDefault("MAX_BODY_BYTES", 1<<20)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetEnvPrefix("RINKSIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Server
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if cfg.MaxTrials <= 0 {
		return nil, fmt.Errorf("MAX_TRIALS must be >= 1, got %d", cfg.MaxTrials)
	}
	if cfg.ReloadInterval <= 0 {
		cfg.ReloadInterval = 2 * time.Second
	}
	return &cfg, nil
}
