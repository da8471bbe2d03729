// Package config holds triadc's shared defaults and the optional
// .triadrc.yaml overrides used by both its CLI and its server.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults for every setting triadc's CLI and server need.
const (
	DefaultServerPort  = 3000
	DefaultRedisAddr   = "localhost:6379"
	DefaultStoreDriver = "sqlite"
	DefaultStoreDSN    = "triadc_history.db"
	DefaultOTLPTarget  = "localhost:4317"
)

// Config is the merged set of settings a triadc invocation runs with.
// Default() returns the all-defaults config; the zero value leaves
// every field empty.
type Config struct {
	ServerPort  int    `yaml:"server_port"`
	RedisAddr   string `yaml:"redis_addr"`
	StoreDriver string `yaml:"store_driver"` // postgres | mysql | sqlite | mongo
	StoreDSN    string `yaml:"store_dsn"`
	OTLPTarget  string `yaml:"otlp_target"`
	LogFormat   string `yaml:"log_format"` // text | json
}

// Default returns the built-in configuration with no file overrides
// applied.
func Default() Config {
	return Config{
		ServerPort:  DefaultServerPort,
		RedisAddr:   DefaultRedisAddr,
		StoreDriver: DefaultStoreDriver,
		StoreDSN:    DefaultStoreDSN,
		OTLPTarget:  DefaultOTLPTarget,
		LogFormat:   "text",
	}
}

// Load reads path (typically .triadrc.yaml) and overlays it onto
// Default(). A missing file is not an error: triadc runs fine on
// defaults alone.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
