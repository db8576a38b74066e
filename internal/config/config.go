// Package config loads the engine configuration from a JSON file via viper,
// with defaults for every key so the simulator runs out of the box.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// SimConfig holds the simulation engine settings.
type SimConfig struct {
	TickIntervalMs int   `json:"tickIntervalMs" mapstructure:"tickIntervalMs"`
	Seed           int64 `json:"seed" mapstructure:"seed"`
	FeedBuffer     int   `json:"feedBuffer" mapstructure:"feedBuffer"`
}

// TickInterval returns the tick period as a duration.
func (c SimConfig) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMs) * time.Millisecond
}

// InfluxConfig holds the InfluxDB sink settings.
type InfluxConfig struct {
	Enabled  bool   `json:"enabled" mapstructure:"enabled"`
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Protocol string `json:"protocol" mapstructure:"protocol"`
	Token    string `json:"token" mapstructure:"token"`
	Org      string `json:"org" mapstructure:"org"`
}

// URL returns the server URL for the influx client.
func (c InfluxConfig) URL() string {
	return fmt.Sprintf("%s://%s:%s", c.Protocol, c.Host, c.Port)
}

// GraylogConfig holds the GELF log sink settings.
type GraylogConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Address string `json:"address" mapstructure:"address"`
}

// StorageConfig holds the session recorder settings.
type StorageConfig struct {
	Backend        string `json:"backend" mapstructure:"backend"`
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file. A missing file is
// not an error; defaults apply.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./fleetlogs")
	viper.SetDefault("statusFile", "./fleetsim.status.json")

	viper.SetDefault("sim.tickIntervalMs", 1500)
	viper.SetDefault("sim.seed", 0)
	viper.SetDefault("sim.feedBuffer", 64)

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "fleet-metrics")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("storage.backend", "memory")
	viper.SetDefault("storage.outputDir", "./fleetlogs/sessions")
	viper.SetDefault("storage.compressOutput", true)

	viper.SetConfigName("fleetsim.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

// Sim returns the simulation section.
func Sim() SimConfig {
	var c SimConfig
	_ = viper.UnmarshalKey("sim", &c)
	return c
}

// Influx returns the influx section.
func Influx() InfluxConfig {
	var c InfluxConfig
	_ = viper.UnmarshalKey("influx", &c)
	return c
}

// Graylog returns the graylog section.
func Graylog() GraylogConfig {
	var c GraylogConfig
	_ = viper.UnmarshalKey("graylog", &c)
	return c
}

// Storage returns the storage section.
func Storage() StorageConfig {
	var c StorageConfig
	_ = viper.UnmarshalKey("storage", &c)
	return c
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
