// Package config holds the host logger configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the windfarm-logger configuration file.
type Config struct {
	Serial  SerialConfig  `yaml:"serial"`
	Device  DeviceConfig  `yaml:"device"`
	Outputs OutputsConfig `yaml:"outputs"`
}

// SerialConfig selects the port. An empty Port triggers an identity scan
// across all ports.
type SerialConfig struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
}

// DeviceConfig describes what to look for and how to start it.
type DeviceConfig struct {
	// ID is the identity substring to match during the port scan, e.g.
	// "Wind Turbine" or "Wind Farm".
	ID string `yaml:"id"`
	// ResetEnergyOnStart clears the accumulators before acquisition.
	ResetEnergyOnStart bool `yaml:"reset_energy_on_start"`
}

type OutputsConfig struct {
	Console bool       `yaml:"console"`
	CSVPath string     `yaml:"csv_path"`
	MQTT    MQTTConfig `yaml:"mqtt"`
}

type MQTTConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Server   string `yaml:"server"`
	ClientID string `yaml:"client_id"`
	Topic    string `yaml:"topic"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{Baud: 115200},
		Device: DeviceConfig{
			ID:                 "Wind Turbine",
			ResetEnergyOnStart: true,
		},
		Outputs: OutputsConfig{
			Console: true,
			MQTT: MQTTConfig{
				Server:   "tcp://localhost:1883",
				ClientID: "windfarm-logger",
				Topic:    "windfarm/channel/%d",
			},
		},
	}
}

// Load reads a YAML file over the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.Serial.Baud == 0 {
		cfg.Serial.Baud = 115200
	}
	return cfg, nil
}
