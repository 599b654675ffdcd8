package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 115200, cfg.Serial.Baud)
	assert.Equal(t, "Wind Turbine", cfg.Device.ID)
	assert.True(t, cfg.Device.ResetEnergyOnStart)
	assert.True(t, cfg.Outputs.Console)
	assert.False(t, cfg.Outputs.MQTT.Enabled)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logger.yaml")
	data := `
serial:
  port: /dev/ttyACM0
device:
  id: Wind Farm
  reset_energy_on_start: false
outputs:
  console: false
  csv_path: run.tsv
  mqtt:
    enabled: true
    server: tcp://broker:1883
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyACM0", cfg.Serial.Port)
	assert.Equal(t, 115200, cfg.Serial.Baud) // default survives a partial file
	assert.Equal(t, "Wind Farm", cfg.Device.ID)
	assert.False(t, cfg.Device.ResetEnergyOnStart)
	assert.False(t, cfg.Outputs.Console)
	assert.Equal(t, "run.tsv", cfg.Outputs.CSVPath)
	assert.True(t, cfg.Outputs.MQTT.Enabled)
	assert.Equal(t, "tcp://broker:1883", cfg.Outputs.MQTT.Server)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("serial: ["), 0o644))
	_, err := Load(path)
	require.Error(t, err)
}
