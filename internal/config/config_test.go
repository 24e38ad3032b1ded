package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
horizon:
  initial_datetime: "2026-01-01 00:00:00"
  final_datetime: "2026-01-02 00:00:00"
  time_lapse_hours: 0.25
site:
  latitude: 40.4168
  longitude: -3.7038
input:
  technical_characteristics: "data/technical_characteristics.csv"
store:
  sqlite_path: "data/dispatch.db"
server:
  listen_address: ":8080"
`
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	c, err := Load(path)
	assert.NoError(t, err)
	assert.InDelta(t, 0.25, c.Horizon.TimeLapseHours, 1e-9)
	assert.Equal(t, ":8080", c.Server.ListenAddress)
}

func TestLoad_MissingHorizonIsRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	assert.NoError(t, os.WriteFile(path, []byte("input:\n  technical_characteristics: x.csv\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
