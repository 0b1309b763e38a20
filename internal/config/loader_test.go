package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfigYAML = `
server:
  port: 8081
  mode: "release"
database:
  host: "db.internal"
  port: 5432
  user: "roofsight"
  password: "secret"
  db_name: "roofsight"
redis:
  addr: "redis.internal:6379"
kafka:
  brokers: ["kafka.internal:9092"]
  group_id: "roofsight-engine"
engine:
  max_group_size: 6
  max_distance_miles: 15
log:
  level: "warn"
`

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	err := os.WriteFile(path, []byte(content), 0o644)
	require.NoError(t, err)
	return path
}

func setEnvVars(t *testing.T, vars map[string]string) {
	t.Helper()
	for k, v := range vars {
		os.Setenv(k, v)
	}
	t.Cleanup(func() {
		for k := range vars {
			os.Unsetenv(k)
		}
	})
}

func TestLoad_FromFile_ValidConfig(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "redis.internal:6379", cfg.Redis.Addr)
	assert.Equal(t, 6, cfg.Engine.MaxGroupSize)
	assert.Equal(t, 15.0, cfg.Engine.MaxDistanceMiles)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_FromFile_DefaultsFillUnsetFields(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)
	cfg, err := Load(path)
	require.NoError(t, err)

	// Not present in the YAML; must come from ApplyDefaults.
	assert.Equal(t, DefaultTravelSpeedMPH, cfg.Engine.TravelSpeedMPH)
	assert.Equal(t, DefaultMinutesPerStop, cfg.Engine.MinutesPerStop)
	assert.Equal(t, DefaultWorkerConcurrency, cfg.Worker.Concurrency)
	assert.Equal(t, DefaultLogFormat, cfg.Log.Format)
}

func TestLoad_FromFile_FileNotFound(t *testing.T) {
	_, err := Load("non_existent_config.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_FromFile_InvalidYAML(t *testing.T) {
	path := createTempConfigFile(t, "invalid_yaml: [")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_FromFile_ValidationFailure(t *testing.T) {
	path := createTempConfigFile(t, `
server:
  mode: "staging"
database:
  user: "roofsight"
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoadFromEnv_DefaultsOnly(t *testing.T) {
	setEnvVars(t, map[string]string{
		"ROOFSIGHT_DATABASE_USER": "roofsight",
	})

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultMaxGroupSize, cfg.Engine.MaxGroupSize)
}

func TestLoadFromEnv_EnvOverride(t *testing.T) {
	setEnvVars(t, map[string]string{
		"ROOFSIGHT_DATABASE_USER":          "roofsight",
		"ROOFSIGHT_DATABASE_HOST":          "pg.example.com",
		"ROOFSIGHT_ENGINE_MAX_GROUP_SIZE":  "3",
		"ROOFSIGHT_LOG_LEVEL":              "debug",
		"ROOFSIGHT_ENGINE_TRAVEL_SPEED_MPH": "45",
	})

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "pg.example.com", cfg.Database.Host)
	assert.Equal(t, 3, cfg.Engine.MaxGroupSize)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 45.0, cfg.Engine.TravelSpeedMPH)
}

func TestMustLoad_PanicsOnMissingFile(t *testing.T) {
	assert.Panics(t, func() { MustLoad("missing.yaml") })
}

func TestMustLoad_ReturnsConfig(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)
	cfg := MustLoad(path)
	assert.Equal(t, 8081, cfg.Server.Port)
}
