package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chtemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chtemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "csv", cfg.Source.Driver)
	assert.Equal(t, "APREC", cfg.Boundary.NameProperty)
	assert.Equal(t, 2020, cfg.Dataset.YearFrom)
	assert.Equal(t, 2024, cfg.Dataset.YearTo)
	assert.Equal(t, "persist", cfg.Session.YearChangePolicy)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadEnvOverride(t *testing.T) {
	chtemp(t)
	t.Setenv("CRIMEMAP_SOURCE_DRIVER", "sqlite")
	t.Setenv("CRIMEMAP_SESSION_YEAR_CHANGE_POLICY", "reset")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Source.Driver)
	assert.Equal(t, "reset", cfg.Session.YearChangePolicy)
}

func TestLoadConfigFile(t *testing.T) {
	chtemp(t)
	yaml := "source:\n  driver: postgres\n  database_url: postgres://localhost/crime\nserver:\n  port: 9090\n"
	require.NoError(t, os.WriteFile("config.yaml", []byte(yaml), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Source.Driver)
	assert.Equal(t, "postgres://localhost/crime", cfg.Source.DatabaseURL)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoadMalformedFile(t *testing.T) {
	chtemp(t)
	require.NoError(t, os.WriteFile("config.yaml", []byte("source: ["), 0o600))

	_, err := Load()
	assert.Error(t, err)
}

func TestDatasetYears(t *testing.T) {
	tests := []struct {
		name string
		from int
		to   int
		want []int
	}{
		{name: "normal range", from: 2020, to: 2024, want: []int{2020, 2021, 2022, 2023, 2024}},
		{name: "single year", from: 2023, to: 2023, want: []int{2023}},
		{name: "inverted range is empty", from: 2024, to: 2020, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := DatasetConfig{YearFrom: tt.from, YearTo: tt.to}
			assert.Equal(t, tt.want, d.Years())
		})
	}
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.Error(t, InitLogger(LogConfig{Level: "not-a-level"}))
}
