package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestDefaults(t *testing.T) {
	cfg, err := FromEnv(env(nil))
	require.NoError(t, err)

	assert.Equal(t, "8084", cfg.Port)
	assert.Equal(t, StoreFile, cfg.Store)
	assert.Equal(t, "America/Sao_Paulo", cfg.Location.String())
	assert.Equal(t, ',', cfg.CSVDelimiter)
	assert.True(t, cfg.CSVBOM)
	assert.False(t, cfg.FuzzyHeaders)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, AppName, filepath.Base(cfg.DataDir))
	assert.Equal(t, cfg.DataDir, cfg.StorePath())
}

func TestOverrides(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"COBRANCA_PORT":          "9000",
		"COBRANCA_DATA_DIR":      "/tmp/dados",
		"COBRANCA_STORE":         "SQLite",
		"COBRANCA_TIMEZONE":      "UTC",
		"COBRANCA_CSV_DELIMITER": ";",
		"COBRANCA_CSV_BOM":       "false",
		"COBRANCA_FUZZY_HEADERS": "1",
		"COBRANCA_LOG_LEVEL":     "DEBUG",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, StoreSQLite, cfg.Store)
	assert.Equal(t, filepath.Join("/tmp/dados", "cobranca.db"), cfg.StorePath())
	assert.Equal(t, ';', cfg.CSVDelimiter)
	assert.False(t, cfg.CSVBOM)
	assert.True(t, cfg.FuzzyHeaders)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestTabDelimiter(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{"COBRANCA_CSV_DELIMITER": "tab"}))
	require.NoError(t, err)
	assert.Equal(t, '\t', cfg.CSVDelimiter)
}

func TestInvalidValues(t *testing.T) {
	tests := map[string]string{
		"COBRANCA_STORE":         "postgres",
		"COBRANCA_TIMEZONE":      "Marte/Olympus",
		"COBRANCA_CSV_DELIMITER": ";;",
		"COBRANCA_FUZZY_HEADERS": "talvez",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			_, err := FromEnv(env(map[string]string{key: value}))
			assert.Error(t, err)
		})
	}
}

func TestTodayUsesLocation(t *testing.T) {
	cfg, err := FromEnv(env(nil))
	require.NoError(t, err)

	// 01:30 UTC ainda é o dia anterior em São Paulo
	now := time.Date(2024, 3, 15, 1, 30, 0, 0, time.UTC)
	y, m, d := cfg.Today(now).Date()
	assert.Equal(t, []int{2024, 3, 14}, []int{y, int(m), d})
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("COBRANCA_PORT=7070\n"), 0o644))
	t.Setenv("COBRANCA_PORT", "")
	os.Unsetenv("COBRANCA_PORT")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port)

	_, err = Load(filepath.Join(dir, "nao-existe.env"))
	assert.NoError(t, err)
}
