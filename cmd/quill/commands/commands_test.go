package commands

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDBRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"init-db", "--env-file", filepath.Join(t.TempDir(), "none.env")})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL is required")
	assert.NotContains(t, out.String(), "Initialized the database.")
}

func TestSetupAppliesFlagOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env/quill")
	t.Setenv("LOG_LEVEL", "info")

	envFile = filepath.Join(t.TempDir(), "none.env")
	dbURL = "postgres://flag/quill"
	logLevel = "debug"
	t.Cleanup(func() { dbURL, logLevel = "", "" })

	require.NoError(t, setup())
	assert.Equal(t, "postgres://flag/quill", cfg.DatabaseURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "debug", log.GetLevel().String())
}
