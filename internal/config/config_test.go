package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("LOCK_TIMEOUT", "")
	t.Setenv("TABLE_PREFIX", "")
	os.Unsetenv("TABLE_PREFIX")

	cfg := Load()

	assert.Equal(t, "dev", cfg.Environment)
	assert.Equal(t, DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, "dev_", cfg.TablePrefix)
	assert.Equal(t, DefaultLockTimeout, cfg.LockTimeout)
	assert.NotEmpty(t, cfg.DBPath)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "prod")
	t.Setenv("STORE_DRIVER", DriverPostgres)
	t.Setenv("DATABASE_URL", "postgres://localhost/notes")
	t.Setenv("LOCK_TIMEOUT", "250ms")
	t.Setenv("LOG_MAX_FILES", "3")
	t.Setenv("TABLE_PREFIX", "")
	os.Unsetenv("TABLE_PREFIX")

	cfg := Load()

	assert.Equal(t, "", cfg.TablePrefix)
	assert.Equal(t, DriverPostgres, cfg.StoreDriver)
	assert.Equal(t, "postgres://localhost/notes", cfg.DatabaseURL)
	assert.Equal(t, 250*time.Millisecond, cfg.LockTimeout)
	assert.Equal(t, 3, cfg.LogMaxFiles)
}

func TestLoad_ExplicitEmptyTablePrefix(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("TABLE_PREFIX", "")

	assert.Equal(t, "", Load().TablePrefix)
}

func TestSetupLogFile_KeepsNewest(t *testing.T) {
	dir := t.TempDir()
	for _, stamp := range []string{"2024-01-01T00-00-00", "2024-01-02T00-00-00", "2024-01-03T00-00-00"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "server-"+stamp+".log"), nil, 0644))
	}

	f, err := SetupLogFile(dir, "server", 2)
	require.NoError(t, err)
	defer f.Close()

	files, err := filepath.Glob(filepath.Join(dir, "server-*.log"))
	require.NoError(t, err)
	assert.Len(t, files, 2)
	assert.Contains(t, files, f.Name())
}
