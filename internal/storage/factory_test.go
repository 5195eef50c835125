package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/models"
)

func TestFactory_CreateMemory(t *testing.T) {
	f := NewFactory()

	s, err := f.Create(models.StorageConfig{Type: models.StorageTypeMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStorage{}, s)
}

func TestFactory_CreateJSON(t *testing.T) {
	f := NewFactory()

	s, err := f.Create(models.StorageConfig{
		Type: models.StorageTypeJSON,
		Path: filepath.Join(t.TempDir(), "data.json"),
	})
	require.NoError(t, err)
	assert.IsType(t, &JSONStorage{}, s)
}

func TestFactory_CreateSQLite(t *testing.T) {
	f := NewFactory()

	s, err := f.Create(models.StorageConfig{
		Type: models.StorageTypeSQLite,
		Database: models.DatabaseConfig{
			DSN: filepath.Join(t.TempDir(), "data.db"),
		},
	})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStorage{}, s)
	s.Close()
}

func TestFactory_UnsupportedType(t *testing.T) {
	f := NewFactory()

	_, err := f.Create(models.StorageConfig{Type: "redis"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported storage type")
}

func TestFactory_SupportedProviders(t *testing.T) {
	f := NewFactory()

	providers := f.SupportedProviders()
	assert.Contains(t, providers, models.StorageTypeMemory)
	assert.Contains(t, providers, models.StorageTypeJSON)
	assert.Contains(t, providers, models.StorageTypeSQLite)
	assert.Contains(t, providers, models.StorageTypePostgres)
}
