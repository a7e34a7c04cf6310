package database

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_MoneyColumnsMatchModels(t *testing.T) {
	raw, err := fs.ReadFile(migrationsFS, "migrations/000001_init_schema.up.sql")
	require.NoError(t, err)
	schema := string(raw)

	assert.NotContains(t, schema, "NUMERIC(12")
	assert.Contains(t, schema, "precio_maximo  DOUBLE PRECISION NOT NULL CHECK (precio_maximo >= 0)")
	assert.Contains(t, schema, "monto          DOUBLE PRECISION NOT NULL CHECK (monto > 0)")
}

func TestMigrations_EveryUpHasDown(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	require.NoError(t, err)

	names := map[string]bool{}
	for _, e := range entries {
		names[e.Name()] = true
	}
	for name := range names {
		if strings.HasSuffix(name, ".up.sql") {
			assert.True(t, names[strings.TrimSuffix(name, ".up.sql")+".down.sql"], name)
		}
	}
}
