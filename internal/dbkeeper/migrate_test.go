package dbkeeper

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/drstein77/plantcart/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsPath(t *testing.T) {
	// tests run from internal/dbkeeper, two levels below the repository root
	path, err := migrationsPath("migrations")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(path, "1_create_products.up.sql"))

	abs := t.TempDir()
	path, err = migrationsPath(abs)
	require.NoError(t, err)
	assert.Equal(t, abs, path)

	_, err = migrationsPath("no-such-dir")
	assert.Error(t, err)
}

func TestNewDBKeeperRequiresDSN(t *testing.T) {
	_, err := NewDBKeeper(context.Background(), func() string { return "" }, "migrations", &logger.Logger{})
	assert.Error(t, err)

	_, err = NewDBKeeper(context.Background(), func() string { return "::not a dsn::" }, "migrations", &logger.Logger{})
	assert.Error(t, err)
}

func TestGetProductsIntegration(t *testing.T) {
	dsn := os.Getenv("DATABASE_URI")
	if dsn == "" {
		t.Skip("DATABASE_URI not set")
	}

	kp, err := NewDBKeeper(context.Background(), func() string { return dsn }, "migrations", &logger.Logger{})
	require.NoError(t, err)
	defer kp.Close()

	require.True(t, kp.Ping(context.Background()))

	products, err := kp.GetProducts(context.Background(), []string{"2", "1", "999"})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "2", products[0].ID)
	assert.Equal(t, "1", products[1].ID)
}
