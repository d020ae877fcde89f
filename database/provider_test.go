package database

import (
	"testing"

	"userapp/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testModel struct {
	ID   uint `gorm:"primarykey"`
	Name string
}

func testConfig(driver, dsn string, migrate bool) *config.Config {
	return &config.Config{
		Database: config.DatabaseConfig{
			Driver:      driver,
			DSN:         dsn,
			AutoMigrate: migrate,
		},
	}
}

func TestProvideDatabase(t *testing.T) {
	t.Run("opens sqlite database", func(t *testing.T) {
		db, err := ProvideDatabase(testConfig("sqlite", ":memory:", false), nil, nil)
		require.NoError(t, err)
		require.NotNil(t, db)
	})

	t.Run("auto-migrates registered models", func(t *testing.T) {
		db, err := ProvideDatabase(testConfig("sqlite", ":memory:", true), WithModels(&testModel{}), nil)
		require.NoError(t, err)

		assert.True(t, db.Migrator().HasTable(&testModel{}))
	})

	t.Run("rejects unknown driver", func(t *testing.T) {
		db, err := ProvideDatabase(testConfig("oracle", "", false), nil, nil)
		assert.Nil(t, db)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported database driver")
	})
}
