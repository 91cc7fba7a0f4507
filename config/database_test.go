package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestToGormLogLevel(t *testing.T) {
	assert.Equal(t, logger.Info, toGormLogLevel("debug"))
	assert.Equal(t, logger.Warn, toGormLogLevel("info"))
	assert.Equal(t, logger.Warn, toGormLogLevel(""))
	assert.Equal(t, logger.Error, toGormLogLevel("error"))
	assert.Equal(t, logger.Silent, toGormLogLevel("silent"))
	assert.Equal(t, logger.Warn, toGormLogLevel("bogus"))
}

func TestDialectorFor(t *testing.T) {
	t.Run("mysql", func(t *testing.T) {
		d, err := dialectorFor(AppConfig{DBDriver: "mysql", DBHost: "h", DBUser: "u", DBName: "n"})
		require.NoError(t, err)
		assert.Equal(t, "mysql", d.Name())
	})

	t.Run("postgres", func(t *testing.T) {
		d, err := dialectorFor(AppConfig{DBDriver: "postgres", DatabaseURI: "postgres://u:p@h:5432/n"})
		require.NoError(t, err)
		assert.Equal(t, "postgres", d.Name())
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := dialectorFor(AppConfig{DBDriver: "oracle"})
		assert.Error(t, err)
	})
}

func TestPortOr(t *testing.T) {
	assert.Equal(t, "3306", portOr("", "3306"))
	assert.Equal(t, "5433", portOr("5433", "5432"))
}
