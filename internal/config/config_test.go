package config_test

import (
	"testing"
	"time"

	"bookclub/internal/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(overrides map[string]string) *viper.Viper {
	v := viper.New()
	config.SetDefaults(v)
	for k, val := range overrides {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := config.FromViper(newViper(nil))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, ":8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.CORSOrigins)
	assert.Equal(t, 20, cfg.AuthRateLimit)
	assert.False(t, cfg.IsProduction())
}

func TestFromViper_ProductionRequiresSecret(t *testing.T) {
	_, err := config.FromViper(newViper(map[string]string{"APP_ENV": "production"}))
	assert.Error(t, err)

	cfg, err := config.FromViper(newViper(map[string]string{"APP_ENV": "production", "JWT_SECRET": "s3cret"}))
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "s3cret", cfg.JWTSecret)
}

func TestFromViper_RejectsBadValues(t *testing.T) {
	_, err := config.FromViper(newViper(map[string]string{"DATABASE_DRIVER": "mongodb"}))
	assert.Error(t, err)

	_, err = config.FromViper(newViper(map[string]string{"TOKEN_TTL": "-1h"}))
	assert.Error(t, err)
}
