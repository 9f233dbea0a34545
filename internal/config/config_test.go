package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("WECHAT_APP_ID", "wx123")
	t.Setenv("WECHAT_APP_SECRET", "shh")
}

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		setEnv       bool
		envValue     string
		expected     string
	}{
		{
			name:         "env variable set",
			key:          "TEST_KEY",
			defaultValue: "default",
			setEnv:       true,
			envValue:     "custom",
			expected:     "custom",
		},
		{
			name:         "env variable not set",
			key:          "TEST_KEY_NOT_SET",
			defaultValue: "default",
			setEnv:       false,
			expected:     "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				t.Setenv(tt.key, tt.envValue)
			}

			result := getEnv(tt.key, tt.defaultValue)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestConfig_DSN(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     "5432",
			User:     "testuser",
			Password: "testpass",
			Name:     "testdb",
			SSLMode:  "disable",
		},
	}

	dsn := cfg.DSN()
	expected := "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=disable"
	assert.Equal(t, expected, dsn)
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, 15*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, int64(100), cfg.Game.WordFriendPrice)
	assert.Equal(t, "00:00", cfg.Scheduler.SweepAt)
	assert.True(t, cfg.Scheduler.Enabled)
	assert.False(t, cfg.IsDev())
	assert.Empty(t, cfg.HTTP.TrustedProxies)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_ENV", "dev")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("WORD_FRIEND_PRICE", "250")
	t.Setenv("SWEEP_ENABLED", "false")
	t.Setenv("HTTP_SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, ,172.16.0.1")

	cfg, err := Load()

	require.NoError(t, err)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, "9090", cfg.HTTP.Port)
	assert.Equal(t, int64(250), cfg.Game.WordFriendPrice)
	assert.False(t, cfg.Scheduler.Enabled)
	assert.Equal(t, 3*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, []string{"10.0.0.0/8", "172.16.0.1"}, cfg.HTTP.TrustedProxies)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "missing db password",
			env:  map[string]string{"DB_PASSWORD": ""},
		},
		{
			name: "missing app secret",
			env:  map[string]string{"WECHAT_APP_SECRET": ""},
		},
		{
			name: "price not a number",
			env:  map[string]string{"WORD_FRIEND_PRICE": "lots"},
		},
		{
			name: "negative price",
			env:  map[string]string{"WORD_FRIEND_PRICE": "-1"},
		},
		{
			name: "bad sweep time",
			env:  map[string]string{"SWEEP_AT": "midnight"},
		},
		{
			name: "bad duration",
			env:  map[string]string{"HTTP_READ_TIMEOUT": "soon"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()

			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}
