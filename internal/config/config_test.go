package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_DefaultsAndOverrides(t *testing.T) {
	path := writeConfig(t, `
[server]
http_port = 9090

[database]
driver = "memory"

[booking]
slot_step_minutes = 15
auto_confirm_free_sessions = true

[kafka]
brokers = ["kafka:9092"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 10, cfg.Server.ReadTimeout)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, 15*time.Minute, cfg.Booking.SlotStep())
	assert.Equal(t, 480, cfg.Booking.MaxSessionMinutes)
	assert.Equal(t, 30, cfg.Booking.PendingTTLMinutes)
	assert.True(t, cfg.Booking.AutoConfirmFreeSessions)
	assert.True(t, cfg.Kafka.Enabled())
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoad_EnvSecrets(t *testing.T) {
	t.Setenv("DB_PASSWORD", "s3cret")
	t.Setenv("REDIS_PASSWORD", "r3dis")
	t.Setenv("INTERNAL_TOKEN", "tok")

	path := writeConfig(t, `
[database]
driver = "postgres"
password = "from-file"

[tenant_service]
url = "http://tenants:8080"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, "r3dis", cfg.Redis.Password)
	assert.Equal(t, "tok", cfg.Internal.Token)
	assert.Contains(t, cfg.Database.DSN(), "password=s3cret")
	assert.Contains(t, cfg.Database.DSN(), "dbname=booking_engine")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "unknown driver",
			content: "[database]\ndriver = \"sqlite\"\n",
			want:    "database.driver",
		},
		{
			name:    "postgres without tenant service",
			content: "[database]\ndriver = \"postgres\"\n",
			want:    "tenant_service.url",
		},
		{
			name:    "zero step",
			content: "[database]\ndriver = \"memory\"\n[booking]\nslot_step_minutes = 0\n",
			want:    "slot_step_minutes",
		},
		{
			name:    "rate limit without burst",
			content: "[database]\ndriver = \"memory\"\n[rate_limit]\nenabled = true\nburst = 0\n",
			want:    "rate_limit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidConfig)
}
