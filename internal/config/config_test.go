package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 2*time.Minute, cfg.Notifications.GetResponse.SendDelay)
	assert.Equal(t, 3*time.Second, cfg.Notifications.GetResponse.ContactLookupDelay)
	assert.Equal(t, 5*time.Minute, cfg.Worker.ToWorkerConfig().Lease)
	assert.Equal(t, "iccz2", cfg.Notifications.GetResponse.Campaigns["1"])
	assert.Equal(t, "Lik0s", cfg.Notifications.GetResponse.AllCampaign)
	assert.Equal(t, 20, cfg.Notifications.CRMSync.TotalSessions)
	assert.Equal(t, 8, cfg.Worker.MaxAttempts)
}

func TestLoadConfig_EnvOverlay(t *testing.T) {
	t.Setenv("MYWAY_JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("MYWAY_GETRESPONSE_API_KEY", "gr-key")
	t.Setenv("MYWAY_DATABASE_PASSWORD", "s3cret")
	t.Setenv("MYWAY_AUTH_ALLOWED_EMAILS", "admin@osrodek-myway.pl, Biuro@osrodek-myway.pl")
	t.Setenv("MYWAY_SERVER_PORT", "9000")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "0123456789abcdef0123456789abcdef", cfg.Auth.JWTSecret)
	assert.Equal(t, "gr-key", cfg.Notifications.GetResponse.APIKey)
	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, []string{"admin@osrodek-myway.pl", "Biuro@osrodek-myway.pl"}, cfg.Auth.AllowedEmails)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.NoError(t, cfg.Validate())
}

func TestValidate_RequiresSecret(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.Validate())

	cfg.Auth.JWTSecret = "short"
	assert.Error(t, cfg.Validate())
}

func TestWorkerConfig_ToWorkerConfig(t *testing.T) {
	wc := WorkerConfig{BatchSize: 5, PollInterval: time.Second, MaxAttempts: 3, InitialInterval: time.Second, MaxInterval: time.Minute, Multiplier: 2, Jitter: 0.1}
	got := wc.ToWorkerConfig()

	assert.Equal(t, 5, got.BatchSize)
	assert.Equal(t, 3, got.MaxAttempts)
	assert.Equal(t, time.Minute, got.Backoff.MaxInterval)
}
