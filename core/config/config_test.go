package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDefaults(t *testing.T) {
	cfg := &Config{Telegram: TelegramConfig{Token: "t"}}
	require.NoError(t, Normalize(cfg))

	assert.Equal(t, RunModeLongpoll, cfg.Telegram.RunMode)
	assert.Equal(t, SessionMemory, cfg.Session.Backend)
	assert.Empty(t, cfg.Metrics.Path)
}

func TestNormalizeRejectsBadValues(t *testing.T) {
	cases := map[string]Config{
		"missing token":   {},
		"bad run mode":    {Telegram: TelegramConfig{Token: "t", RunMode: "push"}},
		"webhook no url":  {Telegram: TelegramConfig{Token: "t", RunMode: "webhook"}},
		"redis no addr":   {Telegram: TelegramConfig{Token: "t"}, Session: SessionConfig{Backend: "redis"}},
		"unknown backend": {Telegram: TelegramConfig{Token: "t"}, Session: SessionConfig{Backend: "etcd"}},
		"negative ttl":    {Telegram: TelegramConfig{Token: "t"}, Session: SessionConfig{TTLSeconds: -1}},
		"bad exclusion":   {Telegram: TelegramConfig{Token: "t"}, RateLimit: RateLimitConfig{ExcludeUpdates: []string{"poll"}}},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, Normalize(&cfg))
		})
	}
}

func TestNormalizeAliasesAndMetricsPath(t *testing.T) {
	cfg := &Config{
		Telegram:  TelegramConfig{Token: "t", RunMode: " Polling "},
		RateLimit: RateLimitConfig{ExcludeUpdates: []string{" Message "}},
		Session:   SessionConfig{Backend: "REDIS", RedisAddr: "localhost:6379"},
		Metrics:   MetricsConfig{Listen: ":2112"},
	}
	require.NoError(t, Normalize(cfg))

	assert.Equal(t, RunModeLongpoll, cfg.Telegram.RunMode)
	assert.Equal(t, []string{UpdateMessage}, cfg.RateLimit.ExcludeUpdates)
	assert.Equal(t, SessionRedis, cfg.Session.Backend)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestNormalizeReportsEveryProblem(t *testing.T) {
	cfg := &Config{
		Telegram: TelegramConfig{RunMode: "webhook"},
		Session:  SessionConfig{Backend: "etcd"},
	}
	err := Normalize(cfg)
	require.Error(t, err)
	for _, want := range []string{"token", "webhook.url", "webhook.listen", "webhook.port", "session.backend"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestRateLimitExcluded(t *testing.T) {
	rl := RateLimitConfig{ExcludeUpdates: []string{" Callback", "", "message"}}
	assert.Equal(t, map[string]struct{}{UpdateCallback: {}, UpdateMessage: {}}, rl.Excluded())
	assert.Empty(t, RateLimitConfig{}.Excluded())
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("telegram:\n  token: from-file\n  admin_id: 7\nlogging:\n  level: debug\n")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	t.Setenv("BOT_TOKEN", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Telegram.Token)
	assert.Equal(t, int64(7), cfg.Telegram.AdminID)
	assert.Equal(t, "debug", cfg.Logging.Level)
}
