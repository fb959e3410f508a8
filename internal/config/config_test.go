package config

import (
	"encoding/base64"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", "")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, StoreFile, cfg.Sessions.Store)
	assert.Equal(t, ".upskill/sessions", cfg.Sessions.Dir)
	assert.Equal(t, 24*time.Hour, cfg.Sessions.TTL)
	assert.Equal(t, 30*time.Second, cfg.Sessions.LockTTL)
	assert.Equal(t, LeadsMemory, cfg.Leads.Store)
	assert.Equal(t, "upskill", cfg.Leads.MongoDatabase)
	assert.True(t, cfg.Analytics.Log)
	assert.Equal(t, int64(10000), cfg.Analytics.StreamMaxLen)
	assert.Contains(t, cfg.Analytics.Redact, "(?i)email")
	assert.Len(t, cfg.Sessions.PIIPatterns, 3)
}

func TestLoad_Layers(t *testing.T) {
	t.Chdir(t.TempDir())

	yamlPath := writeFile(t, "upskill.yaml", `
log_level: debug
http:
  addr: ":9090"
sessions:
  store: redis
  ttl: 2h
leads:
  store: sqlite
  sqlite_path: /tmp/from-yaml.db
`)
	envPath := writeFile(t, "test.env", "UPSKILL_HTTP_ADDR=:7070\nUPSKILL_LEAD_SQLITE_PATH=/tmp/from-dotenv.db\n")
	t.Setenv("UPSKILL_LEAD_SQLITE_PATH", "/tmp/from-env.db")
	t.Setenv("UPSKILL_ANALYTICS_REDACT", "(?i)email,(?i)company")

	cfg, err := Load(yamlPath, envPath)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel, "yaml over defaults")
	assert.Equal(t, "text", cfg.LogFormat, "defaults kept under a partial section")
	assert.Equal(t, StoreRedis, cfg.Sessions.Store)
	assert.Equal(t, 2*time.Hour, cfg.Sessions.TTL)
	assert.Equal(t, "localhost:6379", cfg.Sessions.RedisAddr)
	assert.Equal(t, ":7070", cfg.HTTP.Addr, ".env over yaml")
	assert.Equal(t, "/tmp/from-env.db", cfg.Leads.SQLitePath, "environment over .env")
	assert.Equal(t, []string{"(?i)email", "(?i)company"}, cfg.Analytics.Redact)
}

func TestLoad_WeakTypesFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("UPSKILL_SESSION_STORE", "redis")
	t.Setenv("UPSKILL_SESSION_DISTRIBUTED_LOCK", "true")
	t.Setenv("UPSKILL_REDIS_DB", "3")
	t.Setenv("UPSKILL_SESSION_LOCK_TTL", "5s")

	cfg, err := Load("", "")
	require.NoError(t, err)
	assert.True(t, cfg.Sessions.DistributedLock)
	assert.Equal(t, 3, cfg.Sessions.RedisDB)
	assert.Equal(t, 5*time.Second, cfg.Sessions.LockTTL)
}

func TestLoad_SessionSecurityFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	key := strings.Repeat("ab", 32)
	t.Setenv("UPSKILL_SESSION_ENCRYPTION_KEYS", key)
	t.Setenv("UPSKILL_SESSION_SCRUB_PII", "true")
	t.Setenv("UPSKILL_SESSION_PII_PATTERNS", "(?i)email,(?i)vat")

	cfg, err := Load("", "")
	require.NoError(t, err)
	assert.Equal(t, []string{key}, cfg.Sessions.EncryptionKeys)
	assert.True(t, cfg.Sessions.ScrubPII)
	assert.Equal(t, []string{"(?i)email", "(?i)vat"}, cfg.Sessions.PIIPatterns)
}

func TestLoad_DefaultEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultEnvFile), []byte("UPSKILL_LOG_FORMAT=json\n"), 0o600))
	t.Chdir(dir)

	cfg, err := Load("", "")
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_Errors(t *testing.T) {
	t.Chdir(t.TempDir())

	tests := []struct {
		name    string
		yaml    string
		env     string
		wantErr string
	}{
		{name: "unknown key", yaml: "sessions:\n  colour: blue\n", wantErr: "colour"},
		{name: "unknown session store", yaml: "sessions:\n  store: etcd\n", wantErr: `unknown session store "etcd"`},
		{name: "unknown lead store", yaml: "leads:\n  store: csv\n", wantErr: `unknown lead store "csv"`},
		{name: "postgres without dsn", yaml: "leads:\n  store: postgres\n", wantErr: "postgres_dsn is required"},
		{name: "mongo without uri", yaml: "leads:\n  store: mongo\n", wantErr: "mongo_uri is required"},
		{name: "lock without redis", yaml: "sessions:\n  distributed_lock: true\n", wantErr: "requires the redis session store"},
		{name: "stream without redis", yaml: "analytics:\n  redis_stream: events\n", wantErr: "redis_stream requires"},
		{name: "bad duration", yaml: "sessions:\n  ttl: soon\n", wantErr: "ttl"},
		{name: "bad key", yaml: "sessions:\n  encryption_keys: [abc]\n", wantErr: "encryption key 0"},
		{name: "missing explicit env file", env: "missing.env", wantErr: "missing.env"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var path string
			if tt.yaml != "" {
				path = writeFile(t, "upskill.yaml", tt.yaml)
			}
			_, err := Load(path, tt.env)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSessionConfig_Keys(t *testing.T) {
	raw := []byte(strings.Repeat("k", 32))

	keys, err := SessionConfig{EncryptionKeys: []string{
		hex.EncodeToString(raw),
		" " + base64.StdEncoding.EncodeToString(raw) + " ",
		"",
	}}.Keys()
	require.NoError(t, err)
	require.Len(t, keys, 2)
	assert.Equal(t, raw, keys[0])
	assert.Equal(t, raw, keys[1])

	keys, err = SessionConfig{}.Keys()
	require.NoError(t, err)
	assert.Nil(t, keys)

	_, err = SessionConfig{EncryptionKeys: []string{hex.EncodeToString(raw[:16])}}.Keys()
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
