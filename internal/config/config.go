// Package config loads the layered runtime configuration of the upskill binary.
//
// Layers, lowest precedence first: built-in defaults, the YAML config file,
// the .env file, then UPSKILL_* environment variables.
package config

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable the loader reads.
const EnvPrefix = "UPSKILL_"

// DefaultEnvFile is read when present and no other env file is named.
const DefaultEnvFile = ".env"

// ErrInvalidConfig marks a configuration that cannot be wired.
var ErrInvalidConfig = errors.New("invalid config")

// Session store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Lead store backends.
const (
	LeadsMemory   = "memory"
	LeadsSQLite   = "sqlite"
	LeadsPostgres = "postgres"
	LeadsMongo    = "mongo"
)

// Config is the resolved configuration.
type Config struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	// CatalogPath points to a YAML catalog. Empty uses the built-in catalog.
	CatalogPath string `mapstructure:"catalog"`

	HTTP      HTTPConfig      `mapstructure:"http"`
	Sessions  SessionConfig   `mapstructure:"sessions"`
	Leads     LeadConfig      `mapstructure:"leads"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
}

// HTTPConfig configures the HTTP adapter.
type HTTPConfig struct {
	Addr    string `mapstructure:"addr"`
	Metrics bool   `mapstructure:"metrics"`
}

// SessionConfig selects where wizard sessions live and how they are protected.
type SessionConfig struct {
	Store         string        `mapstructure:"store"`
	Dir           string        `mapstructure:"dir"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	TTL           time.Duration `mapstructure:"ttl"`

	// DistributedLock serializes writers across processes through Redis.
	DistributedLock bool          `mapstructure:"distributed_lock"`
	LockTTL         time.Duration `mapstructure:"lock_ttl"`

	// EncryptionKeys are hex or base64 AES-256 keys. The first one encrypts,
	// the others only decrypt.
	EncryptionKeys []string `mapstructure:"encryption_keys"`

	// ScrubPII masks contact fields of finished sessions before they are stored.
	ScrubPII    bool     `mapstructure:"scrub_pii"`
	PIIPatterns []string `mapstructure:"pii_patterns"`
}

// LeadConfig selects the lead store backend and its connection settings.
type LeadConfig struct {
	Store           string `mapstructure:"store"`
	SQLitePath      string `mapstructure:"sqlite_path"`
	PostgresDSN     string `mapstructure:"postgres_dsn"`
	MongoURI        string `mapstructure:"mongo_uri"`
	MongoDatabase   string `mapstructure:"mongo_database"`
	MongoCollection string `mapstructure:"mongo_collection"`
}

// AnalyticsConfig selects the analytics sinks and the fields they redact.
type AnalyticsConfig struct {
	Log          bool     `mapstructure:"log"`
	Prometheus   bool     `mapstructure:"prometheus"`
	RedisStream  string   `mapstructure:"redis_stream"`
	StreamMaxLen int64    `mapstructure:"stream_max_len"`
	Redact       []string `mapstructure:"redact"`
}

func defaults() map[string]any {
	return map[string]any{
		"log_level":  "info",
		"log_format": "text",
		"http": map[string]any{
			"addr":    ":8080",
			"metrics": true,
		},
		"sessions": map[string]any{
			"store":      StoreFile,
			"dir":        ".upskill/sessions",
			"redis_addr": "localhost:6379",
			"ttl":        "24h",
			"lock_ttl":   "30s",
			"pii_patterns": []any{
				"(?i)email", "(?i)phone", "(?i)contact_name",
			},
		},
		"leads": map[string]any{
			"store":            LeadsMemory,
			"sqlite_path":      ".upskill/leads.db",
			"mongo_database":   "upskill",
			"mongo_collection": "leads",
		},
		"analytics": map[string]any{
			"log":            true,
			"stream_max_len": 10000,
			"redact": []any{
				"(?i)email", "(?i)phone", "(?i)name",
			},
		},
	}
}

// envKeys maps environment variable suffixes to config paths.
var envKeys = map[string]string{
	"LOG_LEVEL":                "log_level",
	"LOG_FORMAT":               "log_format",
	"CATALOG":                  "catalog",
	"HTTP_ADDR":                "http.addr",
	"HTTP_METRICS":             "http.metrics",
	"SESSION_STORE":            "sessions.store",
	"SESSION_DIR":              "sessions.dir",
	"REDIS_ADDR":               "sessions.redis_addr",
	"REDIS_PASSWORD":           "sessions.redis_password",
	"REDIS_DB":                 "sessions.redis_db",
	"SESSION_TTL":              "sessions.ttl",
	"SESSION_DISTRIBUTED_LOCK": "sessions.distributed_lock",
	"SESSION_LOCK_TTL":         "sessions.lock_ttl",
	"SESSION_ENCRYPTION_KEYS":  "sessions.encryption_keys",
	"SESSION_SCRUB_PII":        "sessions.scrub_pii",
	"SESSION_PII_PATTERNS":     "sessions.pii_patterns",
	"LEAD_STORE":               "leads.store",
	"LEAD_SQLITE_PATH":         "leads.sqlite_path",
	"LEAD_POSTGRES_DSN":        "leads.postgres_dsn",
	"LEAD_MONGO_URI":           "leads.mongo_uri",
	"LEAD_MONGO_DATABASE":      "leads.mongo_database",
	"LEAD_MONGO_COLLECTION":    "leads.mongo_collection",
	"ANALYTICS_LOG":            "analytics.log",
	"ANALYTICS_PROMETHEUS":     "analytics.prometheus",
	"ANALYTICS_REDIS_STREAM":   "analytics.redis_stream",
	"ANALYTICS_STREAM_MAX_LEN": "analytics.stream_max_len",
	"ANALYTICS_REDACT":         "analytics.redact",
}

// Load resolves the configuration. configPath and envFile are optional;
// a missing default .env file is not an error.
func Load(configPath, envFile string) (*Config, error) {
	values := defaults()

	if configPath != "" {
		fileValues, err := readYAML(configPath)
		if err != nil {
			return nil, err
		}
		merge(values, fileValues)
	}

	dotenv, err := readEnvFile(envFile)
	if err != nil {
		return nil, err
	}
	applyEnv(values, dotenv)
	applyEnv(values, environ())

	cfg := &Config{}
	if err := decode(values, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readYAML(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	out := map[string]any{}
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return out, nil
}

func readEnvFile(path string) (map[string]string, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultEnvFile
	}
	values, err := godotenv.Read(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read env file %s: %w", path, err)
	}
	return values, nil
}

func environ() map[string]string {
	out := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(k, EnvPrefix) {
			out[k] = v
		}
	}
	return out
}

func applyEnv(values map[string]any, env map[string]string) {
	for name, v := range env {
		key, found := strings.CutPrefix(name, EnvPrefix)
		if !found {
			continue
		}
		path, ok := envKeys[key]
		if !ok {
			continue
		}
		set(values, path, v)
	}
}

func set(values map[string]any, path string, v any) {
	parts := strings.Split(path, ".")
	m := values
	for _, p := range parts[:len(parts)-1] {
		child, ok := m[p].(map[string]any)
		if !ok {
			child = map[string]any{}
			m[p] = child
		}
		m = child
	}
	m[parts[len(parts)-1]] = v
}

// merge copies src into dst, descending into nested maps.
func merge(dst, src map[string]any) {
	for k, v := range src {
		srcMap, srcIsMap := v.(map[string]any)
		dstMap, dstIsMap := dst[k].(map[string]any)
		if srcIsMap && dstIsMap {
			merge(dstMap, srcMap)
			continue
		}
		dst[k] = v
	}
}

func decode(values map[string]any, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(values); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Validate checks that the selected backends have what they need.
func (c *Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	switch c.Sessions.Store {
	case StoreMemory, StoreFile:
		if c.Sessions.DistributedLock {
			fail("distributed lock requires the redis session store")
		}
		if c.Sessions.Store == StoreFile && c.Sessions.Dir == "" {
			fail("sessions.dir is required for the file session store")
		}
	case StoreRedis:
		if c.Sessions.RedisAddr == "" {
			fail("sessions.redis_addr is required for the redis session store")
		}
	default:
		fail("unknown session store %q", c.Sessions.Store)
	}
	if c.Sessions.TTL < 0 || c.Sessions.LockTTL < 0 {
		fail("session durations must not be negative")
	}
	if _, err := c.Sessions.Keys(); err != nil {
		errs = append(errs, err)
	}

	switch c.Leads.Store {
	case LeadsMemory:
	case LeadsSQLite:
		if c.Leads.SQLitePath == "" {
			fail("leads.sqlite_path is required for the sqlite lead store")
		}
	case LeadsPostgres:
		if c.Leads.PostgresDSN == "" {
			fail("leads.postgres_dsn is required for the postgres lead store")
		}
	case LeadsMongo:
		if c.Leads.MongoURI == "" {
			fail("leads.mongo_uri is required for the mongo lead store")
		}
	default:
		fail("unknown lead store %q", c.Leads.Store)
	}

	if c.Analytics.RedisStream != "" && c.Sessions.Store != StoreRedis {
		fail("analytics.redis_stream requires the redis session store")
	}
	return errors.Join(errs...)
}

// Keys decodes the encryption keys. It returns nil when encryption is off.
func (s SessionConfig) Keys() ([][]byte, error) {
	var keys [][]byte
	for i, raw := range s.EncryptionKeys {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		key, err := decodeKey(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: encryption key %d: %v", ErrInvalidConfig, i, err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func decodeKey(raw string) ([]byte, error) {
	if key, err := hex.DecodeString(raw); err == nil && len(key) == 32 {
		return key, nil
	}
	if key, err := base64.StdEncoding.DecodeString(raw); err == nil && len(key) == 32 {
		return key, nil
	}
	return nil, errors.New("want 32 bytes as 64 hex digits or base64")
}
