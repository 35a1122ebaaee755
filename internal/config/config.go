package config

import (
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Dictionary DictionaryConfig `yaml:"dictionary"`
	Languages  LanguagesConfig  `yaml:"languages"`
	Lookup     LookupConfig     `yaml:"lookup"`
	Log        LogConfig        `yaml:"log"`
	CORS       CORSConfig       `yaml:"cors"`
}

// CORSConfig holds CORS settings.
// An empty AllowedOrigins disables CORS.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Content-Type,X-Request-Id"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes" env:"SERVER_MAX_UPLOAD_BYTES" env-default:"268435456"`
	// WriteRateLimit caps import and reset requests per client IP per minute.
	WriteRateLimit  int           `yaml:"write_rate_limit" env:"SERVER_WRITE_RATE_LIMIT" env-default:"10"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	AutoMigrate     bool          `yaml:"auto_migrate"       env:"DATABASE_AUTO_MIGRATE"       env-default:"true"`
}

// DictionaryConfig holds dictionary import settings. MaxUnpackedBytes bounds
// the decompressed size of one archive.
type DictionaryConfig struct {
	ImportChunkSize  int   `yaml:"import_chunk_size"  env:"DICT_IMPORT_CHUNK_SIZE"  env-default:"1000"`
	MaxUnpackedBytes int64 `yaml:"max_unpacked_bytes" env:"DICT_MAX_UNPACKED_BYTES" env-default:"1073741824"`
}

// LanguagesConfig selects the deinflection languages loaded at startup.
type LanguagesConfig struct {
	// Enabled is a comma-separated list of language codes.
	Enabled string `yaml:"enabled"   env:"LANGUAGES_ENABLED"   env-default:"en,ja,es,ko"`
	// TableDir, when set, may hold <code>.json tables that replace the
	// embedded ones.
	TableDir string `yaml:"table_dir" env:"LANGUAGES_TABLE_DIR"`
}

// LookupConfig bounds the work done by a single lookup.
type LookupConfig struct {
	MaxScanLength int `yaml:"max_scan_length" env:"LOOKUP_MAX_SCAN_LENGTH" env-default:"16"`
	MaxResults    int `yaml:"max_results"     env:"LOOKUP_MAX_RESULTS"     env-default:"50"`
	MaxKeys       int `yaml:"max_keys"        env:"LOOKUP_MAX_KEYS"        env-default:"512"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// Codes returns the enabled language codes, trimmed, without empties.
func (c LanguagesConfig) Codes() []string {
	parts := strings.Split(c.Enabled, ",")
	codes := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			codes = append(codes, p)
		}
	}
	return codes
}
