package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port            string
	CORSAllowOrigin []string
	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string
	DatabaseURL     string
	Env             string
	LogLevel        string
	SessionStore    string
	RedisAddr       string
	SessionTTL      time.Duration
	MaxUploadBytes  int64
	GazetteerFile   string
	SQSQueueURL     string
	UploadsBucket   string
	UploadsPrefix   string
	RateLimitRPS    float64
	RateLimitBurst  int

	WorkerConcurrency       int
	WorkerVisibilitySeconds int
	ShutdownTimeout         time.Duration
}

var defaults = map[string]any{
	"env":                "dev",
	"port":               "8080",
	"cors_allow_origins": "http://localhost:5173",
	"object_store":       "local",
	"local_store_dir":    "./data",
	"log_level":          "info",
	"session_store":      "memory",
	"redis_addr":         "localhost:6379",
	"session_ttl":        "30m",
	"max_upload_bytes":   10 << 20,
	"uploads_s3_prefix":  "documents/",
	"rate_limit_rps":     2.0,
	"rate_limit_burst":   20,

	"worker_concurrency":             4,
	"sqs_visibility_timeout_seconds": 300,
	"shutdown_timeout":               "30s",
}

// New returns a viper instance reading defaults, optional .env files and the
// process environment, in increasing order of precedence.
func New() *viper.Viper {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	loadEnvFiles(v, ".env", "cmd/.env")
	v.AutomaticEnv()
	return v
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return FromViper(New())
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) Config {
	env := normalizeEnv(v.GetString("env"))
	dbURL := strings.TrimSpace(v.GetString("database_url"))

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	ttl := v.GetDuration("session_ttl")
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	return Config{
		Port:            v.GetString("port"),
		CORSAllowOrigin: splitAndTrim(v.GetString("cors_allow_origins")),
		ObjectStoreType: normalizeStoreType(v.GetString("object_store")),
		LocalStoreDir:   v.GetString("local_store_dir"),
		AWSRegion:       v.GetString("aws_region"),
		S3Bucket:        v.GetString("s3_bucket"),
		S3Prefix:        v.GetString("s3_prefix"),
		SSEKMSKeyID:     v.GetString("sse_kms_key_id"),
		DatabaseURL:     dbURL,
		Env:             env,
		LogLevel:        v.GetString("log_level"),
		SessionStore:    normalizeSessionStore(v.GetString("session_store")),
		RedisAddr:       v.GetString("redis_addr"),
		SessionTTL:      ttl,
		MaxUploadBytes:  v.GetInt64("max_upload_bytes"),
		GazetteerFile:   strings.TrimSpace(v.GetString("gazetteer_file")),
		SQSQueueURL:     strings.TrimSpace(v.GetString("sqs_queue_url")),
		UploadsBucket:   strings.TrimSpace(v.GetString("uploads_s3_bucket")),
		UploadsPrefix:   normalizePrefix(v.GetString("uploads_s3_prefix")),
		RateLimitRPS:    v.GetFloat64("rate_limit_rps"),
		RateLimitBurst:  v.GetInt("rate_limit_burst"),

		WorkerConcurrency:       atLeast(v.GetInt("worker_concurrency"), 1),
		WorkerVisibilitySeconds: atLeast(v.GetInt("sqs_visibility_timeout_seconds"), 30),
		ShutdownTimeout:         v.GetDuration("shutdown_timeout"),
	}
}

// loadEnvFiles merges KEY=VALUE files as defaults. Missing or malformed files
// are skipped; real environment variables always win.
func loadEnvFiles(v *viper.Viper, paths ...string) {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		fv := viper.New()
		fv.SetConfigFile(path)
		fv.SetConfigType("env")
		if err := fv.ReadInConfig(); err != nil {
			log.Printf("config: skip %s: %v", path, err)
			continue
		}
		for _, key := range fv.AllKeys() {
			v.SetDefault(key, fv.Get(key))
		}
	}
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "test":
		return "test"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}

func normalizeSessionStore(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "redis":
		return "redis"
	default:
		return "memory"
	}
}

func atLeast(v, floor int) int {
	if v < floor {
		return floor
	}
	return v
}

func normalizePrefix(raw string) string {
	prefix := strings.TrimSpace(raw)
	if prefix == "" {
		return ""
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix
}
