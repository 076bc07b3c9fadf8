package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultAPIURL            = "http://localhost:5000"
	DefaultMaxFileSizeMB     = 16
	DefaultAllowedExtensions = "pdf,jpg,jpeg,png"
	DefaultSubmissionMaxMB   = 16
	DefaultSubmissionMIME    = "application/pdf"
	DefaultClientIdle        = 30 * time.Minute
)

func LoadEnv() error {
	err := godotenv.Load(".env")
	if err != nil {
		log.Printf("No .env file loaded, using process environment: %v", err)
		return err
	}
	return nil
}

// GetEnv returns a required variable and exits when it is missing.
func GetEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("Environment variable %s is required but not set", key)
	}
	return value
}

func GetEnvDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func GetEnvBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Invalid boolean for %s (%q), using %v", key, value, fallback)
		return fallback
	}
	return parsed
}

func GetEnvInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid integer for %s (%q), using %d", key, value, fallback)
		return fallback
	}
	return parsed
}

func GetEnvDuration(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	if parsed, err := time.ParseDuration(value); err == nil {
		return parsed
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	log.Printf("Invalid duration for %s (%q), using %s", key, value, fallback)
	return fallback
}

// Settings mirrors the plugin's admin settings page plus the process-level knobs.
type Settings struct {
	Port              string
	LogLevel          string
	LogFormat         string
	APIURL            string
	EnableFileUpload  bool
	MaxFileSizeMB     int
	AllowedExtensions []string
	BackendTimeout    time.Duration
	ClientIdleTimeout time.Duration

	SubmissionMaxMB int
	SubmissionMIME  string

	PreferencesBackend string
	MongoURI           string
	MongoDatabase      string
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
}

func Load() Settings {
	return Settings{
		Port:               GetEnvDefault("PORT", "8080"),
		LogLevel:           GetEnvDefault("LOG_LEVEL", "info"),
		LogFormat:          GetEnvDefault("LOG_FORMAT", "json"),
		APIURL:             strings.TrimRight(GetEnvDefault("API_URL", DefaultAPIURL), "/"),
		EnableFileUpload:   GetEnvBool("ENABLE_FILE_UPLOAD", true),
		MaxFileSizeMB:      GetEnvInt("MAX_FILE_SIZE_MB", DefaultMaxFileSizeMB),
		AllowedExtensions:  ParseExtensions(GetEnvDefault("ALLOWED_EXTENSIONS", DefaultAllowedExtensions)),
		BackendTimeout:     GetEnvDuration("BACKEND_TIMEOUT", 0),
		ClientIdleTimeout:  GetEnvDuration("CLIENT_IDLE_TIMEOUT", DefaultClientIdle),
		SubmissionMaxMB:    GetEnvInt("SUBMISSION_MAX_MB", DefaultSubmissionMaxMB),
		SubmissionMIME:     GetEnvDefault("SUBMISSION_MIME", DefaultSubmissionMIME),
		PreferencesBackend: strings.ToLower(GetEnvDefault("PREFERENCES_BACKEND", "memory")),
		MongoURI:           GetEnvDefault("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:      GetEnvDefault("MONGODB_DATABASE", "LmsConnector"),
		RedisAddr:          GetEnvDefault("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:            GetEnvInt("REDIS_DB", 0),
	}
}

// ParseExtensions splits a comma-separated list, lowercases it and strips leading dots.
func ParseExtensions(raw string) []string {
	var extensions []string
	seen := map[string]bool{}
	for _, part := range strings.Split(raw, ",") {
		ext := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(part), "."))
		if ext == "" || seen[ext] {
			continue
		}
		seen[ext] = true
		extensions = append(extensions, ext)
	}
	return extensions
}

func (s Settings) Addr() string {
	return fmt.Sprintf(":%s", s.Port)
}

func (s Settings) MaxFileSizeBytes() int64 {
	return int64(s.MaxFileSizeMB) * 1024 * 1024
}

func (s Settings) SubmissionMaxBytes() int64 {
	return int64(s.SubmissionMaxMB) * 1024 * 1024
}
