// Package config provides centralized default values for the NOWA backend
package config

import (
	"bufio"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		file, err := os.Open(".env")
		if err != nil {
			return
		}
		defer file.Close()

		log.Println("Loading configuration overrides from .env file...")
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())

			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 {
				continue
			}

			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])

			if os.Getenv(key) == "" {
				os.Setenv(key, value)
			}
		}
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseFloat(valStr, 64); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%g (default: %g)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseBool(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%t (default: %t)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	if valStr := os.Getenv(key); valStr != "" {
		parts := strings.Split(valStr, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			log.Printf("Config override: %s (%d entries)", key, len(out))
			return out
		}
	}
	return defaultValue
}

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration

	// Origin site proxied by the offline cache controller
	OriginURL    string
	FetchTimeout time.Duration

	// Cache Controller Configuration
	CacheVersion       string
	StaticPartition    string
	DynamicPartition   string
	ShellAssets        []string
	NavigationFallback string
	DynamicEntryTTL    time.Duration
	CleanupInterval    time.Duration

	// Offline action queue
	OfflineQueueDBPath string
	TursoDatabaseURL   string
	TursoAuthToken     string
	TursoEnabled       bool
	SyncInterval       time.Duration

	// Chat Triage Configuration
	ConfidenceThreshold float64
	RateLimitWindow     time.Duration
	RateLimitMax        int
	RateLimitRedisAddr  string

	// Escalation Configuration
	EscalationLogPath string
	EscalationEmailTo string
	WhatsAppNumber    string
	EmailTimeout      time.Duration

	// Email (Resend)
	ResendAPIKey  string
	EmailFrom     string
	EmailFromName string

	// Admin surface
	AdminPassword string // bcrypt hash; plaintext values are hashed at boot
	JWTSecret     string // back-filled with a generated key when unset

	// Voice-note transcription
	AAIAPIKey string

	// PWA icon generation
	IconSourcePath string
	IconOutputDir  string
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "3000")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)

	// Origin
	OriginURL = getEnvString("ORIGIN_URL", "http://localhost:4321")
	FetchTimeout = getEnvDuration("FETCH_TIMEOUT", 10*time.Second)

	// Cache Controller
	CacheVersion = getEnvString("CACHE_VERSION", "v1.0.0")
	StaticPartition = getEnvString("STATIC_PARTITION", "static")
	DynamicPartition = getEnvString("DYNAMIC_PARTITION", "dynamic")
	ShellAssets = getEnvStringSlice("SHELL_ASSETS", []string{
		"/",
		"/index.html",
		"/assets/css/styles.css",
		"/assets/js/main.js",
	})
	NavigationFallback = getEnvString("NAVIGATION_FALLBACK", "/")
	DynamicEntryTTL = getEnvDuration("DYNAMIC_ENTRY_TTL", 24*time.Hour)
	CleanupInterval = getEnvDuration("CACHE_CLEANUP_INTERVAL", 30*time.Minute)

	// Offline queue
	OfflineQueueDBPath = getEnvString("OFFLINE_QUEUE_DB_PATH", "offline-queue.db")
	TursoDatabaseURL = getEnvString("TURSO_DATABASE_URL", "")
	TursoAuthToken = getEnvString("TURSO_AUTH_TOKEN", "")
	TursoEnabled = getEnvBool("TURSO_ENABLED", false)
	SyncInterval = getEnvDuration("SYNC_INTERVAL", 5*time.Minute)

	// Chat triage
	ConfidenceThreshold = getEnvFloat("CONFIDENCE_THRESHOLD", 0.6)
	RateLimitWindow = getEnvDuration("RATE_LIMIT_WINDOW", time.Minute)
	RateLimitMax = getEnvInt("RATE_LIMIT_MAX", 10)
	RateLimitRedisAddr = getEnvString("RATE_LIMIT_REDIS_ADDR", "")

	// Escalation
	EscalationLogPath = getEnvString("ESCALATION_LOG_PATH", "escalations.json")
	EscalationEmailTo = getEnvString("ESCALATION_EMAIL_TO", "info@nowasystems.com")
	WhatsAppNumber = getEnvString("WHATSAPP_NUMBER", "254700000000")
	EmailTimeout = getEnvDuration("EMAIL_TIMEOUT", 10*time.Second)

	// Email
	ResendAPIKey = getEnvString("RESEND_API_KEY", "")
	EmailFrom = getEnvString("EMAIL_FROM", "noreply@nowasystems.com")
	EmailFromName = getEnvString("EMAIL_FROM_NAME", "NOWA Systems")

	// Admin
	AdminPassword = getEnvString("ADMIN_PASSWORD", "")
	JWTSecret = getEnvString("JWT_SECRET", "")

	// Transcription
	AAIAPIKey = getEnvString("AAI_API_KEY", "")

	// Icons
	IconSourcePath = getEnvString("ICON_SOURCE_PATH", "web/media/logo.png")
	IconOutputDir = getEnvString("ICON_OUTPUT_DIR", "web/media/images")
}
