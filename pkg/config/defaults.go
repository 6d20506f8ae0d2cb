// Package config provides centralized default values for the Orphan Care web server
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		// godotenv.Load never overrides variables that are already set
		if err := godotenv.Load(); err != nil {
			return
		}
		log.Println("Loaded configuration overrides from .env file")
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

// getEnvSecret behaves like getEnvString but never echoes the value
func getEnvSecret(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=****", key)
		}
		return val
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

func getEnvList(key string, defaultValue []string) []string {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	log.Printf("Config override: %s=%v", key, out)
	return out
}

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration
	ShutdownTimeout    time.Duration
	CORSOrigins        []string

	// Upstream REST API
	APIBaseURL string
	APITimeout time.Duration

	// Session
	SessionSecret      string
	SessionTTL         time.Duration
	SessionStore       string
	CookieSecure       bool
	ValidateMaxElapsed time.Duration

	// Fetching
	FetchFlightTimeout time.Duration
	FetchViewIdleTTL   time.Duration

	// Forms
	SubmitGuardTTL    time.Duration
	ConfirmTTL        time.Duration
	FormRatePerMinute int
	JanitorInterval   time.Duration
	JanitorVerbose    bool

	// Notifications
	ResendAPIKey    string
	NotifyEmailTo   string
	NotifyEmailFrom string
	NotifyFromName  string

	// Logging
	LogDirectory string
	LogToFile    bool
	LogLevel     string
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "3000")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)
	ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second)
	CORSOrigins = getEnvList("CORS_ORIGINS", []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
		"http://[::1]:3000",
	})

	// Upstream REST API
	APIBaseURL = getEnvString("API_BASE_URL", "http://localhost:5000/api")
	APITimeout = getEnvDuration("API_TIMEOUT", 10*time.Second)

	// Session
	SessionSecret = getEnvSecret("SESSION_SECRET", "")
	SessionTTL = time.Duration(getEnvInt("SESSION_TTL_HOURS", 24)) * time.Hour
	SessionStore = getEnvString("SESSION_STORE", "cookie")
	CookieSecure = getEnvBool("COOKIE_SECURE", false)
	ValidateMaxElapsed = getEnvDuration("VALIDATE_MAX_ELAPSED", 3*time.Second)

	// Fetching
	FetchFlightTimeout = getEnvDuration("FETCH_FLIGHT_TIMEOUT", 15*time.Second)
	FetchViewIdleTTL = getEnvDuration("FETCH_VIEW_IDLE_TTL", 10*time.Minute)

	// Forms
	SubmitGuardTTL = getEnvDuration("SUBMIT_GUARD_TTL", 10*time.Minute)
	ConfirmTTL = getEnvDuration("CONFIRM_TTL", 5*time.Minute)
	FormRatePerMinute = getEnvInt("FORM_RATE_PER_MINUTE", 6)
	JanitorInterval = getEnvDuration("JANITOR_INTERVAL", time.Minute)
	JanitorVerbose = getEnvBool("JANITOR_VERBOSE", false)

	// Notifications
	ResendAPIKey = getEnvSecret("RESEND_API_KEY", "")
	NotifyEmailTo = getEnvString("NOTIFY_EMAIL_TO", "")
	NotifyEmailFrom = getEnvString("NOTIFY_EMAIL_FROM", "noreply@orphancare.org")
	NotifyFromName = getEnvString("NOTIFY_EMAIL_FROM_NAME", "Orphan Care")

	// Logging
	LogDirectory = getEnvString("LOG_DIR", "logs")
	LogToFile = getEnvBool("LOG_TO_FILE", false)
	LogLevel = getEnvString("LOG_LEVEL", "info")
}
