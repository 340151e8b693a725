// Package config loads application configuration from environment variables.
package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration values. Required variables are
// enforced by must(); the process refuses to start without them. The JWT
// signing secret in particular has no fallback value.
type Config struct {
	Env        string // application environment ("dev", "prod")
	Port       string // HTTP port to listen on
	LogLevel   string // zerolog level (trace/debug/info/warn/error)
	DBUser     string
	DBPass     string // optional, empty allowed
	DBHost     string
	DBPort     string
	DBName     string
	JWTSecret  string        // secret used to sign session tokens, required
	TokenTTL   time.Duration // session token validity window
	BcryptCost int           // bcrypt work factor for password hashing
	RabbitURL  string        // AMQP broker URL, empty disables audit events
}

// Load reads configuration from the environment. Missing required values
// abort startup with a fatal log message.
func Load() Config {
	return Config{
		Env:        must("APP_ENV"),
		Port:       must("APP_PORT"),
		LogLevel:   envStr("LOG_LEVEL", "info"),
		DBUser:     must("DB_USER"),
		DBPass:     os.Getenv("DB_PASS"),
		DBHost:     must("DB_HOST"),
		DBPort:     must("DB_PORT"),
		DBName:     must("DB_NAME"),
		JWTSecret:  must("JWT_SECRET"),
		TokenTTL:   time.Duration(envInt("TOKEN_TTL_HOURS", 24)) * time.Hour,
		BcryptCost: envInt("BCRYPT_COST", 10),
		RabbitURL:  envStr("RABBITMQ_URL", ""),
	}
}

// must retrieves a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}
