package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Common
	Env      string
	LogLevel string
	Port     string

	// Storage: "mongo", "pg" or "memory"
	Storage         string
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
	DatabaseURL     string

	// Upstream exchange
	BinanceAPIBase string
	ConnectTimeout time.Duration
	RequestTimeout time.Duration
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoiDef(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func durMS(key string, defMS int) time.Duration {
	return time.Duration(atoiDef(getEnv(key, strconv.Itoa(defMS)), defMS)) * time.Millisecond
}

// Load reads environment variables and applies defaults.
func Load() Config {
	return Config{
		Env:      getEnv("ENV", "local"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Port:     getEnv("PORT", "8080"),

		Storage:         getEnv("STORAGE", "mongo"),
		MongoURI:        getEnv("MONGODB_URI", ""),
		MongoDatabase:   getEnv("MONGODB_DATABASE", "pricequote"),
		MongoCollection: getEnv("MONGODB_COLLECTION", "audit_logs"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),

		BinanceAPIBase: getEnv("BINANCE_API_BASE", "https://api.binance.com/api/v3/ticker/price"),
		ConnectTimeout: durMS("CONNECT_TIMEOUT_MS", 5000),
		RequestTimeout: durMS("REQUEST_TIMEOUT_MS", 10000),
	}
}
