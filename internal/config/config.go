package config

import (
	"os"
	"strconv"
)

type Config struct {
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	JWTSecret     string
	TokenTTLHours int
	Port          string
	GinMode       string
	SeedDB        bool
}

func Load() *Config {
	return &Config{
		DBDriver:      getEnv("DB_DRIVER", "postgres"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "pmuser"),
		DBPassword:    getEnv("DB_PASSWORD", "pmpassword"),
		DBName:        getEnv("DB_NAME", "project_management"),
		JWTSecret:     getEnv("JWT_SECRET", "your-secret-key"),
		TokenTTLHours: getEnvInt("TOKEN_TTL_HOURS", 168),
		Port:          getEnv("PORT", "3000"),
		GinMode:       getEnv("GIN_MODE", "debug"),
		SeedDB:        getEnv("SEED_DB", "false") == "true",
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
