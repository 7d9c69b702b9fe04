package util

import (
	"os"
	"strconv"
	"strings"

	"github.com/OFFIS-RIT/coauthor/pkg/logger"

	"github.com/joho/godotenv"
)

// LoadEnv loads a .env file from the working directory if one exists.
// Values already present in the process environment are not overwritten.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using system environment variables")
	}
}

func GetEnv(key string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return ""
	}
	return strings.TrimSpace(value)
}

func GetEnvString(key string, defaultValue string) string {
	value := GetEnv(key)
	if value == "" {
		return defaultValue
	}

	return value
}

// GetEnvInt parses key as an integer. Missing, malformed or negative values
// fall back to defaultValue.
func GetEnvInt(key string, defaultValue int) int {
	value := GetEnv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return defaultValue
	}

	return parsed
}

func GetEnvBool(key string, defaultValue bool) bool {
	value := GetEnv(key)
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return parsed
}
