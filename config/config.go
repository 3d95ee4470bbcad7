package config

import (
	"errors"
	"os"
)

var ErrInvalidConfig = errors.New("invalid configuration")

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
