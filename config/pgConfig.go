package config

import (
	"fmt"
	"shopkeeper/config/values"
)

type DbConfig interface {
	GetConnectionString() string
}

// PostgresConfig represents the configuration needed to connect to a PostgreSQL database
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func (pc *PostgresConfig) GetConnectionString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		pc.Host, pc.Port, pc.User, pc.Password, pc.DBName, pc.SSLMode)
}

// GetPostgresConfig merges the snapshot section of the config file over the
// POSTGRES_* environment.
func GetPostgresConfig(v values.PostgresValues) *PostgresConfig {
	return &PostgresConfig{
		Host:     pick(v.Host, getEnv("POSTGRES_HOST", "localhost")),
		Port:     pick(v.Port, getEnv("POSTGRES_PORT", "5432")),
		User:     pick(v.User, getEnv("POSTGRES_USER", "postgres")),
		Password: pick(v.Password, getEnv("POSTGRES_PASSWORD", "postgres")),
		DBName:   pick(v.DBName, getEnv("POSTGRES_NAME", "postgres")),
		SSLMode:  pick(v.SSLMode, "disable"),
	}
}

func pick(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
