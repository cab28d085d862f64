package config

import (
	"fmt"
	"os"
	"strconv"
)

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// Helper to get float64 env with default
func (c *Config) getEnvAsFloat64(key string, fallback float64) float64 {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return fallback
	}
	val, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		c.warnings = append(c.warnings, fmt.Sprintf("Invalid float64 for %s=%q, using default %v", key, valueStr, fallback))
		return fallback
	}
	return val
}

func (c *Config) getEnvAsInt(key string, fallback int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return fallback
	}
	val, err := strconv.Atoi(valueStr)
	if err != nil {
		c.warnings = append(c.warnings, fmt.Sprintf("Invalid int for %s=%q, using default %d", key, valueStr, fallback))
		return fallback
	}
	return val
}

func (c *Config) getEnvAsBool(key string, fallback bool) bool {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return fallback
	}
	val, err := strconv.ParseBool(valueStr)
	if err != nil {
		c.warnings = append(c.warnings, fmt.Sprintf("Invalid bool for %s=%q, using default %t", key, valueStr, fallback))
		return fallback
	}
	return val
}
