// Package config loads environment configuration for the affiliate
// service. Everything is plain environment variables; a .env file is a
// local development convenience only.
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadEnv reads a .env file when one is present. Deployments set the
// environment directly and carry no .env file.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file, using process environment: %v", err)
	}
}

// GetEnv returns the variable's value, or fallback when it is unset or
// empty.
func GetEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

// GetIntEnv returns the variable parsed as an int, or fallback when it
// is unset or not a number.
func GetIntEnv(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

// IsProduction reports whether ENV is set to production. Development
// conveniences such as request logging and the permissive CORS default
// are switched off there.
func IsProduction() bool {
	return GetEnv("ENV", "development") == "production"
}
