// Package config provides configuration helpers for go-officevoice commands.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Default assistant configuration.
const (
	DefaultServerPort  = "5000"
	DefaultCommandPath = "/office/assistant/command"
	DefaultStatusPath  = "/office/assistant/status"
	DefaultWebPort     = "8090"
)

// ServerURL returns the backend base URL from OFFICE_SERVER_URL.
// Falls back to the provided default if not set.
func ServerURL(defaultURL string) string {
	if url := os.Getenv("OFFICE_SERVER_URL"); url != "" {
		return url
	}
	return defaultURL
}

// ServerURLRequired returns the backend base URL from OFFICE_SERVER_URL.
// Exits with a usage hint if not set.
func ServerURLRequired() string {
	url := os.Getenv("OFFICE_SERVER_URL")
	if url == "" {
		fmt.Fprintln(os.Stderr, "Error: OFFICE_SERVER_URL environment variable is required")
		fmt.Fprintln(os.Stderr, "Usage: OFFICE_SERVER_URL=http://localhost:5000 go run ./cmd/...")
		os.Exit(1)
	}
	return url
}

// Env returns the value of an environment variable or a default.
func Env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// EnvBool returns a boolean environment variable or a default.
// Accepts 1/0, true/false, yes/no.
func EnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	switch v {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
