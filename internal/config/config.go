package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all server settings, loaded from the environment.
type Config struct {
	Port        int
	CamerasPort int

	// CameraNames maps camera source IPs to session names.
	CameraNames map[string]string

	// CascadePath is the Haar cascade file for face localization.
	CascadePath string

	// EmotionServiceURL is the endpoint of the emotion classification service.
	EmotionServiceURL     string
	EmotionServiceTimeout time.Duration

	// AnalyzeEveryN is the sampling interval: a full analysis runs once per
	// N incoming frames.
	AnalyzeEveryN int

	DatabasePath   string
	LogDirectory   string
	DashboardToken string
}

// Load reads configuration from a .env file (when present) and the process
// environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return &Config{
		Port:                  getEnvAsInt("PORT", 8080),
		CamerasPort:           getEnvAsInt("CAMERAS_PORT", 8090),
		CameraNames:           parseCameraNames(getEnv("CAMERA_NAMES", "")),
		CascadePath:           getEnv("CASCADE_PATH", filepath.Join(".", "models", "haarcascade_frontalface_default.xml")),
		EmotionServiceURL:     getEnv("EMOTION_SERVICE_URL", "http://localhost:5000"),
		EmotionServiceTimeout: time.Duration(getEnvAsInt("EMOTION_SERVICE_TIMEOUT", 10)) * time.Second,
		AnalyzeEveryN:         getEnvAsInt("ANALYZE_EVERY_N", 5),
		DatabasePath:          getEnv("DATABASE_PATH", filepath.Join(".", "edumood.db")),
		LogDirectory:          getEnv("LOG_DIR", filepath.Join(".", "logs")),
		DashboardToken:        getEnv("DASHBOARD_TOKEN", ""),
	}
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.AnalyzeEveryN < 1 {
		return fmt.Errorf("ANALYZE_EVERY_N must be a positive integer, got %d", c.AnalyzeEveryN)
	}
	if c.CascadePath == "" {
		return fmt.Errorf("CASCADE_PATH must not be empty")
	}
	return nil
}

// parseCameraNames parses "ip=name,ip=name" pairs.
func parseCameraNames(raw string) map[string]string {
	names := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) == 2 && parts[0] != "" && parts[1] != "" {
			names[parts[0]] = parts[1]
		}
	}
	return names
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
