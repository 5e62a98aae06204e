// Package config loads application configuration from .env files and
// environment variables.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration. Log placement is
// not part of it: logging.Init runs before Load and resolves LOGS_FOLDER
// itself.
type AppConfig struct {
	DataPath              string
	SimulationsDir        string
	DefaultIterations     int
	EnableBusinessContext bool
}

// Load resolves configuration with binary-relative .env taking priority over
// the working directory, mirroring how MCP servers are usually launched.
func Load() (*AppConfig, error) {
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	simulationsDir := getEnv("SIMULATIONS_PATH", filepath.Join(dataPath, "simulations"))

	if err := os.MkdirAll(simulationsDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", simulationsDir).Msg("Failed to create simulations directory")
	}

	iterations, err := strconv.Atoi(getEnv("DEFAULT_ITERATIONS", "10000"))
	if err != nil || iterations <= 0 {
		iterations = 10000
	}

	return &AppConfig{
		DataPath:              dataPath,
		SimulationsDir:        simulationsDir,
		DefaultIterations:     iterations,
		EnableBusinessContext: getEnvBool("ENABLE_BUSINESS_CONTEXT", true),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}
