package configs

import (
	"flag"
	"os"

	"github.com/fg-stock-dashboard/api/internal/infrastructure/env"
)

const configEnvKey = "FG_STOCK_CONFIG"

var candidates = []string{
	"./config.yaml",
	"./config.yml",
	"/etc/fg-stock-dashboard/config.yaml",
	"/app/config.yaml", // common in Docker
}

// DetermineConfigPath resolves the config file from the --config flag, the
// FG_STOCK_CONFIG env var or the well-known locations, in that order. An empty
// result means the service runs on defaults and env overrides only.
func DetermineConfigPath(args []string) (string, error) {
	var configPath string

	fs := flag.NewFlagSet("fg-stock-dashboard-api", flag.ContinueOnError)
	fs.StringVar(&configPath, "config", "", "path to config file")
	if err := fs.Parse(args); err != nil {
		return "", err
	}

	if configPath == "" {
		configPath = env.GetString(configEnvKey, "")
	}

	if configPath == "" {
		for _, p := range candidates {
			if _, err := os.Stat(p); err == nil {
				configPath = p
				break
			}
		}
	}

	return configPath, nil
}
