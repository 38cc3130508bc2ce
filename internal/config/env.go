package config

import (
	"path/filepath"

	"github.com/joho/godotenv"
)

// loadEnvFiles populates the process environment from .env files sitting next
// to the config file and in the working directory. Variables that are already
// set win over file contents, and missing files are ignored.
func loadEnvFiles(configPath string) {
	candidates := []string{".env"}
	if configPath != "" {
		candidates = append(candidates, filepath.Join(filepath.Dir(configPath), ".env"))
	}
	seen := make(map[string]struct{}, len(candidates))
	for _, candidate := range candidates {
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		if _, ok := seen[abs]; ok {
			continue
		}
		seen[abs] = struct{}{}
		_ = godotenv.Load(abs)
	}
}
