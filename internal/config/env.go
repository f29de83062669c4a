package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix marks environment variables that override config values:
// SITEGEN_<SECTION>_<KEY>, e.g. SITEGEN_SITE_BASE_URL.
const EnvPrefix = "SITEGEN_"

// Process settings sharing EnvPrefix. They are never merged into a Config,
// so a token cannot surface in template variables.
const (
	EnvDeployToken = EnvPrefix + "DEPLOY_TOKEN"
	EnvLogLevel    = EnvPrefix + "LOG_LEVEL"
)

var reservedEnv = map[string]bool{
	EnvDeployToken: true,
	EnvLogLevel:    true,
}

// envFiles are tried in order by LoadDotEnv.
var envFiles = []string{".env", ".env.local"}

// LoadDotEnv loads .env files found in dir into the process environment.
// Variables already set are not overwritten. It returns the files loaded.
func LoadDotEnv(dir string) ([]string, error) {
	var loaded []string
	for _, name := range envFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return loaded, err
		}
		if err := godotenv.Load(path); err != nil {
			return loaded, fmt.Errorf("load %s: %w", path, err)
		}
		loaded = append(loaded, path)
	}
	return loaded, nil
}

// EnvOverrides extracts SITEGEN_<SECTION>_<KEY>=value entries from environ.
// Section and key are lower-cased; the key keeps its inner underscores.
// Reserved process settings (EnvDeployToken, EnvLogLevel) are skipped.
func EnvOverrides(environ []string) Overrides {
	out := Overrides{}
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, EnvPrefix) || reservedEnv[name] {
			continue
		}
		section, key, ok := strings.Cut(strings.TrimPrefix(name, EnvPrefix), "_")
		if !ok || section == "" || key == "" {
			continue
		}
		section, key = strings.ToLower(section), strings.ToLower(key)
		if out[section] == nil {
			out[section] = map[string]string{}
		}
		out[section][key] = value
	}
	return out
}
