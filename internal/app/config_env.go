package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadEnvFiles loads dotenv files into the process environment. Missing files
// are skipped; variables already set in the environment are kept.
func LoadEnvFiles(paths ...string) error {
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return err
		}
	}
	return nil
}

// ApplyEnvToConfig fills unset fields of cfg from environment variables.
// Values already set, e.g. from flags, win; it runs before the config file is
// applied, so the precedence is flags > env > file.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}
	setString := func(dst *string, key string) {
		if *dst == "" {
			*dst = strings.TrimSpace(os.Getenv(key))
		}
	}
	setString(&cfg.Tool, "GOANALYSIS_TOOL")
	setString(&cfg.Format, "GOANALYSIS_FORMAT")
	setString(&cfg.OutputPath, "GOANALYSIS_OUTPUT")
	setString(&cfg.XMLRoot, "GOANALYSIS_XML_ROOT")
	setString(&cfg.Encoding, "GOANALYSIS_ENCODING")
	setString(&cfg.CatalogPath, "GOANALYSIS_CATALOG")
	setString(&cfg.LLMBaseURL, "LLM_BASE_URL")
	setString(&cfg.LLMModel, "LLM_MODEL")
	setString(&cfg.LLMAPIKey, "LLM_API_KEY")
	setString(&cfg.CacheDir, "CACHE_DIR")

	if cfg.CacheMaxAge == 0 {
		if d, err := time.ParseDuration(strings.TrimSpace(os.Getenv("CACHE_MAX_AGE"))); err == nil {
			cfg.CacheMaxAge = d
		}
	}
	if cfg.CacheMaxEntries == 0 {
		if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv("CACHE_MAX_ENTRIES"))); err == nil && n > 0 {
			cfg.CacheMaxEntries = n
		}
	}

	setBool := func(dst *bool, key string) {
		if *dst {
			return
		}
		switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
		case "1", "true", "yes", "on":
			*dst = true
		}
	}
	setBool(&cfg.Verbose, "VERBOSE")
	setBool(&cfg.Describe, "GOANALYSIS_DESCRIBE")
	setBool(&cfg.FailOnEmpty, "GOANALYSIS_FAIL_ON_EMPTY")
	setBool(&cfg.CacheClear, "CACHE_CLEAR")
	setBool(&cfg.CacheStrictPerms, "CACHE_STRICT_PERMS")
}
