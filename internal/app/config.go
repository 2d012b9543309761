package app

import "time"

// Config holds runtime configuration for the application.
type Config struct {
	InputPath  string
	OutputPath string
	Format     string

	// Parsing
	Tool     string
	XMLRoot  string
	Encoding string

	// Descriptions
	CatalogPath  string
	// ToolCatalogs maps a tool id to a catalog consulted before CatalogPath
	// for that tool's issues.
	ToolCatalogs map[string]string
	LLMBaseURL   string
	LLMModel     string
	LLMAPIKey    string
	Describe     bool

	// Cache
	CacheDir         string
	CacheMaxAge      time.Duration
	CacheMaxEntries  int
	CacheClear       bool
	CacheStrictPerms bool

	// Behavior
	Verbose     bool
	FailOnEmpty bool
}

// Defaults applied after flags, environment and config file.
const (
	outputDefault   = "-"
	formatDefault   = "json"
	cacheDirDefault = ".goanalysis-cache"
)

// ApplyDefaults fills settings still unset once every source was applied.
// Flags are registered without defaults so an explicit value, even one equal
// to the default, is never mistaken for an unset one.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = outputDefault
	}
	if cfg.Format == "" {
		cfg.Format = formatDefault
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = cacheDirDefault
	}
}
