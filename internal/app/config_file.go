package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/hyperifyio/goanalysis/internal/export"
)

// FileConfig is the single-file configuration schema.
type FileConfig struct {
	Input    string `yaml:"input" json:"input"`
	Output   string `yaml:"output" json:"output"`
	Format   string `yaml:"format" json:"format"`
	Tool     string `yaml:"tool" json:"tool"`
	Encoding string `yaml:"encoding" json:"encoding"`

	XML struct {
		Root string `yaml:"root" json:"root"`
	} `yaml:"xml" json:"xml"`

	Catalog  string            `yaml:"catalog" json:"catalog"`
	Catalogs map[string]string `yaml:"catalogs" json:"catalogs"`
	Describe bool              `yaml:"describe" json:"describe"`

	LLM struct {
		BaseURL string `yaml:"base" json:"base"`
		Model   string `yaml:"model" json:"model"`
		APIKey  string `yaml:"key" json:"key"`
	} `yaml:"llm" json:"llm"`

	Cache struct {
		Dir         string        `yaml:"dir" json:"dir"`
		MaxAge      time.Duration `yaml:"maxAge" json:"maxAge"`
		MaxEntries  int           `yaml:"maxEntries" json:"maxEntries"`
		Clear       bool          `yaml:"clear" json:"clear"`
		StrictPerms bool          `yaml:"strictPerms" json:"strictPerms"`
	} `yaml:"cache" json:"cache"`

	Verbose     bool `yaml:"verbose" json:"verbose"`
	FailOnEmpty bool `yaml:"failOnEmpty" json:"failOnEmpty"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig fills fields of cfg that are still unset from fc, so flags
// and environment win over the file.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if cfg.InputPath == "" && fc.Input != "" {
		cfg.InputPath = fc.Input
	}
	if cfg.OutputPath == "" && fc.Output != "" {
		cfg.OutputPath = fc.Output
	}
	if cfg.Format == "" && fc.Format != "" {
		cfg.Format = fc.Format
	}
	if cfg.Tool == "" && fc.Tool != "" {
		cfg.Tool = fc.Tool
	}
	if cfg.Encoding == "" && fc.Encoding != "" {
		cfg.Encoding = fc.Encoding
	}
	if cfg.XMLRoot == "" && fc.XML.Root != "" {
		cfg.XMLRoot = fc.XML.Root
	}
	if cfg.CatalogPath == "" && fc.Catalog != "" {
		cfg.CatalogPath = fc.Catalog
	}
	for id, path := range fc.Catalogs {
		if _, ok := cfg.ToolCatalogs[id]; ok || path == "" {
			continue
		}
		if cfg.ToolCatalogs == nil {
			cfg.ToolCatalogs = map[string]string{}
		}
		cfg.ToolCatalogs[id] = path
	}
	if !cfg.Describe && fc.Describe {
		cfg.Describe = true
	}

	if cfg.LLMBaseURL == "" && fc.LLM.BaseURL != "" {
		cfg.LLMBaseURL = fc.LLM.BaseURL
	}
	if cfg.LLMModel == "" && fc.LLM.Model != "" {
		cfg.LLMModel = fc.LLM.Model
	}
	if cfg.LLMAPIKey == "" && fc.LLM.APIKey != "" {
		cfg.LLMAPIKey = fc.LLM.APIKey
	}

	if cfg.CacheDir == "" && fc.Cache.Dir != "" {
		cfg.CacheDir = fc.Cache.Dir
	}
	if cfg.CacheMaxAge == 0 && fc.Cache.MaxAge > 0 {
		cfg.CacheMaxAge = fc.Cache.MaxAge
	}
	if cfg.CacheMaxEntries == 0 && fc.Cache.MaxEntries > 0 {
		cfg.CacheMaxEntries = fc.Cache.MaxEntries
	}
	if !cfg.CacheClear && fc.Cache.Clear {
		cfg.CacheClear = true
	}
	if !cfg.CacheStrictPerms && fc.Cache.StrictPerms {
		cfg.CacheStrictPerms = true
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
	if !cfg.FailOnEmpty && fc.FailOnEmpty {
		cfg.FailOnEmpty = true
	}
}

// ValidateConfig checks required settings.
func ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.InputPath) == "" {
		return errors.New("config: input path is required")
	}
	if strings.TrimSpace(cfg.Tool) == "" {
		return errors.New("config: tool is required")
	}
	f, err := export.ParseFormat(cfg.Format)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if f == export.PDF && (cfg.OutputPath == "" || cfg.OutputPath == "-") {
		return errors.New("config: pdf format needs an output file")
	}
	if cfg.Describe && cfg.CatalogPath == "" && len(cfg.ToolCatalogs) == 0 && cfg.LLMModel == "" {
		return errors.New("config: describe needs a catalog or llm.model (or set LLM_MODEL)")
	}
	if cfg.CacheMaxEntries < 0 || cfg.CacheMaxAge < 0 {
		return errors.New("config: negative cache limits are not allowed")
	}
	return nil
}
