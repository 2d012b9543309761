package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goanalysis/internal/app"
	"github.com/hyperifyio/goanalysis/internal/registry"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		cfg         app.Config
		configPath  string
		envPath     string
		showVersion bool
		listTools   bool
	)

	flag.StringVar(&cfg.InputPath, "input", "", "Path to the analysis tool report to parse")
	// Defaults are applied after env and config file, see app.ApplyDefaults
	flag.StringVar(&cfg.OutputPath, "output", "", "Path to write the export; - writes to stdout (default -)")
	flag.StringVar(&cfg.Format, "format", "", "Export format: json, yaml, markdown or pdf (default json)")
	flag.StringVar(&cfg.Tool, "tool", "", "Parser id, see -list")
	flag.StringVar(&cfg.XMLRoot, "xml.root", "", "XPath selecting issue elements for the xml tool (default /issue)")
	flag.StringVar(&cfg.Encoding, "encoding", "", "Input charset, e.g. windows-1252; detected when empty")
	flag.StringVar(&cfg.CatalogPath, "catalog", "", "YAML file mapping issue types to rule descriptions")
	flag.BoolVar(&cfg.Describe, "describe", false, "Attach rule descriptions from the catalog and/or the LLM")
	flag.StringVar(&cfg.LLMBaseURL, "llm.base", "", "OpenAI-compatible base URL")
	flag.StringVar(&cfg.LLMModel, "llm.model", "", "Model name used for rule descriptions")
	flag.StringVar(&cfg.LLMAPIKey, "llm.key", "", "API key for OpenAI-compatible server")
	flag.StringVar(&cfg.CacheDir, "cache.dir", "", "Description cache directory (default .goanalysis-cache)")
	flag.DurationVar(&cfg.CacheMaxAge, "cache.maxAge", 0, "Max age for cached descriptions before purge; 0 disables")
	flag.IntVar(&cfg.CacheMaxEntries, "cache.maxEntries", 0, "Max cached descriptions kept, oldest evicted first; 0 disables")
	flag.BoolVar(&cfg.CacheClear, "cache.clear", false, "Clear the cache directory before run")
	flag.BoolVar(&cfg.CacheStrictPerms, "cache.strictPerms", false, "Restrict cache permissions (0700 dirs, 0600 files)")
	flag.BoolVar(&cfg.Verbose, "v", false, "Verbose logging")
	flag.BoolVar(&cfg.FailOnEmpty, "fail-on-empty", false, "Exit with status 2 when no issue is found")
	flag.StringVar(&configPath, "config", "", "Optional YAML or JSON config file")
	flag.StringVar(&envPath, "env", ".env", "Optional dotenv file")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.BoolVar(&listTools, "list", false, "List available parsers with their setup help and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("goanalysis %s (%s, %s)\n", app.BuildVersion, app.BuildCommit, app.BuildDate)
		return
	}
	if listTools {
		reg := registry.New()
		for _, id := range reg.IDs() {
			d, _ := reg.Get(id)
			fmt.Printf("%-16s %s\n", d.ID, d.Name)
			fmt.Printf("%-16s %s\n", "", d.HelpText())
		}
		return
	}

	if err := app.LoadEnvFiles(envPath); err != nil {
		log.Fatal().Err(err).Str("path", envPath).Msg("load env file")
	}
	app.ApplyEnvToConfig(&cfg)
	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", configPath).Msg("load config file")
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	app.ApplyDefaults(&cfg)

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := app.ValidateConfig(cfg); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		flag.Usage()
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		if errors.Is(err, app.ErrEmptyReport) {
			log.Warn().Str("input", cfg.InputPath).Msg("no issues found")
			os.Exit(2)
		}
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}

func run(cfg app.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	return a.Run(ctx)
}
