// Package app wires configuration, parsers, description lookup and export
// into one run over a single report file.
package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goanalysis/internal/cache"
	"github.com/hyperifyio/goanalysis/internal/describe"
	"github.com/hyperifyio/goanalysis/internal/export"
	"github.com/hyperifyio/goanalysis/internal/issue"
	"github.com/hyperifyio/goanalysis/internal/registry"
	"github.com/hyperifyio/goanalysis/internal/source"
)

// ErrEmptyReport is returned when FailOnEmpty is set and no issue was found.
var ErrEmptyReport = errors.New("report contains no issues")

type App struct {
	cfg       Config
	registry  *registry.Registry
	describer describe.Describer
}

// Option customizes App construction, mainly for tests.
type Option func(*App)

// WithDescriber replaces the describer built from the configuration.
func WithDescriber(d describe.Describer) Option {
	return func(a *App) { a.describer = d }
}

func New(cfg Config, opts ...Option) (*App, error) {
	a := &App{cfg: cfg, registry: registry.New()}
	for _, opt := range opts {
		opt(a)
	}
	if a.describer == nil && cfg.Describe {
		d, err := buildDescriber(cfg)
		if err != nil {
			return nil, err
		}
		a.describer = d
	}
	if cfg.Describe {
		for id, path := range cfg.ToolCatalogs {
			c, err := describe.LoadCatalog(path)
			if err != nil {
				return nil, fmt.Errorf("load %s catalog: %w", id, err)
			}
			if err := a.registry.SetToolDescriber(id, describe.Chain{c, a.describer}); err != nil {
				return nil, err
			}
			log.Info().Str("tool", id).Int("rules", len(c)).Str("path", path).Msg("loaded tool catalog")
		}
	}
	a.registry.SetDescriber(a.describer)
	return a, nil
}

func buildDescriber(cfg Config) (describe.Describer, error) {
	var chain describe.Chain
	if cfg.CatalogPath != "" {
		c, err := describe.LoadCatalog(cfg.CatalogPath)
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		log.Info().Int("rules", len(c)).Str("path", cfg.CatalogPath).Msg("loaded rule catalog")
		chain = append(chain, c)
	}
	if cfg.LLMModel != "" {
		l := &describe.LLM{
			Client: describe.NewOpenAIClient(cfg.LLMBaseURL, cfg.LLMAPIKey),
			Model:  cfg.LLMModel,
			Tool:   cfg.Tool,
		}
		if cfg.CacheDir != "" {
			prepareCache(cfg)
			l.Cache = &cache.Store{Dir: cfg.CacheDir, StrictPerms: cfg.CacheStrictPerms}
		}
		chain = append(chain, l)
	}
	if len(chain) == 0 {
		return nil, nil
	}
	return chain, nil
}

// prepareCache applies the invalidation settings. Failures are logged only;
// a stale cache never blocks a run.
func prepareCache(cfg Config) {
	if cfg.CacheClear {
		if err := cache.ClearDir(cfg.CacheDir); err != nil {
			log.Warn().Err(err).Str("dir", cfg.CacheDir).Msg("cache clear failed")
		}
	}
	if n, err := cache.PurgeByAge(cfg.CacheDir, cfg.CacheMaxAge); err != nil {
		log.Warn().Err(err).Msg("cache purge failed")
	} else if n > 0 {
		log.Debug().Int("removed", n).Msg("purged expired descriptions")
	}
	if n, err := cache.EnforceLimit(cfg.CacheDir, cfg.CacheMaxEntries); err != nil {
		log.Warn().Err(err).Msg("cache limit enforcement failed")
	} else if n > 0 {
		log.Debug().Int("removed", n).Msg("evicted cached descriptions")
	}
}

// Parse reads the configured input with the configured tool's parser.
func (a *App) Parse() (*issue.Report, error) {
	_, report, err := a.parse()
	return report, err
}

func (a *App) parse() (*registry.Descriptor, *issue.Report, error) {
	d, err := a.registry.Get(a.cfg.Tool)
	if err != nil {
		return nil, nil, fmt.Errorf("%w (known: %v)", err, a.registry.IDs())
	}
	rf := source.NewFile(a.cfg.InputPath, a.cfg.Encoding)
	p := d.CreateParser(registry.WithXMLRoot(a.cfg.XMLRoot))
	if !p.Accepts(a.cfg.InputPath) {
		log.Warn().Str("tool", d.ID).Str("input", a.cfg.InputPath).Msg("parser does not accept this file name; parsing anyway")
	}
	report, err := p.Parse(rf)
	if err != nil {
		return nil, nil, err
	}
	for _, line := range report.Info() {
		log.Debug().Str("tool", d.ID).Msg(line)
	}
	counts := report.CountBySeverity()
	log.Info().
		Str("tool", d.ID).
		Str("input", a.cfg.InputPath).
		Int("issues", report.Len()).
		Int("error", counts[issue.Error]).
		Int("high", counts[issue.WarningHigh]).
		Int("normal", counts[issue.WarningNormal]).
		Int("low", counts[issue.WarningLow]).
		Msg("parsed report")
	return d, report, nil
}

// Run parses the input, looks up descriptions when enabled and writes the
// export.
func (a *App) Run(ctx context.Context) error {
	format, err := export.ParseFormat(a.cfg.Format)
	if err != nil {
		return err
	}
	tool, report, err := a.parse()
	if err != nil {
		return err
	}

	var descriptions map[string]string
	if tool.Describer != nil {
		descriptions, err = describe.Collect(ctx, tool, report)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Warn().Err(err).Msg("some descriptions could not be looked up")
		}
	}

	doc := export.NewDocument(filepath.Base(a.cfg.InputPath), tool.ID, report, descriptions)
	if err := export.WriteFile(a.cfg.OutputPath, format, doc); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if a.cfg.OutputPath != "" && a.cfg.OutputPath != "-" {
		log.Info().Str("out", a.cfg.OutputPath).Str("format", string(format)).Msg("wrote report")
	}

	if a.cfg.FailOnEmpty && report.IsEmpty() {
		return ErrEmptyReport
	}
	return nil
}
