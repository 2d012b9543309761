// Package describe looks up long-form explanations for issues, either from a
// static rule catalog or from an OpenAI-compatible chat model.
package describe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	yaml "gopkg.in/yaml.v3"

	"github.com/hyperifyio/goanalysis/internal/issue"
)

// Describer returns a description for an issue, or "" when it has none.
type Describer interface {
	Describe(ctx context.Context, i issue.Issue) (string, error)
}

// Catalog maps issue types (falling back to categories) to descriptions.
type Catalog map[string]string

// LoadCatalog reads a YAML mapping of rule id to description.
func LoadCatalog(path string) (Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Catalog
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return c, nil
}

func (c Catalog) Describe(_ context.Context, i issue.Issue) (string, error) {
	if d, ok := c[i.Type]; ok {
		return d, nil
	}
	return c[i.Category], nil
}

// Chain asks each describer in turn and returns the first non-empty answer.
// Errors are logged and the next describer is tried; the last error is
// returned only when nobody produced a description.
type Chain []Describer

func (c Chain) Describe(ctx context.Context, i issue.Issue) (string, error) {
	var lastErr error
	for _, d := range c {
		if d == nil {
			continue
		}
		s, err := d.Describe(ctx, i)
		if err != nil {
			log.Warn().Err(err).Str("type", i.Type).Msg("description lookup failed")
			lastErr = err
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			return s, nil
		}
	}
	return "", lastErr
}

// Key is the value descriptions are grouped by: the issue type, or the
// category when the type is undefined.
func Key(i issue.Issue) string {
	if i.Type != "" && i.Type != issue.Undefined {
		return i.Type
	}
	return i.Category
}

// Collect describes every distinct Key of the report once. Issues without a
// description are left out of the result.
func Collect(ctx context.Context, d Describer, r *issue.Report) (map[string]string, error) {
	out := map[string]string{}
	if d == nil {
		return out, nil
	}
	seen := map[string]bool{}
	var errs []error
	for _, i := range r.Issues() {
		k := Key(i)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		if err := ctx.Err(); err != nil {
			return out, err
		}
		s, err := d.Describe(ctx, i)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", k, err))
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			out[k] = s
		}
	}
	return out, errors.Join(errs...)
}
