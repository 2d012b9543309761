// Package registry maps tool identifiers to parser descriptors: how to build
// the parser, how to configure the tool and how to explain its issues.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/hyperifyio/goanalysis/internal/describe"
	"github.com/hyperifyio/goanalysis/internal/issue"
	"github.com/hyperifyio/goanalysis/internal/parser"
	"github.com/hyperifyio/goanalysis/internal/parser/polyspace"
	"github.com/hyperifyio/goanalysis/internal/parser/simulink"
	"github.com/hyperifyio/goanalysis/internal/parser/xmlissue"
)

// ErrUnknownTool is returned by Get for an unregistered id.
var ErrUnknownTool = errors.New("unknown tool")

// Options configure parser creation. Parsers ignore options they do not use.
type Options struct {
	// XMLRoot is the issue selection path of the XML parser.
	XMLRoot string
}

// Option mutates Options.
type Option func(*Options)

// WithXMLRoot sets the XML issue selection path.
func WithXMLRoot(root string) Option {
	return func(o *Options) { o.XMLRoot = root }
}

// Descriptor describes one supported tool.
type Descriptor struct {
	ID   string
	Name string
	// Help is HTML shown to users configuring the tool's report output.
	Help   string
	create func(Options) parser.Parser
	// Describer explains issues of this tool; nil means no descriptions.
	Describer describe.Describer
}

// CreateParser returns a new parser for the tool.
func (d *Descriptor) CreateParser(opts ...Option) parser.Parser {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	return d.create(o)
}

// Describe returns the long-form description of i through the tool's
// describer. A tool without one describes nothing.
func (d *Descriptor) Describe(ctx context.Context, i issue.Issue) (string, error) {
	if d.Describer == nil {
		return "", nil
	}
	return d.Describer.Describe(ctx, i)
}

// HelpText returns Help as plain text.
func (d *Descriptor) HelpText() string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(d.Help))
	if err != nil {
		return d.Help
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// Registry holds descriptors by id.
type Registry struct {
	byID map[string]*Descriptor
}

// New returns a registry with the built-in tools.
func New() *Registry {
	r := &Registry{byID: map[string]*Descriptor{}}
	for _, d := range builtins() {
		r.Register(d)
	}
	return r
}

// Register adds or replaces a descriptor.
func (r *Registry) Register(d *Descriptor) {
	r.byID[d.ID] = d
}

// Get returns the descriptor for id.
func (r *Registry) Get(id string) (*Descriptor, error) {
	d, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, id)
	}
	return d, nil
}

// IDs lists the registered ids in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SetDescriber attaches d to every registered tool that has none.
func (r *Registry) SetDescriber(d describe.Describer) {
	if d == nil {
		return
	}
	for _, desc := range r.byID {
		if desc.Describer == nil {
			desc.Describer = d
		}
	}
}

// SetToolDescriber attaches d to the tool id, replacing any describer it had.
func (r *Registry) SetToolDescriber(id string, d describe.Describer) error {
	desc, err := r.Get(id)
	if err != nil {
		return err
	}
	desc.Describer = d
	return nil
}

func builtins() []*Descriptor {
	return []*Descriptor{
		{
			ID:   "polyspace",
			Name: "Polyspace",
			Help: "<p>Export Bug Finder or Code Prover results with " +
				"<code>polyspace-report-generator -format CSV</code>; the export is tab separated " +
				"and starts with a header line.</p>",
			create: func(Options) parser.Parser { return polyspace.New() },
		},
		{
			ID:   "simulink-check",
			Name: "Simulink Check",
			Help: "<p>Save the Model Advisor report as HTML " +
				"(<code>ModelAdvisor.run(..., 'ReportFormat', 'html')</code>).</p>",
			create: func(Options) parser.Parser { return simulink.New() },
		},
		{
			ID:   "xml",
			Name: "XML issues",
			Help: "<p>Write one element per issue property, e.g. " +
				"<code>&lt;issue&gt;&lt;fileName&gt;a.c&lt;/fileName&gt;&lt;/issue&gt;</code>. " +
				"Set a custom XPath when issues are nested, e.g. <code>/report/issue</code>.</p>",
			create: func(o Options) parser.Parser { return xmlissue.New(o.XMLRoot) },
		},
	}
}
