package app

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperifyio/goanalysis/internal/describe"
	"github.com/hyperifyio/goanalysis/internal/export"
	"github.com/hyperifyio/goanalysis/internal/issue"
	"github.com/hyperifyio/goanalysis/internal/registry"
)

const twoIssues = `<report>
  <issue><fileName>a.c</fileName><type>NullDeref</type><severity>ERROR</severity><message>null</message></issue>
  <issue><fileName>b.c</fileName><type>Unused</type><severity>LOW</severity><message>unused</message></issue>
</report>`

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestRun_WritesJSONDocument(t *testing.T) {
	in := writeInput(t, "issues.xml", twoIssues)
	out := filepath.Join(t.TempDir(), "out.json")

	a, err := New(Config{InputPath: in, OutputPath: out, Format: "json", Tool: "xml", XMLRoot: "/report/issue"},
		WithDescriber(describe.Catalog{"NullDeref": "Pointer may be null."}))
	require.NoError(t, err)
	require.NoError(t, a.Run(context.Background()))

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	var doc export.Document
	require.NoError(t, json.Unmarshal(b, &doc))
	assert.Equal(t, "issues.xml", doc.Source)
	assert.Equal(t, "xml", doc.Tool)
	require.Len(t, doc.Issues, 2)
	assert.Equal(t, issue.Error, doc.Issues[0].Severity)
	assert.Equal(t, issue.WarningLow, doc.Issues[1].Severity)
	assert.Equal(t, map[string]string{"NullDeref": "Pointer may be null."}, doc.Descriptions)
}

func TestRun_FailOnEmpty(t *testing.T) {
	in := writeInput(t, "issues.xml", twoIssues)
	out := filepath.Join(t.TempDir(), "out.md")

	// the default root does not match nested issues
	a, err := New(Config{InputPath: in, OutputPath: out, Format: "markdown", Tool: "xml", FailOnEmpty: true})
	require.NoError(t, err)
	err = a.Run(context.Background())
	assert.True(t, errors.Is(err, ErrEmptyReport))

	_, statErr := os.Stat(out)
	assert.NoError(t, statErr, "output is written before the empty check")
}

func TestParse_UnknownTool(t *testing.T) {
	a, err := New(Config{InputPath: "x", Tool: "nope"})
	require.NoError(t, err)
	_, err = a.Parse()
	assert.True(t, errors.Is(err, registry.ErrUnknownTool))
}

func TestParse_PolyspaceFile(t *testing.T) {
	header := "ID\tFamily\tGroup\tColor\tNew\tCheck\tInformation\tFunction\tFile\tStatus\tSeverity\tComment\tKey\tLine\tCol"
	row := "7\tRun-time Check\tOverflow\tOrange\tno\tOverflow\tmay overflow\tf()\tsrc/f.c\tUnreviewed\tHigh\tc\tk\t12\t4"
	in := writeInput(t, "results.tsv", header+"\n"+row+"\n")

	a, err := New(Config{InputPath: in, Tool: "polyspace"})
	require.NoError(t, err)
	report, err := a.Parse()
	require.NoError(t, err)
	require.Equal(t, 1, report.Len())
	assert.Equal(t, "src/f.c", report.Get(0).FileName)
}

func TestNew_DescriberFromCatalog(t *testing.T) {
	catalog := writeInput(t, "rules.yaml", "Unused: Remove it.\n")
	a, err := New(Config{Tool: "xml", Describe: true, CatalogPath: catalog})
	require.NoError(t, err)
	require.NotNil(t, a.describer)

	_, err = New(Config{Tool: "xml", Describe: true, CatalogPath: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}

func TestRun_ToolCatalogOverridesGlobal(t *testing.T) {
	in := writeInput(t, "issues.xml", twoIssues)
	out := filepath.Join(t.TempDir(), "out.json")
	global := writeInput(t, "rules.yaml", "NullDeref: Generic null rule.\nUnused: Remove it.\n")
	xmlRules := writeInput(t, "xml-rules.yaml", "NullDeref: XML null rule.\n")

	cfg := Config{
		InputPath:    in,
		OutputPath:   out,
		Format:       "json",
		Tool:         "xml",
		XMLRoot:      "/report/issue",
		Describe:     true,
		CatalogPath:  global,
		ToolCatalogs: map[string]string{"xml": xmlRules, "polyspace": xmlRules},
	}
	a, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, a.Run(context.Background()))

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	var doc export.Document
	require.NoError(t, json.Unmarshal(b, &doc))
	assert.Equal(t, map[string]string{"NullDeref": "XML null rule.", "Unused": "Remove it."}, doc.Descriptions)

	// a tool catalog alone is enough to describe
	cfg.CatalogPath = ""
	a, err = New(cfg)
	require.NoError(t, err)
	require.NoError(t, a.Run(context.Background()))
	b, err = os.ReadFile(out)
	require.NoError(t, err)
	doc = export.Document{}
	require.NoError(t, json.Unmarshal(b, &doc))
	assert.Equal(t, map[string]string{"NullDeref": "XML null rule."}, doc.Descriptions)

	cfg.ToolCatalogs = map[string]string{"pmd": xmlRules}
	_, err = New(cfg)
	assert.ErrorIs(t, err, registry.ErrUnknownTool)
}
