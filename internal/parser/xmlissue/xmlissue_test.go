package xmlissue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperifyio/goanalysis/internal/issue"
	"github.com/hyperifyio/goanalysis/internal/parser"
	"github.com/hyperifyio/goanalysis/internal/source"
)

const fullIssue = `<?xml version="1.0" encoding="UTF-8"?>
<issue>
  <fileName>src/main/Foo.java</fileName>
  <lineStart>10</lineStart>
  <lineEnd>12</lineEnd>
  <columnStart>3</columnStart>
  <columnEnd>9</columnEnd>
  <lineRanges>
    <lineRange><start>20</start><end>21</end></lineRange>
    <lineRange><start>30</start><end>35</end></lineRange>
  </lineRanges>
  <category>Style</category>
  <type>UnusedImport</type>
  <severity>ERROR</severity>
  <message>Unused import</message>
  <description>Remove the import</description>
  <packageName>com.example</packageName>
  <moduleName>core</moduleName>
  <origin>checkstyle</origin>
  <fingerprint>abc123</fingerprint>
  <additionalProperties>extra</additionalProperties>
</issue>`

func parseXML(t *testing.T, p *Parser, content string) *issue.Report {
	t.Helper()
	report, err := p.Parse(source.FromString("issues.xml", content))
	require.NoError(t, err)
	return report
}

func TestParse_RoundTripsEveryField(t *testing.T) {
	report := parseXML(t, Default(), fullIssue)

	require.Equal(t, 1, report.Len())
	want := issue.Issue{
		FileName:             "src/main/Foo.java",
		LineStart:            10,
		LineEnd:              12,
		ColumnStart:          3,
		ColumnEnd:            9,
		LineRanges:           []issue.LineRange{{Start: 20, End: 21}, {Start: 30, End: 35}},
		Category:             "Style",
		Type:                 "UnusedImport",
		Severity:             issue.Error,
		Message:              "Unused import",
		Description:          "Remove the import",
		PackageName:          "com.example",
		ModuleName:           "core",
		Origin:               "checkstyle",
		Fingerprint:          "abc123",
		AdditionalProperties: "extra",
	}
	assert.Equal(t, want, report.Get(0))
}

func TestParse_InvalidRangeIsDroppedAlone(t *testing.T) {
	report := parseXML(t, Default(), `<issue>
  <lineRanges>
    <lineRange><start>5</start><end>five</end></lineRange>
    <lineRange><start>7</start><end>9</end></lineRange>
    <lineRange><start>1</start></lineRange>
    <lineRange><start></start><end>2</end></lineRange>
  </lineRanges>
</issue>`)

	require.Equal(t, 1, report.Len())
	assert.Equal(t, []issue.LineRange{{Start: 7, End: 9}}, report.Get(0).LineRanges)
}

func TestParse_SeverityFallsBackToNormal(t *testing.T) {
	for _, sev := range []string{"<severity>BLOCKER</severity>", "<severity/>", ""} {
		report := parseXML(t, Default(), "<issue>"+sev+"</issue>")
		require.Equal(t, 1, report.Len())
		assert.Equal(t, issue.WarningNormal, report.Get(0).Severity, sev)
	}
}

func TestParse_MissingFieldsAreDefaulted(t *testing.T) {
	report := parseXML(t, Default(), "<issue><message>only</message></issue>")

	require.Equal(t, 1, report.Len())
	got := report.Get(0)
	assert.Equal(t, "only", got.Message)
	assert.Equal(t, issue.Undefined, got.FileName)
	assert.Zero(t, got.LineStart)
	assert.Empty(t, got.LineRanges)
}

func TestParse_CustomRootKeepsDocumentOrder(t *testing.T) {
	doc := `<report>
  <issue><message>first</message></issue>
  <group><issue><message>nested</message></issue></group>
  <issue><message>second</message></issue>
</report>`

	report := parseXML(t, New("/report/issue"), doc)
	require.Equal(t, 2, report.Len())
	assert.Equal(t, "first", report.Get(0).Message)
	assert.Equal(t, "second", report.Get(1).Message)

	all := parseXML(t, New("//issue"), doc)
	require.Equal(t, 3, all.Len())
	assert.Equal(t, "nested", all.Get(1).Message)

	// the default path only matches a top-level issue element
	assert.True(t, parseXML(t, New("  "), doc).IsEmpty())
}

func TestParse_InvalidRootIsParsingError(t *testing.T) {
	_, err := New("/issue[").Parse(source.FromString("issues.xml", fullIssue))
	require.Error(t, err)
	assert.True(t, parser.IsParsingError(err))
}

func TestParse_MalformedXMLIsParsingError(t *testing.T) {
	_, err := Default().Parse(source.FromString("issues.xml", "<issue><message></issue>"))
	require.Error(t, err)
	assert.True(t, parser.IsParsingError(err))
}

func TestDefaultRoot(t *testing.T) {
	assert.Equal(t, DefaultRootPath, Default().Root())
	assert.Equal(t, "//bug", New("//bug").Root())
}

func TestAccepts(t *testing.T) {
	p := Default()
	assert.True(t, p.Accepts("build/issues.xml"))
	assert.False(t, p.Accepts("issues.xml.bak"))
	assert.False(t, p.Accepts("issues.json"))
}
