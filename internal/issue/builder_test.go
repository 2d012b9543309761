package issue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuilder_DefaultsUnsetFields(t *testing.T) {
	i := NewBuilder().Build()

	assert.Equal(t, Undefined, i.FileName)
	assert.Equal(t, Undefined, i.Type)
	assert.Equal(t, Undefined, i.PackageName)
	assert.Equal(t, WarningNormal, i.Severity)
	assert.Zero(t, i.LineStart)
	assert.Zero(t, i.ColumnEnd)
	assert.Empty(t, i.LineRanges)
}

func TestBuilder_TrimsAndNormalizesPaths(t *testing.T) {
	i := NewBuilder().
		SetFileName(` src\main\foo.c `).
		SetMessage("  msg\n").
		SetCategory("\tcat ").
		Build()

	assert.Equal(t, "src/main/foo.c", i.FileName)
	assert.Equal(t, "msg", i.Message)
	assert.Equal(t, "cat", i.Category)
}

func TestBuilder_LineAndColumnSpans(t *testing.T) {
	cases := []struct {
		name               string
		start, end         int
		wantStart, wantEnd int
	}{
		{"both unset", 0, 0, 0, 0},
		{"only start", 7, 0, 7, 7},
		{"only end", 0, 9, 9, 9},
		{"reversed", 12, 3, 3, 12},
		{"negative", -4, 2, 2, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			i := NewBuilder().SetLineStart(tc.start).SetLineEnd(tc.end).
				SetColumnStart(tc.start).SetColumnEnd(tc.end).Build()
			assert.Equal(t, tc.wantStart, i.LineStart)
			assert.Equal(t, tc.wantEnd, i.LineEnd)
			assert.Equal(t, tc.wantStart, i.ColumnStart)
			assert.Equal(t, tc.wantEnd, i.ColumnEnd)
		})
	}
}

func TestBuilder_TextSettersIgnoreGarbage(t *testing.T) {
	i := NewBuilder().SetLineStartText(" 42 ").SetColumnStartText("n/a").Build()
	assert.Equal(t, 42, i.LineStart)
	assert.Zero(t, i.ColumnStart)
}

func TestBuilder_BuildKeepsStateBuildAndCleanResets(t *testing.T) {
	b := NewBuilder().SetFileName("a.c").SetSeverity(Error).AddLineRange(5, 1)

	first := b.Build()
	second := b.Build()
	assert.Equal(t, first, second)
	assert.Equal(t, []LineRange{{Start: 1, End: 5}}, first.LineRanges)

	cleaned := b.BuildAndClean()
	assert.Equal(t, first, cleaned)
	assert.Equal(t, NewBuilder().Build(), b.Build())
}

func TestBuilder_LineRangesAreCopied(t *testing.T) {
	ranges := []LineRange{{Start: 1, End: 2}}
	b := NewBuilder().SetLineRanges(ranges)
	ranges[0].Start = 99

	i := b.Build()
	assert.Equal(t, 1, i.LineRanges[0].Start)

	b.AddLineRange(3, 4)
	assert.Len(t, i.LineRanges, 1)
}
