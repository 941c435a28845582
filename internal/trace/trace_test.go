package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelScopes(t *testing.T) {
	cases := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopePass, true},
		{LevelPhase, ScopeModule, false},
		{LevelDetail, ScopeModule, true},
		{LevelDetail, ScopeNode, false},
		{LevelDebug, ScopeNode, true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.level.ShouldEmit(tc.scope), "%s/%s", tc.level, tc.scope)
	}

	lvl, err := ParseLevel("DETAIL")
	require.NoError(t, err)
	assert.Equal(t, LevelDetail, lvl)
	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)

	ctx := WithModule(WithTracer(context.Background(), tr), "app")
	_, root := Start(ctx, ScopePass, "declgen")
	root.WithExtra("b", "2")
	child := root.Child(ScopeNode, "declare_logger")
	child.End("skipped")
	root.End("done")
	require.NoError(t, tr.Close())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "→ [app] declgen")
	assert.Contains(t, lines[1], "← [app] declgen (done) {b=2}")
	assert.Zero(t, child.ID())
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	ctx := WithModule(WithTracer(context.Background(), tr), "util")
	Point(ctx, ScopeNode, "field_omitted", "pkg.Gamma")

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "point", got["kind"])
	assert.Equal(t, "field_omitted", got["name"])
	assert.Equal(t, "pkg.Gamma", got["detail"])
	assert.Equal(t, "util", got["module"])
	assert.NotContains(t, got, "parent_id")
}

func TestLogTracer(t *testing.T) {
	var buf bytes.Buffer
	tr := NewLogTracer(&buf, LevelPhase)
	ctx := WithTracer(context.Background(), tr)
	_, span := Start(ctx, ScopePass, "initgen")
	span.WithExtra("fields", "3").End("3 initialized")
	_, ignored := Start(ctx, ScopeNode, "ignored")
	ignored.End("")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	var end map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &end))
	assert.Equal(t, "initgen", end["message"])
	assert.Equal(t, "info", end["level"])
	assert.Equal(t, "3 initialized", end["detail"])
	assert.Contains(t, end, "duration_ns")
	assert.Equal(t, map[string]any{"fields": "3"}, end["extra"])
}

func TestRingTracerWraps(t *testing.T) {
	ring := NewRingTracer(2, LevelDebug)
	ctx := WithTracer(context.Background(), ring)
	for _, name := range []string{"a", "b", "c"} {
		Point(ctx, ScopeNode, name, "")
	}
	snap := ring.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "b", snap[0].Name)
	assert.Equal(t, "c", snap[1].Name)
	assert.EqualValues(t, 1, ring.Dropped())

	var buf bytes.Buffer
	require.NoError(t, ring.Dump(&buf, FormatText))
	assert.Equal(t, 2, strings.Count(buf.String(), "\n"))
}

func TestNewConfig(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	require.NoError(t, err)
	assert.False(t, tr.Enabled())

	tr, err = New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &bytes.Buffer{}})
	require.NoError(t, err)
	multi, ok := tr.(*MultiTracer)
	require.True(t, ok)
	_, ok = multi.Ring()
	assert.True(t, ok)

	path := filepath.Join(t.TempDir(), "nested", "trace.log")
	tr, err = New(Config{Level: LevelPhase, OutputPath: path})
	require.NoError(t, err)
	_, ok = tr.(*LogTracer)
	assert.True(t, ok)
	_, span := Start(WithTracer(context.Background(), tr), ScopePass, "declgen")
	span.End("")
	require.NoError(t, tr.Close())
	assert.FileExists(t, path)
}

func TestContextPropagation(t *testing.T) {
	assert.Equal(t, Nop, FromContext(context.Background()))
	ring := NewRingTracer(4, LevelPhase)
	ctx := WithTracer(context.Background(), ring)
	assert.Same(t, ring, FromContext(ctx).(*RingTracer))

	ctx = WithModule(ctx, "app")
	outer, run := Start(ctx, ScopeDriver, "run_all")
	inner, unit := Start(outer, ScopePass, "declgen")
	assert.Equal(t, run.ID(), ParentOf(outer))
	assert.Equal(t, unit.ID(), ParentOf(inner))
	assert.Equal(t, "app", ModuleOf(inner))
	assert.Zero(t, ParentOf(ctx))

	// filtered scopes keep the enclosing parent
	same, node := Start(inner, ScopeNode, "declare_logger")
	assert.Zero(t, node.ID())
	assert.Equal(t, unit.ID(), ParentOf(same))
	assert.Zero(t, node.End(""))

	unit.End("")
	run.End("")
	snap := ring.Snapshot()
	require.Len(t, snap, 4)
	assert.Equal(t, run.ID(), snap[1].ParentID)
	assert.Equal(t, "app", snap[1].Module)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("zerolog")
	require.NoError(t, err)
	assert.Equal(t, FormatLog, f)
	assert.Equal(t, FormatNDJSON, DetectFormat("out/trace.ndjson"))
	assert.Equal(t, FormatText, DetectFormat("-"))
	_, err = ParseFormat("chrome")
	assert.Error(t, err)
}
