package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treant/internal/diag"
)

func sampleBag() *diag.Bag {
	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.InitMissingFactoryType, "app", "pkg.Gamma", "@Log4j2 requires log4j-api").
		WithNote("", "Add: implementation(\"org.apache.logging.log4j:log4j-api:<version>\")"))
	bag.Add(diag.New(diag.SevWarning, diag.DeclHolderNameClash, "util", "a.B", "field clash"))
	bag.Add(diag.New(diag.SevInfo, diag.DeclMissingLoggerType, "app", "pkg.Legacy", "logger type missing"))
	return bag
}

func TestPrettyPlain(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Pretty(&buf, sampleBag(), PrettyOpts{}))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "app: pkg.Gamma  ERROR INI2001: @Log4j2 requires log4j-api", lines[0])
	assert.Equal(t, "util: a.B"+strings.Repeat(" ", 7)+"WARNING DCL1003: field clash", lines[1])
}

func TestPrettyVerboseAndNotes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Pretty(&buf, sampleBag(), PrettyOpts{Verbose: true, ShowNotes: true}))
	out := buf.String()

	assert.Contains(t, out, "INFO DCL1001: logger type missing")
	assert.Contains(t, out, "    note: Add: implementation(")
}

func TestPrettyColor(t *testing.T) {
	var plain, colored bytes.Buffer
	require.NoError(t, Pretty(&plain, sampleBag(), PrettyOpts{}))
	require.NoError(t, Pretty(&colored, sampleBag(), PrettyOpts{Color: true}))

	assert.NotContains(t, plain.String(), "\x1b[")
	assert.Contains(t, colored.String(), "\x1b[")
}

func TestPrettyWidthAndMax(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Pretty(&buf, sampleBag(), PrettyOpts{Width: 10, Max: 1}))
	assert.Equal(t, "app: pkg.Gamma  ERROR INI2001: @Log4j2...\n", buf.String())
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "1 error, 1 warning", Summary(sampleBag(), false))
	assert.Equal(t, "1 error, 1 warning, 1 info", Summary(sampleBag(), true))
	assert.Equal(t, "0 errors, 0 warnings", Summary(diag.NewBag(1), false))
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, sampleBag(), JSONOpts{IncludeNotes: true}))

	var out DiagnosticsOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Equal(t, 3, out.Count)
	assert.Equal(t, 1, out.Errors)
	assert.Equal(t, 1, out.Warnings)
	assert.Equal(t, 1, out.Infos)
	assert.False(t, out.Truncated)
	first := out.Diagnostics[0]
	assert.Equal(t, "ERROR", first.Severity)
	assert.Equal(t, "INI2001", first.Code)
	assert.Equal(t, "Logger factory is not on the classpath", first.Title)
	assert.Equal(t, "pkg.Gamma", first.Subject)
	require.Len(t, first.Notes, 1)
}

func TestJSONDropsNotesExceptTimings(t *testing.T) {
	bag := sampleBag()
	bag.Add(diag.New(diag.SevInfo, diag.ObsTimings, "app", "", "timings (module): total 1.00 ms").WithNote("", `{"kind":"module"}`))

	out := BuildDiagnosticsOutput(bag, JSONOpts{})
	require.Equal(t, 4, out.Count)
	assert.Empty(t, out.Diagnostics[0].Notes)
	require.Len(t, out.Diagnostics[3].Notes, 1)
	assert.Equal(t, `{"kind":"module"}`, out.Diagnostics[3].Notes[0].Message)
}

func TestJSONMaxKeepsTallies(t *testing.T) {
	out := BuildDiagnosticsOutput(sampleBag(), JSONOpts{Max: 1})
	assert.Equal(t, 1, out.Count)
	assert.True(t, out.Truncated)
	assert.Equal(t, 1, out.Warnings)

	empty := BuildDiagnosticsOutput(nil, JSONOpts{})
	assert.NotNil(t, empty.Diagnostics)
	assert.Zero(t, empty.Count)
}
