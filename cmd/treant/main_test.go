package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treant/internal/strategy"
)

const basicManifest = "../../internal/project/testdata/basic.toml"

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestReadUIMode(t *testing.T) {
	tests := []struct {
		in   string
		want uiMode
	}{
		{"", uiModeAuto},
		{"AUTO", uiModeAuto},
		{" on ", uiModeOn},
		{"off", uiModeOff},
	}
	for _, tt := range tests {
		got, err := readUIMode(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
	_, err := readUIMode("sometimes")
	require.Error(t, err)

	assert.True(t, shouldUseTUI(uiModeOn, 1))
	assert.False(t, shouldUseTUI(uiModeOff, 5))
}

func TestRenderStrategies(t *testing.T) {
	var buf bytes.Buffer
	renderStrategies(&buf, strategy.Default(), true)
	out := buf.String()

	lines := strings.Split(out, "\n")
	assert.True(t, strings.HasPrefix(lines[0], "MARKER"))
	assert.Contains(t, out, "org.slf4j.LoggerFactory.getLogger")
	assert.Contains(t, out, "java.util.logging.Logger.getLogger")
	assert.Contains(t, out, "@Log4j2: ")
	assert.Regexp(t, `@Log\s+java\.util\.logging\.Logger\s+.*plain text\s+jul`, out)
}

func TestGenPrintsModules(t *testing.T) {
	out, _, err := execute(t, "gen", "--manifest", basicManifest, "--emit", "text", "--output", "-", "--format", "pretty", "--ui", "off")
	require.NoError(t, err)

	assert.Contains(t, out, "// module app")
	assert.Contains(t, out, "// module util")
	assert.Contains(t, out, `org.slf4j.LoggerFactory.getLogger(java.lang.Class.forName("com.example.MyService"))`)
	assert.Contains(t, out, `java.util.logging.Logger.getLogger("a.b.c.Delta")`)
	assert.Contains(t, out, `const val VERSION`)
}

func TestGenMsgpackToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.msgpack")
	_, _, err := execute(t, "gen", "--manifest", basicManifest, "--emit", "msgpack", "--output", path, "--format", "pretty", "--ui", "off")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestMarkersCommand(t *testing.T) {
	out, _, err := execute(t, "markers", "--manifest", basicManifest)
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"@Slf4j logger generated for com.example.MyService",
		"@Log4j2 logger generated for com.example.Beta",
		"@Log logger generated for a.b.c.Delta",
	}, "\n")+"\n", out)
}

const fatalManifest = `
[project]
name = "broken"

[[library]]
artifact = "org.apache.logging.log4j:log4j-core"

  [[library.class]]
  id = "org/apache/logging/log4j/Logger"
  kind = "interface"

[[module]]
name = "app"

  [[module.class]]
  id = "pkg/Gamma"
  annotations = ["@Log4j2"]
`

func TestGenReportsFatalError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "treant.toml")
	require.NoError(t, os.WriteFile(path, []byte(fatalManifest), 0o600))

	out, errOut, err := execute(t, "gen", "--manifest", path, "--emit", "text", "--output", "-", "--format", "pretty", "--ui", "off")
	require.ErrorIs(t, err, errGenerationFailed)
	assert.NotContains(t, out, "pkg.Gamma")
	assert.Contains(t, errOut, "INI2001")
	assert.Contains(t, errOut, "@Log4j2 requires org.apache.logging.log4j:log4j-api on the classpath")
}

func TestVersionJSON(t *testing.T) {
	out, _, err := execute(t, "version", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"tool": "treant"`)
}

func TestFatalDumpsTraceRing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "treant.toml")
	require.NoError(t, os.WriteFile(path, []byte(fatalManifest), 0o600))
	t.Cleanup(func() {
		flags := rootCmd.PersistentFlags()
		_ = flags.Set("trace-level", "off")
		_ = flags.Set("trace-mode", "stream")
	})

	_, errOut, err := execute(t, "gen", "--manifest", path, "--emit", "none", "--format", "pretty", "--ui", "off",
		"--trace-level", "debug", "--trace-mode", "ring")
	require.ErrorIs(t, err, errGenerationFailed)
	assert.Contains(t, errOut, "trace: last events before abort:")
	assert.Contains(t, errOut, "• [app] fatal_abort")
	assert.Contains(t, errOut, "← [app] initgen (fatal)")
}

const badLibraryManifest = `
[project]
name = "broken"

[[library]]
artifact = "com.acme:acme-log"

  [[library.class]]
  id = "NoSlashOne"

  [[library.class]]
  id = "NoSlashTwo"

[[module]]
name = "app"
`

func TestLoadErrorsUnderOneArtifactAreAllReported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "treant.toml")
	require.NoError(t, os.WriteFile(path, []byte(badLibraryManifest), 0o600))

	_, errOut, err := execute(t, "gen", "--manifest", path, "--emit", "none", "--format", "pretty", "--ui", "off")
	require.Error(t, err)
	assert.Contains(t, errOut, `"NoSlashOne"`)
	assert.Contains(t, errOut, `"NoSlashTwo"`)
	assert.Contains(t, errOut, "2 errors")
}

func TestGenSkipsAbortedLeadingModule(t *testing.T) {
	manifest := fatalManifest + `
[[module]]
name = "util"

  [[module.class]]
  id = "a/b/c/Delta"
  annotations = ["@Log"]
`
	path := filepath.Join(t.TempDir(), "treant.toml")
	require.NoError(t, os.WriteFile(path, []byte(manifest), 0o600))

	out, _, err := execute(t, "gen", "--manifest", path, "--emit", "text", "--output", "-", "--format", "pretty", "--ui", "off")
	require.ErrorIs(t, err, errGenerationFailed)
	assert.True(t, strings.HasPrefix(out, "// module util\n"), "output starts with %q", out)
	assert.NotContains(t, out, "// module app")
}
