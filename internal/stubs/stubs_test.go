package stubs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treant/internal/ir"
	"treant/internal/overload"
	"treant/internal/strategy"
)

func TestJDK(t *testing.T) {
	cp := ir.NewClasspath()
	require.NoError(t, JDK(cp))
	require.NoError(t, JDK(cp))

	class, ok := cp.Resolve(ClassType)
	require.True(t, ok)
	assert.Len(t, cp.Functions(class, "forName"), 1)
	assert.Equal(t, JDKArtifact, cp.Artifact(JulLogger))
	assert.True(t, cp.Has(StringType))
}

func TestPresetsMatchConventions(t *testing.T) {
	reg := strategy.Default()
	for _, d := range reg.All() {
		t.Run(d.Tag.String(), func(t *testing.T) {
			cp := ir.NewClasspath()
			require.NoError(t, Preset(cp, reg, d.Tag.String()))
			assert.True(t, cp.Has(d.LoggerType))

			factory, ok := cp.Resolve(d.Recipe.FactoryType)
			require.True(t, ok)
			accept := overload.ClassTokenParam()
			if d.Recipe.Convention == strategy.PlainText {
				accept = overload.PlainTextParam()
			}
			_, ok = overload.Select(cp, factory, d.Recipe.Method, accept)
			assert.True(t, ok)
		})
	}
}

func TestUnknownPreset(t *testing.T) {
	err := Preset(ir.NewClasspath(), strategy.Default(), "logback")
	assert.EqualError(t, err, `unknown library preset "logback"`)
}

func TestPresetNames(t *testing.T) {
	assert.Equal(t, []string{"commons-log", "jul", "log4j", "log4j2", "slf4j", "xslf4j"}, PresetNames())
}
