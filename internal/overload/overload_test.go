package overload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treant/internal/ir"
)

var (
	classT  = ir.MustClassID("java/lang/Class")
	stringT = ir.MustClassID("kotlin/String")
	loggerT = ir.MustClassID("org/slf4j/Logger")
)

func factory(t *testing.T) (*ir.Classpath, ir.DeclID, map[string]ir.DeclID) {
	t.Helper()
	cp := ir.NewClasspath()
	owner, err := cp.AddClass("org.slf4j:slf4j-api", ir.MustClassID("org/slf4j/LoggerFactory"), ir.ClassRegular)
	require.NoError(t, err)

	fns := map[string]ir.DeclID{}
	add := func(key, name string, params ...ir.Param) {
		id, err := cp.AddFunction(owner, name, params, loggerT)
		require.NoError(t, err)
		fns[key] = id
	}
	add("none", "getLogger")
	add("ext-string", "getLogger",
		ir.Param{Name: "this", Kind: ir.ParamExtensionReceiver, Type: stringT})
	add("two", "getLogger",
		ir.Param{Name: "name", Type: stringT},
		ir.Param{Name: "cls", Type: classT})
	add("string", "getLogger",
		ir.Param{Name: "ctx", Kind: ir.ParamContext, Type: classT},
		ir.Param{Name: "name", Type: stringT})
	add("class", "getLogger", ir.Param{Name: "clazz", Type: classT})
	add("class-2", "getLogger", ir.Param{Name: "other", Type: classT})
	add("other", "getILoggerFactory", ir.Param{Name: "clazz", Type: classT})
	return cp, owner, fns
}

func TestRegularParamCount(t *testing.T) {
	cp, _, fns := factory(t)
	cases := map[string]int{"none": 0, "ext-string": 0, "two": 2, "string": 1, "class": 1}
	for key, want := range cases {
		assert.Equal(t, want, RegularParamCount(cp.Get(fns[key])), key)
	}
	assert.Zero(t, RegularParamCount(nil))
}

func TestSelect(t *testing.T) {
	cp, owner, fns := factory(t)

	got, ok := Select(cp, owner, "getLogger", PlainTextParam())
	require.True(t, ok)
	assert.Equal(t, fns["string"], got)

	got, ok = Select(cp, owner, "getLogger", ClassTokenParam())
	require.True(t, ok)
	assert.Equal(t, fns["class"], got, "first qualifying overload in declaration order")

	_, ok = Select(cp, owner, "getLog", ClassTokenParam())
	assert.False(t, ok)

	_, ok = Select(cp, owner, "getLogger", SingleParamOf("Long"))
	assert.False(t, ok)
}
