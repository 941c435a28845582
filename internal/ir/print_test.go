package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintModule(t *testing.T) {
	m := NewModule("app")
	svc, err := m.AddClass(NoDeclID, ClassData{
		ID:          MustClassID("com/example/MyService"),
		Annotations: []ClassID{MustClassID("com/adkhambek/treant/Slf4j")},
	}, Public, OriginSource)
	require.NoError(t, err)
	comp, err := m.AddClass(svc, ClassData{ID: MustClassID("com/example/MyService.Companion"), Kind: ClassObject, Companion: true}, Public, OriginGenerated)
	require.NoError(t, err)
	_, err = m.AddMember(comp, Decl{Kind: DeclConstructor, Name: "<init>", Visibility: Private})
	require.NoError(t, err)
	_, err = m.AddMember(comp, Decl{
		Kind:       DeclField,
		Name:       "log",
		Visibility: Private,
		Field: FieldData{
			Type: MustClassID("org/slf4j/Logger"),
			Initializer: &Call{
				Owner:  MustClassID("org/slf4j/LoggerFactory"),
				Method: "getLogger",
				Args: []Expr{&Call{
					Owner:  MustClassID("java/lang/Class"),
					Method: "forName",
					Args:   []Expr{&StringConst{Value: "com.example.MyService"}},
				}},
			},
		},
	})
	require.NoError(t, err)
	_, err = m.AddClass(NoDeclID, ClassData{ID: MustClassID("com/example/Plain")}, Internal, OriginSource)
	require.NoError(t, err)
	_, err = m.AddClass(NoDeclID, ClassData{ID: MustClassID("other/Api"), Kind: ClassInterface}, Public, OriginSource)
	require.NoError(t, err)

	want := `package com.example

@com.adkhambek.treant.Slf4j
class MyService {
    companion object {
        private constructor()
        private val log: org.slf4j.Logger = org.slf4j.LoggerFactory.getLogger(java.lang.Class.forName("com.example.MyService"))
    }
}

internal class Plain

package other

interface Api
`
	assert.Equal(t, want, PrintString(m))
}

func TestFormatExpr(t *testing.T) {
	assert.Equal(t, `"a\"b"`, FormatExpr(&StringConst{Value: `a"b`}))
	assert.Equal(t, "<nil>", FormatExpr(nil))
	assert.Equal(t, `java.util.logging.Logger.getLogger("pkg.Alpha")`, FormatExpr(&Call{
		Owner:  MustClassID("java/util/logging/Logger"),
		Method: "getLogger",
		Args:   []Expr{&StringConst{Value: "pkg.Alpha"}},
	}))
}
