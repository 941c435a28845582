package ir

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotStableAcrossUnrelatedChanges(t *testing.T) {
	m := NewModule("app")
	cls, err := m.AddClass(NoDeclID, ClassData{ID: MustClassID("pkg/Beta")}, Public, OriginSource)
	require.NoError(t, err)
	name, err := m.AddMember(cls, Decl{Kind: DeclField, Name: "NAME", Field: FieldData{Const: true, Initializer: &StringConst{Value: "Beta"}}})
	require.NoError(t, err)

	before, err := Snapshot(m, name)
	require.NoError(t, err)
	classBefore, err := Snapshot(m, cls)
	require.NoError(t, err)

	_, err = m.AddMember(cls, Decl{Kind: DeclField, Name: "log", Visibility: Private})
	require.NoError(t, err)

	after, err := Snapshot(m, name)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(before, after))

	classAfter, err := Snapshot(m, cls)
	require.NoError(t, err)
	assert.False(t, bytes.Equal(classBefore, classAfter))

	_, err = Snapshot(m, DeclID(999))
	require.Error(t, err)
}

func TestEncodeModule(t *testing.T) {
	m := NewModule("app")
	_, err := m.AddClass(NoDeclID, ClassData{ID: MustClassID("pkg/Alpha")}, Public, OriginSource)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, m))
	assert.NotZero(t, buf.Len())
}
