package declgen

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treant/internal/diag"
	"treant/internal/ir"
	"treant/internal/origin"
	"treant/internal/predicate"
	"treant/internal/strategy"
	"treant/internal/testkit"
)

type fixture struct {
	syn     *Synthesizer
	origins *origin.Table
	bag     *diag.Bag
}

func newFixture(t *testing.T, presets ...string) *fixture {
	t.Helper()
	cp, err := testkit.Classpath(presets...)
	require.NoError(t, err)
	return &fixture{
		syn:     New(predicate.NewIndex(strategy.Default()), cp),
		origins: origin.NewTable(),
		bag:     diag.NewBag(100),
	}
}

func (f *fixture) run(m *ir.Module) Result {
	return f.syn.Run(context.Background(), m, f.origins, diag.BagReporter{Bag: f.bag})
}

func TestSynthesizesCompanionAndField(t *testing.T) {
	f := newFixture(t, "slf4j")
	b := testkit.NewModule("app")
	svc := b.Class(ir.NoDeclID, "com/example/MyService", "Slf4j")
	require.NoError(t, b.Err())

	res := f.run(b.M)
	require.Len(t, res.Outcomes, 1)
	out := res.Outcomes[0]
	assert.Equal(t, StateFieldDeclared, out.State)
	assert.Equal(t, HolderSynthesized, out.Holder.Kind)
	assert.False(t, out.Existing)

	comp, ok := b.M.Companion(svc)
	require.True(t, ok)
	assert.Equal(t, comp, out.Holder.Class)
	cd := b.M.Get(comp)
	assert.Equal(t, "Companion", cd.Name)
	assert.Equal(t, ir.OriginGenerated, cd.Origin)

	ctor := b.M.Get(out.Holder.Constructor)
	assert.Equal(t, ir.DeclConstructor, ctor.Kind)
	assert.Equal(t, ir.Private, ctor.Visibility)

	field := b.M.Get(out.Field)
	assert.Equal(t, "log", field.Name)
	assert.Equal(t, ir.Private, field.Visibility)
	assert.False(t, field.Field.Mutable)
	assert.Nil(t, field.Field.Initializer)
	assert.Equal(t, ir.MustClassID("org/slf4j/Logger"), field.Field.Type)

	for _, id := range []ir.DeclID{comp, out.Holder.Constructor, out.Field} {
		tag, ok := f.origins.Lookup(id)
		require.True(t, ok)
		assert.Equal(t, strategy.TagSlf4j, tag)
	}
	assert.Zero(t, f.bag.Len())
	assert.NoError(t, testkit.CheckGeneratedInvariants(b.M, f.origins, strategy.Default()))
}

func TestReusesExistingCompanion(t *testing.T) {
	f := newFixture(t, "log4j2")
	b := testkit.NewModule("app")
	beta := b.Class(ir.NoDeclID, "pkg/Beta", "Log4j2")
	holder := b.Companion(beta, "Factory")
	constant := b.Const(holder, "VERSION", "1.0")
	fn := b.Func(holder, "create")
	require.NoError(t, b.Err())

	before := map[ir.DeclID][]byte{}
	for _, id := range []ir.DeclID{constant, fn} {
		snap, err := ir.Snapshot(b.M, id)
		require.NoError(t, err)
		before[id] = snap
	}

	res := f.run(b.M)
	require.Len(t, res.Outcomes, 1)
	out := res.Outcomes[0]
	assert.Equal(t, StateFieldDeclared, out.State)
	assert.Equal(t, Reused(holder), out.Holder)

	members := b.M.Members(holder)
	require.Len(t, members, 3)
	assert.Equal(t, []ir.DeclID{constant, fn}, members[:2])
	assert.Equal(t, out.Field, members[2])
	for id, want := range before {
		got, err := ir.Snapshot(b.M, id)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, stamped := f.origins.Lookup(holder)
	assert.False(t, stamped, "a user-written companion is not stamped")
	comp, _ := b.M.Companion(beta)
	assert.Equal(t, holder, comp)
}

func TestIdempotentRerun(t *testing.T) {
	f := newFixture(t, "slf4j")
	b := testkit.NewModule("app")
	svc := b.Class(ir.NoDeclID, "pkg/Svc", "Slf4j")
	require.NoError(t, b.Err())

	first := f.run(b.M)
	size := b.M.Len()
	printed := ir.PrintString(b.M)

	second := f.run(b.M)
	assert.Equal(t, size, b.M.Len())
	assert.Equal(t, printed, ir.PrintString(b.M))
	require.Len(t, second.Outcomes, 1)
	out := second.Outcomes[0]
	assert.True(t, out.Existing)
	assert.Equal(t, first.Outcomes[0].Field, out.Field)
	assert.Equal(t, first.Outcomes[0].Holder, out.Holder)
	assert.Empty(t, second.Declared())

	comp, _ := b.M.Companion(svc)
	assert.Len(t, b.M.Members(comp), 2)
}

func TestRerunWithFreshOriginsReclaimsGeneratedDecls(t *testing.T) {
	f := newFixture(t, "slf4j")
	b := testkit.NewModule("app")
	b.Class(ir.NoDeclID, "pkg/Svc", "Slf4j")
	require.NoError(t, b.Err())
	first := f.run(b.M).Outcomes[0]

	f.origins = origin.NewTable()
	second := f.run(b.M)
	require.Len(t, second.Outcomes, 1)
	out := second.Outcomes[0]
	assert.Equal(t, StateFieldDeclared, out.State)
	assert.True(t, out.Existing)
	assert.Equal(t, first.Holder, out.Holder)
	assert.Equal(t, first.Field, out.Field)
	assert.Zero(t, f.bag.Len())

	for _, id := range []ir.DeclID{out.Holder.Class, out.Holder.Constructor, out.Field} {
		tag, ok := f.origins.Lookup(id)
		require.True(t, ok)
		assert.Equal(t, strategy.TagSlf4j, tag)
	}
}

func TestHandWrittenFieldStillClashes(t *testing.T) {
	f := newFixture(t, "slf4j")
	b := testkit.NewModule("app")
	svc := b.Class(ir.NoDeclID, "pkg/Svc", "Slf4j")
	comp := b.Companion(svc, "Companion")
	b.Val(comp, "log", "org/slf4j/Logger")
	require.NoError(t, b.Err())

	res := f.run(b.M)
	require.Len(t, res.Outcomes, 1)
	assert.Equal(t, StateNameClash, res.Outcomes[0].State)
	require.Equal(t, 1, f.bag.Len())
	assert.Equal(t, diag.DeclHolderNameClash, f.bag.Items()[0].Code)
}

func TestMissingLoggerTypeOmitsField(t *testing.T) {
	f := newFixture(t)
	b := testkit.NewModule("app")
	gamma := b.Class(ir.NoDeclID, "pkg/Gamma", "CommonsLog")
	require.NoError(t, b.Err())

	res := f.run(b.M)
	require.Len(t, res.Outcomes, 1)
	assert.Equal(t, StateFieldOmitted, res.Outcomes[0].State)

	comp, ok := b.M.Companion(gamma)
	require.True(t, ok, "the holder is still resolved")
	_, ok = b.M.MemberNamed(comp, "log")
	assert.False(t, ok)

	assert.False(t, f.bag.HasWarnings())
	require.Equal(t, 1, f.bag.Len())
	d := f.bag.Items()[0]
	assert.Equal(t, diag.SevInfo, d.Severity)
	assert.Equal(t, diag.DeclMissingLoggerType, d.Code)
	assert.Equal(t, "pkg.Gamma", d.Subject)
	require.Len(t, d.Notes, 1)
	assert.Contains(t, d.Notes[0].Msg, "commons-logging:commons-logging")
}

func TestConflictingMarkersAreRejected(t *testing.T) {
	f := newFixture(t, "slf4j", "jul")
	b := testkit.NewModule("app")
	both := b.Class(ir.NoDeclID, "pkg/Both", "Log", "Slf4j")
	require.NoError(t, b.Err())
	size := b.M.Len()

	res := f.run(b.M)
	require.Len(t, res.Outcomes, 1)
	assert.Equal(t, StateConflicting, res.Outcomes[0].State)
	assert.Equal(t, size, b.M.Len())
	_, ok := b.M.Companion(both)
	assert.False(t, ok)

	require.True(t, f.bag.HasErrors())
	d := f.bag.Items()[0]
	assert.Equal(t, diag.DeclConflictingMarkers, d.Code)
	assert.Len(t, d.Notes, 2)
}

func TestNameClashInUserCompanion(t *testing.T) {
	f := newFixture(t, "slf4j")
	b := testkit.NewModule("app")
	cls := b.Class(ir.NoDeclID, "pkg/Clash", "Slf4j")
	comp := b.Companion(cls, "Companion")
	b.Val(comp, "log", "kotlin/String")
	require.NoError(t, b.Err())

	res := f.run(b.M)
	require.Len(t, res.Outcomes, 1)
	assert.Equal(t, StateNameClash, res.Outcomes[0].State)
	assert.Len(t, b.M.Members(comp), 1)
	assert.Equal(t, diag.DeclHolderNameClash, f.bag.Items()[0].Code)
	assert.Zero(t, f.origins.Len())
}

func TestNestedClassNamedCompanionClashes(t *testing.T) {
	f := newFixture(t, "slf4j")
	b := testkit.NewModule("app")
	cls := b.Class(ir.NoDeclID, "pkg/Outer", "Slf4j")
	b.Class(cls, "pkg/Outer.Companion")
	require.NoError(t, b.Err())

	res := f.run(b.M)
	require.Len(t, res.Outcomes, 1)
	assert.Equal(t, StateNameClash, res.Outcomes[0].State)
	assert.Equal(t, diag.SevWarning, f.bag.Items()[0].Severity)
}

func TestObjectsAreUnsupported(t *testing.T) {
	f := newFixture(t, "slf4j")
	b := testkit.NewModule("app")
	b.Object(ir.NoDeclID, "pkg/Single", "Slf4j")
	require.NoError(t, b.Err())

	res := f.run(b.M)
	assert.Equal(t, 1, res.Count(StateUnsupported))
	assert.Equal(t, diag.DeclUnsupportedKind, f.bag.Items()[0].Code)
}

func TestUnannotatedModuleIsUntouched(t *testing.T) {
	f := newFixture(t, "slf4j")
	b := testkit.NewModule("app")
	plain := b.Class(ir.NoDeclID, "pkg/Plain")
	b.Const(b.Companion(plain, "Companion"), "X", "y")
	b.Class(plain, "pkg/Plain.Inner")
	require.NoError(t, b.Err())

	var before, after bytes.Buffer
	require.NoError(t, ir.Encode(&before, b.M))

	res := f.run(b.M)
	assert.Empty(t, res.Outcomes)
	require.NoError(t, ir.Encode(&after, b.M))
	assert.Equal(t, before.Bytes(), after.Bytes())
	assert.Zero(t, f.origins.Len())
}

func TestNestedAnnotatedClasses(t *testing.T) {
	f := newFixture(t, "slf4j", "jul")
	b := testkit.NewModule("app")
	outer := b.Class(ir.NoDeclID, "a/b/c/Outer", "Log")
	b.Class(outer, "a/b/c/Outer.Delta", "Slf4j")
	require.NoError(t, b.Err())

	res := f.run(b.M)
	require.Len(t, res.Outcomes, 2)
	assert.Equal(t, 2, res.Count(StateFieldDeclared))
	assert.Len(t, res.Declared(), 2)
	assert.Equal(t, "a.b.c.Outer.Delta", res.Outcomes[1].ClassID.FqName().String())
	assert.NoError(t, testkit.CheckGeneratedInvariants(b.M, f.origins, strategy.Default()))
}
