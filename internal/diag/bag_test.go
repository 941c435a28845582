package diag

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBagLimitAndMerge(t *testing.T) {
	b := NewBag(2)
	assert.True(t, b.Add(NewError(InitMissingFactoryType, "app", "pkg.A", "a")))
	assert.True(t, b.Add(New(SevWarning, DeclHolderNameClash, "app", "pkg.B", "b")))
	assert.False(t, b.Add(New(SevInfo, DeclMissingLoggerType, "app", "pkg.C", "c")))
	assert.Equal(t, 2, b.Len())
	assert.True(t, b.HasErrors())
	assert.True(t, b.HasWarnings())

	other := NewBag(5)
	other.Add(New(SevInfo, DeclMissingLoggerType, "lib", "pkg.D", "d"))
	b.Merge(other)
	assert.Equal(t, 3, b.Len())
	assert.Equal(t, 3, b.Cap())

	b.Filter(SevWarning)
	assert.Equal(t, 2, b.Len())
}

func TestBagSortAndDedup(t *testing.T) {
	b := NewBag(10)
	b.Add(New(SevWarning, DeclHolderNameClash, "b", "pkg.X", "w"))
	b.Add(NewError(DeclConflictingMarkers, "a", "pkg.Y", "e"))
	b.Add(New(SevInfo, DeclMissingLoggerType, "a", "pkg.Y", "i"))
	b.Add(NewError(DeclConflictingMarkers, "a", "pkg.Y", "e again"))
	b.Add(NewError(DeclConflictingMarkers, "a", "pkg.Y", "e"))

	b.Sort()
	items := b.Items()
	require.Len(t, items, 5)
	assert.Equal(t, "a", items[0].Module)
	assert.Equal(t, SevError, items[0].Severity)
	assert.Equal(t, "b", items[4].Module)

	// same code and subject, different messages: both stay
	b.Dedup()
	require.Equal(t, 4, b.Len())
	var msgs []string
	for _, d := range b.Items() {
		if d.Code == DeclConflictingMarkers {
			msgs = append(msgs, d.Message)
		}
	}
	assert.ElementsMatch(t, []string{"e", "e again"}, msgs)
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	b := NewBag(10)
	r := BagReporter{Bag: b}
	rb := ReportWarning(r, DeclHolderNameClash, "app", "pkg.Beta", "clash").
		WithNote("pkg.Beta.Companion", "declared here")
	rb.Emit()
	rb.Emit()

	require.Equal(t, 1, b.Len())
	d := b.Items()[0]
	assert.Equal(t, SevWarning, d.Severity)
	assert.Equal(t, []Note{{Subject: "pkg.Beta.Companion", Msg: "declared here"}}, d.Notes)

	var nilBuilder *ReportBuilder
	assert.Nil(t, nilBuilder.WithNote("x", "y"))
	nilBuilder.Emit()
}

func TestDedupReporter(t *testing.T) {
	b := NewBag(10)
	r := NewDedupReporter(BagReporter{Bag: b})
	d := New(SevInfo, DeclMissingLoggerType, "app", "pkg.A", "missing")
	r.Report(d)
	r.Report(d)
	d.Subject = "pkg.B"
	r.Report(d)
	assert.Equal(t, 2, b.Len())
}

func TestCodeIDs(t *testing.T) {
	assert.Equal(t, "DCL1001", DeclMissingLoggerType.ID())
	assert.Equal(t, "INI2001", InitMissingFactoryType.ID())
	assert.Equal(t, "PRJ5001", ProjInvalidManifest.ID())
	assert.Equal(t, "OBS6001", ObsTimings.ID())
	assert.Equal(t, "E0000", Code(42).ID())
	assert.Equal(t, "Unknown error", Code(42).Title())
	assert.Equal(t, "[INI2002]: No matching logger factory method", InitMissingFactoryMethod.String())
}

func TestFatalError(t *testing.T) {
	fe := Fatal(InitMissingFactoryType, "app", "pkg.Gamma", "@Slf4j requires org.slf4j:slf4j-api on the classpath.")
	wrapped := fmt.Errorf("module app: %w", fe)

	assert.True(t, errors.Is(wrapped, ErrFatal))
	got, ok := AsFatal(wrapped)
	require.True(t, ok)
	assert.Equal(t, SevError, got.Diagnostic.Severity)
	assert.Equal(t, "INI2001: pkg.Gamma: @Slf4j requires org.slf4j:slf4j-api on the classpath.", fe.Error())

	_, ok = AsFatal(errors.New("plain"))
	assert.False(t, ok)
}

func TestFormatShortDiagnostics(t *testing.T) {
	diags := []Diagnostic{
		New(SevWarning, DeclHolderNameClash, "app", "pkg.B", "clash").WithNote("pkg.B.Companion", "declared here"),
		NewError(InitMissingFactoryType, "app", "pkg.A", "missing"),
		New(SevInfo, ProjInfo, "", "", "loaded"),
	}
	want := "-: -: INFO PRJ5000: loaded\n" +
		"app: pkg.A: ERROR INI2001: missing\n" +
		"app: pkg.B: WARNING DCL1003: clash\n" +
		"  note: pkg.B.Companion: declared here\n"
	assert.Equal(t, want, FormatShortDiagnostics(diags, true))
	assert.Equal(t, "", FormatShortDiagnostics(nil, true))
}
