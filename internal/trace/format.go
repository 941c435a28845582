package trace

import (
	"encoding/json"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"
)

// Format is how a stream tracer encodes events.
type Format uint8

const (
	FormatAuto Format = iota
	FormatText
	FormatNDJSON
	FormatLog // zerolog records
)

var formatNames = [...]string{
	FormatAuto:   "auto",
	FormatText:   "text",
	FormatNDJSON: "ndjson",
	FormatLog:    "log",
}

func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return "auto"
}

// ParseFormat parses --trace-format. "json" and "zerolog" are accepted as
// aliases.
func ParseFormat(s string) (Format, error) {
	switch s = strings.ToLower(strings.TrimSpace(s)); s {
	case "":
		return FormatAuto, nil
	case "json":
		return FormatNDJSON, nil
	case "zerolog":
		return FormatLog, nil
	}
	if i := slices.Index(formatNames[:], s); i >= 0 {
		return Format(i), nil
	}
	return FormatAuto, fmt.Errorf("invalid trace format %q (want auto|text|ndjson|log)", s)
}

// DetectFormat picks a format from the extension of an output path.
func DetectFormat(path string) Format {
	switch filepath.Ext(path) {
	case ".ndjson", ".jsonl":
		return FormatNDJSON
	case ".log":
		return FormatLog
	}
	return FormatText
}

// FormatEvent encodes ev as one line. FormatLog falls back to NDJSON here;
// LogTracer encodes its own records.
func FormatEvent(ev *Event, format Format) []byte {
	switch format {
	case FormatNDJSON, FormatLog:
		return encodeJSON(ev)
	}
	return encodeText(ev)
}

type eventJSON struct {
	Time     string            `json:"time"`
	Seq      uint64            `json:"seq"`
	Kind     string            `json:"kind"`
	Scope    string            `json:"scope"`
	SpanID   uint64            `json:"span_id"`
	ParentID uint64            `json:"parent_id,omitempty"`
	Module   string            `json:"module,omitempty"`
	Name     string            `json:"name"`
	Detail   string            `json:"detail,omitempty"`
	Extra    map[string]string `json:"extra,omitempty"`
}

func encodeJSON(ev *Event) []byte {
	data, err := json.Marshal(eventJSON{
		Time:     ev.Time.Format("2006-01-02T15:04:05.000000Z07:00"),
		Seq:      ev.Seq,
		Kind:     ev.Kind.String(),
		Scope:    ev.Scope.String(),
		SpanID:   ev.SpanID,
		ParentID: ev.ParentID,
		Module:   ev.Module,
		Name:     ev.Name,
		Detail:   ev.Detail,
		Extra:    ev.Extra,
	})
	if err != nil {
		return nil
	}
	return append(data, '\n')
}

var kindGlyph = map[Kind]string{
	KindSpanBegin: "→",
	KindSpanEnd:   "←",
	KindPoint:     "•",
}

// encodeText renders "#seq  → [module] name (detail) {k=v, ...}". Nested
// events are indented by two spaces.
func encodeText(ev *Event) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "#%-6d ", ev.Seq)
	if ev.ParentID != 0 {
		b.WriteString("  ")
	}
	if glyph, ok := kindGlyph[ev.Kind]; ok {
		b.WriteString(glyph + " ")
	}
	if ev.Module != "" {
		fmt.Fprintf(&b, "[%s] ", ev.Module)
	}
	b.WriteString(ev.Name)
	if ev.Detail != "" {
		fmt.Fprintf(&b, " (%s)", ev.Detail)
	}
	if len(ev.Extra) > 0 {
		pairs := make([]string, 0, len(ev.Extra))
		for _, k := range slices.Sorted(maps.Keys(ev.Extra)) {
			pairs = append(pairs, k+"="+ev.Extra[k])
		}
		fmt.Fprintf(&b, " {%s}", strings.Join(pairs, ", "))
	}
	b.WriteByte('\n')
	return []byte(b.String())
}
