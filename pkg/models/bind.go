package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// linksKey is transport-only hypermedia metadata, dropped during binding.
const linksKey = "_links"

var timestampPattern = regexp.MustCompile(
	`^\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}(?:\.\d+)?(?:Z|[+-]\d{2}:?\d{2})?$`)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// Timestamp is a bound timestamp string. Raw keeps the text the server sent,
// so a title or label name that merely looks like a timestamp still reads
// back verbatim.
type Timestamp struct {
	time.Time
	Raw string
}

// String returns the original text.
func (t Timestamp) String() string {
	return t.Raw
}

// MarshalJSON encodes the original text.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Raw)
}

// text returns the string form of a bound string value.
func text(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case Timestamp:
		return s.Raw, true
	}
	return "", false
}

// Decode parses a JSON document and binds it with Bind.
func Decode(data []byte, hint string) (any, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", hintOrUnknown(hint), err)
	}
	return Bind(raw, hint), nil
}

// Bind converts a decoded JSON value into records. Objects become Records
// tagged with their "type" field, else hint, else UnknownKind. Timestamp
// strings become Timestamps holding UTC times and numbers become int64 or
// float64.
func Bind(raw any, hint string) any {
	switch v := raw.(type) {
	case map[string]any:
		rec := make(Record, len(v)+1)
		for k, item := range v {
			if k == linksKey {
				continue
			}
			rec[k] = Bind(item, hint)
		}
		kind := hintOrUnknown(hint)
		if t, ok := text(Bind(v["type"], hint)); ok && t != "" {
			kind = t
		}
		rec[KindKey] = kind
		return rec
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = Bind(item, hint)
		}
		return out
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
		f, err := v.Float64()
		if err != nil {
			return v.String()
		}
		return f
	case string:
		if t, ok := ParseTimestamp(v); ok {
			return Timestamp{Time: t, Raw: v}
		}
		return v
	}
	return raw
}

// ParseTimestamp parses an ISO-8601 style timestamp into UTC. Timestamps
// without a zone are taken to be UTC already.
func ParseTimestamp(s string) (time.Time, bool) {
	if !timestampPattern.MatchString(s) {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func hintOrUnknown(hint string) string {
	if strings.TrimSpace(hint) == "" {
		return UnknownKind
	}
	return hint
}
