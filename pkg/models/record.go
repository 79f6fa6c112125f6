// Package models binds decoded API responses into dot-accessible records.
//
// The API is treated as duck typed: a Record keeps every key the server sent,
// and the typed accessors fail with a FieldError when an expected key is
// missing or has the wrong shape, rather than returning a silent zero value.
package models

import (
	"fmt"
	"sort"
	"time"
)

// KindKey holds the nominal model tag of a bound Record.
const KindKey = "_kind"

// UnknownKind tags records bound without a type field or model hint.
const UnknownKind = "unknown"

// Record is a bound JSON object.
type Record map[string]any

// FieldError reports a record that lacks an expected field, or holds it with
// an unexpected type. It indicates a client/server contract mismatch.
type FieldError struct {
	Kind  string
	Field string
	Want  string
	Got   any
}

func (e *FieldError) Error() string {
	if e.Want == "" {
		return fmt.Sprintf("%s has no field %q", e.Kind, e.Field)
	}
	return fmt.Sprintf("%s field %q is %T, want %s", e.Kind, e.Field, e.Got, e.Want)
}

// Kind returns the record's model tag.
func (r Record) Kind() string {
	if k, ok := r[KindKey].(string); ok && k != "" {
		return k
	}
	return UnknownKind
}

// Has reports whether key is present, even with a null value.
func (r Record) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// Keys returns the record's field names, without the kind tag, sorted.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		if k != KindKey {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Get returns the raw value for key.
func (r Record) Get(key string) (any, error) {
	v, ok := r[key]
	if !ok {
		return nil, &FieldError{Kind: r.Kind(), Field: key}
	}
	return v, nil
}

// String returns a string field. A null value yields "", and a value bound
// as a Timestamp yields the text it was bound from.
func (r Record) String(key string) (string, error) {
	v, err := r.Get(key)
	if err != nil {
		return "", err
	}
	if v == nil {
		return "", nil
	}
	if s, ok := text(v); ok {
		return s, nil
	}
	return "", &FieldError{Kind: r.Kind(), Field: key, Want: "string", Got: v}
}

// Int returns an integral field.
func (r Record) Int(key string) (int, error) {
	v, err := r.Get(key)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case int64:
		return int(n), nil
	case int:
		return n, nil
	case float64:
		if n == float64(int64(n)) {
			return int(n), nil
		}
	}
	return 0, &FieldError{Kind: r.Kind(), Field: key, Want: "integer", Got: v}
}

// Bool returns a boolean field. A null value yields false.
func (r Record) Bool(key string) (bool, error) {
	v, err := r.Get(key)
	if err != nil {
		return false, err
	}
	switch b := v.(type) {
	case nil:
		return false, nil
	case bool:
		return b, nil
	}
	return false, &FieldError{Kind: r.Kind(), Field: key, Want: "bool", Got: v}
}

// Time returns a timestamp field. A null value yields the zero time.
func (r Record) Time(key string) (time.Time, error) {
	v, err := r.Get(key)
	if err != nil {
		return time.Time{}, err
	}
	switch t := v.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return t, nil
	case Timestamp:
		return t.Time, nil
	}
	return time.Time{}, &FieldError{Kind: r.Kind(), Field: key, Want: "timestamp", Got: v}
}

// Record returns a nested object field. A null value yields a nil Record.
func (r Record) Record(key string) (Record, error) {
	v, err := r.Get(key)
	if err != nil {
		return nil, err
	}
	switch sub := v.(type) {
	case nil:
		return nil, nil
	case Record:
		return sub, nil
	}
	return nil, &FieldError{Kind: r.Kind(), Field: key, Want: "object", Got: v}
}

// Records returns an array-of-objects field. A null value yields nil.
func (r Record) Records(key string) ([]Record, error) {
	v, err := r.Get(key)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	recs, ok := AsRecords(v)
	if !ok {
		return nil, &FieldError{Kind: r.Kind(), Field: key, Want: "array of objects", Got: v}
	}
	return recs, nil
}

// AsRecords converts a bound JSON array of objects.
func AsRecords(v any) ([]Record, bool) {
	switch items := v.(type) {
	case []Record:
		return items, true
	case []any:
		recs := make([]Record, 0, len(items))
		for _, item := range items {
			rec, ok := item.(Record)
			if !ok {
				return nil, false
			}
			recs = append(recs, rec)
		}
		return recs, true
	}
	return nil, false
}

// IsPullRequest reports whether an issue is backed by a pull request. The
// pull_request sub-record only counts when it carries a patch URL.
func IsPullRequest(issue Record) bool {
	pr, err := issue.Record("pull_request")
	if err != nil || pr == nil {
		return false
	}
	patch, err := pr.String("patch_url")
	return err == nil && patch != ""
}

// LabelNames returns the names of an issue's labels, in API order.
func LabelNames(issue Record) ([]string, error) {
	labels, err := issue.Records("labels")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(labels))
	for _, l := range labels {
		name, err := l.String("name")
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}
