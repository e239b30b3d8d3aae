package intelmesh

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Views wrap the decoded JSON document a response carried. Nothing is decoded
// up front: every accessor reads the document on each call and reports
// *DecodeError when the document does not hold what the accessor promises.
// A required key that is absent or null wraps ErrMissingField.

// jsonView is the common core of all read-only views.
type jsonView struct {
	name string
	data map[string]any
}

// Raw returns the backing document. The document is shared, not copied;
// callers must not modify it.
func (v jsonView) Raw() map[string]any { return v.data }

// String renders the backing document as compact JSON.
func (v jsonView) String() string {
	b, err := json.Marshal(v.data)
	if err != nil {
		return fmt.Sprintf("%s(unprintable)", v.name)
	}
	return string(b)
}

func (v jsonView) missing(key string) error {
	return &DecodeError{View: v.name, Field: key, Err: ErrMissingField}
}

func (v jsonView) malformed(key string, err error) error {
	return &DecodeError{View: v.name, Field: key, Err: err}
}

func (v jsonView) field(key string) (any, error) {
	val, ok := v.data[key]
	if !ok || val == nil {
		return nil, v.missing(key)
	}
	return val, nil
}

func (v jsonView) str(key string) (string, error) {
	val, err := v.field(key)
	if err != nil {
		return "", err
	}
	s, ok := val.(string)
	if !ok {
		return "", v.malformed(key, fmt.Errorf("unexpected type %T, want string", val))
	}
	return s, nil
}

func (v jsonView) optStr(key string) (string, bool, error) {
	val, ok := v.data[key]
	if !ok || val == nil {
		return "", false, nil
	}
	s, ok := val.(string)
	if !ok {
		return "", false, v.malformed(key, fmt.Errorf("unexpected type %T, want string", val))
	}
	return s, true, nil
}

func (v jsonView) f64(key string) (float64, error) {
	val, err := v.field(key)
	if err != nil {
		return 0, err
	}
	f, err := toFloat64(val)
	if err != nil {
		return 0, v.malformed(key, err)
	}
	return f, nil
}

func (v jsonView) i64(key string) (int64, error) {
	f, err := v.f64(key)
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}

func (v jsonView) boolean(key string) (bool, error) {
	val, err := v.field(key)
	if err != nil {
		return false, err
	}
	b, ok := val.(bool)
	if !ok {
		return false, v.malformed(key, fmt.Errorf("unexpected type %T, want bool", val))
	}
	return b, nil
}

func (v jsonView) uuidField(key string) (uuid.UUID, error) {
	s, err := v.str(key)
	if err != nil {
		return uuid.UUID{}, err
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.UUID{}, v.malformed(key, fmt.Errorf("invalid uuid %q: %w", s, err))
	}
	return id, nil
}

func (v jsonView) timeField(key string) (time.Time, error) {
	s, err := v.str(key)
	if err != nil {
		return time.Time{}, err
	}
	t, err := parseTimestamp(s)
	if err != nil {
		return time.Time{}, v.malformed(key, err)
	}
	return t, nil
}

func (v jsonView) optTime(key string) (time.Time, bool, error) {
	s, ok, err := v.optStr(key)
	if err != nil || !ok {
		return time.Time{}, false, err
	}
	t, err := parseTimestamp(s)
	if err != nil {
		return time.Time{}, false, v.malformed(key, err)
	}
	return t, true, nil
}

// optAny returns the raw value of an optional key. Absent and null both
// report "not present".
func (v jsonView) optAny(key string) (any, bool) {
	val, ok := v.data[key]
	if !ok || val == nil {
		return nil, false
	}
	return val, true
}

// pick returns the first of keys present in the document, or keys[0] when
// none is, so that error reporting names the canonical key. It exists for
// fields whose spelling changed between payload generations.
func (v jsonView) pick(keys ...string) string {
	for _, k := range keys {
		if _, ok := v.data[k]; ok {
			return k
		}
	}
	return keys[0]
}

func (v jsonView) object(key string) (map[string]any, error) {
	val, err := v.field(key)
	if err != nil {
		return nil, err
	}
	m, ok := val.(map[string]any)
	if !ok {
		return nil, v.malformed(key, fmt.Errorf("unexpected type %T, want object", val))
	}
	return m, nil
}

func (v jsonView) list(key string) ([]any, error) {
	val, err := v.field(key)
	if err != nil {
		return nil, err
	}
	l, ok := val.([]any)
	if !ok {
		return nil, v.malformed(key, fmt.Errorf("unexpected type %T, want array", val))
	}
	return l, nil
}

func (v jsonView) objectList(key string) ([]map[string]any, error) {
	items, err := v.list(key)
	if err != nil {
		return nil, err
	}
	return v.objectItems(key, items)
}

// optObjectList distinguishes an absent (or null) array from a present empty
// one: absent reports ok == false, an empty array reports ok == true with a
// zero-length result.
func (v jsonView) optObjectList(key string) ([]map[string]any, bool, error) {
	val, ok := v.data[key]
	if !ok || val == nil {
		return nil, false, nil
	}
	items, isList := val.([]any)
	if !isList {
		return nil, false, v.malformed(key, fmt.Errorf("unexpected type %T, want array", val))
	}
	docs, err := v.objectItems(key, items)
	if err != nil {
		return nil, false, err
	}
	return docs, true, nil
}

func (v jsonView) objectItems(key string, items []any) ([]map[string]any, error) {
	docs := make([]map[string]any, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			field := fmt.Sprintf("%s[%d]", key, i)
			return nil, v.malformed(field, fmt.Errorf("unexpected type %T, want object", item))
		}
		docs[i] = m
	}
	return docs, nil
}

func toFloat64(val any) (float64, error) {
	switch n := val.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	default:
		return 0, fmt.Errorf("unexpected type %T, want number", val)
	}
}

// jsonForm is the common core of all request form builders. Forms accumulate
// a mutable JSON document; a snapshot deep-copies it so later mutations of
// the form never leak into documents already handed out.
type jsonForm struct {
	data map[string]any
}

func newJSONForm() jsonForm {
	return jsonForm{data: make(map[string]any)}
}

func (f *jsonForm) snapshot() map[string]any {
	return cloneObject(f.data)
}

func cloneObject(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, val := range m {
		out[k] = cloneValue(val)
	}
	return out
}

func cloneList(l []any) []any {
	out := make([]any, len(l))
	for i, val := range l {
		out[i] = cloneValue(val)
	}
	return out
}

// cloneValue deep-copies the container shapes a form document is built from.
// Scalars (and any caller-supplied value of another type) pass through as is.
func cloneValue(val any) any {
	switch tv := val.(type) {
	case map[string]any:
		return cloneObject(tv)
	case []any:
		return cloneList(tv)
	default:
		return val
	}
}
