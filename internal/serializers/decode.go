package serializers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
)

// MaxBodyBytes bounds the size of a request payload.
const MaxBodyBytes = 1 << 20

// readOnlyFields are sourced from the request context or the server, never
// from a payload. Parent keys are taken from the URL path only.
var readOnlyFields = map[string]bool{
	"id":             true,
	"owner":          true,
	"owner_id":       true,
	"user":           true,
	"user_id":        true,
	"project":        true,
	"project_id":     true,
	"page":           true,
	"page_id":        true,
	"section":        true,
	"section_id":     true,
	"created_at":     true,
	"updated_at":     true,
	"date_joined":    true,
	"date_submitted": true,
	"is_staff":       true,
}

// Field is a tri-state payload value: absent, explicitly null, or set.
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Of returns a field set to v.
func Of[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Null = true
		var zero T
		f.Value = zero
		return nil
	}
	f.Null = false
	return json.Unmarshal(data, &f.Value)
}

// Decode reads a single JSON object from r into dst, which must be a pointer
// to an input struct. Read-only and unknown keys are rejected, as are values
// of the wrong type; all problems are reported together.
func Decode(r io.Reader, dst any) error {
	data, err := io.ReadAll(io.LimitReader(r, MaxBodyBytes+1))
	if err != nil {
		return fmt.Errorf("reading payload: %w", err)
	}
	if len(data) > MaxBodyBytes {
		return NewValidationError("body", "payload too large")
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		return NewValidationError("body", "must be a JSON object")
	}

	target := reflect.ValueOf(dst)
	if target.Kind() != reflect.Pointer || target.Elem().Kind() != reflect.Struct {
		return errors.New("decode target must be a pointer to a struct")
	}
	fields := fieldsByTag(target.Elem())

	verr := &ValidationError{}
	for key, value := range raw {
		field, known := fields[key]
		switch {
		case readOnlyFields[key]:
			verr.Add(key, "field is read-only")
		case !known:
			verr.Add(key, "unknown field")
		default:
			if err := json.Unmarshal(value, field.Addr().Interface()); err != nil {
				verr.Add(key, "invalid value")
			}
		}
	}
	return verr.Err()
}

func fieldsByTag(v reflect.Value) map[string]reflect.Value {
	out := make(map[string]reflect.Value)
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := strings.Split(sf.Tag.Get("json"), ",")[0]
		if name == "" || name == "-" {
			continue
		}
		out[name] = v.Field(i)
	}
	return out
}
