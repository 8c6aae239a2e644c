package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// DecodeError reports a structurally malformed payload: a missing field,
// a type mismatch or an unknown enum tag.
type DecodeError struct {
	Type   string // Go type being decoded
	Index  int    // element index for list payloads, -1 otherwise
	Field  string // wire field name, empty when the whole record is bad
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	b.WriteString("decode ")
	b.WriteString(e.Type)
	if e.Index >= 0 {
		fmt.Fprintf(&b, "[%d]", e.Index)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, ".%s", e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *DecodeError) Unwrap() error { return e.Err }

var jsonNull = []byte("null")

// decodeRecord fills v (a pointer to struct) from a JSON object, requiring
// every tagged field to be present and non-null. Unknown fields are ignored
// so servers can add fields without breaking older viewers.
func decodeRecord(data []byte, v any, index int) error {
	rv := reflect.ValueOf(v).Elem()
	rt := rv.Type()

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return &DecodeError{Type: rt.Name(), Index: index, Reason: "expected object", Err: err}
	}
	if fields == nil {
		return &DecodeError{Type: rt.Name(), Index: index, Reason: "null record"}
	}

	for i := 0; i < rt.NumField(); i++ {
		name := wireName(rt.Field(i))
		if name == "" {
			continue
		}
		raw, ok := fields[name]
		if !ok {
			return &DecodeError{Type: rt.Name(), Index: index, Field: name, Reason: "missing field"}
		}
		if bytes.Equal(bytes.TrimSpace(raw), jsonNull) {
			return &DecodeError{Type: rt.Name(), Index: index, Field: name, Reason: "null value"}
		}
		if err := json.Unmarshal(raw, rv.Field(i).Addr().Interface()); err != nil {
			return &DecodeError{Type: rt.Name(), Index: index, Field: name, Reason: "invalid value", Err: err}
		}
	}
	return nil
}

func wireName(f reflect.StructField) string {
	if !f.IsExported() {
		return ""
	}
	tag := f.Tag.Get("json")
	if tag == "-" {
		return ""
	}
	if name, _, _ := strings.Cut(tag, ","); name != "" {
		return name
	}
	return f.Name
}

// Decode strictly decodes a single record of type T.
func Decode[T any](c Codec, data []byte) (T, error) {
	var out T
	canonical, err := c.canonical(data)
	if err != nil {
		return out, &DecodeError{Type: reflect.TypeOf(out).Name(), Index: -1, Reason: "malformed payload", Err: err}
	}
	if err := decodeRecord(canonical, &out, -1); err != nil {
		return out, err
	}
	return out, nil
}

// DecodeList strictly decodes an array of records of type T. An empty array
// is valid; a null or non-array payload is not.
func DecodeList[T any](c Codec, data []byte) ([]T, error) {
	var zero T
	typeName := "[]" + reflect.TypeOf(zero).Name()

	canonical, err := c.canonical(data)
	if err != nil {
		return nil, &DecodeError{Type: typeName, Index: -1, Reason: "malformed payload", Err: err}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(canonical, &items); err != nil {
		return nil, &DecodeError{Type: typeName, Index: -1, Reason: "expected array", Err: err}
	}
	if items == nil {
		return nil, &DecodeError{Type: typeName, Index: -1, Reason: "null listing"}
	}

	out := make([]T, len(items))
	for i, raw := range items {
		if err := decodeRecord(raw, &out[i], i); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// DecodeSummaries decodes a listing response.
func DecodeSummaries(c Codec, data []byte) ([]ObjectSummary, error) {
	return DecodeList[ObjectSummary](c, data)
}
