package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var errNotObject = errors.New("model: value must be a JSON object")

// Object is a JSON object that keeps every member, in source order, as
// raw JSON. Values are never coerced, so it round-trips unchanged.
type Object struct {
	keys   []string
	fields map[string]json.RawMessage
}

// Set assigns a field, appending the key if it is new.
func (o *Object) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("model: encode field %q: %w", key, err)
	}
	if o.fields == nil {
		o.fields = make(map[string]json.RawMessage)
	}
	if _, ok := o.fields[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.fields[key] = raw
	return nil
}

// Field returns a string field, or "" when absent or not a string.
func (o Object) Field(key string) string {
	raw, ok := o.fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// Number returns a numeric field. ok is false when the key is absent or
// holds anything other than a JSON number.
func (o Object) Number(key string) (v float64, ok bool) {
	raw, present := o.fields[key]
	if !present {
		return 0, false
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}
	return v, true
}

// Has reports whether the key is present.
func (o Object) Has(key string) bool {
	_, ok := o.fields[key]
	return ok
}

// Keys returns the field names in source order.
func (o Object) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// UnmarshalJSON decodes an object while recording key order. Anything
// other than an object, null included, is rejected.
func (o *Object) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("model: decode object: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errNotObject
	}

	o.keys = nil
	o.fields = make(map[string]json.RawMessage)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("model: decode object: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return errNotObject
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("model: decode field %q: %w", key, err)
		}
		if _, seen := o.fields[key]; !seen {
			o.keys = append(o.keys, key)
		}
		o.fields[key] = raw
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("model: decode object: %w", err)
	}
	return nil
}

// MarshalJSON writes the fields back in source order.
func (o Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if _, err := o.writeFields(&buf, nil); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (o Object) writeFields(buf *bytes.Buffer, skip map[string]bool) (int, error) {
	n := 0
	for _, key := range o.keys {
		if skip[key] {
			continue
		}
		if err := writeMember(buf, n, key, o.fields[key]); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func writeMember(buf *bytes.Buffer, index int, key string, value []byte) error {
	if index > 0 {
		buf.WriteByte(',')
	}
	encodedKey, err := json.Marshal(key)
	if err != nil {
		return err
	}
	buf.Write(encodedKey)
	buf.WriteByte(':')
	buf.Write(value)
	return nil
}
