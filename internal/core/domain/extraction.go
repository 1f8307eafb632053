package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// Well-known extraction keys.
const (
	FieldDocumentType = "documentType"
	FieldExpiryDate   = "expiryDate"
	FieldError        = "error"
	FieldRawText      = "rawText"
	FieldParseError   = "parseError"
)

type ValueKind int

const (
	KindString ValueKind = iota
	KindNumber
	KindBool
	KindError
)

// Value is a scalar extracted field: string, number, bool or an error marker.
type Value struct {
	kind ValueKind
	str  string
	num  float64
	b    bool
}

func StringValue(s string) Value  { return Value{kind: KindString, str: s} }
func NumberValue(n float64) Value { return Value{kind: KindNumber, num: n} }
func BoolValue(b bool) Value      { return Value{kind: KindBool, b: b} }
func ErrorValue(msg string) Value { return Value{kind: KindError, str: msg} }

func (v Value) Kind() ValueKind { return v.kind }

// Text renders the value the way it is matched and displayed.
func (v Value) Text() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return v.str
	}
}

// Truthy reports whether the value carries information: non-empty text,
// non-zero number or true.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNumber:
		return v.num != 0
	case KindBool:
		return v.b
	default:
		return v.str != ""
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.b)
	default:
		return json.Marshal(v.str)
	}
}

type Field struct {
	Key   string
	Value Value
}

// RawExtraction is the loosely shaped record returned by the extraction
// service. Field order is preserved.
type RawExtraction struct {
	fields []Field
}

func NewRawExtraction(fields ...Field) *RawExtraction {
	ext := &RawExtraction{}
	for _, f := range fields {
		ext.Set(f.Key, f.Value)
	}
	return ext
}

func (e *RawExtraction) Len() int {
	if e == nil {
		return 0
	}
	return len(e.fields)
}

// Fields returns a copy of the fields in insertion order.
func (e *RawExtraction) Fields() []Field {
	if e == nil {
		return nil
	}
	out := make([]Field, len(e.fields))
	copy(out, e.fields)
	return out
}

func (e *RawExtraction) Get(key string) (Value, bool) {
	if e == nil {
		return Value{}, false
	}
	for _, f := range e.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Text returns the text of key, or "" when absent.
func (e *RawExtraction) Text(key string) string {
	v, ok := e.Get(key)
	if !ok {
		return ""
	}
	return v.Text()
}

func (e *RawExtraction) Truthy(key string) bool {
	v, ok := e.Get(key)
	return ok && v.Truthy()
}

// Set replaces an existing key in place or appends a new one.
func (e *RawExtraction) Set(key string, v Value) {
	for i := range e.fields {
		if e.fields[i].Key == key {
			e.fields[i].Value = v
			return
		}
	}
	e.fields = append(e.fields, Field{Key: key, Value: v})
}

func (e *RawExtraction) DocumentType() string {
	return e.Text(FieldDocumentType)
}

// ErrorMessage returns the error marker text when the error field is set.
func (e *RawExtraction) ErrorMessage() string {
	if !e.Truthy(FieldError) {
		return ""
	}
	return e.Text(FieldError)
}

func (e *RawExtraction) Clone() *RawExtraction {
	if e == nil {
		return nil
	}
	return &RawExtraction{fields: e.Fields()}
}

func (e *RawExtraction) MarshalJSON() ([]byte, error) {
	if e == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range e.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		val, err := f.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object keeping key order. Nested objects and
// arrays are kept as their compact JSON text, nulls are dropped.
func (e *RawExtraction) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decode extraction: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("decode extraction: expected JSON object")
	}

	e.fields = e.fields[:0]
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decode extraction key: %w", err)
		}
		key, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("decode extraction value %q: %w", key, err)
		}
		v, keep, err := decodeValue(raw)
		if err != nil {
			return fmt.Errorf("decode extraction value %q: %w", key, err)
		}
		if keep {
			e.Set(key, v)
		}
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("decode extraction: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("decode extraction: trailing data after object")
	}
	return nil
}

func decodeValue(raw json.RawMessage) (Value, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Value{}, false, nil
	}
	switch trimmed[0] {
	case 'n':
		return Value{}, false, nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return Value{}, false, err
		}
		return BoolValue(b), true, nil
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return Value{}, false, err
		}
		return StringValue(s), true, nil
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err != nil {
			return Value{}, false, err
		}
		return StringValue(buf.String()), true, nil
	default:
		n, err := strconv.ParseFloat(string(trimmed), 64)
		if err != nil {
			return Value{}, false, err
		}
		return NumberValue(n), true, nil
	}
}
