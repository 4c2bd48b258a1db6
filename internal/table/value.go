// Package table holds the in-memory relational model: typed cell values,
// column layouts, result tables and their JSON projections.
package table

import (
	"fmt"
	"math"
	"strconv"
)

// Kind identifies the variant held by a Value
type Kind int

const (
	KindNull Kind = iota
	KindBoolean
	KindBinary
	KindFloat
	KindInteger
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	case KindBinary:
		return "binary"
	case KindFloat:
		return "float"
	case KindInteger:
		return "integer"
	case KindString:
		return "string"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is an immutable scalar cell. The zero Value is Null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	raw  []byte
}

func Null() Value { return Value{} }
func Boolean(b bool) Value { return Value{kind: KindBoolean, b: b} }
func Integer(i int64) Value { return Value{kind: KindInteger, i: i} }
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }
func String(s string) Value { return Value{kind: KindString, s: s} }
func Binary(p []byte) Value { return Value{kind: KindBinary, raw: append([]byte(nil), p...)} }

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// Int returns the integer payload
func (v Value) Int() (int64, bool) {
	return v.i, v.kind == KindInteger
}

// Str returns the string payload
func (v Value) Str() (string, bool) {
	return v.s, v.kind == KindString
}

// Bool returns the boolean payload
func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == KindBoolean
}

// Float64 returns the float payload
func (v Value) Float64() (float64, bool) {
	return v.f, v.kind == KindFloat
}

// Bytes returns a copy of the binary payload
func (v Value) Bytes() ([]byte, bool) {
	if v.kind != KindBinary {
		return nil, false
	}

	return append([]byte(nil), v.raw...), true
}

// Interface returns the payload as a plain Go value suitable for
// encoding/json and for database/sql arguments. Binary becomes []byte, which
// encoding/json renders as base64.
func (v Value) Interface() any {
	switch v.kind {
	case KindBoolean:
		return v.b
	case KindBinary:
		return append([]byte(nil), v.raw...)
	case KindFloat:
		return v.f
	case KindInteger:
		return v.i
	case KindString:
		return v.s
	default:
		return nil
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindBoolean:
		return strconv.FormatBool(v.b)
	case KindBinary:
		return fmt.Sprintf("binary(%d bytes)", len(v.raw))
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindString:
		return strconv.Quote(v.s)
	default:
		return "NULL"
	}
}

// Coerce converts a raw driver value into a Value of the requested kind. The
// second result is false if raw is nil or cannot represent kind; the returned
// Value is then Null.
func Coerce(raw any, kind Kind) (Value, bool) {
	if raw == nil {
		return Null(), false
	}

	switch kind {
	case KindInteger:
		switch x := raw.(type) {
		case int64:
			return Integer(x), true
		case int:
			return Integer(int64(x)), true
		case int32:
			return Integer(int64(x)), true
		case bool:
			if x {
				return Integer(1), true
			}

			return Integer(0), true
		case float64:
			if x == math.Trunc(x) && x >= math.MinInt64 && x < math.MaxInt64 {
				return Integer(int64(x)), true
			}
		}
	case KindFloat:
		switch x := raw.(type) {
		case float64:
			return Float(x), true
		case float32:
			return Float(float64(x)), true
		case int64:
			return Float(float64(x)), true
		case int:
			return Float(float64(x)), true
		}
	case KindBoolean:
		switch x := raw.(type) {
		case bool:
			return Boolean(x), true
		case int64:
			return Boolean(x != 0), true
		case int:
			return Boolean(x != 0), true
		}
	case KindString:
		switch x := raw.(type) {
		case string:
			return String(x), true
		case []byte:
			return String(string(x)), true
		}
	case KindBinary:
		switch x := raw.(type) {
		case []byte:
			return Binary(x), true
		case string:
			return Binary([]byte(x)), true
		}
	case KindNull:
		return Null(), true
	}

	return Null(), false
}
