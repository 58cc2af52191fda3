package table

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind identifies the scalar type held by a Value.
type Kind uint8

const (
	Null Kind = iota
	String
	Number
	Date
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Number:
		return "number"
	case Date:
		return "date"
	default:
		return "null"
	}
}

// Value is a single typed cell. The zero Value is null.
type Value struct {
	Kind Kind
	// Str holds the text of a String. On a null made by CoercedNull it keeps
	// the rejected input.
	Str  string
	Num  float64
	Time time.Time
}

// NullValue returns the missing-value sentinel.
func NullValue() Value { return Value{} }

// CoercedNull returns a null that remembers the text it replaced. It behaves
// like any other null; Rejected returns the text.
func CoercedNull(raw string) Value { return Value{Str: raw} }

// Rejected returns the input a coerced null replaced, or "" for any other value.
func (v Value) Rejected() string {
	if v.Kind != Null {
		return ""
	}
	return v.Str
}

// StringValue wraps s.
func StringValue(s string) Value { return Value{Kind: String, Str: s} }

// NumberValue wraps f. NaN and infinities are stored as null.
func NumberValue(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}
	}
	return Value{Kind: Number, Num: f}
}

// DateValue wraps t. A zero time is stored as null.
func DateValue(t time.Time) Value {
	if t.IsZero() {
		return Value{}
	}
	return Value{Kind: Date, Time: t}
}

func (v Value) IsNull() bool { return v.Kind == Null }

// Text renders the value for display and for set membership. Null renders as "".
func (v Value) Text() string {
	switch v.Kind {
	case String:
		return v.Str
	case Number:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case Date:
		if v.Time.Hour() == 0 && v.Time.Minute() == 0 && v.Time.Second() == 0 && v.Time.Nanosecond() == 0 {
			return v.Time.Format("2006-01-02")
		}
		return v.Time.Format("2006-01-02 15:04:05")
	default:
		return ""
	}
}

// Equal reports whether both values have the same kind and content.
// Two nulls compare equal.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case String:
		return v.Str == o.Str
	case Number:
		return v.Num == o.Num
	case Date:
		return v.Time.Equal(o.Time)
	default:
		return true
	}
}

func (v Value) writeKey(b *strings.Builder) {
	b.WriteByte(byte('0' + v.Kind))
	switch v.Kind {
	case Date:
		b.WriteString(v.Time.UTC().Format(time.RFC3339Nano))
	case Number:
		b.WriteString(strconv.FormatFloat(v.Num, 'g', -1, 64))
	case String:
		b.WriteString(v.Str)
	}
	b.WriteByte(0x1f)
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case String:
		return json.Marshal(v.Str)
	case Number:
		return json.Marshal(v.Num)
	case Date:
		return json.Marshal(v.Time.Format(time.RFC3339))
	default:
		return []byte("null"), nil
	}
}

// MarshalYAML implements yaml.Marshaler.
func (v Value) MarshalYAML() (interface{}, error) {
	switch v.Kind {
	case String:
		return v.Str, nil
	case Number:
		return v.Num, nil
	case Date:
		return v.Time.Format(time.RFC3339), nil
	default:
		return nil, nil
	}
}
