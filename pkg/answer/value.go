package answer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind discriminates the payload held by a Value.
type Kind uint8

const (
	KindNone Kind = iota
	KindText
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindBool:
		return "bool"
	default:
		return "none"
	}
}

// Value is a string | boolean answer. The zero Value is "no answer".
type Value struct {
	kind Kind
	text string
	flag bool
}

// Text wraps a string answer.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Bool wraps a boolean answer.
func Bool(b bool) Value {
	return Value{kind: KindBool, flag: b}
}

// FromAny converts decoded JSON/form payloads into a Value. Only strings and
// booleans are accepted; nil maps to the zero Value.
func FromAny(raw any) (Value, error) {
	switch v := raw.(type) {
	case nil:
		return Value{}, nil
	case Value:
		return v, nil
	case string:
		return Text(v), nil
	case bool:
		return Bool(v), nil
	default:
		return Value{}, fmt.Errorf("answer: unsupported value type %T", raw)
	}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsZero() bool { return v.kind == KindNone }

// AsText returns the string payload and whether the value holds text.
func (v Value) AsText() (string, bool) {
	return v.text, v.kind == KindText
}

// AsBool returns the boolean payload and whether the value holds a boolean.
func (v Value) AsBool() (bool, bool) {
	return v.flag, v.kind == KindBool
}

// Interface returns the payload as string, bool or nil.
func (v Value) Interface() any {
	switch v.kind {
	case KindText:
		return v.text
	case KindBool:
		return v.flag
	default:
		return nil
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindBool:
		return strconv.FormatBool(v.flag)
	default:
		return ""
	}
}

// Equal reports whether both values have the same kind and payload.
func (v Value) Equal(other Value) bool {
	return v == other
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

func (v *Value) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*v = Value{}
		return nil
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("answer: decode value: %w", err)
	}
	decoded, err := FromAny(raw)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}
