// Package jsonvalue is a small tagged union over parsed JSON that keeps object
// members in the order they were received.
package jsonvalue

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	"github.com/buger/jsonparser"
)

type Kind int

const (
	Invalid Kind = iota
	Null
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "invalid"
	}
}

var ErrInvalidJSON = errors.New("invalid json")

type Member struct {
	Key   string
	Value Value
}

// Value is immutable once built. The zero Value has Kind Invalid and stands
// for "absent".
type Value struct {
	kind    Kind
	b       bool
	num     float64
	str     string
	items   []Value
	members []Member
}

func NullValue() Value { return Value{kind: Null} }
func BoolValue(b bool) Value { return Value{kind: Bool, b: b} }
func NumberValue(f float64) Value { return Value{kind: Number, num: f} }
func StringValue(s string) Value { return Value{kind: String, str: s} }
func ArrayValue(items ...Value) Value {
	return Value{kind: Array, items: append([]Value(nil), items...)}
}
func ObjectValue(members ...Member) Value {
	return Value{kind: Object, members: append([]Member(nil), members...)}
}

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsPresent() bool { return v.kind != Invalid }
func (v Value) IsNull() bool { return v.kind == Null }
func (v Value) IsNumber() bool { return v.kind == Number }
func (v Value) IsArray() bool { return v.kind == Array }
func (v Value) IsObject() bool { return v.kind == Object }
func (v Value) Float() float64 { return v.num }
func (v Value) Bool() bool { return v.b }
func (v Value) Str() string { return v.str }
func (v Value) Items() []Value { return v.items }
func (v Value) Members() []Member { return v.members }

// Len is the element count for arrays and the member count for objects.
func (v Value) Len() int {
	switch v.kind {
	case Array:
		return len(v.items)
	case Object:
		return len(v.members)
	default:
		return 0
	}
}

// Get returns the first member named key; duplicate keys resolve to the first.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != Object {
		return Value{}, false
	}
	for _, m := range v.members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// GetString returns the member as a string when it is one.
func (v Value) GetString(key string) (string, bool) {
	m, ok := v.Get(key)
	if !ok || m.kind != String {
		return "", false
	}
	return m.str, true
}

// Parse decodes a complete JSON document. Trailing garbage and malformed input
// are rejected.
func Parse(data []byte) (Value, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || !json.Valid(data) {
		return Value{}, ErrInvalidJSON
	}
	raw, typ, _, err := jsonparser.Get(data)
	if err == nil {
		var v Value
		if v, err = fromRaw(raw, typ); err == nil {
			return v, nil
		}
	}
	// jsonparser refuses some valid input, such as lone surrogate escapes in keys.
	v, terr := decodeTokens(data)
	if terr != nil {
		return Value{}, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return v, nil
}

func ParseString(s string) (Value, error) {
	return Parse([]byte(s))
}

func fromRaw(raw []byte, typ jsonparser.ValueType) (Value, error) {
	switch typ {
	case jsonparser.Null:
		return NullValue(), nil
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(raw)
		if err != nil {
			return Value{}, err
		}
		return BoolValue(b), nil
	case jsonparser.Number:
		f, err := parseNumber(string(raw))
		if err != nil {
			return Value{}, err
		}
		return NumberValue(f), nil
	case jsonparser.String:
		s, err := jsonparser.ParseString(raw)
		if err != nil {
			// encoding/json replaces bad escapes with U+FFFD.
			if uerr := json.Unmarshal(quoted(raw), &s); uerr != nil {
				return Value{}, err
			}
		}
		return StringValue(s), nil
	case jsonparser.Array:
		items := []Value{}
		var inner error
		_, err := jsonparser.ArrayEach(raw, func(val []byte, t jsonparser.ValueType, _ int, e error) {
			if inner != nil {
				return
			}
			if e != nil {
				inner = e
				return
			}
			item, err := fromRaw(val, t)
			if err != nil {
				inner = err
				return
			}
			items = append(items, item)
		})
		if err != nil {
			return Value{}, err
		}
		if inner != nil {
			return Value{}, inner
		}
		return Value{kind: Array, items: items}, nil
	case jsonparser.Object:
		members := []Member{}
		// ObjectEach hands over keys already unescaped.
		err := jsonparser.ObjectEach(raw, func(k []byte, val []byte, t jsonparser.ValueType, _ int) error {
			item, err := fromRaw(val, t)
			if err != nil {
				return err
			}
			members = append(members, Member{Key: string(k), Value: item})
			return nil
		})
		if err != nil {
			return Value{}, err
		}
		return Value{kind: Object, members: members}, nil
	default:
		return Value{}, fmt.Errorf("%w: unexpected value type %s", ErrInvalidJSON, typ)
	}
}

func quoted(raw []byte) []byte {
	b := make([]byte, 0, len(raw)+2)
	b = append(b, '"')
	b = append(b, raw...)
	return append(b, '"')
}

// parseNumber clamps out-of-range literals to the largest finite float64.
func parseNumber(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err == nil {
		return f, nil
	}
	if errors.Is(err, strconv.ErrRange) {
		switch {
		case math.IsInf(f, 1):
			return math.MaxFloat64, nil
		case math.IsInf(f, -1):
			return -math.MaxFloat64, nil
		default:
			return f, nil
		}
	}
	return 0, err
}

// decodeTokens walks data with encoding/json's tokenizer, keeping key order.
func decodeTokens(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeToken(dec)
	if err != nil {
		return Value{}, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return Value{}, ErrInvalidJSON
	}
	return v, nil
}

func decodeToken(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	switch t := tok.(type) {
	case nil:
		return NullValue(), nil
	case bool:
		return BoolValue(t), nil
	case json.Number:
		f, err := parseNumber(t.String())
		if err != nil {
			return Value{}, err
		}
		return NumberValue(f), nil
	case string:
		return StringValue(t), nil
	case json.Delim:
		switch t {
		case '[':
			items := []Value{}
			for dec.More() {
				item, err := decodeToken(dec)
				if err != nil {
					return Value{}, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return Value{kind: Array, items: items}, nil
		case '{':
			members := []Member{}
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := kt.(string)
				if !ok {
					return Value{}, ErrInvalidJSON
				}
				item, err := decodeToken(dec)
				if err != nil {
					return Value{}, err
				}
				members = append(members, Member{Key: key, Value: item})
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return Value{kind: Object, members: members}, nil
		}
	}
	return Value{}, ErrInvalidJSON
}

// FromAny converts decoded Go data (as produced by encoding/json into any) into a
// Value. Map keys have no inherent order and are sorted for determinism.
func FromAny(x any) Value {
	switch t := x.(type) {
	case nil:
		return NullValue()
	case bool:
		return BoolValue(t)
	case float64:
		return NumberValue(t)
	case float32:
		return NumberValue(float64(t))
	case int:
		return NumberValue(float64(t))
	case int64:
		return NumberValue(float64(t))
	case json.Number:
		f, err := parseNumber(t.String())
		if err != nil {
			return StringValue(t.String())
		}
		return NumberValue(f)
	case string:
		return StringValue(t)
	case []any:
		items := make([]Value, 0, len(t))
		for _, it := range t {
			items = append(items, FromAny(it))
		}
		return Value{kind: Array, items: items}
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		members := make([]Member, 0, len(keys))
		for _, k := range keys {
			members = append(members, Member{Key: k, Value: FromAny(t[k])})
		}
		return Value{kind: Object, members: members}
	default:
		return Value{}
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case Invalid, Null:
		buf.WriteString("null")
	case Bool:
		buf.WriteString(strconv.FormatBool(v.b))
	case Number:
		b, err := json.Marshal(v.num)
		if err != nil {
			return err
		}
		buf.Write(b)
	case String:
		b, err := json.Marshal(v.str)
		if err != nil {
			return err
		}
		buf.Write(b)
	case Array:
		buf.WriteByte('[')
		for i, it := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := it.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case Object:
		buf.WriteByte('{')
		for i, m := range v.members {
			if i > 0 {
				buf.WriteByte(',')
			}
			k, err := json.Marshal(m.Key)
			if err != nil {
				return err
			}
			buf.Write(k)
			buf.WriteByte(':')
			if err := m.Value.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

func (v *Value) UnmarshalJSON(b []byte) error {
	parsed, err := Parse(b)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
