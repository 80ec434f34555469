// Package value implements the JSON-like intermediate value that a
// CacheDescriptor's Encode/Decode functions and a Migration's Upgrade
// function exchange with the cache.
//
// spec.md's Design Notes (§9) ask for a tagged variant in place of
// the source's untyped JSON value; Value is that variant.
package value

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Kind discriminates the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindMap
)

// Value is the JSON-like intermediate a CacheDescriptor's Encode/Decode
// functions produce and consume. Exactly one of the fields matching
// Kind is meaningful; the rest are zero.
type Value struct {
	Kind   Kind
	Bool   bool
	Number float64
	Str    string
	List   []Value
	Map    map[string]Value
}

func Null() Value             { return Value{Kind: KindNull} }
func Bool(b bool) Value       { return Value{Kind: KindBool, Bool: b} }
func Number(n float64) Value  { return Value{Kind: KindNumber, Number: n} }
func String(s string) Value   { return Value{Kind: KindString, Str: s} }
func List(v []Value) Value    { return Value{Kind: KindList, List: v} }
func Map(v map[string]Value) Value { return Value{Kind: KindMap, Map: v} }

// MarshalJSON renders Value the way its Kind implies: a JSON null,
// boolean, number, string, array, or object. Unknown fields on decode
// (spec.md §4.2) fall out naturally because KindMap decodes into a
// map[string]Value and extra object keys are simply extra map
// entries the caller's Decode is free to ignore.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return json.Marshal(v.Bool)
	case KindNumber:
		return json.Marshal(v.Number)
	case KindString:
		return json.Marshal(v.Str)
	case KindList:
		return json.Marshal(v.List)
	case KindMap:
		return json.Marshal(v.Map)
	default:
		return nil, fmt.Errorf("value: unknown value kind %d", v.Kind)
	}
}

// UnmarshalJSON reconstructs a Value by sniffing the leading token of
// the JSON text, then redecoding into the matching native Go type.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("value: empty JSON value")
	}

	switch trimmed[0] {
	case 'n':
		*v = Null()
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return err
		}
		*v = Bool(b)
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*v = String(s)
		return nil
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
		list := make([]Value, len(raw))
		for i, r := range raw {
			if err := json.Unmarshal(r, &list[i]); err != nil {
				return err
			}
		}
		*v = List(list)
		return nil
	case '{':
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
		m := make(map[string]Value, len(raw))
		for k, r := range raw {
			var vv Value
			if err := json.Unmarshal(r, &vv); err != nil {
				return err
			}
			m[k] = vv
		}
		*v = Map(m)
		return nil
	default:
		var n float64
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return fmt.Errorf("value: unrecognized JSON value: %w", err)
		}
		*v = Number(n)
		return nil
	}
}
