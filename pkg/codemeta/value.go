package codemeta

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Document is a decoded CodeMeta JSON-LD object.
type Document map[string]any

// Kind tags the shape of a raw JSON value.
type Kind int

const (
	KindNull   Kind = iota // JSON null
	KindText               // string
	KindScalar             // number or boolean
	KindRef                // object (Person, Organization, ...)
	KindList               // array
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindText:
		return "text"
	case KindScalar:
		return "scalar"
	case KindRef:
		return "object"
	case KindList:
		return "list"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Value is a classified JSON value. Exactly one payload field is meaningful,
// selected by Kind: Text for KindText and KindScalar (formatted), Ref for
// KindRef, List for KindList.
type Value struct {
	Kind   Kind
	Text   string
	Scalar any
	Ref    map[string]any
	List   []Value
}

// Classify converts a decoded JSON value into a Value. Go values that are not
// produced by encoding/json are treated as scalars and formatted with fmt.
func Classify(raw any) Value {
	switch v := raw.(type) {
	case nil:
		return Value{Kind: KindNull}
	case string:
		return Value{Kind: KindText, Text: v}
	case bool:
		return Value{Kind: KindScalar, Scalar: v, Text: strconv.FormatBool(v)}
	case float64:
		return Value{Kind: KindScalar, Scalar: v, Text: strconv.FormatFloat(v, 'f', -1, 64)}
	case json.Number:
		return Value{Kind: KindScalar, Scalar: v, Text: v.String()}
	case int:
		return Value{Kind: KindScalar, Scalar: v, Text: strconv.Itoa(v)}
	case int64:
		return Value{Kind: KindScalar, Scalar: v, Text: strconv.FormatInt(v, 10)}
	case map[string]any:
		return Value{Kind: KindRef, Ref: v}
	case Document:
		return Value{Kind: KindRef, Ref: map[string]any(v)}
	case []any:
		list := make([]Value, len(v))
		for i, item := range v {
			list[i] = Classify(item)
		}
		return Value{Kind: KindList, List: list}
	case []string:
		list := make([]Value, len(v))
		for i, item := range v {
			list[i] = Value{Kind: KindText, Text: item}
		}
		return Value{Kind: KindList, List: list}
	case []map[string]any:
		list := make([]Value, len(v))
		for i, item := range v {
			list[i] = Value{Kind: KindRef, Ref: item}
		}
		return Value{Kind: KindList, List: list}
	}
	return Value{Kind: KindScalar, Scalar: raw, Text: fmt.Sprint(raw)}
}

// Raw converts v back into a JSON-compatible value.
func (v Value) Raw() any {
	switch v.Kind {
	case KindNull:
		return nil
	case KindText:
		return v.Text
	case KindScalar:
		return v.Scalar
	case KindRef:
		return v.Ref
	case KindList:
		out := make([]any, len(v.List))
		for i, item := range v.List {
			out[i] = item.Raw()
		}
		return out
	}
	return nil
}

// IsEmpty reports whether v carries no information: null, "", or [].
func (v Value) IsEmpty() bool {
	switch v.Kind {
	case KindNull:
		return true
	case KindText:
		return v.Text == ""
	case KindList:
		return len(v.List) == 0
	case KindScalar, KindRef:
		return false
	}
	return false
}

// refString returns a string-valued key of an object, or "".
func refString(ref map[string]any, key string) string {
	if s, ok := ref[key].(string); ok {
		return s
	}
	return ""
}

// Clone returns a deep copy of doc.
func (doc Document) Clone() Document {
	if doc == nil {
		return nil
	}
	return cloneValue(map[string]any(doc)).(map[string]any)
}

func cloneValue(raw any) any {
	switch v := raw.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = cloneValue(item)
		}
		return out
	case Document:
		return cloneValue(map[string]any(v))
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = item
		}
		return out
	case []map[string]any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}
		return out
	}
	return raw
}
