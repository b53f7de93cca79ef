package codemeta

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Normalize returns a copy of doc in which every field known to p has the
// shape p expects. Unknown fields are copied unchanged; null values of known
// fields are dropped. Missing fields are never added.
func Normalize(doc Document, p *Profile) Document {
	out := doc.Clone()
	if out == nil {
		return Document{}
	}
	for name, raw := range out {
		spec, ok := p.Field(name)
		if !ok {
			continue
		}
		if v, keep := coerce(Classify(raw), spec); keep {
			out[name] = v.Raw()
		} else {
			delete(out, name)
		}
	}
	return out
}

// coerce converts v to spec's shape. keep is false when the field carries no
// value that fits the shape (null, or an empty list for a single-valued
// field) and should be dropped.
func coerce(v Value, spec FieldSpec) (Value, bool) {
	if v.Kind == KindNull {
		return v, false
	}
	switch spec.Shape {
	case ShapeAny:
		return v, true
	case ShapeText:
		return Value{Kind: KindText, Text: textOf(v)}, true
	case ShapeURI:
		return coerceURI(v)
	case ShapeLink:
		return coerceLink(v)
	case ShapeTextList:
		return coerceList(v, func(item Value) Value {
			if item.Kind == KindRef {
				return item
			}
			return Value{Kind: KindText, Text: textOf(item)}
		}), true
	case ShapePersonList, ShapeOrganizationList, ShapeRequirementList, ShapeCreativeWorkList:
		return coerceList(v, func(item Value) Value {
			return toRef(item, spec)
		}), true
	}
	return v, true
}

func coerceURI(v Value) (Value, bool) {
	switch v.Kind {
	case KindText, KindRef:
		return v, true
	case KindScalar:
		return Value{Kind: KindText, Text: v.Text}, true
	case KindList:
		for _, item := range v.List {
			if item.Kind != KindNull {
				return coerceURI(item)
			}
		}
		return v, false
	case KindNull:
		return v, false
	}
	return v, false
}

func coerceLink(v Value) (Value, bool) {
	switch v.Kind {
	case KindText, KindRef:
		return v, true
	case KindScalar:
		return Value{Kind: KindText, Text: v.Text}, true
	case KindList:
		list := coerceList(v, func(item Value) Value {
			if item.Kind == KindRef {
				return item
			}
			return Value{Kind: KindText, Text: textOf(item)}
		})
		return list, len(list.List) > 0
	case KindNull:
		return v, false
	}
	return v, false
}

// coerceList wraps single values into a list, flattens nested lists, drops
// nulls, and maps each remaining element through fn.
func coerceList(v Value, fn func(Value) Value) Value {
	var items []Value
	var walk func(Value)
	walk = func(item Value) {
		switch item.Kind {
		case KindNull:
		case KindList:
			for _, inner := range item.List {
				walk(inner)
			}
		case KindText, KindScalar, KindRef:
			items = append(items, fn(item))
		}
	}
	walk(v)
	if items == nil {
		items = []Value{}
	}
	return Value{Kind: KindList, List: items}
}

// toRef turns a list element into an object of the field's entity type.
func toRef(item Value, spec FieldSpec) Value {
	switch item.Kind {
	case KindRef:
		if _, ok := item.Ref["@type"]; !ok && spec.Type != "" {
			ref := make(map[string]any, len(item.Ref)+1)
			for k, v := range item.Ref {
				ref[k] = v
			}
			ref["@type"] = spec.Type
			return Value{Kind: KindRef, Ref: ref}
		}
		return item
	case KindText, KindScalar:
		return Value{Kind: KindRef, Ref: refFromText(item.Text, spec)}
	case KindNull, KindList:
	}
	return Value{Kind: KindRef, Ref: map[string]any{"@type": spec.Type}}
}

func refFromText(s string, spec FieldSpec) map[string]any {
	s = strings.TrimSpace(s)
	switch spec.Shape {
	case ShapeRequirementList:
		return ParseRequirement(s).Map()
	case ShapeCreativeWorkList:
		if id := workID(s); id != "" {
			return map[string]any{"@type": spec.Type, "@id": id}
		}
		return map[string]any{"@type": spec.Type, "name": s}
	case ShapePersonList, ShapeOrganizationList:
		if isAbsoluteURI(s) {
			return map[string]any{"@type": spec.Type, "@id": s}
		}
	}
	return map[string]any{"@type": spec.Type, "name": s}
}

var doiRE = regexp.MustCompile(`^(?:doi:)?(10\.\d{4,9}/\S+)$`)

// workID returns a URI for a DOI or URL reference, or "".
func workID(s string) string {
	if m := doiRE.FindStringSubmatch(s); m != nil {
		return "https://doi.org/" + m[1]
	}
	if isAbsoluteURI(s) && (strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")) {
		return s
	}
	return ""
}

// textOf flattens any value into a single string.
func textOf(v Value) string {
	switch v.Kind {
	case KindText, KindScalar:
		return v.Text
	case KindRef:
		for _, key := range []string{"@value", "name", "@id", "url"} {
			if s := refString(v.Ref, key); s != "" {
				return s
			}
		}
		data, _ := json.Marshal(v.Ref)
		return string(data)
	case KindList:
		parts := make([]string, 0, len(v.List))
		for _, item := range v.List {
			if item.Kind == KindNull {
				continue
			}
			parts = append(parts, textOf(item))
		}
		return strings.Join(parts, ", ")
	case KindNull:
	}
	return ""
}
