package codemeta

import (
	"strings"

	"github.com/matzehuels/codemeta/pkg/errors"
)

// Version is a supported CodeMeta schema version.
type Version string

const (
	V2 Version = "2.0"
	V3 Version = "3.0"
)

// DefaultVersion is used when no version is requested.
const DefaultVersion = V3

// Canonical context URIs written into documents.
const (
	ContextV2 = "https://doi.org/10.5063/schema/codemeta-2.0"
	ContextV3 = "https://w3id.org/codemeta/3.0"
)

// contextAliases maps every context URI we recognise to its version.
var contextAliases = map[string]Version{
	ContextV2: V2,
	ContextV3: V3,

	"http://doi.org/10.5063/schema/codemeta-2.0":                              V2,
	"https://raw.githubusercontent.com/codemeta/codemeta/2.0/codemeta.jsonld": V2,
	"http://w3id.org/codemeta/3.0":                                            V3,
	"https://doi.org/10.5063/schema/codemeta-3.0":                             V3,
	"https://raw.githubusercontent.com/codemeta/codemeta/3.0/codemeta.jsonld": V3,
}

// ParseVersion accepts "2.0", "3.0", "2", "3" and a leading "v".
func ParseVersion(s string) (Version, error) {
	switch strings.TrimPrefix(strings.TrimSpace(s), "v") {
	case "2.0", "2":
		return V2, nil
	case "3.0", "3":
		return V3, nil
	case "":
		return DefaultVersion, nil
	}
	return "", errors.UnsupportedVersion(s)
}

// Valid reports whether v is a supported version.
func (v Version) Valid() bool { return v == V2 || v == V3 }

// Context returns the canonical @context URI for v.
func (v Version) Context() string {
	if v == V2 {
		return ContextV2
	}
	return ContextV3
}

func (v Version) String() string { return string(v) }

// DetectVersion reads the schema version from a document's @context. A
// missing or unrecognised context means 2.0.
func DetectVersion(doc Document) Version {
	if v, ok := contextVersion(doc["@context"]); ok {
		return v
	}
	return V2
}

func contextVersion(ctx any) (Version, bool) {
	val := Classify(ctx)
	switch val.Kind {
	case KindText:
		v, ok := contextAliases[normalizeContextURI(val.Text)]
		return v, ok
	case KindList:
		// The newest codemeta entry wins when several are listed.
		found := Version("")
		for _, item := range val.List {
			if item.Kind != KindText {
				continue
			}
			if v, ok := contextAliases[normalizeContextURI(item.Text)]; ok && v > found {
				found = v
			}
		}
		return found, found != ""
	case KindNull, KindScalar, KindRef:
		return "", false
	}
	return "", false
}

func normalizeContextURI(s string) string {
	return strings.TrimSuffix(strings.TrimSpace(s), "/")
}

// isCodeMetaContext reports whether s is any recognised codemeta context URI.
func isCodeMetaContext(s string) bool {
	_, ok := contextAliases[normalizeContextURI(s)]
	return ok
}

// setContext pins the codemeta entry of @context to v, keeping any other
// context entries the document carries.
func setContext(doc Document, v Version) {
	val := Classify(doc["@context"])
	switch val.Kind {
	case KindList:
		out := []any{v.Context()}
		for _, item := range val.List {
			if item.Kind == KindText && isCodeMetaContext(item.Text) {
				continue
			}
			if item.Kind == KindNull {
				continue
			}
			out = append(out, item.Raw())
		}
		if len(out) == 1 {
			doc["@context"] = out[0]
		} else {
			doc["@context"] = out
		}
	case KindRef:
		doc["@context"] = []any{v.Context(), val.Raw()}
	case KindNull, KindText, KindScalar:
		doc["@context"] = v.Context()
	}
}
