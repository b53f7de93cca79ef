package codemeta

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Severity ranks an Issue.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Issue is a single validation finding.
type Issue struct {
	Severity Severity `json:"severity"`
	Field    string   `json:"field,omitempty"`
	Message  string   `json:"message"`
}

// Report is the ordered list of issues found in one document. An empty
// report means the document satisfies its profile.
type Report struct {
	Issues []Issue `json:"issues"`
}

// Empty reports whether there are no issues at all.
func (r Report) Empty() bool { return len(r.Issues) == 0 }

// HasErrors reports whether any issue is fatal for the document.
func (r Report) HasErrors() bool {
	for _, is := range r.Issues {
		if is.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Messages returns every issue message in order.
func (r Report) Messages() []string {
	out := make([]string, len(r.Issues))
	for i, is := range r.Issues {
		out[i] = is.Message
	}
	return out
}

// Warnings returns the messages of warning issues in order.
func (r Report) Warnings() []string { return r.messagesOf(SeverityWarning) }

// Errors returns the messages of error issues in order.
func (r Report) Errors() []string { return r.messagesOf(SeverityError) }

func (r Report) messagesOf(s Severity) []string {
	var out []string
	for _, is := range r.Issues {
		if is.Severity == s {
			out = append(out, is.Message)
		}
	}
	return out
}

func (r *Report) warn(field, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{Severity: SeverityWarning, Field: field, Message: fmt.Sprintf(format, args...)})
}

// Message prefixes, stable for callers that match on them.
const (
	MsgMissingRequired    = "missing required field: "
	MsgMissingRecommended = "missing recommended field: "
	MsgUnexpectedType     = "unexpected type for field "
	MsgNotObject          = "document is not a JSON object"
)

// ValidateOption adjusts validation.
type ValidateOption func(*validateConfig)

type validateConfig struct {
	strict bool
}

// WithStrict also reports absent recommended fields.
func WithStrict() ValidateOption {
	return func(c *validateConfig) { c.strict = true }
}

// Validate checks doc against p. doc may be a Document, a map[string]any, or
// any other decoded JSON value; anything that is not an object yields a
// single error issue. Validate never modifies doc.
func Validate(doc any, p *Profile, opts ...ValidateOption) Report {
	var cfg validateConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	var r Report
	v := Classify(doc)
	if v.Kind != KindRef || v.Ref == nil {
		r.Issues = append(r.Issues, Issue{Severity: SeverityError, Message: MsgNotObject})
		return r
	}
	fields := v.Ref

	for _, spec := range p.fields {
		if !spec.Required {
			continue
		}
		if Classify(fields[spec.Name]).IsEmpty() {
			r.warn(spec.Name, MsgMissingRequired+"%s", spec.Name)
		}
	}

	if cfg.strict {
		for _, spec := range p.fields {
			if spec.Recommended && Classify(fields[spec.Name]).IsEmpty() {
				r.warn(spec.Name, MsgMissingRecommended+"%s", spec.Name)
			}
		}
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		val := Classify(fields[name])
		if val.Kind == KindNull {
			continue
		}
		if name == "@type" {
			checkType(&r, val)
			continue
		}
		if name == "@id" {
			checkID(&r, name, val)
			continue
		}
		if spec, ok := p.Field(name); ok && !spec.Shape.accepts(val) {
			r.warn(name, MsgUnexpectedType+"%s", name)
		}
		checkNestedIDs(&r, name, val)
	}
	return r
}

var softwareTypes = map[string]bool{
	"SoftwareSourceCode":  true,
	"SoftwareApplication": true,
}

func checkType(r *Report, v Value) {
	if v.Kind == KindText && !softwareTypes[v.Text] {
		r.warn("@type", "unexpected @type: %s", v.Text)
	}
}

func checkID(r *Report, field string, v Value) {
	if v.Kind == KindText && !isAbsoluteURI(v.Text) {
		r.warn(field, "invalid @id in field %s: %s", field, v.Text)
	}
}

// checkNestedIDs validates @id values of objects directly inside a field.
func checkNestedIDs(r *Report, field string, v Value) {
	switch v.Kind {
	case KindRef:
		if id, ok := v.Ref["@id"]; ok {
			checkID(r, field, Classify(id))
		}
	case KindList:
		for _, item := range v.List {
			checkNestedIDs(r, field, item)
		}
	case KindNull, KindText, KindScalar:
	}
}

// isAbsoluteURI accepts URIs with a scheme and either a host or an opaque
// part (urn:, mailto:) and JSON-LD blank node identifiers.
func isAbsoluteURI(s string) bool {
	if strings.HasPrefix(s, "_:") {
		return len(s) > 2
	}
	if strings.ContainsAny(s, " \t\n") {
		return false
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" {
		return false
	}
	return u.Host != "" || u.Opaque != ""
}
