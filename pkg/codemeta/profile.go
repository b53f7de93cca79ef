package codemeta

// Shape is the structure a profile expects for a field.
type Shape int

const (
	ShapeAny              Shape = iota // not checked
	ShapeText                          // string
	ShapeURI                           // string or {"@id": ...} object
	ShapeLink                          // string, object, or list of those
	ShapeTextList                      // list of strings (objects allowed, e.g. ComputerLanguage)
	ShapePersonList                    // list of Person/Organization objects
	ShapeOrganizationList              // list of Organization objects
	ShapeRequirementList               // list of SoftwareApplication objects
	ShapeCreativeWorkList              // list of CreativeWork objects
)

func (s Shape) String() string {
	switch s {
	case ShapeAny:
		return "any"
	case ShapeText:
		return "text"
	case ShapeURI:
		return "uri"
	case ShapeLink:
		return "link"
	case ShapeTextList:
		return "text list"
	case ShapePersonList:
		return "person list"
	case ShapeOrganizationList:
		return "organization list"
	case ShapeRequirementList:
		return "requirement list"
	case ShapeCreativeWorkList:
		return "creative work list"
	}
	return "unknown"
}

// accepts reports whether a value of kind k already has shape s. List
// elements are checked by acceptsElement.
func (s Shape) accepts(v Value) bool {
	switch s {
	case ShapeAny:
		return true
	case ShapeText:
		return v.Kind == KindText
	case ShapeURI:
		return v.Kind == KindText || v.Kind == KindRef
	case ShapeLink:
		if v.Kind == KindText || v.Kind == KindRef {
			return true
		}
		return v.Kind == KindList && allKinds(v.List, KindText, KindRef)
	case ShapeTextList:
		return v.Kind == KindList && allKinds(v.List, KindText, KindRef)
	case ShapePersonList, ShapeOrganizationList, ShapeRequirementList, ShapeCreativeWorkList:
		return v.Kind == KindList && allKinds(v.List, KindRef)
	}
	return false
}

func allKinds(list []Value, kinds ...Kind) bool {
	for _, item := range list {
		ok := false
		for _, k := range kinds {
			if item.Kind == k {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

// FieldSpec describes one top-level field of a profile.
type FieldSpec struct {
	Name        string
	Shape       Shape
	Required    bool
	Recommended bool
	// Type is the @type given to objects the normalizer creates for this field.
	Type string
}

// Profile is the immutable field table of one schema version.
type Profile struct {
	version Version
	fields  []FieldSpec
	index   map[string]int
}

// Version returns the schema version this profile describes.
func (p *Profile) Version() Version { return p.version }

// Field looks up a field by name.
func (p *Profile) Field(name string) (FieldSpec, bool) {
	i, ok := p.index[name]
	if !ok {
		return FieldSpec{}, false
	}
	return p.fields[i], true
}

// Fields returns all field specs in declaration order.
func (p *Profile) Fields() []FieldSpec {
	return append([]FieldSpec(nil), p.fields...)
}

// Required returns the names of required fields in declaration order.
func (p *Profile) Required() []string {
	var out []string
	for _, f := range p.fields {
		if f.Required {
			out = append(out, f.Name)
		}
	}
	return out
}

// Recommended returns the names of recommended fields in declaration order.
func (p *Profile) Recommended() []string {
	var out []string
	for _, f := range p.fields {
		if f.Recommended {
			out = append(out, f.Name)
		}
	}
	return out
}

// ProfileFor returns the profile of v, or nil for an unsupported version.
func ProfileFor(v Version) *Profile {
	switch v {
	case V2:
		return profileV2
	case V3:
		return profileV3
	}
	return nil
}

type fieldOpt func(*FieldSpec)

func required(f *FieldSpec)    { f.Required = true }
func recommended(f *FieldSpec) { f.Recommended = true }
func typed(t string) fieldOpt  { return func(f *FieldSpec) { f.Type = t } }

func field(name string, shape Shape, opts ...fieldOpt) FieldSpec {
	f := FieldSpec{Name: name, Shape: shape}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

func newProfile(v Version, fields ...FieldSpec) *Profile {
	p := &Profile{version: v, fields: fields, index: make(map[string]int, len(fields))}
	for i, f := range fields {
		p.index[f.Name] = i
	}
	return p
}

// sharedFields are identical in 2.0 and 3.0.
func sharedFields() []FieldSpec {
	return []FieldSpec{
		field("codeRepository", ShapeURI, recommended),
		field("contributor", ShapePersonList, typed("Person")),
		field("maintainer", ShapePersonList, recommended, typed("Person")),
		field("copyrightHolder", ShapePersonList, typed("Person")),
		field("funder", ShapeOrganizationList, typed("Organization")),
		field("funding", ShapeText),
		field("isPartOf", ShapeOrganizationList, typed("Organization")),
		field("sponsor", ShapeOrganizationList, typed("Organization")),
		field("producer", ShapeOrganizationList, typed("Organization")),
		field("publisher", ShapeOrganizationList, typed("Organization")),
		field("license", ShapeLink, recommended),
		field("version", ShapeText, recommended),
		field("softwareVersion", ShapeText),
		field("dateCreated", ShapeText, recommended),
		field("dateModified", ShapeText, recommended),
		field("datePublished", ShapeText),
		field("keywords", ShapeTextList, recommended),
		field("programmingLanguage", ShapeTextList, recommended),
		field("runtimePlatform", ShapeTextList),
		field("operatingSystem", ShapeTextList),
		field("applicationCategory", ShapeTextList),
		field("applicationSubCategory", ShapeTextList),
		field("softwareRequirements", ShapeRequirementList, typed("SoftwareApplication")),
		field("softwareSuggestions", ShapeRequirementList, typed("SoftwareApplication")),
		field("referencePublication", ShapeCreativeWorkList, typed("ScholarlyArticle")),
		field("citation", ShapeCreativeWorkList, typed("CreativeWork")),
		field("readme", ShapeURI),
		field("issueTracker", ShapeURI, recommended),
		field("downloadUrl", ShapeURI),
		field("installUrl", ShapeURI),
		field("buildInstructions", ShapeLink),
		field("softwareHelp", ShapeLink),
		field("releaseNotes", ShapeText),
		field("developmentStatus", ShapeText, recommended),
		field("relatedLink", ShapeTextList),
		field("fileFormat", ShapeTextList),
		field("fileSize", ShapeText),
		field("memoryRequirements", ShapeText),
		field("processorRequirements", ShapeText),
		field("storageRequirements", ShapeText),
		field("permissions", ShapeText),
		field("identifier", ShapeAny),
		field("targetProduct", ShapeAny),
		field("hasSourceCode", ShapeAny),
		field("isSourceCodeOf", ShapeAny),
		field("isAccessibleForFree", ShapeAny),
	}
}

var profileV2 = newProfile(V2, append([]FieldSpec{
	field("@context", ShapeAny, required),
	field("@type", ShapeAny, required),
	field("name", ShapeText, required),
	field("description", ShapeText, required),
	field("url", ShapeURI, required),
	field("author", ShapePersonList, recommended, typed("Person")),
	field("contIntegration", ShapeURI),
	field("embargoDate", ShapeText),
}, sharedFields()...)...)

var profileV3 = newProfile(V3, append([]FieldSpec{
	field("@context", ShapeAny, required),
	field("@type", ShapeAny, required),
	field("name", ShapeText, required),
	field("description", ShapeText, required),
	field("url", ShapeURI, required),
	field("author", ShapePersonList, required, typed("Person")),
	field("continuousIntegration", ShapeURI),
	field("embargoEndDate", ShapeText),
	field("review", ShapeAny),
}, sharedFields()...)...)
