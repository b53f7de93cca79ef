package codemeta

import "strings"

// AddAuthors appends authors to doc's author list, skipping any whose
// identity is already present. When doc has no maintainer, the first author
// in the resulting list becomes the maintainer.
func AddAuthors(doc Document, authors ...Person) {
	appendEntries(doc, "author", personMaps(authors))
	if Classify(doc["maintainer"]).IsEmpty() {
		if list := Classify(doc["author"]); list.Kind == KindList && len(list.List) > 0 {
			doc["maintainer"] = []any{list.List[0].Raw()}
		}
	}
}

// AddContributors appends contributors, deduplicated like AddAuthors.
func AddContributors(doc Document, people ...Person) {
	appendEntries(doc, "contributor", personMaps(people))
}

// AddSoftwareRequirements appends requirements to softwareRequirements.
func AddSoftwareRequirements(doc Document, reqs ...SoftwareRequirement) {
	maps := make([]map[string]any, len(reqs))
	for i, r := range reqs {
		maps[i] = r.Map()
	}
	appendEntries(doc, "softwareRequirements", maps)
}

// AddReferencePublications appends publications to referencePublication.
func AddReferencePublications(doc Document, pubs ...Publication) {
	maps := make([]map[string]any, len(pubs))
	for i, p := range pubs {
		maps[i] = p.Map()
	}
	appendEntries(doc, "referencePublication", maps)
}

// AddOrganizationalContext records that the software is part of org.
func AddOrganizationalContext(doc Document, org Organization) {
	appendEntries(doc, "isPartOf", []map[string]any{org.Map()})
}

func personMaps(people []Person) []map[string]any {
	out := make([]map[string]any, len(people))
	for i, p := range people {
		out[i] = p.Map()
	}
	return out
}

// appendEntries coerces doc[field] into a list of objects, preserving the
// existing order, and appends each entry that does not describe an entity
// already in the list.
func appendEntries(doc Document, field string, entries []map[string]any) {
	spec, ok := profileV3.Field(field)
	if !ok {
		spec = FieldSpec{Name: field, Shape: ShapeOrganizationList}
	}

	var list []any
	var refs []map[string]any
	if existing, keep := coerce(Classify(doc[field]), spec); keep && existing.Kind == KindList {
		for _, item := range existing.List {
			list = append(list, item.Raw())
			if item.Kind == KindRef {
				refs = append(refs, item.Ref)
			}
		}
	}

	for _, e := range entries {
		if containsEntity(refs, e) {
			continue
		}
		refs = append(refs, e)
		list = append(list, e)
	}

	if list == nil {
		list = []any{}
	}
	doc[field] = list
}

func containsEntity(refs []map[string]any, e map[string]any) bool {
	for _, r := range refs {
		if sameEntity(r, e) {
			return true
		}
	}
	return false
}

// sameEntity compares by @id when both sides have one, then by identifier,
// then by @type and case-insensitive name.
func sameEntity(a, b map[string]any) bool {
	if x, y := idOf(a), idOf(b); x != "" && y != "" {
		return x == y
	}
	if x, y := identifierOf(a), identifierOf(b); x != "" && y != "" {
		return x == y
	}
	x, y := nameOf(a), nameOf(b)
	return x != "" && x == y && refString(a, "@type") == refString(b, "@type")
}

func idOf(ref map[string]any) string {
	return strings.TrimSuffix(strings.TrimSpace(refString(ref, "@id")), "/")
}

func identifierOf(ref map[string]any) string {
	return strings.ToLower(strings.TrimSpace(refString(ref, "identifier")))
}

func nameOf(ref map[string]any) string {
	name := refString(ref, "name")
	if name == "" {
		name = refString(ref, "givenName") + " " + refString(ref, "familyName")
	}
	return strings.ToLower(strings.TrimSpace(name))
}
