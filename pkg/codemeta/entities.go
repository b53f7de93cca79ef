package codemeta

import (
	"regexp"
	"strings"
)

// Person is an author, contributor or maintainer. ID is usually an ORCID URI.
type Person struct {
	ID          string        `json:"@id,omitempty" yaml:"id,omitempty"`
	GivenName   string        `json:"givenName,omitempty" yaml:"givenName,omitempty"`
	FamilyName  string        `json:"familyName,omitempty" yaml:"familyName,omitempty"`
	Name        string        `json:"name,omitempty" yaml:"name,omitempty"`
	Email       string        `json:"email,omitempty" yaml:"email,omitempty"`
	Affiliation *Organization `json:"affiliation,omitempty" yaml:"affiliation,omitempty"`
}

// NewPerson builds a Person from a display name and optional ORCID. A bare
// ORCID (0000-0002-1825-0097) is expanded to its https://orcid.org/ URI.
func NewPerson(name, orcid string) Person {
	p := Person{Name: strings.TrimSpace(name), ID: ORCID(orcid)}
	if family, given, ok := strings.Cut(p.Name, ","); ok {
		p.FamilyName, p.GivenName = strings.TrimSpace(family), strings.TrimSpace(given)
		p.Name = strings.TrimSpace(p.GivenName + " " + p.FamilyName)
	} else if i := strings.LastIndex(p.Name, " "); i > 0 {
		p.GivenName, p.FamilyName = p.Name[:i], p.Name[i+1:]
	}
	return p
}

var orcidRE = regexp.MustCompile(`^(?:https?://orcid\.org/)?(\d{4}-\d{4}-\d{4}-\d{3}[\dX])$`)

// ORCID normalizes an ORCID identifier to its canonical URI. Values that are
// not ORCIDs are returned trimmed but otherwise unchanged.
func ORCID(s string) string {
	s = strings.TrimSpace(s)
	if m := orcidRE.FindStringSubmatch(s); m != nil {
		return "https://orcid.org/" + m[1]
	}
	return s
}

// DisplayName returns Name, or the given and family names joined.
func (p Person) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return strings.TrimSpace(p.GivenName + " " + p.FamilyName)
}

// Map converts p to its JSON-LD object.
func (p Person) Map() map[string]any {
	m := map[string]any{"@type": "Person"}
	putString(m, "@id", ORCID(p.ID))
	putString(m, "givenName", p.GivenName)
	putString(m, "familyName", p.FamilyName)
	putString(m, "name", p.DisplayName())
	putString(m, "email", p.Email)
	if p.Affiliation != nil {
		m["affiliation"] = p.Affiliation.Map()
	}
	return m
}

// Organization is a funder, host institution or research group.
type Organization struct {
	ID                 string        `json:"@id,omitempty" yaml:"id,omitempty" toml:"id"`
	Name               string        `json:"name,omitempty" yaml:"name,omitempty" toml:"name"`
	Description        string        `json:"description,omitempty" yaml:"description,omitempty" toml:"description"`
	URL                string        `json:"url,omitempty" yaml:"url,omitempty" toml:"url"`
	SameAs             []string      `json:"sameAs,omitempty" yaml:"sameAs,omitempty" toml:"same_as"`
	ParentOrganization *Organization `json:"parentOrganization,omitempty" yaml:"parentOrganization,omitempty" toml:"parent"`
	FoundingDate       string        `json:"foundingDate,omitempty" yaml:"foundingDate,omitempty" toml:"founding_date"`
	Location           string        `json:"location,omitempty" yaml:"location,omitempty" toml:"location"`
	Keywords           []string      `json:"keywords,omitempty" yaml:"keywords,omitempty" toml:"keywords"`
}

// Map converts o to its JSON-LD object.
func (o Organization) Map() map[string]any {
	m := map[string]any{"@type": "Organization"}
	putString(m, "@id", o.ID)
	putString(m, "name", o.Name)
	putString(m, "description", o.Description)
	putString(m, "url", o.URL)
	putStrings(m, "sameAs", o.SameAs)
	if o.ParentOrganization != nil {
		m["parentOrganization"] = o.ParentOrganization.Map()
	}
	putString(m, "foundingDate", o.FoundingDate)
	if o.Location != "" {
		m["location"] = map[string]any{"@type": "Place", "name": o.Location}
	}
	putStrings(m, "keywords", o.Keywords)
	return m
}

// SoftwareRequirement is a dependency of the described software.
type SoftwareRequirement struct {
	ID             string        `json:"@id,omitempty" yaml:"id,omitempty"`
	Identifier     string        `json:"identifier,omitempty" yaml:"identifier,omitempty"`
	Name           string        `json:"name" yaml:"name"`
	Version        string        `json:"version,omitempty" yaml:"version,omitempty"`
	CodeRepository string        `json:"codeRepository,omitempty" yaml:"codeRepository,omitempty"`
	Description    string        `json:"description,omitempty" yaml:"description,omitempty"`
	Provider       *Organization `json:"provider,omitempty" yaml:"provider,omitempty"`
	// Ecosystem is the package registry the name belongs to ("pypi", "npm",
	// "crates", "go"). It is not serialized.
	Ecosystem string `json:"-" yaml:"ecosystem,omitempty"`
}

var requirementRE = regexp.MustCompile(`^\s*([A-Za-z0-9@][A-Za-z0-9._/@-]*)(?:\[[^\]]*\])?\s*(.*?)\s*$`)

// ParseRequirement splits "name", "name==1.2", "name >=1.2,<2" and similar
// into a requirement. The identifier is the lower-cased name.
func ParseRequirement(s string) SoftwareRequirement {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, ";"); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	m := requirementRE.FindStringSubmatch(s)
	if m == nil {
		return SoftwareRequirement{Name: s, Identifier: strings.ToLower(s)}
	}
	version := strings.TrimPrefix(strings.TrimSpace(m[2]), "==")
	return SoftwareRequirement{
		Name:       m[1],
		Identifier: strings.ToLower(m[1]),
		Version:    version,
	}
}

// knownRepositories maps common scientific Python packages to their GitHub
// repositories.
var knownRepositories = map[string]string{
	"numpy":        "https://github.com/numpy/numpy",
	"pandas":       "https://github.com/pandas-dev/pandas",
	"requests":     "https://github.com/psf/requests",
	"flask":        "https://github.com/pallets/flask",
	"django":       "https://github.com/django/django",
	"tensorflow":   "https://github.com/tensorflow/tensorflow",
	"pytorch":      "https://github.com/pytorch/pytorch",
	"torch":        "https://github.com/pytorch/pytorch",
	"scikit-learn": "https://github.com/scikit-learn/scikit-learn",
}

// NewRequirement parses spec like ParseRequirement and links the requirement
// to a repository: a known GitHub repository when there is one, otherwise a
// GitHub search for the name.
func NewRequirement(spec string) SoftwareRequirement {
	r := ParseRequirement(spec)
	if repo, ok := knownRepositories[r.Identifier]; ok {
		r.ID = repo
		r.CodeRepository = repo
	} else if r.Name != "" {
		r.ID = "https://github.com/search?q=" + r.Name
	}
	return r
}

// Map converts r to its JSON-LD object.
func (r SoftwareRequirement) Map() map[string]any {
	m := map[string]any{"@type": "SoftwareApplication"}
	putString(m, "@id", r.ID)
	id := r.Identifier
	if id == "" {
		id = strings.ToLower(r.Name)
	}
	putString(m, "identifier", id)
	putString(m, "name", r.Name)
	putString(m, "version", r.Version)
	putString(m, "codeRepository", r.CodeRepository)
	putString(m, "description", r.Description)
	if r.Provider != nil {
		m["provider"] = r.Provider.Map()
	}
	return m
}

// Publication is a scholarly reference for the software.
type Publication struct {
	Type      string `json:"@type,omitempty" yaml:"type,omitempty"`
	DOI       string `json:"identifier,omitempty" yaml:"doi,omitempty"`
	Title     string `json:"name,omitempty" yaml:"title,omitempty"`
	Publisher string `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	Year      string `json:"datePublished,omitempty" yaml:"year,omitempty"`
	URL       string `json:"url,omitempty" yaml:"url,omitempty"`
}

// PublicationOption customizes NewPublication.
type PublicationOption func(*Publication)

// WithPublicationType overrides the default ScholarlyArticle type.
func WithPublicationType(t string) PublicationOption {
	return func(p *Publication) { p.Type = t }
}

// WithPublisher sets the publishing organization's name.
func WithPublisher(name string) PublicationOption {
	return func(p *Publication) { p.Publisher = name }
}

// WithYear sets the publication date (usually just the year).
func WithYear(year string) PublicationOption {
	return func(p *Publication) { p.Year = year }
}

// NewPublication creates a reference from a DOI (bare, doi: or URL form) and
// title.
func NewPublication(doi, title string, opts ...PublicationOption) Publication {
	p := Publication{Type: "ScholarlyArticle", DOI: strings.TrimSpace(doi), Title: title}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// URI returns the resolvable identifier of the publication.
func (p Publication) URI() string {
	if p.DOI != "" {
		if id := workID(strings.TrimPrefix(strings.TrimPrefix(p.DOI, "https://doi.org/"), "http://doi.org/")); id != "" {
			return id
		}
	}
	return p.URL
}

// Identifier returns the bare DOI (10.xxxx/...), or "" when DOI holds none.
func (p Publication) Identifier() string {
	s := strings.TrimSpace(p.DOI)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "https://doi.org/"), "http://doi.org/")
	if m := doiRE.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return ""
}

// Map converts p to its JSON-LD object.
func (p Publication) Map() map[string]any {
	t := p.Type
	if t == "" {
		t = "ScholarlyArticle"
	}
	m := map[string]any{"@type": t}
	uri := p.URI()
	putString(m, "@id", uri)
	putString(m, "identifier", p.Identifier())
	putString(m, "name", p.Title)
	url := p.URL
	if url == "" {
		url = uri
	}
	putString(m, "url", url)
	putString(m, "datePublished", p.Year)
	if p.Publisher != "" {
		m["publisher"] = map[string]any{"@type": "Organization", "name": p.Publisher}
	}
	return m
}

func putString(m map[string]any, key, val string) {
	if val != "" {
		m[key] = val
	}
}

func putStrings(m map[string]any, key string, vals []string) {
	if len(vals) == 0 {
		return
	}
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = v
	}
	m[key] = out
}
