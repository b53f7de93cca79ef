package codemeta

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRequirement(t *testing.T) {
	tests := []struct {
		in      string
		name    string
		id      string
		version string
	}{
		{"numpy", "numpy", "numpy", ""},
		{"NumPy==1.26.4", "NumPy", "numpy", "1.26.4"},
		{"pandas >=1.5,<2", "pandas", "pandas", ">=1.5,<2"},
		{"requests[security]==2.31; python_version > '3.8'", "requests", "requests", "2.31"},
		{"  scikit-learn~=1.3  ", "scikit-learn", "scikit-learn", "~=1.3"},
		{"@types/node ^20", "@types/node", "@types/node", "^20"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			r := ParseRequirement(tt.in)
			assert.Equal(t, tt.name, r.Name)
			assert.Equal(t, tt.id, r.Identifier)
			assert.Equal(t, tt.version, r.Version)
		})
	}
}

func TestNewRequirement(t *testing.T) {
	r := NewRequirement("torch==2.1")
	assert.Equal(t, "https://github.com/pytorch/pytorch", r.ID)
	assert.Equal(t, "https://github.com/pytorch/pytorch", r.CodeRepository)

	r = NewRequirement("obscurepkg")
	assert.Equal(t, "https://github.com/search?q=obscurepkg", r.ID)
	assert.Empty(t, r.CodeRepository)

	assert.Equal(t, map[string]any{
		"@type":      "SoftwareApplication",
		"@id":        "https://github.com/search?q=obscurepkg",
		"identifier": "obscurepkg",
		"name":       "obscurepkg",
	}, r.Map())
}

func TestORCID(t *testing.T) {
	assert.Equal(t, "https://orcid.org/0000-0002-1825-0097", ORCID("0000-0002-1825-0097"))
	assert.Equal(t, "https://orcid.org/0000-0002-1694-233X", ORCID("http://orcid.org/0000-0002-1694-233X"))
	assert.Equal(t, "https://example.org/me", ORCID(" https://example.org/me "))
	assert.Equal(t, "", ORCID(""))
}

func TestNewPerson(t *testing.T) {
	p := NewPerson("Ada Lovelace", "")
	assert.Equal(t, "Ada", p.GivenName)
	assert.Equal(t, "Lovelace", p.FamilyName)

	p = NewPerson("Hopper, Grace Brewster", "0000-0002-1825-0097")
	assert.Equal(t, "Grace Brewster", p.GivenName)
	assert.Equal(t, "Hopper", p.FamilyName)
	assert.Equal(t, "Grace Brewster Hopper", p.Name)
	assert.Equal(t, "https://orcid.org/0000-0002-1825-0097", p.ID)

	p = NewPerson("Plato", "")
	assert.Empty(t, p.GivenName)
	assert.Empty(t, p.FamilyName)
	assert.Equal(t, map[string]any{"@type": "Person", "name": "Plato"}, p.Map())
}

func TestPersonMapWithAffiliation(t *testing.T) {
	p := Person{GivenName: "Ada", FamilyName: "Lovelace", Email: "ada@example.org", Affiliation: &Organization{Name: "Analytical Society"}}
	assert.Equal(t, map[string]any{
		"@type":       "Person",
		"givenName":   "Ada",
		"familyName":  "Lovelace",
		"name":        "Ada Lovelace",
		"email":       "ada@example.org",
		"affiliation": map[string]any{"@type": "Organization", "name": "Analytical Society"},
	}, p.Map())
}

func TestPublicationMap(t *testing.T) {
	p := NewPublication("doi:10.1000/xyz", "Title", WithYear("2024"), WithPublisher("JOSS"))
	assert.Equal(t, map[string]any{
		"@type":         "ScholarlyArticle",
		"@id":           "https://doi.org/10.1000/xyz",
		"identifier":    "10.1000/xyz",
		"name":          "Title",
		"url":           "https://doi.org/10.1000/xyz",
		"datePublished": "2024",
		"publisher":     map[string]any{"@type": "Organization", "name": "JOSS"},
	}, p.Map())

	for _, doi := range []string{"10.1000/xyz", "https://doi.org/10.1000/xyz", " doi:10.1000/xyz "} {
		assert.Equal(t, "10.1000/xyz", NewPublication(doi, "").Map()["identifier"], doi)
	}

	p = Publication{Title: "Blog post", URL: "https://example.org/post"}
	assert.Equal(t, "https://example.org/post", p.URI())
	assert.Equal(t, "ScholarlyArticle", p.Map()["@type"])
	assert.NotContains(t, p.Map(), "identifier")
}

func TestOrganizationPreset(t *testing.T) {
	org, ok := OrganizationPreset("SODA", nil)
	assert.True(t, ok)
	assert.Equal(t, SODAScience.Name, org.Name)

	extra := map[string]Organization{"Lab": {Name: "My Lab"}, "soda": {Name: "Overridden"}}
	org, ok = OrganizationPreset("lab", extra)
	assert.True(t, ok)
	assert.Equal(t, "My Lab", org.Name)

	org, _ = OrganizationPreset("soda", extra)
	assert.Equal(t, "Overridden", org.Name)

	_, ok = OrganizationPreset("unknown", extra)
	assert.False(t, ok)

	assert.Equal(t, []string{"lab", "soda"}, OrganizationPresetNames(extra))
}
