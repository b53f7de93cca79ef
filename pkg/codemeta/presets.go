package codemeta

import (
	"sort"
	"strings"
)

// SODAScience is the SODA (Scalable Open Data Analytics) Science research
// group at Utrecht University.
var SODAScience = Organization{
	ID:          "https://github.com/sodascience",
	Name:        "SODA Science",
	Description: "SODA (Scalable Open Data Analytics) Science is a research group focused on developing scalable and open data analytics solutions for scientific research. The group works on advancing computational methods, tools, and infrastructure for data-intensive research across multiple domains.",
	URL:         "https://github.com/sodascience",
	SameAs:      []string{"https://sodascience.github.io/"},
	ParentOrganization: &Organization{
		Name: "Utrecht University",
		URL:  "https://www.uu.nl/",
	},
	FoundingDate: "2020",
	Location:     "Utrecht, Netherlands",
	Keywords: []string{
		"data science",
		"open science",
		"scalable analytics",
		"research software",
		"computational methods",
		"data infrastructure",
	},
}

// builtinOrganizations are selectable by key with --organization.
var builtinOrganizations = map[string]Organization{
	"soda": SODAScience,
}

// OrganizationPreset looks up a built-in organization by key, ignoring case.
// extra presets (usually from the config file) take precedence.
func OrganizationPreset(key string, extra map[string]Organization) (Organization, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	for k, org := range extra {
		if strings.ToLower(k) == key {
			return org, true
		}
	}
	org, ok := builtinOrganizations[key]
	return org, ok
}

// OrganizationPresetNames lists built-in and extra preset keys, sorted.
func OrganizationPresetNames(extra map[string]Organization) []string {
	seen := make(map[string]bool)
	for k := range builtinOrganizations {
		seen[k] = true
	}
	for k := range extra {
		seen[strings.ToLower(k)] = true
	}
	names := make([]string, 0, len(seen))
	for k := range seen {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
