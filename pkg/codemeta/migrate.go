package codemeta

import (
	"regexp"
	"strings"
)

// migrationStep rewrites a document in place while moving between versions.
type migrationStep struct {
	name  string
	apply func(Document)
}

type versionPair struct{ from, to Version }

// migrations lists, per version pair, the steps applied in order.
var migrations = map[versionPair][]migrationStep{
	{V2, V3}: {
		rename("contIntegration", "continuousIntegration"),
		rename("embargoDate", "embargoEndDate"),
		{name: "structure author", apply: splitAuthors},
	},
	{V3, V2}: {
		rename("continuousIntegration", "contIntegration"),
		rename("embargoEndDate", "embargoDate"),
	},
}

// rename moves from to to. An existing value under to wins and the old
// key is dropped.
func rename(from, to string) migrationStep {
	return migrationStep{
		name: from + " -> " + to,
		apply: func(doc Document) {
			v, ok := doc[from]
			if !ok {
				return
			}
			delete(doc, from)
			if _, exists := doc[to]; !exists {
				doc[to] = v
			}
		},
	}
}

var authorSeparators = regexp.MustCompile(`\s*(?:;|&|\band\b)\s*`)

// splitAuthors turns a flat author string such as "Ada Lovelace and Alan
// Turing" into a list of Person objects. Commas are left alone because they
// usually separate family and given names.
func splitAuthors(doc Document) {
	v := Classify(doc["author"])
	if v.Kind != KindText {
		return
	}
	var people []any
	for _, name := range authorSeparators.Split(v.Text, -1) {
		if name = strings.TrimSpace(name); name != "" {
			people = append(people, map[string]any{"@type": "Person", "name": name})
		}
	}
	if people == nil {
		delete(doc, "author")
		return
	}
	doc["author"] = people
}

// Migrate rewrites doc in place from one version to another and pins its
// @context to the target. It returns the names of the applied steps.
func Migrate(doc Document, from, to Version) []string {
	var applied []string
	if from != to {
		for _, step := range migrations[versionPair{from, to}] {
			step.apply(doc)
			applied = append(applied, step.name)
		}
	}
	setContext(doc, to)
	if Classify(doc["@type"]).IsEmpty() {
		doc["@type"] = "SoftwareSourceCode"
	}
	return applied
}
