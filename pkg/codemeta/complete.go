package codemeta

import (
	"regexp"
	"strings"
)

// Complete fills fields a useful research software record should have but
// the document lacks. It only ever adds absent keys (and expands a bare SPDX
// license id), so running it twice changes nothing.
func Complete(doc Document, v Version) {
	if Classify(doc["maintainer"]).IsEmpty() {
		if authors := Classify(doc["author"]); authors.Kind == KindList && len(authors.List) > 0 {
			doc["maintainer"] = []any{authors.List[0].Raw()}
		} else if authors.Kind == KindRef {
			doc["maintainer"] = []any{authors.Raw()}
		}
	}

	setDefault(doc, "developmentStatus", "active")

	if Classify(doc["applicationCategory"]).Kind == KindNull {
		cat, sub := applicationCategory(doc)
		doc["applicationCategory"] = []any{cat}
		setDefault(doc, "applicationSubCategory", []any{sub})
	}

	setDefault(doc, "operatingSystem", []any{"Cross-platform"})
	setDefault(doc, "runtimePlatform", runtimePlatforms(doc))

	if lic := Classify(doc["license"]); lic.Kind == KindText {
		doc["license"] = licenseURI(lic.Text)
	}

	repo := repositoryURL(doc)
	if repo == "" {
		return
	}
	setDefault(doc, "codeRepository", repo)
	for key, val := range repositoryLinks(repo, v) {
		setDefault(doc, key, val)
	}
}

// setDefault sets key unless it holds a value. Null counts as absent because
// normalization drops it.
func setDefault(doc Document, key string, val any) {
	if Classify(doc[key]).Kind == KindNull {
		doc[key] = val
	}
}

var categoryRules = []struct {
	words       []string
	category    string
	subCategory string
}{
	{[]string{"data", "analysis", "statistics", "research", "science"}, "Data Science", "Research Tools"},
	{[]string{"web", "visualization", "dashboard", "interface"}, "Web Application", "Data Visualization"},
	{[]string{"workshop", "tutorial", "education", "teaching"}, "Education", "Training Materials"},
	{[]string{"synthetic", "generation", "simulation"}, "Data Science", "Data Generation"},
}

// applicationCategory guesses a category from name, description and keywords.
func applicationCategory(doc Document) (string, string) {
	text := strings.ToLower(strings.Join([]string{
		textOf(Classify(doc["name"])),
		textOf(Classify(doc["description"])),
		textOf(Classify(doc["keywords"])),
	}, " "))
	for _, rule := range categoryRules {
		for _, w := range rule.words {
			if strings.Contains(text, w) {
				return rule.category, rule.subCategory
			}
		}
	}
	return "Research Software", "Scientific Computing"
}

var languagePlatforms = map[string][]string{
	"python":     {"Python 3.8+"},
	"r":          {"R 4.0+"},
	"javascript": {"Node.js", "Web Browser"},
	"typescript": {"Node.js", "Web Browser"},
	"java":       {"Java 8+"},
	"julia":      {"Julia 1.6+"},
	"c":          {"Cross-platform"},
	"c++":        {"Cross-platform"},
	"go":         {"Cross-platform"},
	"rust":       {"Cross-platform"},
}

func runtimePlatforms(doc Document) []any {
	var out []any
	seen := make(map[string]bool)
	langs := Classify(doc["programmingLanguage"])
	if langs.Kind != KindList {
		langs = Value{Kind: KindList, List: []Value{langs}}
	}
	for _, l := range langs.List {
		for _, p := range languagePlatforms[strings.ToLower(textOf(l))] {
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	if len(out) == 0 {
		out = []any{"Cross-platform"}
	}
	return out
}

var spdxIDRE = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9.+-]*$`)

// licenseURI expands a bare SPDX id to its spdx.org URI.
func licenseURI(s string) string {
	s = strings.TrimSpace(s)
	if spdxIDRE.MatchString(s) && !isAbsoluteURI(s) {
		return "https://spdx.org/licenses/" + s
	}
	return s
}

var hostedRepoRE = regexp.MustCompile(`^https://(github\.com|gitlab\.com)/[^/\s]+/[^/\s]+$`)

// repositoryURL returns the GitHub or GitLab repository the document points
// at through codeRepository or url.
func repositoryURL(doc Document) string {
	for _, key := range []string{"codeRepository", "url"} {
		u := strings.TrimSuffix(strings.TrimSuffix(textOf(Classify(doc[key])), "/"), ".git")
		if hostedRepoRE.MatchString(u) {
			return u
		}
	}
	return ""
}

func repositoryLinks(repo string, v Version) map[string]any {
	ciKey := "continuousIntegration"
	if v == V2 {
		ciKey = "contIntegration"
	}
	readme := repo + "/blob/main/README.md"
	links := map[string]any{
		"readme":            readme,
		"issueTracker":      repo + "/issues",
		"downloadUrl":       repo + "/archive/refs/heads/main.zip",
		ciKey:               repo + "/actions",
		"softwareHelp":      map[string]any{"@type": "WebSite", "url": readme},
		"buildInstructions": map[string]any{"@type": "WebSite", "url": readme},
	}
	if strings.HasPrefix(repo, "https://gitlab.com/") {
		name := repo[strings.LastIndex(repo, "/")+1:]
		readme = repo + "/-/blob/main/README.md"
		links["readme"] = readme
		links["issueTracker"] = repo + "/-/issues"
		links["downloadUrl"] = repo + "/-/archive/main/" + name + "-main.zip"
		links[ciKey] = repo + "/-/pipelines"
		links["softwareHelp"] = map[string]any{"@type": "WebSite", "url": readme}
		links["buildInstructions"] = map[string]any{"@type": "WebSite", "url": readme}
	}
	return links
}
