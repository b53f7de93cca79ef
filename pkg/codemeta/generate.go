package codemeta

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/codemeta/pkg/errors"
)

// RepositoryFacts are the basic facts a repository host knows about a project.
type RepositoryFacts struct {
	Name            string
	Description     string
	License         string // SPDX identifier
	Homepage        string
	CodeRepository  string
	PrimaryLanguage string
	DefaultBranch   string
	Owner           string
	Topics          []string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// RepositorySource fetches facts for a repository URL of the form
// https://<host>/<owner>/<repo>.
type RepositorySource interface {
	FetchRepository(ctx context.Context, repoURL string) (*RepositoryFacts, error)
}

// RepositorySourceFunc adapts a function to RepositorySource.
type RepositorySourceFunc func(ctx context.Context, repoURL string) (*RepositoryFacts, error)

// FetchRepository calls f.
func (f RepositorySourceFunc) FetchRepository(ctx context.Context, repoURL string) (*RepositoryFacts, error) {
	return f(ctx, repoURL)
}

// Generate builds a document for repoURL from the facts src returns. Only
// fields backed by facts are set. Any fetch failure is returned as a
// SOURCE_UNAVAILABLE error.
func Generate(ctx context.Context, src RepositorySource, repoURL string, v Version) (Document, error) {
	if !v.Valid() {
		return nil, errors.UnsupportedVersion(string(v))
	}
	facts, err := src.FetchRepository(ctx, repoURL)
	if err != nil {
		if errors.Is(err, errors.ErrCodeSourceUnavailable) {
			return nil, err
		}
		return nil, errors.SourceUnavailable(err, "fetch %s", repoURL)
	}
	if facts == nil {
		return nil, errors.SourceUnavailable(nil, "fetch %s: no repository data", repoURL)
	}
	return FromFacts(*facts, repoURL, v), nil
}

// FromFacts builds the base document without fetching anything.
func FromFacts(f RepositoryFacts, repoURL string, v Version) Document {
	repo := f.CodeRepository
	if repo == "" {
		repo = strings.TrimSuffix(strings.TrimSpace(repoURL), ".git")
	}
	home := f.Homepage
	if home == "" {
		home = repo
	}

	doc := Document{
		"@context":       v.Context(),
		"@type":          "SoftwareSourceCode",
		"name":           f.Name,
		"url":            home,
		"codeRepository": repo,
	}
	putString(doc, "description", f.Description)
	if lic := strings.TrimSpace(f.License); lic != "" && !strings.EqualFold(lic, "NOASSERTION") {
		doc["license"] = lic
	}
	if f.PrimaryLanguage != "" {
		doc["programmingLanguage"] = []any{f.PrimaryLanguage}
	}
	putStrings(doc, "keywords", f.Topics)
	if !f.CreatedAt.IsZero() {
		doc["dateCreated"] = f.CreatedAt.UTC().Format(time.DateOnly)
	}
	if !f.UpdatedAt.IsZero() {
		doc["dateModified"] = f.UpdatedAt.UTC().Format(time.DateOnly)
	}
	return doc
}
