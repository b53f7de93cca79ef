package bulk

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/codemeta/pkg/codemeta"
	"github.com/matzehuels/codemeta/pkg/errors"
	"github.com/matzehuels/codemeta/pkg/requirements"
	"github.com/matzehuels/codemeta/pkg/store"
)

// ContributorSource suggests people for a repository.
type ContributorSource interface {
	FetchContributors(ctx context.Context, repoURL string, limit int) ([]codemeta.Person, error)
}

// GenerateJob builds a document per repository URL and saves it to Store
// under codemeta_<repo>.json.
type GenerateJob struct {
	Source  codemeta.RepositorySource
	Version codemeta.Version
	Store   store.Store

	Authors      []codemeta.Person
	Organization *codemeta.Organization
	Requirements []codemeta.SoftwareRequirement
	Resolver     *requirements.Resolver // Links Requirements when set

	// Contributors, when set, adds up to ContributorLimit repository
	// contributors to the contributor list. Failures become messages.
	Contributors     ContributorSource
	ContributorLimit int

	// Conflicts lists items whose output name belongs to an earlier item
	// (see OutputConflicts). They fail instead of overwriting that output.
	Conflicts map[string]string
}

// Process implements Job.
func (j *GenerateJob) Process(ctx context.Context, item Item) (Outcome, error) {
	key, err := OutputName(item.Source)
	if err != nil {
		return Outcome{}, err
	}
	if first, ok := j.Conflicts[item.ID]; ok {
		return Outcome{}, errors.New(errors.ErrCodeInvalidInput, "output %s already used by %s", key, first)
	}
	doc, notes, err := j.Build(ctx, item.Source)
	if err != nil {
		return Outcome{}, err
	}
	if err := j.Store.Save(ctx, key, doc); err != nil {
		return Outcome{}, err
	}
	report := codemeta.Validate(doc, codemeta.ProfileFor(j.Version))
	return Outcome{Output: key, Messages: append(report.Messages(), notes...)}, nil
}

// Build generates the document for repoURL and merges the configured
// authors, contributors, organization and requirements into it. Notes
// describe enrichment steps that failed without failing the document.
func (j *GenerateJob) Build(ctx context.Context, repoURL string) (codemeta.Document, []string, error) {
	doc, err := codemeta.Generate(ctx, j.Source, repoURL, j.Version)
	if err != nil {
		return nil, nil, err
	}

	var notes []string
	if len(j.Authors) > 0 {
		codemeta.AddAuthors(doc, j.Authors...)
	}
	if j.Contributors != nil {
		people, err := j.Contributors.FetchContributors(ctx, repoURL, j.ContributorLimit)
		if err != nil {
			notes = append(notes, "contributors unavailable: "+errors.UserMessage(err))
		} else if len(people) > 0 {
			codemeta.AddContributors(doc, people...)
		}
	}
	if j.Organization != nil {
		codemeta.AddOrganizationalContext(doc, *j.Organization)
	}
	if len(j.Requirements) > 0 {
		reqs := j.Requirements
		if j.Resolver != nil {
			var failed []string
			reqs, failed = j.Resolver.Resolve(ctx, reqs)
			for _, name := range failed {
				notes = append(notes, "could not resolve requirement: "+name)
			}
		}
		codemeta.AddSoftwareRequirements(doc, reqs...)
	}
	return doc, notes, nil
}

// EnhanceJob upgrades document files to Version. Results are written in
// place when OutputDir is empty. Otherwise each file keeps its path relative
// to Root below OutputDir, so same-named files in different directories do
// not collide.
type EnhanceJob struct {
	Version      codemeta.Version
	Root         string
	OutputDir    string
	Complete     bool
	Organization *codemeta.Organization
}

// Process implements Job.
func (j *EnhanceJob) Process(ctx context.Context, item Item) (Outcome, error) {
	data, err := os.ReadFile(item.Source)
	if err != nil {
		return Outcome{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", item.Source)
	}
	var opts []codemeta.EnhanceOption
	if j.Complete {
		opts = append(opts, codemeta.WithCompletion())
	}
	doc, report, err := codemeta.EnhanceBytes(data, j.Version, opts...)
	if err != nil {
		return Outcome{}, err
	}
	if j.Organization != nil {
		codemeta.AddOrganizationalContext(doc, *j.Organization)
	}

	out := j.outputPath(item.Source)
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return Outcome{}, fmt.Errorf("create output directory: %w", err)
	}
	if err := store.WriteDocument(out, doc); err != nil {
		return Outcome{}, err
	}
	return Outcome{Output: out, Messages: report.Messages()}, nil
}

func (j *EnhanceJob) outputPath(src string) string {
	if j.OutputDir == "" {
		return src
	}
	rel := filepath.Base(src)
	if j.Root != "" {
		if r, err := filepath.Rel(j.Root, src); err == nil && r != ".." && !strings.HasPrefix(r, ".."+string(filepath.Separator)) {
			rel = r
		}
	}
	return filepath.Join(j.OutputDir, rel)
}

// ValidateJob checks document files. Version "" validates each file against
// the version it declares.
type ValidateJob struct {
	Version codemeta.Version
	Strict  bool
}

// Process implements Job.
func (j *ValidateJob) Process(ctx context.Context, item Item) (Outcome, error) {
	data, err := os.ReadFile(item.Source)
	if err != nil {
		return Outcome{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", item.Source)
	}
	raw, err := codemeta.DecodeAny(data)
	if err != nil {
		return Outcome{}, err
	}

	v := j.Version
	if v == "" {
		if m, ok := raw.(map[string]any); ok {
			v = codemeta.DetectVersion(codemeta.Document(m))
		} else {
			v = codemeta.V3
		}
	}
	if !v.Valid() {
		return Outcome{}, errors.UnsupportedVersion(string(v))
	}

	var opts []codemeta.ValidateOption
	if j.Strict {
		opts = append(opts, codemeta.WithStrict())
	}
	report := codemeta.Validate(raw, codemeta.ProfileFor(v), opts...)
	if report.HasErrors() {
		return Outcome{Messages: report.Warnings()}, errors.MalformedDocument(nil, "%s", strings.Join(report.Errors(), "; "))
	}
	return Outcome{Messages: report.Messages()}, nil
}

// RequirementsJob rewrites plain-string softwareRequirements entries of
// document files. Names found in Packages are replaced by the mapped
// requirement; other names become a requirement linked by NewRequirement.
// Entries that are already objects are kept.
type RequirementsJob struct {
	Version  codemeta.Version
	Packages map[string]codemeta.SoftwareRequirement
}

// Process implements Job.
func (j *RequirementsJob) Process(ctx context.Context, item Item) (Outcome, error) {
	doc, err := store.ReadDocument(item.Source)
	if err != nil {
		return Outcome{}, err
	}
	entries, ok := requirementEntries(doc["softwareRequirements"])
	if !ok {
		return Outcome{Skipped: true, Messages: []string{"no softwareRequirements"}}, nil
	}

	updated := make([]any, 0, len(entries))
	for _, e := range entries {
		s, isString := e.(string)
		if !isString {
			updated = append(updated, e)
			continue
		}
		name := s
		if i := strings.LastIndex(name, "/"); i >= 0 {
			name = name[i+1:]
		}
		if req, found := j.Packages[name]; found {
			updated = append(updated, req.Map())
		} else {
			updated = append(updated, codemeta.NewRequirement(name).Map())
		}
	}
	doc["softwareRequirements"] = updated

	if err := store.WriteDocument(item.Source, doc); err != nil {
		return Outcome{}, err
	}
	return Outcome{Output: item.Source, Messages: validateAs(doc, j.Version)}, nil
}

func requirementEntries(raw any) ([]any, bool) {
	switch v := raw.(type) {
	case []any:
		return v, len(v) > 0
	case string:
		return []any{v}, v != ""
	case map[string]any:
		return []any{v}, true
	}
	return nil, false
}

// PublicationsJob adds reference publications to document files. The
// project key of a file is its name without the codemeta_ prefix and .json
// suffix, falling back to the document's name. Files without a mapping are
// skipped.
type PublicationsJob struct {
	Version  codemeta.Version
	Projects map[string][]codemeta.Publication
}

// Process implements Job.
func (j *PublicationsJob) Process(ctx context.Context, item Item) (Outcome, error) {
	doc, err := store.ReadDocument(item.Source)
	if err != nil {
		return Outcome{}, err
	}
	pubs, ok := j.Projects[ProjectName(item.Source)]
	if !ok {
		if name, isString := doc["name"].(string); isString {
			pubs, ok = j.Projects[name]
		}
	}
	if !ok || len(pubs) == 0 {
		return Outcome{Skipped: true, Messages: []string{"no publication mapping found"}}, nil
	}

	codemeta.AddReferencePublications(doc, pubs...)
	if err := store.WriteDocument(item.Source, doc); err != nil {
		return Outcome{}, err
	}
	return Outcome{Output: item.Source, Messages: validateAs(doc, j.Version)}, nil
}

// validateAs validates doc against v, or the version doc declares when v is
// empty.
func validateAs(doc codemeta.Document, v codemeta.Version) []string {
	if v == "" {
		v = codemeta.DetectVersion(doc)
	}
	if !v.Valid() {
		return []string{fmt.Sprintf("unsupported schema version %q", v)}
	}
	return codemeta.Validate(doc, codemeta.ProfileFor(v)).Messages()
}

// Chain runs jobs in order on the same item. The item counts as skipped
// only when every job skips it; the first error stops the chain.
func Chain(jobs ...Job) Job {
	return JobFunc(func(ctx context.Context, item Item) (Outcome, error) {
		var out Outcome
		var skipNotes []string
		ran := false
		for _, job := range jobs {
			o, err := job.Process(ctx, item)
			if err != nil {
				out.Messages = append(out.Messages, o.Messages...)
				return out, err
			}
			if o.Skipped {
				skipNotes = append(skipNotes, o.Messages...)
				continue
			}
			ran = true
			out.Messages = append(out.Messages, o.Messages...)
			if o.Output != "" {
				out.Output = o.Output
			}
		}
		if !ran {
			return Outcome{Skipped: true, Messages: skipNotes}, nil
		}
		return out, nil
	})
}
