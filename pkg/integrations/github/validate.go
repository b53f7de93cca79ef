package github

import (
	"regexp"
	"strings"

	"github.com/matzehuels/codemeta/pkg/errors"
)

var (
	loginRE = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]{0,38}$`)
	repoRE  = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,100}$`)
)

// ValidateOwner checks a user or organization login before it is put into
// an API path.
func ValidateOwner(owner string) error {
	if !loginRE.MatchString(owner) {
		return errors.New(errors.ErrCodeInvalidURL, "invalid GitHub owner %q", owner)
	}
	return nil
}

// ValidateRepo checks a repository name.
func ValidateRepo(repo string) error {
	if !repoRE.MatchString(repo) || repo == "." || repo == ".." {
		return errors.New(errors.ErrCodeInvalidURL, "invalid GitHub repository name %q", repo)
	}
	return nil
}

// ValidateRepoRef checks both halves of owner/repo.
func ValidateRepoRef(owner, repo string) error {
	if err := ValidateOwner(owner); err != nil {
		return err
	}
	return ValidateRepo(repo)
}

// ParseRepoRef splits "owner/repo" (as returned by source.SplitRepositoryURL)
// and validates both parts. A .git suffix is dropped.
func ParseRepoRef(ref string) (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(strings.Trim(ref, "/"), "/")
	if !ok {
		return "", "", errors.New(errors.ErrCodeInvalidURL, "repository path %q is not owner/repo", ref)
	}
	repo = strings.TrimSuffix(repo, ".git")
	if err := ValidateRepoRef(owner, repo); err != nil {
		return "", "", err
	}
	return owner, repo, nil
}
