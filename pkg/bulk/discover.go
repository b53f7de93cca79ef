package bulk

import (
	"bufio"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/matzehuels/codemeta/pkg/errors"
)

// DefaultPatterns match CodeMeta files at any depth below a directory.
var DefaultPatterns = []string{"**/codemeta*.json", "**/*codemeta*.json"}

// Discover returns the files below dir matching any of patterns (doublestar
// syntax, DefaultPatterns if none), deduplicated and sorted.
func Discover(dir string, patterns ...string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidPath, "%s is not a directory", dir)
	}

	fsys := os.DirFS(dir)
	seen := make(map[string]bool)
	var files []string
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid pattern %q", pattern)
		}
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", pattern, err)
		}
		for _, m := range matches {
			path := filepath.Join(dir, filepath.FromSlash(m))
			if !seen[path] {
				seen[path] = true
				files = append(files, path)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// ReadRepoList reads repository URLs from path, one per line. Blank lines
// and lines starting with # are ignored, as are repeated URLs.
func ReadRepoList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	seen := make(map[string]bool)
	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || seen[line] {
			continue
		}
		seen[line] = true
		urls = append(urls, line)
	}
	return urls, scanner.Err()
}

// Items turns sources into items whose id is the source itself.
func Items(sources []string) []Item {
	items := make([]Item, len(sources))
	for i, s := range sources {
		items[i] = Item{ID: s, Source: s}
	}
	return items
}

// OutputName returns the file name generated documents are stored under:
// codemeta_<repo>.json for https://host/owner/<repo>.
func OutputName(repoURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(repoURL))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidURL, err, "parse %q", repoURL)
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) < 2 || segments[len(segments)-1] == "" {
		return "", errors.New(errors.ErrCodeInvalidURL, "no repository name in %q", repoURL)
	}
	name := "codemeta_" + strings.TrimSuffix(segments[len(segments)-1], ".git") + ".json"
	if err := errors.ValidateOutputName(name); err != nil {
		return "", err
	}
	return name, nil
}

// OutputConflicts maps the ID of every item whose OutputName was already
// taken by an earlier item to that earlier item's source. Items are
// compared in input order, so the first repository keeps the file.
func OutputConflicts(items []Item) map[string]string {
	owner := make(map[string]string)
	conflicts := make(map[string]string)
	for _, it := range items {
		name, err := OutputName(it.Source)
		if err != nil {
			continue
		}
		if first, ok := owner[name]; ok {
			conflicts[it.ID] = first
			continue
		}
		owner[name] = it.Source
	}
	return conflicts
}

// ProjectName derives the project key of a document file:
// codemeta_<project>.json gives <project>.
func ProjectName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, ".json")
	return strings.TrimPrefix(base, "codemeta_")
}
