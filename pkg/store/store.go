package store

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/matzehuels/codemeta/pkg/codemeta"
	"github.com/matzehuels/codemeta/pkg/errors"
)

// Store loads and saves documents by key.
type Store interface {
	// Load returns the document stored under key. A missing key is a
	// NOT_FOUND error.
	Load(ctx context.Context, key string) (codemeta.Document, error)
	// Save stores doc under key, replacing any previous document.
	Save(ctx context.Context, key string, doc codemeta.Document) error
	// List returns all keys in ascending order.
	List(ctx context.Context) ([]string, error)
	// Close releases resources.
	Close() error
}

// FileStore stores documents as JSON files below a directory. Keys are
// relative slash-separated paths; ".json" is appended when missing.
type FileStore struct {
	dir string
}

// NewFileStore creates a file store rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the store root.
func (s *FileStore) Dir() string { return s.dir }

// Path returns the file path for key.
func (s *FileStore) Path(key string) (string, error) {
	if err := errors.ValidatePath(key); err != nil {
		return "", err
	}
	if !strings.HasSuffix(key, ".json") {
		key += ".json"
	}
	return filepath.Join(s.dir, filepath.FromSlash(key)), nil
}

func (s *FileStore) Load(ctx context.Context, key string) (codemeta.Document, error) {
	path, err := s.Path(key)
	if err != nil {
		return nil, err
	}
	doc, err := ReadDocument(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeNotFound, "no document %q", key)
	}
	return doc, err
}

func (s *FileStore) Save(ctx context.Context, key string, doc codemeta.Document) error {
	path, err := s.Path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	return WriteDocument(path, doc)
}

func (s *FileStore) List(ctx context.Context) ([]string, error) {
	var keys []string
	err := doublestar.GlobWalk(os.DirFS(s.dir), "**/*.json", func(path string, d fs.DirEntry) error {
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		keys = append(keys, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.dir, err)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *FileStore) Close() error { return nil }

var _ Store = (*FileStore)(nil)
