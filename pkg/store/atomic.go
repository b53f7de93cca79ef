package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/matzehuels/codemeta/pkg/codemeta"
)

// WriteFileAtomic writes data to path via a temporary file in the same
// directory, fsync and rename. The parent directory must exist.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	name := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(name)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("sync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(name, perm); err != nil {
		os.Remove(name)
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

// WriteDocument encodes doc and writes it atomically with mode 0644.
func WriteDocument(path string, doc codemeta.Document) error {
	data, err := codemeta.Encode(doc)
	if err != nil {
		return err
	}
	return WriteFileAtomic(path, data, 0o644)
}

// ReadDocument reads and decodes a document file. Decoding failures are
// MALFORMED_DOCUMENT errors.
func ReadDocument(path string) (codemeta.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return codemeta.Decode(data)
}
