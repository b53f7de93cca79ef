package errors

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

// ValidatePackageName validates a requirement name before it is used in a
// registry lookup URL.
//
// The rules are conservative:
//   - No empty names
//   - No control characters
//   - No path traversal sequences (.., //, etc.)
//   - Maximum length of 256 characters
//
// Ecosystem-specific rules are checked by the Validate*PackageName helpers.
func ValidatePackageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPackage, "package name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidPackage, "package name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPackage, "package name contains invalid control characters")
		}
	}

	for _, pattern := range []string{"..", "//", "\x00", "\\"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidPackage, "package name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateOutputName validates a file name derived from remote data (for
// example the repository part of codemeta_<repo>.json).
// It must be a plain base name.
func ValidateOutputName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPath, "output name cannot be empty")
	}
	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidPath, "output name cannot contain path separators")
	}
	if name == "." || name == ".." || strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidPath, "output name cannot be a hidden or relative name")
	}
	return nil
}

// ValidatePath validates a relative storage key.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https) and a host.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidURL, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidURL, "URL must use http or https scheme")
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return New(ErrCodeInvalidURL, "URL has no host: %q", rawURL)
	}

	return nil
}

// ValidateRepositoryURL checks that rawURL has the form https://<host>/<owner>/<repo>
// and returns its parts. A trailing .git suffix and extra path segments are ignored.
func ValidateRepositoryURL(rawURL string) (host, owner, repo string, err error) {
	if err := ValidateURL(strings.TrimSpace(rawURL)); err != nil {
		return "", "", "", err
	}
	u, _ := url.Parse(strings.TrimSpace(rawURL))
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", "", New(ErrCodeInvalidURL, "repository URL must look like https://<host>/<owner>/<repo>: %q", rawURL)
	}
	return strings.ToLower(u.Host), parts[0], strings.TrimSuffix(parts[1], ".git"), nil
}

// pythonPackageNameRegex matches valid Python package names (PEP 508).
var pythonPackageNameRegex = regexp.MustCompile(`^([A-Za-z0-9]|[A-Za-z0-9][A-Za-z0-9._-]*[A-Za-z0-9])$`)

// ValidatePythonPackageName validates a Python package name per PEP 508.
func ValidatePythonPackageName(name string) error {
	if err := ValidatePackageName(name); err != nil {
		return err
	}

	if !pythonPackageNameRegex.MatchString(name) {
		return New(ErrCodeInvalidPackage, "invalid Python package name: %q", name)
	}

	return nil
}

// npmPackageNameRegex matches valid npm package names.
var npmPackageNameRegex = regexp.MustCompile(`^(@[a-z0-9-~][a-z0-9-._~]*/)?[a-z0-9-~][a-z0-9-._~]*$`)

// ValidateNpmPackageName validates an npm package name.
func ValidateNpmPackageName(name string) error {
	if err := ValidatePackageName(name); err != nil {
		return err
	}

	if strings.ToLower(name) != name {
		return New(ErrCodeInvalidPackage, "npm package names must be lowercase: %q", name)
	}

	if !npmPackageNameRegex.MatchString(name) {
		return New(ErrCodeInvalidPackage, "invalid npm package name: %q", name)
	}

	return nil
}

// cratesPackageNameRegex matches valid crates.io package names.
var cratesPackageNameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

// ValidateCratesPackageName validates a crates.io package name.
func ValidateCratesPackageName(name string) error {
	if err := ValidatePackageName(name); err != nil {
		return err
	}

	if !cratesPackageNameRegex.MatchString(name) {
		return New(ErrCodeInvalidPackage, "invalid crates.io package name: %q", name)
	}

	return nil
}
