// Package crates provides an HTTP client for the crates.io API.
//
// It fetches crate metadata (latest version, description, license and
// repository URL) so that Rust requirements can be linked to their
// repositories. crates.io requires a descriptive User-Agent header, which
// [NewClient] sets.
package crates
