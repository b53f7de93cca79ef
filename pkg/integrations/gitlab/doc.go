// Package gitlab provides an HTTP client for the GitLab API.
//
// # Overview
//
// This package fetches project facts from GitLab (REST API v4) for CodeMeta
// generation, complementing the GitHub client for software hosted on
// gitlab.com or a self-managed instance.
//
// # Usage
//
//	client := gitlab.NewClient(backend, os.Getenv("GITLAB_TOKEN"), 24*time.Hour)
//	repo, err := client.FetchRepository(ctx, "group/project", false)
//
// # Authentication
//
// A GitLab personal access token is optional. Without a token, only
// public projects can be accessed.
//
// # Licenses
//
// GitLab reports lower-case license keys ("mit", "apache-2.0"); they are
// mapped to SPDX identifiers.
package gitlab
