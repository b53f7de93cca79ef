// Package github provides an HTTP client for the GitHub API.
//
// # Overview
//
// This package fetches repository facts from GitHub (https://api.github.com)
// for CodeMeta generation: name, description, homepage, SPDX license,
// primary language, topics and dates. Contributors and user profiles are
// available for author suggestions.
//
// # Usage
//
//	client := github.NewClient(backend, os.Getenv("GITHUB_TOKEN"), 24*time.Hour)
//
//	repo, err := client.FetchRepository(ctx, "sodascience", "codemeta-generator", false)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(repo.License)
//
// # Authentication
//
// A GitHub personal access token is optional but recommended to avoid rate
// limits. Without a token, the client is limited to 60 requests/hour.
// With a token, the limit is 5000 requests/hour. An exhausted limit is
// reported as a retryable rate-limit error.
//
// # Caching
//
// Responses are cached to reduce API calls. The cache TTL is set when
// creating the client. Pass refresh=true to bypass the cache.
package github
