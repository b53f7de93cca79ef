// Package npm provides an HTTP client for the npm registry API.
//
// # Overview
//
// This package fetches package metadata from the npm registry
// (https://registry.npmjs.org) so that JavaScript requirements can be
// linked to their source repositories.
//
// # Usage
//
//	client := npm.NewClient(backend, 24*time.Hour)
//	pkg, err := client.FetchPackage(ctx, "express", false)
//
// # PackageInfo
//
// [Client.FetchPackage] returns a [PackageInfo] for the latest dist-tag:
//
//   - Name, Version: Package identity
//   - Description, License, Author: Package metadata
//   - Repository, HomePage: URLs, with git+ and .git forms normalized
package npm
