// Package pypi provides an HTTP client for the Python Package Index API.
//
// # Overview
//
// This package fetches package metadata from PyPI (https://pypi.org) so that
// Python software requirements can be linked to their source repositories.
//
// # Usage
//
//	client := pypi.NewClient(backend, 24*time.Hour)
//
//	pkg, err := client.FetchPackage(ctx, "pandas", false)  // false = use cache
//	if err != nil {
//	    return err
//	}
//	fmt.Println(pkg.Repository)  // https://github.com/pandas-dev/pandas
//
// # Caching
//
// Responses are cached to reduce load on PyPI and speed up repeated requests.
// The cache TTL is set when creating the client. Pass refresh=true to
// [Client.FetchPackage] to bypass the cache.
//
// Package names are normalized following PEP 503.
package pypi
