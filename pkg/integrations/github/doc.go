// Package github integrates repositories hosted on github.com.
//
// # Client
//
// [Client.Fetch] reads a repository through the REST API using go-github:
// the repository itself, open and closed issue counts from the search API,
// contributor and commit counts from the last page of one-per-page
// listings, and up to 100 releases with their asset downloads. Every API
// call waits on a rate limiter sized for the token's quota ([NewLimiter]).
//
// The number of dependent repositories and packages is not exposed by the
// API; [Client.FetchDependents] scrapes it from the repository's
// network/dependents page with goquery.
//
// # Authentication
//
// The integration only queries the API when a token is configured. Without
// one, projects keep their declared values and the detail line is still
// rendered.
//
// # Caching
//
// Complete [RepoInfo] values are cached under "github:owner/repo". Pass
// refresh=true to bypass the cache.
package github
