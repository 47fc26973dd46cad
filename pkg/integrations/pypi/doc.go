// Package pypi integrates the Python Package Index.
//
// # Overview
//
// The [Integration] enriches projects declaring a pypi_id from three
// sources:
//
//   - libraries.io, when enabled (see package libio)
//   - the PyPI JSON API (https://pypi.org/pypi/<name>/json): summary,
//     license, homepage, repository URL, current version and its upload time
//   - pypistats.org: downloads of the last month
//
// # Rate Limiting
//
// pypistats.org allows 30 requests per minute. [Client.FetchMonthlyDownloads]
// waits on a limiter before each request and retries HTTP 429 answers three
// times with sleeps of 10s, 20s and so on. After that the metric is skipped
// for the project; the run continues.
//
// # Caching
//
// Responses are cached to reduce load on PyPI and speed up repeated runs.
// Set [integrations.Options].Refresh to bypass the cache.
package pypi
