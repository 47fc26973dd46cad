// Package httputil provides the retry helpers used by the registry clients.
//
// Two policies exist side by side:
//
//   - [Retry] / [RetryWithBackoff] retry errors wrapped in [RetryableError]
//     (transport failures, 5xx responses) with exponential backoff.
//   - [RetryRateLimited] retries [errors.RateLimitedError] (HTTP 429) with a
//     linearly increasing sleep and gives up after a fixed number of attempts,
//     or at once when Retry-After exceeds [MaxRateLimitWait].
//     Only the download-statistics lookups use it; for every other registry a
//     429 is an ordinary recoverable failure.
//
// Both stop immediately on context cancellation.
//
// [errors.RateLimitedError]: github.com/matzehuels/bestof/pkg/errors.RateLimitedError
package httputil
