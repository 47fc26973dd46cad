// Package libio integrates the libraries.io aggregation API.
//
// libraries.io indexes packages of many registries together with their
// source repositories. The [Integration] runs after the GitHub integration
// and fills repository metrics for projects GitHub did not cover. Registry
// integrations call [Integration.EnrichPackage] to merge the package record
// of their registry (homepage fallbacks, license, release dates and
// numbers, version count, stars, forks and dependents).
//
// The API requires a key (LIBRARIES_API_KEY); without it the integration
// is disabled and every call is a no-op. Requests are throttled to the
// documented 60 per minute.
package libio
