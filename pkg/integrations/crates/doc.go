// Package crates integrates the crates.io Rust package registry.
//
// [Client.FetchCrate] returns a [CrateInfo] built from the crate endpoint
// and the reverse dependency count. The integration registered under the
// "cargo" registry name derives monthly downloads from the 90-day
// recent_downloads counter and renders a "cargo install" hint.
//
// Responses are cached with the TTL given at construction. Pass
// refresh=true to bypass the cache.
package crates
