// Package goproxy integrates Go modules through the module proxy
// (https://proxy.golang.org).
//
// [Client.FetchModule] reads the @latest endpoint for the current version
// and its publish time, and the @v/list endpoint for the number of tagged
// versions. Package pages link to pkg.go.dev.
package goproxy
