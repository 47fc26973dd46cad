// Package packagist integrates Packagist, the PHP package repository.
//
// [Client.FetchPackage] reads packagist.org/packages/{vendor}/{package}.json,
// which reports total and monthly downloads, dependents and every published
// version. Development branches ("dev-*", "*-dev") are ignored when picking
// the latest release. Licenses may be a list or a single string.
package packagist
