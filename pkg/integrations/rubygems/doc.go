// Package rubygems integrates RubyGems.org, the Ruby community's gem
// hosting service.
//
// [Client.FetchGem] reads the gem endpoint for the current version, its
// publish time, total downloads, licenses and project URLs, and the
// reverse dependency endpoint for the dependent gem count.
//
// RubyGems.org reports no monthly figures. The integration averages total
// downloads over the project's age when the creation date is known.
package rubygems
