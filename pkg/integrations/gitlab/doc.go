// Package gitlab integrates projects hosted on gitlab.com through the
// GitLab REST API (v4).
//
// A gitlab_id is the project's "group/name" path. [Client.FetchProject]
// reads the project endpoint for stars, forks, license, creation and last
// activity, the issue statistics endpoint for open and closed issue counts,
// and the X-Total header of the contributors endpoint.
//
// A personal access token is optional; it is sent as PRIVATE-TOKEN.
//
// [ExtractURL] finds gitlab.com repositories in package metadata.
package gitlab
