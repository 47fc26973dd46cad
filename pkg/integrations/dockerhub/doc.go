// Package dockerhub integrates Docker Hub images.
//
// Image ids are "namespace/name" or, for official images, a bare name that
// resolves to the "library" namespace. Docker Hub reports total pulls and
// stars; pulls are averaged into monthly downloads over the project's age.
package dockerhub
