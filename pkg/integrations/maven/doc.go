// Package maven integrates Maven Central.
//
// Artifacts are addressed by "groupId:artifactId" coordinates.
// [Client.FetchArtifact] queries the Central search API for the latest
// version, its publish timestamp and the version count, then reads the POM
// of that version for description, project URL, SCM URL and license.
//
// Install hints render a <dependency> snippet with a [VERSION] placeholder.
package maven
