// Package pkg provides the libraries behind the bestof generator.
//
// bestof turns a declarative list of open-source projects into a ranked,
// categorized markdown report. Data flows through the packages like this:
//
//	projects.yaml
//	     ↓
//	[config]        load document, apply defaults, validate
//	     ↓
//	[pipeline]      dedup → enrich → score → filter → trend → categorize → sort
//	     ↓              ↑
//	     ↓         [integrations]  GitHub, GitLab, libraries.io, PyPI, npm, ...
//	     ↓         [history]       previous snapshot for trend deltas
//	     ↓
//	[render]        README.md + latest-changes.md
//
// Supporting packages: [project] (records and merge rules), [license],
// [textutil], [cache], [httputil], [errors], [observability], [buildinfo].
package pkg
