// Package render turns categorized projects into the best-of markdown report.
//
// # Overview
//
// Rendering is a pure function of its inputs: the same categories, options
// and reference time always produce byte-identical output. The report
// consists of:
//
//   - an optional header template
//   - an optional table of contents ([TOC])
//   - an optional legend ([Legend])
//   - one section per category ([Category]) with visible projects as
//     expandable detail blocks and hidden projects in a collapsed list
//   - an optional footer template
//
// [Changes] renders the separate change digest of trending and added
// projects.
//
// # Project lines
//
// Each project renders as a summary line built from its metrics (medal and
// projectrank, stars, one status glyph), its license badge, its labels and a
// description shortened to fit one line:
//
//	<details><summary><b><a href="https://flask.palletsprojects.com">flask</a></b> (🥇31 · ⭐ 61K) - The Python micro framework.. <code><a href="http://bit.ly/3aKzpTv">BSD-3</a></code></summary>
//
// The body lists one detail line per integration, each produced by the
// integration's RenderDetail.
//
// # Verification
//
// [VerifyTOC] parses a report with goldmark and reports table-of-contents
// links without a matching heading. [HTML] converts a report for the preview
// server.
package render
