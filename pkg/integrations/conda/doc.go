// Package conda integrates conda channels hosted on anaconda.org.
//
// A conda_id is either a bare package name, looked up in the "anaconda"
// channel, or "channel/package" (e.g. "conda-forge/numpy"). The anaconda.org
// package API supplies summary, license, homepage, versions, upload times
// and total downloads.
package conda
