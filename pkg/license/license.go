// Package license maps free-text license identifiers to a small static
// registry of well-known open-source licenses.
//
// Lookups are tolerant: names, SPDX identifiers and common aliases are all
// compared after [textutil.SimplifyStr], so "Apache License 2.0",
// "apache-2.0" and "Apache-2" resolve to the same entry.
package license

import "github.com/matzehuels/bestof/pkg/textutil"

// License describes one registry entry.
type License struct {
	Name        string
	SPDXID      string
	Keywords    []string
	URL         string
	OSIApproved bool
	// Warning marks licenses that carry legal risk for commercial reuse.
	Warning bool
}

var registry = []License{
	{Name: "MIT", SPDXID: "MIT", Keywords: []string{"mit-license"}, URL: "http://bit.ly/34MBwT8", OSIApproved: true},
	{Name: "Apache-2", SPDXID: "Apache-2.0", Keywords: []string{"apache-2", "apache-license-2.0"}, URL: "http://bit.ly/3nYMfla", OSIApproved: true},
	{Name: "ISC", SPDXID: "ISC", URL: "http://bit.ly/3hkKRql", OSIApproved: true},
	{Name: "BSD-3", SPDXID: "BSD-3-Clause", Keywords: []string{"bsd-3", "bds-3-clause", "BSD-3.0-Clause"}, URL: "http://bit.ly/3aKzpTv", OSIApproved: true},
	{Name: "GPL-3.0", SPDXID: "GPL-3.0", Keywords: []string{"gpl-3", "gpl3", "gplv3", "gpl3.0"}, URL: "http://bit.ly/2M0xdwT", OSIApproved: true, Warning: true},
	{Name: "GPL-2.0", SPDXID: "GPL-2.0", Keywords: []string{"gpl-2"}, URL: "http://bit.ly/2KucAZR", OSIApproved: true, Warning: true},
	{Name: "MPL-2.0", SPDXID: "MPL-2.0", Keywords: []string{"mpl-2"}, URL: "http://bit.ly/3postzC", OSIApproved: true},
	{Name: "BSD-2", SPDXID: "BSD-2-Clause", Keywords: []string{"bsd-2", "freebsd", "bsd-2-Clause"}, URL: "http://bit.ly/3rqEWVr", OSIApproved: true},
	{Name: "LGPL-3.0", SPDXID: "LGPL-3.0", Keywords: []string{"lgpl-3"}, URL: "http://bit.ly/37RvQcA", OSIApproved: true, Warning: true},
	{Name: "AGPL-3.0", SPDXID: "AGPL-3.0", Keywords: []string{"agpl-3"}, URL: "http://bit.ly/3pwmjO5", OSIApproved: true, Warning: true},
	{Name: "Unlicense", SPDXID: "Unlicense", URL: "http://bit.ly/3rvuUlR"},
	{Name: "EPL-2.0", SPDXID: "EPL-2.0", Keywords: []string{"epl-2"}, URL: "http://bit.ly/2M0xmjV", OSIApproved: true},
	{Name: "CC-BY-SA-4.0", SPDXID: "CC-BY-SA-4.0", Keywords: []string{"CC-BY-SA-4.0 License"}, URL: "http://bit.ly/3mSooSG"},
	{Name: "Python-2.0", SPDXID: "PSF-2.0", Keywords: []string{"Python License 2.0", "PSF-2", "Python-2"}, URL: "http://bit.ly/35wkF7y"},
}

var index = buildIndex()

func buildIndex() map[string]int {
	m := make(map[string]int, len(registry)*3)
	for i, l := range registry {
		m[textutil.SimplifyStr(l.Name)] = i
		m[textutil.SimplifyStr(l.SPDXID)] = i
		for _, k := range l.Keywords {
			m[textutil.SimplifyStr(k)] = i
		}
	}
	return m
}

// Get resolves query against names, SPDX ids and aliases. The returned value
// is a copy; callers may not mutate the registry.
func Get(query string) (License, bool) {
	i, ok := index[textutil.SimplifyStr(query)]
	if !ok {
		return License{}, false
	}
	l := registry[i]
	l.Keywords = append([]string(nil), l.Keywords...)
	return l, true
}

// SPDXIDs returns the canonical identifier of every registered license in
// registry order.
func SPDXIDs() []string {
	ids := make([]string, len(registry))
	for i, l := range registry {
		ids[i] = l.SPDXID
	}
	return ids
}

// All returns a copy of the registry.
func All() []License {
	out := make([]License, len(registry))
	for i := range registry {
		out[i], _ = Get(registry[i].SPDXID)
	}
	return out
}
