package pipeline

import (
	"time"
	"unicode/utf8"

	"github.com/matzehuels/bestof/pkg/config"
	"github.com/matzehuels/bestof/pkg/license"
	"github.com/matzehuels/bestof/pkg/project"
	"github.com/matzehuels/bestof/pkg/textutil"
)

// ApplyFilters sets p.Show. Hidden records stay in the run and end up in
// the hidden bucket of their category. A declared show value overrides the
// result.
func ApplyFilters(p *project.Project, cfg *config.Configuration, now time.Time) {
	p.Show = visible(p, cfg, now)
	if p.Spec.Show != nil {
		p.Show = *p.Spec.Show
	}
}

func visible(p *project.Project, cfg *config.Configuration, now time.Time) bool {
	if p.Name == "" {
		return false
	}
	if p.Resource || p.Group {
		return true
	}

	show := p.Homepage != ""
	if utf8.RuneCountInString(p.Description) < cfg.MinDescriptionLength {
		show = false
	}
	if cfg.MinProjectRank > 0 && p.ProjectRank < cfg.MinProjectRank {
		show = false
	}
	if cfg.MinStars > 0 && p.StarCount > 0 && p.StarCount < cfg.MinStars {
		show = false
	}
	if cfg.RequireRepo && !p.HasRepo() {
		show = false
	}
	if cfg.RequireGitHub && !p.HasGitHub() {
		show = false
	}
	if cfg.RequireLicense && p.License == "" {
		show = false
	}
	if p.License != "" && !LicenseAllowed(p.License, cfg) {
		show = false
	}
	if last := p.LastActivity(); !last.IsZero() && cfg.ProjectDeadMonths > 0 &&
		project.DiffMonths(now, last) > cfg.ProjectDeadMonths {
		show = false
	}
	return show
}

// LicenseAllowed compares the canonical identifier of name with the
// canonical identifiers of the allow-list. Unknown licenses compare by their
// simplified text.
func LicenseAllowed(name string, cfg *config.Configuration) bool {
	if cfg.LicenseFilterDisabled() {
		return true
	}
	want := canonicalLicense(name)
	for _, allowed := range cfg.AllowedLicenses {
		if textutil.SimplifyStr(allowed) == want || canonicalLicense(allowed) == want {
			return true
		}
	}
	return false
}

func canonicalLicense(name string) string {
	if l, ok := license.Get(name); ok {
		return textutil.SimplifyStr(l.SPDXID)
	}
	return textutil.SimplifyStr(name)
}
