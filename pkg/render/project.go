package render

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/matzehuels/bestof/pkg/config"
	"github.com/matzehuels/bestof/pkg/integrations"
	"github.com/matzehuels/bestof/pkg/license"
	"github.com/matzehuels/bestof/pkg/project"
	"github.com/matzehuels/bestof/pkg/textutil"
)

// Options holds everything a report depends on besides the projects.
type Options struct {
	Config *config.Configuration
	Labels []project.Label
	// Integrations contribute the detail lines of project bodies, in order.
	Integrations []integrations.Integration
	// Header and Footer are template texts; see [Substitute].
	Header string
	Footer string
	// Now is the reference time of status glyphs.
	Now time.Time
}

// Status glyphs in priority order.
const (
	GlyphDead       = "💀"
	GlyphInactive   = "💤"
	GlyphNew        = "🐣"
	GlyphCommercial = "💲"
	GlyphUp         = "📈"
	GlyphDown       = "📉"
	GlyphAdded      = "➕"
)

const noInformation = "- _No project information available._"

// Medal returns the placing emoji; any placing other than 1 or 2 is bronze.
func Medal(placing int) string {
	switch placing {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	default:
		return "🥉"
	}
}

// Status picks the single status glyph of a project, or "".
func Status(p *project.Project, cfg *config.Configuration, now time.Time) string {
	inactive := project.MonthsSince(now, p.LastActivity())
	age := project.MonthsSince(now, p.CreatedAt)
	switch {
	case cfg.ProjectDeadMonths > 0 && inactive > cfg.ProjectDeadMonths:
		return GlyphDead
	case cfg.ProjectInactiveMonths > 0 && inactive > cfg.ProjectInactiveMonths:
		return GlyphInactive
	case cfg.ProjectNewMonths > 0 && age >= 0 && age <= cfg.ProjectNewMonths:
		return GlyphNew
	case p.Commercial:
		return GlyphCommercial
	case p.Trending > 0:
		return GlyphUp
	case p.Trending < 0:
		return GlyphDown
	case p.NewAddition:
		return GlyphAdded
	}
	return ""
}

// Metrics renders "(🥇12 · ⭐ 1.2K · 📈) " or "" when nothing is known.
func Metrics(p *project.Project, cfg *config.Configuration, now time.Time) string {
	var parts []string
	if p.ProjectRank != 0 {
		parts = append(parts, Medal(p.Placing)+strconv.Itoa(p.ProjectRank))
	}
	if p.StarCount > 0 {
		parts = append(parts, "⭐ "+textutil.SimplifyNumber(p.StarCount))
	}
	if s := Status(p, cfg, now); s != "" {
		parts = append(parts, s)
	}
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, " · ") + ") "
}

// unlicensedLength is the budget used for the license badge of a project
// without a license.
const unlicensedLength = 12

// License renders the license badge and returns the length of its visible
// text. Resources and hide_project_license render nothing.
func License(p *project.Project, cfg *config.Configuration) (string, int) {
	if cfg.HideProjectLicense || p.Resource {
		return "", 0
	}
	if p.License == "" {
		if cfg.HideLicenseRisk {
			return " <code>Unlicensed</code>", unlicensedLength
		}
		return " <code>❗Unlicensed</code>", unlicensedLength
	}

	name := p.License
	link := "https://tldrlegal.com/search?q=" + url.PathEscape(p.License)
	warning := true
	if l, ok := license.Get(p.License); ok {
		name = l.Name
		if l.URL != "" {
			link = l.URL
		}
		warning = l.Warning
	}
	if warning && !cfg.HideLicenseRisk {
		name = "❗️" + name
	}
	return fmt.Sprintf(` <code><a href="%s">%s</a></code>`, link, name), utf8.RuneCountInString(name)
}

// LookupLabel resolves a label reference; unknown references render as
// their raw text.
func LookupLabel(ref string, labels []project.Label) project.Label {
	key := textutil.SimplifyStr(ref)
	for _, l := range labels {
		if l.ID != "" && textutil.SimplifyStr(l.ID) == key {
			return l
		}
	}
	return project.Label{Name: ref}
}

// Labels renders the label badges of a project, each preceded by a space.
func Labels(p *project.Project, labels []project.Label) string {
	var b strings.Builder
	for _, ref := range p.Labels {
		l := LookupLabel(ref, labels)
		if l.Ignore || (l.Image == "" && l.Name == "") {
			continue
		}
		var md string
		switch {
		case l.Image != "" && l.Name != "":
			md = fmt.Sprintf(`<code><img src="%s" style="display:inline;" width="13" height="13">%s</code>`, l.Image, l.Name)
		case l.Image != "":
			md = fmt.Sprintf(`<code><img src="%s" style="display:inline;" width="13" height="13"></code>`, l.Image)
		default:
			md = "<code>" + l.Name + "</code>"
		}
		if l.URL != "" {
			md = `<a href="` + l.URL + `">` + md + "</a>"
		}
		b.WriteString(" " + strings.TrimSpace(md))
	}
	return b.String()
}

// DescriptionLength is the description budget of a summary line: the
// longer the name, metrics, license and labels, the shorter the text, but
// never below 55 characters.
func DescriptionLength(name, metrics string, licenseLen, labelCount int) int {
	if licenseLen > 0 {
		licenseLen += 2
	}
	budget := 105 - float64(utf8.RuneCountInString(name))*1.3 -
		float64(utf8.RuneCountInString(metrics)) - float64(licenseLen) - float64(labelCount*5)
	return int(math.RoundToEven(math.Max(55, budget)))
}

// Body renders the detail lines of every integration the project is known
// to, preceded by a blank line.
func Body(p *project.Project, opts Options) string {
	var b strings.Builder
	for _, in := range opts.Integrations {
		b.WriteString(in.RenderDetail(p, opts.Config))
	}
	if b.Len() == 0 {
		return "\n\n" + noInformation
	}
	return "\n\n" + b.String()
}

// Project renders one project. With body it is an expandable detail block,
// otherwise a condensed list item. Resources always use the link format.
func Project(p *project.Project, opts Options, body bool) string {
	cfg := opts.Config
	metrics := Metrics(p, cfg, opts.Now)
	lic, licLen := License(p, cfg)
	metadata := lic + Labels(p, opts.Labels)

	width := DescriptionLength(p.Name, metrics, licLen, len(p.Labels))
	desc := textutil.ProcessDescription(p.Description, width)
	link := fmt.Sprintf(`<b><a href="%s">%s</a></b>`, p.Homepage, p.Name)

	switch {
	case p.Resource:
		if desc != "" {
			desc = "- " + desc
		}
		return "🔗&nbsp;" + link + " " + metrics + " " + desc + metadata + "\n"
	case body:
		return "<details><summary>" + link + " " + metrics + "- " + desc + metadata + "</summary>" + Body(p, opts) + "</details>"
	default:
		return "- " + link + " " + metrics + "- " + desc + metadata
	}
}
