package render

import (
	"fmt"
	"os"
	"strings"

	"github.com/matzehuels/bestof/pkg/errors"
	"github.com/matzehuels/bestof/pkg/project"
	"github.com/matzehuels/bestof/pkg/textutil"
)

// BackToTopImage is the icon linking every category back to the contents.
const BackToTopImage = "https://bit.ly/382Vmvi"

// Counts are the totals substituted into header and footer templates.
type Counts struct {
	Projects   int
	Categories int
	Stars      int
}

// Count totals visible and hidden projects. Categories count when they are
// rendered; one category (others) is excluded from the count.
func Count(categories []*project.Category, hideEmpty bool) Counts {
	var c Counts
	for _, cat := range categories {
		for _, p := range cat.Projects {
			c.Projects++
			c.Stars += p.StarCount
		}
		for _, p := range cat.HiddenProjects {
			c.Projects++
			c.Stars += p.StarCount
		}
		if !hideEmpty || cat.Count() > 0 {
			c.Categories++
		}
	}
	if c.Categories > 0 {
		c.Categories--
	}
	return c
}

// Substitute replaces {project_count}, {category_count} and {stars_count}
// in a header or footer template.
func Substitute(tmpl string, c Counts) string {
	return strings.NewReplacer(
		"{project_count}", textutil.SimplifyNumber(c.Projects),
		"{category_count}", textutil.SimplifyNumber(c.Categories),
		"{stars_count}", textutil.SimplifyNumber(c.Stars),
	).Replace(tmpl)
}

// ReadTemplate returns the content of a header or footer file. An empty path
// yields "".
func ReadTemplate(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "read template %s", path)
	}
	return string(data), nil
}

// Markdown renders the complete report.
func Markdown(categories []*project.Category, opts Options) string {
	cfg := opts.Config
	counts := Count(categories, cfg.HideEmptyCategories)

	var b strings.Builder
	if opts.Header != "" {
		b.WriteString(Substitute(opts.Header, counts))
		b.WriteString("\n")
	}
	if cfg.GenerateTOC {
		b.WriteString(TOC(categories, opts))
	}
	if cfg.GenerateLegend {
		b.WriteString(Legend(opts))
	}
	for _, c := range categories {
		b.WriteString(Category(c, opts))
	}
	if opts.Footer != "" {
		b.WriteString(Substitute(opts.Footer, counts))
	}
	return b.String()
}

func skipCategory(c *project.Category, hideEmpty bool) bool {
	return c.Count() == 0 && (hideEmpty || c.ID == project.OthersCategory)
}

// TOC renders the contents list. Each entry links to the anchor of the
// category heading and counts its visible projects.
func TOC(categories []*project.Category, opts Options) string {
	var b strings.Builder
	b.WriteString("## Contents\n\n")
	for _, c := range categories {
		if skipCategory(c, opts.Config.HideEmptyCategories) {
			continue
		}
		fmt.Fprintf(&b, "- [%s](#%s) _%d projects_\n", c.Title, textutil.Anchor(c.Title), len(c.Projects))
	}
	b.WriteString("\n")
	return b.String()
}

// Legend explains the glyphs used in project lines.
func Legend(opts Options) string {
	cfg := opts.Config
	var b strings.Builder
	b.WriteString("## Explanation\n")
	b.WriteString("- 🥇🥈🥉&nbsp; Combined project-quality score\n")
	b.WriteString("- ⭐️&nbsp; Star count from GitHub\n")
	fmt.Fprintf(&b, "- 🐣&nbsp; New project _(less than %d months old)_\n", cfg.ProjectNewMonths)
	fmt.Fprintf(&b, "- 💤&nbsp; Inactive project _(%d months no activity)_\n", cfg.ProjectInactiveMonths)
	fmt.Fprintf(&b, "- 💀&nbsp; Dead project _(%d months no activity)_\n", cfg.ProjectDeadMonths)
	b.WriteString("- 📈📉&nbsp; Project is trending up or down\n")
	b.WriteString("- ➕&nbsp; Project was recently added\n")
	if !cfg.HideProjectLicense && !cfg.HideLicenseRisk {
		b.WriteString("- ❗️&nbsp; Warning _(e.g. missing/risky license)_\n")
	}
	b.WriteString("- 👨‍💻&nbsp; Contributors count from GitHub\n")
	b.WriteString("- 🔀&nbsp; Fork count from GitHub\n")
	b.WriteString("- 📋&nbsp; Issue count from GitHub\n")
	b.WriteString("- ⏱️&nbsp; Last update timestamp on package manager\n")
	b.WriteString("- 📥&nbsp; Download count from package manager\n")
	b.WriteString("- 📦&nbsp; Number of dependent projects\n")
	if cfg.ShowLabelsInLegend {
		for _, l := range opts.Labels {
			if l.Ignore || l.Image == "" || l.Description == "" {
				continue
			}
			fmt.Fprintf(&b, `- <img src="%s" style="display:inline;" width="13" height="13">&nbsp; %s`+"\n", l.Image, l.Description)
		}
	}
	b.WriteString("\n")
	return b.String()
}

// Category renders one category section, or "" when it is empty and hidden.
func Category(c *project.Category, opts Options) string {
	if skipCategory(c, opts.Config.HideEmptyCategories) {
		return ""
	}
	top := "#contents"
	if !opts.Config.GenerateTOC {
		top = "#"
	}

	var b strings.Builder
	b.WriteString("<br>\n\n")
	b.WriteString("## " + c.Title + "\n\n")
	fmt.Fprintf(&b, `<a href="%s"><img align="right" width="15" height="15" src="%s" alt="Back to top"></a>`+"\n\n", top, BackToTopImage)
	if s := strings.TrimSpace(c.Subtitle); s != "" {
		b.WriteString("_" + s + "_\n\n")
	}
	for _, p := range c.Projects {
		b.WriteString(Project(p, opts, true))
		b.WriteString("\n")
	}
	if n := len(c.HiddenProjects); n > 0 {
		fmt.Fprintf(&b, "<details><summary>Show %d hidden projects...</summary>\n\n", n)
		for _, p := range c.HiddenProjects {
			b.WriteString(Project(p, opts, false))
			b.WriteString("\n")
		}
		b.WriteString("</details>\n")
	}
	return b.String()
}
