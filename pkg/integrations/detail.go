package integrations

import (
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/bestof/pkg/config"
	"github.com/matzehuels/bestof/pkg/project"
	"github.com/matzehuels/bestof/pkg/textutil"
)

// DateFormat is the layout of dates in detail lines.
const DateFormat = "02.01.2006"

// Detail is one line of a project's detail body.
type Detail struct {
	Title   string
	URL     string
	Metrics []string
	// Hint is the install command shown when install hints are enabled.
	// Multi-line hints continue with "\n\t".
	Hint string
}

// Render formats the line:
//
//	- [Title](url) (m1 · m2):
//
//		```
//		hint
//		```
//
// The trailing colon is only written when badges or install hints are on.
func (d Detail) Render(cfg *config.Configuration) string {
	var b strings.Builder
	b.WriteString("- [" + d.Title + "](" + d.URL + ")")
	if len(d.Metrics) > 0 {
		b.WriteString(" (" + strings.Join(d.Metrics, " · ") + ")")
	}
	if cfg.GenerateBadges || cfg.GenerateInstallHints {
		b.WriteString(":")
	}
	b.WriteString("\n")
	if cfg.GenerateInstallHints && d.Hint != "" {
		b.WriteString("\n\t```\n\t" + d.Hint + "\n\t```\n")
	}
	return b.String()
}

// MonthlyDownloads formats "📥 1.2K / month"; empty when n is zero.
func MonthlyDownloads(n int) string {
	if n <= 0 {
		return ""
	}
	return "📥 " + textutil.SimplifyNumber(n) + " / month"
}

// Downloads formats a total download count.
func Downloads(n int) string {
	if n <= 0 {
		return ""
	}
	return "📥 " + textutil.SimplifyNumber(n)
}

// Dependents formats a dependent project count.
func Dependents(n int) string {
	if n <= 0 {
		return ""
	}
	return "📦 " + textutil.SimplifyNumber(n)
}

// Stars formats a star count.
func Stars(n int) string {
	if n <= 0 {
		return ""
	}
	return "⭐ " + textutil.SimplifyNumber(n)
}

// Contributors formats a contributor count.
func Contributors(n int) string {
	if n <= 0 {
		return ""
	}
	return "👨‍💻 " + textutil.SimplifyNumber(n)
}

// Forks formats a fork count.
func Forks(n int) string {
	if n <= 0 {
		return ""
	}
	return "🔀 " + textutil.SimplifyNumber(n)
}

// Issues formats the total issue count and the open share. Both counts must
// be known.
func Issues(open, closed int) string {
	if open <= 0 || closed <= 0 {
		return ""
	}
	total := open + closed
	return fmt.Sprintf("📋 %s - %d%% open", textutil.SimplifyNumber(total), open*100/total)
}

// Updated formats a date.
func Updated(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return "⏱️ " + t.Format(DateFormat)
}

// Metrics drops empty entries.
func Metrics(parts ...string) []string {
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// PackageMetrics is the usual metric set of a registry package: monthly
// downloads, dependents and the latest release date.
func PackageMetrics(pkg *project.Package) []string {
	if pkg == nil {
		return nil
	}
	return Metrics(MonthlyDownloads(pkg.MonthlyDownloads), Dependents(pkg.Dependents), Updated(pkg.LatestReleaseAt))
}
