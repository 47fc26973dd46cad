package pipeline

import (
	"math"
	"regexp"
	"sort"
	"time"

	"github.com/matzehuels/bestof/pkg/config"
	"github.com/matzehuels/bestof/pkg/license"
	"github.com/matzehuels/bestof/pkg/project"
)

// SemVerRE is the regular expression published with the SemVer 2.0.0 grammar.
var SemVerRE = regexp.MustCompile(`^(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)` +
	`(?:-((?:0|[1-9]\d*|\d*[a-zA-Z-][0-9a-zA-Z-]*)(?:\.(?:0|[1-9]\d*|\d*[a-zA-Z-][0-9a-zA-Z-]*))*))?` +
	`(?:\+([0-9a-zA-Z-]+(?:\.[0-9a-zA-Z-]+)*))?$`)

// CalcProjectRank scores an enriched record. Every rule adds independently;
// logarithmic terms are skipped for absent or zero metrics and the result
// is not clamped. Resources score 0.
func CalcProjectRank(p *project.Project, w config.Weights, now time.Time) int {
	if p.Resource {
		return 0
	}

	rank := 0
	if p.Homepage != "" && p.Description != "" {
		rank++
	}
	if p.HasRepo() {
		rank++
	}
	if p.License != "" {
		rank++
		if l, ok := license.Get(p.License); ok && !l.Warning {
			rank++
		}
	}
	if p.ReleaseCount > 1 {
		rank++
	}
	if p.LatestReleaseNumber != "" && SemVerRE.MatchString(p.LatestReleaseNumber) {
		rank++
	}
	if !p.LatestReleaseAt.IsZero() && project.DiffMonths(now, p.LatestReleaseAt) < w.RecentReleaseMonths {
		rank++
	}
	if !p.UpdatedAt.IsZero() && project.DiffMonths(now, p.UpdatedAt) < w.RecentUpdateMonths {
		rank++
	}
	if !p.CreatedAt.IsZero() && project.DiffMonths(now, p.CreatedAt) >= w.MatureAgeMonths {
		rank++
	}

	rank += logTerm(p.DependentCount, w.DependentsDivisor, 0)
	rank += logTerm(p.StarCount, w.StarsDivisor, 0)
	rank += logTerm(p.ContributorCount, w.ContributorsDivisor, w.ContributorsOffset)
	rank += logTerm(p.ForkCount, w.ForksDivisor, 0)
	rank += logTerm(p.MonthlyDownloads, w.DownloadsDivisor, w.DownloadsOffset)
	rank += logTerm(p.CommitCount, w.CommitsDivisor, w.CommitsOffset)
	return rank
}

// logTerm is round(ln(v)/div) + offset, or 0 when v is not positive.
// Halves round to even.
func logTerm(v int, div float64, offset int) int {
	if v <= 0 || div <= 0 {
		return 0
	}
	return int(math.RoundToEven(math.Log(float64(v))/div)) + offset
}

// Percentile thresholds of the medal placings.
const (
	FirstPlacePercentile  = 90
	SecondPlacePercentile = 60
)

// CalcPlacing assigns placings per category: 1 at or above the 90th
// percentile of the category's scores, 2 at or above the 60th, else 3.
// Resources and records with a zero score are neither counted nor placed.
func CalcPlacing(projects []*project.Project) {
	ranks := map[string][]float64{}
	for _, p := range projects {
		if placeable(p) {
			ranks[p.Category] = append(ranks[p.Category], float64(p.ProjectRank))
		}
	}

	type thresholds struct{ first, second float64 }
	limits := make(map[string]thresholds, len(ranks))
	for cat, vs := range ranks {
		sort.Float64s(vs)
		limits[cat] = thresholds{
			first:  Percentile(vs, FirstPlacePercentile),
			second: Percentile(vs, SecondPlacePercentile),
		}
	}

	for _, p := range projects {
		if !placeable(p) {
			continue
		}
		l := limits[p.Category]
		rank := float64(p.ProjectRank)
		switch {
		case rank >= l.first:
			p.Placing = 1
		case rank >= l.second:
			p.Placing = 2
		default:
			p.Placing = 3
		}
	}
}

func placeable(p *project.Project) bool {
	return !p.Resource && p.ProjectRank != 0 && p.Category != ""
}

// Percentile computes the q-th percentile of sorted values with linear
// interpolation between the closest ranks.
func Percentile(sorted []float64, q float64) float64 {
	n := len(sorted)
	switch n {
	case 0:
		return 0
	case 1:
		return sorted[0]
	}
	pos := q / 100 * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if hi >= n {
		return sorted[n-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
