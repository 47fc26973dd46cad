package pipeline

import (
	"sort"

	"github.com/matzehuels/bestof/pkg/history"
	"github.com/matzehuels/bestof/pkg/project"
)

// Changes compares the scored records with a previous snapshot. Names
// missing from the snapshot are added; names present in both with a
// different projectrank are trending by the signed difference. Resources are
// ignored. A nil snapshot yields no changes.
func Changes(projects []*project.Project, snap *history.Snapshot) (added []string, trending map[string]int) {
	trending = map[string]int{}
	if snap == nil {
		return nil, trending
	}
	ranks := snap.Ranks()
	for _, p := range projects {
		if p.Resource || p.Name == "" {
			continue
		}
		prev, ok := ranks[p.Name]
		if !ok {
			added = append(added, p.Name)
			continue
		}
		if delta := p.ProjectRank - prev; delta != 0 {
			trending[p.Name] = delta
		}
	}
	return added, trending
}

// ApplyChanges marks at most max projects trending up and max trending down,
// largest movements first with ties in project order, and flags every added
// project as a new addition. It returns the number of projects marked up
// and down.
func ApplyChanges(projects []*project.Project, added []string, trending map[string]int, max int) (up, down int) {
	type move struct {
		p     *project.Project
		delta int
	}
	var ups, downs []move
	for _, p := range projects {
		delta, ok := trending[p.Name]
		switch {
		case !ok || p.Resource:
		case delta > 0:
			ups = append(ups, move{p, delta})
		case delta < 0:
			downs = append(downs, move{p, delta})
		}
	}
	sort.SliceStable(ups, func(i, j int) bool { return ups[i].delta > ups[j].delta })
	sort.SliceStable(downs, func(i, j int) bool { return downs[i].delta < downs[j].delta })

	for i := 0; i < len(ups) && i < max; i++ {
		ups[i].p.Trending = ups[i].delta
		up++
	}
	for i := 0; i < len(downs) && i < max; i++ {
		downs[i].p.Trending = downs[i].delta
		down++
	}

	isAdded := make(map[string]bool, len(added))
	for _, name := range added {
		isAdded[name] = true
	}
	for _, p := range projects {
		if isAdded[p.Name] {
			p.NewAddition = true
		}
	}
	return up, down
}
