package pipeline

import (
	"math"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bestof/pkg/config"
	"github.com/matzehuels/bestof/pkg/project"
)

// OthersTitle is the title of the implicit others category.
const OthersTitle = "Others"

// PrepareCategories copies the declared categories in order and appends the
// others category unless it is declared.
func PrepareCategories(declared []project.Category) []*project.Category {
	out := make([]*project.Category, 0, len(declared)+1)
	hasOthers := false
	for _, c := range declared {
		c.Projects, c.HiddenProjects = nil, nil
		out = append(out, &c)
		if c.ID == project.OthersCategory {
			hasOthers = true
		}
	}
	if !hasOthers {
		out = append(out, &project.Category{ID: project.OthersCategory, Title: OthersTitle})
	}
	return out
}

// AssignCategory moves a project without a known category to others.
func AssignCategory(p *project.Project, categories []*project.Category, logger *log.Logger) {
	if p.Category == "" {
		p.Category = project.OthersCategory
		return
	}
	for _, c := range categories {
		if c.ID == p.Category {
			return
		}
	}
	orDiscard(logger).Info("category is not declared, using others", "project", p.Name, "category", p.Category)
	p.Category = project.OthersCategory
}

// Categorize appends every project to the visible or hidden bucket of its
// category, keeping project order. Projects without a name or homepage are
// dropped; the number dropped is returned.
func Categorize(projects []*project.Project, categories []*project.Category, logger *log.Logger) int {
	logger = orDiscard(logger)
	byID := make(map[string]*project.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	dropped := 0
	for _, p := range projects {
		if p.Name == "" {
			logger.Info("project without name ignored")
			dropped++
			continue
		}
		if p.Homepage == "" {
			logger.Info("project without homepage ignored", "project", p.Name)
			dropped++
			continue
		}
		c, ok := byID[p.Category]
		if !ok {
			c = byID[project.OthersCategory]
		}
		if p.Show {
			c.Projects = append(c.Projects, p)
		} else {
			c.HiddenProjects = append(c.HiddenProjects, p)
		}
	}
	return dropped
}

// Sort orders projects descending by the configured metric with the other
// metric as tie-break. Resources come first; equal keys keep their order.
func Sort(projects []*project.Project, sortBy string) {
	key := func(p *project.Project) [2]int {
		if p.Resource {
			return [2]int{math.MaxInt, math.MaxInt}
		}
		if sortBy == config.SortByStarCount {
			return [2]int{p.StarCount, p.ProjectRank}
		}
		return [2]int{p.ProjectRank, p.StarCount}
	}
	sort.SliceStable(projects, func(i, j int) bool {
		a, b := key(projects[i]), key(projects[j])
		if a[0] != b[0] {
			return a[0] > b[0]
		}
		return a[1] > b[1]
	})
}
