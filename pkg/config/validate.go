package config

import (
	"fmt"

	"github.com/matzehuels/bestof/pkg/errors"
	"github.com/matzehuels/bestof/pkg/project"
)

// Validate rejects option values the pipeline cannot work with.
func (c *Configuration) Validate() error {
	for _, opt := range []struct {
		key string
		v   int
	}{
		{"project_inactive_months", c.ProjectInactiveMonths},
		{"project_dead_months", c.ProjectDeadMonths},
		{"project_new_months", c.ProjectNewMonths},
		{"min_description_length", c.MinDescriptionLength},
		{"max_trending_projects", c.MaxTrendingProjects},
	} {
		if opt.v < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "%s must be >= 0, got %d", opt.key, opt.v)
		}
	}

	switch c.SortBy {
	case "":
		c.SortBy = SortByProjectRank
	case SortByProjectRank, SortByStarCount:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "sort_by must be %q or %q, got %q", SortByProjectRank, SortByStarCount, c.SortBy)
	}

	if c.MarkdownOutputFile == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "markdown_output_file cannot be empty")
	}

	w := c.ProjectRankWeights
	for _, div := range []struct {
		key string
		v   float64
	}{
		{"dependents_divisor", w.DependentsDivisor},
		{"stars_divisor", w.StarsDivisor},
		{"contributors_divisor", w.ContributorsDivisor},
		{"forks_divisor", w.ForksDivisor},
		{"downloads_divisor", w.DownloadsDivisor},
		{"commits_divisor", w.CommitsDivisor},
	} {
		if div.v <= 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "projectrank_weights.%s must be > 0", div.key)
		}
	}
	return nil
}

func (d *Document) validateCategories() error {
	seen := map[string]bool{}
	for i, c := range d.Categories {
		if c.ID == "" {
			return errors.New(errors.ErrCodeInvalidInput, "category #%d has no id", i+1)
		}
		if seen[c.ID] {
			return errors.New(errors.ErrCodeInvalidInput, "category %q declared twice", c.ID)
		}
		seen[c.ID] = true
	}
	return nil
}

// Lint checks the identifiers of every declared project. Problems are not
// fatal: the affected integration simply finds nothing.
func (d *Document) Lint() []error {
	var errs []error
	add := func(i int, s project.Spec, err error) {
		if err == nil {
			return
		}
		name := s.Name
		if name == "" {
			name = fmt.Sprintf("#%d", i+1)
		}
		errs = append(errs, fmt.Errorf("project %s: %w", name, err))
	}

	for i, s := range d.Projects {
		if s.Name == "" {
			add(i, s, errors.New(errors.ErrCodeInvalidInput, "missing name"))
		}
		if s.Homepage != "" {
			add(i, s, errors.ValidateURL(s.Homepage))
		}
		if s.GitHubID != "" {
			add(i, s, errors.ValidateRepoID("github", s.GitHubID))
		}
		if s.GitLabID != "" {
			add(i, s, errors.ValidateRepoID("gitlab", s.GitLabID))
		}
		if s.MavenID != "" {
			add(i, s, errors.ValidateMavenID(s.MavenID))
		}
		ids := s.PackageIDs()
		for _, reg := range project.Registries {
			if reg != project.Maven && ids[reg] != "" {
				add(i, s, errors.ValidateIdentifier(reg, ids[reg]))
			}
		}
	}
	return errs
}
