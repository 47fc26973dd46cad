// Package config loads the best-of input document.
//
// A document has four top-level keys:
//
//	configuration:   # options, see [Configuration]
//	categories:      # ordered list of {category, title, subtitle}
//	labels:          # list of {label, name, image, url, description, ignore}
//	projects:        # list of project declarations, see [project.Spec]
//
// YAML (.yaml, .yml) and TOML (.toml) are supported. Options missing from
// the document keep the values of [Default].
package config

import (
	"github.com/matzehuels/bestof/pkg/license"
	"github.com/matzehuels/bestof/pkg/project"
)

// Sort keys accepted by Configuration.SortBy.
const (
	SortByProjectRank = "projectrank"
	SortByStarCount   = "star_count"
)

// AllLicenses disables the allowed_licenses filter when listed.
const AllLicenses = "all"

// Document is a parsed input document.
type Document struct {
	Configuration Configuration      `yaml:"configuration" toml:"configuration"`
	Categories    []project.Category `yaml:"categories" toml:"categories"`
	Labels        []project.Label    `yaml:"labels" toml:"labels"`
	Projects      []project.Spec     `yaml:"projects" toml:"projects"`
}

// Configuration holds the options of one best-of list.
type Configuration struct {
	ProjectInactiveMonths int `yaml:"project_inactive_months" toml:"project_inactive_months"`
	ProjectDeadMonths     int `yaml:"project_dead_months" toml:"project_dead_months"`
	ProjectNewMonths      int `yaml:"project_new_months" toml:"project_new_months"`

	MinProjectRank       int      `yaml:"min_projectrank" toml:"min_projectrank"`
	MinStars             int      `yaml:"min_stars" toml:"min_stars"`
	MinDescriptionLength int      `yaml:"min_description_length" toml:"min_description_length"`
	RequireLicense       bool     `yaml:"require_license" toml:"require_license"`
	RequireRepo          bool     `yaml:"require_repo" toml:"require_repo"`
	RequireGitHub        bool     `yaml:"require_github" toml:"require_github"`
	AllowedLicenses      []string `yaml:"allowed_licenses" toml:"allowed_licenses"`

	MarkdownOutputFile    string `yaml:"markdown_output_file" toml:"markdown_output_file"`
	ProjectsHistoryFolder string `yaml:"projects_history_folder" toml:"projects_history_folder"`
	MarkdownHeaderFile    string `yaml:"markdown_header_file" toml:"markdown_header_file"`
	MarkdownFooterFile    string `yaml:"markdown_footer_file" toml:"markdown_footer_file"`

	GenerateBadges       bool `yaml:"generate_badges" toml:"generate_badges"`
	GenerateInstallHints bool `yaml:"generate_install_hints" toml:"generate_install_hints"`
	GenerateTOC          bool `yaml:"generate_toc" toml:"generate_toc"`
	GenerateLegend       bool `yaml:"generate_legend" toml:"generate_legend"`

	SortBy              string `yaml:"sort_by" toml:"sort_by"`
	MaxTrendingProjects int    `yaml:"max_trending_projects" toml:"max_trending_projects"`
	HideEmptyCategories bool   `yaml:"hide_empty_categories" toml:"hide_empty_categories"`
	ShowLabelsInLegend  bool   `yaml:"show_labels_in_legend" toml:"show_labels_in_legend"`
	HideProjectLicense  bool   `yaml:"hide_project_license" toml:"hide_project_license"`
	HideLicenseRisk     bool   `yaml:"hide_license_risk" toml:"hide_license_risk"`

	ProjectRankWeights Weights `yaml:"projectrank_weights" toml:"projectrank_weights"`
}

// Weights are the tunable constants of the projectrank score. Each
// logarithmic term contributes round(ln(metric)/Divisor) + Offset.
type Weights struct {
	DependentsDivisor   float64 `yaml:"dependents_divisor" toml:"dependents_divisor"`
	StarsDivisor        float64 `yaml:"stars_divisor" toml:"stars_divisor"`
	ContributorsDivisor float64 `yaml:"contributors_divisor" toml:"contributors_divisor"`
	ContributorsOffset  int     `yaml:"contributors_offset" toml:"contributors_offset"`
	ForksDivisor        float64 `yaml:"forks_divisor" toml:"forks_divisor"`
	DownloadsDivisor    float64 `yaml:"downloads_divisor" toml:"downloads_divisor"`
	DownloadsOffset     int     `yaml:"downloads_offset" toml:"downloads_offset"`
	CommitsDivisor      float64 `yaml:"commits_divisor" toml:"commits_divisor"`
	CommitsOffset       int     `yaml:"commits_offset" toml:"commits_offset"`

	RecentReleaseMonths int `yaml:"recent_release_months" toml:"recent_release_months"`
	RecentUpdateMonths  int `yaml:"recent_update_months" toml:"recent_update_months"`
	MatureAgeMonths     int `yaml:"mature_age_months" toml:"mature_age_months"`
}

// DefaultWeights returns the stock projectrank constants.
func DefaultWeights() Weights {
	return Weights{
		DependentsDivisor:   1.5,
		StarsDivisor:        2,
		ContributorsDivisor: 2,
		ContributorsOffset:  -1,
		ForksDivisor:        2,
		DownloadsDivisor:    2,
		DownloadsOffset:     -1,
		CommitsDivisor:      2,
		CommitsOffset:       -1,
		RecentReleaseMonths: 6,
		RecentUpdateMonths:  3,
		MatureAgeMonths:     6,
	}
}

// Default returns the configuration used for options a document omits.
func Default() Configuration {
	return Configuration{
		ProjectInactiveMonths: 6,
		ProjectDeadMonths:     12,
		ProjectNewMonths:      6,
		MinProjectRank:        10,
		MinStars:              100,
		MinDescriptionLength:  10,
		RequireLicense:        true,
		AllowedLicenses:       license.SPDXIDs(),
		MarkdownOutputFile:    "README.md",
		ProjectsHistoryFolder: "history",
		GenerateInstallHints:  true,
		GenerateTOC:           true,
		GenerateLegend:        true,
		SortBy:                SortByProjectRank,
		MaxTrendingProjects:   5,
		ShowLabelsInLegend:    true,
		ProjectRankWeights:    DefaultWeights(),
	}
}

// LicenseFilterDisabled reports whether every license is allowed.
func (c *Configuration) LicenseFilterDisabled() bool {
	if len(c.AllowedLicenses) == 0 {
		return true
	}
	for _, l := range c.AllowedLicenses {
		if l == AllLicenses {
			return true
		}
	}
	return false
}
