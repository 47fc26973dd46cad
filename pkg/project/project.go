// Package project defines the records flowing through the best-of pipeline.
//
// A [Spec] is what the input document declares about a project; a [Project]
// is the enriched record built from it. Every field of Project uses its zero
// value to mean "absent": an empty string, a zero count or a zero time. Merge
// helpers in merge.go encode how values reported by different registries are
// combined, so integrations never write fields directly when a value may
// already be present.
package project

import (
	"strings"
	"time"
)

// Registry names used as keys of [Project.Packages] and as integration names.
const (
	PyPI      = "pypi"
	NPM       = "npm"
	Conda     = "conda"
	Maven     = "maven"
	DockerHub = "dockerhub"
	Cargo     = "cargo"
	Go        = "go"
	RubyGems  = "rubygems"
	Packagist = "packagist"
)

// Registries lists the package registries in enrichment order.
var Registries = []string{PyPI, Conda, NPM, Maven, DockerHub, Cargo, Go, RubyGems, Packagist}

// Spec is one entry of the projects list in the input document.
type Spec struct {
	Name        string `yaml:"name" toml:"name"`
	GitHubID    string `yaml:"github_id" toml:"github_id"`
	GitLabID    string `yaml:"gitlab_id" toml:"gitlab_id"`
	PyPIID      string `yaml:"pypi_id" toml:"pypi_id"`
	NPMID       string `yaml:"npm_id" toml:"npm_id"`
	CondaID     string `yaml:"conda_id" toml:"conda_id"`
	DockerHubID string `yaml:"dockerhub_id" toml:"dockerhub_id"`
	MavenID     string `yaml:"maven_id" toml:"maven_id"`
	CargoID     string `yaml:"cargo_id" toml:"cargo_id"`
	GoID        string `yaml:"go_id" toml:"go_id"`
	RubyGemsID  string `yaml:"rubygems_id" toml:"rubygems_id"`
	PackagistID string `yaml:"packagist_id" toml:"packagist_id"`

	Homepage    string   `yaml:"homepage" toml:"homepage"`
	Description string   `yaml:"description" toml:"description"`
	License     string   `yaml:"license" toml:"license"`
	Category    string   `yaml:"category" toml:"category"`
	Labels      []string `yaml:"labels" toml:"labels"`

	Resource   bool `yaml:"resource" toml:"resource"`
	Group      bool `yaml:"group" toml:"group"`
	Commercial bool `yaml:"commercial" toml:"commercial"`

	// Show forces the visibility of the project when set.
	Show *bool `yaml:"show" toml:"show"`
}

// PackageIDs maps registry names to the declared package ids.
func (s Spec) PackageIDs() map[string]string {
	return map[string]string{
		PyPI:      s.PyPIID,
		NPM:       s.NPMID,
		Conda:     s.CondaID,
		Maven:     s.MavenID,
		DockerHub: s.DockerHubID,
		Cargo:     s.CargoID,
		Go:        s.GoID,
		RubyGems:  s.RubyGemsID,
		Packagist: s.PackagistID,
	}
}

// Package holds what one package registry reports about a project.
type Package struct {
	ID               string
	URL              string
	MonthlyDownloads int
	TotalDownloads   int
	Dependents       int
	Stars            int
	LatestReleaseAt  time.Time
}

// Project is an enriched project record.
type Project struct {
	Name      string
	GitHubID  string
	GitLabID  string
	GitHubURL string
	GitLabURL string
	Packages  map[string]*Package

	Homepage    string
	Description string
	License     string
	Labels      []string
	Category    string

	Resource   bool
	Group      bool
	Commercial bool

	StarCount        int
	ForkCount        int
	ContributorCount int
	CommitCount      int
	OpenIssueCount   int
	ClosedIssueCount int
	ReleaseCount     int
	DependentCount   int
	MonthlyDownloads int
	ReleaseDownloads int
	GitHubDependents int

	CreatedAt           time.Time
	UpdatedAt           time.Time
	LastCommitAt        time.Time
	LatestReleaseAt     time.Time
	LatestReleaseNumber string

	ProjectRank int
	Placing     int
	Show        bool
	Trending    int
	NewAddition bool

	// Spec is the declaration the record was built from.
	Spec Spec
}

// New builds a record from its declaration.
func New(spec Spec) *Project {
	p := &Project{Spec: spec, Packages: map[string]*Package{}}
	p.ApplySpec()
	return p
}

// ApplySpec copies every declared value onto the record, overriding fetched
// values. Absent declarations leave the record untouched.
func (p *Project) ApplySpec() {
	s := p.Spec
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&p.Name, s.Name)
	set(&p.GitHubID, s.GitHubID)
	set(&p.GitLabID, s.GitLabID)
	set(&p.Homepage, s.Homepage)
	set(&p.Description, s.Description)
	set(&p.License, s.License)
	set(&p.Category, s.Category)
	if len(s.Labels) > 0 {
		p.Labels = append([]string(nil), s.Labels...)
	}
	p.Resource = p.Resource || s.Resource
	p.Group = p.Group || s.Group
	p.Commercial = p.Commercial || s.Commercial

	if p.Packages == nil {
		p.Packages = map[string]*Package{}
	}
	for reg, id := range s.PackageIDs() {
		if id == "" {
			continue
		}
		p.EnsurePackage(reg, id)
	}
}

// Package returns the registry entry or nil when the project is not
// published there.
func (p *Project) Package(registry string) *Package {
	if p.Packages == nil {
		return nil
	}
	return p.Packages[registry]
}

// EnsurePackage returns the registry entry, creating it with id if missing.
// A declared id is never replaced.
func (p *Project) EnsurePackage(registry, id string) *Package {
	if p.Packages == nil {
		p.Packages = map[string]*Package{}
	}
	pkg, ok := p.Packages[registry]
	if !ok {
		pkg = &Package{ID: id}
		p.Packages[registry] = pkg
	} else if pkg.ID == "" {
		pkg.ID = id
	}
	return pkg
}

// HasGitHub reports whether a GitHub repository URL is known.
func (p *Project) HasGitHub() bool { return p.GitHubURL != "" }

// HasRepo reports whether any source repository URL is known.
func (p *Project) HasRepo() bool { return p.GitHubURL != "" || p.GitLabURL != "" }

// LastActivity is the last commit time if known, else the last update.
func (p *Project) LastActivity() time.Time {
	if !p.LastCommitAt.IsZero() {
		return p.LastCommitAt
	}
	return p.UpdatedAt
}

// Key is the dedup key of a project name.
func Key(name string) string { return strings.ToLower(name) }
