package libio

import (
	"strings"

	"github.com/matzehuels/bestof/pkg/integrations"
	"github.com/matzehuels/bestof/pkg/project"
)

func known(s string) bool {
	return s != "" && !strings.EqualFold(s, "unknown")
}

// MergePackage applies a package record to p. Registry-specific values go
// to the registry entry of p, which must already exist.
func MergePackage(p *project.Project, registry string, info *PackageInfo, minDescription int) {
	if p.Homepage == "" {
		switch {
		case known(info.Homepage):
			p.Homepage = info.Homepage
		case known(info.RepositoryURL):
			p.Homepage = info.RepositoryURL
		case known(info.PackageManagerURL):
			p.Homepage = info.PackageManagerURL
		}
	}
	project.MergeString(&p.Name, info.Name)

	if p.GitHubID == "" && strings.Contains(info.RepositoryURL, "github") {
		if id := integrations.GitHubIDFromURL(info.RepositoryURL); id != "" {
			p.GitHubID = id
			project.MergeString(&p.GitHubURL, info.RepositoryURL)
		}
	}

	if p.License == "" && len(info.NormalizedLicenses) > 0 && !strings.EqualFold(info.NormalizedLicenses[0], "other") {
		p.License = info.NormalizedLicenses[0]
	}

	pkg := p.Package(registry)
	if released := integrations.ParseTime(info.LatestReleasePublishedAt); !released.IsZero() {
		project.MergeNewest(&p.UpdatedAt, released)
		if pkg != nil {
			project.MergeNewest(&pkg.LatestReleaseAt, released)
		}
	}
	if len(info.Versions) > 0 {
		project.MergeNewest(&p.UpdatedAt, integrations.ParseTime(info.Versions[0].PublishedAt))
		project.MergeMax(&p.ReleaseCount, len(info.Versions))
	}
	project.MergeRelease(p, integrations.ParseTime(info.LatestStableReleasePublishedAt), info.LatestStableReleaseNumber)

	project.MergeMax(&p.StarCount, info.Stars)
	project.MergeMax(&p.ForkCount, info.Forks)

	if info.DependentReposCount > 0 {
		project.AddTo(&p.DependentCount, info.DependentReposCount)
		if pkg != nil {
			pkg.Dependents = info.DependentReposCount
		}
	}
	project.MergeDescription(&p.Description, info.Description, minDescription)
}

// MergeRepo applies a repository record to p, whose GitHubID is known.
func MergeRepo(p *project.Project, info *RepoInfo, minDescription int) {
	project.MergeString(&p.GitHubURL, "https://github.com/"+p.GitHubID)
	project.MergeString(&p.Homepage, p.GitHubURL)
	if p.License == "" && !strings.EqualFold(info.License, "other") {
		p.License = info.License
	}
	project.MergeOldest(&p.CreatedAt, integrations.ParseTime(info.CreatedAt))
	project.MergeNewest(&p.UpdatedAt, integrations.ParseTime(info.PushedAt))
	project.MergeMax(&p.ForkCount, info.ForksCount)
	project.MergeMax(&p.ContributorCount, info.ContributionsCount)
	project.MergeMax(&p.OpenIssueCount, info.OpenIssuesCount)
	project.MergeMax(&p.StarCount, info.StargazersCount)
	project.MergeDescription(&p.Description, info.Description, minDescription)
}
