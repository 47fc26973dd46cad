package integrations_test

import (
	"fmt"

	"github.com/matzehuels/bestof/pkg/config"
	"github.com/matzehuels/bestof/pkg/integrations"
)

func ExampleNormalizeRepoURL() {
	fmt.Println(integrations.NormalizeRepoURL("git@github.com:user/repo.git"))
	fmt.Println(integrations.NormalizeRepoURL("git+https://github.com/user/repo.git"))
	// Output:
	// https://github.com/user/repo
	// https://github.com/user/repo
}

func ExampleGitHubIDFromURL() {
	fmt.Println(integrations.GitHubIDFromURL("https://github.com/pallets/flask/issues"))
	// Output:
	// pallets/flask
}

func ExampleDetail_Render() {
	cfg := config.Default()
	cfg.GenerateInstallHints = false
	d := integrations.Detail{
		Title:   "NPM",
		URL:     "https://www.npmjs.com/package/react",
		Metrics: integrations.Metrics(integrations.MonthlyDownloads(81_000_000), integrations.Dependents(0)),
	}
	fmt.Print(d.Render(&cfg))
	// Output:
	// - [NPM](https://www.npmjs.com/package/react) (📥 81M / month)
}
