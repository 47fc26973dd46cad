package gitlab

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matzehuels/bestof/pkg/cache"
	"github.com/matzehuels/bestof/pkg/config"
	"github.com/matzehuels/bestof/pkg/integrations"
	"github.com/matzehuels/bestof/pkg/project"
)

func testClient(t *testing.T, serverURL, token string) *Client {
	t.Helper()
	c := NewClient(cache.NewNullCache(), token, time.Hour)
	c.baseURL = serverURL
	return c
}

func gitlabServer(t *testing.T, token *string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token != nil {
			*token = r.Header.Get("PRIVATE-TOKEN")
		}
		switch r.URL.EscapedPath() {
		case "/projects/inkscape%2Finkscape":
			w.Write([]byte(`{
				"path_with_namespace": "inkscape/inkscape",
				"description": "Inkscape vector image editor",
				"web_url": "https://gitlab.com/inkscape/inkscape",
				"http_url_to_repo": "https://gitlab.com/inkscape/inkscape.git",
				"star_count": 3500,
				"forks_count": 900,
				"created_at": "2017-05-23T18:54:26.016Z",
				"last_activity_at": "2024-06-30T21:00:00.000Z",
				"license": {"key": "gpl-2.0", "name": "GNU General Public License v2.0"}
			}`))
		case "/projects/inkscape%2Finkscape/issues_statistics":
			w.Write([]byte(`{"statistics": {"counts": {"all": 4000, "closed": 3000, "opened": 1000}}}`))
		case "/projects/inkscape%2Finkscape/repository/contributors":
			w.Header().Set("X-Total", "450")
			w.Write([]byte(`[]`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestClient_FetchProject(t *testing.T) {
	var token string
	c := testClient(t, gitlabServer(t, &token).URL, "glpat-secret")

	info, err := c.FetchProject(context.Background(), "inkscape/inkscape", true)
	if err != nil {
		t.Fatalf("FetchProject failed: %v", err)
	}
	if token != "glpat-secret" {
		t.Errorf("PRIVATE-TOKEN = %q", token)
	}
	if info.RepoURL != "https://gitlab.com/inkscape/inkscape" || info.License != "gpl-2.0" {
		t.Errorf("info = %+v", info)
	}
	if info.OpenIssues != 1000 || info.ClosedIssues != 3000 || info.Contributors != 450 {
		t.Errorf("counts = %+v", info)
	}

	if _, err := c.FetchProject(context.Background(), "nobody/missing", true); !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestIntegration_Enrich(t *testing.T) {
	i := &Integration{client: testClient(t, gitlabServer(t, nil).URL, "")}
	p := project.New(project.Spec{Name: "Inkscape", GitLabID: "inkscape/inkscape"})

	if err := i.Enrich(context.Background(), p); err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if p.GitLabURL != "https://gitlab.com/inkscape/inkscape" || p.Homepage != "https://gitlab.com/inkscape/inkscape" {
		t.Errorf("urls = %q, %q", p.GitLabURL, p.Homepage)
	}
	if p.License != "GPL-2.0" || p.StarCount != 3500 || p.ForkCount != 900 {
		t.Errorf("project = %+v", p)
	}
	if !p.HasRepo() || p.HasGitHub() {
		t.Error("a GitLab project has a repository but no GitHub repository")
	}

	none := project.New(project.Spec{Name: "none"})
	if err := i.Enrich(context.Background(), none); err != nil {
		t.Errorf("projects without gitlab_id must be skipped: %v", err)
	}
}

func TestIntegration_RenderDetail(t *testing.T) {
	p := project.New(project.Spec{Name: "Inkscape", GitLabID: "inkscape/inkscape"})
	p.GitLabURL = "https://gitlab.com/inkscape/inkscape"
	p.ForkCount = 900
	p.OpenIssueCount = 1000
	p.ClosedIssueCount = 3000

	cfg := config.Default()
	want := "- [GitLab](https://gitlab.com/inkscape/inkscape) (🔀 900 · 📋 4K - 25% open):\n\n\t```\n\tgit clone https://gitlab.com/inkscape/inkscape\n\t```\n"
	if got := (&Integration{}).RenderDetail(p, &cfg); got != want {
		t.Errorf("RenderDetail() = %q, want %q", got, want)
	}
}

func TestExtractURL(t *testing.T) {
	owner, repo, ok := ExtractURL(map[string]string{"Source": "https://gitlab.com/inkscape/inkscape.git"}, "")
	if !ok || owner != "inkscape" || repo != "inkscape" {
		t.Errorf("ExtractURL() = %q, %q, %v", owner, repo, ok)
	}
	if _, _, ok := ExtractURL(nil, "https://github.com/a/b"); ok {
		t.Error("github URLs must not match")
	}
}
