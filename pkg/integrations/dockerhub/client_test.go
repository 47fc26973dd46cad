package dockerhub

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

func testClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	return &Client{
		Client:  integrations.NewClient(cache.NewNullCache(), "dockerhub:", time.Hour, nil),
		baseURL: serverURL,
	}
}

func hubServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repositories/library/redis":
			w.Write([]byte(`{
				"name": "redis",
				"namespace": "library",
				"description": "Redis is an open source key-value store.",
				"star_count": 12000,
				"pull_count": 1200000000,
				"last_updated": "2024-06-20T10:00:00.123456Z",
				"date_registered": "2014-06-05T20:04:50.163584Z"
			}`))
		case "/repositories/bitnami/empty":
			w.Write([]byte(`{}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestRepositoryPath(t *testing.T) {
	if got := RepositoryPath("redis"); got != "library/redis" {
		t.Errorf("RepositoryPath(redis) = %q", got)
	}
	if got := RepositoryPath("bitnami/redis"); got != "bitnami/redis" {
		t.Errorf("RepositoryPath(bitnami/redis) = %q", got)
	}
	if got := ImageURL("redis"); got != "https://hub.docker.com/r/_/redis" {
		t.Errorf("ImageURL(redis) = %q", got)
	}
}

func TestClient_FetchImage(t *testing.T) {
	c := testClient(t, hubServer(t).URL)

	info, err := c.FetchImage(context.Background(), "redis", true)
	if err != nil {
		t.Fatalf("FetchImage failed: %v", err)
	}
	if info.Stars != 12000 || info.Pulls != 1200000000 {
		t.Errorf("info = %+v", info)
	}
	if info.UpdatedAt.Year() != 2024 || info.RegisteredAt.Year() != 2014 {
		t.Errorf("times = %v, %v", info.UpdatedAt, info.RegisteredAt)
	}

	for _, id := range []string{"bitnami/empty", "nobody/missing"} {
		if _, err := c.FetchImage(context.Background(), id, true); !errors.Is(err, integrations.ErrNotFound) {
			t.Errorf("FetchImage(%s) err = %v, want ErrNotFound", id, err)
		}
	}
}

func TestIntegration_Enrich(t *testing.T) {
	now := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	i := &Integration{
		client: testClient(t, hubServer(t).URL),
		opts:   integrations.Options{Now: func() time.Time { return now }},
	}
	p := project.New(project.Spec{Name: "Redis", DockerHubID: "redis"})
	p.StarCount = 100

	if err := i.Enrich(context.Background(), p); err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	pkg := p.Package(project.DockerHub)
	if p.StarCount != 12100 || pkg.Stars != 12000 {
		t.Errorf("stars = %d / %d", p.StarCount, pkg.Stars)
	}
	// June 2014 to July 2024 is 121 months.
	if want := 1200000000 / 121; pkg.MonthlyDownloads != want {
		t.Errorf("monthly = %d, want %d", pkg.MonthlyDownloads, want)
	}
	if pkg.URL != "https://hub.docker.com/r/_/redis" {
		t.Errorf("url = %q", pkg.URL)
	}
}

func TestIntegration_RenderDetail(t *testing.T) {
	p := project.New(project.Spec{Name: "Redis", DockerHubID: "redis"})
	pkg := p.Package(project.DockerHub)
	pkg.URL = "https://hub.docker.com/r/_/redis"
	pkg.TotalDownloads = 1200000000
	pkg.Stars = 12000
	pkg.LatestReleaseAt = time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC)

	cfg := config.Default()
	want := "- [Docker Hub](https://hub.docker.com/r/_/redis) (📥 1.2B · ⭐ 12K · ⏱️ 20.06.2024):\n\n\t```\n\tdocker pull redis\n\t```\n"
	if got := (&Integration{}).RenderDetail(p, &cfg); got != want {
		t.Errorf("RenderDetail() = %q, want %q", got, want)
	}
}
