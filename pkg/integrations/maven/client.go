package maven

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/bestof/pkg/cache"
	"github.com/matzehuels/bestof/pkg/integrations"
)

// ArtifactInfo holds metadata for a Java artifact from Maven Central.
//
// Artifacts are identified by "groupId:artifactId" coordinates. POM fields
// are empty when the POM of the latest version could not be read.
type ArtifactInfo struct {
	GroupID      string    `json:"group_id"`
	ArtifactID   string    `json:"artifact_id"`
	Version      string    `json:"version"`
	VersionCount int       `json:"version_count"`
	UpdatedAt    time.Time `json:"updated_at"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	URL          string    `json:"url"`
	SCMURL       string    `json:"scm_url"`
	License      string    `json:"license"`
}

// Coordinate returns the Maven coordinate string "groupId:artifactId".
func (a *ArtifactInfo) Coordinate() string {
	return a.GroupID + ":" + a.ArtifactID
}

// Client provides access to the Maven Central search API and repository.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
	repoURL string
}

// NewClient creates a Maven Central client with the given cache backend.
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	return &Client{
		Client:  integrations.NewClient(backend, "maven:", cacheTTL, nil),
		baseURL: "https://search.maven.org/solrsearch/select",
		repoURL: "https://repo1.maven.org/maven2",
	}
}

// FetchArtifact retrieves metadata for a Java artifact from Maven Central.
//
// The coordinate parameter must be in the format "groupId:artifactId".
// The search API names the latest version; its POM supplies description,
// project URL, SCM URL and license. POM failures are ignored.
//
// Returns [integrations.ErrNotFound] if the artifact doesn't exist and an
// error if the coordinate is malformed.
func (c *Client) FetchArtifact(ctx context.Context, coordinate string, refresh bool) (*ArtifactInfo, error) {
	groupID, artifactID, err := ParseCoordinate(coordinate)
	if err != nil {
		return nil, err
	}

	var info ArtifactInfo
	err = c.Cached(ctx, coordinate, refresh, &info, func() error {
		return c.fetch(ctx, groupID, artifactID, &info)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) fetch(ctx context.Context, groupID, artifactID string, info *ArtifactInfo) error {
	query := fmt.Sprintf("g:%q AND a:%q", groupID, artifactID)
	url := fmt.Sprintf("%s?q=%s&rows=1&wt=json", c.baseURL, integrations.URLEncode(query))

	var searchResp searchResponse
	if err := c.Get(ctx, url, &searchResp); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: maven artifact %s:%s", err, groupID, artifactID)
		}
		return err
	}
	if searchResp.Response.NumFound == 0 || len(searchResp.Response.Docs) == 0 {
		return fmt.Errorf("%w: maven artifact %s:%s", integrations.ErrNotFound, groupID, artifactID)
	}

	doc := searchResp.Response.Docs[0]
	version := doc.LatestVersion
	if version == "" {
		version = doc.Version
	}

	*info = ArtifactInfo{
		GroupID:      groupID,
		ArtifactID:   artifactID,
		Version:      version,
		VersionCount: doc.VersionCount,
	}
	if doc.Timestamp > 0 {
		info.UpdatedAt = time.UnixMilli(doc.Timestamp).UTC()
	}

	if pom, err := c.fetchPOM(ctx, groupID, artifactID, version); err == nil {
		info.Name = strings.TrimSpace(pom.Name)
		info.Description = strings.TrimSpace(pom.Description)
		info.URL = strings.TrimSpace(pom.URL)
		info.SCMURL = strings.TrimSpace(pom.SCM.URL)
		if len(pom.Licenses) > 0 {
			info.License = strings.TrimSpace(pom.Licenses[0].Name)
		}
	}
	return nil
}

func (c *Client) fetchPOM(ctx context.Context, groupID, artifactID, version string) (*pomProject, error) {
	groupPath := strings.ReplaceAll(groupID, ".", "/")
	url := fmt.Sprintf("%s/%s/%s/%s/%s-%s.pom", c.repoURL, groupPath, artifactID, version, artifactID, version)

	body, err := c.GetText(ctx, url)
	if err != nil {
		return nil, err
	}
	var pom pomProject
	if err := xml.Unmarshal([]byte(body), &pom); err != nil {
		return nil, fmt.Errorf("decode pom: %w", err)
	}
	return &pom, nil
}

// ParseCoordinate splits "groupId:artifactId[:...]".
func ParseCoordinate(coord string) (groupID, artifactID string, err error) {
	parts := strings.Split(coord, ":")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid maven coordinate %q (expected groupId:artifactId)", coord)
	}
	return parts[0], parts[1], nil
}

type searchResponse struct {
	Response struct {
		NumFound int         `json:"numFound"`
		Docs     []searchDoc `json:"docs"`
	} `json:"response"`
}

type searchDoc struct {
	GroupID       string `json:"g"`
	ArtifactID    string `json:"a"`
	Version       string `json:"v"`
	LatestVersion string `json:"latestVersion"`
	VersionCount  int    `json:"versionCount"`
	Timestamp     int64  `json:"timestamp"`
}

type pomProject struct {
	Name        string `xml:"name"`
	Description string `xml:"description"`
	URL         string `xml:"url"`
	SCM         struct {
		URL string `xml:"url"`
	} `xml:"scm"`
	Licenses []struct {
		Name string `xml:"name"`
	} `xml:"licenses>license"`
}
