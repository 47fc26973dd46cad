package github

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	dependentReposRE    = regexp.MustCompile(`([0-9,]+)\s+Repositor(?:y|ies)`)
	dependentPackagesRE = regexp.MustCompile(`([0-9,]+)\s+Packages?`)
)

// FetchDependents scrapes the dependency graph page of a repository for
// the number of dependent repositories and packages.
func (c *Client) FetchDependents(ctx context.Context, id string) (repos, packages int, err error) {
	body, err := c.GetText(ctx, fmt.Sprintf("%s/%s/network/dependents", c.webURL, id))
	if err != nil {
		return 0, 0, err
	}
	repos, packages, err = parseDependents(body)
	return repos, packages, err
}

// parseDependents reads the counters of the repository/package toggle
// links, falling back to the page text.
func parseDependents(html string) (repos, packages int, err error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return 0, 0, fmt.Errorf("parse dependents page: %w", err)
	}

	var texts []string
	doc.Find("a.btn-link").Each(func(_ int, s *goquery.Selection) {
		texts = append(texts, strings.Join(strings.Fields(s.Text()), " "))
	})
	texts = append(texts, strings.Join(strings.Fields(doc.Text()), " "))

	repos = firstCount(dependentReposRE, texts)
	packages = firstCount(dependentPackagesRE, texts)
	return repos, packages, nil
}

func firstCount(re *regexp.Regexp, texts []string) int {
	for _, t := range texts {
		if m := re.FindStringSubmatch(t); m != nil {
			n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
			if err == nil {
				return n
			}
		}
	}
	return 0
}
