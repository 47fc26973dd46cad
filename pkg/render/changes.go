package render

import (
	"strings"

	"github.com/matzehuels/bestof/pkg/project"
)

// NoChanges is the digest of a run without trending or added projects.
const NoChanges = "Nothing changed from last update."

const (
	trendingUpHeader = "## 📈 Trending Up\n\n" +
		"_Projects that have a higher project-quality score compared to the last update. " +
		"There might be a variety of reasons, such as increased downloads or code activity._\n\n"
	trendingDownHeader = "## 📉 Trending Down\n\n" +
		"_Projects that have a lower project-quality score compared to the last update. " +
		"There might be a variety of reasons such as decreased downloads or code activity._\n\n"
	addedHeader = "## ➕ Added Projects\n\n" +
		"_Projects that were recently added to this best-of list._\n\n"
)

// Changes renders the change digest: projects trending up, trending down and
// recently added, each as condensed lines.
func Changes(projects []*project.Project, opts Options) string {
	var up, down, added strings.Builder
	for _, p := range projects {
		line := Project(p, opts, false) + "\n"
		switch {
		case p.Trending > 0:
			up.WriteString(line)
		case p.Trending < 0:
			down.WriteString(line)
		case p.NewAddition:
			added.WriteString(line)
		}
	}

	var b strings.Builder
	if up.Len() > 0 {
		b.WriteString(trendingUpHeader + up.String() + "\n")
	}
	if down.Len() > 0 {
		b.WriteString(trendingDownHeader + down.String() + "\n")
	}
	if added.Len() > 0 {
		b.WriteString(addedHeader + added.String() + "\n")
	}
	if b.Len() == 0 {
		return NoChanges
	}
	return b.String()
}
