package github

import (
	"regexp"
	"strings"

	bferrors "github.com/matzehuels/bestof/pkg/errors"
)

var (
	ownerPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]{0,38}$`)
	namePattern  = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,100}$`)
)

// RepoID identifies a repository on GitHub.
type RepoID struct {
	Owner string
	Name  string
}

// ParseRepoID reads a github_id. Besides "owner/repo" it accepts the
// repository URL with or without scheme and a trailing ".git", since
// documents often paste the clone URL.
func ParseRepoID(ref string) (RepoID, error) {
	s := strings.TrimSpace(ref)
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "www.")
	s = strings.TrimPrefix(s, "github.com/")
	s = strings.TrimSuffix(strings.TrimSuffix(s, "/"), ".git")

	owner, name, ok := strings.Cut(s, "/")
	if !ok {
		return RepoID{}, bferrors.New(bferrors.ErrCodeInvalidIdentifier, "github id %q: want owner/repo", ref)
	}
	id := RepoID{Owner: owner, Name: name}
	if err := id.Validate(); err != nil {
		return RepoID{}, err
	}
	return id, nil
}

// Validate checks owner and name against GitHub's naming rules.
func (id RepoID) Validate() error {
	if !ownerPattern.MatchString(id.Owner) {
		return bferrors.New(bferrors.ErrCodeInvalidIdentifier, "github owner %q is not a valid user or organization", id.Owner)
	}
	if !namePattern.MatchString(id.Name) {
		return bferrors.New(bferrors.ErrCodeInvalidIdentifier, "github repository name %q is invalid", id.Name)
	}
	return nil
}

func (id RepoID) String() string { return id.Owner + "/" + id.Name }
