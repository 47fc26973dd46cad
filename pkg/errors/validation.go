package errors

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

// ValidateIdentifier rejects registry identifiers that cannot be safely
// interpolated into a request path: empty, overlong, control characters or
// path traversal sequences.
func ValidateIdentifier(registry, id string) error {
	if id == "" {
		return New(ErrCodeInvalidIdentifier, "%s id cannot be empty", registry)
	}
	if len(id) > 256 {
		return New(ErrCodeInvalidIdentifier, "%s id too long (max 256 characters)", registry)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidIdentifier, "%s id %q contains control characters", registry, id)
		}
	}
	for _, pattern := range []string{"..", "//", "\\"} {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidIdentifier, "%s id %q contains %q", registry, id, pattern)
		}
	}
	return nil
}

var repoIDRegex = regexp.MustCompile(`^[A-Za-z0-9_.-]+(/[A-Za-z0-9_.-]+)+$`)

// ValidateRepoID checks an "owner/repo" identifier. GitLab ids may contain
// nested groups, GitHub ids have exactly one slash.
func ValidateRepoID(host, id string) error {
	if err := ValidateIdentifier(host, id); err != nil {
		return err
	}
	if !repoIDRegex.MatchString(id) {
		return New(ErrCodeInvalidIdentifier, "%s id %q must have the form owner/repo", host, id)
	}
	if host == "github" && strings.Count(id, "/") != 1 {
		return New(ErrCodeInvalidIdentifier, "github id %q must have the form owner/repo", id)
	}
	return nil
}

// ValidateMavenID checks a "group:artifact" coordinate.
func ValidateMavenID(id string) error {
	if err := ValidateIdentifier("maven", id); err != nil {
		return err
	}
	parts := strings.Split(id, ":")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return New(ErrCodeInvalidIdentifier, "maven id %q must have the form group:artifact", id)
	}
	return nil
}

// ValidateURL accepts absolute http and https URLs.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid URL %q", rawURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidInput, "URL %q must use http or https scheme", rawURL)
	}
	if u.Host == "" {
		return New(ErrCodeInvalidInput, "URL %q has no host", rawURL)
	}
	return nil
}
