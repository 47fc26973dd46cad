package all

import (
	"slices"
	"testing"

	"github.com/matzehuels/bestof/pkg/project"
)

func TestNewOrder(t *testing.T) {
	got := Names(New(Options{}))
	want := []string{
		"github", "gitlab", "libio",
		project.PyPI, project.Conda, project.NPM, project.Maven, project.DockerHub,
		project.Cargo, project.Go, project.RubyGems, project.Packagist,
	}
	if !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestLibrariesIOEnabledByKey(t *testing.T) {
	for _, tt := range []struct {
		key  string
		want bool
	}{{"", false}, {"secret", true}} {
		list := New(Options{LibrariesAPIKey: tt.key})
		if got := list[2].Enabled(); got != tt.want {
			t.Errorf("libio enabled with key %q = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestEveryRegistryCovered(t *testing.T) {
	names := Names(New(Options{}))
	for _, reg := range project.Registries {
		if !slices.Contains(names, reg) {
			t.Errorf("registry %q has no integration", reg)
		}
	}
}
