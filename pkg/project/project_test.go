package project

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewAppliesSpec(t *testing.T) {
	show := false
	p := New(Spec{
		Name:     "Flask",
		GitHubID: "pallets/flask",
		PyPIID:   "flask",
		CondaID:  "conda-forge/flask",
		Homepage: "https://flask.palletsprojects.com",
		Labels:   []string{"web"},
		Resource: true,
		Show:     &show,
	})

	if p.Name != "Flask" || p.GitHubID != "pallets/flask" {
		t.Errorf("identity not applied: %+v", p)
	}
	if p.Package(PyPI) == nil || p.Package(PyPI).ID != "flask" {
		t.Errorf("pypi package = %+v", p.Package(PyPI))
	}
	if p.Package(Conda).ID != "conda-forge/flask" {
		t.Errorf("conda package = %+v", p.Package(Conda))
	}
	if p.Package(NPM) != nil {
		t.Errorf("unexpected npm package: %+v", p.Package(NPM))
	}
	if !p.Resource || len(p.Labels) != 1 {
		t.Errorf("flags/labels not applied: %+v", p)
	}
}

func TestApplySpecOverridesFetchedValues(t *testing.T) {
	p := New(Spec{Name: "x", Description: "Declared description."})
	p.Description = "fetched"
	p.License = "MIT"
	p.ApplySpec()

	if p.Description != "Declared description." {
		t.Errorf("Description = %q, want declared value", p.Description)
	}
	if p.License != "MIT" {
		t.Errorf("License = %q, absent declaration must not clear it", p.License)
	}
}

func TestEnsurePackageKeepsDeclaredID(t *testing.T) {
	p := New(Spec{Name: "x", NPMID: "declared"})
	pkg := p.EnsurePackage(NPM, "other")
	if pkg.ID != "declared" {
		t.Errorf("ID = %q, want declared", pkg.ID)
	}
	if got := p.EnsurePackage(Cargo, "serde"); got.ID != "serde" {
		t.Errorf("new package ID = %q", got.ID)
	}
}

func TestMergeMax(t *testing.T) {
	v := 10
	MergeMax(&v, 5)
	if v != 10 {
		t.Errorf("MergeMax lowered value to %d", v)
	}
	MergeMax(&v, 20)
	if v != 20 {
		t.Errorf("MergeMax = %d, want 20", v)
	}
	MergeMax(&v, 0)
	if v != 20 {
		t.Errorf("absent value overwrote present one: %d", v)
	}
}

func TestAddTo(t *testing.T) {
	v := 0
	AddTo(&v, 100)
	AddTo(&v, 0)
	AddTo(&v, 50)
	if v != 150 {
		t.Errorf("AddTo = %d, want 150", v)
	}
}

func TestMergeTimes(t *testing.T) {
	var oldest, newest time.Time
	for _, d := range []time.Time{date(2021, 5, 1), date(2019, 1, 1), {}, date(2023, 3, 1)} {
		MergeOldest(&oldest, d)
		MergeNewest(&newest, d)
	}
	if !oldest.Equal(date(2019, 1, 1)) {
		t.Errorf("oldest = %v", oldest)
	}
	if !newest.Equal(date(2023, 3, 1)) {
		t.Errorf("newest = %v", newest)
	}
}

func TestMergeTimesNormalizeToUTC(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	var v time.Time
	MergeNewest(&v, time.Date(2024, 1, 1, 0, 30, 0, 0, loc))
	if v.Location() != time.UTC || v.Year() != 2023 {
		t.Errorf("MergeNewest = %v, want UTC", v)
	}
}

func TestMergeDescription(t *testing.T) {
	tests := []struct {
		name, cur, v, want string
	}{
		{"fills empty", "", "A long description", "A long description"},
		{"replaces short", "short", "A long description", "A long description"},
		{"keeps long", "Existing description", "Other description", "Existing description"},
		{"ignores absent", "short", "", "short"},
		{"counts runes", "äöüäö", "A long description", "A long description"},
		{"keeps long multibyte", "ünïcödé ßä", "Other description", "ünïcödé ßä"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cur := tt.cur
			MergeDescription(&cur, tt.v, 10)
			if cur != tt.want {
				t.Errorf("got %q, want %q", cur, tt.want)
			}
		})
	}
}

func TestMergeRelease(t *testing.T) {
	p := &Project{}
	MergeRelease(p, date(2022, 1, 1), "1.0.0")
	MergeRelease(p, date(2021, 1, 1), "0.9.0")
	MergeRelease(p, date(2023, 1, 1), "2.0.0")
	if p.LatestReleaseNumber != "2.0.0" || !p.LatestReleaseAt.Equal(date(2023, 1, 1)) {
		t.Errorf("release = %s at %v", p.LatestReleaseNumber, p.LatestReleaseAt)
	}
}

func TestDiffMonths(t *testing.T) {
	tests := []struct {
		a, b time.Time
		want int
	}{
		{date(2024, 3, 1), date(2024, 1, 31), 2},
		{date(2024, 1, 1), date(2023, 12, 31), 1},
		{date(2024, 6, 30), date(2024, 6, 1), 0},
		{date(2023, 1, 1), date(2024, 1, 1), -12},
	}
	for _, tt := range tests {
		if got := DiffMonths(tt.a, tt.b); got != tt.want {
			t.Errorf("DiffMonths(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
	if got := MonthsSince(date(2024, 1, 1), time.Time{}); got != -1 {
		t.Errorf("MonthsSince(zero) = %d, want -1", got)
	}
}

func TestLastActivity(t *testing.T) {
	p := &Project{UpdatedAt: date(2024, 1, 1)}
	if !p.LastActivity().Equal(date(2024, 1, 1)) {
		t.Errorf("LastActivity = %v", p.LastActivity())
	}
	p.LastCommitAt = date(2023, 6, 1)
	if !p.LastActivity().Equal(date(2023, 6, 1)) {
		t.Errorf("LastActivity should prefer last commit, got %v", p.LastActivity())
	}
}
