package integrations

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/bestof/pkg/cache"
	bferrors "github.com/matzehuels/bestof/pkg/errors"
	"github.com/matzehuels/bestof/pkg/httputil"
)

func newTestClient(t *testing.T, headers map[string]string) (*Client, *cache.FileCache) {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { c.Close() })
	return NewClient(c, "test:", time.Hour, headers), c
}

func TestNewClient(t *testing.T) {
	client, c := newTestClient(t, map[string]string{"Authorization": "Bearer token"})
	if client.http == nil {
		t.Error("http client is nil")
	}
	if client.cache != cache.Cache(c) {
		t.Error("cache not set")
	}
	if client.headers["Authorization"] != "Bearer token" {
		t.Error("headers not set")
	}

	if NewClient(nil, "x:", time.Hour, nil).cache == nil {
		t.Error("nil backend must fall back to a null cache")
	}
}

func TestClientGet(t *testing.T) {
	var agent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent = r.Header.Get("User-Agent")
		json.NewEncoder(w).Encode(map[string]string{"message": "hello"})
	}))
	defer server.Close()

	client, _ := newTestClient(t, nil)
	var resp struct{ Message string }
	if err := client.Get(context.Background(), server.URL, &resp); err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if resp.Message != "hello" {
		t.Errorf("message = %q", resp.Message)
	}
	if !strings.HasPrefix(agent, "bestof/") {
		t.Errorf("User-Agent = %q", agent)
	}
}

func TestClientGetWithHeadersOverridesDefaults(t *testing.T) {
	var got, custom string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("X-Override")
		custom = r.Header.Get("X-Custom")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client, _ := newTestClient(t, map[string]string{"X-Override": "default"})
	var resp map[string]string
	err := client.GetWithHeaders(context.Background(), server.URL,
		map[string]string{"X-Override": "overridden", "X-Custom": "custom"}, &resp)
	if err != nil {
		t.Fatalf("GetWithHeaders() error: %v", err)
	}
	if got != "overridden" || custom != "custom" {
		t.Errorf("headers = %q, %q", got, custom)
	}
}

func TestClientGetTextAndHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Link", `<https://api.example.com?page=7>; rel="last"`)
		w.Write([]byte("plain text response"))
	}))
	defer server.Close()

	client, _ := newTestClient(t, nil)
	text, err := client.GetText(context.Background(), server.URL)
	if err != nil || text != "plain text response" {
		t.Errorf("GetText() = %q, %v", text, err)
	}
	h, err := client.GetHeader(context.Background(), server.URL, nil)
	if err != nil || !strings.Contains(h.Get("Link"), "page=7") {
		t.Errorf("GetHeader() = %v, %v", h, err)
	}
}

func TestClientStatusErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{"404", http.StatusNotFound, func(err error) bool { return errors.Is(err, ErrNotFound) }},
		{"500", http.StatusInternalServerError, func(err error) bool {
			var re *httputil.RetryableError
			return errors.As(err, &re) && errors.Is(err, ErrNetwork)
		}},
		{"429", http.StatusTooManyRequests, func(err error) bool {
			var rl *bferrors.RateLimitedError
			return errors.As(err, &rl) && rl.RetryAfter == 3
		}},
		{"403", http.StatusForbidden, func(err error) bool {
			var re *httputil.RetryableError
			return errors.Is(err, ErrNetwork) && !errors.As(err, &re)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Retry-After", "3")
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client, _ := newTestClient(t, nil)
			var resp map[string]string
			err := client.Get(context.Background(), server.URL, &resp)
			if err == nil || !tt.check(err) {
				t.Errorf("Get() error = %v (%T)", err, err)
			}
		})
	}
}

func TestClientCached(t *testing.T) {
	client, _ := newTestClient(t, nil)

	type payload struct {
		Value string `json:"value"`
	}
	fetches := 0
	fetch := func(v *payload) func() error {
		return func() error {
			fetches++
			v.Value = "fetched"
			return nil
		}
	}

	var first payload
	if err := client.Cached(context.Background(), "key", false, &first, fetch(&first)); err != nil {
		t.Fatalf("Cached() error: %v", err)
	}
	var second payload
	if err := client.Cached(context.Background(), "key", false, &second, fetch(&second)); err != nil {
		t.Fatalf("Cached() error: %v", err)
	}
	if fetches != 1 || second.Value != "fetched" {
		t.Errorf("fetches = %d, second = %+v; want a cache hit", fetches, second)
	}

	var third payload
	if err := client.Cached(context.Background(), "key", true, &third, fetch(&third)); err != nil {
		t.Fatalf("Cached() error: %v", err)
	}
	if fetches != 2 {
		t.Errorf("refresh must bypass the cache, fetches = %d", fetches)
	}
}

func TestClientCachedFetchError(t *testing.T) {
	client, c := newTestClient(t, nil)

	fetches := 0
	var v string
	err := client.Cached(context.Background(), "missing", false, &v, func() error {
		fetches++
		return ErrNotFound
	})
	if !errors.Is(err, ErrNotFound) || fetches != 1 {
		t.Errorf("err = %v, fetches = %d", err, fetches)
	}
	if _, ok, _ := c.Get(context.Background(), "test:missing"); ok {
		t.Error("failed fetches must not be cached")
	}
}

func TestCheckStatus(t *testing.T) {
	if err := checkStatus("x", http.StatusOK, nil); err != nil {
		t.Errorf("200: %v", err)
	}
	for _, code := range []int{500, 502, 503} {
		var re *httputil.RetryableError
		if err := checkStatus("x", code, nil); !errors.As(err, &re) {
			t.Errorf("%d: want RetryableError, got %v", code, err)
		}
	}
	err := checkStatus("pypistats.org", http.StatusTooManyRequests, http.Header{})
	if !bferrors.Is(err, bferrors.ErrCodeRateLimited) {
		t.Errorf("429: %v", err)
	}
}

func TestNormalizePkgName(t *testing.T) {
	tests := map[string]string{
		"Package":      "package",
		"my_package":   "my-package",
		"  package  ":  "package",
		"  My_Package ": "my-package",
		"":             "",
	}
	for in, want := range tests {
		if got := NormalizePkgName(in); got != want {
			t.Errorf("NormalizePkgName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeRepoURL(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"https://github.com/user/repo", "https://github.com/user/repo"},
		{"https://github.com/user/repo.git", "https://github.com/user/repo"},
		{"git@github.com:user/repo", "https://github.com/user/repo"},
		{"git://github.com/user/repo", "https://github.com/user/repo"},
		{"git+https://github.com/user/repo", "https://github.com/user/repo"},
		{"git+git@github.com:user/repo.git", "https://github.com/user/repo"},
		{"git@gitlab.com:group/repo.git", "https://gitlab.com/group/repo"},
	}
	for _, tt := range tests {
		if got := NormalizeRepoURL(tt.input); got != tt.want {
			t.Errorf("NormalizeRepoURL(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestGitHubIDFromURL(t *testing.T) {
	tests := map[string]string{
		"https://github.com/pallets/flask":         "pallets/flask",
		"git+https://github.com/pallets/flask.git": "pallets/flask",
		"https://github.com/pallets/flask/tree/x":  "pallets/flask",
		"https://github.com/sponsors/pallets":      "",
		"https://gitlab.com/pallets/flask":         "",
		"":                                         "",
	}
	for in, want := range tests {
		if got := GitHubIDFromURL(in); got != want {
			t.Errorf("GitHubIDFromURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-03-05T10:20:30Z", time.Date(2024, 3, 5, 10, 20, 30, 0, time.UTC)},
		{"2024-03-05T12:20:30+02:00", time.Date(2024, 3, 5, 10, 20, 30, 0, time.UTC)},
		{"2024-03-05T10:20:30.123456Z", time.Date(2024, 3, 5, 10, 20, 30, 123456000, time.UTC)},
		{"2024-03-05", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"garbage", time.Time{}},
		{"", time.Time{}},
	}
	for _, tt := range tests {
		if got := ParseTime(tt.in); !got.Equal(tt.want) {
			t.Errorf("ParseTime(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestURLEncode(t *testing.T) {
	if got := URLEncode("path/to resource"); got != "path%2Fto+resource" {
		t.Errorf("URLEncode() = %q", got)
	}
}

func TestNewHTTPClient(t *testing.T) {
	if NewHTTPClient().Timeout != httpTimeout {
		t.Error("timeout not applied")
	}
}
