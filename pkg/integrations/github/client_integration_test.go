//go:build integration

package github

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/matzehuels/bestof/pkg/cache"
	"github.com/matzehuels/bestof/pkg/integrations"
)

func TestFetch_Integration(t *testing.T) {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		t.Skip("GITHUB_TOKEN not set, skipping integration test")
	}

	client := NewClient(cache.NewNullCache(), token, time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	info, err := client.Fetch(ctx, "golang", "go", true)
	if err != nil {
		t.Fatalf("Fetch(golang/go) error: %v", err)
	}
	if info.Stars == 0 || info.CreatedAt.IsZero() {
		t.Errorf("unexpected repo info: %+v", info)
	}

	_, err = client.Fetch(ctx, "nonexistent-owner-12345", "nonexistent-repo", true)
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("missing repo err = %v, want ErrNotFound", err)
	}
}
