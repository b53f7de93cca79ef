//go:build integration

package github

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/matzehuels/codemeta/pkg/cache"
)

func TestFetchRepository_Integration(t *testing.T) {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		t.Skip("GITHUB_TOKEN not set, skipping integration test")
	}

	client := NewClient(cache.NewNullCache(), token, time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tests := []struct {
		name    string
		owner   string
		repo    string
		wantErr bool
	}{
		{"golang/go", "golang", "go", false},
		{"nonexistent", "nonexistent-owner-12345", "nonexistent-repo", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, err := client.FetchRepository(ctx, tt.owner, tt.repo, false)
			if (err != nil) != tt.wantErr {
				t.Errorf("FetchRepository(%q, %q) error = %v, wantErr %v", tt.owner, tt.repo, err, tt.wantErr)
				return
			}
			if !tt.wantErr && repo.URL == "" {
				t.Error("URL should not be empty")
			}
		})
	}
}
