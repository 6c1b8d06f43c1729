package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/xvierd/taskpulse/internal/ports"
)

// initRepo creates a repository with one commit and returns its path
// and the commit hash.
func initRepo(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("Failed to init git repo: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("focus"), 0o644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Failed to get worktree: %v", err)
	}
	if _, err := worktree.Add("notes.txt"); err != nil {
		t.Fatalf("Failed to add file: %v", err)
	}
	commit, err := worktree.Commit("Initial commit", &git.CommitOptions{
		Author: &object.Signature{Name: "Test User", Email: "test@example.com"},
	})
	if err != nil {
		t.Fatalf("Failed to create commit: %v", err)
	}

	if _, err := repo.CreateRemote(&config.RemoteConfig{
		Name: "origin",
		URLs: []string{"git@github.com:someone/focus-notes.git"},
	}); err != nil {
		t.Fatalf("Failed to add remote: %v", err)
	}

	return dir, commit.String()
}

func TestDetector_Detect(t *testing.T) {
	dir, commit := initRepo(t)

	info, err := NewDetector().Detect(context.Background(), dir)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}

	if info.Commit != commit {
		t.Errorf("Commit = %s, want %s", info.Commit, commit)
	}
	// go-git defaults to master.
	if info.Branch != "master" && info.Branch != "main" {
		t.Errorf("Unexpected branch: %s", info.Branch)
	}
	if info.Repository != "someone/focus-notes" {
		t.Errorf("Repository = %q", info.Repository)
	}
}

func TestDetector_Detect_FromSubdirectory(t *testing.T) {
	dir, commit := initRepo(t)
	sub := filepath.Join(dir, "level1", "level2")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("Failed to create subdir: %v", err)
	}

	info, err := NewDetector().Detect(context.Background(), sub)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if info.Commit != commit {
		t.Errorf("Commit = %s, want %s", info.Commit, commit)
	}
}

func TestDetector_Detect_NoGitRepo(t *testing.T) {
	_, err := NewDetector().Detect(context.Background(), t.TempDir())
	if err == nil {
		t.Error("Expected error when no git repo exists")
	}
}

func TestSessionTitle(t *testing.T) {
	tests := []struct {
		name string
		info *ports.GitInfo
		want string
	}{
		{"nil", nil, ""},
		{"detached", &ports.GitInfo{Commit: "abc"}, ""},
		{"branch only", &ports.GitInfo{Branch: "feature/login"}, "feature/login"},
		{"with repo", &ports.GitInfo{Branch: "main", Repository: "user/repo"}, "user/repo@main"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SessionTitle(tt.info); got != tt.want {
				t.Errorf("SessionTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractRepoName(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"git@github.com:user/repo.git", "user/repo"},
		{"https://github.com/user/repo.git", "user/repo"},
		{"https://gitlab.com/org/project", "org/project"},
		{"/path/to/repo", "/path/to/repo"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if result := extractRepoName(tt.url); result != tt.expected {
				t.Errorf("extractRepoName(%q) = %q, want %q", tt.url, result, tt.expected)
			}
		})
	}
}

func TestShortCommit(t *testing.T) {
	tests := []struct {
		commit   string
		expected string
	}{
		{"abcdef1234567890abcdef1234567890abcdef12", "abcdef1"},
		{"short", "short"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.commit, func(t *testing.T) {
			if result := ShortCommit(tt.commit); result != tt.expected {
				t.Errorf("ShortCommit(%q) = %q, want %q", tt.commit, result, tt.expected)
			}
		})
	}
}
