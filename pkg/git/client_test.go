package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func TestParseRemote(t *testing.T) {
	tests := []struct {
		remote    string
		wantOwner string
		wantRepo  string
		wantErr   bool
	}{
		{"https://github.com/octo/quiz.git", "octo", "quiz", false},
		{"https://github.com/octo/quiz", "octo", "quiz", false},
		{"https://token@github.com/octo/quiz/", "octo", "quiz", false},
		{"git@github.com:octo/quiz.git", "octo", "quiz", false},
		{"ssh://git@github.com/octo/quiz.git", "octo", "quiz", false},
		{"ssh://git@ghe.example.com:2222/team/octo/quiz.git", "octo", "quiz", false},
		{"  git@github.com:octo/quiz\n", "octo", "quiz", false},
		{"https://github.com/quiz", "", "", true},
		{"quiz", "", "", true},
		{"git@github.com:", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.remote, func(t *testing.T) {
			owner, repo, err := ParseRemote(tt.remote)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRemote(%q) error = %v, wantErr %v", tt.remote, err, tt.wantErr)
			}
			if owner != tt.wantOwner || repo != tt.wantRepo {
				t.Errorf("ParseRemote(%q) = %q/%q, want %q/%q", tt.remote, owner, repo, tt.wantOwner, tt.wantRepo)
			}
		})
	}
}

func TestClient_Init(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	tmpDir := t.TempDir()
	client := NewClient(tmpDir, nil)

	if err := client.Init(context.Background()); err != nil {
		t.Fatalf("Failed to init: %v", err)
	}

	if _, err := os.Stat(filepath.Join(tmpDir, ".git")); os.IsNotExist(err) {
		t.Error(".git directory not created")
	}
}

func TestClient_Origin(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	ctx := context.Background()
	client := NewClient(t.TempDir(), nil)
	if err := client.Init(ctx); err != nil {
		t.Fatalf("Failed to init: %v", err)
	}

	if _, _, err := client.Origin(ctx); err == nil {
		t.Fatal("expected error without origin remote")
	}

	if _, err := client.Run(ctx, "remote", "add", "origin", "git@github.com:octo/quiz.git"); err != nil {
		t.Fatalf("remote add failed: %v", err)
	}

	owner, repo, err := client.Origin(ctx)
	if err != nil {
		t.Fatalf("Origin failed: %v", err)
	}
	if owner != "octo" || repo != "quiz" {
		t.Errorf("Origin = %s/%s, want octo/quiz", owner, repo)
	}
}
