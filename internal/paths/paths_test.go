package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCanonicalize(t *testing.T) {
	tempDir := t.TempDir()

	testFile := filepath.Join(tempDir, "app", "Models", "User.php")
	if err := os.MkdirAll(filepath.Dir(testFile), 0755); err != nil {
		t.Fatalf("Failed to create subdir: %v", err)
	}
	if err := os.WriteFile(testFile, []byte("<?php"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	canonical, err := Canonicalize(testFile, tempDir)
	if err != nil {
		t.Fatalf("Canonicalize failed: %v", err)
	}

	expected := "app/Models/User.php"
	if canonical != expected {
		t.Errorf("Expected %s, got %s", expected, canonical)
	}
}

func TestCanonicalizeMissingFile(t *testing.T) {
	tempDir := t.TempDir()

	// Paths that don't exist yet should still canonicalize.
	canonical, err := Canonicalize(filepath.Join(tempDir, "app", "new.php"), tempDir)
	if err != nil {
		t.Fatalf("Canonicalize failed: %v", err)
	}
	if canonical != "app/new.php" {
		t.Errorf("Expected app/new.php, got %s", canonical)
	}
}

func TestIsWithinProject(t *testing.T) {
	tempDir := t.TempDir()

	testFile := filepath.Join(tempDir, "routes", "web.php")
	if err := os.MkdirAll(filepath.Dir(testFile), 0755); err != nil {
		t.Fatalf("Failed to create subdir: %v", err)
	}
	if err := os.WriteFile(testFile, []byte("<?php"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	if !IsWithinProject(testFile, tempDir) {
		t.Error("Expected file to be within project")
	}

	outsideFile := filepath.Join(os.TempDir(), "outside.php")
	if IsWithinProject(outsideFile, tempDir) {
		t.Error("Expected file outside project to return false")
	}
}

func TestNormalize(t *testing.T) {
	result := Normalize("app/Http/Controllers/UserController.php")
	expected := "app/Http/Controllers/UserController.php"
	if result != expected {
		t.Errorf("Normalize: expected %s, got %s", expected, result)
	}
}

func TestJoinProject(t *testing.T) {
	result := JoinProject("/project/root", "app/Models/User.php")
	expected := filepath.Join("/project/root", "app", "Models", "User.php")
	if result != expected {
		t.Errorf("JoinProject: expected %s, got %s", expected, result)
	}
}

func TestBaseName(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"app/Http/Controllers/UserController.php", "UserController"},
		{"resources/views/user.blade.php", "user"},
		{"User.php", "User"},
		{"tests/Feature/UserTest.php", "UserTest"},
		{"config/app.php", "app"},
		{"Makefile", "Makefile"},
	}

	for _, tt := range tests {
		got := BaseName(tt.path)
		if got != tt.expected {
			t.Errorf("BaseName(%q) = %q, want %q", tt.path, got, tt.expected)
		}
	}
}
