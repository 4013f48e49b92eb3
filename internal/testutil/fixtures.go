package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"copyd/internal/models"
)

// CreateTestJob creates a running test job with default values
func CreateTestJob(overrides ...func(*models.Job)) *models.Job {
	job := models.NewJob("test-job", "/source/path", "/destination/path")

	for _, override := range overrides {
		override(job)
	}

	return job
}

// WriteTestFile writes size bytes of patterned content under dir and returns its path.
func WriteTestFile(t *testing.T, dir, name string, size int) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", name, err)
	}

	data := make([]byte, size)
	for i := range data {
		data[i] = byte('a' + i%26)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write test file %s: %v", name, err)
	}
	return path
}

// WriteTestTree creates a small directory tree under dir/name and returns its root.
func WriteTestTree(t *testing.T, dir, name string) string {
	t.Helper()

	root := filepath.Join(dir, name)
	WriteTestFile(t, root, "a.txt", 100)
	WriteTestFile(t, root, "nested/b.txt", 2500)
	WriteTestFile(t, root, "nested/deeper/c.txt", 4000)
	if err := os.MkdirAll(filepath.Join(root, "empty"), 0755); err != nil {
		t.Fatalf("failed to create empty dir: %v", err)
	}
	return root
}
