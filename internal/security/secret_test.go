package security

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSecret_Inline(t *testing.T) {
	got, err := LoadSecret("  my-inline-secret  ")
	if err != nil {
		t.Fatalf("LoadSecret: %v", err)
	}
	if string(got) != "my-inline-secret" {
		t.Errorf("got %q", got)
	}
}

func TestLoadSecret_Empty(t *testing.T) {
	if _, err := LoadSecret("   "); err != ErrMissingSecret {
		t.Errorf("want ErrMissingSecret, got %v", err)
	}
}

func TestLoadSecret_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secret")
	if err := os.WriteFile(path, []byte("file-secret\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	got, err := LoadSecret("file:" + path)
	if err != nil {
		t.Fatalf("LoadSecret: %v", err)
	}
	if string(got) != "file-secret" {
		t.Errorf("got %q", got)
	}
}

func TestLoadSecret_FileMissing(t *testing.T) {
	if _, err := LoadSecret("file:/nonexistent/secret"); err == nil {
		t.Error("want error for missing file")
	}
}
