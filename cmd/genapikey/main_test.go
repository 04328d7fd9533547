package main

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
)

func TestRun_AppendsKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "front.env")
	if err := os.WriteFile(path, []byte("PORT=3000"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := run(path, 32); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !regexp.MustCompile(`^PORT=3000\nAPI_KEY=[a-zA-Z0-9]{32}\n$`).Match(b) {
		t.Errorf("env file = %q", b)
	}
}

func TestRun_RejectsShortKeys(t *testing.T) {
	if err := run(filepath.Join(t.TempDir(), "x.env"), 8); err == nil {
		t.Error("expected an error")
	}
}
