package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFetchWritesBody(t *testing.T) {
	body := "pretend this is a png"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(body))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "frame_000_image.png")
	got, err := NewDownloader().Fetch(context.Background(), srv.URL, dest)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if got != dest {
		t.Fatalf("Fetch returned %q; want %q", got, dest)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != body {
		t.Fatalf("downloaded content = %q; want %q", data, body)
	}
}

func TestFetchNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "out.bin")
	_, err := NewDownloader().Fetch(context.Background(), srv.URL, dest)
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Fatalf("error %q should mention status code", err)
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Fatalf("destination file should not exist after failed download")
	}
}

func TestFetchLeavesNoPartialFile(t *testing.T) {
	dir := t.TempDir()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("complete"))
	}))
	defer srv.Close()

	dest := filepath.Join(dir, "asset.mp4")
	if _, err := NewDownloader().Fetch(context.Background(), srv.URL, dest); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".download_") {
			t.Fatalf("temp file %s left behind", e.Name())
		}
	}
}
