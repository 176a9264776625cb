package composer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestRender(t *testing.T) {
	var received RenderRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/compose" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Write([]byte("png-bytes"))
	}))
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "frame_001_composed.png")
	path, err := NewClient(srv.URL).Render(context.Background(), RenderRequest{
		Template:   "vertical_subtitle",
		Title:      "A Tale",
		Text:       "Once upon a time",
		Media:      "/tmp/frame_001_image.png",
		Ext:        map[string]string{"index": "2", "accent": "gold"},
		OutputPath: out,
	})
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if path != out {
		t.Fatalf("Render returned %q; want %q", path, out)
	}

	if received.Template != "vertical_subtitle" || received.Ext["accent"] != "gold" {
		t.Fatalf("renderer saw wrong request: %+v", received)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "png-bytes" {
		t.Fatalf("composed file content = %q", data)
	}
}

func TestRenderServiceFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "template missing", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Render(context.Background(), RenderRequest{
		Template:   "missing",
		OutputPath: filepath.Join(t.TempDir(), "x.png"),
	})
	if err == nil {
		t.Fatal("expected error from failing renderer")
	}
}
