package comfy

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"storyreel/types"
)

func TestSynthesizeWritesAudio(t *testing.T) {
	var received TTSRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tts" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte("mp3-bytes"))
	}))
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "frame_000_audio.mp3")
	path, err := NewClient(srv.URL).Synthesize(context.Background(), TTSRequest{
		Text:       "Hello world",
		Mode:       types.TTSModeLocal,
		Voice:      "alloy",
		Speed:      1.2,
		Index:      1,
		OutputPath: out,
	})
	if err != nil {
		t.Fatalf("Synthesize error: %v", err)
	}
	if path != out {
		t.Fatalf("Synthesize returned %q; want %q", path, out)
	}

	if received.Text != "Hello world" || received.Mode != "local" || received.Voice != "alloy" {
		t.Fatalf("service saw wrong request: %+v", received)
	}
	if received.Index != 1 {
		t.Fatalf("index should be 1-based, got %d", received.Index)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "mp3-bytes" {
		t.Fatalf("audio file content = %q", data)
	}
}

func TestSynthesizeEmptyAudio(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Synthesize(context.Background(), TTSRequest{
		Text:       "x",
		Mode:       types.TTSModeLocal,
		OutputPath: filepath.Join(t.TempDir(), "a.mp3"),
	})
	if err == nil {
		t.Fatal("expected error for empty audio response")
	}
}

func TestGenerateMedia(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req MediaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		if req.Duration != 8.2 {
			t.Errorf("duration = %v; want 8.2", req.Duration)
		}
		json.NewEncoder(w).Encode(types.MediaGenerationResult{
			MediaType: types.MediaTypeVideo,
			URL:       "http://cdn.example/clip.mp4",
			Duration:  8.5,
		})
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL).GenerateMedia(context.Background(), MediaRequest{
		Prompt:    "a calm ocean at dusk",
		Workflow:  "selfhost/video_wan.json",
		MediaType: types.MediaTypeVideo,
		Width:     720,
		Height:    1280,
		Index:     2,
		Duration:  8.2,
	})
	if err != nil {
		t.Fatalf("GenerateMedia error: %v", err)
	}
	if !res.IsVideo() || res.URL == "" || res.Duration != 8.5 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestGenerateMediaServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "workflow not found", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).GenerateMedia(context.Background(), MediaRequest{
		Prompt:    "x",
		MediaType: types.MediaTypeImage,
	})
	if err == nil {
		t.Fatal("expected error from failing service")
	}
}
