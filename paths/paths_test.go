package paths

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestFramePath(t *testing.T) {
	t.Setenv("OUTPUT_DIR", t.TempDir())

	cases := []struct {
		name    string
		index   int
		kind    string
		wantEnd string
		wantErr bool
	}{
		{"audio", 0, KindAudio, "frame_000_audio.mp3", false},
		{"image", 3, KindImage, "frame_003_image.png", false},
		{"video", 12, KindVideo, "frame_012_video.mp4", false},
		{"composed", 7, KindComposed, "frame_007_composed.png", false},
		{"segment", 99, KindSegment, "frame_099_segment.mp4", false},
		{"unknown kind", 0, "thumbnail", "", true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p, err := FramePath("task-1", c.index, c.kind)
			if c.wantErr {
				if err == nil {
					t.Fatalf("FramePath(%q) expected error, got %q", c.kind, p)
				}
				return
			}
			if err != nil {
				t.Fatalf("FramePath error: %v", err)
			}
			if filepath.Base(p) != c.wantEnd {
				t.Fatalf("FramePath = %q; want basename %q", p, c.wantEnd)
			}
			if !strings.Contains(p, "task-1") {
				t.Fatalf("FramePath = %q; expected task id in path", p)
			}
		})
	}
}

func TestFramePathDeterministic(t *testing.T) {
	t.Setenv("OUTPUT_DIR", t.TempDir())

	a, err := FramePath("t", 1, KindAudio)
	if err != nil {
		t.Fatal(err)
	}
	b, err := FramePath("t", 1, KindAudio)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Fatalf("paths not deterministic: %q vs %q", a, b)
	}

	other, err := FramePath("t", 2, KindAudio)
	if err != nil {
		t.Fatal(err)
	}
	if other == a {
		t.Fatalf("distinct frames share path %q", a)
	}
}
