package video

import (
	"strings"
	"testing"
)

func TestOverlayGraphKeepsSourceAudio(t *testing.T) {
	args := strings.Join(overlayGraph("in.mp4", "overlay.png", "out.mp4", "contain", 720, 1280).GetArgs(), " ")

	// The source's audio must be mapped optionally so a video frame that
	// carries native audio keeps it through compositing, while a silent
	// source still encodes.
	if !strings.Contains(args, "0:a?") {
		t.Errorf("source audio not mapped: %s", args)
	}
	if !strings.Contains(args, "-c:a copy") {
		t.Errorf("audio not copied through: %s", args)
	}
}

func TestOverlayGraphScaleModes(t *testing.T) {
	cases := []struct {
		mode       string
		wantFilter string
	}{
		{"contain", "pad=720:1280"},
		{"cover", "crop=720:1280"},
	}

	for _, c := range cases {
		t.Run(c.mode, func(t *testing.T) {
			args := strings.Join(overlayGraph("in.mp4", "overlay.png", "out.mp4", c.mode, 720, 1280).GetArgs(), " ")
			if !strings.Contains(args, c.wantFilter) {
				t.Errorf("mode %q missing %q in: %s", c.mode, c.wantFilter, args)
			}
		})
	}
}
