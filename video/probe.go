package video

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// probeFn is swappable in tests so probing logic can be exercised without
// an ffprobe binary.
var probeFn = func(path string) (string, error) {
	return ffmpeg.Probe(path)
}

type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	} `json:"streams"`
}

// ProbeDuration returns the playable duration of a media file in seconds.
// It never fails: when the container cannot be probed, audio falls back to
// a size-based estimate (~2KB per second, at least 1s) and video to a flat
// 1 second so processing can continue with a usable approximation.
func ProbeDuration(path string, mediaKind string) float64 {
	if out, err := probeFn(path); err == nil {
		var p probeOutput
		if err := json.Unmarshal([]byte(out), &p); err == nil {
			if d, err := strconv.ParseFloat(p.Format.Duration, 64); err == nil && d > 0 {
				return d
			}
		}
	}

	log.Printf("Failed to probe duration of %s, using estimate", path)

	if mediaKind == "audio" {
		if info, err := os.Stat(path); err == nil {
			estimated := float64(info.Size()) / 2000
			if estimated < 1.0 {
				return 1.0
			}
			return estimated
		}
	}
	return 1.0
}

// probeDimensions returns the pixel size of the first stream that has one.
func probeDimensions(path string) (int, int, error) {
	out, err := probeFn(path)
	if err != nil {
		return 0, 0, fmt.Errorf("probe %s: %w", path, err)
	}
	var p probeOutput
	if err := json.Unmarshal([]byte(out), &p); err != nil {
		return 0, 0, fmt.Errorf("parse probe output: %w", err)
	}
	for _, s := range p.Streams {
		if s.Width > 0 && s.Height > 0 {
			return s.Width, s.Height, nil
		}
	}
	return 0, 0, fmt.Errorf("no sized stream in %s", path)
}
