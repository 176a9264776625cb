package video

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"storyreel/config"
)

// Service wraps the ffmpeg muxing primitives used by segment assembly.
// All methods shell out to ffmpeg and block until it finishes.
type Service struct{}

// NewService returns a ready Service.
func NewService() *Service {
	return &Service{}
}

// OverlayImageOnVideo composites a (usually transparent) overlay image onto
// a video. The video is scaled to fit the overlay's canvas: "contain" pads
// to preserve aspect, "cover" crops. The overlay defines the output size so
// template canvases always line up with their rendered elements. The
// source's audio track, when it has one, is carried through unchanged.
func (s *Service) OverlayImageOnVideo(videoPath, overlayImage, output, scaleMode string) (string, error) {
	w, h, err := probeDimensions(overlayImage)
	if err != nil {
		return "", fmt.Errorf("overlay dimensions: %w", err)
	}
	if err := overlayGraph(videoPath, overlayImage, output, scaleMode, w, h).Run(); err != nil {
		return "", fmt.Errorf("ffmpeg overlay failed: %w", err)
	}
	return output, nil
}

// overlayGraph builds the filter graph for OverlayImageOnVideo. The source
// audio is mapped optionally (0:a?) so a silent source still encodes, and
// copied rather than re-encoded.
func overlayGraph(videoPath, overlayImage, output, scaleMode string, w, h int) *ffmpeg.Stream {
	base := ffmpeg.Input(videoPath)
	overlay := ffmpeg.Input(overlayImage)

	var scaled *ffmpeg.Stream
	if scaleMode == "cover" {
		scaled = base.Video().
			Filter("scale", ffmpeg.Args{fmt.Sprintf("%d:%d:force_original_aspect_ratio=increase", w, h)}).
			Filter("crop", ffmpeg.Args{fmt.Sprintf("%d:%d", w, h)})
	} else {
		// contain: scale down to fit, pad to the overlay canvas
		scaled = base.Video().
			Filter("scale", ffmpeg.Args{fmt.Sprintf("%d:%d:force_original_aspect_ratio=decrease", w, h)}).
			Filter("pad", ffmpeg.Args{fmt.Sprintf("%d:%d:(ow-iw)/2:(oh-ih)/2", w, h)})
	}

	composited := ffmpeg.Filter([]*ffmpeg.Stream{scaled, overlay}, "overlay", ffmpeg.Args{"0:0"})

	return ffmpeg.Output([]*ffmpeg.Stream{composited, base.Get("a?")}, output, ffmpeg.KwArgs{
		"c:v":     config.VideoCodec,
		"c:a":     "copy",
		"preset":  config.VideoPreset,
		"pix_fmt": config.PixelFormat,
	}).OverWriteOutput()
}

// MergeAudioVideo muxes an audio track into a video. With replaceAudio the
// video's native audio is dropped and the new track used outright; without
// it the two are mixed. audioVolume scales the new track (1.0 = unchanged).
func (s *Service) MergeAudioVideo(videoPath, audioPath, output string, replaceAudio bool, audioVolume float64) (string, error) {
	base := ffmpeg.Input(videoPath)
	narration := ffmpeg.Input(audioPath).Audio()

	if audioVolume != 1.0 {
		narration = narration.Filter("volume", ffmpeg.Args{fmt.Sprintf("%.2f", audioVolume)})
	}

	var audioOut *ffmpeg.Stream
	if replaceAudio {
		audioOut = narration
	} else {
		audioOut = ffmpeg.Filter([]*ffmpeg.Stream{base.Audio(), narration}, "amix", ffmpeg.Args{"inputs=2"})
	}

	err := ffmpeg.Output([]*ffmpeg.Stream{base.Video(), audioOut}, output, ffmpeg.KwArgs{
		"c:v":      "copy",
		"c:a":      config.AudioCodec,
		"b:a":      config.AudioBitrate,
		"shortest": "",
	}).OverWriteOutput().Run()
	if err != nil {
		return "", fmt.Errorf("ffmpeg mux failed: %w", err)
	}
	return output, nil
}

// CreateVideoFromImage synthesizes a video segment from a still image.
// With audio the segment ends when the audio does; without audio the
// duration argument decides the length. fps <= 0 falls back to the default.
func (s *Service) CreateVideoFromImage(imagePath, audioPath, output string, fps int, duration float64) (string, error) {
	if fps <= 0 {
		fps = config.DefaultFPS
	}

	img := ffmpeg.Input(imagePath, ffmpeg.KwArgs{"loop": 1, "framerate": fps}).
		Filter("scale", ffmpeg.Args{"trunc(iw/2)*2:trunc(ih/2)*2"}) // libx264 needs even dimensions

	outArgs := ffmpeg.KwArgs{
		"c:v":     config.VideoCodec,
		"preset":  config.VideoPreset,
		"pix_fmt": config.PixelFormat,
		"r":       fps,
	}

	var err error
	if audioPath != "" {
		audio := ffmpeg.Input(audioPath).Audio()
		outArgs["c:a"] = config.AudioCodec
		outArgs["b:a"] = config.AudioBitrate
		outArgs["shortest"] = ""
		err = ffmpeg.Output([]*ffmpeg.Stream{img, audio}, output, outArgs).OverWriteOutput().Run()
	} else {
		outArgs["t"] = fmt.Sprintf("%.2f", duration)
		err = ffmpeg.Output([]*ffmpeg.Stream{img}, output, outArgs).OverWriteOutput().Run()
	}
	if err != nil {
		return "", fmt.Errorf("ffmpeg image-to-video failed: %w", err)
	}
	return output, nil
}

// ConcatSegments joins segment files in order into one video without
// re-encoding. Segments are expected to share codec settings, which holds
// for segments produced by this service.
func (s *Service) ConcatSegments(segments []string, output string) (string, error) {
	if len(segments) == 0 {
		return "", fmt.Errorf("no segments to concatenate")
	}

	listFile, err := os.CreateTemp("", "concat_*.txt")
	if err != nil {
		return "", fmt.Errorf("create concat list: %w", err)
	}
	defer os.Remove(listFile.Name())

	for _, seg := range segments {
		abs, err := filepath.Abs(seg)
		if err != nil {
			abs = seg
		}
		fmt.Fprintf(listFile, "file '%s'\n", strings.ReplaceAll(abs, "'", `'\''`))
	}
	if err := listFile.Close(); err != nil {
		return "", fmt.Errorf("close concat list: %w", err)
	}

	err = ffmpeg.Input(listFile.Name(), ffmpeg.KwArgs{"f": "concat", "safe": "0"}).
		Output(output, ffmpeg.KwArgs{"c": "copy"}).
		OverWriteOutput().
		Run()
	if err != nil {
		return "", fmt.Errorf("ffmpeg concat failed: %w", err)
	}
	return output, nil
}

// CopyFile copies src to dst byte for byte. Used when a segment is the
// source video passed through unchanged.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
