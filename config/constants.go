package config

import "time"

// Frame Processing Constants
const (
	// MaxConcurrentFrames limits the number of storyboard frames rendered
	// simultaneously by the batch runner
	MaxConcurrentFrames = 3

	// DefaultSilentDuration is the still-image segment length in seconds
	// when a frame has neither audio nor a known duration
	DefaultSilentDuration = 5.0

	// DefaultFPS is used when a storyboard config does not set a frame rate
	DefaultFPS = 25
)

// Video Output Constants
const (
	// VideoCodec is the video encoding codec
	VideoCodec = "libx264"

	// AudioCodec is the audio encoding codec
	AudioCodec = "aac"

	// AudioBitrate is the audio quality bitrate
	AudioBitrate = "192k"

	// VideoPreset is the ffmpeg encoding speed preset
	VideoPreset = "fast"

	// PixelFormat keeps still-image segments playable everywhere
	PixelFormat = "yuv420p"
)

// Directory Constants
const (
	// InputDir is the directory containing storyboard JSON files in batch mode
	InputDir = "input"

	// OutputDir is the default root for per-task artifacts
	OutputDir = "output"
)

// Janitor Constants
const (
	// TaskRetention is how long finished task output dirs are kept
	TaskRetention = 24 * time.Hour

	// JanitorSchedule is the cron spec for the cleanup job
	JanitorSchedule = "@hourly"
)

// YouTube Constants
const (
	// YouTubeCategoryID for Film & Animation
	YouTubeCategoryID = "1"

	// YouTubePrivacyStatus sets video visibility
	YouTubePrivacyStatus = "public"
)
