package storage

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"storyreel/config"
	"storyreel/types"
)

// VideoMetadata describes a video listing on the publish target.
type VideoMetadata struct {
	Title       string
	Description string
	Tags        []string
	CategoryID  string
}

// Publisher uploads finished storyboard videos to YouTube.
type Publisher struct {
	service *youtube.Service
}

// NewPublisher builds a Publisher from a service account credentials file.
func NewPublisher(serviceAccountFile string) (*Publisher, error) {
	ctx := context.Background()

	data, err := os.ReadFile(serviceAccountFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read service account file: %w", err)
	}

	jwtCfg, err := google.JWTConfigFromJSON(data, youtube.YoutubeUploadScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse service account: %w", err)
	}

	client := jwtCfg.Client(ctx)

	service, err := youtube.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create YouTube service: %w", err)
	}

	return &Publisher{service: service}, nil
}

// PublisherFromEnv returns a Publisher when YOUTUBE_SERVICE_ACCOUNT points
// at a credentials file, nil otherwise.
func PublisherFromEnv() *Publisher {
	credFile := strings.TrimSpace(os.Getenv("YOUTUBE_SERVICE_ACCOUNT"))
	if credFile == "" {
		return nil
	}
	pub, err := NewPublisher(credFile)
	if err != nil {
		log.Printf("Warning: YouTube publisher not initialized: %v (publishing disabled)", err)
		return nil
	}
	log.Println("YouTube client initialized")
	return pub
}

// Publish uploads the video and returns its ID.
func (p *Publisher) Publish(videoPath string, metadata VideoMetadata) (string, error) {
	file, err := os.Open(videoPath)
	if err != nil {
		return "", fmt.Errorf("failed to open video file: %w", err)
	}
	defer file.Close()

	fileInfo, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat video file: %w", err)
	}

	log.Printf("Uploading: %s (%.2f MB)", videoPath, float64(fileInfo.Size())/(1024*1024))

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       metadata.Title,
			Description: metadata.Description,
			Tags:        metadata.Tags,
			CategoryId:  metadata.CategoryID,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           config.YouTubePrivacyStatus,
			SelfDeclaredMadeForKids: false,
		},
	}

	call := p.service.Videos.Insert([]string{"snippet", "status"}, video)
	call = call.Media(file)

	response, err := call.Do()
	if err != nil {
		return "", fmt.Errorf("failed to upload video: %w", err)
	}

	log.Printf("Uploaded! https://youtube.com/watch?v=%s", response.Id)
	return response.Id, nil
}

// BuildMetadata derives listing metadata from the job, falling back to the
// storyboard title and first narration line.
func BuildMetadata(job *types.RenderJob) VideoMetadata {
	title := ""
	description := ""
	var tags []string

	if job.Publish != nil {
		title = job.Publish.Title
		description = job.Publish.Description
		tags = job.Publish.Tags
	}

	if title == "" {
		title = job.Storyboard.Title
	}
	if title == "" && len(job.Storyboard.Frames) > 0 {
		title = job.Storyboard.Frames[0].Narration
	}
	if len(title) > 100 {
		title = title[:97] + "..."
	}

	if description == "" {
		description = job.Storyboard.Title
	}

	return VideoMetadata{
		Title:       title,
		Description: description,
		Tags:        tags,
		CategoryID:  config.YouTubeCategoryID,
	}
}
