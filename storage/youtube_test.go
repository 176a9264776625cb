package storage

import (
	"strings"
	"testing"

	"storyreel/config"
	"storyreel/types"
)

func TestBuildMetadata(t *testing.T) {
	tests := []struct {
		name      string
		job       types.RenderJob
		wantTitle string
	}{
		{
			name: "explicit publish title wins",
			job: types.RenderJob{
				Storyboard: types.Storyboard{Title: "Board Title"},
				Publish:    &types.PublishOptions{Title: "Custom Title"},
			},
			wantTitle: "Custom Title",
		},
		{
			name: "falls back to storyboard title",
			job: types.RenderJob{
				Storyboard: types.Storyboard{Title: "Board Title"},
			},
			wantTitle: "Board Title",
		},
		{
			name: "falls back to first narration",
			job: types.RenderJob{
				Storyboard: types.Storyboard{
					Frames: []types.StoryboardFrame{{Narration: "Once upon a time"}},
				},
			},
			wantTitle: "Once upon a time",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := BuildMetadata(&tt.job)
			if meta.Title != tt.wantTitle {
				t.Errorf("title = %q; want %q", meta.Title, tt.wantTitle)
			}
			if meta.CategoryID != config.YouTubeCategoryID {
				t.Errorf("category = %q; want %q", meta.CategoryID, config.YouTubeCategoryID)
			}
		})
	}
}

func TestBuildMetadataTruncatesLongTitle(t *testing.T) {
	long := strings.Repeat("storyboard ", 20)
	meta := BuildMetadata(&types.RenderJob{
		Storyboard: types.Storyboard{Title: long},
	})
	if len(meta.Title) > 100 {
		t.Errorf("title length = %d; want <= 100", len(meta.Title))
	}
	if !strings.HasSuffix(meta.Title, "...") {
		t.Errorf("truncated title should end with ellipsis: %q", meta.Title)
	}
}
