package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"storyreel/types"
)

// ProcessFromDirectory renders every storyboard JSON file in inputDir.
// Individual job failures are logged and do not stop the batch.
func (r *Runner) ProcessFromDirectory(ctx context.Context, inputDir string) error {
	jobFiles, err := filepath.Glob(filepath.Join(inputDir, "*.json"))
	if err != nil {
		return fmt.Errorf("failed to read job files: %w", err)
	}

	if len(jobFiles) == 0 {
		log.Printf("No storyboard files found in %s", inputDir)
		return nil
	}

	log.Printf("Found %d storyboards to render", len(jobFiles))

	for i, jobFile := range jobFiles {
		log.Printf("[%d/%d] Rendering: %s", i+1, len(jobFiles), filepath.Base(jobFile))
		if err := r.processJobFile(ctx, jobFile); err != nil {
			log.Printf("Failed to render %s: %v", jobFile, err)
		}
	}

	log.Println("All storyboards processed!")
	return nil
}

func (r *Runner) processJobFile(ctx context.Context, jobFile string) error {
	data, err := os.ReadFile(jobFile)
	if err != nil {
		return fmt.Errorf("failed to read job file: %w", err)
	}

	var job types.RenderJob
	if err := json.Unmarshal(data, &job); err != nil {
		return fmt.Errorf("failed to parse job file: %w", err)
	}

	return r.Run(ctx, &job)
}
