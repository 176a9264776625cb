package api

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storyreel/status"
	"storyreel/types"
)

// JobRunner renders a job end to end. Implemented by runner.Runner.
type JobRunner interface {
	Run(ctx context.Context, job *types.RenderJob) error
}

// StoryboardController handles storyboard render requests and task polling.
type StoryboardController struct {
	runner JobRunner
	store  status.Store
}

// NewStoryboardController creates a controller over the runner and store.
func NewStoryboardController(r JobRunner, s status.Store) *StoryboardController {
	return &StoryboardController{runner: r, store: s}
}

// RegisterStoryboardRoutes registers storyboard and task endpoints.
func RegisterStoryboardRoutes(r *gin.Engine, ctrl *StoryboardController) {
	r.POST("/api/storyboards", ctrl.handleSubmit)
	r.GET("/api/tasks/:id", ctrl.handleTaskStatus)
}

// SubmitResponse is the response to an accepted render request.
type SubmitResponse struct {
	TaskID string `json:"task_id"`
}

// handleSubmit accepts a render job, assigns a task id and starts the
// render asynchronously. Returns 202 Accepted immediately.
func (ctrl *StoryboardController) handleSubmit(c *gin.Context) {
	var job types.RenderJob
	if err := c.ShouldBindJSON(&job); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := job.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if job.TaskID == "" {
		job.TaskID = uuid.New().String()
	}

	// Record the task before responding so an immediate poll finds it.
	if err := ctrl.store.Set(c.Request.Context(), status.TaskStatus{
		TaskID:     job.TaskID,
		State:      status.StateQueued,
		FrameTotal: len(job.Storyboard.Frames),
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to queue task: " + err.Error()})
		return
	}

	log.Printf("Accepted render request: task=%s frames=%d", job.TaskID, len(job.Storyboard.Frames))

	go func(job types.RenderJob) {
		if err := ctrl.runner.Run(context.Background(), &job); err != nil {
			log.Printf("Render failed for task %s: %v", job.TaskID, err)
		}
	}(job)

	c.JSON(http.StatusAccepted, SubmitResponse{TaskID: job.TaskID})
}

// handleTaskStatus returns the current snapshot of one task.
func (ctrl *StoryboardController) handleTaskStatus(c *gin.Context) {
	taskID := c.Param("id")

	st, err := ctrl.store.Get(c.Request.Context(), taskID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if st == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown task: " + taskID})
		return
	}

	c.JSON(http.StatusOK, st)
}
