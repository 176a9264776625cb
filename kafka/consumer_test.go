package kafka

import (
	"context"
	"errors"
	"testing"

	"storyreel/types"
)

func TestTypedMessageHandler(t *testing.T) {
	tests := []struct {
		name       string
		message    string
		validateOK bool
		processErr error
		alwaysMark bool
		wantMark   bool
		wantErr    bool
	}{
		{
			name:     "valid message processed and marked",
			message:  `{"task_id":"t1"}`,
			wantMark: true,
		},
		{
			name:       "malformed json marked when AlwaysMark",
			message:    `{not json`,
			alwaysMark: true,
			wantMark:   true,
		},
		{
			name:     "malformed json unmarked without AlwaysMark",
			message:  `{not json`,
			wantMark: false,
		},
		{
			name:       "process error leaves message for retry",
			message:    `{"task_id":"t1"}`,
			processErr: errors.New("render failed"),
			wantMark:   false,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			processed := 0
			h := &TypedMessageHandler[types.RenderJob]{
				Process: func(ctx context.Context, job *types.RenderJob) error {
					processed++
					return tt.processErr
				},
				AlwaysMark: tt.alwaysMark,
			}

			mark, err := h.HandleMessage(context.Background(), []byte(tt.message))
			if mark != tt.wantMark {
				t.Errorf("mark = %v; want %v", mark, tt.wantMark)
			}
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v; wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTypedMessageHandlerValidation(t *testing.T) {
	processed := 0
	h := &TypedMessageHandler[types.RenderJob]{
		Validate: func(job *types.RenderJob) bool {
			return len(job.Storyboard.Frames) > 0
		},
		Process: func(ctx context.Context, job *types.RenderJob) error {
			processed++
			return nil
		},
		AlwaysMark: true,
	}

	mark, err := h.HandleMessage(context.Background(), []byte(`{"task_id":"empty"}`))
	if err != nil {
		t.Fatalf("HandleMessage error: %v", err)
	}
	if !mark {
		t.Error("invalid job should still be marked with AlwaysMark")
	}
	if processed != 0 {
		t.Errorf("invalid job was processed %d times; want 0", processed)
	}
}
