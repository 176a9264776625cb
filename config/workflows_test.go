package config

import "testing"

func TestResolveWorkflow(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"flux", "selfhost/image_flux.json"},
		{"sora", "selfhost/video_i2v_sora.json"},
		{"selfhost/custom_workflow.json", "selfhost/custom_workflow.json"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := ResolveWorkflow(tt.input); got != tt.want {
			t.Errorf("ResolveWorkflow(%q) = %q; want %q", tt.input, got, tt.want)
		}
	}
}
