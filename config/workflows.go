package config

// DefaultMediaWorkflow is used when a job names no workflow.
const DefaultMediaWorkflow = "selfhost/image_flux.json"

// WorkflowPresets maps friendly names to generation workflow files.
// Names containing "video_" or "i2v_" produce video clips.
var WorkflowPresets = map[string]string{
	"flux":    "selfhost/image_flux.json",
	"sdxl":    "selfhost/image_sdxl.json",
	"wan":     "selfhost/video_wan.json",
	"sora":    "selfhost/video_i2v_sora.json",
	"sora-t2": "selfhost/video_i2v_sorat2.json",
}

// ResolveWorkflow resolves a workflow identifier to a workflow file.
// If the input is a preset name, returns the corresponding file.
// Otherwise, returns the input as-is (assuming it's a direct path).
func ResolveWorkflow(workflowInput string) string {
	if wf, exists := WorkflowPresets[workflowInput]; exists {
		return wf
	}
	return workflowInput
}
