package dto

// ForcedTaskRequest pins the dashboard to a specific assignment for every
// viewer. An empty task id clears the pin.
type ForcedTaskRequest struct {
	TaskID string `json:"task_id"`
}

// GlobalSettingsResponse exposes the app-wide configuration payload.
type GlobalSettingsResponse struct {
	ForcedTaskID string                 `json:"forced_task_id,omitempty"`
	Payload      map[string]interface{} `json:"payload"`
}
