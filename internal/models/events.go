package models

// ProgressEvent is a coarse pipeline stage notification. Data carries
// stage-specific detail such as query counts or section titles.
type ProgressEvent struct {
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data,omitempty"`
}
