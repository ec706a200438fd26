package model

import "time"

// FlowState is the scan flow state of a workspace
type FlowState string

const (
	StateIdle       FlowState = "idle"       // Key config and history visible
	StateCapturing  FlowState = "capturing"  // Camera view active
	StateProcessing FlowState = "processing" // Recognition call in flight
	StateResult     FlowState = "result"     // Score displayed
)

// SessionSnapshot is the externally visible session state
type SessionSnapshot struct {
	State     FlowState   `json:"state"`
	Current   *ResultView `json:"current,omitempty"`
	Error     string      `json:"error,omitempty"`
	UpdatedAt time.Time   `json:"updatedAt"`
}
