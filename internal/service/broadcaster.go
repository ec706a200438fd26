package service

// Session events pushed to live connections
const (
	EventStateChanged = "state_changed"
	EventScanResult   = "scan_result"
	EventScanFailed   = "scan_failed"
)

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	Publish(owner string, msgType string, payload interface{})
}
