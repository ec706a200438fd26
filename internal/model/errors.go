package model

import "errors"

var (
	ErrInvalidQuestion   = errors.New("question number out of range")
	ErrInvalidChoice     = errors.New("invalid choice")
	ErrCameraUnavailable = errors.New("camera unavailable")
	ErrRecognitionFailed = errors.New("recognition failed")
	ErrScanInProgress    = errors.New("a scan is already being processed")
	ErrInvalidTransition = errors.New("action not allowed in current state")
	ErrInvalidImage      = errors.New("image must be a JPEG")
)

// RecognitionError is the single opaque failure of a recognition call.
// Message is safe to show to the user.
type RecognitionError struct {
	Message string
	Err     error
}

func (e *RecognitionError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *RecognitionError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrRecognitionFailed, e.Err}
	}
	return []error{ErrRecognitionFailed}
}
