package services

import "fmt"

// MediaFetchError reports a failure to resolve or download a media object
// from the Graph API. The dispatcher treats it as "no content available" and
// apologizes to the sender instead of retrying.
type MediaFetchError struct {
	MediaID string
	Err     error
}

func (e *MediaFetchError) Error() string {
	return fmt.Sprintf("fetch media %s: %v", e.MediaID, e.Err)
}

func (e *MediaFetchError) Unwrap() error {
	return e.Err
}

// GenerationError reports a failed or blocked Gemini call. The dispatcher
// maps it to the fixed fallback message.
type GenerationError struct {
	Reason string
	Err    error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generate reply: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("generate reply: %s", e.Reason)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// SendError reports a failed send-message call. There is nothing left to
// tell the user at that point, so callers only log it.
type SendError struct {
	To  string
	Err error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("send message to %s: %v", e.To, e.Err)
}

func (e *SendError) Unwrap() error {
	return e.Err
}
