package logging

// Standardized attribute keys shared across components so log consumers can
// filter and correlate events without guessing at spellings.
const (
	FieldComponent = "component"
	FieldEventType = "event_type"
	FieldErrorHint = "error_hint"
	FieldImpact    = "impact"
	FieldRequestID = "request_id"
	FieldPath      = "path"
	FieldFolder    = "folder"
)
