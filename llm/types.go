package llm

import "time"

// Response is the canonical, backend-agnostic result of one analysis call.
// Content is never reported as missing; an empty string is a valid reply
// (downstream parsing treats it as a fallback trigger, not a failure).
type Response struct {
	Content  string
	Model    string
	Usage    *Usage // nil when the backend reported no usage accounting
	Duration time.Duration
	Provider string
}

// Usage is the canonical token accounting shape. Both wire protocols map
// into these field names; Anthropic's input/output counts land on
// PromptTokens/CompletionTokens so downstream code stays provider-agnostic.
// Absent usage is represented by a nil *Usage, never a zero-filled one.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
