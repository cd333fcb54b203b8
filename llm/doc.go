// Package llm provides a provider-neutral interface for LLM-backed command
// diagnosis. It translates a provider configuration plus a prompt into the
// backend's wire request, performs the call, and normalizes success and
// failure into one canonical response and error shape.
//
// Two wire protocols are supported: OpenAI-style chat completions (used by
// the openai, grok, and custom providers) and Anthropic's messages API. The
// provider set is a closed table; adding a provider means one table entry
// plus one client implementation.
//
// All transport and HTTP failures surface as *Error. SDK-specific error
// types never leak past this package.
package llm
