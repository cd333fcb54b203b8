// Package analysis interprets the model's JSON payload into a typed
// troubleshooting result. Parsing is total: malformed payloads degrade to a
// defined fallback instead of failing.
package analysis

import "encoding/json"

// Status classifies an analysis outcome.
type Status string

const (
	StatusSuccess Status = "success"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
	StatusInfo    Status = "info"
)

// RiskLevel grades a suggested fix.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Step is one ordered troubleshooting step.
type Step struct {
	Step        int    `json:"step"`
	Description string `json:"description"`
	Command     string `json:"command,omitempty"`
	Explanation string `json:"explanation,omitempty"`
}

// Fix is one suggested remediation: what it does, the commands to run, and
// how risky running them is.
type Fix struct {
	Description string    `json:"description"`
	Commands    []string  `json:"commands"`
	RiskLevel   RiskLevel `json:"risk_level"`
	Explanation string    `json:"explanation,omitempty"`
}

// Result is the parsed troubleshooting payload.
type Result struct {
	Analysis             string   `json:"analysis"`
	Status               Status   `json:"status"`
	Issues               []string `json:"issues"`
	TroubleshootingSteps []Step   `json:"troubleshooting_steps"`
	SuggestedFixes       []Fix    `json:"suggested_fixes"`
	AdditionalInfo       string   `json:"additional_info"`
}

// Fallback wraps raw model text that could not be decoded as the structured
// shape: the whole text becomes the analysis, status is informational, and
// every list is empty. This is defined behavior, not an error path.
func Fallback(raw string) Result {
	return Result{
		Analysis:             raw,
		Status:               StatusInfo,
		Issues:               []string{},
		TroubleshootingSteps: []Step{},
		SuggestedFixes:       []Fix{},
		AdditionalInfo:       "",
	}
}

// Parse decodes raw model output into a Result. It never fails: any decode
// error (malformed syntax, wrong top-level shape) yields Fallback(raw).
// Missing fields within an otherwise valid object default key-by-key to
// empty lists, informational status, and empty strings.
func Parse(raw string) Result {
	var result Result
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return Fallback(raw)
	}

	if result.Status == "" {
		result.Status = StatusInfo
	}
	if result.Issues == nil {
		result.Issues = []string{}
	}
	if result.TroubleshootingSteps == nil {
		result.TroubleshootingSteps = []Step{}
	}
	if result.SuggestedFixes == nil {
		result.SuggestedFixes = []Fix{}
	}

	return result
}
