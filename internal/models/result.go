package models

import "time"

// Analysis is the AI-generated narrative attached to a result after
// submission. All fields come from the structured insight response.
type Analysis struct {
	Summary       string   `json:"summary"`
	Communication []string `json:"communication"`
	Value         []string `json:"value"`
	Blindspots    []string `json:"blindspots"`
}

// AssessmentResult is one completed assessment. Analysis is attached later,
// asynchronously, by the insight orchestrator; it is nil until then.
type AssessmentResult struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
	Scores    DiscScore `json:"scores"`
	Answers   AnswerMap `json:"answers,omitempty"`
	Analysis  *Analysis `json:"analysis,omitempty"`
}

// SaveResultRequest is the payload for persisting a submitted assessment.
type SaveResultRequest struct {
	UserID  string    `json:"user_id"`
	Scores  DiscScore `json:"scores"`
	Answers AnswerMap `json:"answers"`
}

// GenerateInsightsRequest parameterizes narrative generation for a result.
type GenerateInsightsRequest struct {
	Mode   string `json:"mode,omitempty"`
	Locale string `json:"locale,omitempty"`
}
