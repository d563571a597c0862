package models

import "time"

// SessionPhase is the lifecycle phase of an assessment attempt.
type SessionPhase string

const (
	SessionIdle     SessionPhase = "idle"
	SessionRunning  SessionPhase = "running"
	SessionComplete SessionPhase = "complete"
)

// SessionState is a snapshot of one in-progress or completed assessment
// attempt. Created empty on start, mutated by answer saves, sealed on
// submission, discarded on the next start.
type SessionState struct {
	Phase          SessionPhase `json:"phase"`
	Answers        AnswerMap    `json:"answers"`
	StartTime      *time.Time   `json:"start_time,omitempty"`
	ElapsedSeconds int          `json:"elapsed_seconds"`
	IsComplete     bool         `json:"is_complete"`
	Scores         *DiscScore   `json:"scores,omitempty"`
}

// AnsweredCount returns how many questions have a recorded answer.
func (s SessionState) AnsweredCount() int {
	return len(s.Answers)
}

// SaveAnswerRequest records one rating for a question.
type SaveAnswerRequest struct {
	QuestionID int `json:"question_id"`
	Value      int `json:"value"`
}
