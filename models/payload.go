package models

import "time"

// Wire payload type discriminators.
const (
	TypeEvent   = "event"
	TypeAnswers = "answers"
	TypeResult  = "result"
)

// Event names carried by event payloads.
const (
	EventTestStarted  = "test_started"
	EventTestFinished = "test_finished"
)

// Sentinel strings used when a DOM element is absent.
const (
	QuestionTextMissing = "Question text not found"
	AnswerLabelMissing  = "Label not found"
	NotAnswered         = "Not Answered"
)

// QuestionNumberMissing marks a question block whose index attribute could
// not be parsed. The record is still emitted.
const QuestionNumberMissing = -1

// Envelope is the part shared by every outbound payload. A payload with an
// empty UserID or SessionID is never transmitted.
type Envelope struct {
	Type      string    `json:"type"`
	UserID    string    `json:"userId"`
	SessionID string    `json:"sessionId"`
	Timestamp time.Time `json:"timestamp"`
}

// Identity returns the correlation identifiers of the payload.
func (e Envelope) Identity() (userID, sessionID string) {
	return e.UserID, e.SessionID
}

// Payload is any outbound record carrying an Envelope.
type Payload interface {
	Identity() (userID, sessionID string)
}

// EventPayload marks a session boundary (test_started / test_finished).
type EventPayload struct {
	Envelope
	EventName string `json:"eventName"`
}

// NewEvent builds an event payload stamped with the current UTC instant.
func NewEvent(name, userID, sessionID string) *EventPayload {
	return &EventPayload{
		Envelope: Envelope{
			Type:      TypeEvent,
			UserID:    userID,
			SessionID: sessionID,
			Timestamp: time.Now().UTC(),
		},
		EventName: name,
	}
}

// Answer is one question's state at click time. AnswerValue is nil when no
// option is selected; the record is still emitted.
type Answer struct {
	QuestionNumber int     `json:"question_number"`
	QuestionText   string  `json:"question_text"`
	AnswerValue    *string `json:"answer_value"`
	AnswerLabel    string  `json:"answer_label"`
}

// AnswersPayload carries every answer record extracted from one quiz page.
type AnswersPayload struct {
	Envelope
	Answers []Answer `json:"answers"`
}

// NewAnswers builds an answers payload stamped with the current UTC instant.
func NewAnswers(userID, sessionID string, answers []Answer) *AnswersPayload {
	return &AnswersPayload{
		Envelope: Envelope{
			Type:      TypeAnswers,
			UserID:    userID,
			SessionID: sessionID,
			Timestamp: time.Now().UTC(),
		},
		Answers: answers,
	}
}

// ResultPayload carries the canonical result record read from a profile page.
type ResultPayload struct {
	Envelope
	ProfileURL string   `json:"profileUrl"`
	MBTIResult string   `json:"mbtiResult"`
	MBTICode   string   `json:"mbtiCode"`
	Traits     TraitSet `json:"traits"`
}

// NewResult builds a result payload stamped with the current UTC instant.
func NewResult(userID, sessionID string, r *Result) *ResultPayload {
	return &ResultPayload{
		Envelope: Envelope{
			Type:      TypeResult,
			UserID:    userID,
			SessionID: sessionID,
			Timestamp: time.Now().UTC(),
		},
		ProfileURL: r.ProfileURL,
		MBTIResult: r.MBTIResult,
		MBTICode:   r.MBTICode,
		Traits:     r.Traits,
	}
}
