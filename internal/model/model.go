// Package model defines the domain types used across the application.
package model

import (
	"encoding/json"
	"time"
)

// Status is the review state of a homework submission.
type Status string

// Documented review statuses.
const (
	StatusApproved  Status = "approved"
	StatusReviewing Status = "reviewing"
	StatusRejected  Status = "rejected"
)

// Homework is a single submission as reported by the review API.
type Homework struct {
	Name   string `json:"homework_name"`
	Status Status `json:"status"`
}

// Response is a validated review API answer. Homeworks are kept undecoded;
// only the element that gets rendered is decoded.
type Response struct {
	Homeworks   []json.RawMessage
	CurrentDate int64
}

// CycleOutcome describes how a polling cycle ended.
type CycleOutcome string

// Supported cycle outcomes.
const (
	OutcomeOK    CycleOutcome = "ok"
	OutcomeError CycleOutcome = "error"
)

// Cycle is a journal record of one polling iteration.
type Cycle struct {
	ID          string
	FromDate    int64
	CurrentDate *int64
	Outcome     CycleOutcome
	ErrorKind   string
	Error       string
	StartedAt   time.Time
}

// Notification is a journal record of one outbound chat message.
type Notification struct {
	ID        int64
	CycleID   string
	Text      string
	Delivered bool
	Error     string
	CreatedAt time.Time
}
