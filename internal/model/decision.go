package model

import "time"

// Speaker identifies one side of the interaction audit trail.
type Speaker string

const (
	SpeakerUser   Speaker = "USER"
	SpeakerSystem Speaker = "SYSTEM"
)

// Decision is one block in the decision audit log.
type Decision struct {
	ID        string // timestamp-derived, see internal/id
	Timestamp time.Time
	Trigger   string
	Advice    string
	Rationale string
	Impact    string
}
