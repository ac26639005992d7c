package db

import (
	"time"

	"github.com/jakechorley/meeting-assignments/pkg/core/model"
)

// StatusPeriod represents a database status record. Dates are kept as text
// because the rows are maintained by hand.
type StatusPeriod struct {
	ID       string `ssql_header:"id" ssql_type:"uuid"`
	PersonID string `ssql_header:"person_id" ssql_type:"text"`
	Status   string `ssql_header:"status" ssql_type:"text"`
	Start    string `ssql_header:"start" ssql_type:"date"`
	End      string `ssql_header:"end" ssql_type:"date"`
}

// TimeAway represents a database time-away record
type TimeAway struct {
	ID       string `ssql_header:"id" ssql_type:"uuid"`
	PersonID string `ssql_header:"person_id" ssql_type:"text"`
	Start    string `ssql_header:"start" ssql_type:"date"`
	End      string `ssql_header:"end" ssql_type:"date"`
	Reason   string `ssql_header:"reason" ssql_type:"text"`
}

// AssistantPair represents a database record allowing one member to assist another
type AssistantPair struct {
	ID          string `ssql_header:"id" ssql_type:"uuid"`
	PrincipalID string `ssql_header:"principal_id" ssql_type:"text"`
	AssistantID string `ssql_header:"assistant_id" ssql_type:"text"`
}

// Assignment represents a database assignment record. An empty PersonID clears the slot.
type Assignment struct {
	ID         string     `ssql_header:"id" ssql_type:"uuid"`
	Week       model.Date `ssql_header:"week" ssql_type:"date"`
	Slot       string     `ssql_header:"slot" ssql_type:"text"`
	PersonID   string     `ssql_header:"person_id" ssql_type:"text"`
	Code       string     `ssql_header:"code" ssql_type:"text"`
	RecordedAt time.Time  `ssql_header:"recorded_at" ssql_type:"timestamp"`
}
