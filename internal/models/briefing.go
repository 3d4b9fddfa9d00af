// server/internal/models/briefing.go
package models

import "time"

type ActionItemStatus string

const (
	ActionPending    ActionItemStatus = "pending"
	ActionInProgress ActionItemStatus = "in_progress"
	ActionCompleted  ActionItemStatus = "completed"
)

var ActionItemStatuses = []string{string(ActionPending), string(ActionInProgress), string(ActionCompleted)}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var Priorities = []string{string(PriorityLow), string(PriorityMedium), string(PriorityHigh)}

// ActionItem là sub-document trong briefing, không có id riêng.
type ActionItem struct {
	Description string           `bson:"description" json:"description"`
	AssignedTo  string           `bson:"assignedTo" json:"assignedTo"`
	DueDate     *time.Time       `bson:"dueDate,omitempty" json:"dueDate,omitempty"`
	Status      ActionItemStatus `bson:"status" json:"status"`
	Priority    Priority         `bson:"priority" json:"priority"`
}

type StaffBriefing struct {
	Base        `bson:",inline"`
	BriefingID  string       `bson:"briefingId" json:"briefingId"` // BRI###
	Date        time.Time    `bson:"date" json:"date"`
	Time        string       `bson:"time" json:"time"`
	ConductedBy string       `bson:"conductedBy" json:"conductedBy"`
	Site        string       `bson:"site" json:"site"`
	Department  string       `bson:"department" json:"department"`
	Attendees   int          `bson:"attendees" json:"attendees"`
	Topics      []string     `bson:"topics" json:"topics"`
	KeyPoints   []string     `bson:"keyPoints" json:"keyPoints"`
	ActionItems []ActionItem `bson:"actionItems" json:"actionItems"`
	Attachments []Attachment `bson:"attachments" json:"attachments"`
	Notes       string       `bson:"notes" json:"notes"`
	Shift       ShiftPeriod  `bson:"shift" json:"shift"`
}
