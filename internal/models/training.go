// server/internal/models/training.go
package models

import "time"

type TrainingType string

const (
	TrainingSafety     TrainingType = "safety"
	TrainingTechnical  TrainingType = "technical"
	TrainingSoftSkills TrainingType = "soft_skills"
	TrainingCompliance TrainingType = "compliance"
	TrainingOther      TrainingType = "other"
)

var TrainingTypes = []string{
	string(TrainingSafety), string(TrainingTechnical), string(TrainingSoftSkills),
	string(TrainingCompliance), string(TrainingOther),
}

type TrainingStatus string

const (
	TrainingScheduled TrainingStatus = "scheduled"
	TrainingOngoing   TrainingStatus = "ongoing"
	TrainingCompleted TrainingStatus = "completed"
	TrainingCancelled TrainingStatus = "cancelled"
)

var TrainingStatuses = []string{
	string(TrainingScheduled), string(TrainingOngoing), string(TrainingCompleted), string(TrainingCancelled),
}

// Feedback của nhân viên sau buổi đào tạo, rating 1-5.
type Feedback struct {
	EmployeeID  string    `bson:"employeeId" json:"employeeId"`
	Name        string    `bson:"name" json:"name"`
	Rating      int       `bson:"rating" json:"rating"`
	Comment     string    `bson:"comment" json:"comment"`
	SubmittedAt time.Time `bson:"submittedAt" json:"submittedAt"`
}

type TrainingSession struct {
	Base         `bson:",inline"`
	TrainingID   string         `bson:"trainingId" json:"trainingId"` // TRN###
	Title        string         `bson:"title" json:"title"`
	Description  string         `bson:"description" json:"description"`
	Type         TrainingType   `bson:"type" json:"type"`
	Date         time.Time      `bson:"date" json:"date"`
	Time         string         `bson:"time" json:"time"`
	Duration     string         `bson:"duration" json:"duration"`
	Trainer      string         `bson:"trainer" json:"trainer"`
	Supervisor   string         `bson:"supervisor" json:"supervisor"`
	Site         string         `bson:"site" json:"site"`
	Department   string         `bson:"department" json:"department"`
	Attendees    []string       `bson:"attendees" json:"attendees"`
	MaxAttendees int            `bson:"maxAttendees" json:"maxAttendees"`
	Status       TrainingStatus `bson:"status" json:"status"`
	Attachments  []Attachment   `bson:"attachments" json:"attachments"`
	Feedback     []Feedback     `bson:"feedback" json:"feedback"`
	Location     string         `bson:"location" json:"location"`
	Objectives   []string       `bson:"objectives" json:"objectives"`
}
