// server/internal/models/common.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Base chứa các trường chung của mọi document.
type Base struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Meta lets generic repositories reach the embedded Base of any model.
func (b *Base) Meta() *Base { return b }

// Document is implemented by every model through the embedded Base.
type Document interface {
	Meta() *Base
}

// AttachmentType is the coarse category of an uploaded file.
type AttachmentType string

const (
	AttachmentImage    AttachmentType = "image"
	AttachmentDocument AttachmentType = "document"
	AttachmentVideo    AttachmentType = "video"
)

// Attachment đại diện cho một file đã upload lên asset store (S3).
type Attachment struct {
	Name       string         `bson:"name" json:"name"`
	Type       AttachmentType `bson:"type" json:"type"`
	URL        string         `bson:"url" json:"url"`
	Size       string         `bson:"size" json:"size"` // e.g. "2.4 MB"
	UploadedAt time.Time      `bson:"uploadedAt" json:"uploadedAt"`
}

// Department là tập đóng các bộ phận.
type Department string

const (
	DeptKitchen        Department = "kitchen"
	DeptHousekeeping   Department = "housekeeping"
	DeptMaintenance    Department = "maintenance"
	DeptFrontOffice    Department = "front_office"
	DeptSecurity       Department = "security"
	DeptAdministration Department = "administration"
)

var Departments = []string{
	string(DeptKitchen), string(DeptHousekeeping), string(DeptMaintenance),
	string(DeptFrontOffice), string(DeptSecurity), string(DeptAdministration),
}

// ShiftPeriod is the part of day a briefing or roster entry belongs to.
type ShiftPeriod string

const (
	ShiftMorning ShiftPeriod = "morning"
	ShiftEvening ShiftPeriod = "evening"
	ShiftNight   ShiftPeriod = "night"
)

var ShiftPeriods = []string{string(ShiftMorning), string(ShiftEvening), string(ShiftNight)}

// OneOf reports whether v is a member of set.
func OneOf(v string, set []string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
