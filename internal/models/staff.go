// server/internal/models/staff.go
package models

import (
	"time"
)

type RosterStatus string

const (
	RosterScheduled RosterStatus = "scheduled"
	RosterPresent   RosterStatus = "present"
	RosterAbsent    RosterStatus = "absent"
	RosterLeave     RosterStatus = "leave"
)

var RosterStatuses = []string{string(RosterScheduled), string(RosterPresent), string(RosterAbsent), string(RosterLeave)}

// RosterEntry gán một nhân viên vào một ca trong một ngày.
type RosterEntry struct {
	Base         `bson:",inline"`
	EmployeeID   string       `bson:"employeeId" json:"employeeId"`
	EmployeeName string       `bson:"employeeName" json:"employeeName"`
	ShiftID      string       `bson:"shiftId" json:"shiftId"`
	Shift        ShiftPeriod  `bson:"shift" json:"shift"`
	Date         time.Time    `bson:"date" json:"date"`
	Site         string       `bson:"site" json:"site"`
	Department   string       `bson:"department" json:"department"`
	Status       RosterStatus `bson:"status" json:"status"`
	Notes        string       `bson:"notes" json:"notes"`
}

type SupervisorStatus string

const (
	SupervisorActive   SupervisorStatus = "active"
	SupervisorInactive SupervisorStatus = "inactive"
)

var SupervisorStatuses = []string{string(SupervisorActive), string(SupervisorInactive)}

type Supervisor struct {
	Base       `bson:",inline"`
	Name       string           `bson:"name" json:"name"`
	Email      string           `bson:"email" json:"email"` // unique
	Phone      string           `bson:"phone" json:"phone"`
	Site       string           `bson:"site" json:"site"`
	Department string           `bson:"department" json:"department"`
	Status     SupervisorStatus `bson:"status" json:"status"`
	Employees  []string         `bson:"employees" json:"employees"`
}

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleSupervisor Role = "supervisor"
	RoleStaff      Role = "staff"
)

var Roles = []string{string(RoleAdmin), string(RoleManager), string(RoleSupervisor), string(RoleStaff)}

// User struct matches the document in MongoDB
type User struct {
	Base     `bson:",inline"`
	Name     string `bson:"name" json:"name"`
	Email    string `bson:"email" json:"email"`
	Password string `bson:"password" json:"-"`
	Role     Role   `bson:"role" json:"role"`
	Status   string `bson:"status" json:"status"` // active, inactive
}

type AlertSeverity string

const (
	SeverityInfo     AlertSeverity = "info"
	SeverityWarning  AlertSeverity = "warning"
	SeverityCritical AlertSeverity = "critical"
)

var AlertSeverities = []string{string(SeverityInfo), string(SeverityWarning), string(SeverityCritical)}

type Alert struct {
	Base           `bson:",inline"`
	Title          string        `bson:"title" json:"title"`
	Message        string        `bson:"message" json:"message"`
	Severity       AlertSeverity `bson:"severity" json:"severity"`
	Site           string        `bson:"site" json:"site"`
	Department     string        `bson:"department" json:"department"`
	Acknowledged   bool          `bson:"acknowledged" json:"acknowledged"`
	AcknowledgedBy string        `bson:"acknowledgedBy,omitempty" json:"acknowledgedBy,omitempty"`
	AcknowledgedAt *time.Time    `bson:"acknowledgedAt,omitempty" json:"acknowledgedAt,omitempty"`
}
