// server/internal/models/machine.go
package models

import "time"

type MachineStatus string

const (
	MachineOperational MachineStatus = "operational"
	MachineMaintenance MachineStatus = "maintenance"
	MachineBreakdown   MachineStatus = "breakdown"
	MachineIdle        MachineStatus = "idle"
)

var MachineStatuses = []string{
	string(MachineOperational), string(MachineMaintenance), string(MachineBreakdown), string(MachineIdle),
}

type Machine struct {
	Base            `bson:",inline"`
	MachineCode     string        `bson:"machineCode" json:"machineCode"` // mã máy, unique
	Name            string        `bson:"name" json:"name"`
	Type            string        `bson:"type" json:"type"` // e.g. "dishwasher", "generator"
	Site            string        `bson:"site" json:"site"`
	Department      string        `bson:"department" json:"department"`
	Status          MachineStatus `bson:"status" json:"status"`
	Operator        string        `bson:"operator" json:"operator"`
	LastMaintenance *time.Time    `bson:"lastMaintenance,omitempty" json:"lastMaintenance,omitempty"`
	NextMaintenance *time.Time    `bson:"nextMaintenance,omitempty" json:"nextMaintenance,omitempty"`
	Notes           string        `bson:"notes" json:"notes"`
}
