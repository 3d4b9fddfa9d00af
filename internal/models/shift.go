// server/internal/models/shift.go
package models

import (
	"encoding/json"
	"strings"
)

type Shift struct {
	Base      `bson:",inline"`
	Name      string   `bson:"name" json:"name"`
	StartTime string   `bson:"startTime" json:"startTime"` // HH:mm
	EndTime   string   `bson:"endTime" json:"endTime"`     // HH:mm
	Employees []string `bson:"employees" json:"employees"`
}

// ShortID là 6 ký tự cuối của ObjectID, viết hoa, dùng để hiển thị.
func (s Shift) ShortID() string {
	hex := s.ID.Hex()
	return strings.ToUpper(hex[len(hex)-6:])
}

func (s Shift) MarshalJSON() ([]byte, error) {
	type plain Shift
	return json.Marshal(struct {
		plain
		ShortID string `json:"shortId"`
	}{plain(s), s.ShortID()})
}
