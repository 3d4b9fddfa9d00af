// server/internal/services/shift.go
package services

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"workforce-ops-api-server/internal/apperr"
	"workforce-ops-api-server/internal/models"
	"workforce-ops-api-server/internal/query"
	"workforce-ops-api-server/internal/stats"
	"workforce-ops-api-server/internal/store"
)

var shiftSchema = query.Schema{
	Fields:       map[query.Key]query.Field{},
	SearchFields: []string{"name", "employees"},
	Sort:         query.DefaultSort,
}

type ShiftInput struct {
	Name      string   `json:"name"`
	StartTime string   `json:"startTime"`
	EndTime   string   `json:"endTime"`
	Employees []string `json:"employees"`
}

const clockLayout = "15:04"

func buildShift(in ShiftInput) (models.Shift, error) {
	var s models.Shift
	name := strings.TrimSpace(in.Name)
	if n := utf8.RuneCountInString(name); n < 2 || n > 50 {
		return s, apperr.Validation("Shift name must be between 2 and 50 characters")
	}
	start, err := time.Parse(clockLayout, strings.TrimSpace(in.StartTime))
	if err != nil {
		return s, apperr.Validation("startTime must be in HH:mm format")
	}
	end, err := time.Parse(clockLayout, strings.TrimSpace(in.EndTime))
	if err != nil {
		return s, apperr.Validation("endTime must be in HH:mm format")
	}
	// So sánh như giờ trong cùng một ngày.
	if !end.After(start) {
		return s, apperr.Validation("End time must be after start time")
	}
	return models.Shift{
		Name:      name,
		StartTime: start.Format(clockLayout),
		EndTime:   end.Format(clockLayout),
		Employees: cleanList(in.Employees),
	}, nil
}

func shiftInput(s models.Shift) ShiftInput {
	return ShiftInput{Name: s.Name, StartTime: s.StartTime, EndTime: s.EndTime, Employees: s.Employees}
}

type ShiftService struct {
	res resource[models.Shift]
}

func NewShiftService(repo store.Repository[models.Shift], log *slog.Logger) *ShiftService {
	return &ShiftService{res: resource[models.Shift]{name: "Shift", repo: repo, schema: shiftSchema, log: log}}
}

func (s *ShiftService) List(ctx context.Context, f query.Filter) ([]models.Shift, query.Page, error) {
	return s.res.list(ctx, f)
}

func (s *ShiftService) Get(ctx context.Context, id string) (*models.Shift, error) {
	return s.res.get(ctx, id)
}

func (s *ShiftService) Create(ctx context.Context, in ShiftInput) (*models.Shift, error) {
	shift, err := buildShift(in)
	if err != nil {
		return nil, err
	}
	if err := s.res.repo.Insert(ctx, &shift); err != nil {
		return nil, s.res.wrap(err, "create")
	}
	return &shift, nil
}

func (s *ShiftService) Update(ctx context.Context, id string, patch []byte) (*models.Shift, error) {
	current, err := s.res.get(ctx, id)
	if err != nil {
		return nil, err
	}
	in, err := merge(shiftInput(*current), patch)
	if err != nil {
		return nil, err
	}
	shift, err := buildShift(in)
	if err != nil {
		return nil, err
	}
	shift.Base = current.Base
	if err := s.res.repo.Replace(ctx, &shift); err != nil {
		return nil, s.res.wrap(err, "update")
	}
	return &shift, nil
}

func (s *ShiftService) Delete(ctx context.Context, id string) error {
	return s.res.delete(ctx, id)
}

// AssignEmployees adds ids to the shift as a single set-union update.
func (s *ShiftService) AssignEmployees(ctx context.Context, id string, employeeIDs []string) (*models.Shift, error) {
	ids := cleanList(employeeIDs)
	if len(ids) == 0 {
		return nil, apperr.Validation("employeeIds must contain at least one id")
	}
	return s.res.addToSet(ctx, id, "employees", ids...)
}

func (s *ShiftService) RemoveEmployee(ctx context.Context, id, employeeID string) (*models.Shift, error) {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return nil, apperr.Validation("employeeId is required")
	}
	return s.res.pull(ctx, id, "employees", employeeID)
}

func (s *ShiftService) Stats(ctx context.Context) (stats.Shifts, error) {
	shifts, err := s.res.all(ctx, query.Filter{})
	if err != nil {
		return stats.Shifts{}, err
	}
	return stats.ShiftStats(shifts), nil
}
