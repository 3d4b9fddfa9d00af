// server/internal/services/staff.go
package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"workforce-ops-api-server/internal/apperr"
	"workforce-ops-api-server/internal/models"
	"workforce-ops-api-server/internal/query"
	"workforce-ops-api-server/internal/store"
)

const msgDuplicateSupervisor = "Supervisor with this email already exists"

var (
	rosterSchema = query.Schema{
		Fields: map[query.Key]query.Field{
			query.KeyDepartment: {Name: "department", Allowed: models.Departments},
			query.KeyShift:      {Name: "shift", Allowed: models.ShiftPeriods},
			query.KeyStatus:     {Name: "status", Allowed: models.RosterStatuses},
		},
		SearchFields: []string{"employeeName", "employeeId", "site"},
		Sort:         query.DefaultSort,
	}
	supervisorSchema = query.Schema{
		Fields: map[query.Key]query.Field{
			query.KeyDepartment: {Name: "department", Allowed: models.Departments},
			query.KeyStatus:     {Name: "status", Allowed: models.SupervisorStatuses},
		},
		SearchFields: []string{"name", "email", "phone", "site"},
		Sort:         []query.SortKey{{Field: "createdAt", Desc: true}},
	}
)

// --- Roster ---

type RosterInput struct {
	EmployeeID   string `json:"employeeId"`
	EmployeeName string `json:"employeeName"`
	ShiftID      string `json:"shiftId"`
	Shift        string `json:"shift"`
	Date         string `json:"date"`
	Site         string `json:"site"`
	Department   string `json:"department"`
	Status       string `json:"status"`
	Notes        string `json:"notes"`
}

func buildRoster(in RosterInput, now time.Time) (models.RosterEntry, error) {
	var r models.RosterEntry
	employeeID, err := required("employeeId", in.EmployeeID)
	if err != nil {
		return r, err
	}
	shift, err := enum("shift", in.Shift, "", models.ShiftPeriods)
	if err != nil {
		return r, err
	}
	date, err := dateOr(in.Date, now)
	if err != nil {
		return r, err
	}
	dept, err := optionalEnum("department", in.Department, models.Departments)
	if err != nil {
		return r, err
	}
	status, err := enum("status", in.Status, string(models.RosterScheduled), models.RosterStatuses)
	if err != nil {
		return r, err
	}
	return models.RosterEntry{
		EmployeeID:   employeeID,
		EmployeeName: strings.TrimSpace(in.EmployeeName),
		ShiftID:      strings.TrimSpace(in.ShiftID),
		Shift:        models.ShiftPeriod(shift),
		Date:         date,
		Site:         strings.TrimSpace(in.Site),
		Department:   dept,
		Status:       models.RosterStatus(status),
		Notes:        strings.TrimSpace(in.Notes),
	}, nil
}

func rosterInput(r models.RosterEntry) RosterInput {
	return RosterInput{
		EmployeeID: r.EmployeeID, EmployeeName: r.EmployeeName, ShiftID: r.ShiftID, Shift: string(r.Shift),
		Date: formatDate(r.Date), Site: r.Site, Department: r.Department, Status: string(r.Status), Notes: r.Notes,
	}
}

type RosterService struct {
	res resource[models.RosterEntry]
	now func() time.Time
}

func NewRosterService(repo store.Repository[models.RosterEntry], log *slog.Logger) *RosterService {
	return &RosterService{
		res: resource[models.RosterEntry]{name: "Roster entry", repo: repo, schema: rosterSchema, log: log},
		now: time.Now,
	}
}

func (s *RosterService) List(ctx context.Context, f query.Filter) ([]models.RosterEntry, query.Page, error) {
	return s.res.list(ctx, f)
}

func (s *RosterService) Get(ctx context.Context, id string) (*models.RosterEntry, error) {
	return s.res.get(ctx, id)
}

func (s *RosterService) Create(ctx context.Context, in RosterInput) (*models.RosterEntry, error) {
	r, err := buildRoster(in, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.res.repo.Insert(ctx, &r); err != nil {
		return nil, s.res.wrap(err, "create")
	}
	return &r, nil
}

func (s *RosterService) Update(ctx context.Context, id string, patch []byte) (*models.RosterEntry, error) {
	current, err := s.res.get(ctx, id)
	if err != nil {
		return nil, err
	}
	in, err := merge(rosterInput(*current), patch)
	if err != nil {
		return nil, err
	}
	r, err := buildRoster(in, current.Date)
	if err != nil {
		return nil, err
	}
	r.Base = current.Base
	if err := s.res.repo.Replace(ctx, &r); err != nil {
		return nil, s.res.wrap(err, "update")
	}
	return &r, nil
}

func (s *RosterService) UpdateStatus(ctx context.Context, id, status string) (*models.RosterEntry, error) {
	st, err := enum("status", status, "", models.RosterStatuses)
	if err != nil {
		return nil, err
	}
	r, err := s.res.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.Status == models.RosterStatus(st) {
		return r, nil
	}
	r.Status = models.RosterStatus(st)
	if err := s.res.repo.Replace(ctx, r); err != nil {
		return nil, s.res.wrap(err, "update")
	}
	return r, nil
}

func (s *RosterService) Delete(ctx context.Context, id string) error {
	return s.res.delete(ctx, id)
}

// --- Supervisors ---

type SupervisorInput struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone"`
	Site       string   `json:"site"`
	Department string   `json:"department"`
	Status     string   `json:"status"`
	Employees  []string `json:"employees"`
}

func buildSupervisor(in SupervisorInput) (models.Supervisor, error) {
	var sv models.Supervisor
	name, err := required("name", in.Name)
	if err != nil {
		return sv, err
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return sv, err
	}
	dept, err := optionalEnum("department", in.Department, models.Departments)
	if err != nil {
		return sv, err
	}
	status, err := enum("status", in.Status, string(models.SupervisorActive), models.SupervisorStatuses)
	if err != nil {
		return sv, err
	}
	return models.Supervisor{
		Name:       name,
		Email:      email,
		Phone:      strings.TrimSpace(in.Phone),
		Site:       strings.TrimSpace(in.Site),
		Department: dept,
		Status:     models.SupervisorStatus(status),
		Employees:  cleanList(in.Employees),
	}, nil
}

func supervisorInput(sv models.Supervisor) SupervisorInput {
	return SupervisorInput{
		Name: sv.Name, Email: sv.Email, Phone: sv.Phone, Site: sv.Site, Department: sv.Department,
		Status: string(sv.Status), Employees: sv.Employees,
	}
}

type SupervisorService struct {
	res resource[models.Supervisor]
}

func NewSupervisorService(repo store.Repository[models.Supervisor], log *slog.Logger) *SupervisorService {
	return &SupervisorService{res: resource[models.Supervisor]{name: "Supervisor", repo: repo, schema: supervisorSchema, log: log}}
}

func (s *SupervisorService) List(ctx context.Context, f query.Filter) ([]models.Supervisor, query.Page, error) {
	return s.res.list(ctx, f)
}

func (s *SupervisorService) Get(ctx context.Context, id string) (*models.Supervisor, error) {
	return s.res.get(ctx, id)
}

func (s *SupervisorService) Create(ctx context.Context, in SupervisorInput) (*models.Supervisor, error) {
	sv, err := buildSupervisor(in)
	if err != nil {
		return nil, err
	}
	if err := s.res.repo.Insert(ctx, &sv); err != nil {
		return nil, s.res.duplicate(err, "create", msgDuplicateSupervisor)
	}
	return &sv, nil
}

func (s *SupervisorService) Update(ctx context.Context, id string, patch []byte) (*models.Supervisor, error) {
	current, err := s.res.get(ctx, id)
	if err != nil {
		return nil, err
	}
	in, err := merge(supervisorInput(*current), patch)
	if err != nil {
		return nil, err
	}
	sv, err := buildSupervisor(in)
	if err != nil {
		return nil, err
	}
	sv.Base = current.Base
	if err := s.res.repo.Replace(ctx, &sv); err != nil {
		return nil, s.res.duplicate(err, "update", msgDuplicateSupervisor)
	}
	return &sv, nil
}

func (s *SupervisorService) AssignEmployees(ctx context.Context, id string, employeeIDs []string) (*models.Supervisor, error) {
	ids := cleanList(employeeIDs)
	if len(ids) == 0 {
		return nil, apperr.Validation("employeeIds must contain at least one id")
	}
	return s.res.addToSet(ctx, id, "employees", ids...)
}

func (s *SupervisorService) RemoveEmployee(ctx context.Context, id, employeeID string) (*models.Supervisor, error) {
	employeeID, err := required("employeeId", employeeID)
	if err != nil {
		return nil, err
	}
	return s.res.pull(ctx, id, "employees", employeeID)
}

func (s *SupervisorService) Delete(ctx context.Context, id string) error {
	return s.res.delete(ctx, id)
}

func normalizeEmail(v string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(v))
	if email == "" {
		return "", apperr.Validation("email is required")
	}
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 || strings.Count(email, "@") != 1 {
		return "", apperr.Validation("invalid email: %s", v)
	}
	return email, nil
}
