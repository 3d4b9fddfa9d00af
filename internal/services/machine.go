// server/internal/services/machine.go
package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"workforce-ops-api-server/internal/models"
	"workforce-ops-api-server/internal/query"
	"workforce-ops-api-server/internal/stats"
	"workforce-ops-api-server/internal/store"
)

const msgDuplicateMachine = "Machine with this code already exists"

var machineSchema = query.Schema{
	Fields: map[query.Key]query.Field{
		query.KeyDepartment: {Name: "department", Allowed: models.Departments},
		query.KeyStatus:     {Name: "status", Allowed: models.MachineStatuses},
		query.KeyType:       {Name: "type"},
	},
	SearchFields: []string{"machineCode", "name", "type", "operator", "site"},
	Sort:         query.DefaultSort,
}

type MachineInput struct {
	MachineCode     string `json:"machineCode"`
	Name            string `json:"name"`
	Type            string `json:"type"`
	Site            string `json:"site"`
	Department      string `json:"department"`
	Status          string `json:"status"`
	Operator        string `json:"operator"`
	LastMaintenance string `json:"lastMaintenance"`
	NextMaintenance string `json:"nextMaintenance"`
	Notes           string `json:"notes"`
}

func buildMachine(in MachineInput) (models.Machine, error) {
	var m models.Machine
	code, err := required("machineCode", in.MachineCode)
	if err != nil {
		return m, err
	}
	name, err := required("name", in.Name)
	if err != nil {
		return m, err
	}
	status, err := enum("status", in.Status, string(models.MachineOperational), models.MachineStatuses)
	if err != nil {
		return m, err
	}
	dept, err := optionalEnum("department", in.Department, models.Departments)
	if err != nil {
		return m, err
	}
	last, err := parseOptionalDate(in.LastMaintenance)
	if err != nil {
		return m, err
	}
	next, err := parseOptionalDate(in.NextMaintenance)
	if err != nil {
		return m, err
	}
	return models.Machine{
		MachineCode:     strings.ToUpper(code),
		Name:            name,
		Type:            strings.TrimSpace(in.Type),
		Site:            strings.TrimSpace(in.Site),
		Department:      dept,
		Status:          models.MachineStatus(status),
		Operator:        strings.TrimSpace(in.Operator),
		LastMaintenance: last,
		NextMaintenance: next,
		Notes:           strings.TrimSpace(in.Notes),
	}, nil
}

func machineInput(m models.Machine) MachineInput {
	return MachineInput{
		MachineCode: m.MachineCode, Name: m.Name, Type: m.Type, Site: m.Site, Department: m.Department,
		Status: string(m.Status), Operator: m.Operator, LastMaintenance: formatOptionalDate(m.LastMaintenance),
		NextMaintenance: formatOptionalDate(m.NextMaintenance), Notes: m.Notes,
	}
}

type MachineService struct {
	res resource[models.Machine]
	now func() time.Time
}

func NewMachineService(repo store.Repository[models.Machine], log *slog.Logger) *MachineService {
	return &MachineService{
		res: resource[models.Machine]{name: "Machine", repo: repo, schema: machineSchema, log: log},
		now: time.Now,
	}
}

func (s *MachineService) List(ctx context.Context, f query.Filter) ([]models.Machine, query.Page, error) {
	return s.res.list(ctx, f)
}

func (s *MachineService) Get(ctx context.Context, id string) (*models.Machine, error) {
	return s.res.get(ctx, id)
}

func (s *MachineService) Create(ctx context.Context, in MachineInput) (*models.Machine, error) {
	m, err := buildMachine(in)
	if err != nil {
		return nil, err
	}
	if err := s.res.repo.Insert(ctx, &m); err != nil {
		return nil, s.res.duplicate(err, "create", msgDuplicateMachine)
	}
	return &m, nil
}

func (s *MachineService) Update(ctx context.Context, id string, patch []byte) (*models.Machine, error) {
	current, err := s.res.get(ctx, id)
	if err != nil {
		return nil, err
	}
	in, err := merge(machineInput(*current), patch)
	if err != nil {
		return nil, err
	}
	m, err := buildMachine(in)
	if err != nil {
		return nil, err
	}
	m.Base = current.Base
	if err := s.res.repo.Replace(ctx, &m); err != nil {
		return nil, s.res.duplicate(err, "update", msgDuplicateMachine)
	}
	return &m, nil
}

// UpdateStatus chuyển trạng thái máy. Khi máy rời trạng thái maintenance để trở lại
// operational thì lastMaintenance được ghi nhận.
func (s *MachineService) UpdateStatus(ctx context.Context, id, status string) (*models.Machine, error) {
	st, err := enum("status", status, "", models.MachineStatuses)
	if err != nil {
		return nil, err
	}
	m, err := s.res.get(ctx, id)
	if err != nil {
		return nil, err
	}
	next := models.MachineStatus(st)
	if m.Status == next {
		return m, nil
	}
	if m.Status == models.MachineMaintenance && next == models.MachineOperational {
		now := s.now().UTC()
		m.LastMaintenance = &now
	}
	m.Status = next
	if err := s.res.repo.Replace(ctx, m); err != nil {
		return nil, s.res.wrap(err, "update")
	}
	return m, nil
}

func (s *MachineService) Delete(ctx context.Context, id string) error {
	return s.res.delete(ctx, id)
}

func (s *MachineService) Stats(ctx context.Context, f query.Filter) (stats.Machines, error) {
	items, err := s.res.all(ctx, f)
	if err != nil {
		return stats.Machines{}, err
	}
	return stats.MachineStats(items, s.now()), nil
}
