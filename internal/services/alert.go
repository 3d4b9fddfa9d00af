// server/internal/services/alert.go
package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"workforce-ops-api-server/internal/models"
	"workforce-ops-api-server/internal/query"
	"workforce-ops-api-server/internal/store"
)

const EventAlertCreated = "alert_created"

var alertSchema = query.Schema{
	Fields: map[query.Key]query.Field{
		query.KeyDepartment: {Name: "department", Allowed: models.Departments},
		query.KeyType:       {Name: "severity", Allowed: models.AlertSeverities},
	},
	SearchFields: []string{"title", "message", "site"},
	Sort:         []query.SortKey{{Field: "createdAt", Desc: true}},
}

// Notifier pushes realtime events to connected clients.
type Notifier interface {
	Broadcast(event string, payload any)
}

type AlertInput struct {
	Title      string `json:"title"`
	Message    string `json:"message"`
	Severity   string `json:"severity"`
	Site       string `json:"site"`
	Department string `json:"department"`
}

func buildAlert(in AlertInput) (models.Alert, error) {
	var a models.Alert
	title, err := required("title", in.Title)
	if err != nil {
		return a, err
	}
	severity, err := enum("severity", in.Severity, string(models.SeverityInfo), models.AlertSeverities)
	if err != nil {
		return a, err
	}
	dept, err := optionalEnum("department", in.Department, models.Departments)
	if err != nil {
		return a, err
	}
	return models.Alert{
		Title:      title,
		Message:    strings.TrimSpace(in.Message),
		Severity:   models.AlertSeverity(severity),
		Site:       strings.TrimSpace(in.Site),
		Department: dept,
	}, nil
}

type AlertService struct {
	res    resource[models.Alert]
	notify Notifier
	now    func() time.Time
}

func NewAlertService(repo store.Repository[models.Alert], notify Notifier, log *slog.Logger) *AlertService {
	return &AlertService{
		res:    resource[models.Alert]{name: "Alert", repo: repo, schema: alertSchema, log: log},
		notify: notify,
		now:    time.Now,
	}
}

func (s *AlertService) List(ctx context.Context, f query.Filter) ([]models.Alert, query.Page, error) {
	return s.res.list(ctx, f)
}

func (s *AlertService) Get(ctx context.Context, id string) (*models.Alert, error) {
	return s.res.get(ctx, id)
}

// Create lưu alert rồi broadcast cho mọi client websocket đang kết nối.
func (s *AlertService) Create(ctx context.Context, in AlertInput) (*models.Alert, error) {
	a, err := buildAlert(in)
	if err != nil {
		return nil, err
	}
	if err := s.res.repo.Insert(ctx, &a); err != nil {
		return nil, s.res.wrap(err, "create")
	}
	if s.notify != nil {
		s.notify.Broadcast(EventAlertCreated, a)
	}
	return &a, nil
}

// Acknowledge is idempotent: the first acknowledgement wins and later calls return the
// alert unchanged.
func (s *AlertService) Acknowledge(ctx context.Context, id, user string) (*models.Alert, error) {
	a, err := s.res.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Acknowledged {
		return a, nil
	}
	now := s.now().UTC()
	a.Acknowledged = true
	a.AcknowledgedBy = userOrSystem(user)
	a.AcknowledgedAt = &now
	if err := s.res.repo.Replace(ctx, a); err != nil {
		return nil, s.res.wrap(err, "update")
	}
	return a, nil
}

func (s *AlertService) Delete(ctx context.Context, id string) error {
	return s.res.delete(ctx, id)
}
