// server/internal/services/briefing.go
package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"workforce-ops-api-server/internal/apperr"
	"workforce-ops-api-server/internal/models"
	"workforce-ops-api-server/internal/query"
	"workforce-ops-api-server/internal/sequence"
	"workforce-ops-api-server/internal/stats"
	"workforce-ops-api-server/internal/store"
)

const BriefingPrefix = "BRI"

var briefingSchema = query.Schema{
	Fields: map[query.Key]query.Field{
		query.KeyDepartment: {Name: "department", Allowed: models.Departments},
		query.KeyShift:      {Name: "shift", Allowed: models.ShiftPeriods},
	},
	SearchFields: []string{"briefingId", "conductedBy", "site", "topics", "notes"},
	Sort:         query.DefaultSort,
}

type ActionItemInput struct {
	Description string `json:"description"`
	AssignedTo  string `json:"assignedTo"`
	DueDate     string `json:"dueDate"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
}

type BriefingInput struct {
	Date        string            `json:"date"`
	Time        string            `json:"time"`
	ConductedBy string            `json:"conductedBy"`
	Site        string            `json:"site"`
	Department  string            `json:"department"`
	Attendees   int               `json:"attendees"`
	Topics      []string          `json:"topics"`
	KeyPoints   []string          `json:"keyPoints"`
	ActionItems []ActionItemInput `json:"actionItems"`
	Notes       string            `json:"notes"`
	Shift       string            `json:"shift"`
}

// buildBriefing validates the payload and coerces dates. Nothing is uploaded or written
// until it succeeds.
func buildBriefing(in BriefingInput, now time.Time) (models.StaffBriefing, error) {
	var b models.StaffBriefing
	conductedBy, err := required("conductedBy", in.ConductedBy)
	if err != nil {
		return b, err
	}
	site, err := required("site", in.Site)
	if err != nil {
		return b, err
	}
	date, err := dateOr(in.Date, now)
	if err != nil {
		return b, err
	}
	dept, err := optionalEnum("department", in.Department, models.Departments)
	if err != nil {
		return b, err
	}
	shift, err := enum("shift", in.Shift, string(models.ShiftMorning), models.ShiftPeriods)
	if err != nil {
		return b, err
	}
	if in.Attendees < 0 {
		return b, apperr.Validation("attendees cannot be negative")
	}

	items := make([]models.ActionItem, 0, len(in.ActionItems))
	for i, a := range in.ActionItems {
		item, err := buildActionItem(a)
		if err != nil {
			if apperr.KindOf(err) == apperr.KindValidation && !strings.HasPrefix(apperr.MessageOf(err), "Invalid date") {
				return b, apperr.Validation("actionItems[%d]: %s", i, apperr.MessageOf(err))
			}
			return b, err
		}
		items = append(items, item)
	}

	return models.StaffBriefing{
		Date:        date,
		Time:        strings.TrimSpace(in.Time),
		ConductedBy: conductedBy,
		Site:        site,
		Department:  dept,
		Attendees:   in.Attendees,
		Topics:      cleanList(in.Topics),
		KeyPoints:   cleanList(in.KeyPoints),
		ActionItems: items,
		Notes:       strings.TrimSpace(in.Notes),
		Shift:       models.ShiftPeriod(shift),
	}, nil
}

func buildActionItem(a ActionItemInput) (models.ActionItem, error) {
	var item models.ActionItem
	desc, err := required("description", a.Description)
	if err != nil {
		return item, err
	}
	due, err := parseOptionalDate(a.DueDate)
	if err != nil {
		return item, err
	}
	status, err := enum("status", a.Status, string(models.ActionPending), models.ActionItemStatuses)
	if err != nil {
		return item, err
	}
	priority, err := enum("priority", a.Priority, string(models.PriorityMedium), models.Priorities)
	if err != nil {
		return item, err
	}
	return models.ActionItem{
		Description: desc,
		AssignedTo:  strings.TrimSpace(a.AssignedTo),
		DueDate:     due,
		Status:      models.ActionItemStatus(status),
		Priority:    models.Priority(priority),
	}, nil
}

func briefingInput(b models.StaffBriefing) BriefingInput {
	items := make([]ActionItemInput, 0, len(b.ActionItems))
	for _, a := range b.ActionItems {
		items = append(items, ActionItemInput{
			Description: a.Description, AssignedTo: a.AssignedTo, DueDate: formatOptionalDate(a.DueDate),
			Status: string(a.Status), Priority: string(a.Priority),
		})
	}
	return BriefingInput{
		Date: formatDate(b.Date), Time: b.Time, ConductedBy: b.ConductedBy, Site: b.Site,
		Department: b.Department, Attendees: b.Attendees, Topics: b.Topics, KeyPoints: b.KeyPoints,
		ActionItems: items, Notes: b.Notes, Shift: string(b.Shift),
	}
}

type BriefingService struct {
	res    resource[models.StaffBriefing]
	ids    sequence.Generator
	upload uploader
	now    func() time.Time
}

func NewBriefingService(repo store.Repository[models.StaffBriefing], ids sequence.Generator, assets AssetStore, log *slog.Logger) *BriefingService {
	return &BriefingService{
		res:    resource[models.StaffBriefing]{name: "Briefing", repo: repo, schema: briefingSchema, log: log},
		ids:    ids,
		upload: uploader{assets: assets, log: log, now: time.Now},
		now:    time.Now,
	}
}

func (s *BriefingService) List(ctx context.Context, f query.Filter) ([]models.StaffBriefing, query.Page, error) {
	return s.res.list(ctx, f)
}

func (s *BriefingService) Get(ctx context.Context, id string) (*models.StaffBriefing, error) {
	return s.res.get(ctx, id)
}

// Create runs the creation pipeline: validate, upload attachments one by one, assign the
// BRI display id, insert.
func (s *BriefingService) Create(ctx context.Context, in BriefingInput, files []File) (*models.StaffBriefing, error) {
	b, err := buildBriefing(in, s.now())
	if err != nil {
		return nil, err
	}
	b.Attachments = s.upload.attach(ctx, FolderBriefings, files)

	b.BriefingID, err = s.ids.Next(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "failed to generate briefing id")
	}
	if err := s.res.repo.Insert(ctx, &b); err != nil {
		return nil, s.res.wrap(err, "create")
	}
	s.res.log.Info("briefing created", "briefingId", b.BriefingID, "attachments", len(b.Attachments), "files", len(files))
	return &b, nil
}

// Update merges patch over the briefing; newly uploaded files are appended to the
// existing attachments.
func (s *BriefingService) Update(ctx context.Context, id string, patch []byte, files []File) (*models.StaffBriefing, error) {
	current, err := s.res.get(ctx, id)
	if err != nil {
		return nil, err
	}
	in, err := merge(briefingInput(*current), patch)
	if err != nil {
		return nil, err
	}
	b, err := buildBriefing(in, current.Date)
	if err != nil {
		return nil, err
	}
	b.Base = current.Base
	b.BriefingID = current.BriefingID
	b.Attachments = append(current.Attachments, s.upload.attach(ctx, FolderBriefings, files)...)
	if err := s.res.repo.Replace(ctx, &b); err != nil {
		return nil, s.res.wrap(err, "update")
	}
	return &b, nil
}

// UpdateActionItemStatus sets the status of the action item at index. Setting the same
// status twice leaves the briefing unchanged.
func (s *BriefingService) UpdateActionItemStatus(ctx context.Context, id string, index int, status string) (*models.StaffBriefing, error) {
	st, err := enum("status", status, "", models.ActionItemStatuses)
	if err != nil {
		return nil, err
	}
	b, err := s.res.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(b.ActionItems) {
		return nil, apperr.Validation("action item index %d out of range", index)
	}
	if b.ActionItems[index].Status == models.ActionItemStatus(st) {
		return b, nil
	}
	b.ActionItems[index].Status = models.ActionItemStatus(st)
	if err := s.res.repo.Replace(ctx, b); err != nil {
		return nil, s.res.wrap(err, "update")
	}
	return b, nil
}

func (s *BriefingService) Delete(ctx context.Context, id string) error {
	return s.res.delete(ctx, id)
}

func (s *BriefingService) Stats(ctx context.Context, f query.Filter) (stats.Briefings, error) {
	items, err := s.res.all(ctx, f)
	if err != nil {
		return stats.Briefings{}, err
	}
	return stats.BriefingStats(items), nil
}
