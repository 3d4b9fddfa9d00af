// server/internal/services/training.go
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

const TrainingPrefix = "TRN"

var trainingSchema = query.Schema{
	Fields: map[query.Key]query.Field{
		query.KeyDepartment: {Name: "department", Allowed: models.Departments},
		query.KeyStatus:     {Name: "status", Allowed: models.TrainingStatuses},
		query.KeyType:       {Name: "type", Allowed: models.TrainingTypes},
	},
	SearchFields: []string{"trainingId", "title", "trainer", "description", "site", "location"},
	Sort:         query.DefaultSort,
}

type TrainingInput struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Type         string   `json:"type"`
	Date         string   `json:"date"`
	Time         string   `json:"time"`
	Duration     string   `json:"duration"`
	Trainer      string   `json:"trainer"`
	Supervisor   string   `json:"supervisor"`
	Site         string   `json:"site"`
	Department   string   `json:"department"`
	Attendees    []string `json:"attendees"`
	MaxAttendees int      `json:"maxAttendees"`
	Status       string   `json:"status"`
	Location     string   `json:"location"`
	Objectives   []string `json:"objectives"`
}

type FeedbackInput struct {
	EmployeeID string `json:"employeeId"`
	Name       string `json:"name"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}

func buildTraining(in TrainingInput, now time.Time) (models.TrainingSession, error) {
	var t models.TrainingSession
	title, err := required("title", in.Title)
	if err != nil {
		return t, err
	}
	trainer, err := required("trainer", in.Trainer)
	if err != nil {
		return t, err
	}
	date, err := dateOr(in.Date, now)
	if err != nil {
		return t, err
	}
	typ, err := enum("type", in.Type, string(models.TrainingOther), models.TrainingTypes)
	if err != nil {
		return t, err
	}
	status, err := enum("status", in.Status, string(models.TrainingScheduled), models.TrainingStatuses)
	if err != nil {
		return t, err
	}
	dept, err := optionalEnum("department", in.Department, models.Departments)
	if err != nil {
		return t, err
	}
	attendees := cleanList(in.Attendees)
	switch {
	case in.MaxAttendees < 0:
		return t, apperr.Validation("maxAttendees cannot be negative")
	case in.MaxAttendees > 0 && len(attendees) > in.MaxAttendees:
		return t, apperr.Validation("attendees exceed maxAttendees (%d)", in.MaxAttendees)
	}

	return models.TrainingSession{
		Title:        title,
		Description:  strings.TrimSpace(in.Description),
		Type:         models.TrainingType(typ),
		Date:         date,
		Time:         strings.TrimSpace(in.Time),
		Duration:     strings.TrimSpace(in.Duration),
		Trainer:      trainer,
		Supervisor:   strings.TrimSpace(in.Supervisor),
		Site:         strings.TrimSpace(in.Site),
		Department:   dept,
		Attendees:    attendees,
		MaxAttendees: in.MaxAttendees,
		Status:       models.TrainingStatus(status),
		Location:     strings.TrimSpace(in.Location),
		Objectives:   cleanList(in.Objectives),
	}, nil
}

func trainingInput(t models.TrainingSession) TrainingInput {
	return TrainingInput{
		Title: t.Title, Description: t.Description, Type: string(t.Type), Date: formatDate(t.Date),
		Time: t.Time, Duration: t.Duration, Trainer: t.Trainer, Supervisor: t.Supervisor, Site: t.Site,
		Department: t.Department, Attendees: t.Attendees, MaxAttendees: t.MaxAttendees,
		Status: string(t.Status), Location: t.Location, Objectives: t.Objectives,
	}
}

type TrainingService struct {
	res    resource[models.TrainingSession]
	ids    sequence.Generator
	upload uploader
	now    func() time.Time
}

func NewTrainingService(repo store.Repository[models.TrainingSession], ids sequence.Generator, assets AssetStore, log *slog.Logger) *TrainingService {
	return &TrainingService{
		res:    resource[models.TrainingSession]{name: "Training session", repo: repo, schema: trainingSchema, log: log},
		ids:    ids,
		upload: uploader{assets: assets, log: log, now: time.Now},
		now:    time.Now,
	}
}

func (s *TrainingService) List(ctx context.Context, f query.Filter) ([]models.TrainingSession, query.Page, error) {
	return s.res.list(ctx, f)
}

func (s *TrainingService) Get(ctx context.Context, id string) (*models.TrainingSession, error) {
	return s.res.get(ctx, id)
}

// Create: validate, upload, assign TRN display id, insert.
func (s *TrainingService) Create(ctx context.Context, in TrainingInput, files []File) (*models.TrainingSession, error) {
	t, err := buildTraining(in, s.now())
	if err != nil {
		return nil, err
	}
	t.Attachments = s.upload.attach(ctx, FolderTrainings, files)
	t.Feedback = []models.Feedback{}

	t.TrainingID, err = s.ids.Next(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "failed to generate training id")
	}
	if err := s.res.repo.Insert(ctx, &t); err != nil {
		return nil, s.res.wrap(err, "create")
	}
	s.res.log.Info("training session created", "trainingId", t.TrainingID, "attachments", len(t.Attachments), "files", len(files))
	return &t, nil
}

func (s *TrainingService) Update(ctx context.Context, id string, patch []byte, files []File) (*models.TrainingSession, error) {
	current, err := s.res.get(ctx, id)
	if err != nil {
		return nil, err
	}
	in, err := merge(trainingInput(*current), patch)
	if err != nil {
		return nil, err
	}
	t, err := buildTraining(in, current.Date)
	if err != nil {
		return nil, err
	}
	t.Base = current.Base
	t.TrainingID = current.TrainingID
	t.Feedback = current.Feedback
	t.Attachments = append(current.Attachments, s.upload.attach(ctx, FolderTrainings, files)...)
	if err := s.res.repo.Replace(ctx, &t); err != nil {
		return nil, s.res.wrap(err, "update")
	}
	return &t, nil
}

// UpdateStatus is idempotent: setting the current status again is a no-op.
func (s *TrainingService) UpdateStatus(ctx context.Context, id, status string) (*models.TrainingSession, error) {
	st, err := enum("status", status, "", models.TrainingStatuses)
	if err != nil {
		return nil, err
	}
	t, err := s.res.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Status == models.TrainingStatus(st) {
		return t, nil
	}
	t.Status = models.TrainingStatus(st)
	if err := s.res.repo.Replace(ctx, t); err != nil {
		return nil, s.res.wrap(err, "update")
	}
	return t, nil
}

// AddFeedback appends a rating (1-5). A second submission by the same employee replaces the
// first one.
func (s *TrainingService) AddFeedback(ctx context.Context, id string, in FeedbackInput) (*models.TrainingSession, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, apperr.Validation("rating must be between 1 and 5")
	}
	employeeID, err := required("employeeId", in.EmployeeID)
	if err != nil {
		return nil, err
	}
	t, err := s.res.get(ctx, id)
	if err != nil {
		return nil, err
	}
	fb := models.Feedback{
		EmployeeID:  employeeID,
		Name:        strings.TrimSpace(in.Name),
		Rating:      in.Rating,
		Comment:     strings.TrimSpace(in.Comment),
		SubmittedAt: s.now().UTC(),
	}
	replaced := false
	for i := range t.Feedback {
		if t.Feedback[i].EmployeeID == employeeID {
			t.Feedback[i] = fb
			replaced = true
		}
	}
	if !replaced {
		t.Feedback = append(t.Feedback, fb)
	}
	if err := s.res.repo.Replace(ctx, t); err != nil {
		return nil, s.res.wrap(err, "update")
	}
	return t, nil
}

// RegisterAttendee adds employeeID with a set-union update, refusing when the session is full.
func (s *TrainingService) RegisterAttendee(ctx context.Context, id, employeeID string) (*models.TrainingSession, error) {
	employeeID, err := required("employeeId", employeeID)
	if err != nil {
		return nil, err
	}
	t, err := s.res.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if models.OneOf(employeeID, t.Attendees) {
		return t, nil
	}
	if t.Status == models.TrainingCancelled || t.Status == models.TrainingCompleted {
		return nil, apperr.Validation("cannot register for a %s training session", t.Status)
	}
	if t.MaxAttendees > 0 && len(t.Attendees) >= t.MaxAttendees {
		return nil, apperr.Validation("Training session is full")
	}
	return s.res.addToSet(ctx, id, "attendees", employeeID)
}

func (s *TrainingService) Delete(ctx context.Context, id string) error {
	return s.res.delete(ctx, id)
}

func (s *TrainingService) Stats(ctx context.Context, f query.Filter) (stats.Trainings, error) {
	items, err := s.res.all(ctx, f)
	if err != nil {
		return stats.Trainings{}, err
	}
	return stats.TrainingStats(items, s.now()), nil
}
