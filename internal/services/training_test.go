package services

import (
	"context"
	"testing"

	"workforce-ops-api-server/internal/apperr"
	"workforce-ops-api-server/internal/logger"
	"workforce-ops-api-server/internal/models"
	"workforce-ops-api-server/internal/query"
	"workforce-ops-api-server/internal/sequence"
	"workforce-ops-api-server/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTrainingService() *TrainingService {
	svc, _ := newTrainingServiceWith(&fakeAssets{})
	return svc
}

func newTrainingServiceWith(assets AssetStore) (*TrainingService, *store.Memory[models.TrainingSession]) {
	repo := store.NewMemory[models.TrainingSession]()
	svc := NewTrainingService(repo, sequence.CountBased{Prefix: TrainingPrefix, Source: repo}, assets, logger.Discard())
	svc.now = clock
	svc.upload.now = clock
	return svc, repo
}

func fireSafety() TrainingInput {
	return TrainingInput{Title: "Fire safety", Trainer: "Capt. Hoa", Type: "safety", Date: "2026-04-01", MaxAttendees: 2}
}

func TestTrainingCreateDefaults(t *testing.T) {
	svc := newTrainingService()
	tr, err := svc.Create(context.Background(), TrainingInput{Title: "Knife skills", Trainer: "Chef An"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "TRN001", tr.TrainingID)
	assert.Equal(t, models.TrainingScheduled, tr.Status)
	assert.Equal(t, models.TrainingOther, tr.Type)
	assert.NotNil(t, tr.Feedback)
	assert.Empty(t, tr.Feedback)
}

func TestTrainingValidationWritesNothing(t *testing.T) {
	ctx := context.Background()
	assets := &fakeAssets{}
	svc, repo := newTrainingServiceWith(assets)
	files := []File{{Name: "slides.pdf", Data: []byte("pdf")}}

	in := fireSafety()
	in.Title = ""
	_, err := svc.Create(ctx, in, files)
	requireKind(t, err, apperr.KindValidation)
	assert.Equal(t, "title is required", apperr.MessageOf(err))

	in = fireSafety()
	in.Trainer = "   "
	_, err = svc.Create(ctx, in, files)
	requireKind(t, err, apperr.KindValidation)
	assert.Equal(t, "trainer is required", apperr.MessageOf(err))

	n, err := repo.Count(ctx, query.Query{})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, assets.calls)
}

func TestTrainingCreateKeepsSuccessfulUploadsOnly(t *testing.T) {
	assets := &fakeAssets{fail: map[string]bool{"broken.pdf": true}}
	svc, repo := newTrainingServiceWith(assets)

	files := []File{
		{Name: "slides.pdf", MIMEType: "application/pdf", Data: []byte("pdf")},
		{Name: "broken.pdf", MIMEType: "application/pdf", Data: []byte("x")},
		{Name: "exit-map.png", MIMEType: "image/png", Data: []byte("png")},
	}
	tr, err := svc.Create(context.Background(), fireSafety(), files)
	require.NoError(t, err)

	require.Len(t, tr.Attachments, 2)
	assert.Equal(t, "slides.pdf", tr.Attachments[0].Name)
	assert.Equal(t, "https://cdn.example.com/trainings/slides.pdf", tr.Attachments[0].URL)
	assert.Equal(t, models.AttachmentImage, tr.Attachments[1].Type)
	assert.Equal(t, "https://cdn.example.com/trainings/exit-map.png", tr.Attachments[1].URL)
	assert.Equal(t, []string{"slides.pdf", "broken.pdf", "exit-map.png"}, assets.calls)

	stored, err := repo.FindByID(context.Background(), tr.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Attachments, 2)
}

func TestTrainingRegisterAttendee(t *testing.T) {
	ctx := context.Background()
	svc := newTrainingService()
	tr, err := svc.Create(ctx, fireSafety(), nil)
	require.NoError(t, err)
	id := tr.ID.Hex()

	_, err = svc.RegisterAttendee(ctx, id, "e1")
	require.NoError(t, err)
	tr, err = svc.RegisterAttendee(ctx, id, "e1")
	require.NoError(t, err)
	assert.Equal(t, []string{"e1"}, tr.Attendees)

	_, err = svc.RegisterAttendee(ctx, id, "e2")
	require.NoError(t, err)
	_, err = svc.RegisterAttendee(ctx, id, "e3")
	requireKind(t, err, apperr.KindValidation)
	assert.Equal(t, "Training session is full", apperr.MessageOf(err))
}

func TestTrainingRegisterRejectsClosedSession(t *testing.T) {
	ctx := context.Background()
	svc := newTrainingService()
	tr, err := svc.Create(ctx, fireSafety(), nil)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, tr.ID.Hex(), "cancelled")
	require.NoError(t, err)

	_, err = svc.RegisterAttendee(ctx, tr.ID.Hex(), "e1")
	requireKind(t, err, apperr.KindValidation)
}

func TestTrainingFeedbackReplacesSameEmployee(t *testing.T) {
	ctx := context.Background()
	svc := newTrainingService()
	tr, err := svc.Create(ctx, fireSafety(), nil)
	require.NoError(t, err)
	id := tr.ID.Hex()

	_, err = svc.AddFeedback(ctx, id, FeedbackInput{EmployeeID: "e1", Rating: 3})
	require.NoError(t, err)
	_, err = svc.AddFeedback(ctx, id, FeedbackInput{EmployeeID: "e2", Rating: 4})
	require.NoError(t, err)
	tr, err = svc.AddFeedback(ctx, id, FeedbackInput{EmployeeID: "e1", Rating: 5, Comment: "much better"})
	require.NoError(t, err)
	require.Len(t, tr.Feedback, 2)
	assert.Equal(t, 5, tr.Feedback[0].Rating)
	assert.Equal(t, "much better", tr.Feedback[0].Comment)

	_, err = svc.AddFeedback(ctx, id, FeedbackInput{EmployeeID: "e3", Rating: 6})
	requireKind(t, err, apperr.KindValidation)
}

func TestTrainingUpdateKeepsFeedbackAndID(t *testing.T) {
	ctx := context.Background()
	svc := newTrainingService()
	tr, err := svc.Create(ctx, fireSafety(), nil)
	require.NoError(t, err)
	_, err = svc.AddFeedback(ctx, tr.ID.Hex(), FeedbackInput{EmployeeID: "e1", Rating: 4})
	require.NoError(t, err)

	up, err := svc.Update(ctx, tr.ID.Hex(), []byte(`{"location":"Hall B"}`), []File{{Name: "slides.pdf", Data: []byte("pdf")}})
	require.NoError(t, err)
	assert.Equal(t, "TRN001", up.TrainingID)
	assert.Equal(t, "Hall B", up.Location)
	assert.Len(t, up.Feedback, 1)
	assert.Len(t, up.Attachments, 1)

	_, err = svc.Update(ctx, tr.ID.Hex(), []byte(`{"date":"31/12/2026"}`), nil)
	requireKind(t, err, apperr.KindValidation)
}
