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

func newBriefingService(assets AssetStore) (*BriefingService, *store.Memory[models.StaffBriefing]) {
	repo := store.NewMemory[models.StaffBriefing]()
	svc := NewBriefingService(repo, sequence.CountBased{Prefix: BriefingPrefix, Source: repo}, assets, logger.Discard())
	svc.now = clock
	svc.upload.now = clock
	return svc, repo
}

func validBriefing() BriefingInput {
	return BriefingInput{
		ConductedBy: "Lan Pham",
		Site:        "Riverside Hotel",
		Department:  "kitchen",
		Attendees:   12,
		Topics:      []string{"Hygiene", " Hygiene ", "Allergens"},
		ActionItems: []ActionItemInput{{Description: "Label fridge shelves", AssignedTo: "Minh"}},
	}
}

func TestBriefingCreateAssignsNextDisplayID(t *testing.T) {
	ctx := context.Background()
	svc, repo := newBriefingService(&fakeAssets{})
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Insert(ctx, &models.StaffBriefing{ConductedBy: "seed", Site: "x"}))
	}

	b, err := svc.Create(ctx, validBriefing(), nil)
	require.NoError(t, err)
	assert.Equal(t, "BRI006", b.BriefingID)
	assert.Equal(t, fixedNow, b.Date)
	assert.Equal(t, models.ShiftMorning, b.Shift)
	assert.Equal(t, []string{"Hygiene", "Allergens"}, b.Topics)
	require.Len(t, b.ActionItems, 1)
	assert.Equal(t, models.ActionPending, b.ActionItems[0].Status)
	assert.Equal(t, models.PriorityMedium, b.ActionItems[0].Priority)
}

func TestBriefingCreateKeepsSuccessfulUploadsOnly(t *testing.T) {
	assets := &fakeAssets{fail: map[string]bool{"broken.pdf": true}}
	svc, _ := newBriefingService(assets)

	files := []File{
		{Name: "menu.pdf", MIMEType: "application/pdf", Data: make([]byte, 2516582)},
		{Name: "broken.pdf", MIMEType: "application/pdf", Data: []byte("x")},
		{Name: "empty.png", MIMEType: "image/png"},
		{Name: "line.jpg", MIMEType: "image/jpeg", Data: []byte("jpg")},
	}
	b, err := svc.Create(context.Background(), validBriefing(), files)
	require.NoError(t, err)

	require.Len(t, b.Attachments, 2)
	assert.Equal(t, "menu.pdf", b.Attachments[0].Name)
	assert.Equal(t, "2.4 MB", b.Attachments[0].Size)
	assert.Equal(t, models.AttachmentDocument, b.Attachments[0].Type)
	assert.Equal(t, models.AttachmentImage, b.Attachments[1].Type)
	assert.Equal(t, fixedNow, b.Attachments[1].UploadedAt)
	// file rỗng không được gửi lên store
	assert.Equal(t, []string{"menu.pdf", "broken.pdf", "line.jpg"}, assets.calls)
}

func TestBriefingCreateWithDisabledAssetStore(t *testing.T) {
	svc, _ := newBriefingService(DisabledAssets{})
	b, err := svc.Create(context.Background(), validBriefing(), []File{{Name: "a.pdf", Data: []byte("a")}})
	require.NoError(t, err)
	assert.Empty(t, b.Attachments)
}

func TestBriefingValidationWritesNothing(t *testing.T) {
	ctx := context.Background()
	assets := &fakeAssets{}
	svc, repo := newBriefingService(assets)

	in := validBriefing()
	in.Site = "  "
	_, err := svc.Create(ctx, in, []File{{Name: "a.pdf", Data: []byte("a")}})
	requireKind(t, err, apperr.KindValidation)

	in = validBriefing()
	in.Date = "next tuesday"
	_, err = svc.Create(ctx, in, nil)
	requireKind(t, err, apperr.KindValidation)
	assert.Equal(t, "Invalid date: next tuesday", apperr.MessageOf(err))

	in = validBriefing()
	in.Department = "spa"
	_, err = svc.Create(ctx, in, nil)
	requireKind(t, err, apperr.KindValidation)

	n, err := repo.Count(ctx, query.Query{})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, assets.calls)
}

func TestBriefingBadActionItemDueDateFailsBeforeUpload(t *testing.T) {
	ctx := context.Background()
	assets := &fakeAssets{}
	svc, repo := newBriefingService(assets)

	in := validBriefing()
	in.ActionItems = append(in.ActionItems, ActionItemInput{Description: "Restock gloves", DueDate: "someday"})
	_, err := svc.Create(ctx, in, []File{{Name: "plan.pdf", Data: []byte("pdf")}})
	requireKind(t, err, apperr.KindValidation)
	assert.Equal(t, "Invalid date: someday", apperr.MessageOf(err))

	n, err := repo.Count(ctx, query.Query{})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, assets.calls)
}

func TestBriefingUpdateMergesAndAppendsAttachments(t *testing.T) {
	ctx := context.Background()
	svc, _ := newBriefingService(&fakeAssets{})
	created, err := svc.Create(ctx, validBriefing(), []File{{Name: "one.pdf", Data: []byte("1")}})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID.Hex(), []byte(`{"notes":"bring aprons","shift":"night"}`),
		[]File{{Name: "two.pdf", Data: []byte("2")}})
	require.NoError(t, err)
	assert.Equal(t, created.BriefingID, updated.BriefingID)
	assert.Equal(t, "bring aprons", updated.Notes)
	assert.Equal(t, models.ShiftNight, updated.Shift)
	assert.Equal(t, created.ConductedBy, updated.ConductedBy)
	assert.Len(t, updated.Attachments, 2)

	_, err = svc.Update(ctx, created.ID.Hex(), []byte(`{"shift":"afternoon"}`), nil)
	requireKind(t, err, apperr.KindValidation)
}

func TestBriefingActionItemStatusIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newBriefingService(&fakeAssets{})
	b, err := svc.Create(ctx, validBriefing(), nil)
	require.NoError(t, err)

	_, err = svc.UpdateActionItemStatus(ctx, b.ID.Hex(), 0, "completed")
	require.NoError(t, err)
	first, err := svc.Get(ctx, b.ID.Hex())
	require.NoError(t, err)

	second, err := svc.UpdateActionItemStatus(ctx, b.ID.Hex(), 0, "completed")
	require.NoError(t, err)
	assert.Equal(t, models.ActionCompleted, second.ActionItems[0].Status)
	assert.Equal(t, first.UpdatedAt, second.UpdatedAt)

	_, err = svc.UpdateActionItemStatus(ctx, b.ID.Hex(), 3, "completed")
	requireKind(t, err, apperr.KindValidation)
	_, err = svc.UpdateActionItemStatus(ctx, b.ID.Hex(), 0, "done")
	requireKind(t, err, apperr.KindValidation)
}

func TestBriefingGetUnknownOrMalformedID(t *testing.T) {
	svc, _ := newBriefingService(&fakeAssets{})
	_, err := svc.Get(context.Background(), "not-an-id")
	requireKind(t, err, apperr.KindNotFound)
	_, err = svc.Get(context.Background(), "65f0c0ffee0000000000abcd")
	requireKind(t, err, apperr.KindNotFound)
	assert.Equal(t, "Briefing not found", apperr.MessageOf(err))
}

func TestBriefingListFiltersByDepartment(t *testing.T) {
	ctx := context.Background()
	svc, _ := newBriefingService(&fakeAssets{})
	_, err := svc.Create(ctx, validBriefing(), nil)
	require.NoError(t, err)
	other := validBriefing()
	other.Department = "security"
	_, err = svc.Create(ctx, other, nil)
	require.NoError(t, err)

	items, page, err := svc.List(ctx, query.Filter{Department: "security", Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(1), page.Total)

	st, err := svc.Stats(ctx, query.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 2, st.TotalBriefings)
}
