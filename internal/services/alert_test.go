package services

import (
	"context"
	"testing"

	"workforce-ops-api-server/internal/apperr"
	"workforce-ops-api-server/internal/logger"
	"workforce-ops-api-server/internal/models"
	"workforce-ops-api-server/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedEvent struct {
	event   string
	payload any
}

type recorder struct{ events []recordedEvent }

func (r *recorder) Broadcast(event string, payload any) {
	r.events = append(r.events, recordedEvent{event, payload})
}

func TestAlertCreateBroadcasts(t *testing.T) {
	rec := &recorder{}
	svc := NewAlertService(store.NewMemory[models.Alert](), rec, logger.Discard())

	a, err := svc.Create(context.Background(), AlertInput{Title: "Walk-in freezer at -8C", Severity: "critical"})
	require.NoError(t, err)
	require.Len(t, rec.events, 1)
	assert.Equal(t, EventAlertCreated, rec.events[0].event)
	sent, ok := rec.events[0].payload.(models.Alert)
	require.True(t, ok)
	assert.Equal(t, a.ID, sent.ID)

	_, err = svc.Create(context.Background(), AlertInput{Title: "x", Severity: "apocalyptic"})
	requireKind(t, err, apperr.KindValidation)
	assert.Len(t, rec.events, 1)
}

func TestAlertAcknowledgeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := NewAlertService(store.NewMemory[models.Alert](), nil, logger.Discard())
	svc.now = clock

	a, err := svc.Create(ctx, AlertInput{Title: "Generator fuel low"})
	require.NoError(t, err)
	assert.Equal(t, models.SeverityInfo, a.Severity)

	a, err = svc.Acknowledge(ctx, a.ID.Hex(), "lan")
	require.NoError(t, err)
	assert.True(t, a.Acknowledged)
	assert.Equal(t, "lan", a.AcknowledgedBy)

	a, err = svc.Acknowledge(ctx, a.ID.Hex(), "minh")
	require.NoError(t, err)
	assert.Equal(t, "lan", a.AcknowledgedBy)
}
