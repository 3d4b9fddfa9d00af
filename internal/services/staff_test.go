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

func TestRosterRequiresEmployeeAndShift(t *testing.T) {
	ctx := context.Background()
	svc := NewRosterService(store.NewMemory[models.RosterEntry](), logger.Discard())

	_, err := svc.Create(ctx, RosterInput{Shift: "morning"})
	requireKind(t, err, apperr.KindValidation)
	_, err = svc.Create(ctx, RosterInput{EmployeeID: "e1"})
	requireKind(t, err, apperr.KindValidation)

	r, err := svc.Create(ctx, RosterInput{EmployeeID: "e1", Shift: "night", Date: "2026-05-02"})
	require.NoError(t, err)
	assert.Equal(t, models.RosterScheduled, r.Status)

	r, err = svc.Update(ctx, r.ID.Hex(), []byte(`{"site":"Airport"}`))
	require.NoError(t, err)
	assert.Equal(t, "Airport", r.Site)
	assert.Equal(t, models.ShiftNight, r.Shift)
}

func TestSupervisorEmailUniqueAndTeam(t *testing.T) {
	ctx := context.Background()
	svc := NewSupervisorService(store.NewMemory[models.Supervisor]("email"), logger.Discard())

	sv, err := svc.Create(ctx, SupervisorInput{Name: "Ha Tran", Email: "Ha.Tran@Ops.local"})
	require.NoError(t, err)
	assert.Equal(t, "ha.tran@ops.local", sv.Email)

	_, err = svc.Create(ctx, SupervisorInput{Name: "Someone", Email: "ha.tran@ops.local"})
	requireKind(t, err, apperr.KindDuplicate)
	assert.Equal(t, "Supervisor with this email already exists", apperr.MessageOf(err))

	_, err = svc.Create(ctx, SupervisorInput{Name: "Bad", Email: "not-an-email"})
	requireKind(t, err, apperr.KindValidation)

	sv, err = svc.AssignEmployees(ctx, sv.ID.Hex(), []string{"e1", "e2", "e1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"e1", "e2"}, sv.Employees)
	sv, err = svc.RemoveEmployee(ctx, sv.ID.Hex(), "e1")
	require.NoError(t, err)
	assert.Equal(t, []string{"e2"}, sv.Employees)
}

func TestMachineStatusTransitions(t *testing.T) {
	ctx := context.Background()
	svc := NewMachineService(store.NewMemory[models.Machine]("machineCode"), logger.Discard())
	svc.now = clock

	m, err := svc.Create(ctx, MachineInput{MachineCode: "dw-01", Name: "Dishwasher", Status: "maintenance"})
	require.NoError(t, err)
	assert.Equal(t, "DW-01", m.MachineCode)
	assert.Nil(t, m.LastMaintenance)

	_, err = svc.Create(ctx, MachineInput{MachineCode: "DW-01", Name: "Other"})
	requireKind(t, err, apperr.KindDuplicate)

	m, err = svc.UpdateStatus(ctx, m.ID.Hex(), "operational")
	require.NoError(t, err)
	require.NotNil(t, m.LastMaintenance)
	assert.Equal(t, fixedNow, *m.LastMaintenance)

	_, err = svc.UpdateStatus(ctx, m.ID.Hex(), "exploded")
	requireKind(t, err, apperr.KindValidation)
}
