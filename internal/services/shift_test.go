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

func newShiftService() *ShiftService {
	return NewShiftService(store.NewMemory[models.Shift](), logger.Discard())
}

func TestShiftCreateValidatesTimesAndName(t *testing.T) {
	svc := newShiftService()
	ctx := context.Background()

	_, err := svc.Create(ctx, ShiftInput{Name: "Night", StartTime: "22:00", EndTime: "06:00"})
	requireKind(t, err, apperr.KindValidation)
	assert.Equal(t, "End time must be after start time", apperr.MessageOf(err))

	_, err = svc.Create(ctx, ShiftInput{Name: "Day", StartTime: "09:00", EndTime: "09:00"})
	requireKind(t, err, apperr.KindValidation)

	_, err = svc.Create(ctx, ShiftInput{Name: "A", StartTime: "09:00", EndTime: "17:00"})
	requireKind(t, err, apperr.KindValidation)

	_, err = svc.Create(ctx, ShiftInput{Name: "Day", StartTime: "9am", EndTime: "17:00"})
	requireKind(t, err, apperr.KindValidation)
}

func TestShiftEmployeesAreDeduplicated(t *testing.T) {
	svc := newShiftService()
	ctx := context.Background()

	s, err := svc.Create(ctx, ShiftInput{Name: "Breakfast", StartTime: "06:00", EndTime: "14:00", Employees: []string{"e1", "e2", "e1", " "}})
	require.NoError(t, err)
	assert.Equal(t, []string{"e1", "e2"}, s.Employees)
	assert.Len(t, s.ShortID(), 6)

	s, err = svc.AssignEmployees(ctx, s.ID.Hex(), []string{"e2", "e3", "e3"})
	require.NoError(t, err)
	assert.Equal(t, []string{"e1", "e2", "e3"}, s.Employees)

	s, err = svc.RemoveEmployee(ctx, s.ID.Hex(), "e1")
	require.NoError(t, err)
	assert.Equal(t, []string{"e2", "e3"}, s.Employees)

	_, err = svc.AssignEmployees(ctx, s.ID.Hex(), []string{" "})
	requireKind(t, err, apperr.KindValidation)
}

func TestShiftUpdateRevalidates(t *testing.T) {
	svc := newShiftService()
	ctx := context.Background()
	s, err := svc.Create(ctx, ShiftInput{Name: "Lunch", StartTime: "11:00", EndTime: "15:00"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, s.ID.Hex(), []byte(`{"endTime":"10:00"}`))
	requireKind(t, err, apperr.KindValidation)

	s, err = svc.Update(ctx, s.ID.Hex(), []byte(`{"endTime":"16:30"}`))
	require.NoError(t, err)
	assert.Equal(t, "16:30", s.EndTime)
	assert.Equal(t, "Lunch", s.Name)
}

func TestShiftStats(t *testing.T) {
	svc := newShiftService()
	ctx := context.Background()
	_, err := svc.Create(ctx, ShiftInput{Name: "Early", StartTime: "06:00", EndTime: "14:00", Employees: []string{"a", "b"}})
	require.NoError(t, err)
	_, err = svc.Create(ctx, ShiftInput{Name: "Late", StartTime: "14:00", EndTime: "22:00", Employees: []string{"b", "c", "d"}})
	require.NoError(t, err)

	st, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, st.TotalShifts)
	assert.Equal(t, 5, st.TotalEmployees)
	assert.Equal(t, 4, st.UniqueEmployees)
	assert.Equal(t, 3, st.AvgEmployeesPerShift)
}
