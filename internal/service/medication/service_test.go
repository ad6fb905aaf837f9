package medication

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medpal/medpal-api/internal/model"
	"github.com/medpal/medpal-api/internal/repository/memory"
	apperrors "github.com/medpal/medpal-api/pkg/errors"
	"github.com/medpal/medpal-api/pkg/logger"
)

func newService(t *testing.T) (*Service, uuid.UUID) {
	t.Helper()
	return NewService(memory.NewMedicationRepository(), logger.NewLogger(nil)), uuid.New()
}

func createReq() *model.CreateMedicationRequest {
	return &model.CreateMedicationRequest{
		Name:      "Metformin",
		Dosage:    "500mg",
		Schedule:  model.Schedule{Frequency: model.FrequencyTwiceDaily, Times: []string{"08:00", "20:00"}},
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateValidatesSchedule(t *testing.T) {
	svc, userID := newService(t)

	req := createReq()
	req.Schedule = model.Schedule{Frequency: model.FrequencyTwiceDaily, Times: []string{"08:00"}}

	_, err := svc.Create(context.Background(), userID, req)
	assert.True(t, apperrors.IsInvalidSchedule(err), "malformed schedules never reach the store")

	meds, err := svc.List(context.Background(), userID, false)
	require.NoError(t, err)
	assert.Empty(t, meds)
}

func TestCreateAndGet(t *testing.T) {
	svc, userID := newService(t)

	med, err := svc.Create(context.Background(), userID, createReq())
	require.NoError(t, err)
	assert.True(t, med.IsActive)

	got, err := svc.Get(context.Background(), userID, med.ID)
	require.NoError(t, err)
	assert.Equal(t, "Metformin", got.Name)

	_, err = svc.Get(context.Background(), uuid.New(), med.ID)
	assert.True(t, apperrors.IsNotFound(err), "other users cannot see the medication")
}

func TestUpdateRevalidatesChangedSchedule(t *testing.T) {
	svc, userID := newService(t)

	med, err := svc.Create(context.Background(), userID, createReq())
	require.NoError(t, err)

	bad := model.Schedule{Frequency: model.FrequencyWeekly, Times: []string{"09:00"}}
	_, err = svc.Update(context.Background(), userID, med.ID, &model.UpdateMedicationRequest{Schedule: &bad})
	assert.True(t, apperrors.IsInvalidSchedule(err))

	good := model.Schedule{
		Frequency: model.FrequencyWeekly,
		Times:     []string{"09:00"},
		Weekdays:  []time.Weekday{time.Monday},
	}
	updated, err := svc.Update(context.Background(), userID, med.ID, &model.UpdateMedicationRequest{Schedule: &good})
	require.NoError(t, err)
	assert.Equal(t, model.FrequencyWeekly, updated.Schedule.Frequency)
}

func TestUpdateAppliesOnlyProvidedFields(t *testing.T) {
	svc, userID := newService(t)

	med, err := svc.Create(context.Background(), userID, createReq())
	require.NoError(t, err)

	dosage := "850mg"
	updated, err := svc.Update(context.Background(), userID, med.ID, &model.UpdateMedicationRequest{Dosage: &dosage})
	require.NoError(t, err)
	assert.Equal(t, "850mg", updated.Dosage)
	assert.Equal(t, "Metformin", updated.Name, "untouched fields survive")
}

func TestDeactivateIsSoftDelete(t *testing.T) {
	svc, userID := newService(t)

	med, err := svc.Create(context.Background(), userID, createReq())
	require.NoError(t, err)
	require.NoError(t, svc.Deactivate(context.Background(), userID, med.ID))

	active, err := svc.List(context.Background(), userID, true)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := svc.List(context.Background(), userID, false)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].IsActive, "the row survives for historical dose events")
}
