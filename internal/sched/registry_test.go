package sched

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"garage-scheduler-backend/internal/model"
)

func TestListResourcesByKind(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	createResource(t, s, model.KindBay, "Bay-1")
	createResource(t, s, model.KindBay, "Bay-2")
	createResource(t, s, model.KindTechnician, "Tech-1")

	bays, err := s.ListResources(ctx, model.KindBay)
	require.NoError(t, err)
	assert.Len(t, bays, 2)

	all, err := s.ListResources(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestGetStatusUnknownResource(t *testing.T) {
	s := newTestService(t)
	_, err := s.GetStatus(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetStatusOccupiedRequiresReservation(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	bay := createResource(t, s, model.KindBay, "Bay-1")

	err := s.SetStatus(ctx, bay.ID, model.ResourceOccupied)
	require.Error(t, err)

	status, err := s.GetStatus(ctx, bay.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ResourceAvailable, status)

	require.NoError(t, s.Reserve(ctx, bay.ID, at(9, 0), at(11, 0), 1))
	require.NoError(t, s.SetStatus(ctx, bay.ID, model.ResourceOccupied))

	status, err = s.GetStatus(ctx, bay.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ResourceOccupied, status)
}

func TestSetStatusAvailableClearsBinding(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	bay := createResource(t, s, model.KindBay, "Bay-1")

	appointmentID := int64(5)
	require.NoError(t, s.db.Model(&model.Resource{}).Where("id = ?", bay.ID).
		Update("current_appointment_id", appointmentID).Error)

	require.NoError(t, s.SetStatus(ctx, bay.ID, model.ResourceAvailable))

	var reloaded model.Resource
	require.NoError(t, s.db.First(&reloaded, bay.ID).Error)
	assert.Nil(t, reloaded.CurrentAppointmentID)
}

func TestWorkingStatusIsTechnicianOnly(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	bay := createResource(t, s, model.KindBay, "Bay-1")

	err := s.SetStatus(ctx, bay.ID, model.ResourceWorking)
	assert.Error(t, err)

	tech := createResource(t, s, model.KindTechnician, "Tech-1")
	require.NoError(t, s.Reserve(ctx, tech.ID, at(9, 0), at(11, 0), 1))
	assert.NoError(t, s.SetStatus(ctx, tech.ID, model.ResourceWorking))
}

func TestMaintenanceAndOffNeedNoReservation(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	bay := createResource(t, s, model.KindBay, "Bay-1")

	require.NoError(t, s.SetStatus(ctx, bay.ID, model.ResourceMaintenance))
	require.NoError(t, s.SetStatus(ctx, bay.ID, model.ResourceOff))
	require.NoError(t, s.SetStatus(ctx, bay.ID, model.ResourceAvailable))
}

func TestSeedResources(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	require.NoError(t, s.SeedResources(ctx, 3, 2))

	bays, err := s.ListResources(ctx, model.KindBay)
	require.NoError(t, err)
	assert.Len(t, bays, 3)

	technicians, err := s.ListResources(ctx, model.KindTechnician)
	require.NoError(t, err)
	assert.Len(t, technicians, 2)

	// Seeding again must not duplicate the pool.
	require.NoError(t, s.SeedResources(ctx, 3, 2))
	all, err := s.ListResources(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 5)
}
