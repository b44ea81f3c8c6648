package sched

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"garage-scheduler-backend/internal/model"
)

func TestStartThenCompleteLifecycle(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	bay := createResource(t, s, model.KindBay, "Bay-1")
	tech := createResource(t, s, model.KindTechnician, "Tech-1")
	appointment := createScheduledAppointment(t, s, bay.ID, tech.ID, at(9, 0), at(11, 0))

	started, err := s.Start(ctx, appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentInProgress, started.Status)
	require.NotNil(t, started.ActualStart)

	bayStatus, _ := s.GetStatus(ctx, bay.ID)
	techStatus, _ := s.GetStatus(ctx, tech.ID)
	assert.Equal(t, model.ResourceOccupied, bayStatus)
	assert.Equal(t, model.ResourceWorking, techStatus)

	completed, err := s.Complete(ctx, appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentCompleted, completed.Status)
	require.NotNil(t, completed.ActualEnd)
	assert.False(t, completed.ActualEnd.Before(*completed.ActualStart))
	assert.Equal(t, 100, completed.PercentComplete)

	// Completion released both resources.
	bayStatus, _ = s.GetStatus(ctx, bay.ID)
	techStatus, _ = s.GetStatus(ctx, tech.ID)
	assert.Equal(t, model.ResourceAvailable, bayStatus)
	assert.Equal(t, model.ResourceAvailable, techStatus)

	reservations, err := s.Reservations(ctx, bay.ID)
	require.NoError(t, err)
	assert.Empty(t, reservations)
}

// After start, complete and a cancel attempt, the third call must fail with
// InvalidTransition and leave the appointment exactly as it was.
func TestTerminalStateRejectsFurtherTransitions(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	bay := createResource(t, s, model.KindBay, "Bay-1")
	tech := createResource(t, s, model.KindTechnician, "Tech-1")
	appointment := createScheduledAppointment(t, s, bay.ID, tech.ID, at(9, 0), at(11, 0))

	_, err := s.Start(ctx, appointment.ID)
	require.NoError(t, err)
	_, err = s.Complete(ctx, appointment.ID)
	require.NoError(t, err)

	before, err := s.GetAppointment(ctx, appointment.ID)
	require.NoError(t, err)

	_, err = s.Cancel(ctx, appointment.ID)
	var invalid *InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, string(model.AppointmentCompleted), invalid.From)
	assert.Equal(t, string(model.AppointmentCancelled), invalid.Attempted)

	after, err := s.GetAppointment(ctx, appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestTransitionTable(t *testing.T) {
	testCases := []struct {
		name    string
		prepare func(ctx context.Context, s *Service, id int64)
		move    func(ctx context.Context, s *Service, id int64) error
		wantErr bool
	}{
		{
			name:    "start from scheduled",
			prepare: func(ctx context.Context, s *Service, id int64) {},
			move: func(ctx context.Context, s *Service, id int64) error {
				_, err := s.Start(ctx, id)
				return err
			},
		},
		{
			name:    "complete from scheduled is illegal",
			prepare: func(ctx context.Context, s *Service, id int64) {},
			move: func(ctx context.Context, s *Service, id int64) error {
				_, err := s.Complete(ctx, id)
				return err
			},
			wantErr: true,
		},
		{
			name: "start twice is illegal",
			prepare: func(ctx context.Context, s *Service, id int64) {
				_, err := s.Start(ctx, id)
				require.NoError(t, err)
			},
			move: func(ctx context.Context, s *Service, id int64) error {
				_, err := s.Start(ctx, id)
				return err
			},
			wantErr: true,
		},
		{
			name:    "cancel from scheduled",
			prepare: func(ctx context.Context, s *Service, id int64) {},
			move: func(ctx context.Context, s *Service, id int64) error {
				_, err := s.Cancel(ctx, id)
				return err
			},
		},
		{
			name: "cancel from in progress",
			prepare: func(ctx context.Context, s *Service, id int64) {
				_, err := s.Start(ctx, id)
				require.NoError(t, err)
			},
			move: func(ctx context.Context, s *Service, id int64) error {
				_, err := s.Cancel(ctx, id)
				return err
			},
		},
		{
			name: "start after cancel is illegal",
			prepare: func(ctx context.Context, s *Service, id int64) {
				_, err := s.Cancel(ctx, id)
				require.NoError(t, err)
			},
			move: func(ctx context.Context, s *Service, id int64) error {
				_, err := s.Start(ctx, id)
				return err
			},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestService(t)
			ctx := context.Background()
			bay := createResource(t, s, model.KindBay, "Bay-1")
			tech := createResource(t, s, model.KindTechnician, "Tech-1")
			appointment := createScheduledAppointment(t, s, bay.ID, tech.ID, at(9, 0), at(11, 0))

			tc.prepare(ctx, s, appointment.ID)
			err := tc.move(ctx, s, appointment.ID)

			if tc.wantErr {
				var invalid *InvalidTransitionError
				assert.ErrorAs(t, err, &invalid)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCancelReleasesReservedResources(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	bay := createResource(t, s, model.KindBay, "Bay-1")
	tech := createResource(t, s, model.KindTechnician, "Tech-1")
	appointment := createScheduledAppointment(t, s, bay.ID, tech.ID, at(9, 0), at(11, 0))

	cancelled, err := s.Cancel(ctx, appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentCancelled, cancelled.Status)

	for _, id := range []int64{bay.ID, tech.ID} {
		reservations, err := s.Reservations(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, reservations)

		status, err := s.GetStatus(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, model.ResourceAvailable, status)
	}
}

func TestStartUnknownAppointment(t *testing.T) {
	s := newTestService(t)
	_, err := s.Start(context.Background(), 12345)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListAppointmentsOrdering(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	mk := func(priority model.Priority, start time.Time) {
		require.NoError(t, s.db.Create(&model.Appointment{
			CustomerName:   "c",
			VehicleID:      "v",
			ServiceType:    "s",
			ScheduledStart: start,
			ScheduledEnd:   start.Add(time.Hour),
			Priority:       priority,
			Status:         model.AppointmentScheduled,
		}).Error)
	}
	mk(model.PriorityLow, at(8, 0))
	mk(model.PriorityUrgent, at(15, 0))
	mk(model.PriorityUrgent, at(9, 0))
	mk(model.PriorityHigh, at(7, 0))

	appointments, err := s.ListAppointments(ctx, "")
	require.NoError(t, err)
	require.Len(t, appointments, 4)
	assert.Equal(t, model.PriorityUrgent, appointments[0].Priority)
	assert.True(t, appointments[0].ScheduledStart.Equal(at(9, 0)))
	assert.Equal(t, model.PriorityUrgent, appointments[1].Priority)
	assert.Equal(t, model.PriorityHigh, appointments[2].Priority)
	assert.Equal(t, model.PriorityLow, appointments[3].Priority)
}
