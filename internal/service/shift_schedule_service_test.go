package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/nightguard-api/internal/dto"
	"github.com/noah-isme/nightguard-api/internal/permission"
)

func TestScheduleDefaultsActiveAndValidatesTimes(t *testing.T) {
	env := newTestEnv()
	svc := NewScheduleService(env.store.Schedules(), testValidator(), env.events, testLogger())
	actor := Actor{ID: 1, Role: permission.Manager}
	ctx := context.Background()

	schedule, err := svc.Create(ctx, actor, dto.ScheduleCreateRequest{VenueID: 2, Name: "Late", StartTime: "22:00", EndTime: "04:00"})
	require.NoError(t, err)
	require.True(t, schedule.Active)

	_, err = svc.Create(ctx, actor, dto.ScheduleCreateRequest{VenueID: 2, Name: "Bad", StartTime: "25:00", EndTime: "04:00"})
	validationErr, ok := IsValidation(err)
	require.True(t, ok)
	require.Equal(t, "start_time", validationErr.Fields[0].Field)

	updated, err := svc.Update(ctx, actor, schedule.ID, dto.ScheduleUpdateRequest{Active: boolPtr(false)})
	require.NoError(t, err)
	require.False(t, updated.Active)

	venue := uint(2)
	listed, err := svc.List(ctx, &venue)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	require.NoError(t, svc.Delete(ctx, actor, schedule.ID))
	require.ErrorIs(t, svc.Delete(ctx, actor, schedule.ID), ErrNotFound)
}
