package planner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditPreviewSelfExclusion(t *testing.T) {
	// Showtime 40 runs 19:00-21:00 in Room 5; re-saving it over its own
	// slot must pass, and the accepted candidate names what it replaces.
	store := &fakeStore{byDate: map[string][]ExistingShowtime{
		"2026-09-04": {existing(t, 40, 5, 1, "2D", "2026-09-04", "19:00", "21:00")},
	}}
	adapter := NewEditAdapter(newTestPlanner(store))

	result, err := adapter.Preview(context.Background(), EditRequest{
		ShowtimeID: 40,
		CinemaID:   1,
		MovieID:    1,
		RoomID:     5,
		Format:     "2D",
		Date:       "2026-09-04",
		Slot:       "19:00",
	})
	require.NoError(t, err)
	require.Len(t, result.Accepted, 1)
	assert.Empty(t, result.Rejected)
	assert.Equal(t, uint64(40), result.Accepted[0].ReplacesID)
}

func TestEditPreviewConflictsWithOthers(t *testing.T) {
	// Moving showtime 40 onto a slot held by showtime 41 still conflicts.
	store := &fakeStore{byDate: map[string][]ExistingShowtime{
		"2026-09-04": {
			existing(t, 40, 5, 1, "2D", "2026-09-04", "14:00", "16:00"),
			existing(t, 41, 5, 2, "2D", "2026-09-04", "19:00", "21:35"),
		},
	}}
	adapter := NewEditAdapter(newTestPlanner(store))

	result, err := adapter.Preview(context.Background(), EditRequest{
		ShowtimeID: 40,
		CinemaID:   1,
		MovieID:    1,
		RoomID:     5,
		Format:     "2D",
		Date:       "2026-09-04",
		Slot:       "20:00",
	})
	require.NoError(t, err)
	assert.Empty(t, result.Accepted)
	require.Len(t, result.Rejected, 1)
	assert.Equal(t, ReasonRoomOverlap, result.Rejected[0].Reason)
	require.Len(t, result.Rejected[0].Conflicts, 1)
	assert.Equal(t, uint64(41), result.Rejected[0].Conflicts[0].ShowtimeID)
}

func TestEditPreviewQuotaExclusion(t *testing.T) {
	// Showtime 42 is the room's only late-night IMAX screening.  Moving it
	// to another late slot must not trip the quota on its own record.
	store := &fakeStore{byDate: map[string][]ExistingShowtime{
		"2026-09-04": {existing(t, 42, 2, 1, "IMAX", "2026-09-04", "22:00", "23:30")},
	}}
	adapter := NewEditAdapter(newTestPlanner(store))

	result, err := adapter.Preview(context.Background(), EditRequest{
		ShowtimeID: 42,
		CinemaID:   1,
		MovieID:    1,
		RoomID:     2,
		Format:     "IMAX",
		Date:       "2026-09-04",
		Slot:       "22:00",
	})
	require.NoError(t, err)
	require.Len(t, result.Accepted, 1)
	assert.Empty(t, result.Rejected)
}

func TestEditPreviewValidation(t *testing.T) {
	adapter := NewEditAdapter(newTestPlanner(&fakeStore{}))

	_, err := adapter.Preview(context.Background(), EditRequest{
		CinemaID: 1, MovieID: 1, RoomID: 5, Format: "2D", Date: "2026-09-04", Slot: "19:00",
	})
	require.Error(t, err) // missing showtime id

	// Room 2 is IMAX-only: an edit cannot silently skip the room the way
	// batch expansion does.
	_, err = adapter.Preview(context.Background(), EditRequest{
		ShowtimeID: 40, CinemaID: 1, MovieID: 1, RoomID: 2, Format: "2D", Date: "2026-09-04", Slot: "19:00",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not support")
}
