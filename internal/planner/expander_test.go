package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRooms = []Room{
	{ID: 5, CinemaID: 1, Name: "Room 5", Formats: []string{"2D", "3D"}},
	{ID: 2, CinemaID: 1, Name: "Room 2", Formats: []string{"2D", "IMAX"}},
}

var testMovie = Movie{ID: 1, Title: "Interstellar", DurationMin: 120}

func TestExpandCandidatesOrdering(t *testing.T) {
	req := SchedulingRequest{
		CinemaID:  1,
		MovieID:   1,
		RoomIDs:   []uint64{5, 2},
		Formats:   []string{"2D", "IMAX"},
		StartDate: "2026-09-04",
		EndDate:   "2026-09-05",
		Slots:     []string{"18:00", "10:00"},
	}
	out, err := ExpandCandidates(req, testRooms, testMovie, time.UTC)
	require.NoError(t, err)

	// Two dates; Room 5 supports only 2D, Room 2 supports both requested
	// formats; two slots each.  Expansion order is date, then rooms,
	// formats and slots in request order, slots deliberately unsorted.
	type key struct {
		date   string
		roomID uint64
		format string
		slot   string
	}
	want := []key{
		{"2026-09-04", 5, "2D", "18:00"},
		{"2026-09-04", 5, "2D", "10:00"},
		{"2026-09-04", 2, "2D", "18:00"},
		{"2026-09-04", 2, "2D", "10:00"},
		{"2026-09-04", 2, "IMAX", "18:00"},
		{"2026-09-04", 2, "IMAX", "10:00"},
		{"2026-09-05", 5, "2D", "18:00"},
		{"2026-09-05", 5, "2D", "10:00"},
		{"2026-09-05", 2, "2D", "18:00"},
		{"2026-09-05", 2, "2D", "10:00"},
		{"2026-09-05", 2, "IMAX", "18:00"},
		{"2026-09-05", 2, "IMAX", "10:00"},
	}
	require.Len(t, out, len(want))
	for i, w := range want {
		got := key{out[i].Date, out[i].RoomID, out[i].Format, out[i].Slot}
		assert.Equal(t, w, got, "candidate %d", i)
	}
}

func TestExpandCandidatesComputesInterval(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	req := SchedulingRequest{
		CinemaID:   1,
		MovieID:    1,
		RoomIDs:    []uint64{5},
		Formats:    []string{"2D"},
		StartDate:  "2026-09-04",
		EndDate:    "2026-09-04",
		Slots:      []string{"20:30"},
		PriceCents: 1450,
	}
	out, err := ExpandCandidates(req, testRooms[:1], testMovie, loc)
	require.NoError(t, err)
	require.Len(t, out, 1)

	c := out[0]
	assert.Equal(t, time.Date(2026, 9, 4, 20, 30, 0, 0, loc), c.StartsAt)
	assert.Equal(t, time.Date(2026, 9, 4, 22, 30, 0, 0, loc), c.EndsAt)
	assert.Equal(t, "Room 5", c.RoomName)
	assert.Equal(t, "Interstellar", c.MovieTitle)
	assert.Equal(t, uint32(1450), c.PriceCents)
	assert.Zero(t, c.ReplacesID)
}

func TestExpandCandidatesSkipsUnsupportedFormat(t *testing.T) {
	req := SchedulingRequest{
		CinemaID:  1,
		MovieID:   1,
		RoomIDs:   []uint64{5},
		Formats:   []string{"IMAX"},
		StartDate: "2026-09-04",
		EndDate:   "2026-09-04",
		Slots:     []string{"18:00"},
	}
	// Room 5 has no IMAX: the pair is skipped, not rejected.
	out, err := ExpandCandidates(req, testRooms[:1], testMovie, time.UTC)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestExpandCandidatesValidation(t *testing.T) {
	base := SchedulingRequest{
		CinemaID:  1,
		MovieID:   1,
		RoomIDs:   []uint64{5},
		Formats:   []string{"2D"},
		StartDate: "2026-09-04",
		EndDate:   "2026-09-04",
		Slots:     []string{"18:00"},
	}

	tests := []struct {
		name   string
		mutate func(*SchedulingRequest, *Movie)
	}{
		{"bad start date", func(r *SchedulingRequest, _ *Movie) { r.StartDate = "04.09.2026" }},
		{"bad end date", func(r *SchedulingRequest, _ *Movie) { r.EndDate = "not-a-date" }},
		{"reversed range", func(r *SchedulingRequest, _ *Movie) { r.EndDate = "2026-09-01" }},
		{"bad slot", func(r *SchedulingRequest, _ *Movie) { r.Slots = []string{"25:99"} }},
		{"zero duration", func(_ *SchedulingRequest, m *Movie) { m.DurationMin = 0 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req, movie := base, testMovie
			tc.mutate(&req, &movie)
			_, err := ExpandCandidates(req, testRooms[:1], movie, time.UTC)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidRequest)
		})
	}
}
