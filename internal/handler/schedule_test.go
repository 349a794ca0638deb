package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-showtime-planner/internal/planner"
	"github.com/iliyamo/cinema-showtime-planner/internal/repository"
)

type fakeCatalog struct{}

func (fakeCatalog) ListRooms(_ context.Context, cinemaID uint64) ([]planner.Room, error) {
	return []planner.Room{
		{ID: 5, CinemaID: cinemaID, Name: "Room 5", Formats: []string{"2D", "3D"}},
		{ID: 7, CinemaID: cinemaID, Name: "Room 7", Formats: []string{"2D"}},
	}, nil
}

func (fakeCatalog) GetMovie(_ context.Context, movieID uint64) (planner.Movie, error) {
	if movieID != 1 {
		return planner.Movie{}, repository.ErrMovieNotFound
	}
	return planner.Movie{ID: 1, Title: "Interstellar", DurationMin: 120}, nil
}

type fakeStore struct {
	byDate map[string][]planner.ExistingShowtime
}

func (f fakeStore) ListShowtimes(_ context.Context, _ uint64, date string) ([]planner.ExistingShowtime, error) {
	return f.byDate[date], nil
}

func newTestHandler(t *testing.T, store fakeStore) *ScheduleHandler {
	t.Helper()
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	showtimes := repository.NewShowtimeRepo(db)
	p := planner.NewBatchPlanner(fakeCatalog{}, store, nil, time.UTC, false)
	return NewScheduleHandler(
		p,
		planner.NewEditAdapter(p),
		repository.NewSubmissionService(showtimes, nil, false),
		showtimes,
		repository.NewRoomRepo(db),
	)
}

func doJSON(t *testing.T, h echo.HandlerFunc, method, target, body string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, h(c))
	return rec, c
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestBatchPreviewValidation(t *testing.T) {
	h := newTestHandler(t, fakeStore{})
	rec, _ := doJSON(t, h.BatchPreview, http.MethodPost, "/v1/schedule/batch/preview",
		`{"cinema_id":1,"movie_id":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "room_ids")
}

func TestBatchPreviewReportsConflicts(t *testing.T) {
	start := time.Date(2026, 9, 4, 18, 0, 0, 0, time.UTC)
	store := fakeStore{byDate: map[string][]planner.ExistingShowtime{
		"2026-09-04": {{
			ID: 10, RoomID: 5, RoomName: "Room 5", MovieID: 2, MovieTitle: "Dune",
			Format: "2D", StartsAt: start, EndsAt: start.Add(155 * time.Minute),
		}},
	}}
	h := newTestHandler(t, store)

	rec, _ := doJSON(t, h.BatchPreview, http.MethodPost, "/v1/schedule/batch/preview",
		`{"cinema_id":1,"movie_id":1,"room_ids":[5],"formats":["2D"],
		  "start_date":"2026-09-04","end_date":"2026-09-04","slots":["10:00","19:00"]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.NotEmpty(t, body["pass_id"])
	summary := body["summary"].(map[string]any)
	assert.EqualValues(t, 1, summary["accepted"]) // 10:00 is free
	assert.EqualValues(t, 1, summary["rejected"]) // 19:00 overlaps Dune

	rejected := body["rejected"].([]any)
	first := rejected[0].(map[string]any)
	assert.Equal(t, string(planner.ReasonRoomOverlap), first["reason"])
}

func TestBatchPreviewUnknownMovie(t *testing.T) {
	h := newTestHandler(t, fakeStore{})
	rec, _ := doJSON(t, h.BatchPreview, http.MethodPost, "/v1/schedule/batch/preview",
		`{"cinema_id":1,"movie_id":99,"room_ids":[5],"formats":["2D"],
		  "start_date":"2026-09-04","end_date":"2026-09-04","slots":["10:00"]}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBatchPreviewUnknownRoom(t *testing.T) {
	h := newTestHandler(t, fakeStore{})
	rec, _ := doJSON(t, h.BatchPreview, http.MethodPost, "/v1/schedule/batch/preview",
		`{"cinema_id":1,"movie_id":1,"room_ids":[99],"formats":["2D"],
		  "start_date":"2026-09-04","end_date":"2026-09-04","slots":["10:00"]}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBatchPreviewBadDates(t *testing.T) {
	h := newTestHandler(t, fakeStore{})
	rec, _ := doJSON(t, h.BatchPreview, http.MethodPost, "/v1/schedule/batch/preview",
		`{"cinema_id":1,"movie_id":1,"room_ids":[5],"formats":["2D"],
		  "start_date":"04.09.2026","end_date":"2026-09-04","slots":["10:00"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBatchCreateRequiresAuth(t *testing.T) {
	h := newTestHandler(t, fakeStore{})
	// No user_id in context: the route-level middleware would normally
	// reject first, but the handler must not trust that.
	rec, _ := doJSON(t, h.BatchCreate, http.MethodPost, "/v1/schedule/batch",
		`{"cinema_id":1,"movie_id":1,"room_ids":[5],"formats":["2D"],
		  "start_date":"2026-09-04","end_date":"2026-09-04","slots":["10:00"]}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBatchCreateBlockedByConflicts(t *testing.T) {
	start := time.Date(2026, 9, 4, 10, 0, 0, 0, time.UTC)
	store := fakeStore{byDate: map[string][]planner.ExistingShowtime{
		"2026-09-04": {{
			ID: 10, RoomID: 5, RoomName: "Room 5", MovieID: 2, MovieTitle: "Dune",
			Format: "2D", StartsAt: start, EndsAt: start.Add(155 * time.Minute),
		}},
	}}
	h := newTestHandler(t, store)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/schedule/batch", strings.NewReader(
		`{"cinema_id":1,"movie_id":1,"room_ids":[5],"formats":["2D"],
		  "start_date":"2026-09-04","end_date":"2026-09-04","slots":["10:30"]}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(7))

	require.NoError(t, h.BatchCreate(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "batch has conflicts", decode(t, rec)["error"])
}

func TestDayScheduleValidation(t *testing.T) {
	h := newTestHandler(t, fakeStore{})

	rec, _ := doJSON(t, h.DaySchedule, http.MethodGet, "/v1/schedule?cinema_id=abc&date=2026-09-04", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = doJSON(t, h.DaySchedule, http.MethodGet, "/v1/schedule?cinema_id=1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
