package handler // handler defines http handlers

import (
	"errors"
	"strconv"

	"github.com/iliyamo/cinema-showtime-planner/internal/planner"
	"github.com/iliyamo/cinema-showtime-planner/internal/repository"
	"github.com/labstack/echo/v4"
)

// ScheduleHandler bundles the planner, the edit adapter and the submission
// service behind the scheduling endpoints.  The planner runs the advisory
// pass; the submission service owns the transactional write path.
type ScheduleHandler struct {
	Planner    *planner.BatchPlanner
	Edit       *planner.EditAdapter
	Submission *repository.SubmissionService
	Showtimes  *repository.ShowtimeRepo
	Rooms      *repository.RoomRepo
	Publish    func(userID, cinemaID uint64, passID string, created []planner.ExistingShowtime) // post-commit event hook, may be nil
}

// NewScheduleHandler constructs a ScheduleHandler and panics if any required
// dependency is nil.  Publish is optional.
func NewScheduleHandler(p *planner.BatchPlanner, e *planner.EditAdapter, s *repository.SubmissionService, st *repository.ShowtimeRepo, rooms *repository.RoomRepo) *ScheduleHandler {
	if p == nil || e == nil || s == nil || st == nil || rooms == nil {
		panic("nil dependency passed to NewScheduleHandler")
	}
	return &ScheduleHandler{Planner: p, Edit: e, Submission: s, Showtimes: st, Rooms: rooms}
}

// getUserID extracts the user_id stored in the echo context by the JWT
// middleware and converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}
