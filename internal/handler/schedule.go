package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/iliyamo/cinema-showtime-planner/internal/planner"
	"github.com/iliyamo/cinema-showtime-planner/internal/repository"
	"github.com/labstack/echo/v4"
)

// bindBatchRequest binds and validates the scheduling request shared by the
// preview and create endpoints.  Ordering of room_ids, formats and slots is
// preserved verbatim: it determines which candidate wins a contested slot.
func bindBatchRequest(c echo.Context) (planner.SchedulingRequest, error) {
	var req planner.SchedulingRequest
	if err := c.Bind(&req); err != nil {
		return req, errors.New("invalid request body")
	}
	switch {
	case req.CinemaID == 0:
		return req, errors.New("cinema_id is required")
	case req.MovieID == 0:
		return req, errors.New("movie_id is required")
	case len(req.RoomIDs) == 0:
		return req, errors.New("room_ids is required")
	case len(req.Formats) == 0:
		return req, errors.New("formats is required")
	case req.StartDate == "" || req.EndDate == "":
		return req, errors.New("start_date and end_date are required")
	case len(req.Slots) == 0:
		return req, errors.New("slots is required")
	}
	return req, nil
}

// BatchPreview handles POST /v1/schedule/batch/preview.  It runs one
// planning pass and returns the full accepted/rejected breakdown without
// writing anything, so the operator can adjust the request and re-run.
func (h *ScheduleHandler) BatchPreview(c echo.Context) error {
	req, err := bindBatchRequest(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	result, err := h.Planner.Plan(c.Request().Context(), req)
	if err != nil {
		return planError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"pass_id":  result.PassID,
		"accepted": result.Accepted,
		"rejected": result.Rejected,
		"summary":  result.Summary(),
	})
}

// BatchCreate handles POST /v1/schedule/batch.  Submission is blocked while
// any candidate in the request is rejected, to avoid partially-successful
// batches with ambiguous recovery semantics.  A clean pass is then submitted
// through the transactional write path, which revalidates against the locked
// day schedule before inserting; a batch that fails revalidation comes back
// as a 409 with a fresh breakdown.
func (h *ScheduleHandler) BatchCreate(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	req, err := bindBatchRequest(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	result, err := h.Planner.Plan(c.Request().Context(), req)
	if err != nil {
		return planError(c, err)
	}
	if len(result.Rejected) > 0 {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":    "batch has conflicts",
			"pass_id":  result.PassID,
			"accepted": result.Accepted,
			"rejected": result.Rejected,
			"summary":  result.Summary(),
		})
	}
	if len(result.Accepted) == 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "request expands to no candidates"})
	}
	created, recheck, err := h.Submission.SubmitBatch(c.Request().Context(), req.CinemaID, result.Accepted)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not submit batch"})
	}
	if recheck != nil {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":    "schedule changed during submission",
			"pass_id":  recheck.PassID,
			"accepted": recheck.Accepted,
			"rejected": recheck.Rejected,
			"summary":  recheck.Summary(),
		})
	}
	if h.Publish != nil {
		go h.Publish(userID, req.CinemaID, result.PassID, created)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"pass_id": result.PassID,
		"created": created,
	})
}

// DaySchedule handles GET /v1/schedule?cinema_id=&date= and returns the
// cinema's screenings for one calendar date across all rooms.
func (h *ScheduleHandler) DaySchedule(c echo.Context) error {
	cinemaID, err := strconv.ParseUint(c.QueryParam("cinema_id"), 10, 64)
	if err != nil || cinemaID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cinema_id"})
	}
	date := c.QueryParam("date")
	if date == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date is required"})
	}
	items, err := h.Showtimes.ListShowtimes(c.Request().Context(), cinemaID, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load schedule"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListRooms handles GET /v1/cinemas/:id/rooms and returns the cinema's rooms
// with their supported formats.
func (h *ScheduleHandler) ListRooms(c echo.Context) error {
	cinemaID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || cinemaID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cinema id"})
	}
	items, err := h.Rooms.ListByCinema(c.Request().Context(), cinemaID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load rooms"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// planError maps planner errors onto HTTP responses.  Collaborator read
// failures are hard failures of the whole pass: no partial preview is ever
// returned.
func planError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrMovieNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
	case errors.Is(err, repository.ErrRoomNotFound), errors.Is(err, planner.ErrUnknownRoom):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
	case errors.Is(err, planner.ErrInvalidRequest):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	default:
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "failed to evaluate schedule"})
	}
}
