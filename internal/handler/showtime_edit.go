package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/iliyamo/cinema-showtime-planner/internal/planner"
	"github.com/iliyamo/cinema-showtime-planner/internal/repository"
	"github.com/labstack/echo/v4"
)

// editBody is the request payload for the single-edit flow.  Fields left at
// their zero value fall back to the showtime's current values, so an
// operator can move just the slot or just the room.
type editBody struct {
	CinemaID   uint64  `json:"cinema_id"`
	RoomID     uint64  `json:"room_id"`
	Format     string  `json:"format"`
	Date       string  `json:"date"`
	Slot       string  `json:"slot"`
	PriceCents *uint32 `json:"price_cents"`
}

// buildEditRequest merges the payload with the stored showtime into a full
// planner.EditRequest.
func (h *ScheduleHandler) buildEditRequest(c echo.Context, id uint64, cur *planner.ExistingShowtime) (planner.EditRequest, error) {
	var body editBody
	if err := c.Bind(&body); err != nil {
		return planner.EditRequest{}, errors.New("invalid request body")
	}
	if body.CinemaID == 0 {
		return planner.EditRequest{}, errors.New("cinema_id is required")
	}
	req := planner.EditRequest{
		ShowtimeID: id,
		CinemaID:   body.CinemaID,
		MovieID:    cur.MovieID,
		RoomID:     cur.RoomID,
		Format:     cur.Format,
		Date:       cur.StartsAt.Format(planner.DateLayout),
		Slot:       cur.StartsAt.Format(planner.SlotLayout),
		PriceCents: cur.PriceCents,
	}
	if body.RoomID != 0 {
		req.RoomID = body.RoomID
	}
	if body.Format != "" {
		req.Format = body.Format
	}
	if body.Date != "" {
		req.Date = body.Date
	}
	if body.Slot != "" {
		req.Slot = body.Slot
	}
	if body.PriceCents != nil {
		req.PriceCents = *body.PriceCents
	}
	return req, nil
}

// EditPreview handles POST /v1/showtimes/:id/preview.  It evaluates the
// modified screening as a one-candidate pass with the edited showtime
// excluded from the index, so a screening never conflicts with its own
// prior record.
func (h *ScheduleHandler) EditPreview(c echo.Context) error {
	id, cur, errResp := h.loadShowtime(c)
	if errResp != nil {
		return errResp(c)
	}
	req, err := h.buildEditRequest(c, id, cur)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	result, err := h.Edit.Preview(c.Request().Context(), req)
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

// UpdateShowtime handles PUT /v1/showtimes/:id.  The edit is previewed with
// the same pass the preview endpoint runs; a clean result is then submitted
// through the transactional write path with in-tx revalidation.
func (h *ScheduleHandler) UpdateShowtime(c echo.Context) error {
	id, cur, errResp := h.loadShowtime(c)
	if errResp != nil {
		return errResp(c)
	}
	req, err := h.buildEditRequest(c, id, cur)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	result, err := h.Edit.Preview(c.Request().Context(), req)
	if err != nil {
		return planError(c, err)
	}
	if len(result.Rejected) > 0 {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":    "edit has conflicts",
			"pass_id":  result.PassID,
			"rejected": result.Rejected,
		})
	}
	updated, recheck, err := h.Submission.SubmitEdit(c.Request().Context(), req.CinemaID, result.Accepted[0])
	if err != nil {
		if errors.Is(err, repository.ErrShowtimeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update showtime"})
	}
	if recheck != nil {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":    "schedule changed during submission",
			"pass_id":  recheck.PassID,
			"rejected": recheck.Rejected,
		})
	}
	return c.JSON(http.StatusOK, updated)
}

// loadShowtime parses the :id param and loads the current record.  The
// third return value, when non-nil, writes the error response.
func (h *ScheduleHandler) loadShowtime(c echo.Context) (uint64, *planner.ExistingShowtime, func(echo.Context) error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, nil, func(c echo.Context) error {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
		}
	}
	cur, err := h.Showtimes.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrShowtimeNotFound) {
			return 0, nil, func(c echo.Context) error {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
			}
		}
		return 0, nil, func(c echo.Context) error {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load showtime"})
		}
	}
	return id, cur, nil
}
