package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/cinema-showtime-planner/internal/planner"
)

// RoomRepo provides read access to screening rooms and their supported
// projection formats.  A room belongs to a cinema; its formats live in the
// room_formats join table.  The planner treats rooms as immutable for the
// duration of one pass.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo constructs a RoomRepo with the given DB handle.
func NewRoomRepo(db *sql.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

// ListByCinema returns all rooms of a cinema with their format sets,
// ordered by room id.  Rooms without any format row are returned with an
// empty format set; the expander will simply emit no candidates for them.
func (r *RoomRepo) ListByCinema(ctx context.Context, cinemaID uint64) ([]planner.Room, error) {
	const q = `SELECT r.id, r.cinema_id, r.name, rf.format
               FROM rooms r
               LEFT JOIN room_formats rf ON rf.room_id = r.id
               WHERE r.cinema_id = ?
               ORDER BY r.id ASC, rf.format ASC`
	rows, err := r.db.QueryContext(ctx, q, cinemaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []planner.Room
	for rows.Next() {
		var (
			id, cid uint64
			name    string
			format  sql.NullString
		)
		if err := rows.Scan(&id, &cid, &name, &format); err != nil {
			return nil, err
		}
		if n := len(result); n == 0 || result[n-1].ID != id {
			result = append(result, planner.Room{ID: id, CinemaID: cid, Name: name})
		}
		if format.Valid {
			last := &result[len(result)-1]
			last.Formats = append(last.Formats, format.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID fetches a single room with its formats.  It returns
// ErrRoomNotFound when no row exists.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*planner.Room, error) {
	const q = `SELECT id, cinema_id, name FROM rooms WHERE id = ?`
	var room planner.Room
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&room.ID, &room.CinemaID, &room.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	const qf = `SELECT format FROM room_formats WHERE room_id = ? ORDER BY format ASC`
	rows, err := r.db.QueryContext(ctx, qf, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, err
		}
		room.Formats = append(room.Formats, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &room, nil
}
