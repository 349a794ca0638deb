package repository

import (
	"context"

	"github.com/iliyamo/cinema-showtime-planner/internal/planner"
)

// Catalog bundles the room and movie repositories behind the planner's
// Catalog interface, so the planner stays free of persistence concerns.
type Catalog struct {
	Rooms  *RoomRepo
	Movies *MovieRepo
}

// NewCatalog constructs the catalog adapter and panics if any dependency is
// nil.
func NewCatalog(rooms *RoomRepo, movies *MovieRepo) *Catalog {
	if rooms == nil || movies == nil {
		panic("nil repository passed to NewCatalog")
	}
	return &Catalog{Rooms: rooms, Movies: movies}
}

// ListRooms implements planner.Catalog.
func (c *Catalog) ListRooms(ctx context.Context, cinemaID uint64) ([]planner.Room, error) {
	return c.Rooms.ListByCinema(ctx, cinemaID)
}

// GetMovie implements planner.Catalog.
func (c *Catalog) GetMovie(ctx context.Context, movieID uint64) (planner.Movie, error) {
	return c.Movies.GetByID(ctx, movieID)
}
