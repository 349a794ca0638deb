package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-showtime-planner/internal/config"
	"github.com/iliyamo/cinema-showtime-planner/internal/database"
	"github.com/iliyamo/cinema-showtime-planner/internal/handler"
	"github.com/iliyamo/cinema-showtime-planner/internal/planner"
	"github.com/iliyamo/cinema-showtime-planner/internal/queue"
	"github.com/iliyamo/cinema-showtime-planner/internal/repository"
	"github.com/iliyamo/cinema-showtime-planner/internal/router"
	queue_publisher "github.com/iliyamo/cinema-showtime-planner/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.CinemaTZ)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient() // nil disables cache and rate limiting

	rooms := repository.NewRoomRepo(db)
	movies := repository.NewMovieRepo(db)
	showtimes := repository.NewShowtimeRepo(db)
	users := repository.NewUserRepo(db)

	catalog := repository.NewCatalog(rooms, movies)
	batchPlanner := planner.NewBatchPlanner(catalog, showtimes, planner.DefaultPolicies, cfg.Location, cfg.EnforceCaps)
	editAdapter := planner.NewEditAdapter(batchPlanner)
	submission := repository.NewSubmissionService(showtimes, batchPlanner.Policies(), cfg.EnforceCaps)

	sched := handler.NewScheduleHandler(batchPlanner, editAdapter, submission, showtimes, rooms)
	sched.Publish = func(userID, cinemaID uint64, passID string, created []planner.ExistingShowtime) {
		ev := queue.BatchScheduledEvent{
			PassID:      passID,
			CinemaID:    cinemaID,
			ScheduledBy: userID,
			ScheduledAt: time.Now().UTC().Format(time.RFC3339),
		}
		if len(created) > 0 {
			ev.MovieID = created[0].MovieID
			ev.MovieTitle = created[0].MovieTitle
		}
		for _, st := range created {
			ev.Showtimes = append(ev.Showtimes, queue.ScheduledShowtime{
				ShowtimeID: st.ID,
				RoomID:     st.RoomID,
				RoomName:   st.RoomName,
				Format:     st.Format,
				StartsAt:   st.StartsAt.Format(time.RFC3339),
				EndsAt:     st.EndsAt.Format(time.RFC3339),
				PriceCents: st.PriceCents,
			})
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue_publisher.PublishBatchScheduled(ctx, ev)
	}
	auth := handler.NewAuthHandler(users, cfg.JWTSecret, cfg.AccessTTLMin, cfg.BcryptCost)

	// Background audit consumer; runs its own reconnect loop.
	go func() {
		if err := queue.StartBatchConsumer(); err != nil {
			log.Printf("batch consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, auth, cfg.JWTSecret)
	router.RegisterSchedule(e, sched, cfg.JWTSecret, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s tz=%s)", addr, cfg.Env, cfg.CinemaTZ)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
