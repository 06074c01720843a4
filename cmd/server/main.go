package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/cinema-club/internal/catalog"
	"github.com/iliyamo/cinema-club/internal/config"
	"github.com/iliyamo/cinema-club/internal/database"
	"github.com/iliyamo/cinema-club/internal/enrich"
	"github.com/iliyamo/cinema-club/internal/handler"
	"github.com/iliyamo/cinema-club/internal/metadata"
	"github.com/iliyamo/cinema-club/internal/middleware"
	"github.com/iliyamo/cinema-club/internal/model"
	"github.com/iliyamo/cinema-club/internal/pkg/clock"
	"github.com/iliyamo/cinema-club/internal/queue"
	"github.com/iliyamo/cinema-club/internal/repository"
	"github.com/iliyamo/cinema-club/internal/router"
	"github.com/iliyamo/cinema-club/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return err
	}
	defer db.Close()
	if cfg.DBMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
		log.Info("schema migrated")
	}

	rdb := config.NewRedisClient(ctx)
	if rdb == nil {
		log.Warn("redis unavailable, response cache and rate limiting disabled")
	} else {
		defer rdb.Close()
	}

	clk := clock.NewRealClock()
	filters := catalog.NewFilterBuilder(clk)
	screenings := repository.NewScreeningRepo(db)
	people := repository.NewPersonRepo(db)
	venues := repository.NewVenueRepo(db)

	upcomingList, err := catalog.NewLister[model.ScreeningRow](catalog.Screenings, filters, screenings)
	if err != nil {
		return err
	}
	archiveList, err := catalog.NewLister[model.ScreeningRow](catalog.Archive, filters, screenings)
	if err != nil {
		return err
	}
	peopleList, err := catalog.NewLister[model.Person](catalog.People, filters, people)
	if err != nil {
		return err
	}
	venueList, err := catalog.NewLister[model.Venue](catalog.Venues, filters, venues)
	if err != nil {
		return err
	}

	cat := router.Catalog{
		Screenings: handler.NewCatalogHandler(upcomingList, screenings.GetRow, log),
		Archive:    handler.NewCatalogHandler(archiveList, screenings.GetRow, log),
		People:     handler.NewCatalogHandler(peopleList, people.GetByID, log),
		Venues:     handler.NewCatalogHandler(venueList, venues.GetByID, log),
	}

	if ec := config.LoadEnrichConfig(); ec.Enabled {
		mc := config.LoadMetadataConfig()
		client := metadata.NewClient(metadata.Config{
			BaseURL:         mc.BaseURL,
			APIKey:          mc.APIKey,
			Timeout:         mc.Timeout,
			BreakerFailures: uint32(max(mc.BreakerFailures, 0)),
			BreakerCooldown: mc.BreakerCooldown,
		})
		fanout := enrich.NewFanout(ec.Timeout, ec.Concurrency, log)
		cat.Screenings.WithEnrichment(fanout, model.ScreeningRow.ExternalID, client.Fetcher(metadata.Movie))
		cat.Archive.WithEnrichment(fanout, model.ScreeningRow.ExternalID, client.Fetcher(metadata.Movie))
		cat.People.WithEnrichment(fanout, model.Person.ExternalID, client.Fetcher(metadata.Person))
	}

	bc := config.LoadBrokerConfig()
	var events service.EventPublisher
	if bc.Enabled {
		events = queue.NewPublisher(bc.URL, log)
		consumer := queue.NewConsumer(bc.URL, bc.AuditDir, log)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("audit consumer stopped", "error", err)
			}
		}()
	}
	tickets := service.NewTicketService(repository.NewMemberRepo(db), screenings, repository.NewTicketRepo(db), events, clk, log)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewRequestValidator()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			attrs := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency}
			if v.Error != nil {
				log.LogAttrs(c.Request().Context(), slog.LevelError, "request", slog.Group("http", attrs...), slog.String("error", v.Error.Error()))
				return nil
			}
			log.LogAttrs(c.Request().Context(), slog.LevelInfo, "request", slog.Group("http", attrs...))
			return nil
		},
	}))

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	router.RegisterRoutes(e, db)
	router.RegisterCatalog(e, cat, limiter, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	router.RegisterTickets(e, handler.NewTicketHandler(tickets, log), cfg.JWTSecret, cfg.JWTIssuer, limiter)

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", addr, "env", cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info("shutting down")
	return e.Shutdown(shutdownCtx)
}
