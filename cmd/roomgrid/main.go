package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"roomgrid/internal/app/scheduling"
	"roomgrid/internal/domain/admission"
	"roomgrid/internal/domain/calendar"
	"roomgrid/internal/domain/capacity"
	"roomgrid/internal/domain/reservation"
	"roomgrid/internal/domain/room"
	"roomgrid/internal/domain/timeline"
	"roomgrid/internal/domain/timeslot"
	"roomgrid/internal/infra/broker/kafka"
	"roomgrid/internal/infra/config"
	mongostore "roomgrid/internal/infra/db/mongo"
	ginserver "roomgrid/internal/infra/http/gin"
	"roomgrid/internal/infra/obs"
	infraoutbox "roomgrid/internal/infra/outbox"
	"roomgrid/internal/infra/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	gate, err := calendar.NewGate(cfg.Holidays)
	if err != nil {
		logger.Error("invalid holiday calendar", "error", err)
		os.Exit(1)
	}
	policy, err := capacity.PolicyByName(cfg.CapacityPolicy)
	if err != nil {
		logger.Error("invalid capacity policy", "error", err, "policy", cfg.CapacityPolicy)
		os.Exit(1)
	}
	model := capacity.NewModel(cfg.BaseCapacity, policy)

	store, ready, err := buildStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("storage init failed", "error", err, "mode", cfg.StorageMode)
		os.Exit(1)
	}

	outboxStore := memory.NewOutbox()
	controller := admission.NewController(store, gate, model)
	projector := timeline.NewProjector(store, gate, model)
	registry := room.NewRegistry(store, cfg.BaseCapacity)
	service := scheduling.NewService(store, controller, projector, registry, outboxStore, uuid.NewString, time.Now, logger)

	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			logger.Error("kafka producer init failed", "error", err)
			os.Exit(1)
		}
		defer producer.Close()
		worker := &infraoutbox.Worker{
			Queue:       outboxStore,
			Producer:    producer,
			Interval:    cfg.OutboxPollInterval,
			TopicPrefix: cfg.KafkaTopicPrefix,
			ID:          uuid.NewString(),
			Backoff:     cfg.RetryBackoff,
		}
		go func() {
			if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox worker stopped", "error", err)
			}
		}()
		logger.Info("outbox worker started", "brokers", cfg.KafkaBrokers, "poll_interval", cfg.OutboxPollInterval)

		if cfg.TimetableTopic != "" {
			sink, ok := store.(kafka.OccupationSink)
			if !ok {
				logger.Error("store does not accept timetable imports", "mode", cfg.StorageMode)
				os.Exit(1)
			}
			consumer, err := kafka.NewTimetableConsumer(cfg.KafkaBrokers, "roomgrid-timetable", nil, sink, logger)
			if err != nil {
				logger.Error("timetable consumer init failed", "error", err)
				os.Exit(1)
			}
			defer consumer.Close()
			go func() {
				if err := consumer.Run(ctx, []string{cfg.TimetableTopic}); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("timetable consumer stopped", "error", err)
				}
			}()
			logger.Info("timetable consumer started", "topic", cfg.TimetableTopic)
		}
	} else {
		logger.Info("kafka brokers not configured, events stay in the outbox")
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{Ready: ready}, ginserver.Handlers{
		Reservation:  ginserver.ReservationHandler{Service: service},
		Availability: ginserver.AvailabilityHandler{Service: service},
	})

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode, "capacity_policy", policy.Name())
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

func buildStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (reservation.Store, func() error, error) {
	switch cfg.StorageMode {
	case "mongo":
		client, err := mongostore.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, nil, err
		}
		ready := func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		}
		return mongostore.NewStore(client.DB), ready, nil
	default:
		store := memory.NewStore()
		if cfg.OccupationFixtures != "" {
			if err := loadOccupationFixtures(store, cfg.OccupationFixtures, logger); err != nil {
				logger.Warn("occupation fixtures load failed", "error", err, "path", cfg.OccupationFixtures)
			}
		}
		return store, func() error { return nil }, nil
	}
}

type occupationFixture struct {
	RoomID string `json:"room_id"`
	Date   string `json:"date"`
	Start  string `json:"start"`
	End    string `json:"end"`
}

// loadOccupationFixtures seeds the memory store with the fixed class timetable.
func loadOccupationFixtures(store *memory.Store, path string, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("occupation fixtures file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("read fixtures: %w", err)
	}
	var fixtures []occupationFixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}

	loaded := 0
	for _, fx := range fixtures {
		if fx.RoomID == "" || !timeslot.Valid(fx.Start) || !timeslot.Valid(fx.End) {
			logger.Warn("occupation fixture skipped", "room_id", fx.RoomID, "start", fx.Start, "end", fx.End)
			continue
		}
		if _, err := calendar.ParseDate(fx.Date); err != nil {
			logger.Warn("occupation fixture skipped", "room_id", fx.RoomID, "date", fx.Date)
			continue
		}
		store.AddFixedOccupation(reservation.FixedOccupation{
			RoomID: fx.RoomID,
			Date:   fx.Date,
			Start:  fx.Start,
			End:    fx.End,
		})
		loaded++
	}
	logger.Info("occupation fixtures imported", "count", loaded, "path", path)
	return nil
}
