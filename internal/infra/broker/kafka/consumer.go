package kafka

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/IBM/sarama"

	"roomgrid/internal/domain/calendar"
	"roomgrid/internal/domain/reservation"
	"roomgrid/internal/domain/timeslot"
)

// OccupationSink stores imported class occupations.
type OccupationSink interface {
	ImportFixedOccupation(ctx context.Context, occ reservation.FixedOccupation) error
}

// TimetableConsumer ingests the class timetable feed and writes each
// occupation into the store. Malformed messages are logged and skipped so one
// bad record cannot stall the partition.
type TimetableConsumer struct {
	group  sarama.ConsumerGroup
	sink   OccupationSink
	logger *slog.Logger
}

func NewTimetableConsumer(brokers []string, groupID string, cfg *sarama.Config, sink OccupationSink, logger *slog.Logger) (*TimetableConsumer, error) {
	if cfg == nil {
		cfg = sarama.NewConfig()
	}
	cfg.Version = sarama.V2_5_0_0
	g, err := sarama.NewConsumerGroup(brokers, groupID, cfg)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TimetableConsumer{group: g, sink: sink, logger: logger}, nil
}

func (c *TimetableConsumer) Run(ctx context.Context, topics []string) error {
	handler := timetableGroupHandler{sink: c.sink, logger: c.logger}
	for {
		if err := c.group.Consume(ctx, topics, handler); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (c *TimetableConsumer) Close() error {
	return c.group.Close()
}

type timetableGroupHandler struct {
	sink   OccupationSink
	logger *slog.Logger
}

func (h timetableGroupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h timetableGroupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

type occupationMessage struct {
	RoomID string `json:"room_id"`
	Date   string `json:"date"`
	Start  string `json:"start"`
	End    string `json:"end"`
}

func (h timetableGroupHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		occ, err := decodeOccupation(message.Value)
		if err != nil {
			h.logger.Warn("timetable message skipped", "error", err, "offset", message.Offset)
			sess.MarkMessage(message, "")
			continue
		}
		if err := h.sink.ImportFixedOccupation(sess.Context(), occ); err != nil {
			// leave unmarked so the occupation is retried after rebalance
			h.logger.Error("occupation import failed", "error", err, "room_id", occ.RoomID)
			continue
		}
		sess.MarkMessage(message, "")
	}
	return nil
}

func decodeOccupation(raw []byte) (reservation.FixedOccupation, error) {
	var msg occupationMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return reservation.FixedOccupation{}, err
	}
	if msg.RoomID == "" {
		return reservation.FixedOccupation{}, reservation.ErrInvalidInterval
	}
	if _, err := calendar.ParseDate(msg.Date); err != nil {
		return reservation.FixedOccupation{}, err
	}
	if !timeslot.Valid(msg.Start) || !timeslot.Valid(msg.End) {
		return reservation.FixedOccupation{}, timeslot.ErrInvalidTimeFormat
	}
	return reservation.FixedOccupation{RoomID: msg.RoomID, Date: msg.Date, Start: msg.Start, End: msg.End}, nil
}
