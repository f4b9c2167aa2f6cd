package mongo

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"roomgrid/internal/domain/reservation"
)

// Store implements reservation.Store over two collections: the reservation
// records this service owns and the fixed occupations fed by the timetable import.
type Store struct {
	reservations *mongo.Collection
	occupations  *mongo.Collection
}

// NewStore binds the store to its collections.
func NewStore(db *mongo.Database) *Store {
	return &Store{
		reservations: db.Collection("reservations"),
		occupations:  db.Collection("fixed_occupations"),
	}
}

// ImportFixedOccupation upserts one timetable interval, keyed by its full
// identity so replays of the feed stay idempotent.
func (s *Store) ImportFixedOccupation(ctx context.Context, occ reservation.FixedOccupation) error {
	filter := bson.M{"room_id": occ.RoomID, "date": occ.Date, "start": occ.Start, "end": occ.End}
	update := bson.M{"$set": occupationDocument{RoomID: occ.RoomID, Date: occ.Date, Start: occ.Start, End: occ.End}}
	_, err := s.occupations.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (s *Store) ListFixedOccupations(ctx context.Context, roomID, date string) ([]reservation.FixedOccupation, error) {
	cursor, err := s.occupations.Find(ctx, bson.M{"room_id": roomID, "date": date})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []reservation.FixedOccupation
	for cursor.Next(ctx) {
		var doc occupationDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, reservation.FixedOccupation{RoomID: doc.RoomID, Date: doc.Date, Start: doc.Start, End: doc.End})
	}
	return out, cursor.Err()
}

func (s *Store) ListActiveReservations(ctx context.Context, roomID, date string) ([]*reservation.Reservation, error) {
	filter := bson.M{"room_id": roomID, "date": date, "status": string(reservation.StatusActive)}
	cursor, err := s.reservations.Find(ctx, filter, options.Find().SetSort(bson.M{"start": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*reservation.Reservation
	for cursor.Next(ctx) {
		var doc reservationDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

func (s *Store) GetReservation(ctx context.Context, id string) (*reservation.Reservation, error) {
	var doc reservationDocument
	if err := s.reservations.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reservation.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (s *Store) SaveReservation(ctx context.Context, r *reservation.Reservation) error {
	doc := newReservationDocument(r)
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	_, err := s.reservations.UpdateOne(ctx, bson.M{"_id": doc.ID}, update, opts)
	return err
}

func (s *Store) DistinctRoomIDs(ctx context.Context) ([]string, error) {
	fromOccupations, err := s.occupations.Distinct(ctx, "room_id", bson.M{})
	if err != nil {
		return nil, err
	}
	fromReservations, err := s.reservations.Distinct(ctx, "room_id", bson.M{})
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(fromOccupations)+len(fromReservations))
	for _, raw := range append(fromOccupations, fromReservations...) {
		if id, ok := raw.(string); ok && id != "" {
			set[id] = struct{}{}
		}
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

type reservationDocument struct {
	ID          string `bson:"_id"`
	RoomID      string `bson:"room_id"`
	Date        string `bson:"date"`
	Start       string `bson:"start"`
	End         string `bson:"end"`
	PartySize   int    `bson:"party_size"`
	Requester   string `bson:"requester"`
	Reason      string `bson:"reason"`
	Status      string `bson:"status"`
	CreatedAt   int64  `bson:"created_at"`
	CancelledAt *int64 `bson:"cancelled_at,omitempty"`
}

type occupationDocument struct {
	RoomID string `bson:"room_id"`
	Date   string `bson:"date"`
	Start  string `bson:"start"`
	End    string `bson:"end"`
}

func newReservationDocument(r *reservation.Reservation) reservationDocument {
	doc := reservationDocument{
		ID:        r.ID,
		RoomID:    r.RoomID,
		Date:      r.Date,
		Start:     r.Start,
		End:       r.End,
		PartySize: r.PartySize,
		Requester: r.Requester,
		Reason:    r.Reason,
		Status:    string(r.Status),
		CreatedAt: r.CreatedAt.UnixMilli(),
	}
	if r.CancelledAt != nil {
		ms := r.CancelledAt.UnixMilli()
		doc.CancelledAt = &ms
	}
	return doc
}

func (d reservationDocument) toAggregate() *reservation.Reservation {
	agg := &reservation.Reservation{
		ID:        d.ID,
		RoomID:    d.RoomID,
		Date:      d.Date,
		Start:     d.Start,
		End:       d.End,
		PartySize: d.PartySize,
		Requester: d.Requester,
		Reason:    d.Reason,
		Status:    reservation.Status(d.Status),
		CreatedAt: timestampToTime(d.CreatedAt),
	}
	if d.CancelledAt != nil {
		at := timestampToTime(*d.CancelledAt)
		agg.CancelledAt = &at
	}
	return agg
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

var _ reservation.Store = (*Store)(nil)
