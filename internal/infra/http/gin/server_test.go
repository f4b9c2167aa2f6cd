package ginserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"roomgrid/internal/app/scheduling"
	"roomgrid/internal/domain/admission"
	"roomgrid/internal/domain/calendar"
	"roomgrid/internal/domain/capacity"
	"roomgrid/internal/domain/reservation"
	"roomgrid/internal/domain/room"
	"roomgrid/internal/domain/timeline"
	"roomgrid/internal/infra/config"
	"roomgrid/internal/infra/obs"
	"roomgrid/internal/infra/storage/memory"
)

func newTestServer(t *testing.T) (*http.Server, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	gate, err := calendar.NewGate(nil)
	if err != nil {
		t.Fatalf("NewGate: %v", err)
	}
	model := capacity.NewModel(15, capacity.FlatPolicy{})
	ids := 0
	service := scheduling.NewService(
		store,
		admission.NewController(store, gate, model),
		timeline.NewProjector(store, gate, model),
		room.NewRegistry(store, 15),
		memory.NewOutbox(),
		func() string { ids++; return fmt.Sprintf("res-%03d", ids) },
		func() time.Time { return time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC) },
		nil,
	)
	cfg := config.Config{Env: "test", HTTPAddr: ":0"}
	server := NewServer(cfg, obs.Middleware{}, obs.HealthHandlers{}, Handlers{
		Reservation:  ReservationHandler{Service: service},
		Availability: AvailabilityHandler{Service: service},
	})
	return server, store
}

func doJSON(t *testing.T, server *http.Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestCreateReservationEndpoint(t *testing.T) {
	server, _ := newTestServer(t)
	rec := doJSON(t, server, http.MethodPost, "/api/v1/reservations",
		`{"room_id":"S.1.1","date":"2025-03-03","start":"10:00","end":"11:00","party_size":4,"requester":"ana"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "active" {
		t.Errorf("status = %v, want active", body["status"])
	}
	if body["room_id"] != "S.1.1" {
		t.Errorf("room_id = %v", body["room_id"])
	}
}

func TestCreateReservationValidationIs400(t *testing.T) {
	server, _ := newTestServer(t)
	rec := doJSON(t, server, http.MethodPost, "/api/v1/reservations",
		`{"room_id":"S.1.1","date":"2025-03-03","start":"11:00","end":"10:00","party_size":4,"requester":"ana"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCreateReservationClassConflictIs409(t *testing.T) {
	server, store := newTestServer(t)
	store.AddFixedOccupation(reservation.FixedOccupation{RoomID: "S.1.1", Date: "2025-03-03", Start: "10:00", End: "12:00"})
	rec := doJSON(t, server, http.MethodPost, "/api/v1/reservations",
		`{"room_id":"S.1.1","date":"2025-03-03","start":"11:00","end":"13:00","party_size":2,"requester":"ana"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	decision, ok := body["decision"].(map[string]any)
	if !ok {
		t.Fatalf("body missing decision: %s", rec.Body.String())
	}
	if decision["outcome"] != "fixed_conflict" {
		t.Errorf("outcome = %v", decision["outcome"])
	}
}

func TestCancelUnknownReservationIs404(t *testing.T) {
	server, _ := newTestServer(t)
	rec := doJSON(t, server, http.MethodDelete, "/api/v1/reservations/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestEvaluateReturnsDecisionBody(t *testing.T) {
	server, _ := newTestServer(t)
	rec := doJSON(t, server, http.MethodPost, "/api/v1/admission/evaluate",
		`{"room_id":"S.1.1","date":"2025-03-08","start":"10:00","end":"11:00","party_size":2}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["outcome"] != "calendar_blocked" {
		t.Errorf("outcome = %v, want calendar_blocked", body["outcome"])
	}
	if body["block_reason"] != "weekend" {
		t.Errorf("block_reason = %v, want weekend", body["block_reason"])
	}
}

func TestFreeRoomsQueryValidation(t *testing.T) {
	server, store := newTestServer(t)
	store.AddFixedOccupation(reservation.FixedOccupation{RoomID: "S.1.1", Date: "2025-03-03", Start: "08:00", End: "09:00"})

	rec := doJSON(t, server, http.MethodGet, "/api/v1/rooms/free?date=2025-03-03&at=10:00", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	items, ok := body["items"].([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("items = %v, want one free room", body["items"])
	}

	rec = doJSON(t, server, http.MethodGet, "/api/v1/rooms/free?date=bad&at=10:00", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad date status = %d, want 400", rec.Code)
	}
	rec = doJSON(t, server, http.MethodGet, "/api/v1/rooms/free?date=2025-03-03&at=25:99", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad instant status = %d, want 400", rec.Code)
	}
}

func TestRoomStatusEndpoint(t *testing.T) {
	server, store := newTestServer(t)
	store.AddFixedOccupation(reservation.FixedOccupation{RoomID: "S.1.1", Date: "2025-03-03", Start: "10:00", End: "12:00"})
	rec := doJSON(t, server, http.MethodGet, "/api/v1/rooms/S.1.1/status?date=2025-03-03&at=10:30", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["state"] != "occupied" || body["cause"] != "class" {
		t.Errorf("state = %v cause = %v, want occupied/class", body["state"], body["cause"])
	}
	if body["next_change_at"] != "12:00" {
		t.Errorf("next_change_at = %v, want 12:00", body["next_change_at"])
	}
}
