package handlers

import (
	"testing"
	"time"

	"github.com/example/ride-admin/internal/models"
)

func TestWindowStart(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	got := windowStart(now)
	want := time.Date(2025, 6, 14, 12, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("windowStart = %v, want %v", got, want)
	}
}

func TestGroupEventsByRide(t *testing.T) {
	rides := []models.Ride{{ID: 1}, {ID: 2}, {ID: 3}}
	events := []models.RideEvent{
		{ID: 10, RideID: 1, Description: "pickup"},
		{ID: 11, RideID: 1, Description: "dropoff"},
		{ID: 12, RideID: 3, Description: "en-route"},
		{ID: 13, RideID: 99, Description: "orphan"}, // not in the page
	}

	groupEventsByRide(rides, events)

	if len(rides[0].TodaysEvents) != 2 {
		t.Fatalf("ride 1: expected 2 events, got %d", len(rides[0].TodaysEvents))
	}
	if rides[0].TodaysEvents[0].ID != 10 || rides[0].TodaysEvents[1].ID != 11 {
		t.Fatalf("ride 1: event order not preserved: %+v", rides[0].TodaysEvents)
	}
	if len(rides[2].TodaysEvents) != 1 || rides[2].TodaysEvents[0].Description != "en-route" {
		t.Fatalf("ride 3: wrong events: %+v", rides[2].TodaysEvents)
	}
}

// A ride with no qualifying events gets an empty list, never nil.
func TestGroupEventsByRideEmpty(t *testing.T) {
	rides := []models.Ride{{ID: 7}}
	groupEventsByRide(rides, nil)

	if rides[0].TodaysEvents == nil {
		t.Fatal("expected non-nil empty slice")
	}
	if len(rides[0].TodaysEvents) != 0 {
		t.Fatalf("expected no events, got %d", len(rides[0].TodaysEvents))
	}
}

func TestHandlerClockDefaultsToWallClock(t *testing.T) {
	h := &RideHandler{}
	before := time.Now()
	got := h.now()
	after := time.Now()
	if got.Before(before) || got.After(after) {
		t.Fatalf("h.now() = %v outside [%v, %v]", got, before, after)
	}

	fixed := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	h.Now = func() time.Time { return fixed }
	if !h.now().Equal(fixed) {
		t.Fatal("injected clock not used")
	}
}
