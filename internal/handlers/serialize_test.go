package handlers

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/example/ride-admin/internal/models"
)

func sampleRide() models.Ride {
	return models.Ride{
		ID:     42,
		Status: "pickup",
		Rider: models.User{
			ID:          1,
			FirstName:   "Alice",
			LastName:    "Reyes",
			Email:       "alice@example.com",
			PhoneNumber: "+63-900-000-0001",
			Role:        models.RoleCustomer,
		},
		Driver: models.User{
			ID:          2,
			FirstName:   "Ben",
			LastName:    "Cruz",
			Email:       "ben@example.com",
			PhoneNumber: "+63-900-000-0002",
			Role:        models.RoleRider,
		},
		PickupLatitude:   14.5995,
		PickupLongitude:  120.9842,
		DropoffLatitude:  14.5547,
		DropoffLongitude: 121.0244,
		PickupTime:       time.Date(2025, 6, 15, 8, 30, 0, 0, time.UTC),
	}
}

// Nested rider/driver fields must survive the trip to the wire shape
// untouched.
func TestSerializeRideRoundTrip(t *testing.T) {
	ride := sampleRide()
	out := serializeRide(ride)

	if out.ID != 42 || out.Status != "pickup" {
		t.Fatalf("ride identity mangled: %+v", out)
	}
	if out.Rider.ID != ride.Rider.ID || out.Rider.Role != string(ride.Rider.Role) {
		t.Fatalf("rider mismatch: %+v", out.Rider)
	}
	if out.Rider.Email != "alice@example.com" || out.Rider.PhoneNumber != "+63-900-000-0001" {
		t.Fatalf("rider contact mismatch: %+v", out.Rider)
	}
	if out.Driver.ID != 2 || out.Driver.Role != "rider" {
		t.Fatalf("driver mismatch: %+v", out.Driver)
	}
	if out.PickupLatitude != 14.5995 || out.DropoffLongitude != 121.0244 {
		t.Fatalf("coordinates mismatch: %+v", out)
	}
}

func TestSerializeRideEventWindow(t *testing.T) {
	ride := sampleRide()
	ride.TodaysEvents = []models.RideEvent{
		{ID: 7, RideID: 42, Description: "driver arrived", CreatedAt: time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)},
	}

	out := serializeRide(ride)
	if len(out.TodaysRideEvents) != 1 {
		t.Fatalf("expected 1 event, got %d", len(out.TodaysRideEvents))
	}
	e := out.TodaysRideEvents[0]
	if e.ID != 7 || e.Description != "driver arrived" {
		t.Fatalf("event mismatch: %+v", e)
	}
	if e.Metadata != nil {
		t.Fatalf("no metadata expected, got %s", e.Metadata)
	}
}

// A ride whose window was never attached serializes with an empty
// list, not null.
func TestSerializeRideMissingWindow(t *testing.T) {
	out := serializeRide(sampleRide())

	raw, err := json.Marshal(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), `"todays_ride_events":[]`) {
		t.Fatalf("expected empty event list in payload: %s", raw)
	}
}

func TestSerializeRideEventMetadata(t *testing.T) {
	e := models.RideEvent{
		ID:          3,
		Description: "status changed",
		Metadata:    datatypes.JSON([]byte(`{"from":"en-route","to":"dropoff"}`)),
	}
	out := serializeRideEvent(e)
	if string(out.Metadata) != `{"from":"en-route","to":"dropoff"}` {
		t.Fatalf("metadata passthrough broken: %s", out.Metadata)
	}
}

func TestUserJSONNeverLeaksPassword(t *testing.T) {
	u := sampleRide().Rider
	u.Password = "hash-should-not-appear"

	raw, err := json.Marshal(serializeUser(u))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(raw), "hash-should-not-appear") || strings.Contains(string(raw), "password") {
		t.Fatalf("password leaked: %s", raw)
	}
}
