package handlers

import (
	"encoding/json"
	"time"

	"github.com/example/ride-admin/internal/models"
)

// Wire shapes for the admin API. Field lists are fixed; handlers must
// not leak anything beyond these.

type UserJSON struct {
	ID          uint   `json:"id"`
	Role        string `json:"role"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

type RideEventJSON struct {
	ID          uint            `json:"id"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
}

type RideJSON struct {
	ID               uint            `json:"id"`
	Status           string          `json:"status"`
	Rider            UserJSON        `json:"rider"`
	Driver           UserJSON        `json:"driver"`
	PickupLatitude   float64         `json:"pickup_latitude"`
	PickupLongitude  float64         `json:"pickup_longitude"`
	DropoffLatitude  float64         `json:"dropoff_latitude"`
	DropoffLongitude float64         `json:"dropoff_longitude"`
	PickupTime       time.Time       `json:"pickup_time"`
	TodaysRideEvents []RideEventJSON `json:"todays_ride_events"`
}

func serializeUser(u models.User) UserJSON {
	return UserJSON{
		ID:          u.ID,
		Role:        string(u.Role),
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
	}
}

func serializeRideEvent(e models.RideEvent) RideEventJSON {
	out := RideEventJSON{
		ID:          e.ID,
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
	}
	if len(e.Metadata) > 0 {
		out.Metadata = json.RawMessage(e.Metadata)
	}
	return out
}

// serializeRide maps whatever event window was attached upstream.
// A ride that never got one serializes with an empty list, not null.
func serializeRide(r models.Ride) RideJSON {
	events := make([]RideEventJSON, 0, len(r.TodaysEvents))
	for _, e := range r.TodaysEvents {
		events = append(events, serializeRideEvent(e))
	}

	return RideJSON{
		ID:               r.ID,
		Status:           r.Status,
		Rider:            serializeUser(r.Rider),
		Driver:           serializeUser(r.Driver),
		PickupLatitude:   r.PickupLatitude,
		PickupLongitude:  r.PickupLongitude,
		DropoffLatitude:  r.DropoffLatitude,
		DropoffLongitude: r.DropoffLongitude,
		PickupTime:       r.PickupTime,
		TodaysRideEvents: events,
	}
}
