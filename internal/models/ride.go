package models

import "time"

type Ride struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Status string `gorm:"type:varchar(50);not null;index" json:"status"`

	RiderID  uint `gorm:"not null;index" json:"rider_id"`
	DriverID uint `gorm:"not null;index" json:"driver_id"`

	// Deleting a user takes their rides with them.
	Rider  User `gorm:"foreignKey:RiderID;constraint:OnDelete:CASCADE" json:"rider"`
	Driver User `gorm:"foreignKey:DriverID;constraint:OnDelete:CASCADE" json:"driver"`

	PickupLatitude   float64 `json:"pickup_latitude"`
	PickupLongitude  float64 `json:"pickup_longitude"`
	DropoffLatitude  float64 `json:"dropoff_latitude"`
	DropoffLongitude float64 `json:"dropoff_longitude"`

	PickupTime time.Time `gorm:"index" json:"pickup_time"`

	// Populated by the list/detail handlers with events from the last
	// 24 hours, never by GORM itself.
	TodaysEvents []RideEvent `gorm:"-" json:"-"`
}
