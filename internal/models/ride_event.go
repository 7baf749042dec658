package models

import (
	"time"

	"gorm.io/datatypes"
)

// RideEvent is an append-only audit entry owned by a single ride.
type RideEvent struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	RideID uint `gorm:"not null;index" json:"ride_id"`

	Ride *Ride `gorm:"foreignKey:RideID;constraint:OnDelete:CASCADE" json:"-"`

	Description string         `gorm:"type:varchar(255);not null" json:"description"`
	Metadata    datatypes.JSON `json:"metadata,omitempty"` // optional structured payload

	CreatedAt time.Time `gorm:"index;autoCreateTime" json:"created_at"`
}
