package models

import "time"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleRider    Role = "rider"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleRider, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	FirstName string `gorm:"type:varchar(150)" json:"first_name"`
	LastName  string `gorm:"type:varchar(150)" json:"last_name"`
	Email     string `gorm:"uniqueIndex;not null" json:"email"`

	Password    string `gorm:"not null" json:"-"`
	Role        Role   `gorm:"type:varchar(20);not null;default:'customer';index" json:"role"`
	PhoneNumber string `gorm:"type:varchar(20)" json:"phone_number"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
