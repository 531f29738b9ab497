package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/sakani-app/sakani-backend/pkg/enums"
)

// User represents the canonical identity entity for residents and admins.
// Room number, contact number and stay length are mandatory for residents
// only; the service layer enforces the per-role requirement.
type User struct {
	ID            uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	Username      string         `gorm:"column:username;type:text;not null;uniqueIndex"`
	PasswordHash  string         `gorm:"column:password_hash;not null"`
	Name          string         `gorm:"column:name;not null"`
	Role          enums.UserRole `gorm:"column:role;type:text;not null;default:'resident'"`
	Email         *string        `gorm:"column:email"`
	RoomNumber    *string        `gorm:"column:room_number"`
	ContactNumber *string        `gorm:"column:contact_number"`
	StayDays      *int           `gorm:"column:stay_days"`
	StartDate     *time.Time     `gorm:"column:start_date"`
	PushToken     *string        `gorm:"column:push_token"`
	IsActive      bool           `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == enums.UserRoleAdmin
}

// Room returns the user's room number or an empty string.
func (u User) Room() string {
	if u.RoomNumber == nil {
		return ""
	}
	return *u.RoomNumber
}
