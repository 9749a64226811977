package domain

import "time"

// UserStatus represents lifecycle states for an account.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// User is the domain model for platform accounts. A user belongs to one
// school (tenant) and carries exactly one role; PersonID links to the
// employee or student record behind the account, when one exists.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	SchoolID     int64
	PersonID     *int64
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
