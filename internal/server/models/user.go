package models

import "time"

// User roles.
const (
	UserTypeLocal = "localUser"
	UserTypeAdmin = "admin"
)

// User is a registered account. PasswordHash holds an Argon2id encoded hash.
// DeletedAt is a soft-delete marker (0 = active), matching the legacy schema.
type User struct {
	ID              int64
	FullName        string
	UserName        string
	Email           string
	PasswordHash    string
	PhoneNumber     string
	ProfileImageURL string
	UserType        string
	DeletedAt       int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsAdmin reports whether the account carries the admin role.
func (u *User) IsAdmin() bool {
	return u.UserType == UserTypeAdmin
}
