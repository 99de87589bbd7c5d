package user

import "time"

// User represents an account. Every user acts for exactly one agency; the
// agency id rides along in the auth context so classification calls always
// get the viewer office explicitly.
type User struct {
	ID           uint64 `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email" gorm:"uniqueIndex"`
	Password     string `json:"-" gorm:"-"` // input only, not stored in db
	PasswordHash string `json:"-"`
	AgencyID     uint64 `json:"agency_id" gorm:"index"`
	TokenVersion uint64 `json:"-" gorm:"default:0"`
	IsActive     bool   `json:"is_active" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SafeUser represents a user without sensitive information
type SafeUser struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	AgencyID  uint64    `json:"agency_id"`
	CreatedAt time.Time `json:"created_at"`
	IsActive  bool      `json:"is_active"`
}

// ToSafeUser converts a User to a SafeUser
func (u *User) ToSafeUser() SafeUser {
	return SafeUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		AgencyID:  u.AgencyID,
		CreatedAt: u.CreatedAt,
		IsActive:  u.IsActive,
	}
}
