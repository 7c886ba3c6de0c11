package models

import (
	"fmt"
	"net/url"
	"time"

	"github.com/backoffice-qa/backoffice-e2e/internal/utils"
)

const (
	// userFormTimeLayout is the datetime-local value used by the user form.
	userFormTimeLayout = "2006-01-02T15:04"
	// userTableTimeLayout is how the Users table renders validity dates.
	userTableTimeLayout = "Jan 2 2006 03:04 PM"
)

// UserEntity is an admin account of Admin / Users.
type UserEntity struct {
	ID        string    `json:"id,omitempty" db:"id"`
	Username  string    `json:"username" db:"username"`
	Password  string    `json:"-"`
	ValidFrom time.Time `json:"date_valid_from"`
	ValidTo   time.Time `json:"date_valid_to"`
	Email     string    `json:"email,omitempty"`
}

func (u *UserEntity) EntityID() string       { return u.ID }
func (u *UserEntity) SetEntityID(id string)  { u.ID = id }
func (u *UserEntity) EntityType() EntityType { return EntityTypeUser }

func (u *UserEntity) Payload() Payload {
	fields := url.Values{}
	fields.Set("username", u.Username)
	fields.Set("password", u.Password)
	fields.Set("confirmed_password", u.Password)
	fields.Set("date_valid_from", formatTime(u.ValidFrom, userFormTimeLayout))
	fields.Set("date_valid_to", formatTime(u.ValidTo, userFormTimeLayout))
	fields.Set("email", u.Email)
	fields.Set("status", "1")
	return Payload{Fields: fields}
}

// LookupParams returns id, username and the validity window as rendered
// in the Users table.
func (u *UserEntity) LookupParams() map[string]string {
	return map[string]string{
		"id":              u.ID,
		"username":        u.Username,
		"date_valid_from": formatTime(u.ValidFrom, userTableTimeLayout),
		"date_valid_to":   formatTime(u.ValidTo, userTableTimeLayout),
	}
}

// formatTime leaves an unset time empty so lookups skip it.
func formatTime(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(layout)
}

func (u *UserEntity) String() string {
	return fmt.Sprintf("UserEntity(id=%s, username=%s, password=%s, valid=%s..%s)",
		u.ID, u.Username, utils.MaskString(u.Password),
		u.ValidFrom.Format(userFormTimeLayout), u.ValidTo.Format(userFormTimeLayout))
}
