//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxExternalIDLen = 64
	maxHandleLen     = 64
	maxNameLen       = 64
)

// AccountStats is the durable record of an account's public profile statistics.
// ExternalID is the remote API's stable account id and the upsert key; ID and the
// timestamps are assigned by the database.
type AccountStats struct {
	ID             int64     `json:"-"               db:"id"`
	ExternalID     string    `json:"twitter_id"      db:"external_id"`
	Name           string    `json:"name"            db:"name"`
	Handle         string    `json:"username"        db:"handle"`
	FollowingCount int       `json:"following_count" db:"following_count"`
	FollowersCount int       `json:"followers_count" db:"followers_count"`
	Description    string    `json:"description"     db:"description"`
	CreatedAt      time.Time `json:"-"               db:"created_at"`
	UpdatedAt      time.Time `json:"-"               db:"updated_at"`
}

// Validate checks the record before it is written.
func (a *AccountStats) Validate() error {
	if a == nil {
		return errors.New("account stats is required")
	}
	if err := requireBounded("external_id", a.ExternalID, maxExternalIDLen); err != nil {
		return err
	}
	if err := requireBounded("handle", a.Handle, maxHandleLen); err != nil {
		return err
	}
	if utf8.RuneCountInString(a.Name) > maxNameLen {
		return fmt.Errorf("name cannot exceed %d characters", maxNameLen)
	}
	if a.FollowersCount < 0 || a.FollowingCount < 0 {
		return errors.New("follower counts must be non-negative")
	}
	return nil
}

// SameProfile reports whether two records carry identical remote-sourced fields.
// Database-assigned fields are ignored.
func (a AccountStats) SameProfile(b AccountStats) bool {
	return a.ExternalID == b.ExternalID &&
		a.Name == b.Name &&
		a.Handle == b.Handle &&
		a.FollowingCount == b.FollowingCount &&
		a.FollowersCount == b.FollowersCount &&
		a.Description == b.Description
}

func requireBounded(field, value string, maxLen int) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required and cannot be empty", field)
	}
	if utf8.RuneCountInString(value) > maxLen {
		return fmt.Errorf("%s cannot exceed %d characters", field, maxLen)
	}
	return nil
}
