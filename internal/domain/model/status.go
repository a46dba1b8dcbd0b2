package model

import "strings"

// AccountStatus is the ingestion state of one handle within one job.
type AccountStatus string

const (
	AccountStatusPending AccountStatus = "pending"
	AccountStatusSuccess AccountStatus = "success"
	// AccountStatusFailed is part of the state machine but no ingestion path writes it yet.
	AccountStatusFailed AccountStatus = "failed"
)

// Valid reports whether the status is one of the known values.
func (s AccountStatus) Valid() bool {
	switch s {
	case AccountStatusPending, AccountStatusSuccess, AccountStatusFailed:
		return true
	default:
		return false
	}
}

// ParseAccountStatus normalizes a stored status string and reports whether it is supported.
func ParseAccountStatus(value string) (AccountStatus, bool) {
	s := AccountStatus(strings.ToLower(strings.TrimSpace(value)))
	if s.Valid() {
		return s, true
	}
	return "", false
}

// StatusEntry is a single (handle, status) pair reported for a job.
type StatusEntry struct {
	Handle string        `json:"username"`
	Status AccountStatus `json:"status"`
}
