package category

import "time"

// Status enumerates category visibility states.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// ValidStatus reports whether s is one of the known statuses.
func ValidStatus(s Status) bool {
	return s == StatusActive || s == StatusInactive
}

// Category is a catalog entry with the same soft-delete semantics as
// accounts: flagged rows stay in storage but are invisible to queries.
type Category struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	IsDeleted bool      `json:"-"`
}

// Filter narrows category listings.
type Filter struct {
	Search string
	Status Status
}
