package branding

import "time"

// Logo is a branding-asset record. The current logo is the most recently
// created row; setting a new one keeps the history.
type Logo struct {
	ID        string    `json:"_id"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
