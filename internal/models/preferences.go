package models

import "time"

// Preferences is the singleton row of local user preferences: the last
// known device location used for distance ranking and the currently
// selected material filter. It lives in its own local table so it can be
// cleared independently of the cache and the queue.
type Preferences struct {
	LastLatitude   *float64 `db:"last_latitude" json:"last_latitude"`
	LastLongitude  *float64 `db:"last_longitude" json:"last_longitude"`
	MaterialFilter string   `db:"material_filter" json:"material_filter"`
	UpdatedAt      int64    `db:"updated_at" json:"updated_at"`
}

// TableName returns the table name for Preferences.
func (Preferences) TableName() string {
	return "preferences"
}

// UpdatedAtTime returns UpdatedAt as time.Time.
func (p *Preferences) UpdatedAtTime() time.Time {
	return time.Unix(p.UpdatedAt, 0)
}
