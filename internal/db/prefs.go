package db

import (
	"database/sql"
	"time"

	apperrors "github.com/lmazzini/ecoponto/internal/errors"
	"github.com/lmazzini/ecoponto/internal/models"
)

// PrefStore persists the singleton user-preferences row, independently
// durable and independently clearable from the cache and the queue.
type PrefStore struct {
	db *sql.DB
}

// NewPrefStore creates a PrefStore over the given database.
func NewPrefStore(db *DB) *PrefStore {
	return &PrefStore{db: db.DB}
}

// Get returns the stored preferences, or zero-value defaults if the row
// has never been written.
func (s *PrefStore) Get() (*models.Preferences, error) {
	var p models.Preferences
	var lat, lon sql.NullFloat64
	err := s.db.QueryRow(
		"SELECT last_latitude, last_longitude, material_filter, updated_at FROM preferences WHERE id = 1",
	).Scan(&lat, &lon, &p.MaterialFilter, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return &models.Preferences{}, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrLocalStorage, "failed to read preferences", err)
	}
	if lat.Valid {
		p.LastLatitude = &lat.Float64
	}
	if lon.Valid {
		p.LastLongitude = &lon.Float64
	}
	return &p, nil
}

// Save upserts the singleton row.
func (s *PrefStore) Save(p *models.Preferences) error {
	p.UpdatedAt = time.Now().Unix()
	_, err := s.db.Exec(`
		INSERT INTO preferences (id, last_latitude, last_longitude, material_filter, updated_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			last_latitude = excluded.last_latitude,
			last_longitude = excluded.last_longitude,
			material_filter = excluded.material_filter,
			updated_at = excluded.updated_at`,
		p.LastLatitude, p.LastLongitude, p.MaterialFilter, p.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrLocalStorage, "failed to save preferences", err)
	}
	return nil
}

// Clear removes the preferences row.
func (s *PrefStore) Clear() error {
	if _, err := s.db.Exec("DELETE FROM preferences WHERE id = 1"); err != nil {
		return apperrors.Wrap(apperrors.ErrLocalStorage, "failed to clear preferences", err)
	}
	return nil
}
