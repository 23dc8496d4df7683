package db

import (
	"database/sql"
	"time"

	apperrors "github.com/lmazzini/ecoponto/internal/errors"
	"github.com/lmazzini/ecoponto/internal/models"
)

// CacheStore holds the last-known-good copy of every collection-point
// record plus a cache timestamp. The timestamp is an implementation
// detail: it drives age-based pruning and is never exposed to callers.
//
// The store is exclusively owned by the sync service; no other component
// writes to it.
type CacheStore struct {
	db *sql.DB
}

// NewCacheStore creates a CacheStore over the given database.
func NewCacheStore(db *DB) *CacheStore {
	return &CacheStore{db: db.DB}
}

const cacheColumns = "id, name, description, address, latitude, longitude, phone, website, materials, display_order"

// Put upserts a single record, refreshing its cache timestamp. Once Put
// returns success the record is durable across process restarts.
func (s *CacheStore) Put(rec models.PointRecord) error {
	query := `
	INSERT INTO point_cache (id, name, description, address, latitude, longitude, phone, website, materials, display_order, cached_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		name = excluded.name,
		description = excluded.description,
		address = excluded.address,
		latitude = excluded.latitude,
		longitude = excluded.longitude,
		phone = excluded.phone,
		website = excluded.website,
		materials = excluded.materials,
		display_order = excluded.display_order,
		cached_at = excluded.cached_at
	`
	_, err := s.db.Exec(query, rec.ID, rec.Name, rec.Description, rec.Address,
		rec.Latitude, rec.Longitude, rec.Phone, rec.Website, rec.Materials,
		rec.DisplayOrder, time.Now().Unix())
	if err != nil {
		return apperrors.Wrap(apperrors.ErrLocalStorage, "failed to cache record", err)
	}
	return nil
}

// Get retrieves a single cached record by id.
func (s *CacheStore) Get(id string) (*models.PointRecord, error) {
	query := "SELECT " + cacheColumns + " FROM point_cache WHERE id = ?"
	rec, err := scanRecord(s.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, apperrors.Newf(apperrors.ErrNotFound, "record %s not cached", id)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrLocalStorage, "failed to read cache", err)
	}
	return rec, nil
}

// GetAll returns every cached record ordered the way the remote lists
// them: display_order ascending, name as a stable tiebreaker.
func (s *CacheStore) GetAll() ([]models.PointRecord, error) {
	query := "SELECT " + cacheColumns + " FROM point_cache ORDER BY display_order ASC, name ASC"
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrLocalStorage, "failed to read cache", err)
	}
	defer rows.Close()

	var recs []models.PointRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrLocalStorage, "failed to scan cached record", err)
		}
		recs = append(recs, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrLocalStorage, "failed to iterate cache", err)
	}
	return recs, nil
}

// Delete removes a single record from the cache. Deleting an absent id
// is not an error.
func (s *CacheStore) Delete(id string) error {
	if _, err := s.db.Exec("DELETE FROM point_cache WHERE id = ?", id); err != nil {
		return apperrors.Wrap(apperrors.ErrLocalStorage, "failed to delete cached record", err)
	}
	return nil
}

// ReplaceAll mirrors a full remote listing into the cache in one
// transaction. Server-confirmed rows absent from the listing are removed;
// provisional rows are kept, since the queued create that produced them
// has not reached the remote store yet.
func (s *CacheStore) ReplaceAll(recs []models.PointRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return apperrors.Wrap(apperrors.ErrLocalStorage, "failed to begin cache refresh", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"DELETE FROM point_cache WHERE id NOT LIKE ?",
		models.ProvisionalPrefix+"%",
	); err != nil {
		return apperrors.Wrap(apperrors.ErrLocalStorage, "failed to clear cache", err)
	}

	now := time.Now().Unix()
	for _, rec := range recs {
		if _, err := tx.Exec(`
			INSERT INTO point_cache (id, name, description, address, latitude, longitude, phone, website, materials, display_order, cached_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				description = excluded.description,
				address = excluded.address,
				latitude = excluded.latitude,
				longitude = excluded.longitude,
				phone = excluded.phone,
				website = excluded.website,
				materials = excluded.materials,
				display_order = excluded.display_order,
				cached_at = excluded.cached_at`,
			rec.ID, rec.Name, rec.Description, rec.Address, rec.Latitude,
			rec.Longitude, rec.Phone, rec.Website, rec.Materials,
			rec.DisplayOrder, now,
		); err != nil {
			return apperrors.Wrap(apperrors.ErrLocalStorage, "failed to refresh cache", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Wrap(apperrors.ErrLocalStorage, "failed to commit cache refresh", err)
	}
	return nil
}

// PruneOlderThan removes records whose cache timestamp is older than the
// horizon and returns how many were evicted. Eviction is advisory cache
// hygiene: the remote store is the source of truth whenever reachable.
func (s *CacheStore) PruneOlderThan(horizon time.Duration) (int, error) {
	cutoff := time.Now().Add(-horizon).Unix()
	res, err := s.db.Exec("DELETE FROM point_cache WHERE cached_at < ?", cutoff)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrLocalStorage, "failed to prune cache", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// Len returns the number of cached records.
func (s *CacheStore) Len() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM point_cache").Scan(&n); err != nil {
		return 0, apperrors.Wrap(apperrors.ErrLocalStorage, "failed to count cache", err)
	}
	return n, nil
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*models.PointRecord, error) {
	var rec models.PointRecord
	var lat, lon sql.NullFloat64
	err := row.Scan(&rec.ID, &rec.Name, &rec.Description, &rec.Address,
		&lat, &lon, &rec.Phone, &rec.Website, &rec.Materials, &rec.DisplayOrder)
	if err != nil {
		return nil, err
	}
	if lat.Valid {
		rec.Latitude = &lat.Float64
	}
	if lon.Valid {
		rec.Longitude = &lon.Float64
	}
	return &rec, nil
}
