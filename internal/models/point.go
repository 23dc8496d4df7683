// Package models provides data model definitions for the ecoponto sync core.
package models

// PointID identifies a collection point. Server-assigned ids are plain
// strings; records created while offline carry a provisional id with a
// reserved prefix until the next successful sync replaces them.
type PointID string

// ProvisionalPrefix marks client-generated ids for offline-created records.
const ProvisionalPrefix = "offline-"

// IsProvisional reports whether the id was generated locally and has not
// yet been confirmed by the remote store.
func (id PointID) IsProvisional() bool {
	return len(id) > len(ProvisionalPrefix) && id[:len(ProvisionalPrefix)] == ProvisionalPrefix
}

// String returns the string representation of the id.
func (id PointID) String() string {
	return string(id)
}

// CollectionPoint represents one physical place accepting recyclable
// materials.
type CollectionPoint struct {
	ID           PointID
	Name         string
	Address      string
	Phone        string
	Website      string
	Latitude     *float64
	Longitude    *float64
	Materials    MaterialSet
	OpeningHours WeekSchedule
	DisplayOrder int
}

// HasValidCoordinates reports whether both coordinates are present and
// inside valid WGS84 ranges. A point may exist in storage without them;
// it is just not renderable on a map.
func (p *CollectionPoint) HasValidCoordinates() bool {
	if p.Latitude == nil || p.Longitude == nil {
		return false
	}
	return *p.Latitude >= -90 && *p.Latitude <= 90 &&
		*p.Longitude >= -180 && *p.Longitude <= 180
}
