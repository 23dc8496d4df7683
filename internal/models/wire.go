package models

// PointRecord is the remote row shape for a collection point. The
// description field overloads a generic text column with the opening-hours
// JSON, and materials travel as a comma-joined string; both are expanded
// into proper types by ToPoint.
type PointRecord struct {
	ID           string   `json:"id,omitempty"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Address      string   `json:"address"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	Phone        string   `json:"phone"`
	Website      string   `json:"website"`
	Materials    string   `json:"materials"`
	DisplayOrder int      `json:"display_order"`
}

// ToPoint expands the wire row into the domain type. Malformed serialized
// fields fall back to safe defaults and never fail.
func (r PointRecord) ToPoint() CollectionPoint {
	return CollectionPoint{
		ID:           PointID(r.ID),
		Name:         r.Name,
		Address:      r.Address,
		Phone:        r.Phone,
		Website:      r.Website,
		Latitude:     r.Latitude,
		Longitude:    r.Longitude,
		Materials:    SplitMaterials(r.Materials),
		OpeningHours: DecodeWeekSchedule(r.Description),
		DisplayOrder: r.DisplayOrder,
	}
}

// ToRecord builds the remote-shaped payload for the domain point.
func (p CollectionPoint) ToRecord() PointRecord {
	return PointRecord{
		ID:           string(p.ID),
		Name:         p.Name,
		Description:  p.OpeningHours.Encode(),
		Address:      p.Address,
		Latitude:     p.Latitude,
		Longitude:    p.Longitude,
		Phone:        p.Phone,
		Website:      p.Website,
		Materials:    p.Materials.Join(),
		DisplayOrder: p.DisplayOrder,
	}
}

// ToPoints expands a list of wire rows, preserving order.
func ToPoints(recs []PointRecord) []CollectionPoint {
	points := make([]CollectionPoint, 0, len(recs))
	for _, r := range recs {
		points = append(points, r.ToPoint())
	}
	return points
}

// ToRecords builds the remote payload for a list of points, preserving order.
func ToRecords(points []CollectionPoint) []PointRecord {
	recs := make([]PointRecord, 0, len(points))
	for _, p := range points {
		recs = append(recs, p.ToRecord())
	}
	return recs
}
