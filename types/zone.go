package types

// DefaultZoneRadiusMeters applies when a zone document omits its radius.
const DefaultZoneRadiusMeters = 100.0

// DumpingZone is a geofenced circle flagged by municipal data as a known
// illegal-dumping hotspot. Lifecycle is owned elsewhere; this service only
// reads active zones.
type DumpingZone struct {
	ID           string  `firestore:"-" json:"id"`
	Latitude     float64 `firestore:"latitude" json:"latitude"`
	Longitude    float64 `firestore:"longitude" json:"longitude"`
	RadiusMeters float64 `firestore:"radiusMeters" json:"radius_meters"`
	IsActive     bool    `firestore:"isActive" json:"is_active"`
}

// Radius returns the effective matching radius for the zone.
func (z DumpingZone) Radius() float64 {
	if z.RadiusMeters <= 0 {
		return DefaultZoneRadiusMeters
	}
	return z.RadiusMeters
}

// DumpingAlert is the notification event emitted when a report lands inside
// an active zone.
type DumpingAlert struct {
	Type      string `firestore:"type"`
	Title     string `firestore:"title"`
	Message   string `firestore:"message"`
	ReportID  string `firestore:"reportId"`
	Priority  string `firestore:"priority"`
	CreatedAt string `firestore:"createdAt"`
}
