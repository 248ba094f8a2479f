package types

import "errors"

// ClassifyRequest is the JSON body of POST /api/wastewise/classify.
// Latitude and Longitude are pointers so a missing field can be told apart
// from a legitimate 0.
type ClassifyRequest struct {
	Image     string   `json:"image"`
	Filename  string   `json:"filename,omitempty"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// ClassifyResponse is the success body of POST /api/wastewise/classify.
type ClassifyResponse struct {
	Status           string  `json:"status"`
	WasteType        string  `json:"waste_type"`
	DisposalMethod   string  `json:"disposal_method"`
	Confidence       float64 `json:"confidence"`
	EcoPointsAwarded int     `json:"eco_points_awarded"`
	GPSLocation      string  `json:"gps_location"`
	IsIllegalDumping bool    `json:"is_illegal_dumping"`
	Message          string  `json:"message"`
}

// Failure kinds for the intake pipeline. Handlers map these to HTTP statuses.
var (
	ErrUnauthorized    = errors.New("missing or invalid authorization")
	ErrBadRequest      = errors.New("missing or invalid field")
	ErrPayloadTooLarge = errors.New("image exceeds maximum size")
	ErrStorage         = errors.New("image storage failed")
	ErrPersist         = errors.New("report persistence failed")
)
