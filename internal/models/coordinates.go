package models

// Coordinates represents a geographical point defined by its latitude and longitude in degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`  // Latitude of the point, within [-90, 90].
	Longitude float64 `json:"longitude"` // Longitude of the point, within [-180, 180].
}
