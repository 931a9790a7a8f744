package models

// School is a persisted school record. Records are never mutated after creation.
type School struct {
	ID        int64   `json:"id"`        // ID is assigned by the store on insert.
	Name      string  `json:"name"`      // Name of the school.
	Address   string  `json:"address"`   // Address is the free-form postal address.
	Latitude  float64 `json:"latitude"`  // Latitude in degrees.
	Longitude float64 `json:"longitude"` // Longitude in degrees.
}

// Coordinates returns the location of the school.
func (s School) Coordinates() Coordinates {
	return Coordinates{Latitude: s.Latitude, Longitude: s.Longitude}
}

// RankedSchool is a school annotated with its great-circle distance, in kilometres,
// to the point it was ranked against.
type RankedSchool struct {
	School

	Distance float64 `json:"distance"`
}
