// Package geocoding resolves postal addresses to coordinates for the bulk loader.
package geocoding

import (
	"context"

	"github.com/UnknownOlympus/locus/internal/models"
)

// Provider is an interface that defines a method for geocoding an address.
type Provider interface {
	Geocode(ctx context.Context, address string) (*models.Coordinates, error)
}
