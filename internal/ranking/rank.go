// Package ranking orders schools by great-circle distance to a query point.
package ranking

import (
	"cmp"
	"slices"

	"github.com/UnknownOlympus/locus/internal/geo"
	"github.com/UnknownOlympus/locus/internal/models"
)

// Rank annotates every school with its distance to origin and returns them ordered by
// ascending distance. The result always has the same length as schools; ties keep no
// particular order.
func Rank(origin models.Coordinates, schools []models.School) []models.RankedSchool {
	ranked := make([]models.RankedSchool, 0, len(schools))
	for _, school := range schools {
		ranked = append(ranked, models.RankedSchool{
			School:   school,
			Distance: geo.Distance(origin, school.Coordinates()),
		})
	}

	slices.SortFunc(ranked, func(a, b models.RankedSchool) int {
		return cmp.Compare(a.Distance, b.Distance)
	})

	return ranked
}
