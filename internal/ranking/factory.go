package ranking

import (
	"errors"
	"fmt"
	"log/slog"
)

// Strategy names where the distance computation happens.
type Strategy string

const (
	// StrategyStore evaluates the formula inside the record store. Suited to large
	// tables on stores that support trigonometric functions.
	StrategyStore Strategy = "store"
	// StrategyService computes distances in process. Suited to small tables or stores
	// without trigonometric support.
	StrategyService Strategy = "service"
)

// Store is the record store capability required by both strategies.
type Store interface {
	DistanceQuerier
	SchoolLister
}

// Config holds configuration for creating a ranker.
type Config struct {
	Strategy Strategy     // Strategy selects the implementation.
	Store    Store        // Store is the record store the ranker reads from.
	Logger   *slog.Logger // Logger for the ranker.
}

// ErrNilStore is returned when a ranker is requested without a record store.
var ErrNilStore = errors.New("record store is required for ranking")

// NewRanker creates a ranker for the configured strategy.
// Returns an error if the strategy is unsupported or no store is given.
func NewRanker(config Config) (Ranker, error) {
	if config.Store == nil {
		return nil, ErrNilStore
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	switch config.Strategy {
	case StrategyStore:
		return NewStoreRanker(config.Store, logger), nil
	case StrategyService:
		return NewServiceRanker(config.Store, logger), nil
	default:
		return nil, fmt.Errorf("unsupported ranking strategy: %s", config.Strategy)
	}
}
