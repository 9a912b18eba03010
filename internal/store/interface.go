package store

import (
	"context"
	"errors"

	"presizely/internal/charts"
)

// ErrNotFound is returned when a cluster key has no row.
var ErrNotFound = errors.New("store: record not found")

// ClusterKey identifies one cluster row.
type ClusterKey struct {
	Gender    string
	BodyShape int
	ClusterID int
}

// Scores maps property name -> size label -> confidence.
type Scores = map[string]map[string]float64

// ClusterRepository handles cluster persistence.
type ClusterRepository interface {
	// InsertIfAbsent stores clusters whose key is not present yet and reports how many were added.
	InsertIfAbsent(ctx context.Context, clusters []charts.ClusterSummary) (int, error)
	// List returns every cluster ordered by gender, body shape and cluster id.
	List(ctx context.Context) ([]charts.ClusterSummary, error)
	// ListGroup returns the clusters of one (gender, body shape) group ordered by cluster id.
	ListGroup(ctx context.Context, gender string, bodyShape int) ([]charts.ClusterSummary, error)
	Get(ctx context.Context, key ClusterKey) (charts.ClusterSummary, error)
	// UpdateScores runs mutate on the stored scores of key inside a transaction and
	// persists the result unless mutate fails.
	UpdateScores(ctx context.Context, key ClusterKey, mutate func(Scores) error) (Scores, error)
}

// Store is the entry point for database access.
type Store interface {
	ClusterRepository
	// Close closes the store connection.
	Close() error
}
