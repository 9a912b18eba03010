package charts

import (
	"context"
	"strings"
	"sync"
)

// State is the lifecycle of a board: loading -> ready | failed.
type State int

const (
	StateLoading State = iota
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Selection picks which (gender, body shape) group of clusters is shown.
type Selection struct {
	Gender    string `json:"gender"`
	BodyShape int    `json:"body_shape"`
}

func DefaultSelection() Selection {
	return Selection{Gender: "male", BodyShape: 1}
}

func (s Selection) matches(c ClusterSummary) bool {
	return strings.EqualFold(strings.TrimSpace(c.Gender), strings.TrimSpace(s.Gender)) &&
		c.BodyShape == s.BodyShape
}

// Board holds the state of one cluster view.
type Board struct {
	fetcher Fetcher

	mu        sync.RWMutex
	selection Selection
	state     State
	clusters  []ClusterSummary
	err       error
}

func NewBoard(f Fetcher) *Board {
	return &Board{fetcher: f, selection: DefaultSelection(), state: StateLoading}
}

// Load fetches the clusters once. The error is also kept on the board.
func (b *Board) Load(ctx context.Context) error {
	b.mu.Lock()
	b.state = StateLoading
	b.err = nil
	b.mu.Unlock()

	clusters, err := b.fetcher.FetchClusters(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.state = StateFailed
		b.clusters = nil
		b.err = err
		return err
	}
	b.state = StateReady
	b.clusters = clusters
	return nil
}

func (b *Board) Select(sel Selection) {
	b.mu.Lock()
	b.selection = sel
	b.mu.Unlock()
}

func (b *Board) Selection() Selection {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.selection
}

func (b *Board) State() State {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

// Err returns the failure of the last load, if any.
func (b *Board) Err() error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.err
}

// Clusters returns every fetched cluster.
func (b *Board) Clusters() []ClusterSummary {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]ClusterSummary, len(b.clusters))
	copy(out, b.clusters)
	return out
}

// Visible returns the clusters of the selected group in fetch order.
func (b *Board) Visible() []ClusterSummary {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]ClusterSummary, 0)
	for _, c := range b.clusters {
		if b.selection.matches(c) {
			out = append(out, c)
		}
	}
	return out
}
