package gormstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"presizely/internal/charts"
	"presizely/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*GormStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "clusters.db")
	s, err := NewGormStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func cluster(gender string, shape, id int) charts.ClusterSummary {
	return charts.ClusterSummary{
		Gender:       gender,
		BodyShape:    shape,
		ClusterID:    id,
		SizeLabel:    "Short-Small",
		Centroid:     []float64{160, 55, 85, 70, 90},
		ClusterCount: 10 + id,
		SampleData:   []charts.SampleRow{{HeightCm: 160, Weight: 55, ChestBust: 85, Waist: 70, Hips: 90}},
		ConfidenceScores: map[string]map[string]float64{
			"Height": {"S": 0.25, "M": 0.25, "L": 0.25, "XL": 0.25},
		},
	}
}

func TestInsertIfAbsentAndList(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	n, err := s.InsertIfAbsent(ctx, []charts.ClusterSummary{
		cluster("male", 2, 1), cluster("Female", 1, 0), cluster("male", 1, 3), cluster("male", 1, 0),
	})
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	seeded := cluster("male", 1, 0)
	seeded.SizeLabel = "changed"
	n, err = s.InsertIfAbsent(ctx, []charts.ClusterSummary{seeded, cluster("male", 1, 5)})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 5)
	keys := make([]store.ClusterKey, 0, len(all))
	for _, c := range all {
		keys = append(keys, store.ClusterKey{Gender: c.Gender, BodyShape: c.BodyShape, ClusterID: c.ClusterID})
	}
	assert.Equal(t, []store.ClusterKey{
		{Gender: "female", BodyShape: 1, ClusterID: 0},
		{Gender: "male", BodyShape: 1, ClusterID: 0},
		{Gender: "male", BodyShape: 1, ClusterID: 3},
		{Gender: "male", BodyShape: 1, ClusterID: 5},
		{Gender: "male", BodyShape: 2, ClusterID: 1},
	}, keys)
	assert.Equal(t, "Short-Small", all[1].SizeLabel)
	assert.Equal(t, []float64{160, 55, 85, 70, 90}, all[1].Centroid)
	assert.Len(t, all[1].SampleData, 1)

	group, err := s.ListGroup(ctx, "MALE", 1)
	require.NoError(t, err)
	assert.Len(t, group, 3)
	empty, err := s.ListGroup(ctx, "male", 9)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGetNotFound(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Get(context.Background(), store.ClusterKey{Gender: "male", BodyShape: 1, ClusterID: 0})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateScoresPersistsAcrossReopen(t *testing.T) {
	s, path := newTestStore(t)
	ctx := context.Background()
	_, err := s.InsertIfAbsent(ctx, []charts.ClusterSummary{cluster("male", 1, 0)})
	require.NoError(t, err)

	key := store.ClusterKey{Gender: "male", BodyShape: 1, ClusterID: 0}
	out, err := s.UpdateScores(ctx, key, func(scores store.Scores) error {
		scores["Height"]["M"] = 0.7
		return nil
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.7, out["Height"]["M"], 1e-9)
	require.NoError(t, s.Close())

	reopened, err := NewGormStore(path)
	require.NoError(t, err)
	defer reopened.Close()
	got, err := reopened.Get(ctx, key)
	require.NoError(t, err)
	assert.InDelta(t, 0.7, got.ConfidenceScores["Height"]["M"], 1e-9)
}

func TestUpdateScoresRollsBackOnError(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	_, err := s.InsertIfAbsent(ctx, []charts.ClusterSummary{cluster("male", 1, 0)})
	require.NoError(t, err)

	key := store.ClusterKey{Gender: "male", BodyShape: 1, ClusterID: 0}
	boom := errors.New("boom")
	_, err = s.UpdateScores(ctx, key, func(scores store.Scores) error {
		scores["Height"]["M"] = 1
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, got.ConfidenceScores["Height"]["M"], 1e-9)

	_, err = s.UpdateScores(ctx, store.ClusterKey{Gender: "male", BodyShape: 1, ClusterID: 42}, func(store.Scores) error { return nil })
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestNewGormStoreRejectsEmptyPath(t *testing.T) {
	_, err := NewGormStore("  ")
	assert.Error(t, err)
}
