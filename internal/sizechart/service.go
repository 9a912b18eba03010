package sizechart

import (
	"context"
	"errors"
	"math"
	"strings"

	"presizely/internal/charts"
	"presizely/internal/feedback"
	"presizely/internal/logger"
	"presizely/internal/sizing"
	"presizely/internal/store"
)

// detailSampleRows is how many sample rows the detailed chart carries per cluster.
const detailSampleRows = 5

// PredictRequest carries one person's measurements. Height uses feet'inches notation.
type PredictRequest struct {
	Gender    string  `json:"gender"`
	BodyShape int     `json:"body_shape"`
	Height    string  `json:"height"`
	Weight    float64 `json:"weight"`
	BustChest float64 `json:"bust_chest"`
	Waist     float64 `json:"waist"`
	Hips      float64 `json:"hips"`
}

type PredictResponse struct {
	PredictedSize string `json:"predicted_size"`
	ClusterID     int    `json:"cluster_id"`
}

// GenericRow is one line of the generic size chart.
type GenericRow struct {
	Size        string `json:"Size"`
	HeightRange string `json:"Height Range (cm)"`
	WeightRange string `json:"Weight Range (kg)"`
	ChestBust   string `json:"Chest/Bust"`
	Waist       string `json:"Waist"`
	Hips        string `json:"Hips"`
}

// Service is the size-chart backend: learned confidences per cluster and size prediction.
type Service struct {
	repo  store.ClusterRepository
	bands sizing.Bands
}

func NewService(repo store.ClusterRepository, bands sizing.Bands) *Service {
	return &Service{repo: repo, bands: bands}
}

// Seed stores clusters that are not present yet. Existing clusters keep their scores.
func (s *Service) Seed(ctx context.Context, clusters []charts.ClusterSummary) (int, error) {
	n, err := s.repo.InsertIfAbsent(ctx, clusters)
	if err != nil {
		return 0, err
	}
	logger.Infof("size chart seeded: %d new of %d clusters", n, len(clusters))
	return n, nil
}

// UpdateConfidence moves learning_rate of confidence from original_size to new_size for one
// property of one cluster and renormalises that property's scores.
func (s *Service) UpdateConfidence(ctx context.Context, req feedback.Request) (*feedback.Response, error) {
	gender := strings.ToLower(strings.TrimSpace(string(req.Gender)))
	original := strings.ToUpper(strings.TrimSpace(string(req.OriginalSize)))
	updated := strings.ToUpper(strings.TrimSpace(string(req.NewSize)))
	property := string(req.PropertyName)
	lr := req.LearningRate
	if math.IsNaN(lr) || math.IsInf(lr, 0) {
		return nil, badRequest("learning_rate must be a finite number")
	}

	group, err := s.repo.ListGroup(ctx, gender, req.BodyShape)
	if err != nil {
		return nil, err
	}
	if len(group) == 0 {
		return nil, notFound(MsgGroupUnavailable)
	}

	key := store.ClusterKey{Gender: gender, BodyShape: req.BodyShape, ClusterID: req.ClusterLabel}
	scores, err := s.repo.UpdateScores(ctx, key, func(all store.Scores) error {
		prop, ok := all[property]
		if !ok {
			return notFound(MsgInvalidProperty)
		}
		if _, ok := prop[original]; !ok {
			return badRequest(MsgInvalidSize)
		}
		if _, ok := prop[updated]; !ok {
			return badRequest(MsgInvalidSize)
		}
		adjust(prop, original, updated, lr)
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFound(MsgInvalidCluster)
	}
	if err != nil {
		return nil, err
	}
	logger.With("component", "sizechart").Infof("confidence updated gender=%s shape=%d cluster=%d property=%s %s->%s lr=%v",
		gender, req.BodyShape, req.ClusterLabel, property, original, updated, lr)
	return &feedback.Response{Message: MsgUpdated, ConfidenceScores: scores[property]}, nil
}

// adjust applies one feedback step. The two updates are sequential, so original == updated
// nets to min(1, max(0, v-lr)+lr) before normalisation.
func adjust(scores map[string]float64, original, updated string, lr float64) {
	scores[original] = math.Max(0, scores[original]-lr)
	scores[updated] = math.Min(1, scores[updated]+lr)
	total := 0.0
	for _, v := range scores {
		total += v
	}
	if total <= 0 {
		uniform := 1 / float64(len(scores))
		for k := range scores {
			scores[k] = uniform
		}
		return
	}
	for k := range scores {
		scores[k] /= total
	}
}

// Predict assigns the measurements to the nearest cluster centroid of their group and
// returns the size with the highest summed confidence across properties.
func (s *Service) Predict(ctx context.Context, req PredictRequest) (*PredictResponse, error) {
	heightCm, err := sizing.HeightToCm(req.Height)
	if err != nil {
		return nil, badRequest(MsgInvalidHeight)
	}
	features := []float64{heightCm, req.Weight, req.BustChest, req.Waist, req.Hips}
	for _, v := range features {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, badRequest("measurements must be finite numbers")
		}
	}
	gender := strings.ToLower(strings.TrimSpace(req.Gender))
	group, err := s.repo.ListGroup(ctx, gender, req.BodyShape)
	if err != nil {
		return nil, err
	}
	nearest, ok := nearestCluster(group, features)
	if !ok {
		return nil, notFound(MsgGroupUnavailable)
	}
	return &PredictResponse{
		PredictedSize: bestSize(nearest.ConfidenceScores),
		ClusterID:     nearest.ClusterID,
	}, nil
}

// nearestCluster uses squared Euclidean distance; ties keep the lower cluster id.
func nearestCluster(group []charts.ClusterSummary, features []float64) (charts.ClusterSummary, bool) {
	best := -1
	bestDist := math.Inf(1)
	for i, c := range group {
		if len(c.Centroid) != len(features) {
			continue
		}
		d := 0.0
		for j, v := range features {
			diff := v - c.Centroid[j]
			d += diff * diff
		}
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return charts.ClusterSummary{}, false
	}
	return group[best], true
}

func bestSize(scores map[string]map[string]float64) string {
	sizes := feedback.Sizes()
	totals := make(map[string]float64, len(sizes))
	for _, prop := range scores {
		for size, v := range prop {
			totals[size] += v
		}
	}
	best := string(sizes[0])
	for _, s := range sizes[1:] {
		if totals[string(s)] > totals[best] {
			best = string(s)
		}
	}
	return best
}

// DetailedCharts returns every cluster with at most five sample rows.
func (s *Service) DetailedCharts(ctx context.Context) ([]charts.ClusterSummary, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		all[i].SampleData = all[i].SampleRows(detailSampleRows)
		if all[i].SampleData == nil {
			all[i].SampleData = []charts.SampleRow{}
		}
	}
	return all, nil
}

// GenericChart returns the first n rows of the band table; n <= 0 means all of them.
func (s *Service) GenericChart(n int) ([]GenericRow, error) {
	if n > len(s.bands) {
		return nil, badRequest("num_sizes must be between 1 and %d", len(s.bands))
	}
	bands := s.bands
	if n > 0 {
		bands = bands[:n]
	}
	out := make([]GenericRow, 0, len(bands))
	for _, b := range bands {
		out = append(out, GenericRow{
			Size:        b.Label,
			HeightRange: b.Height.String(),
			WeightRange: b.Weight.String(),
			ChestBust:   b.ChestBust,
			Waist:       b.Waist,
			Hips:        b.Hips,
		})
	}
	return out, nil
}
