package charts

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"presizely/internal/feedback"
)

// SampleRow is one measured person belonging to a cluster.
type SampleRow struct {
	HeightCm  float64 `json:"Height_cm"`
	Weight    float64 `json:"Weight"`
	ChestBust float64 `json:"Bust/Chest"`
	Waist     float64 `json:"Waist"`
	Hips      float64 `json:"Hips"`
}

// ClusterSummary describes one body-measurement cluster of a (gender, body shape) group.
type ClusterSummary struct {
	Gender       string      `json:"gender"`
	BodyShape    int         `json:"body_shape"`
	ClusterID    int         `json:"cluster_id"`
	SizeLabel    string      `json:"size_label"`
	Centroid     []float64   `json:"centroid"`
	ClusterCount int         `json:"cluster_count"`
	SampleData   []SampleRow `json:"sample_data"`
	// ConfidenceScores maps property name -> size label -> score.
	ConfidenceScores map[string]map[string]float64 `json:"confidence_scores"`
}

// UnmarshalJSON accepts integral floats (1.0) for the integer fields, which is how
// numpy values come out of the upstream serialiser.
func (c *ClusterSummary) UnmarshalJSON(data []byte) error {
	type plain ClusterSummary
	aux := struct {
		*plain
		BodyShape    json.Number `json:"body_shape"`
		ClusterID    json.Number `json:"cluster_id"`
		ClusterCount json.Number `json:"cluster_count"`
	}{plain: (*plain)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	var err error
	if c.BodyShape, err = flexInt("body_shape", aux.BodyShape); err != nil {
		return err
	}
	if c.ClusterID, err = flexInt("cluster_id", aux.ClusterID); err != nil {
		return err
	}
	if c.ClusterCount, err = flexInt("cluster_count", aux.ClusterCount); err != nil {
		return err
	}
	return nil
}

func flexInt(field string, n json.Number) (int, error) {
	text := strings.TrimSpace(n.String())
	if text == "" {
		return 0, nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	if math.Trunc(f) != f || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%s: %s is not an integer", field, text)
	}
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("%s: %s out of range", field, text)
	}
	return int(f), nil
}

// AxisValue is one labelled coordinate of a centroid.
type AxisValue struct {
	Axis  string  `json:"axis"`
	Value float64 `json:"value"`
}

// CentroidAxes names the centroid coordinates in order.
func CentroidAxes() []string {
	props := feedback.Properties()
	out := make([]string, len(props))
	for i, p := range props {
		out[i] = string(p)
	}
	return out
}

// CentroidPoints labels the centroid coordinates. Extra coordinates are dropped.
func (c ClusterSummary) CentroidPoints() []AxisValue {
	axes := CentroidAxes()
	n := len(c.Centroid)
	if n > len(axes) {
		n = len(axes)
	}
	out := make([]AxisValue, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, AxisValue{Axis: axes[i], Value: c.Centroid[i]})
	}
	return out
}

// SampleRows returns at most n preview rows. n <= 0 returns none.
func (c ClusterSummary) SampleRows(n int) []SampleRow {
	if n <= 0 || len(c.SampleData) == 0 {
		return nil
	}
	if n > len(c.SampleData) {
		n = len(c.SampleData)
	}
	out := make([]SampleRow, n)
	copy(out, c.SampleData[:n])
	return out
}

// ScoresFor returns the confidence series of one property, sorted S, M, L, XL.
func (c ClusterSummary) ScoresFor(property string) []feedback.Score {
	scores, ok := c.ConfidenceScores[property]
	if !ok {
		for name, v := range c.ConfidenceScores {
			if strings.EqualFold(name, property) {
				scores, ok = v, true
				break
			}
		}
	}
	if !ok {
		return nil
	}
	return feedback.SortScores(scores)
}
