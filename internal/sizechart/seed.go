package sizechart

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"strings"

	"presizely/internal/charts"
	"presizely/internal/feedback"

	"gopkg.in/yaml.v3"
)

// sizeMapping names the eleven clusters of a group.
var sizeMapping = map[int]string{
	0:  "Short-Small",
	1:  "Short-Medium",
	2:  "Short-Full",
	3:  "Medium-Very Small",
	4:  "Medium-Small",
	5:  "Medium-Medium",
	6:  "Medium-Full",
	7:  "Tall-Very Small",
	8:  "Tall-Small",
	9:  "Tall-Medium",
	10: "Tall-Full",
}

const unknownSizeLabel = "Unknown"

// SizeLabelFor returns the descriptive label of a cluster id.
func SizeLabelFor(clusterID int) string {
	if label, ok := sizeMapping[clusterID]; ok {
		return label
	}
	return unknownSizeLabel
}

const defaultConfidence = 0.25

// DefaultConfidences returns a fresh uniform score table for every property.
func DefaultConfidences() map[string]map[string]float64 {
	out := make(map[string]map[string]float64, len(feedback.Properties()))
	for _, p := range feedback.Properties() {
		scores := make(map[string]float64, len(feedback.Sizes()))
		for _, s := range feedback.Sizes() {
			scores[string(s)] = defaultConfidence
		}
		out[string(p)] = scores
	}
	return out
}

type seedFile struct {
	Clusters []seedCluster `yaml:"clusters"`
}

type seedCluster struct {
	Gender    string      `yaml:"gender"`
	BodyShape int         `yaml:"body_shape"`
	ClusterID int         `yaml:"cluster_id"`
	SizeLabel string      `yaml:"size_label"`
	Centroid  []float64   `yaml:"centroid"`
	Count     int         `yaml:"cluster_count"`
	Samples   [][]float64 `yaml:"samples"`
}

// LoadSeedFile reads cluster seeds from YAML. Unknown keys are rejected.
func LoadSeedFile(path string) ([]charts.ClusterSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes a seed document and fills size labels and default confidences.
func ParseSeed(data []byte) ([]charts.ClusterSummary, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var doc seedFile
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	seen := make(map[string]bool, len(doc.Clusters))
	out := make([]charts.ClusterSummary, 0, len(doc.Clusters))
	for i, sc := range doc.Clusters {
		c, err := sc.summary()
		if err != nil {
			return nil, fmt.Errorf("seed cluster #%d: %w", i, err)
		}
		key := fmt.Sprintf("%s/%d/%d", c.Gender, c.BodyShape, c.ClusterID)
		if seen[key] {
			return nil, fmt.Errorf("seed cluster #%d: duplicate key %s", i, key)
		}
		seen[key] = true
		out = append(out, c)
	}
	return out, nil
}

func (sc seedCluster) summary() (charts.ClusterSummary, error) {
	gender, err := feedback.ParseGender(sc.Gender)
	if err != nil {
		return charts.ClusterSummary{}, err
	}
	if sc.BodyShape <= 0 {
		return charts.ClusterSummary{}, fmt.Errorf("body_shape must be positive")
	}
	if sc.ClusterID < 0 {
		return charts.ClusterSummary{}, fmt.Errorf("cluster_id must be non-negative")
	}
	if err := checkFeatures("centroid", sc.Centroid); err != nil {
		return charts.ClusterSummary{}, err
	}
	samples := make([]charts.SampleRow, 0, len(sc.Samples))
	for j, row := range sc.Samples {
		if err := checkFeatures(fmt.Sprintf("samples[%d]", j), row); err != nil {
			return charts.ClusterSummary{}, err
		}
		samples = append(samples, charts.SampleRow{
			HeightCm: row[0], Weight: row[1], ChestBust: row[2], Waist: row[3], Hips: row[4],
		})
	}
	count := sc.Count
	if count == 0 {
		count = len(samples)
	}
	label := strings.TrimSpace(sc.SizeLabel)
	if label == "" {
		label = SizeLabelFor(sc.ClusterID)
	}
	return charts.ClusterSummary{
		Gender:           string(gender),
		BodyShape:        sc.BodyShape,
		ClusterID:        sc.ClusterID,
		SizeLabel:        label,
		Centroid:         append([]float64(nil), sc.Centroid...),
		ClusterCount:     count,
		SampleData:       samples,
		ConfidenceScores: DefaultConfidences(),
	}, nil
}

func checkFeatures(name string, values []float64) error {
	if len(values) != len(feedback.Properties()) {
		return fmt.Errorf("%s needs %d values, got %d", name, len(feedback.Properties()), len(values))
	}
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s contains a non-finite value", name)
		}
	}
	return nil
}
