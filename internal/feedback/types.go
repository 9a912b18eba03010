package feedback

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultLearningRate applies when a request omits learning_rate.
const DefaultLearningRate = 0.1

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// ParseGender accepts any casing of male/female.
func ParseGender(raw string) (Gender, error) {
	g := Gender(strings.ToLower(strings.TrimSpace(raw)))
	if !g.Valid() {
		return "", fmt.Errorf("gender must be one of male, female (got %q)", raw)
	}
	return g, nil
}

// Property is a body measurement a confidence score is kept for.
type Property string

const (
	PropertyHeight    Property = "Height"
	PropertyWeight    Property = "Weight"
	PropertyChestBust Property = "Bust/Chest"
	PropertyWaist     Property = "Waist"
	PropertyHips      Property = "Hips"
)

// Properties lists the measurements in centroid order.
func Properties() []Property {
	return []Property{PropertyHeight, PropertyWeight, PropertyChestBust, PropertyWaist, PropertyHips}
}

func (p Property) Valid() bool {
	for _, known := range Properties() {
		if p == known {
			return true
		}
	}
	return false
}

// ParseProperty matches property names case-insensitively, so "bust/chest" resolves.
func ParseProperty(raw string) (Property, error) {
	text := strings.TrimSpace(raw)
	for _, known := range Properties() {
		if strings.EqualFold(text, string(known)) {
			return known, nil
		}
	}
	return "", fmt.Errorf("property must be one of Height, Weight, Bust/Chest, Waist, Hips (got %q)", raw)
}

// Size is a garment size a confidence score is attached to.
type Size string

const (
	SizeS  Size = "S"
	SizeM  Size = "M"
	SizeL  Size = "L"
	SizeXL Size = "XL"
)

// Sizes lists sizes in ascending order. Ties between scores resolve to the earlier entry.
func Sizes() []Size {
	return []Size{SizeS, SizeM, SizeL, SizeXL}
}

func (s Size) Valid() bool {
	switch s {
	case SizeS, SizeM, SizeL, SizeXL:
		return true
	}
	return false
}

func ParseSize(raw string) (Size, error) {
	s := Size(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("size must be one of S, M, L, XL (got %q)", raw)
	}
	return s, nil
}

// Request is the feedback form payload.
type Request struct {
	Gender       Gender   `json:"gender"`
	BodyShape    int      `json:"body_shape"`
	ClusterLabel int      `json:"cluster_label"`
	PropertyName Property `json:"property_name"`
	OriginalSize Size     `json:"original_size"`
	NewSize      Size     `json:"new_size"`
	LearningRate float64  `json:"learning_rate"`
}

// NewRequest returns a request pre-filled with the form defaults.
func NewRequest() Request {
	return Request{
		Gender:       GenderMale,
		BodyShape:    1,
		ClusterLabel: 0,
		PropertyName: PropertyHeight,
		OriginalSize: SizeM,
		NewSize:      SizeM,
		LearningRate: DefaultLearningRate,
	}
}

// Response is what the feedback endpoint returns on success.
type Response struct {
	Message          string             `json:"message"`
	ConfidenceScores map[string]float64 `json:"confidence_scores"`
}

// SortedScores returns the scores in S, M, L, XL order followed by any other labels.
func (r Response) SortedScores() []Score {
	return SortScores(r.ConfidenceScores)
}

// SortScores orders a size -> score map as S, M, L, XL, then remaining labels alphabetically.
func SortScores(scores map[string]float64) []Score {
	out := make([]Score, 0, len(scores))
	seen := make(map[string]bool, len(scores))
	for _, size := range Sizes() {
		if v, ok := scores[string(size)]; ok {
			out = append(out, Score{Size: string(size), Value: v})
			seen[string(size)] = true
		}
	}
	var extra []string
	for label := range scores {
		if !seen[label] {
			extra = append(extra, label)
		}
	}
	sort.Strings(extra)
	for _, label := range extra {
		out = append(out, Score{Size: label, Value: scores[label]})
	}
	return out
}

type Score struct {
	Size  string  `json:"size"`
	Value float64 `json:"score"`
}
