package feedback

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/gjson"
)

//go:embed schema.json
var schemaSource string

var requestSchema = jsonschema.MustCompileString("feedback.json", schemaSource)

// Validate applies the form constraints to a typed request.
func (r Request) Validate() error {
	var details []string
	if !r.Gender.Valid() {
		details = append(details, fmt.Sprintf("gender: must be one of male, female (got %q)", r.Gender))
	}
	if r.BodyShape <= 0 {
		details = append(details, fmt.Sprintf("body_shape: must be a positive integer (got %d)", r.BodyShape))
	}
	if r.ClusterLabel < 0 {
		details = append(details, fmt.Sprintf("cluster_label: must be a non-negative integer (got %d)", r.ClusterLabel))
	}
	if !r.PropertyName.Valid() {
		details = append(details, fmt.Sprintf("property_name: unknown property %q", r.PropertyName))
	}
	if !r.OriginalSize.Valid() {
		details = append(details, fmt.Sprintf("original_size: must be one of S, M, L, XL (got %q)", r.OriginalSize))
	}
	if !r.NewSize.Valid() {
		details = append(details, fmt.Sprintf("new_size: must be one of S, M, L, XL (got %q)", r.NewSize))
	}
	if math.IsNaN(r.LearningRate) || r.LearningRate < 0 || r.LearningRate > 1 {
		details = append(details, fmt.Sprintf("learning_rate: must be within [0, 1] (got %v)", r.LearningRate))
	}
	if len(details) > 0 {
		return validationError(details)
	}
	return nil
}

// ValidateJSON checks a raw payload against the feedback schema and decodes it.
// A missing learning_rate takes DefaultLearningRate.
func ValidateJSON(raw []byte) (Request, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return Request{}, validationError([]string{"body: not a valid JSON document"})
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return Request{}, validationError([]string{"body: " + err.Error()})
	}
	if err := requestSchema.Validate(doc); err != nil {
		return Request{}, validationError(schemaViolations(err))
	}
	req := Request{LearningRate: DefaultLearningRate}
	if err := json.Unmarshal(raw, &req); err != nil {
		return Request{}, validationError([]string{"body: " + err.Error()})
	}
	if err := req.Validate(); err != nil {
		return Request{}, err
	}
	return req, nil
}

func schemaViolations(err error) []string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []string{err.Error()}
	}
	var out []string
	collectLeaves(ve, &out)
	if len(out) == 0 {
		out = append(out, ve.Message)
	}
	sort.Strings(out)
	return out
}

func collectLeaves(ve *jsonschema.ValidationError, out *[]string) {
	if len(ve.Causes) == 0 {
		loc := strings.TrimPrefix(ve.InstanceLocation, "/")
		if loc == "" {
			loc = "body"
		}
		*out = append(*out, loc+": "+ve.Message)
		return
	}
	for _, cause := range ve.Causes {
		collectLeaves(cause, out)
	}
}
