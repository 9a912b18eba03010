package charts

import (
	"bytes"
	"encoding/json"
	"fmt"

	"presizely/internal/logger"

	"github.com/tidwall/gjson"
)

// DecodeClusters parses a chart-data body. Bodies that are a JSON string holding the
// real document are unwrapped once first.
func DecodeClusters(body []byte) ([]ClusterSummary, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("chart data is not valid JSON")
	}
	if inner, ok := unwrapLegacy(body); ok {
		body = inner
	}
	var out []ClusterSummary
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode chart data: %w", err)
	}
	return out, nil
}

// unwrapLegacy handles the upstream returning its JSON document as a JSON string.
// Remove once the chart endpoint stops double encoding.
func unwrapLegacy(body []byte) ([]byte, bool) {
	res := gjson.ParseBytes(body)
	if res.Type != gjson.String {
		return body, false
	}
	inner := bytes.TrimSpace([]byte(res.String()))
	logger.Debugf("chart data arrived double encoded (%d bytes), unwrapping", len(inner))
	return inner, true
}

// EncodeLegacy produces the double-encoded form the original chart endpoint returns:
// the JSON document serialised again as a JSON string.
func EncodeLegacy(v any) ([]byte, error) {
	inner, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(inner))
}
