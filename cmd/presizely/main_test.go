package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"presizely/internal/charts"
	"presizely/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.EnvConfigPath, "")
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeConfig(t *testing.T, baseURL string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "upstream:\n  base_url: " + baseURL + "\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestClassifyCommand(t *testing.T) {
	out, err := run(t, "classify", "--height", "160", "--weight", "70")
	require.NoError(t, err)
	assert.Equal(t, "M\n", out)

	out, err = run(t, "classify", "--height", "130", "--weight", "30")
	require.NoError(t, err)
	assert.Equal(t, "No size found\n", out)

	_, err = run(t, "classify", "--height", "160")
	assert.Error(t, err)
}

func TestConfigFromEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sizing:\n  bands:\n    - label: ONE\n      height_cm: \"100-200\"\n      weight_kg: \"10-200\"\n"), 0o644))

	cmd := newRootCmd()
	t.Setenv(config.EnvConfigPath, path)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"classify", "--height", "150", "--weight", "50"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "ONE\n", out.String())
}

func TestFeedbackCommand(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{"message":"Confidence scores updated successfully.","confidence_scores":{"XL":0.25,"S":0.25,"M":0.15,"L":0.35}}`)
	}))
	defer srv.Close()

	out, err := run(t, "--config", writeConfig(t, srv.URL), "feedback", "--new-size", "L", "--property", "Bust/Chest")
	require.NoError(t, err)
	assert.Contains(t, out, "Confidence scores updated successfully.")
	assert.Contains(t, out, "L   0.3500")
	assert.Equal(t, "Bust/Chest", got["property_name"])
	assert.Equal(t, "L", got["new_size"])
	assert.Equal(t, 0.1, got["learning_rate"])

	_, err = run(t, "--config", writeConfig(t, srv.URL), "feedback", "--learning-rate", "2")
	assert.Error(t, err)
}

func TestFeedbackCommandCanonicalisesFlags(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{"message":"Confidence scores updated successfully.","confidence_scores":{"S":0.25,"M":0.25,"L":0.25,"XL":0.25}}`)
	}))
	defer srv.Close()

	_, err := run(t, "--config", writeConfig(t, srv.URL), "feedback",
		"--gender", "Male", "--property", "bust/chest", "--original-size", "m", "--new-size", " xl ")
	require.NoError(t, err)
	assert.Equal(t, "male", got["gender"])
	assert.Equal(t, "Bust/Chest", got["property_name"])
	assert.Equal(t, "M", got["original_size"])
	assert.Equal(t, "XL", got["new_size"])

	_, err = run(t, "--config", writeConfig(t, srv.URL), "feedback", "--property", "neck")
	assert.ErrorContains(t, err, "property")
}

func TestClustersCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := charts.EncodeLegacy([]charts.ClusterSummary{
			{Gender: "male", BodyShape: 1, ClusterID: 2, SizeLabel: "Short-Full", ClusterCount: 9,
				Centroid:         []float64{160, 60, 90, 75, 95},
				ConfidenceScores: map[string]map[string]float64{"Height": {"S": 0.25, "M": 0.25, "L": 0.25, "XL": 0.25}}},
			{Gender: "female", BodyShape: 1, ClusterID: 3},
		})
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	out, err := run(t, "--config", writeConfig(t, srv.URL), "clusters")
	require.NoError(t, err)
	assert.Contains(t, out, "cluster 2  Short-Full  (9 people)")
	assert.Contains(t, out, "Bust/Chest=90.0")
	assert.NotContains(t, out, "cluster 3")

	out, err = run(t, "--config", writeConfig(t, srv.URL), "clusters", "--body-shape", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "no clusters")

	_, err = run(t, "--config", writeConfig(t, srv.URL), "clusters", "--gender", "robot")
	assert.Error(t, err)
}

func TestBadConfigFails(t *testing.T) {
	_, err := run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "classify", "--height", "1", "--weight", "1")
	assert.Error(t, err)
}
