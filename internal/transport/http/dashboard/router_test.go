package dashboardhttp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"presizely/internal/charts"
	"presizely/internal/feedback"
	"presizely/internal/sizing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) FetchClusters(ctx context.Context) ([]charts.ClusterSummary, error) {
	args := m.Called(ctx)
	var out []charts.ClusterSummary
	if v := args.Get(0); v != nil {
		out = v.([]charts.ClusterSummary)
	}
	return out, args.Error(1)
}

type mockSubmitter struct {
	mock.Mock
}

func (m *mockSubmitter) Submit(ctx context.Context, req feedback.Request) (*feedback.Response, error) {
	args := m.Called(ctx, req)
	var out *feedback.Response
	if v := args.Get(0); v != nil {
		out = v.(*feedback.Response)
	}
	return out, args.Error(1)
}

func newTestHandler(t *testing.T, f *mockFetcher, s *mockSubmitter) http.Handler {
	t.Helper()
	srv, err := NewServer(ServerConfig{Bands: sizing.DefaultBands(), Fetcher: f, Submitter: s})
	require.NoError(t, err)
	return srv.Handler()
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestNewServerRequiresDependencies(t *testing.T) {
	_, err := NewServer(ServerConfig{Bands: sizing.DefaultBands()})
	assert.Error(t, err)
	_, err = NewServer(ServerConfig{Fetcher: new(mockFetcher), Submitter: new(mockSubmitter)})
	assert.Error(t, err)
}

func TestChartAndClassify(t *testing.T) {
	h := newTestHandler(t, new(mockFetcher), new(mockSubmitter))

	w := do(h, http.MethodGet, "/api/sizes/chart", "")
	require.Equal(t, http.StatusOK, w.Code)
	bands := gjson.Get(w.Body.String(), "bands")
	assert.Len(t, bands.Array(), 5)
	assert.Equal(t, "XS", bands.Get("0.size").String())

	cases := []struct {
		query string
		size  string
		found bool
	}{
		{"height=160&weight=70", "M", true},
		{"height=130&weight=30", sizing.NotFound, false},
		{"height=abc&weight=70", sizing.NotFound, false},
		{"", sizing.NotFound, false},
	}
	for _, tc := range cases {
		w := do(h, http.MethodGet, "/api/sizes/classify?"+tc.query, "")
		require.Equal(t, http.StatusOK, w.Code, tc.query)
		assert.Equal(t, tc.size, gjson.Get(w.Body.String(), "size").String(), tc.query)
		assert.Equal(t, tc.found, gjson.Get(w.Body.String(), "found").Bool(), tc.query)
	}
}

func TestClustersFiltersBySelection(t *testing.T) {
	f := new(mockFetcher)
	f.On("FetchClusters", mock.Anything).Return([]charts.ClusterSummary{
		{Gender: "male", BodyShape: 1, ClusterID: 0, Centroid: []float64{1, 2, 3, 4, 5},
			SampleData:       []charts.SampleRow{{HeightCm: 1}, {HeightCm: 2}, {HeightCm: 3}, {HeightCm: 4}},
			ConfidenceScores: map[string]map[string]float64{"Height": {"XL": 0.1, "S": 0.9}}},
		{Gender: "female", BodyShape: 2, ClusterID: 4},
		{Gender: "male", BodyShape: 2, ClusterID: 5},
	}, nil)
	h := newTestHandler(t, f, new(mockSubmitter))

	w := do(h, http.MethodGet, "/api/clusters", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Equal(t, "ready", gjson.Get(body, "state").String())
	assert.Equal(t, "male", gjson.Get(body, "selection.gender").String())
	assert.Equal(t, int64(1), gjson.Get(body, "selection.body_shape").Int())
	require.Len(t, gjson.Get(body, "clusters").Array(), 1)
	assert.Len(t, gjson.Get(body, "clusters.0.preview").Array(), 3)
	assert.Equal(t, "Bust/Chest", gjson.Get(body, "clusters.0.centroid_points.2.axis").String())
	assert.Equal(t, "S", gjson.Get(body, "clusters.0.scores.Height.0.size").String())

	w = do(h, http.MethodGet, "/api/clusters?gender=Female&body_shape=2", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(4), gjson.Get(w.Body.String(), "clusters.0.cluster_id").Int())
}

func TestClustersBadQuery(t *testing.T) {
	f := new(mockFetcher)
	h := newTestHandler(t, f, new(mockSubmitter))
	for _, q := range []string{"body_shape=abc", "body_shape=0", "gender=robot"} {
		w := do(h, http.MethodGet, "/api/clusters?"+q, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
	f.AssertNotCalled(t, "FetchClusters", mock.Anything)
}

func TestClustersUpstreamFailure(t *testing.T) {
	f := new(mockFetcher)
	f.On("FetchClusters", mock.Anything).
		Return(nil, &charts.FetchError{Stage: charts.StageRequest, Err: errors.New("connection refused")})
	h := newTestHandler(t, f, new(mockSubmitter))

	w := do(h, http.MethodGet, "/api/clusters", "")
	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "failed", gjson.Get(w.Body.String(), "state").String())
	assert.Contains(t, gjson.Get(w.Body.String(), "error").String(), "connection refused")
}

const validFeedback = `{"gender":"male","body_shape":1,"cluster_label":0,"property_name":"Height","original_size":"M","new_size":"L"}`

func TestFeedbackSuccess(t *testing.T) {
	s := new(mockSubmitter)
	want := feedback.NewRequest()
	want.NewSize = feedback.SizeL
	s.On("Submit", mock.Anything, want).
		Return(&feedback.Response{Message: "Confidence scores updated successfully.", ConfidenceScores: map[string]float64{"L": 0.35}}, nil).Once()
	h := newTestHandler(t, new(mockFetcher), s)

	w := do(h, http.MethodPost, "/api/feedback", validFeedback)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Confidence scores updated successfully.", gjson.Get(w.Body.String(), "message").String())
	assert.InDelta(t, 0.35, gjson.Get(w.Body.String(), "confidence_scores.L").Float(), 1e-9)
	s.AssertExpectations(t)
}

func TestFeedbackValidationFailure(t *testing.T) {
	s := new(mockSubmitter)
	h := newTestHandler(t, new(mockFetcher), s)

	w := do(h, http.MethodPost, "/api/feedback", `{"gender":"male"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation", gjson.Get(w.Body.String(), "kind").String())
	assert.NotEmpty(t, gjson.Get(w.Body.String(), "details").Array())
	s.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}

func TestFeedbackTransportFailure(t *testing.T) {
	s := new(mockSubmitter)
	s.On("Submit", mock.Anything, mock.Anything).
		Return(nil, &feedback.Error{Kind: feedback.TransportFailure, Message: feedback.MsgSubmitFailed, StatusCode: 404}).Once()
	h := newTestHandler(t, new(mockFetcher), s)

	w := do(h, http.MethodPost, "/api/feedback", validFeedback)
	require.Equal(t, http.StatusBadGateway, w.Code)
	body := w.Body.String()
	assert.Equal(t, "transport", gjson.Get(body, "kind").String())
	assert.Equal(t, feedback.MsgSubmitFailed, gjson.Get(body, "error").String())
	assert.Equal(t, int64(404), gjson.Get(body, "status_code").Int())
}
