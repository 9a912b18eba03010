package sizecharthttp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"presizely/internal/charts"
	"presizely/internal/config"
	"presizely/internal/feedback"
	"presizely/internal/sizechart"
	"presizely/internal/sizing"
	"presizely/internal/store/gormstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const seed = `
clusters:
  - gender: male
    body_shape: 1
    cluster_id: 0
    centroid: [160, 55, 86, 70, 90]
    samples:
      - [160.02, 54, 85, 69, 89]
  - gender: male
    body_shape: 1
    cluster_id: 1
    centroid: [180, 85, 104, 90, 102]
`

func newService(t *testing.T) *sizechart.Service {
	t.Helper()
	repo, err := gormstore.NewGormStore(filepath.Join(t.TempDir(), "charts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	svc := sizechart.NewService(repo, sizing.DefaultBands())
	clusters, err := sizechart.ParseSeed([]byte(seed))
	require.NoError(t, err)
	_, err = svc.Seed(context.Background(), clusters)
	require.NoError(t, err)
	return svc
}

func newHandler(t *testing.T, svc Service, legacy bool) http.Handler {
	t.Helper()
	srv, err := NewServer(ServerConfig{Service: svc, LegacyDoubleEncode: legacy})
	require.NoError(t, err)
	return srv.Handler()
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestUpdateSizeChart(t *testing.T) {
	h := newHandler(t, newService(t), true)

	w := do(h, http.MethodPost, "/size-chart/update_size_chart",
		`{"gender":"Male","body_shape":1,"cluster_label":0,"property_name":"Height","original_size":"m","new_size":"l"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := w.Body.String()
	assert.Equal(t, sizechart.MsgUpdated, gjson.Get(body, "message").String())
	assert.InDelta(t, 0.15, gjson.Get(body, "confidence_scores.M").Float(), 1e-9)
	assert.InDelta(t, 0.35, gjson.Get(body, "confidence_scores.L").Float(), 1e-9)
}

func TestUpdateSizeChartErrors(t *testing.T) {
	h := newHandler(t, newService(t), true)
	cases := []struct {
		name   string
		body   string
		status int
		detail string
	}{
		{"group", `{"gender":"female","body_shape":1,"cluster_label":0,"property_name":"Height","original_size":"M","new_size":"L"}`, http.StatusNotFound, sizechart.MsgGroupUnavailable},
		{"cluster", `{"gender":"male","body_shape":1,"cluster_label":7,"property_name":"Height","original_size":"M","new_size":"L"}`, http.StatusNotFound, sizechart.MsgInvalidCluster},
		{"property", `{"gender":"male","body_shape":1,"cluster_label":0,"property_name":"Neck","original_size":"M","new_size":"L"}`, http.StatusNotFound, sizechart.MsgInvalidProperty},
		{"size", `{"gender":"male","body_shape":1,"cluster_label":0,"property_name":"Height","original_size":"XXL","new_size":"L"}`, http.StatusBadRequest, sizechart.MsgInvalidSize},
		{"missing", `{"gender":"male"}`, http.StatusUnprocessableEntity, ""},
		{"type", `{"gender":"male","body_shape":"one","cluster_label":0,"property_name":"Height","original_size":"M","new_size":"L"}`, http.StatusUnprocessableEntity, ""},
		{"not object", `[1,2]`, http.StatusUnprocessableEntity, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(h, http.MethodPost, "/size-chart/update_size_chart", tc.body)
			assert.Equal(t, tc.status, w.Code)
			if tc.detail != "" {
				assert.Equal(t, tc.detail, gjson.Get(w.Body.String(), "detail").String())
			}
		})
	}
}

func TestPredictSize(t *testing.T) {
	h := newHandler(t, newService(t), true)

	w := do(h, http.MethodPost, "/size-chart/predict_size",
		`{"gender":"male","body_shape":1,"height":"5'11","weight":84,"bust_chest":103,"waist":89,"hips":101}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "S", gjson.Get(w.Body.String(), "predicted_size").String())
	assert.Equal(t, int64(1), gjson.Get(w.Body.String(), "cluster_id").Int())

	w = do(h, http.MethodPost, "/size-chart/predict_size",
		`{"gender":"male","body_shape":1,"height":"180cm","weight":84,"bust_chest":103,"waist":89,"hips":101}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, sizechart.MsgInvalidHeight, gjson.Get(w.Body.String(), "detail").String())
}

func TestDetailedChartsEncoding(t *testing.T) {
	svc := newService(t)

	w := do(newHandler(t, svc, true), http.MethodGet, "/size-chart/getalldetailedcharts", "")
	require.Equal(t, http.StatusOK, w.Code)
	var inner string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &inner))
	assert.Equal(t, int64(2), gjson.Get(inner, "#").Int())

	clusters, err := charts.DecodeClusters(w.Body.Bytes())
	require.NoError(t, err)
	require.Len(t, clusters, 2)
	assert.Equal(t, "Short-Small", clusters[0].SizeLabel)
	assert.Len(t, clusters[0].SampleData, 1)

	w = do(newHandler(t, svc, false), http.MethodGet, "/size-chart/getalldetailedcharts", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, gjson.Parse(w.Body.String()).IsArray())
	assert.Equal(t, "Short-Medium", gjson.Get(w.Body.String(), "1.size_label").String())
}

func TestGenericChart(t *testing.T) {
	h := newHandler(t, newService(t), true)

	w := do(h, http.MethodGet, "/size-chart/generic_chart", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, gjson.Parse(w.Body.String()).Array(), 5)
	assert.Equal(t, "XS", gjson.Get(w.Body.String(), `0.Size`).String())
	assert.NotEmpty(t, gjson.Get(w.Body.String(), `0.Height Range (cm)`).String())

	w = do(h, http.MethodPost, "/size-chart/generate-generic-size-chart?num_sizes=3", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, gjson.Parse(w.Body.String()).Array(), 3)

	w = do(h, http.MethodGet, "/size-chart/generic_chart?num_sizes=0", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	w = do(h, http.MethodGet, "/size-chart/generic_chart?num_sizes=9", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type mockService struct {
	mock.Mock
}

func (m *mockService) UpdateConfidence(ctx context.Context, req feedback.Request) (*feedback.Response, error) {
	args := m.Called(ctx, req)
	var out *feedback.Response
	if v := args.Get(0); v != nil {
		out = v.(*feedback.Response)
	}
	return out, args.Error(1)
}

func (m *mockService) Predict(ctx context.Context, req sizechart.PredictRequest) (*sizechart.PredictResponse, error) {
	args := m.Called(ctx, req)
	var out *sizechart.PredictResponse
	if v := args.Get(0); v != nil {
		out = v.(*sizechart.PredictResponse)
	}
	return out, args.Error(1)
}

func (m *mockService) DetailedCharts(ctx context.Context) ([]charts.ClusterSummary, error) {
	args := m.Called(ctx)
	var out []charts.ClusterSummary
	if v := args.Get(0); v != nil {
		out = v.([]charts.ClusterSummary)
	}
	return out, args.Error(1)
}

func (m *mockService) GenericChart(n int) ([]sizechart.GenericRow, error) {
	args := m.Called(n)
	var out []sizechart.GenericRow
	if v := args.Get(0); v != nil {
		out = v.([]sizechart.GenericRow)
	}
	return out, args.Error(1)
}

func TestInternalErrorsMapTo500(t *testing.T) {
	svc := new(mockService)
	svc.On("DetailedCharts", mock.Anything).Return(nil, errors.New("disk I/O error")).Once()
	svc.On("UpdateConfidence", mock.Anything, mock.MatchedBy(func(r feedback.Request) bool {
		return r.LearningRate == feedback.DefaultLearningRate
	})).Return(nil, errors.New("database is locked")).Once()
	h := newHandler(t, svc, true)

	w := do(h, http.MethodGet, "/size-chart/getalldetailedcharts", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "disk I/O error", gjson.Get(w.Body.String(), "detail").String())

	w = do(h, http.MethodPost, "/size-chart/update_size_chart",
		`{"gender":"male","body_shape":1,"cluster_label":0,"property_name":"Height","original_size":"M","new_size":"L"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	svc.AssertExpectations(t)
}

func TestPreflightAllowed(t *testing.T) {
	h := newHandler(t, new(mockService), true)
	w := do(h, http.MethodOptions, "/size-chart/update_size_chart", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

// The dashboard-side clients talk to this server end to end.
func TestDashboardClientsAgainstServer(t *testing.T) {
	srv := httptest.NewServer(newHandler(t, newService(t), true))
	defer srv.Close()
	upstream := config.UpstreamConfig{
		BaseURL:      srv.URL,
		ChartPath:    "/size-chart/getalldetailedcharts",
		FeedbackPath: "/size-chart/update_size_chart",
	}

	client, err := charts.NewClient(upstream)
	require.NoError(t, err)
	board := charts.NewBoard(client)
	require.NoError(t, board.Load(context.Background()))
	assert.Len(t, board.Visible(), 2)

	gw, err := feedback.NewGateway(upstream)
	require.NoError(t, err)
	req := feedback.NewRequest()
	req.NewSize = feedback.SizeXL
	resp, err := gw.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.InDelta(t, 0.35, resp.ConfidenceScores["XL"], 1e-9)

	req.BodyShape = 4
	_, err = gw.Submit(context.Background(), req)
	require.Error(t, err)
	assert.True(t, feedback.IsTransport(err))
	assert.Equal(t, feedback.MsgSubmitFailed, err.Error())
}
