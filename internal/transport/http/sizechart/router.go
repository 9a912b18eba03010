package sizecharthttp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"presizely/internal/charts"
	"presizely/internal/feedback"
	"presizely/internal/logger"
	"presizely/internal/sizechart"
	httpserver "presizely/internal/transport/http/server"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
)

const maxBody = 64 << 10

// defaultGenericSizes matches the num_sizes default of the generate route.
const defaultGenericSizes = 5

// Service is the size-chart backend the routes delegate to.
type Service interface {
	UpdateConfidence(ctx context.Context, req feedback.Request) (*feedback.Response, error)
	Predict(ctx context.Context, req sizechart.PredictRequest) (*sizechart.PredictResponse, error)
	DetailedCharts(ctx context.Context) ([]charts.ClusterSummary, error)
	GenericChart(n int) ([]sizechart.GenericRow, error)
}

var _ Service = (*sizechart.Service)(nil)

// Router exposes the size-chart routes.
type Router struct {
	svc          Service
	legacyDouble bool
}

// NewRouter builds the routes. legacyDouble makes /getalldetailedcharts return its
// document wrapped in a JSON string.
func NewRouter(svc Service, legacyDouble bool) *Router {
	return &Router{svc: svc, legacyDouble: legacyDouble}
}

func (r *Router) Register(group *gin.RouterGroup) {
	if group == nil {
		return
	}
	group.POST("/update_size_chart", r.handleUpdate)
	group.POST("/predict_size", r.handlePredict)
	group.GET("/getalldetailedcharts", r.handleDetailedCharts)
	group.GET("/generic_chart", r.handleGenericChart)
	group.POST("/generate-generic-size-chart", r.handleGenericChart)
}

var (
	updateFields  = []string{"gender", "body_shape", "cluster_label", "property_name", "original_size", "new_size"}
	predictFields = []string{"gender", "body_shape", "height", "weight", "bust_chest", "waist", "hips"}
)

func (r *Router) handleUpdate(c *gin.Context) {
	req := feedback.Request{LearningRate: feedback.DefaultLearningRate}
	if !bindBody(c, updateFields, &req) {
		return
	}
	resp, err := r.svc.UpdateConfidence(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (r *Router) handlePredict(c *gin.Context) {
	var req sizechart.PredictRequest
	if !bindBody(c, predictFields, &req) {
		return
	}
	resp, err := r.svc.Predict(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (r *Router) handleDetailedCharts(c *gin.Context) {
	clusters, err := r.svc.DetailedCharts(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if !r.legacyDouble {
		c.JSON(http.StatusOK, clusters)
		return
	}
	body, err := charts.EncodeLegacy(clusters)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", body)
}

func (r *Router) handleGenericChart(c *gin.Context) {
	n := 0
	if c.Request.Method == http.MethodPost {
		n = defaultGenericSizes
	}
	if raw := strings.TrimSpace(c.Query("num_sizes")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "num_sizes must be a positive integer"})
			return
		}
		n = v
	}
	rows, err := r.svc.GenericChart(n)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// bindBody decodes a JSON object into dest after checking that every required key is
// present. Failures are answered with 422 and a detail message.
func bindBody(c *gin.Context, required []string, dest any) bool {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return false
	}
	doc := gjson.ParseBytes(raw)
	if !gjson.ValidBytes(raw) || !doc.IsObject() {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "request body must be a JSON object"})
		return false
	}
	var missing []string
	for _, field := range required {
		if !doc.Get(field).Exists() {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": fmt.Sprintf("missing fields: %s", strings.Join(missing, ", "))})
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return false
	}
	return true
}

func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, sizechart.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, sizechart.ErrBadRequest):
		status = http.StatusBadRequest
	default:
		logger.With("request_id", httpserver.RequestID(c)).Errorf("size chart request failed: %v", err)
	}
	c.JSON(status, gin.H{"detail": sizechart.Detail(err)})
}
