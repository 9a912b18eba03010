package dashboardhttp

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"presizely/internal/charts"
	"presizely/internal/feedback"
	"presizely/internal/logger"
	"presizely/internal/sizing"
	httpserver "presizely/internal/transport/http/server"

	"github.com/gin-gonic/gin"
)

// previewRows is how many sample rows a cluster card shows.
const previewRows = 3

// maxFeedbackBody caps the feedback payload read from clients.
const maxFeedbackBody = 64 << 10

// Router serves the dashboard JSON API.
type Router struct {
	bands     sizing.Bands
	fetcher   charts.Fetcher
	submitter feedback.Submitter
}

func NewRouter(bands sizing.Bands, fetcher charts.Fetcher, submitter feedback.Submitter) *Router {
	return &Router{bands: bands, fetcher: fetcher, submitter: submitter}
}

// Register mounts the routes under group.
func (r *Router) Register(group *gin.RouterGroup) {
	if group == nil {
		return
	}
	group.GET("/sizes/chart", r.handleChart)
	group.GET("/sizes/classify", r.handleClassify)
	group.GET("/clusters", r.handleClusters)
	group.POST("/feedback", r.handleFeedback)
}

func (r *Router) handleChart(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"bands": r.bands.Specs()})
}

func (r *Router) handleClassify(c *gin.Context) {
	height := c.Query("height")
	weight := c.Query("weight")
	size := sizing.ClassifyInput(height, weight, r.bands)
	c.JSON(http.StatusOK, gin.H{
		"height": height,
		"weight": weight,
		"size":   size,
		"found":  sizing.Found(size),
	})
}

type clusterView struct {
	charts.ClusterSummary
	CentroidPoints []charts.AxisValue          `json:"centroid_points"`
	Preview        []charts.SampleRow          `json:"preview"`
	Scores         map[string][]feedback.Score `json:"scores"`
}

func newClusterView(cs charts.ClusterSummary) clusterView {
	scores := make(map[string][]feedback.Score, len(cs.ConfidenceScores))
	for prop := range cs.ConfidenceScores {
		scores[prop] = cs.ScoresFor(prop)
	}
	preview := cs.SampleRows(previewRows)
	if preview == nil {
		preview = []charts.SampleRow{}
	}
	return clusterView{
		ClusterSummary: cs,
		CentroidPoints: cs.CentroidPoints(),
		Preview:        preview,
		Scores:         scores,
	}
}

func (r *Router) handleClusters(c *gin.Context) {
	sel := charts.DefaultSelection()
	if raw := strings.TrimSpace(c.Query("gender")); raw != "" {
		g, err := feedback.ParseGender(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		sel.Gender = string(g)
	}
	if raw := strings.TrimSpace(c.Query("body_shape")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "body_shape must be a positive integer"})
			return
		}
		sel.BodyShape = n
	}

	board := charts.NewBoard(r.fetcher)
	board.Select(sel)
	if err := board.Load(c.Request.Context()); err != nil {
		logger.With("request_id", httpserver.RequestID(c)).Warnf("cluster fetch failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"state": board.State().String(), "error": err.Error()})
		return
	}
	visible := board.Visible()
	views := make([]clusterView, 0, len(visible))
	for _, cs := range visible {
		views = append(views, newClusterView(cs))
	}
	c.JSON(http.StatusOK, gin.H{
		"state":     board.State().String(),
		"selection": board.Selection(),
		"clusters":  views,
	})
}

func (r *Router) handleFeedback(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxFeedbackBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"kind": feedback.ValidationFailure.String(), "error": err.Error()})
		return
	}
	req, err := feedback.ValidateJSON(raw)
	if err != nil {
		writeFeedbackError(c, err)
		return
	}
	resp, err := r.submitter.Submit(c.Request.Context(), req)
	if err != nil {
		logger.With("request_id", httpserver.RequestID(c)).Warnf("feedback submit failed: %v", err)
		writeFeedbackError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func writeFeedbackError(c *gin.Context, err error) {
	body := gin.H{"error": err.Error()}
	status := http.StatusBadGateway
	kind := feedback.TransportFailure
	var fe *feedback.Error
	if errors.As(err, &fe) {
		kind = fe.Kind
		if len(fe.Details) > 0 {
			body["details"] = fe.Details
			body["error"] = fe.Message
		}
		if fe.StatusCode != 0 {
			body["status_code"] = fe.StatusCode
		}
	}
	if kind == feedback.ValidationFailure {
		status = http.StatusBadRequest
	}
	body["kind"] = kind.String()
	c.JSON(status, body)
}
