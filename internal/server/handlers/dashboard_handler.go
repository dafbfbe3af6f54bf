package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gonum.org/v1/plot/vg"

	"github.com/mamadbah2/cacao/internal/domain/models"
	"github.com/mamadbah2/cacao/internal/service/dashboard"
	"github.com/mamadbah2/cacao/internal/service/shipments"
)

// DatasetService exposes the cached shipment dataset.
type DatasetService interface {
	Dataset(ctx context.Context) (*models.Dataset, error)
	Refresh(ctx context.Context) (*models.Dataset, error)
}

type chartDef struct {
	spec          func(dashboard.View) dashboard.ChartSpec
	width, height vg.Length
}

var charts = map[string]chartDef{
	"seasons":      {spec: dashboard.SeasonHistoryChart, width: 10 * vg.Inch, height: 4 * vg.Inch},
	"monthly":      {spec: dashboard.MonthlyChart, width: 10 * vg.Inch, height: 4 * vg.Inch},
	"exporters":    {spec: dashboard.ExportersChart, width: 7 * vg.Inch, height: 5 * vg.Inch},
	"destinations": {spec: dashboard.DestinationsChart, width: 7 * vg.Inch, height: 5 * vg.Inch},
	"products":     {spec: dashboard.ProductsChart, width: 7 * vg.Inch, height: 4 * vg.Inch},
}

// DashboardHandler renders the shipment dashboard.
type DashboardHandler struct {
	svc    DatasetService
	logger *zap.Logger
}

// NewDashboardHandler constructs the HTTP handler adapter.
func NewDashboardHandler(svc DatasetService, logger *zap.Logger) *DashboardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardHandler{svc: svc, logger: logger}
}

// Page renders the dashboard for ?season= with the optional ?details=1 table.
func (h *DashboardHandler) Page(c *gin.Context) {
	ds, err := h.svc.Dataset(c.Request.Context())
	if err != nil {
		status, msg, hint := h.describeError(err)
		c.HTML(status, "error.html", gin.H{"Message": msg, "Hint": hint})
		return
	}

	view := dashboard.Build(ds, viewOptions(c))
	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"View":     view,
		"LoadedAt": ds.LoadedAt.Format("2006-01-02 15:04"),
	})
}

// API returns the same view as JSON.
func (h *DashboardHandler) API(c *gin.Context) {
	ds, err := h.svc.Dataset(c.Request.Context())
	if err != nil {
		status, msg, _ := h.describeError(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, dashboard.Build(ds, viewOptions(c)))
}

// Chart streams one PNG chart, e.g. /charts/monthly.png?season=2021-2022.
func (h *DashboardHandler) Chart(c *gin.Context) {
	name := strings.TrimSuffix(c.Param("name"), ".png")
	def, ok := charts[name]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown chart"})
		return
	}

	ds, err := h.svc.Dataset(c.Request.Context())
	if err != nil {
		status, msg, _ := h.describeError(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	png, err := dashboard.RenderPNG(def.spec(dashboard.Build(ds, viewOptions(c))), def.width, def.height)
	if err != nil {
		if errors.Is(err, dashboard.ErrNoChartData) {
			c.Status(http.StatusNoContent)
			return
		}
		h.logger.Error("failed rendering chart", zap.String("chart", name), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to render chart"})
		return
	}

	c.Header("Cache-Control", "private, max-age=60")
	c.Data(http.StatusOK, "image/png", png)
}

// Refresh drops the cached dataset, rebuilds it and returns to the dashboard.
func (h *DashboardHandler) Refresh(c *gin.Context) {
	if _, err := h.svc.Refresh(c.Request.Context()); err != nil {
		h.logger.Warn("manual refresh failed", zap.Error(err))
	} else {
		h.logger.Info("manual refresh done")
	}

	target := "/"
	if season := c.PostForm("season"); season != "" {
		target += "?season=" + url.QueryEscape(season)
	}
	c.Redirect(http.StatusSeeOther, target)
}

func (h *DashboardHandler) describeError(err error) (int, string, string) {
	switch {
	case errors.Is(err, models.ErrMissingInputFile):
		h.logger.Error("shipment data unavailable", zap.Error(err))
		return http.StatusServiceUnavailable, "File not found: " + err.Error(), "Make sure the data workbook is present next to the service."
	case errors.Is(err, shipments.ErrPipelineFailure):
		h.logger.Error("shipment pipeline failed", zap.Error(err))
		return http.StatusInternalServerError, "Error: " + err.Error(), ""
	default:
		h.logger.Error("unexpected dataset error", zap.Error(err))
		return http.StatusInternalServerError, "Error: " + err.Error(), ""
	}
}

func viewOptions(c *gin.Context) dashboard.Options {
	details := c.Query("details")
	return dashboard.Options{
		Season:      c.Query("season"),
		ShowDetails: details == "1" || details == "true",
	}
}
