package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/andresuchdata/furnicast/backend-go/internal/domain"
	"github.com/andresuchdata/furnicast/backend-go/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type ForecastHandler struct {
	service *service.ForecastService
}

func NewForecastHandler(service *service.ForecastService) *ForecastHandler {
	return &ForecastHandler{service: service}
}

func (h *ForecastHandler) parseFilter(c *gin.Context) (domain.ForecastFilter, error) {
	filter := domain.ForecastFilter{
		Page:     1,
		PageSize: 50,
	}

	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && page > 0 {
		filter.Page = page
	}

	if size, err := strconv.Atoi(c.DefaultQuery("page_size", "50")); err == nil && size > 0 {
		filter.PageSize = size
	}

	// Both ?status=a&status=b and ?status=a,b are accepted
	for _, raw := range splitQueryValues(c.QueryArray("status")) {
		status, ok := domain.ParseStockStatus(raw)
		if !ok {
			return filter, fmt.Errorf("unknown status %q", raw)
		}
		filter.Statuses = append(filter.Statuses, string(status))
	}

	for _, raw := range splitQueryValues(c.QueryArray("material_ids")) {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, fmt.Errorf("invalid material id %q", raw)
		}
		filter.MaterialIDs = append(filter.MaterialIDs, id)
	}

	if raw := strings.TrimSpace(c.Query("needs_reorder")); raw != "" {
		needsReorder, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, fmt.Errorf("invalid needs_reorder %q", raw)
		}
		filter.NeedsReorder = &needsReorder
	}

	if sortField := strings.TrimSpace(c.Query("sort_field")); sortField != "" {
		filter.SortField = strings.ToLower(sortField)
	}

	sortDir := strings.ToLower(strings.TrimSpace(c.Query("sort_direction")))
	if sortDir != "desc" {
		sortDir = "asc"
	}
	filter.SortDirection = sortDir

	return filter, nil
}

func splitQueryValues(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (h *ForecastHandler) GetItems(c *gin.Context) {
	filter, err := h.parseFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.service.GetItems(c.Request.Context(), filter)
	if err != nil {
		log.Ctx(c.Request.Context()).Error().Err(err).Msg("failed to fetch forecasts")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch forecasts", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ForecastHandler) GetSummary(c *gin.Context) {
	filter, err := h.parseFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := h.service.GetSummary(c.Request.Context(), filter)
	if err != nil {
		log.Ctx(c.Request.Context()).Error().Err(err).Msg("failed to fetch forecast summary")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch summary", "details": err.Error()})
		return
	}

	for i := range summary.StatusCounts {
		summary.StatusCounts[i].Label = summary.StatusCounts[i].Status.Label()
	}

	c.JSON(http.StatusOK, summary)
}

func (h *ForecastHandler) GetMaterial(c *gin.Context) {
	materialID, ok := parseMaterialID(c)
	if !ok {
		return
	}

	f, err := h.service.GetMaterial(c.Request.Context(), materialID)
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("no active forecast for material %d", materialID)})
		return
	}
	if err != nil {
		log.Ctx(c.Request.Context()).Error().Err(err).Int64("material_id", materialID).Msg("failed to fetch forecast")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch forecast", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, f)
}

func (h *ForecastHandler) GetHistory(c *gin.Context) {
	materialID, ok := parseMaterialID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "30"))

	history, err := h.service.GetHistory(c.Request.Context(), materialID, limit)
	if err != nil {
		log.Ctx(c.Request.Context()).Error().Err(err).Int64("material_id", materialID).Msg("failed to fetch forecast history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch history", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"material_id": materialID,
		"items":       history,
	})
}

func (h *ForecastHandler) Export(c *gin.Context) {
	filter, err := h.parseFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="material_forecasts.csv"`)
	if _, err := h.service.ExportCSV(c.Request.Context(), filter, c.Writer); err != nil {
		log.Ctx(c.Request.Context()).Error().Err(err).Msg("failed to export forecasts")
		c.Status(http.StatusInternalServerError)
	}
}

// Run triggers a forecast batch. as_of defaults to today.
func (h *ForecastHandler) Run(c *gin.Context) {
	asOf := time.Now().UTC()
	if raw := strings.TrimSpace(c.Query("as_of")); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "as_of must be formatted as YYYY-MM-DD"})
			return
		}
		asOf = parsed
	}

	run, summary, err := h.service.Run(c.Request.Context(), asOf)
	if errors.Is(err, service.ErrRunInProgress) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "forecast run failed", "details": err.Error(), "run": run})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"run":     run,
		"summary": summary,
	})
}

func (h *ForecastHandler) LatestRun(c *gin.Context) {
	run, err := h.service.LatestRun(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch latest run", "details": err.Error()})
		return
	}
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no forecast run recorded"})
		return
	}

	c.JSON(http.StatusOK, run)
}

func parseMaterialID(c *gin.Context) (int64, bool) {
	materialID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || materialID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid material id"})
		return 0, false
	}
	return materialID, true
}
