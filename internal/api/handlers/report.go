package handlers

import (
	"fmt"
	"net/http"

	"pv-estimator/internal/log"
	"pv-estimator/internal/model"
	"pv-estimator/internal/observability/metrics"
	"pv-estimator/internal/report"

	"github.com/gin-gonic/gin"
)

const (
	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ExportPDF handles GET /api/v1/estimate/:id/pdf
func (h *EstimateHandler) ExportPDF(c *gin.Context) {
	h.export(c, "pdf", contentTypePDF, report.BuildPDF)
}

// ExportXLSX handles GET /api/v1/estimate/:id/xlsx
func (h *EstimateHandler) ExportXLSX(c *gin.Context) {
	h.export(c, "xlsx", contentTypeXLSX, report.BuildXLSX)
}

func (h *EstimateHandler) export(c *gin.Context, format, contentType string, build func(model.Result, report.Meta) ([]byte, error)) {
	stored, ok := h.lookup(c)
	if !ok {
		return
	}

	raw, err := build(stored.Response.Result, stored.Meta)
	if err != nil {
		log.Errorf("render %s for estimate %s: %v", format, stored.Response.ID, err)
		writeError(c, http.StatusInternalServerError, CodeReportError, err.Error())
		return
	}
	metrics.IncReportExport(format)

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="estimativa-%s.%s"`, stored.Response.ID, format))
	c.Data(http.StatusOK, contentType, raw)
}
