package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/billbook-api/internal/application/service"
	"github.com/sangkips/billbook-api/internal/presentation/http/dto/request"
	"github.com/sangkips/billbook-api/internal/presentation/http/dto/response"
	"github.com/sangkips/billbook-api/pkg/apperror"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler serves the password protected dashboards
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) bindRange(c *gin.Context) (*request.ReportFilterRequest, service.ReportRange, bool) {
	var filter request.ReportFilterRequest
	if !bindQuery(c, &filter) {
		return nil, service.ReportRange{}, false
	}
	r := service.ReportRange{From: parseDate(filter.From), To: parseDate(filter.To)}
	if r.From != nil && r.To != nil && r.To.Before(*r.From) {
		response.ValidationError(c, []apperror.FieldError{{Field: "to", Message: "must not be before from"}})
		return nil, r, false
	}
	return &filter, r, true
}

// Sales returns totals, the status breakdown, the daily series and top items
func (h *ReportHandler) Sales(c *gin.Context) {
	filter, r, ok := h.bindRange(c)
	if !ok {
		return
	}

	report, err := h.reportService.GetSalesReport(c.Request.Context(), r, filter.Top)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sales report retrieved successfully", report)
}

// Storage returns record counts per collection
func (h *ReportHandler) Storage(c *gin.Context) {
	report, err := h.reportService.GetStorageReport(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Storage report retrieved successfully", report)
}

// Export downloads the invoices in range as a spreadsheet
func (h *ReportHandler) Export(c *gin.Context) {
	filter, r, ok := h.bindRange(c)
	if !ok {
		return
	}

	content, err := h.reportService.ExportXLSX(c.Request.Context(), r)
	if err != nil {
		response.Error(c, err)
		return
	}

	name := "invoices.xlsx"
	if filter.From != "" || filter.To != "" {
		name = fmt.Sprintf("invoices_%s_%s.xlsx", orAll(filter.From), orAll(filter.To))
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, xlsxContentType, content)
}

func orAll(s string) string {
	if s == "" {
		return "all"
	}
	return s
}
