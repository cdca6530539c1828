package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/billbook-api/internal/application/service"
	"github.com/sangkips/billbook-api/internal/domain/entity"
	"github.com/sangkips/billbook-api/internal/domain/enum"
	"github.com/sangkips/billbook-api/internal/presentation/http/dto/request"
	"github.com/sangkips/billbook-api/internal/presentation/http/dto/response"
)

// SettingsHandler handles settings-related HTTP requests
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GetSettings returns every settings collection, with defaults for missing ones
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	response.OK(c, "Settings retrieved successfully", h.settingsService.GetSettings(c.Request.Context()))
}

// UpdateStore replaces the store branding
func (h *SettingsHandler) UpdateStore(c *gin.Context) {
	var req request.StoreSettingsRequest
	if !bindJSON(c, &req) {
		return
	}

	settings, err := h.settingsService.UpdateStoreSettings(c.Request.Context(), entity.StoreSettings{
		BusinessName: req.BusinessName,
		Address:      req.Address,
		Phone:        req.Phone,
		Email:        req.Email,
		TaxID:        req.TaxID,
		Website:      req.Website,
		Logo:         req.Logo,
		PaymentQR:    req.PaymentQR,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Store settings updated successfully", settings)
}

// UpdatePrinter replaces the print preferences
func (h *SettingsHandler) UpdatePrinter(c *gin.Context) {
	var req request.PrinterSettingsRequest
	if !bindJSON(c, &req) {
		return
	}

	settings, err := h.settingsService.UpdatePrinterSettings(c.Request.Context(), entity.PrinterSettings{
		PaperSize:         enum.PaperSize(req.PaperSize),
		Margins:           req.Margins,
		Template:          enum.PrintTemplate(req.Template),
		AutoMarkAsPrinted: req.AutoMarkAsPrinted,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Printer settings updated successfully", settings)
}

// UpdateUPI replaces the payment QR configuration
func (h *SettingsHandler) UpdateUPI(c *gin.Context) {
	var req request.UPISettingsRequest
	if !bindJSON(c, &req) {
		return
	}

	settings, err := h.settingsService.UpdateUPISettings(c.Request.Context(), entity.UPISettings{
		Enabled:     req.Enabled,
		PayeeID:     req.PayeeID,
		PayeeName:   req.PayeeName,
		Note:        req.Note,
		Currency:    req.Currency,
		URITemplate: req.URITemplate,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "UPI settings updated successfully", settings)
}

// Reset deletes one settings collection so its defaults apply again
func (h *SettingsHandler) Reset(c *gin.Context) {
	if err := h.settingsService.ResetSettings(c.Request.Context(), c.Param("key")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
