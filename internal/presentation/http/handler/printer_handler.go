package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/billbook-api/internal/application/service"
	"github.com/sangkips/billbook-api/internal/domain/entity"
	"github.com/sangkips/billbook-api/internal/presentation/http/dto/response"
)

// PrinterHandler exposes the thermal printer status and test page.
type PrinterHandler struct {
	printerService *service.PrinterService
}

// NewPrinterHandler creates a new printer handler.
func NewPrinterHandler(printerService *service.PrinterService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

type testPrintResponse struct {
	Printed bool            `json:"printed"`
	Warning string          `json:"warning,omitempty"`
	Receipt *entity.Receipt `json:"receipt"`
}

// GetStatus godoc
// @Summary Printer status
// @Tags printer
// @Produce json
// @Success 200 {object} response.APIResponse{data=service.PrinterStatus}
// @Router /printer/status [get]
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.printerService.GetStatus(c.Request.Context()))
}

// TestPrint prints a sample receipt. A printer failure still answers 200 so the
// settings page can show the receipt next to the warning.
func (h *PrinterHandler) TestPrint(c *gin.Context) {
	receipt, err := h.printerService.TestPrint(c.Request.Context())
	if err != nil {
		response.OK(c, "Test receipt rendered but not printed", testPrintResponse{
			Receipt: receipt,
			Warning: err.Error(),
		})
		return
	}

	response.OK(c, "Test page sent to printer", testPrintResponse{Printed: true, Receipt: receipt})
}
