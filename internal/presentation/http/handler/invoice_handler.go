package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/billbook-api/internal/application/service"
	"github.com/sangkips/billbook-api/internal/domain/entity"
	"github.com/sangkips/billbook-api/internal/domain/enum"
	"github.com/sangkips/billbook-api/internal/presentation/http/dto/request"
	"github.com/sangkips/billbook-api/internal/presentation/http/dto/response"
	"github.com/sangkips/billbook-api/pkg/apperror"
	"github.com/sangkips/billbook-api/pkg/pagination"
)

// InvoiceHandler handles invoice-related HTTP requests
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
	mailService    *service.MailService
}

// NewInvoiceHandler creates a new invoice handler. mailService may be nil when
// email delivery is not wired.
func NewInvoiceHandler(invoiceService *service.InvoiceService, mailService *service.MailService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService, mailService: mailService}
}

// Create handles creating an invoice
// @Summary Create invoice
// @Description Validate items, compute GST totals and assign the next invoice number
// @Tags invoices
// @Accept json
// @Produce json
// @Param request body request.CreateInvoiceRequest true "Invoice"
// @Success 201 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req request.CreateInvoiceRequest
	if !bindJSON(c, &req) {
		return
	}

	input := &service.CreateInvoiceInput{
		CustomerID: req.CustomerID,
		Customer: entity.CustomerSnapshot{
			Name:    req.Customer.Name,
			Phone:   req.Customer.Phone,
			Address: req.Customer.Address,
			Email:   req.Customer.Email,
		},
		GSTEnabled:      req.GSTEnabled,
		PaymentReceived: req.PaymentReceived,
		Notes:           req.Notes,
		Items:           make([]service.InvoiceItemInput, 0, len(req.Items)),
	}
	if req.IssueDate != "" {
		issued, err := h.invoiceService.ParseDate(req.IssueDate)
		if err != nil {
			response.ValidationError(c, []apperror.FieldError{{Field: "issue_date", Message: "must be a date in the form 2006-01-02"}})
			return
		}
		input.IssueDate = &issued
	}
	for _, it := range req.Items {
		input.Items = append(input.Items, service.InvoiceItemInput{
			ProductID:     it.ProductID,
			ProductName:   it.ProductName,
			ColorVariant:  it.ColorVariant,
			VolumeVariant: it.VolumeVariant,
			DisplayName:   it.DisplayName,
			Quantity:      it.Quantity,
			UnitRate:      it.UnitRate,
		})
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Invoice created successfully", invoice)
}

// List handles listing invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	var filter request.InvoiceFilterRequest
	if !bindQuery(c, &filter) {
		return
	}

	input := &service.ListInvoicesInput{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search:    filter.Search,
		StartDate: parseDate(filter.StartDate),
		EndDate:   parseDate(filter.EndDate),
	}
	if filter.Status != "" {
		status, err := enum.ParseInvoiceStatus(filter.Status)
		if err != nil {
			response.BadRequest(c, "Invalid status")
			return
		}
		input.Status = &status
	}
	if filter.CustomerID != "" {
		customerID, err := uuid.Parse(filter.CustomerID)
		if err != nil {
			response.BadRequest(c, "Invalid customer ID format")
			return
		}
		input.CustomerID = &customerID
	}

	result, err := h.invoiceService.ListInvoices(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Invoices retrieved successfully", result)
}

// NextNumber previews the number the next invoice would receive. It does not
// reserve the number.
func (h *InvoiceHandler) NextNumber(c *gin.Context) {
	date := h.invoiceService.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := h.invoiceService.ParseDate(raw)
		if err != nil {
			response.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
			return
		}
		date = parsed
	}

	number, err := h.invoiceService.PreviewNumber(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Next invoice number", gin.H{"invoice_number": number})
}

// Get handles getting a single invoice
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", invoice)
}

// GetByNumber handles looking an invoice up by its number
func (h *InvoiceHandler) GetByNumber(c *gin.Context) {
	invoice, err := h.invoiceService.GetInvoiceByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", invoice)
}

// UpdateStatus handles a manual status change
func (h *InvoiceHandler) UpdateStatus(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req request.UpdateInvoiceStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	status, err := enum.ParseInvoiceStatus(req.Status)
	if err != nil {
		response.BadRequest(c, "Invalid status")
		return
	}

	invoice, err := h.invoiceService.UpdateStatus(c.Request.Context(), id, status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice status updated successfully", invoice)
}

// Delete handles deleting an invoice
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Document renders the invoice as HTML, using ?template= when given and the
// printer settings otherwise.
func (h *InvoiceHandler) Document(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req request.DocumentRequest
	if !bindQuery(c, &req) {
		return
	}

	doc, err := h.invoiceService.RenderInvoice(c.Request.Context(), id, templateOf(req.Template))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Document(c, doc, req.Download)
}

// PDF exports the invoice as a PDF attachment
func (h *InvoiceHandler) PDF(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	doc, err := h.invoiceService.ExportPDF(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Document(c, doc, true)
}

// Print renders the invoice and delivers it to the configured sink. A failed
// delivery still answers 200 with a warning since the invoice itself is fine.
func (h *InvoiceHandler) Print(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req request.DocumentRequest
	if c.Request.ContentLength > 0 {
		if !bindJSON(c, &req) {
			return
		}
	} else if !bindQuery(c, &req) {
		return
	}

	result, err := h.invoiceService.PrintInvoice(c.Request.Context(), id, templateOf(req.Template))
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Invoice sent to printer"
	if !result.Delivered {
		message = "Invoice rendered but not delivered"
	}
	response.OK(c, message, result)
}

// Email sends the invoice PDF to the customer
func (h *InvoiceHandler) Email(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req request.EmailInvoiceRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	if h.mailService == nil {
		response.BadRequest(c, "Email delivery is not configured")
		return
	}

	result, err := h.mailService.EmailInvoice(c.Request.Context(), id, req.To)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice emailed successfully", result)
}

func templateOf(s string) *enum.PrintTemplate {
	if s == "" {
		return nil
	}
	t := enum.PrintTemplate(s)
	return &t
}
