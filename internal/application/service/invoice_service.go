package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/billbook-api/internal/application/render"
	"github.com/sangkips/billbook-api/internal/domain/billing"
	"github.com/sangkips/billbook-api/internal/domain/entity"
	"github.com/sangkips/billbook-api/internal/domain/enum"
	"github.com/sangkips/billbook-api/internal/domain/repository"
	"github.com/sangkips/billbook-api/pkg/apperror"
	"github.com/sangkips/billbook-api/pkg/metrics"
	"github.com/sangkips/billbook-api/pkg/pagination"
	"github.com/sangkips/billbook-api/pkg/upi"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const (
	NumberingHistory = "history"
	NumberingDaily   = "daily"

	BrandingSnapshot = "snapshot"
	BrandingLive     = "live"
)

// InvoiceOptions tunes numbering, branding and presentation.
type InvoiceOptions struct {
	Numbering      string // NumberingHistory or NumberingDaily
	BrandingPolicy string // BrandingSnapshot or BrandingLive
	CurrencySymbol string
	CurrencyCode   string
	Location       *time.Location // calendar used for issue dates
	Now            func() time.Time
}

// InvoiceService creates invoices and turns them into delivered documents.
type InvoiceService struct {
	invoiceRepo repository.InvoiceStore
	sequences   repository.InvoiceSequenceRepository
	catalog     repository.CatalogStore
	settings    repository.SettingsProvider
	sink        repository.DocumentSink
	html        *render.HTMLRenderer
	pdf         *render.PDFRenderer
	qr          upi.Encoder
	metrics     *metrics.Metrics
	log         *zap.Logger
	opts        InvoiceOptions
}

// NewInvoiceService creates a new invoice service.
// sequences may be nil unless opts.Numbering is NumberingDaily.
func NewInvoiceService(
	invoiceRepo repository.InvoiceStore,
	sequences repository.InvoiceSequenceRepository,
	catalog repository.CatalogStore,
	settings repository.SettingsProvider,
	sink repository.DocumentSink,
	qr upi.Encoder,
	m *metrics.Metrics,
	log *zap.Logger,
	opts InvoiceOptions,
) *InvoiceService {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Numbering == "" {
		opts.Numbering = NumberingHistory
	}
	if opts.BrandingPolicy == "" {
		opts.BrandingPolicy = BrandingSnapshot
	}
	if opts.CurrencyCode == "" {
		opts.CurrencyCode = "INR"
	}
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		sequences:   sequences,
		catalog:     catalog,
		settings:    settings,
		sink:        sink,
		html:        render.NewHTMLRenderer(),
		pdf:         render.NewPDFRenderer(),
		qr:          qr,
		metrics:     m,
		log:         log,
		opts:        opts,
	}
}

// InvoiceItemInput is one requested line. ProductID prefills blank fields from
// the catalog; a nil UnitRate takes the product rate.
type InvoiceItemInput struct {
	ProductID     *uuid.UUID
	ProductName   string
	ColorVariant  string
	VolumeVariant string
	DisplayName   string
	Quantity      int
	UnitRate      *decimal.Decimal
}

// CreateInvoiceInput represents input for creating an invoice
type CreateInvoiceInput struct {
	CustomerID      *uuid.UUID
	Customer        entity.CustomerSnapshot
	IssueDate       *time.Time
	GSTEnabled      bool
	PaymentReceived bool
	Notes           *string
	Items           []InvoiceItemInput
}

// ListInvoicesInput represents input for listing invoices
type ListInvoicesInput struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.InvoiceStatus
	CustomerID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}

// PrintResult reports the outcome of PrintInvoice. A failed delivery is not an
// error: the invoice stays valid and Warning says what went wrong.
type PrintResult struct {
	Invoice   *entity.Invoice  `json:"invoice"`
	Document  *entity.Document `json:"document"`
	Delivered bool             `json:"delivered"`
	Warning   string           `json:"warning,omitempty"`
}

// PreviewNumber returns the number the next invoice issued on date would get.
func (s *InvoiceService) PreviewNumber(ctx context.Context, date time.Time) (string, error) {
	day := s.issueDay(date)
	var seq int
	if s.opts.Numbering == NumberingDaily && s.sequences != nil {
		n, err := s.sequences.Peek(ctx, billing.DayKey(day))
		if err != nil {
			return "", err
		}
		seq = n
	} else {
		count, err := s.invoiceRepo.Count(ctx)
		if err != nil {
			return "", err
		}
		seq = int(count) + 1
	}
	return billing.InvoiceNumber(day, seq), nil
}

// CreateInvoice validates input, snapshots customer and store data, computes
// totals and persists the invoice. Nothing is written when validation fails.
func (s *InvoiceService) CreateInvoice(ctx context.Context, input *CreateInvoiceInput) (*entity.Invoice, error) {
	customer := input.Customer
	if input.CustomerID != nil {
		c, err := s.catalog.GetCustomer(ctx, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, apperror.NewValidationError([]apperror.FieldError{
				{Field: "customer_id", Message: "customer does not exist"},
			})
		}
		customer = mergeCustomer(customer, c.Snapshot())
	}
	customer.Name = strings.TrimSpace(customer.Name)

	items, errs, err := s.prefillItems(ctx, input.Items)
	if err != nil {
		return nil, err
	}
	if customer.Name == "" {
		errs = append([]apperror.FieldError{{Field: "customer.name", Message: "is required"}}, errs...)
	}
	if len(input.Items) == 0 {
		errs = append(errs, apperror.FieldError{Field: "items", Message: "at least one item is required"})
	}
	if len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}

	issued := s.opts.Now()
	if input.IssueDate != nil {
		issued = *input.IssueDate
	}
	day := s.issueDay(issued)

	number, err := s.nextNumber(ctx, day)
	if err != nil {
		return nil, err
	}

	invoice := &entity.Invoice{
		InvoiceNumber: number,
		IssueDate:     day,
		CustomerID:    input.CustomerID,
		Customer:      customer,
		Store:         datatypes.NewJSONType(s.settings.StoreSettings(ctx).Snapshot()),
		GSTEnabled:    input.GSTEnabled,
		Status:        billing.InitialStatus(input.PaymentReceived),
		Notes:         trimmedOrNil(input.Notes),
		Items:         items,
	}
	billing.Apply(invoice)

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, err
	}

	s.metrics.InvoiceCreated(invoice.Status.String())
	s.log.Info("invoice created",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("grand_total", invoice.GrandTotal.StringFixed(2)),
		zap.String("status", invoice.Status.String()))

	return invoice, nil
}

func (s *InvoiceService) prefillItems(ctx context.Context, inputs []InvoiceItemInput) ([]entity.InvoiceItem, []apperror.FieldError, error) {
	var errs []apperror.FieldError
	items := make([]entity.InvoiceItem, 0, len(inputs))

	for i, in := range inputs {
		field := "items[" + strconv.Itoa(i) + "]."
		item := entity.InvoiceItem{
			Position:      i,
			ProductID:     in.ProductID,
			ProductName:   strings.TrimSpace(in.ProductName),
			ColorVariant:  strings.TrimSpace(in.ColorVariant),
			VolumeVariant: strings.TrimSpace(in.VolumeVariant),
			DisplayName:   strings.TrimSpace(in.DisplayName),
			Quantity:      in.Quantity,
		}
		rate := in.UnitRate

		if in.ProductID != nil {
			p, err := s.catalog.GetProduct(ctx, *in.ProductID)
			if err != nil {
				return nil, nil, err
			}
			if p == nil {
				errs = append(errs, apperror.FieldError{Field: field + "product_id", Message: "product does not exist"})
				continue
			}
			if item.ProductName == "" {
				item.ProductName = p.Name
			}
			if item.ColorVariant == "" {
				item.ColorVariant = p.ColorVariant
			}
			if item.VolumeVariant == "" {
				item.VolumeVariant = p.VolumeVariant
			}
			if rate == nil {
				r := p.Rate
				rate = &r
			}
		}

		if item.ProductName == "" && item.DisplayName == "" {
			errs = append(errs, apperror.FieldError{Field: field + "product_name", Message: "is required"})
		}
		if item.Quantity < 1 {
			errs = append(errs, apperror.FieldError{Field: field + "quantity", Message: "must be at least 1"})
		}
		switch {
		case rate == nil:
			errs = append(errs, apperror.FieldError{Field: field + "unit_rate", Message: "is required"})
		case rate.IsNegative():
			errs = append(errs, apperror.FieldError{Field: field + "unit_rate", Message: "must not be negative"})
		default:
			item.UnitRate = rate.Round(2)
		}
		if item.ProductName == "" {
			item.ProductName = item.DisplayName
		}
		items = append(items, item)
	}
	return items, errs, nil
}

func (s *InvoiceService) nextNumber(ctx context.Context, day time.Time) (string, error) {
	if s.opts.Numbering == NumberingDaily {
		if s.sequences == nil {
			return "", errors.New("daily numbering requires a sequence repository")
		}
		seq, err := s.sequences.Next(ctx, billing.DayKey(day))
		if err != nil {
			return "", fmt.Errorf("next invoice sequence: %w", err)
		}
		return billing.InvoiceNumber(day, seq), nil
	}
	count, err := s.invoiceRepo.Count(ctx)
	if err != nil {
		return "", err
	}
	return billing.InvoiceNumber(day, int(count)+1), nil
}

// issueDay is the calendar date of t in the configured location, at UTC midnight.
func (s *InvoiceService) issueDay(t time.Time) time.Time {
	y, m, d := t.In(s.opts.Location).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Now returns the service clock.
func (s *InvoiceService) Now() time.Time {
	return s.opts.Now()
}

// ParseDate reads a YYYY-MM-DD calendar date in the configured location, so
// that issueDay maps it back to the same date.
func (s *InvoiceService) ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(billing.DayLayout, value, s.opts.Location)
}

// GetInvoice retrieves an invoice by ID
func (s *InvoiceService) GetInvoice(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// GetInvoiceByNumber retrieves an invoice by its invoice number
func (s *InvoiceService) GetInvoiceByNumber(ctx context.Context, number string) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// ListInvoices lists invoices with pagination and filters
func (s *InvoiceService) ListInvoices(ctx context.Context, input *ListInvoicesInput) (*pagination.PaginatedResult[entity.Invoice], error) {
	if input.Pagination == nil {
		input.Pagination = pagination.DefaultPagination()
	}
	input.Pagination.Validate()

	invoices, total, err := s.invoiceRepo.List(ctx, &repository.InvoiceFilterParams{
		Pagination: input.Pagination,
		Search:     strings.TrimSpace(input.Search),
		Status:     input.Status,
		CustomerID: input.CustomerID,
		StartDate:  input.StartDate,
		EndDate:    input.EndDate,
	})
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(input.Pagination.Page, input.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(invoices, pag), nil
}

// DeleteInvoice soft-deletes an invoice and its items.
func (s *InvoiceService) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	invoice, err := s.GetInvoice(ctx, id)
	if err != nil {
		return err
	}
	if err := s.invoiceRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("invoice deleted", zap.String("invoice_number", invoice.InvoiceNumber))
	return nil
}

// UpdateStatus applies a manual status change. It has no other side effects.
func (s *InvoiceService) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.InvoiceStatus) (*entity.Invoice, error) {
	invoice, err := s.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := billing.ValidateTransition(invoice.Status, status); err != nil {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "status", Message: err.Error()}})
	}
	if invoice.Status == status {
		return invoice, nil
	}
	if err := s.invoiceRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	invoice.Status = status
	return invoice, nil
}

// RenderInvoice renders an invoice as HTML. A nil template uses the printer
// settings' template.
func (s *InvoiceService) RenderInvoice(ctx context.Context, id uuid.UUID, template *enum.PrintTemplate) (*entity.Document, error) {
	invoice, err := s.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.html.Document(s.renderInput(ctx, invoice, template))
}

// ExportPDF renders an invoice as a PDF document.
func (s *InvoiceService) ExportPDF(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	invoice, err := s.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	normal := enum.PrintTemplateNormal
	return s.pdf.Document(s.renderInput(ctx, invoice, &normal))
}

// PrintInvoice renders an invoice and hands it to the document sink. On a
// successful delivery a draft invoice moves to sent when auto-mark is enabled.
func (s *InvoiceService) PrintInvoice(ctx context.Context, id uuid.UUID, template *enum.PrintTemplate) (*PrintResult, error) {
	invoice, err := s.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	in := s.renderInput(ctx, invoice, template)
	doc, err := s.html.Document(in)
	if err != nil {
		return nil, err
	}

	result := &PrintResult{Invoice: invoice, Document: doc}
	if s.sink == nil {
		result.Warning = "no document sink configured"
		return result, nil
	}

	err = s.sink.Deliver(ctx, doc)
	s.metrics.DocumentDelivered(string(doc.Template), err)
	if err != nil {
		s.log.Warn("document delivery failed",
			zap.String("invoice_number", invoice.InvoiceNumber),
			zap.String("file", doc.FileName),
			zap.Error(err))
		result.Warning = err.Error()
		return result, nil
	}
	result.Delivered = true

	next := billing.StatusAfterPrint(invoice.Status, in.Printer.AutoMarkAsPrinted)
	if next != invoice.Status {
		if err := s.invoiceRepo.UpdateStatus(ctx, invoice.ID, next); err != nil {
			s.log.Warn("could not mark printed invoice as sent",
				zap.String("invoice_number", invoice.InvoiceNumber),
				zap.Error(err))
		} else {
			invoice.Status = next
		}
	}
	return result, nil
}

// storeFor returns the branding a document of invoice is rendered with.
func (s *InvoiceService) storeFor(ctx context.Context, invoice *entity.Invoice) entity.StoreSnapshot {
	if s.opts.BrandingPolicy == BrandingLive {
		return s.settings.StoreSettings(ctx).Snapshot()
	}
	return invoice.Store.Data()
}

func (s *InvoiceService) renderInput(ctx context.Context, invoice *entity.Invoice, template *enum.PrintTemplate) render.Input {
	printer := s.settings.PrinterSettings(ctx)
	tmpl := printer.Template
	if template != nil && template.Valid() {
		tmpl = *template
	}

	store := s.storeFor(ctx, invoice)

	return render.Input{
		Invoice:        invoice,
		Store:          store,
		Printer:        printer,
		Template:       tmpl.OrDefault(),
		QR:             s.paymentQR(ctx, invoice, store),
		CurrencySymbol: s.opts.CurrencySymbol,
	}
}

// paymentQR resolves the payment image from the branding the document is
// rendered with. Failures are logged and the document renders without a
// payment section.
func (s *InvoiceService) paymentQR(ctx context.Context, invoice *entity.Invoice, store entity.StoreSnapshot) *upi.PaymentQR {
	settings := s.settings.UPISettings(ctx)

	params := upi.Params{
		Payee:     settings.PayeeID,
		PayeeName: settings.PayeeName,
		Note:      settings.Note,
		Currency:  settings.Currency,
	}
	if params.PayeeName == "" {
		params.PayeeName = store.BusinessName
	}
	if params.Note == "" {
		params.Note = "Invoice " + invoice.InvoiceNumber
	}
	if params.Currency == "" {
		params.Currency = s.opts.CurrencyCode
	}
	tmpl := settings.URITemplate
	if tmpl == "" {
		tmpl = entity.DefaultUPITemplate
	}

	qr, err := upi.Resolve(upi.Config{
		StaticImage: store.PaymentQR,
		Enabled:     settings.Enabled,
		Template:    tmpl,
		Params:      params,
	}, invoice.GrandTotal, s.qr)
	if err != nil {
		if !errors.Is(err, upi.ErrNotConfigured) {
			s.metrics.PaymentQRFailed()
			s.log.Warn("payment qr unavailable",
				zap.String("invoice_number", invoice.InvoiceNumber),
				zap.Error(err))
		}
		return nil
	}
	return qr
}

// mergeCustomer fills blank fields of typed from the catalog record.
func mergeCustomer(typed, catalog entity.CustomerSnapshot) entity.CustomerSnapshot {
	if strings.TrimSpace(typed.Name) == "" {
		typed.Name = catalog.Name
	}
	if typed.Phone == "" {
		typed.Phone = catalog.Phone
	}
	if typed.Address == "" {
		typed.Address = catalog.Address
	}
	if typed.Email == "" {
		typed.Email = catalog.Email
	}
	return typed
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
