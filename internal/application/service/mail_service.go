package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/billbook-api/internal/domain/billing"
	"github.com/sangkips/billbook-api/pkg/apperror"
	"github.com/sangkips/billbook-api/pkg/email"
	"go.uber.org/zap"
)

// Mailer sends one email. *email.Mailer satisfies it.
type Mailer interface {
	Configured() bool
	Send(ctx context.Context, msg email.Message) error
}

// MailService emails invoice PDFs to customers.
type MailService struct {
	invoices *InvoiceService
	mailer   Mailer
	log      *zap.Logger
}

// NewMailService creates a new mail service
func NewMailService(invoices *InvoiceService, mailer Mailer, log *zap.Logger) *MailService {
	if log == nil {
		log = zap.NewNop()
	}
	return &MailService{invoices: invoices, mailer: mailer, log: log}
}

// MailResult reports where an invoice was sent.
type MailResult struct {
	InvoiceNumber string `json:"invoice_number"`
	To            string `json:"to"`
}

// EmailInvoice sends the invoice PDF to to, or to the customer email captured
// on the invoice when to is empty. Invoice status is not changed.
func (s *MailService) EmailInvoice(ctx context.Context, id uuid.UUID, to string) (*MailResult, error) {
	if s.mailer == nil || !s.mailer.Configured() {
		return nil, apperror.NewBadRequestError("Email delivery is not configured")
	}

	invoice, err := s.invoices.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	to = strings.TrimSpace(to)
	if to == "" {
		to = strings.TrimSpace(invoice.Customer.Email)
	}
	if to == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "to", Message: "no recipient given and the invoice has no customer email"},
		})
	}

	doc, err := s.invoices.ExportPDF(ctx, id)
	if err != nil {
		return nil, err
	}

	store := s.invoices.storeFor(ctx, invoice)
	note, err := email.RenderInvoiceNote(email.InvoiceNote{
		StoreName:     store.BusinessName,
		CustomerName:  invoice.Customer.Name,
		InvoiceNumber: invoice.InvoiceNumber,
		Amount:        billing.FormatMoney(s.invoices.opts.CurrencySymbol, invoice.GrandTotal),
	})
	if err != nil {
		return nil, err
	}

	subject := "Invoice " + invoice.InvoiceNumber
	if store.BusinessName != "" {
		subject += " from " + store.BusinessName
	}

	err = s.mailer.Send(ctx, email.Message{
		To:       to,
		Subject:  subject,
		HTMLBody: note,
		Attachments: []email.Attachment{
			{FileName: doc.FileName, ContentType: doc.ContentType, Data: doc.Content},
		},
	})
	if err != nil {
		s.log.Warn("invoice email failed",
			zap.String("invoice_number", invoice.InvoiceNumber),
			zap.Error(err))
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, apperror.NewAppError(http.StatusBadGateway, "Email delivery failed")
	}

	s.log.Info("invoice emailed", zap.String("invoice_number", invoice.InvoiceNumber))
	return &MailResult{InvoiceNumber: invoice.InvoiceNumber, To: to}, nil
}

var _ Mailer = (*email.Mailer)(nil)
