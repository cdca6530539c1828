package sink

import (
	"context"
	"fmt"

	"github.com/sangkips/billbook-api/internal/domain/entity"
	"github.com/sangkips/billbook-api/internal/domain/repository"
	"github.com/sangkips/billbook-api/pkg/printer"
	"go.uber.org/zap"
)

// PrinterSink sends thermal documents to an ESC/POS printer.
// Full-page documents carry no receipt and are skipped.
type PrinterSink struct {
	printer   printer.Printer
	charWidth int
	log       *zap.Logger
}

func NewPrinterSink(p printer.Printer, charWidth int, log *zap.Logger) *PrinterSink {
	if log == nil {
		log = zap.NewNop()
	}
	return &PrinterSink{printer: p, charWidth: charWidth, log: log}
}

var _ repository.DocumentSink = (*PrinterSink)(nil)

func (s *PrinterSink) Deliver(ctx context.Context, doc *entity.Document) error {
	if doc.Receipt == nil {
		s.log.Debug("printer sink skipped document without receipt", zap.String("file", doc.FileName))
		return nil
	}
	return s.PrintReceipt(ctx, doc.Receipt)
}

// PrintReceipt formats r as ESC/POS and sends it to the printer.
func (s *PrinterSink) PrintReceipt(ctx context.Context, r *entity.Receipt) error {
	data := FormatReceipt(r, s.charWidth)
	if err := s.printer.Print(ctx, data); err != nil {
		return fmt.Errorf("print receipt %s: %w", r.InvoiceNo, err)
	}
	s.log.Info("receipt printed",
		zap.String("invoice_number", r.InvoiceNo),
		zap.String("printer", s.printer.Describe()))
	return nil
}

// Printer exposes the underlying device for status checks.
func (s *PrinterSink) Printer() printer.Printer {
	return s.printer
}

// FormatReceipt converts a Receipt into ESC/POS bytes.
func FormatReceipt(r *entity.Receipt, charWidth int) []byte {
	doc := printer.NewDocument(charWidth)

	// Header
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if r.Header.Address != "" {
		doc.Wrapped(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text("Ph: " + r.Header.Phone)
	}
	if r.Header.TaxID != "" {
		doc.Text("GSTIN: " + r.Header.TaxID)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	doc.KeyValue("Bill:", r.InvoiceNo).
		KeyValue("Date:", r.Date)
	if r.Customer != "" {
		doc.KeyValue("To:", r.Customer)
	}
	if r.CustomerPhone != "" {
		doc.KeyValue("Ph:", r.CustomerPhone)
	}

	doc.Separator('-')

	// Items: name, then "qty x rate = total"
	for _, item := range r.Items {
		doc.Wrapped(item.Name)
		doc.Text(fmt.Sprintf("  %d x %s = %s", item.Quantity, item.UnitPrice.StringFixed(2), item.Total.StringFixed(2)))
	}

	doc.Separator('-')

	if r.GSTEnabled {
		doc.KeyValue("Subtotal:", r.CurrencySymbol+r.SubTotal.StringFixed(2)).
			KeyValue("GST 18%:", r.CurrencySymbol+r.Tax.StringFixed(2))
	}
	doc.SetBold(true).
		KeyValue("TOTAL:", r.CurrencySymbol+r.Total.StringFixed(2)).
		SetBold(false)

	doc.Separator('-')

	if r.PaymentURI != "" {
		doc.SetAlign(printer.AlignCenter).
			QRCode(r.PaymentURI, 4).
			Text("Scan to pay via UPI").
			SetAlign(printer.AlignLeft).
			Separator('-')
	}

	footer := r.Footer
	if footer == "" {
		footer = "Thank you for your business!"
	}
	doc.SetAlign(printer.AlignCenter).
		FeedLines(1).
		Text(footer).
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}
