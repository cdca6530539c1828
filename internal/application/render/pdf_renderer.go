package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/sangkips/billbook-api/internal/domain/entity"
	"github.com/sangkips/billbook-api/internal/domain/enum"
)

// PDFRenderer produces the full-page layout as a PDF.
// Core fonts are latin-1 only, so the rupee sign is written as "Rs.".
type PDFRenderer struct{}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

func (r *PDFRenderer) RenderPDF(in Input) ([]byte, error) {
	if in.Invoice == nil {
		return nil, fmt.Errorf("render: nil invoice")
	}
	if in.CurrencySymbol == "" || in.CurrencySymbol == "₹" {
		in.CurrencySymbol = "Rs."
	}
	view := buildView(in)
	paper := in.Printer.PaperSize.OrDefault()
	margin := in.Printer.Normalize().Margins

	pdf := gofpdf.New("P", "mm", string(paper), "")
	pdf.SetCreationDate(in.Invoice.IssueDate)
	pdf.SetCatalogSort(true)
	pdf.SetCompression(true)
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetTitle(view.Title, true)
	pdf.SetAuthor(view.Store.Name, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 2*margin

	// header
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW*0.6, 8, tr(view.Store.Name), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW*0.4, 8, tr("Invoice #"+view.Number), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	storeLines := nonEmpty(view.Store.Address, prefixed("Phone: ", view.Store.Phone), view.Store.Email, prefixed("GSTIN: ", view.Store.TaxID))
	meta := []string{"Date: " + view.Date, "Status: " + view.Status}
	for i := 0; i < len(storeLines) || i < len(meta); i++ {
		left, right := "", ""
		if i < len(storeLines) {
			left = storeLines[i]
		}
		if i < len(meta) {
			right = meta[i]
		}
		pdf.CellFormat(contentW*0.6, 5, tr(left), "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.4, 5, tr(right), "", 1, "R", false, 0, "")
	}
	pdf.Ln(2)
	x, y := pdf.GetXY()
	pdf.Line(x, y, x+contentW, y)
	pdf.Ln(4)

	// bill to
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 5, "Bill to", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, line := range nonEmpty(view.Customer.Name, view.Customer.Phone, view.Customer.Address, view.Customer.Email) {
		pdf.CellFormat(contentW, 5, tr(line), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// items
	cols := []float64{contentW * 0.08, contentW * 0.47, contentW * 0.1, contentW * 0.15, contentW * 0.2}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(243, 244, 246)
	for i, h := range []string{"#", "Item", "Qty", "Rate", "Amount"} {
		align := "R"
		if i < 2 {
			align = "L"
		}
		pdf.CellFormat(cols[i], 7, h, "B", 0, align, true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 9)
	for _, it := range view.Items {
		pdf.CellFormat(cols[0], 6, fmt.Sprintf("%d", it.Index), "B", 0, "L", false, 0, "")
		pdf.CellFormat(cols[1], 6, tr(it.Name), "B", 0, "L", false, 0, "")
		pdf.CellFormat(cols[2], 6, fmt.Sprintf("%d", it.Qty), "B", 0, "R", false, 0, "")
		pdf.CellFormat(cols[3], 6, it.Rate, "B", 0, "R", false, 0, "")
		pdf.CellFormat(cols[4], 6, it.Total, "B", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	// payment qr on the left, totals on the right
	summaryY := pdf.GetY()
	if in.QR != nil && view.QR != nil && len(in.QR.PNG) > 0 {
		opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
		pdf.RegisterImageOptionsReader("payment-qr", opts, bytes.NewReader(in.QR.PNG))
		if pdf.Ok() {
			pdf.ImageOptions("payment-qr", margin, summaryY, 32, 32, false, opts, 0, "")
			pdf.SetXY(margin, summaryY+33)
			pdf.SetFont("Helvetica", "", 8)
			pdf.CellFormat(32, 4, view.QR.Caption, "", 0, "C", false, 0, "")
		} else {
			// a broken static image must not fail the export
			pdf.ClearError()
		}
	}

	totalsX := margin + contentW*0.6
	pdf.SetXY(totalsX, summaryY)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW*0.2, 6, "Subtotal", "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.2, 6, tr(view.Subtotal), "", 1, "R", false, 0, "")
	pdf.SetX(totalsX)
	if view.GSTEnabled {
		pdf.CellFormat(contentW*0.2, 6, "GST (18%)", "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.2, 6, tr(view.Tax), "", 1, "R", false, 0, "")
		pdf.SetX(totalsX)
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW*0.2, 8, "Grand Total", "T", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.2, 8, tr(view.GrandTotal), "T", 1, "R", false, 0, "")

	if view.Notes != "" {
		pdf.SetXY(margin, summaryY+42)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.MultiCell(contentW, 5, tr(view.Notes), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// Document renders in as a downloadable PDF.
func (r *PDFRenderer) Document(in Input) (*entity.Document, error) {
	content, err := r.RenderPDF(in)
	if err != nil {
		return nil, err
	}
	return &entity.Document{
		FileName:    in.Invoice.FileName("pdf"),
		ContentType: "application/pdf",
		Template:    enum.PrintTemplateNormal,
		Content:     content,
	}, nil
}

func prefixed(prefix, s string) string {
	if s == "" {
		return ""
	}
	return prefix + s
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
