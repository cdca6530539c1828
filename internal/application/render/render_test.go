package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/sangkips/billbook-api/internal/domain/billing"
	"github.com/sangkips/billbook-api/internal/domain/entity"
	"github.com/sangkips/billbook-api/internal/domain/enum"
	"github.com/sangkips/billbook-api/pkg/upi"
	"github.com/shopspring/decimal"
)

func sampleInput(tmpl enum.PrintTemplate) Input {
	notes := "Goods once sold will not be taken back"
	inv := &entity.Invoice{
		InvoiceNumber: "050325003",
		IssueDate:     time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC),
		Customer:      entity.CustomerSnapshot{Name: "Asha <Traders>", Phone: "9876543210"},
		GSTEnabled:    true,
		Status:        enum.InvoiceStatusSent,
		Notes:         &notes,
		Items: []entity.InvoiceItem{
			{ProductName: "Paint", ColorVariant: "Red", VolumeVariant: "1L", Quantity: 2, UnitRate: decimal.RequireFromString("100")},
			{ProductName: "Brush", DisplayName: "Custom", Quantity: 1, UnitRate: decimal.RequireFromString("50")},
		},
	}
	billing.Apply(inv)
	return Input{
		Invoice:        inv,
		Store:          entity.StoreSnapshot{BusinessName: "Ravi Paints", Address: "MG Road", TaxID: "29ABCDE1234F1Z5"},
		Printer:        entity.PrinterSettings{PaperSize: enum.PaperSizeA5, Margins: 12, Template: tmpl},
		Template:       tmpl,
		CurrencySymbol: "₹",
	}
}

func TestRenderHTMLIsDeterministic(t *testing.T) {
	r := NewHTMLRenderer()
	for _, tmpl := range []enum.PrintTemplate{enum.PrintTemplateNormal, enum.PrintTemplateThermal} {
		a, err := r.RenderHTML(sampleInput(tmpl))
		if err != nil {
			t.Fatalf("render %s: %v", tmpl, err)
		}
		b, err := r.RenderHTML(sampleInput(tmpl))
		if err != nil {
			t.Fatalf("render %s: %v", tmpl, err)
		}
		if !bytes.Equal(a, b) {
			t.Fatalf("expected identical output for %s", tmpl)
		}
	}
}

func TestRenderHTMLShowsGrandTotalOnce(t *testing.T) {
	r := NewHTMLRenderer()
	for _, tmpl := range []enum.PrintTemplate{enum.PrintTemplateNormal, enum.PrintTemplateThermal} {
		out, err := r.RenderHTML(sampleInput(tmpl))
		if err != nil {
			t.Fatalf("render %s: %v", tmpl, err)
		}
		if got := strings.Count(string(out), "₹295.00"); got != 1 {
			t.Fatalf("expected grand total once in %s, got %d", tmpl, got)
		}
	}
}

func TestRenderHTMLTotalsWithoutGST(t *testing.T) {
	in := sampleInput(enum.PrintTemplateNormal)
	in.Invoice.GSTEnabled = false
	in.Invoice.Items = in.Invoice.Items[:1]
	billing.Apply(in.Invoice)

	out, err := NewHTMLRenderer().RenderHTML(in)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)
	if got := strings.Count(html, "Grand Total"); got != 1 {
		t.Fatalf("expected one grand total row, got %d", got)
	}
	if !strings.Contains(html, `<div class="grand"><span>Grand Total</span><span>₹200.00</span></div>`) {
		t.Fatalf("expected grand total row with ₹200.00")
	}
	if !strings.Contains(html, "<span>Subtotal</span><span>₹200.00</span>") {
		t.Fatalf("expected subtotal row when GST is disabled")
	}
	if strings.Contains(html, "GST (18%)") {
		t.Fatalf("expected no GST line when GST is disabled")
	}
}

func TestRenderHTMLNormalLayout(t *testing.T) {
	out, err := NewHTMLRenderer().RenderHTML(sampleInput(enum.PrintTemplateNormal))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)

	for _, want := range []string{
		"@page { size: A5; margin: 12mm; }",
		"Paint - Red - 1L",
		"Custom",
		"GST (18%)",
		"₹45.00",
		"#050325003",
		"05/03/2025",
		"GSTIN: 29ABCDE1234F1Z5",
		".summary, .qr { break-inside: avoid; page-break-inside: avoid; }",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in output", want)
		}
	}
	if strings.Contains(html, "<Traders>") {
		t.Fatalf("expected customer name to be escaped")
	}
	if !strings.Contains(html, "Asha &lt;Traders&gt;") {
		t.Fatalf("expected escaped customer name")
	}
}

func TestRenderHTMLThermalLayout(t *testing.T) {
	out, err := NewHTMLRenderer().RenderHTML(sampleInput(enum.PrintTemplateThermal))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)

	if !strings.Contains(html, "width: 72mm") {
		t.Fatalf("expected 72mm layout")
	}
	if !strings.Contains(html, "2 &times; 100.00 = 200.00") {
		t.Fatalf("expected qty x rate line, got %s", html)
	}
	if !strings.Contains(html, "Thank you! Visit again") {
		t.Fatalf("expected thank-you line")
	}
}

func TestRenderHTMLPaymentSection(t *testing.T) {
	r := NewHTMLRenderer()

	out, err := r.RenderHTML(sampleInput(enum.PrintTemplateNormal))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(string(out), "payment qr") {
		t.Fatalf("expected no payment section without a QR")
	}

	in := sampleInput(enum.PrintTemplateNormal)
	in.QR = &upi.PaymentQR{DataURI: "data:image/png;base64,cG5n", URI: "upi://pay?pa=a@b&am=295.00"}
	out, err = r.RenderHTML(in)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)
	if !strings.Contains(html, `src="data:image/png;base64,cG5n"`) {
		t.Fatalf("expected inline QR image, got %s", html)
	}
	if strings.Count(html, "₹295.00") != 1 {
		t.Fatalf("expected QR caption not to repeat the grand total")
	}
}

func TestRenderHTMLRejectsScriptLogo(t *testing.T) {
	in := sampleInput(enum.PrintTemplateNormal)
	in.Store.Logo = "javascript:alert(1)"

	out, err := NewHTMLRenderer().RenderHTML(in)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(string(out), "javascript:") || strings.Contains(string(out), `alt="logo"`) {
		t.Fatalf("expected unsafe logo to be dropped")
	}
}

func TestDocumentNamesAndReceipt(t *testing.T) {
	r := NewHTMLRenderer()

	doc, err := r.Document(sampleInput(enum.PrintTemplateThermal))
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	if doc.FileName != "Invoice_050325003.html" {
		t.Fatalf("expected Invoice_050325003.html, got %s", doc.FileName)
	}
	if doc.Receipt == nil || len(doc.Receipt.Items) != 2 {
		t.Fatalf("expected thermal receipt, got %+v", doc.Receipt)
	}
	if doc.Receipt.Items[0].Name != "Paint - Red - 1L" || !doc.Receipt.Total.Equal(decimal.NewFromInt(295)) {
		t.Fatalf("unexpected receipt %+v", doc.Receipt)
	}

	normal, err := r.Document(sampleInput(enum.PrintTemplateNormal))
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	if normal.Receipt != nil {
		t.Fatalf("expected no receipt for the full-page layout")
	}
}

func TestRenderPDF(t *testing.T) {
	r := NewPDFRenderer()

	a, err := r.RenderPDF(sampleInput(enum.PrintTemplateNormal))
	if err != nil {
		t.Fatalf("render pdf: %v", err)
	}
	if !bytes.HasPrefix(a, []byte("%PDF-")) {
		t.Fatalf("expected pdf header")
	}
	b, err := r.RenderPDF(sampleInput(enum.PrintTemplateNormal))
	if err != nil {
		t.Fatalf("render pdf: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("expected deterministic pdf output")
	}

	doc, err := r.Document(sampleInput(enum.PrintTemplateNormal))
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	if doc.FileName != "Invoice_050325003.pdf" || doc.ContentType != "application/pdf" {
		t.Fatalf("unexpected pdf document %s %s", doc.FileName, doc.ContentType)
	}
}

func TestRenderPDFWithQR(t *testing.T) {
	png, err := upi.NewQREncoder(128).Encode("upi://pay?pa=a@b&am=295.00")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	in := sampleInput(enum.PrintTemplateNormal)
	in.QR = &upi.PaymentQR{DataURI: upi.PNGDataURI(png), PNG: png}

	out, err := NewPDFRenderer().RenderPDF(in)
	if err != nil {
		t.Fatalf("render pdf: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("expected pdf header")
	}
}
