package service

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sangkips/billbook-api/internal/domain/entity"
	"github.com/sangkips/billbook-api/internal/domain/enum"
	"github.com/sangkips/billbook-api/pkg/apperror"
	"github.com/sangkips/billbook-api/pkg/metrics"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var ist = time.FixedZone("IST", 5*3600+30*60)

type invoiceFixture struct {
	svc       *InvoiceService
	invoices  *memInvoices
	sequences *memSequences
	customers *memCustomers
	products  *memProducts
	settings  *staticSettings
	sink      *recordingSink
	encoder   *stubEncoder
	logs      *observer.ObservedLogs
	registry  *prometheus.Registry
}

func newInvoiceFixture(t *testing.T, opts InvoiceOptions) *invoiceFixture {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	f := &invoiceFixture{
		invoices:  &memInvoices{},
		sequences: &memSequences{},
		customers: newMemCustomers(),
		products:  newMemProducts(),
		settings:  newStaticSettings(),
		sink:      &recordingSink{},
		encoder:   &stubEncoder{},
		logs:      logs,
		registry:  prometheus.NewRegistry(),
	}
	if opts.Location == nil {
		opts.Location = ist
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Date(2025, time.March, 5, 10, 0, 0, 0, ist) }
	}
	if opts.CurrencySymbol == "" {
		opts.CurrencySymbol = "₹"
	}
	f.svc = NewInvoiceService(
		f.invoices,
		f.sequences,
		memCatalog{customers: f.customers, products: f.products},
		f.settings,
		f.sink,
		f.encoder,
		metrics.New(f.registry),
		zap.New(core),
		opts,
	)
	return f
}

func rate(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func paintInput() *CreateInvoiceInput {
	return &CreateInvoiceInput{
		Customer:   entity.CustomerSnapshot{Name: "Asha Traders", Phone: "9876543210"},
		GSTEnabled: true,
		Items: []InvoiceItemInput{
			{ProductName: "Paint", ColorVariant: "Red", VolumeVariant: "1L", Quantity: 2, UnitRate: rate("100")},
			{ProductName: "Brush", Quantity: 1, UnitRate: rate("50")},
		},
	}
}

func mustCreate(t *testing.T, f *invoiceFixture, in *CreateInvoiceInput) *entity.Invoice {
	t.Helper()
	inv, err := f.svc.CreateInvoice(context.Background(), in)
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	return inv
}

func assertValidation(t *testing.T, err error, fields ...string) {
	t.Helper()
	appErr := apperror.GetAppError(err)
	if appErr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d (%v)", appErr.Code, err)
	}
	got := map[string]bool{}
	for _, fe := range appErr.Errors {
		got[fe.Field] = true
	}
	for _, field := range fields {
		if !got[field] {
			t.Fatalf("expected field error for %s, got %+v", field, appErr.Errors)
		}
	}
}

func TestCreateInvoiceComputesTotalsAndNumber(t *testing.T) {
	f := newInvoiceFixture(t, InvoiceOptions{})
	mustCreate(t, f, paintInput())
	mustCreate(t, f, paintInput())

	inv := mustCreate(t, f, paintInput())

	if inv.InvoiceNumber != "050325003" {
		t.Fatalf("expected invoice number 050325003, got %s", inv.InvoiceNumber)
	}
	if !inv.Subtotal.Equal(decimal.RequireFromString("250")) {
		t.Fatalf("expected subtotal 250, got %s", inv.Subtotal)
	}
	if !inv.TaxAmount.Equal(decimal.RequireFromString("45")) {
		t.Fatalf("expected tax 45, got %s", inv.TaxAmount)
	}
	if !inv.GrandTotal.Equal(decimal.RequireFromString("295")) {
		t.Fatalf("expected grand total 295, got %s", inv.GrandTotal)
	}
	if inv.Status != enum.InvoiceStatusSent {
		t.Fatalf("expected status sent, got %s", inv.Status)
	}
	if got := inv.Store.Data().BusinessName; got != "Ravi Paints" {
		t.Fatalf("expected store snapshot Ravi Paints, got %q", got)
	}
	if !inv.Items[0].LineTotal.Equal(decimal.RequireFromString("200")) {
		t.Fatalf("expected first line total 200, got %s", inv.Items[0].LineTotal)
	}
	if inv.Items[1].Position != 1 {
		t.Fatalf("expected second item position 1, got %d", inv.Items[1].Position)
	}
	if f.logs.FilterMessage("invoice created").Len() != 3 {
		t.Fatalf("expected 3 creation log entries, got %d", f.logs.FilterMessage("invoice created").Len())
	}
}

func TestCreateInvoiceWithoutGST(t *testing.T) {
	f := newInvoiceFixture(t, InvoiceOptions{})
	in := paintInput()
	in.GSTEnabled = false

	inv := mustCreate(t, f, in)

	if !inv.TaxAmount.IsZero() {
		t.Fatalf("expected zero tax, got %s", inv.TaxAmount)
	}
	if !inv.GrandTotal.Equal(inv.Subtotal) {
		t.Fatalf("expected grand total to equal subtotal, got %s vs %s", inv.GrandTotal, inv.Subtotal)
	}
}

func TestCreateInvoicePaymentReceivedIsPaid(t *testing.T) {
	f := newInvoiceFixture(t, InvoiceOptions{})
	in := paintInput()
	in.PaymentReceived = true

	inv := mustCreate(t, f, in)

	if inv.Status != enum.InvoiceStatusPaid {
		t.Fatalf("expected status paid, got %s", inv.Status)
	}
}

func TestCreateInvoiceRejectsInvalidInput(t *testing.T) {
	f := newInvoiceFixture(t, InvoiceOptions{})
	in := &CreateInvoiceInput{
		Customer: entity.CustomerSnapshot{Name: "  "},
		Items: []InvoiceItemInput{
			{ProductName: "Paint", Quantity: 0, UnitRate: rate("10")},
			{ProductName: "Brush", Quantity: 1, UnitRate: rate("-1")},
			{Quantity: 1},
		},
	}

	_, err := f.svc.CreateInvoice(context.Background(), in)

	assertValidation(t, err,
		"customer.name",
		"items[0].quantity",
		"items[1].unit_rate",
		"items[2].product_name",
		"items[2].unit_rate",
	)
	if n, _ := f.invoices.Count(context.Background()); n != 0 {
		t.Fatalf("expected nothing persisted, got %d invoices", n)
	}
}

func TestCreateInvoiceRequiresItems(t *testing.T) {
	f := newInvoiceFixture(t, InvoiceOptions{})
	_, err := f.svc.CreateInvoice(context.Background(), &CreateInvoiceInput{
		Customer: entity.CustomerSnapshot{Name: "Asha"},
	})
	assertValidation(t, err, "items")
}

func TestCreateInvoicePrefillsFromCatalog(t *testing.T) {
	f := newInvoiceFixture(t, InvoiceOptions{})
	phone := "9876543210"
	customer := entity.Customer{ID: uuid.New(), Name: "Asha Traders", Phone: &phone}
	product := entity.Product{ID: uuid.New(), Name: "Emulsion", ColorVariant: "White", VolumeVariant: "4L", Rate: decimal.RequireFromString("1200")}
	f.customers.items[customer.ID] = &customer
	f.products.items[product.ID] = &product

	inv := mustCreate(t, f, &CreateInvoiceInput{
		CustomerID: &customer.ID,
		Items: []InvoiceItemInput{
			{ProductID: &product.ID, Quantity: 2},
			{ProductID: &product.ID, Quantity: 1, UnitRate: rate("999.999")},
		},
	})

	if inv.Customer.Name != "Asha Traders" || inv.Customer.Phone != phone {
		t.Fatalf("expected customer prefilled from catalog, got %+v", inv.Customer)
	}
	first := inv.Items[0]
	if first.ProductName != "Emulsion" || first.ColorVariant != "White" || first.VolumeVariant != "4L" {
		t.Fatalf("expected item prefilled from product, got %+v", first)
	}
	if !first.UnitRate.Equal(decimal.RequireFromString("1200")) {
		t.Fatalf("expected product rate 1200, got %s", first.UnitRate)
	}
	if !inv.Items[1].UnitRate.Equal(decimal.RequireFromString("1000")) {
		t.Fatalf("expected overridden rate rounded to 1000, got %s", inv.Items[1].UnitRate)
	}

	// Catalog edits after creation never reach the invoice.
	product.Rate = decimal.RequireFromString("1")
	stored, err := f.svc.GetInvoice(context.Background(), inv.ID)
	if err != nil {
		t.Fatalf("get invoice: %v", err)
	}
	if !stored.Items[0].UnitRate.Equal(decimal.RequireFromString("1200")) {
		t.Fatalf("expected stored rate unchanged, got %s", stored.Items[0].UnitRate)
	}
}

func TestCreateInvoiceUnknownCatalogReferences(t *testing.T) {
	f := newInvoiceFixture(t, InvoiceOptions{})
	missing := uuid.New()

	_, err := f.svc.CreateInvoice(context.Background(), &CreateInvoiceInput{
		CustomerID: &missing,
	})
	assertValidation(t, err, "customer_id")

	_, err = f.svc.CreateInvoice(context.Background(), &CreateInvoiceInput{
		Customer: entity.CustomerSnapshot{Name: "Asha"},
		Items:    []InvoiceItemInput{{ProductID: &missing, Quantity: 1}},
	})
	assertValidation(t, err, "items[0].product_id")
}

func TestCreateInvoiceNormalizesIssueDate(t *testing.T) {
	f := newInvoiceFixture(t, InvoiceOptions{})
	in := paintInput()
	late := time.Date(2025, time.March, 4, 20, 0, 0, 0, time.UTC) // 01:30 on the 5th in IST
	in.IssueDate = &late

	inv := mustCreate(t, f, in)

	want := time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC)
	if !inv.IssueDate.Equal(want) {
		t.Fatalf("expected issue date %v, got %v", want, inv.IssueDate)
	}
	if !strings.HasPrefix(inv.InvoiceNumber, "050325") {
		t.Fatalf("expected number for 5 Mar 2025, got %s", inv.InvoiceNumber)
	}
}

func TestDailyNumberingUsesSequence(t *testing.T) {
	f := newInvoiceFixture(t, InvoiceOptions{Numbering: NumberingDaily})
	ctx := context.Background()

	a := mustCreate(t, f, paintInput())
	b := mustCreate(t, f, paintInput())

	next := time.Date(2025, time.March, 6, 9, 0, 0, 0, ist)
	in := paintInput()
	in.IssueDate = &next
	c := mustCreate(t, f, in)

	if a.InvoiceNumber != "050325001" || b.InvoiceNumber != "050325002" {
		t.Fatalf("expected 050325001 and 050325002, got %s and %s", a.InvoiceNumber, b.InvoiceNumber)
	}
	if c.InvoiceNumber != "060325001" {
		t.Fatalf("expected the next day to restart at 001, got %s", c.InvoiceNumber)
	}

	preview, err := f.svc.PreviewNumber(ctx, time.Date(2025, time.March, 5, 18, 0, 0, 0, ist))
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if preview != "050325003" {
		t.Fatalf("expected preview 050325003, got %s", preview)
	}
}

func TestPreviewNumberHistoryDoesNotConsume(t *testing.T) {
	f := newInvoiceFixture(t, InvoiceOptions{})
	ctx := context.Background()
	mustCreate(t, f, paintInput())

	day := time.Date(2025, time.March, 5, 12, 0, 0, 0, ist)
	first, err := f.svc.PreviewNumber(ctx, day)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	second, _ := f.svc.PreviewNumber(ctx, day)
	if first != "050325002" || second != first {
		t.Fatalf("expected stable preview 050325002, got %s then %s", first, second)
	}
}

func TestDeleteInvoiceRemovesFromListAndCount(t *testing.T) {
	f := newInvoiceFixture(t, InvoiceOptions{})
	ctx := context.Background()
	keep := mustCreate(t, f, paintInput())
	drop := mustCreate(t, f, paintInput())

	if err := f.svc.DeleteInvoice(ctx, drop.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	list, err := f.svc.ListInvoices(ctx, &ListInvoicesInput{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list.Items) != 1 || list.Items[0].ID != keep.ID {
		t.Fatalf("expected only the kept invoice, got %d items", len(list.Items))
	}
	if _, err := f.svc.GetInvoice(ctx, drop.ID); !apperror.IsNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := f.svc.DeleteInvoice(ctx, drop.ID); !apperror.IsNotFound(err) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	f := newInvoiceFixture(t, InvoiceOptions{})
	ctx := context.Background()
	inv := mustCreate(t, f, paintInput())

	updated, err := f.svc.UpdateStatus(ctx, inv.ID, enum.InvoiceStatusOverdue)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != enum.InvoiceStatusOverdue {
		t.Fatalf("expected overdue, got %s", updated.Status)
	}
	if !updated.GrandTotal.Equal(inv.GrandTotal) {
		t.Fatalf("expected totals untouched, got %s", updated.GrandTotal)
	}

	if _, err := f.svc.UpdateStatus(ctx, inv.ID, enum.InvoiceStatus(9)); err == nil {
		t.Fatalf("expected unknown status to be rejected")
	} else {
		assertValidation(t, err, "status")
	}
	if _, err := f.svc.UpdateStatus(ctx, uuid.New(), enum.InvoiceStatusPaid); !apperror.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(f.sink.docs) != 0 {
		t.Fatalf("expected manual transitions to deliver nothing, got %d documents", len(f.sink.docs))
	}
}

func draftInvoice(t *testing.T, f *invoiceFixture) *entity.Invoice {
	t.Helper()
	inv := mustCreate(t, f, paintInput())
	if _, err := f.svc.UpdateStatus(context.Background(), inv.ID, enum.InvoiceStatusDraft); err != nil {
		t.Fatalf("mark draft: %v", err)
	}
	return inv
}

func TestPrintInvoiceAutoMarksDraftAsSent(t *testing.T) {
	f := newInvoiceFixture(t, InvoiceOptions{})
	f.settings.printer.AutoMarkAsPrinted = true
	inv := draftInvoice(t, f)

	res, err := f.svc.PrintInvoice(context.Background(), inv.ID, nil)
	if err != nil {
		t.Fatalf("print: %v", err)
	}

	if !res.Delivered || res.Warning != "" {
		t.Fatalf("expected clean delivery, got %+v", res)
	}
	if res.Invoice.Status != enum.InvoiceStatusSent {
		t.Fatalf("expected sent after print, got %s", res.Invoice.Status)
	}
	stored, _ := f.svc.GetInvoice(context.Background(), inv.ID)
	if stored.Status != enum.InvoiceStatusSent {
		t.Fatalf("expected stored status sent, got %s", stored.Status)
	}
	if len(f.sink.docs) != 1 || f.sink.docs[0].FileName != "Invoice_"+inv.InvoiceNumber+".html" {
		t.Fatalf("expected one document named after the invoice, got %+v", f.sink.docs)
	}
}

func TestPrintInvoiceWithoutAutoMarkKeepsDraft(t *testing.T) {
	f := newInvoiceFixture(t, InvoiceOptions{})
	inv := draftInvoice(t, f)

	res, err := f.svc.PrintInvoice(context.Background(), inv.ID, nil)
	if err != nil {
		t.Fatalf("print: %v", err)
	}
	if res.Invoice.Status != enum.InvoiceStatusDraft {
		t.Fatalf("expected draft to stay draft, got %s", res.Invoice.Status)
	}
}

func TestPrintInvoiceOnlyMovesDraft(t *testing.T) {
	f := newInvoiceFixture(t, InvoiceOptions{})
	f.settings.printer.AutoMarkAsPrinted = true
	in := paintInput()
	in.PaymentReceived = true
	inv := mustCreate(t, f, in)

	res, err := f.svc.PrintInvoice(context.Background(), inv.ID, nil)
	if err != nil {
		t.Fatalf("print: %v", err)
	}
	if res.Invoice.Status != enum.InvoiceStatusPaid {
		t.Fatalf("expected paid to stay paid, got %s", res.Invoice.Status)
	}
}

func TestPrintInvoiceSinkFailureIsNonFatal(t *testing.T) {
	f := newInvoiceFixture(t, InvoiceOptions{})
	f.settings.printer.AutoMarkAsPrinted = true
	f.sink.err = errors.New("printer offline")
	inv := draftInvoice(t, f)

	res, err := f.svc.PrintInvoice(context.Background(), inv.ID, nil)
	if err != nil {
		t.Fatalf("expected no error on sink failure, got %v", err)
	}
	if res.Delivered {
		t.Fatalf("expected delivery to be reported as failed")
	}
	if !strings.Contains(res.Warning, "printer offline") {
		t.Fatalf("expected warning to carry the sink error, got %q", res.Warning)
	}
	stored, _ := f.svc.GetInvoice(context.Background(), inv.ID)
	if stored.Status != enum.InvoiceStatusDraft {
		t.Fatalf("expected status unchanged after failed print, got %s", stored.Status)
	}
	if f.logs.FilterMessage("document delivery failed").Len() != 1 {
		t.Fatalf("expected a delivery warning to be logged")
	}

	// Reprinting once the device is back succeeds.
	f.sink.err = nil
	if res, _ := f.svc.PrintInvoice(context.Background(), inv.ID, nil); !res.Delivered {
		t.Fatalf("expected reprint to succeed")
	}
}

func TestRenderInvoiceTemplateOverride(t *testing.T) {
	f := newInvoiceFixture(t, InvoiceOptions{})
	inv := mustCreate(t, f, paintInput())

	thermal := enum.PrintTemplateThermal
	doc, err := f.svc.RenderInvoice(context.Background(), inv.ID, &thermal)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if doc.Template != enum.PrintTemplateThermal || doc.Receipt == nil {
		t.Fatalf("expected thermal document with receipt, got %s", doc.Template)
	}

	doc, err = f.svc.RenderInvoice(context.Background(), inv.ID, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if doc.Template != enum.PrintTemplateNormal || doc.Receipt != nil {
		t.Fatalf("expected normal document from printer settings, got %s", doc.Template)
	}
	if got := strings.Count(string(doc.Content), "₹295.00"); got != 1 {
		t.Fatalf("expected grand total once, got %d", got)
	}
}

func TestRenderInvoiceEmbedsPaymentURI(t *testing.T) {
	f := newInvoiceFixture(t, InvoiceOptions{})
	f.settings.upi.Enabled = true
	f.settings.upi.PayeeID = "ravi@upi"
	inv := mustCreate(t, f, paintInput())

	doc, err := f.svc.RenderInvoice(context.Background(), inv.ID, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if len(f.encoder.uris) != 1 {
		t.Fatalf("expected one encoded uri, got %d", len(f.encoder.uris))
	}
	uri := f.encoder.uris[0]
	for _, want := range []string{"pa=ravi%40upi", "am=295.00", "pn=Ravi+Paints", "tn=Invoice+" + inv.InvoiceNumber, "cu=INR"} {
		if !strings.Contains(uri, want) {
			t.Fatalf("expected %q in %s", want, uri)
		}
	}
	if !bytes.Contains(doc.Content, []byte("Scan to pay via UPI")) {
		t.Fatalf("expected payment section in document")
	}
}

func TestRenderInvoiceStaticQRWins(t *testing.T) {
	f := newInvoiceFixture(t, InvoiceOptions{})
	f.settings.upi.Enabled = true
	f.settings.upi.PayeeID = "ravi@upi"
	f.settings.store.PaymentQR = "data:image/png;base64,iVBORw0KGgo="
	inv := mustCreate(t, f, paintInput())

	doc, err := f.svc.RenderInvoice(context.Background(), inv.ID, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(f.encoder.uris) != 0 {
		t.Fatalf("expected encoder unused for a static image")
	}
	if !bytes.Contains(doc.Content, []byte("Scan to pay")) {
		t.Fatalf("expected payment section for static image")
	}
}

func TestRenderInvoiceQRFailureIsSwallowed(t *testing.T) {
	f := newInvoiceFixture(t, InvoiceOptions{})
	f.settings.upi.Enabled = true
	f.settings.upi.PayeeID = "ravi@upi"
	f.encoder.err = errors.New("payload too large")
	inv := mustCreate(t, f, paintInput())

	doc, err := f.svc.RenderInvoice(context.Background(), inv.ID, nil)
	if err != nil {
		t.Fatalf("expected render to succeed, got %v", err)
	}
	if bytes.Contains(doc.Content, []byte("Scan to pay")) {
		t.Fatalf("expected no payment section")
	}
	if f.logs.FilterMessage("payment qr unavailable").Len() != 1 {
		t.Fatalf("expected qr failure to be logged")
	}
	expected := `
# HELP billbook_payment_qr_failures_total Payment QR generations that failed and were left out of the document.
# TYPE billbook_payment_qr_failures_total counter
billbook_payment_qr_failures_total 1
`
	if err := testutil.GatherAndCompare(f.registry, strings.NewReader(expected), "billbook_payment_qr_failures_total"); err != nil {
		t.Fatalf("unexpected metric: %v", err)
	}
}

func TestRenderInvoiceWithoutUPIIsQuiet(t *testing.T) {
	f := newInvoiceFixture(t, InvoiceOptions{})
	inv := mustCreate(t, f, paintInput())

	if _, err := f.svc.RenderInvoice(context.Background(), inv.ID, nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	if f.logs.FilterMessage("payment qr unavailable").Len() != 0 {
		t.Fatalf("expected unconfigured UPI not to warn")
	}
}

func TestBrandingPolicy(t *testing.T) {
	const oldQR, newQR = "data:image/png;base64,T0xE", "data:image/png;base64,TkVX"
	for _, tc := range []struct {
		policy string
		want   string
		wantQR string
	}{
		{BrandingSnapshot, "Ravi Paints", oldQR},
		{BrandingLive, "Ravi Paints &amp; Hardware", newQR},
	} {
		t.Run(tc.policy, func(t *testing.T) {
			f := newInvoiceFixture(t, InvoiceOptions{BrandingPolicy: tc.policy})
			f.settings.store.PaymentQR = oldQR
			inv := mustCreate(t, f, paintInput())
			f.settings.store.BusinessName = "Ravi Paints & Hardware"
			f.settings.store.PaymentQR = newQR

			doc, err := f.svc.RenderInvoice(context.Background(), inv.ID, nil)
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if !bytes.Contains(doc.Content, []byte("<h1>"+tc.want+"</h1>")) {
				t.Fatalf("expected header %q in document", tc.want)
			}
			if !bytes.Contains(doc.Content, []byte(tc.wantQR)) {
				t.Fatalf("expected payment image %q in document", tc.wantQR)
			}
			other := oldQR
			if tc.wantQR == oldQR {
				other = newQR
			}
			if bytes.Contains(doc.Content, []byte(other)) {
				t.Fatalf("expected payment image %q to be absent", other)
			}
		})
	}
}

func TestSnapshotBrandingNamesPayee(t *testing.T) {
	f := newInvoiceFixture(t, InvoiceOptions{BrandingPolicy: BrandingSnapshot})
	f.settings.upi.Enabled = true
	f.settings.upi.PayeeID = "ravi@upi"
	f.settings.upi.PayeeName = ""
	inv := mustCreate(t, f, paintInput())
	f.settings.store.BusinessName = "Hardware Mart"

	if _, err := f.svc.RenderInvoice(context.Background(), inv.ID, nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(f.encoder.uris) == 0 {
		t.Fatalf("expected a payment uri to be encoded")
	}
	uri := f.encoder.uris[len(f.encoder.uris)-1]
	if !strings.Contains(uri, "Ravi") || strings.Contains(uri, "Hardware") {
		t.Fatalf("expected payee name from the invoice snapshot, got %s", uri)
	}
}

func TestExportPDF(t *testing.T) {
	f := newInvoiceFixture(t, InvoiceOptions{})
	inv := mustCreate(t, f, paintInput())

	doc, err := f.svc.ExportPDF(context.Background(), inv.ID)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if doc.FileName != "Invoice_"+inv.InvoiceNumber+".pdf" {
		t.Fatalf("expected pdf file name, got %s", doc.FileName)
	}
	if !bytes.HasPrefix(doc.Content, []byte("%PDF")) {
		t.Fatalf("expected pdf content")
	}
}

func TestListInvoicesFilters(t *testing.T) {
	f := newInvoiceFixture(t, InvoiceOptions{})
	ctx := context.Background()
	mustCreate(t, f, paintInput())
	paid := paintInput()
	paid.PaymentReceived = true
	paid.Customer.Name = "Bala Stores"
	mustCreate(t, f, paid)

	status := enum.InvoiceStatusPaid
	res, err := f.svc.ListInvoices(ctx, &ListInvoicesInput{Status: &status})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if res.Pagination.Total != 1 || res.Items[0].Customer.Name != "Bala Stores" {
		t.Fatalf("expected only the paid invoice, got %d", res.Pagination.Total)
	}

	res, _ = f.svc.ListInvoices(ctx, &ListInvoicesInput{Search: "asha"})
	if res.Pagination.Total != 1 {
		t.Fatalf("expected search to match one invoice, got %d", res.Pagination.Total)
	}
	if res.Pagination.CurrentPage != 1 || res.Pagination.PerPage != 15 {
		t.Fatalf("expected default pagination, got %+v", res.Pagination)
	}
}
