package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sangkips/billbook-api/internal/bootstrap"
	"github.com/sangkips/billbook-api/internal/config"
	"github.com/sangkips/billbook-api/internal/presentation/http/handler"
	"github.com/shopspring/decimal"
)

var dbSeq atomic.Int64

type testServer struct {
	router  *gin.Engine
	app     *bootstrap.App
	docsDir string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	docsDir := t.TempDir()
	cfg := &config.Config{
		App: config.AppConfig{Name: "billbook-test", Env: "test"},
		Database: config.DatabaseConfig{
			Driver:   "sqlite",
			Path:     fmt.Sprintf("file:http%d?mode=memory&cache=shared", dbSeq.Add(1)),
			Timezone: "UTC",
		},
		KV:        config.KVConfig{Driver: "memory"},
		JWT:       config.JWTConfig{Secret: "test-secret", ExpiryHours: time.Hour},
		Storage:   config.StorageConfig{Path: docsDir, UploadMaxSize: 1 << 20},
		RateLimit: config.RateLimitConfig{Requests: 1000, Duration: 60},
		Printer:   config.PrinterConfig{Type: "none", CharWidth: 32},
		Billing:   config.BillingConfig{Numbering: "history", BrandingPolicy: "snapshot", CurrencySymbol: "₹", CurrencyCode: "INR"},
		Reports:   config.ReportsConfig{Password: "letmein"},
	}

	registry := prometheus.NewRegistry()
	app, err := bootstrap.New(cfg, nil, bootstrap.Options{
		Migrate:    true,
		Registerer: registry,
		Now:        func() time.Time { return time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })

	router, limiter := Setup(&Handlers{
		Auth:     handler.NewAuthHandler(app.Auth),
		Invoice:  handler.NewInvoiceHandler(app.Invoices, app.Mail),
		Customer: handler.NewCustomerHandler(app.Customers),
		Product:  handler.NewProductHandler(app.Products),
		Settings: handler.NewSettingsHandler(app.Settings),
		Report:   handler.NewReportHandler(app.Reports),
		Printer:  handler.NewPrinterHandler(app.Printer),
	}, &Deps{
		JWTManager:      app.JWT,
		Cfg:             cfg,
		IdempotencyRepo: app.IdempotencyRepo,
		Metrics:         app.Metrics,
		Gatherer:        registry,
	})
	t.Cleanup(limiter.Stop)

	return &testServer{router: router, app: app, docsDir: docsDir}
}

func (s *testServer) do(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return env
}

type invoiceJSON struct {
	ID            string          `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	Status        string          `json:"status"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
}

const invoiceBody = `{
	"customer": {"name": "Meera", "phone": "98450 12345"},
	"gst_enabled": true,
	"items": [
		{"product_name": "Wall Putty", "volume_variant": "20kg", "quantity": 2, "unit_rate": "100"},
		{"product_name": "Primer", "color_variant": "White", "quantity": 1, "unit_rate": "50"}
	]
}`

func (s *testServer) createInvoice(t *testing.T) invoiceJSON {
	t.Helper()
	w := s.do(http.MethodPost, "/api/v1/invoices", invoiceBody)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var inv invoiceJSON
	if err := json.Unmarshal(decode(t, w).Data, &inv); err != nil {
		t.Fatalf("decode invoice: %v", err)
	}
	return inv
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected a request id header")
	}
}

func TestCreateInvoice(t *testing.T) {
	s := newTestServer(t)
	inv := s.createInvoice(t)

	if inv.InvoiceNumber != "050325001" {
		t.Fatalf("expected 050325001, got %s", inv.InvoiceNumber)
	}
	if !inv.Subtotal.Equal(decimal.NewFromInt(250)) || !inv.TaxAmount.Equal(decimal.NewFromInt(45)) || !inv.GrandTotal.Equal(decimal.NewFromInt(295)) {
		t.Fatalf("expected 250/45/295, got %s/%s/%s", inv.Subtotal, inv.TaxAmount, inv.GrandTotal)
	}
	if inv.Status != "sent" {
		t.Fatalf("expected sent, got %s", inv.Status)
	}

	w := s.do(http.MethodGet, "/api/v1/invoices/next-number", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "050325002") {
		t.Fatalf("expected next number 050325002, got %d %s", w.Code, w.Body.String())
	}

	w = s.do(http.MethodGet, "/api/v1/invoices/number/050325001", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected lookup by number to succeed, got %d", w.Code)
	}
}

func TestCreateInvoiceValidation(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/v1/invoices", `{"customer":{"name":"Meera"},"items":[]}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}
	env := decode(t, w)
	if len(env.Errors) != 1 || env.Errors[0].Field != "items" {
		t.Fatalf("expected an items error, got %+v", env.Errors)
	}

	w = s.do(http.MethodPost, "/api/v1/invoices", `{"customer":{"name":"Meera"},"issue_date":"05-03-2025","items":[]}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for bad date, got %d", w.Code)
	}
	if env := decode(t, w); len(env.Errors) == 0 || env.Errors[0].Field != "issue_date" {
		t.Fatalf("expected issue_date error, got %+v", env.Errors)
	}

	w = s.do(http.MethodPost, "/api/v1/invoices", `{"items": [`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed json, got %d", w.Code)
	}
}

func TestIdempotentCreate(t *testing.T) {
	s := newTestServer(t)

	first := s.do(http.MethodPost, "/api/v1/invoices", invoiceBody, "Idempotency-Key", "k-1")
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", first.Code)
	}
	second := s.do(http.MethodPost, "/api/v1/invoices", invoiceBody, "Idempotency-Key", "k-1")
	if second.Code != http.StatusCreated {
		t.Fatalf("expected replayed 201, got %d", second.Code)
	}
	if second.Header().Get("X-Idempotency-Replayed") != "true" {
		t.Fatalf("expected replay header")
	}
	if second.Body.String() != first.Body.String() {
		t.Fatalf("expected identical replayed body")
	}

	w := s.do(http.MethodGet, "/api/v1/invoices/next-number", "")
	if !strings.Contains(w.Body.String(), "050325002") {
		t.Fatalf("expected only one invoice stored, got %s", w.Body.String())
	}

	conflict := s.do(http.MethodPost, "/api/v1/invoices", `{"customer":{"name":"Other"},"items":[{"product_name":"X","quantity":1,"unit_rate":"1"}]}`, "Idempotency-Key", "k-1")
	if conflict.Code != http.StatusConflict {
		t.Fatalf("expected 409 for reused key, got %d", conflict.Code)
	}
}

func TestUpdateStatusValidation(t *testing.T) {
	s := newTestServer(t)
	inv := s.createInvoice(t)

	w := s.do(http.MethodPatch, "/api/v1/invoices/"+inv.ID+"/status", `{"status":"archived"}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
	if env := decode(t, w); len(env.Errors) != 1 || env.Errors[0].Field != "status" {
		t.Fatalf("expected status field error, got %+v", env.Errors)
	}

	w = s.do(http.MethodPatch, "/api/v1/invoices/"+inv.ID+"/status", `{"status":"paid"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = s.do(http.MethodGet, "/api/v1/invoices/not-a-uuid", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", w.Code)
	}
}

func TestInvoiceDocuments(t *testing.T) {
	s := newTestServer(t)
	inv := s.createInvoice(t)

	w := s.do(http.MethodGet, "/api/v1/invoices/"+inv.ID+"/document?template=thermal&download=true", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.HasPrefix(w.Header().Get("Content-Type"), "text/html") {
		t.Fatalf("expected html, got %s", w.Header().Get("Content-Type"))
	}
	if got := w.Header().Get("Content-Disposition"); !strings.Contains(got, "attachment") || !strings.Contains(got, "Invoice_050325001.html") {
		t.Fatalf("unexpected disposition %q", got)
	}
	if strings.Count(w.Body.String(), "₹295.00") != 1 {
		t.Fatalf("expected grand total exactly once")
	}

	w = s.do(http.MethodGet, "/api/v1/invoices/"+inv.ID+"/document?template=a3", "")
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unknown template, got %d", w.Code)
	}

	w = s.do(http.MethodGet, "/api/v1/invoices/"+inv.ID+"/pdf", "")
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "application/pdf" {
		t.Fatalf("expected pdf, got %d %s", w.Code, w.Header().Get("Content-Type"))
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("expected pdf magic bytes")
	}
}

func TestPrintInvoiceArchivesDocument(t *testing.T) {
	s := newTestServer(t)
	inv := s.createInvoice(t)

	w := s.do(http.MethodPost, "/api/v1/invoices/"+inv.ID+"/print", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var result struct {
		Delivered bool `json:"delivered"`
	}
	if err := json.Unmarshal(decode(t, w).Data, &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !result.Delivered {
		t.Fatalf("expected delivery to succeed")
	}
	if _, err := os.Stat(filepath.Join(s.docsDir, "Invoice_050325001.html")); err != nil {
		t.Fatalf("expected archived document: %v", err)
	}
}

func TestEmailInvoiceRoute(t *testing.T) {
	s := newTestServer(t)
	inv := s.createInvoice(t)

	w := s.do(http.MethodPost, "/api/v1/invoices/"+inv.ID+"/email", `{"to": "not-an-email"}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}
	if env := decode(t, w); len(env.Errors) != 1 || env.Errors[0].Field != "to" {
		t.Fatalf("expected error on to, got %+v", env.Errors)
	}

	w = s.do(http.MethodPost, "/api/v1/invoices/"+inv.ID+"/email", `{"to": "meera@example.com"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without smtp, got %d: %s", w.Code, w.Body.String())
	}
	if env := decode(t, w); env.Message != "Email delivery is not configured" {
		t.Fatalf("unexpected message %q", env.Message)
	}
}

func TestDeleteInvoice(t *testing.T) {
	s := newTestServer(t)
	inv := s.createInvoice(t)

	if w := s.do(http.MethodDelete, "/api/v1/invoices/"+inv.ID, ""); w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if w := s.do(http.MethodGet, "/api/v1/invoices/"+inv.ID, ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w.Code)
	}
}

func TestCatalogRoutes(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/v1/products", `{"name":"Emulsion","color_variant":"Ivory","volume_variant":"4L","rate":"1250.5","stock":3}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = s.do(http.MethodPost, "/api/v1/customers", `{"name":"Arun","email":"not-an-email"}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
	if env := decode(t, w); len(env.Errors) != 1 || env.Errors[0].Field != "email" {
		t.Fatalf("expected email error, got %+v", env.Errors)
	}

	w = s.do(http.MethodPost, "/api/v1/customers", `{"name":"Arun","phone":"99999"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}

	w = s.do(http.MethodGet, "/api/v1/products?search=emul", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Emulsion") {
		t.Fatalf("expected product in list, got %d %s", w.Code, w.Body.String())
	}
	w = s.do(http.MethodGet, "/api/v1/customers?search=aru", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Arun") {
		t.Fatalf("expected customer in list, got %d %s", w.Code, w.Body.String())
	}
}

func TestSettingsRoutes(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPut, "/api/v1/settings/printer", `{"paperSize":"A5","margins":5,"template":"thermal","autoMarkAsPrinted":true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = s.do(http.MethodPut, "/api/v1/settings/printer", `{"paperSize":"A3","template":"normal"}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}

	w = s.do(http.MethodGet, "/api/v1/settings", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"paperSize":"A5"`) {
		t.Fatalf("expected saved printer settings, got %s", w.Body.String())
	}

	if w := s.do(http.MethodDelete, "/api/v1/settings/printerSettings", ""); w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if w := s.do(http.MethodDelete, "/api/v1/settings/themes", ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown collection, got %d", w.Code)
	}
}

func TestReportsRequireLogin(t *testing.T) {
	s := newTestServer(t)
	s.createInvoice(t)

	if w := s.do(http.MethodGet, "/api/v1/reports/sales", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
	if w := s.do(http.MethodPost, "/api/v1/auth/login", `{"password":"wrong"}`); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", w.Code)
	}

	w := s.do(http.MethodPost, "/api/v1/auth/login", `{"password":"letmein"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var login struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(decode(t, w).Data, &login); err != nil || login.AccessToken == "" {
		t.Fatalf("expected access token, got %s", w.Body.String())
	}
	auth := "Bearer " + login.AccessToken

	w = s.do(http.MethodGet, "/api/v1/reports/sales?from=2025-03-01&to=2025-03-31", "", "Authorization", auth)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var sales struct {
		InvoiceCount int             `json:"invoice_count"`
		GrandTotal   decimal.Decimal `json:"grand_total"`
	}
	if err := json.Unmarshal(decode(t, w).Data, &sales); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sales.InvoiceCount != 1 || !sales.GrandTotal.Equal(decimal.NewFromInt(295)) {
		t.Fatalf("expected 1 invoice totalling 295, got %d %s", sales.InvoiceCount, sales.GrandTotal)
	}

	w = s.do(http.MethodGet, "/api/v1/reports/sales?from=2025-03-31&to=2025-03-01", "", "Authorization", auth)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for inverted range, got %d", w.Code)
	}

	w = s.do(http.MethodGet, "/api/v1/reports/export", "", "Authorization", auth)
	if w.Code != http.StatusOK || !strings.Contains(w.Header().Get("Content-Type"), "spreadsheetml") {
		t.Fatalf("expected xlsx, got %d %s", w.Code, w.Header().Get("Content-Type"))
	}

	if w := s.do(http.MethodGet, "/api/v1/reports/storage", "", "Authorization", auth); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestPrinterRoutes(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/v1/printer/status", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"type":"none"`) {
		t.Fatalf("expected status for null printer, got %d %s", w.Code, w.Body.String())
	}
	if w := s.do(http.MethodPost, "/api/v1/printer/test", ""); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.createInvoice(t)

	w := s.do(http.MethodGet, "/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `billbook_invoices_created_total{status="sent"} 1`) {
		t.Fatalf("expected invoice counter in metrics output")
	}
}
