package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sangkips/billbook-api/internal/domain/billing"
	"github.com/sangkips/billbook-api/internal/domain/entity"
	"github.com/sangkips/billbook-api/internal/domain/enum"
	"github.com/sangkips/billbook-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	defaultTopItems = 5
	dayLayout       = "2006-01-02"
)

// ReportService builds the sales and storage dashboards.
// Every figure is computed from invoices that have not been deleted.
type ReportService struct {
	invoiceRepo  repository.InvoiceStore
	analytics    repository.AnalyticsRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	settingsRepo repository.SettingsRepository
}

// NewReportService creates a new report service
func NewReportService(
	invoiceRepo repository.InvoiceStore,
	analytics repository.AnalyticsRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	settingsRepo repository.SettingsRepository,
) *ReportService {
	return &ReportService{
		invoiceRepo:  invoiceRepo,
		analytics:    analytics,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		settingsRepo: settingsRepo,
	}
}

// ReportRange limits a report to invoices issued between From and To, inclusive.
// Nil bounds are open.
type ReportRange struct {
	From *time.Time
	To   *time.Time
}

// SalesReport represents the sales dashboard
type SalesReport struct {
	From             *time.Time        `json:"from,omitempty"`
	To               *time.Time        `json:"to,omitempty"`
	InvoiceCount     int               `json:"invoice_count"`
	Subtotal         decimal.Decimal   `json:"subtotal"`
	TaxCollected     decimal.Decimal   `json:"tax_collected"`
	GrandTotal       decimal.Decimal   `json:"grand_total"`
	PaidTotal        decimal.Decimal   `json:"paid_total"`
	OutstandingTotal decimal.Decimal   `json:"outstanding_total"`
	AverageInvoice   decimal.Decimal   `json:"average_invoice"`
	StatusBreakdown  []StatusBreakdown `json:"status_breakdown"`
	Daily            []DailySales      `json:"daily"`
	TopItems         []TopItem         `json:"top_items"`
}

// StatusBreakdown is the invoice count and value for one status
type StatusBreakdown struct {
	Status string          `json:"status"`
	Count  int64           `json:"count"`
	Total  decimal.Decimal `json:"total"`
}

// DailySales represents one day of the sales series
type DailySales struct {
	Date     string          `json:"date"`
	Invoices int             `json:"invoices"`
	Total    decimal.Decimal `json:"total"`
}

// TopItem represents a best-selling item
type TopItem struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// GetSalesReport returns the sales dashboard for r.
func (s *ReportService) GetSalesReport(ctx context.Context, r ReportRange, topN int) (*SalesReport, error) {
	invoices, err := s.invoiceRepo.ListAll(ctx, r.From, r.To)
	if err != nil {
		return nil, err
	}

	report := &SalesReport{
		From:             r.From,
		To:               r.To,
		InvoiceCount:     len(invoices),
		Subtotal:         decimal.Zero,
		TaxCollected:     decimal.Zero,
		GrandTotal:       decimal.Zero,
		PaidTotal:        decimal.Zero,
		OutstandingTotal: decimal.Zero,
		AverageInvoice:   decimal.Zero,
	}

	byStatus := make(map[enum.InvoiceStatus]decimal.Decimal)
	byDay := make(map[string]*DailySales)
	for _, inv := range invoices {
		report.Subtotal = report.Subtotal.Add(inv.Subtotal)
		report.TaxCollected = report.TaxCollected.Add(inv.TaxAmount)
		report.GrandTotal = report.GrandTotal.Add(inv.GrandTotal)
		if inv.Status == enum.InvoiceStatusPaid {
			report.PaidTotal = report.PaidTotal.Add(inv.GrandTotal)
		} else {
			report.OutstandingTotal = report.OutstandingTotal.Add(inv.GrandTotal)
		}
		byStatus[inv.Status] = byStatus[inv.Status].Add(inv.GrandTotal)

		day := inv.IssueDate.Format(dayLayout)
		d, ok := byDay[day]
		if !ok {
			d = &DailySales{Date: day, Total: decimal.Zero}
			byDay[day] = d
		}
		d.Invoices++
		d.Total = d.Total.Add(inv.GrandTotal)
	}
	if len(invoices) > 0 {
		report.AverageInvoice = report.GrandTotal.Div(decimal.NewFromInt(int64(len(invoices)))).Round(2)
	}

	counts, err := s.analytics.GetStatusCounts(ctx, r.From, r.To)
	if err != nil {
		return nil, err
	}
	countOf := make(map[enum.InvoiceStatus]int64, len(counts))
	for _, c := range counts {
		countOf[c.Status] = c.Count
	}
	for _, st := range enum.InvoiceStatuses() {
		report.StatusBreakdown = append(report.StatusBreakdown, StatusBreakdown{
			Status: st.String(),
			Count:  countOf[st],
			Total:  byStatus[st].Round(2),
		})
	}

	report.Daily = make([]DailySales, 0, len(byDay))
	for _, d := range byDay {
		report.Daily = append(report.Daily, *d)
	}
	sort.Slice(report.Daily, func(i, j int) bool { return report.Daily[i].Date < report.Daily[j].Date })

	if topN <= 0 {
		topN = defaultTopItems
	}
	top, err := s.analytics.GetTopItems(ctx, r.From, r.To, topN)
	if err != nil {
		return nil, err
	}
	report.TopItems = make([]TopItem, 0, len(top))
	for _, t := range top {
		report.TopItems = append(report.TopItems, TopItem{
			Name: billing.ItemDisplayName(entity.InvoiceItem{
				ProductName:   t.ProductName,
				ColorVariant:  t.ColorVariant,
				VolumeVariant: t.VolumeVariant,
				DisplayName:   t.DisplayName,
			}),
			Quantity: t.QuantitySold,
			Revenue:  t.Revenue,
		})
	}

	return report, nil
}

// StorageReport represents the storage dashboard
type StorageReport struct {
	Collections []CollectionUsage `json:"collections"`
}

// CollectionUsage is the size of one persisted collection. Bytes is only
// known for key-value collections.
type CollectionUsage struct {
	Name    string `json:"name"`
	Records int64  `json:"records"`
	Bytes   int    `json:"bytes,omitempty"`
}

// GetStorageReport returns record counts per collection.
func (s *ReportService) GetStorageReport(ctx context.Context) (*StorageReport, error) {
	customers, err := s.customerRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	invoices, err := s.invoiceRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	usage, err := s.settingsRepo.Usage(ctx)
	if err != nil {
		return nil, err
	}

	report := &StorageReport{Collections: []CollectionUsage{
		{Name: "customers", Records: customers},
		{Name: "products", Records: products},
		{Name: "invoices", Records: invoices},
	}}
	for _, key := range []string{entity.StoreSettingsKey, entity.PrinterSettingsKey, entity.UPISettingsKey} {
		size, ok := usage[key]
		c := CollectionUsage{Name: key, Bytes: size}
		if ok {
			c.Records = 1
		}
		report.Collections = append(report.Collections, c)
	}
	return report, nil
}

var invoiceSheetHeader = []interface{}{
	"Invoice No", "Date", "Customer", "Phone", "Status", "GST", "Subtotal", "Tax", "Grand Total",
}

// ExportXLSX writes the invoices in r to a workbook with an "Invoices" sheet
// and a "Summary" sheet.
func (s *ReportService) ExportXLSX(ctx context.Context, r ReportRange) ([]byte, error) {
	report, err := s.GetSalesReport(ctx, r, defaultTopItems)
	if err != nil {
		return nil, err
	}
	invoices, err := s.invoiceRepo.ListAll(ctx, r.From, r.To)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const invoicesSheet, summarySheet = "Invoices", "Summary"
	if err := f.SetSheetName("Sheet1", invoicesSheet); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	if err := f.SetSheetRow(invoicesSheet, "A1", &invoiceSheetHeader); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(invoicesSheet, "A1", "I1", bold); err != nil {
		return nil, err
	}
	for i, inv := range invoices {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		gst := "No"
		if inv.GSTEnabled {
			gst = "Yes"
		}
		row := []interface{}{
			inv.InvoiceNumber,
			inv.IssueDate.Format(dayLayout),
			inv.Customer.Name,
			inv.Customer.Phone,
			inv.Status.String(),
			gst,
			inv.Subtotal.InexactFloat64(),
			inv.TaxAmount.InexactFloat64(),
			inv.GrandTotal.InexactFloat64(),
		}
		if err := f.SetSheetRow(invoicesSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, err
	}
	summary := [][]interface{}{
		{"Metric", "Value"},
		{"Invoices", report.InvoiceCount},
		{"Subtotal", report.Subtotal.InexactFloat64()},
		{"GST collected", report.TaxCollected.InexactFloat64()},
		{"Grand total", report.GrandTotal.InexactFloat64()},
		{"Paid", report.PaidTotal.InexactFloat64()},
		{"Outstanding", report.OutstandingTotal.InexactFloat64()},
		{"Average invoice", report.AverageInvoice.InexactFloat64()},
	}
	for _, st := range report.StatusBreakdown {
		summary = append(summary, []interface{}{"Status " + st.Status, st.Count})
	}
	for i, row := range summary {
		row := row
		if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", i+1), &row); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(summarySheet, "A1", "B1", bold); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
