package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sangkips/billbook-api/internal/domain/entity"
	"github.com/sangkips/billbook-api/internal/domain/repository"
	"github.com/sangkips/billbook-api/pkg/printer"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReceiptPrinter prints a receipt on a thermal device.
type ReceiptPrinter interface {
	PrintReceipt(ctx context.Context, r *entity.Receipt) error
	Printer() printer.Printer
}

// PrinterService reports printer status and prints test receipts.
type PrinterService struct {
	receipts    ReceiptPrinter
	settings    repository.SettingsProvider
	printerType string
	log         *zap.Logger
}

// NewPrinterService creates a new printer service.
func NewPrinterService(receipts ReceiptPrinter, settings repository.SettingsProvider, printerType string, log *zap.Logger) *PrinterService {
	if log == nil {
		log = zap.NewNop()
	}
	return &PrinterService{
		receipts:    receipts,
		settings:    settings,
		printerType: printerType,
		log:         log,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool                   `json:"configured"`
	Connected  bool                   `json:"connected"`
	Type       string                 `json:"type"`
	Device     string                 `json:"device"`
	Settings   entity.PrinterSettings `json:"settings"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus(ctx context.Context) *PrinterStatus {
	p := s.receipts.Printer()
	return &PrinterStatus{
		Configured: s.printerType != "none" && s.printerType != "",
		Connected:  p.IsConnected(ctx),
		Type:       s.printerType,
		Device:     p.Describe(),
		Settings:   s.settings.PrinterSettings(ctx),
	}
}

// TestPrint sends a test receipt to the printer. The receipt is returned even
// when printing fails so callers can show what would have been printed.
func (s *PrinterService) TestPrint(ctx context.Context) (*entity.Receipt, error) {
	store := s.settings.StoreSettings(ctx)
	name := store.BusinessName
	if name == "" {
		name = "PRINTER TEST"
	}

	rate := decimal.RequireFromString("10.00")
	receipt := &entity.Receipt{
		Header: entity.ReceiptHeader{
			StoreName: name,
			Address:   store.Address,
			Phone:     store.Phone,
			TaxID:     store.TaxID,
		},
		InvoiceNo: "TEST",
		Date:      time.Now().Format("02/01/2006"),
		Status:    "TEST",
		Items: []entity.ReceiptItem{
			{Name: "Test Item 1", Quantity: 1, UnitPrice: rate, Total: rate},
			{Name: "Test Item 2", Quantity: 2, UnitPrice: rate, Total: rate.Mul(decimal.NewFromInt(2))},
		},
		SubTotal:       decimal.RequireFromString("30.00"),
		Total:          decimal.RequireFromString("30.00"),
		CurrencySymbol: "Rs.",
		Footer:         "Printer test page",
	}

	if err := s.receipts.PrintReceipt(ctx, receipt); err != nil {
		s.log.Warn("test print failed", zap.Error(err))
		return receipt, fmt.Errorf("test print failed: %w", err)
	}

	return receipt, nil
}
