package entity

import "github.com/sangkips/billbook-api/internal/domain/enum"

// Settings collection keys in the key-value store.
const (
	StoreSettingsKey   = "storeSettings"
	PrinterSettingsKey = "printerSettings"
	UPISettingsKey     = "upiSettings"
)

// StoreSettings is the business branding shown on every document.
type StoreSettings struct {
	BusinessName string `json:"businessName"`
	Address      string `json:"address"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	TaxID        string `json:"taxId"`
	Website      string `json:"website"`
	Logo         string `json:"logo,omitempty"`      // data URI or URL
	PaymentQR    string `json:"paymentQR,omitempty"` // uploaded static QR image, data URI
}

// Snapshot returns the branding fields captured on an invoice.
func (s StoreSettings) Snapshot() StoreSnapshot {
	return StoreSnapshot{
		BusinessName: s.BusinessName,
		Address:      s.Address,
		Phone:        s.Phone,
		Email:        s.Email,
		TaxID:        s.TaxID,
		Website:      s.Website,
		Logo:         s.Logo,
		PaymentQR:    s.PaymentQR,
	}
}

// PrinterSettings holds print preferences.
type PrinterSettings struct {
	PaperSize         enum.PaperSize     `json:"paperSize"`
	Margins           float64            `json:"margins"` // millimetres
	Template          enum.PrintTemplate `json:"template"`
	AutoMarkAsPrinted bool               `json:"autoMarkAsPrinted"`
}

// DefaultPrinterSettings is used when nothing valid is stored.
func DefaultPrinterSettings() PrinterSettings {
	return PrinterSettings{
		PaperSize: enum.PaperSizeA4,
		Margins:   10,
		Template:  enum.PrintTemplateNormal,
	}
}

// Normalize replaces unknown or out-of-range values with defaults.
func (p PrinterSettings) Normalize() PrinterSettings {
	p.PaperSize = p.PaperSize.OrDefault()
	p.Template = p.Template.OrDefault()
	if p.Margins < 0 || p.Margins > 50 {
		p.Margins = DefaultPrinterSettings().Margins
	}
	return p
}

// UPISettings configures the generated payment QR.
type UPISettings struct {
	Enabled     bool   `json:"enabled"`
	PayeeID     string `json:"payeeId"`
	PayeeName   string `json:"payeeName"`
	Note        string `json:"note"`
	Currency    string `json:"currency"`
	URITemplate string `json:"uriTemplate"`
}

// DefaultUPITemplate is the payment URI pattern used when none is configured.
const DefaultUPITemplate = "upi://pay?pa={payee}&pn={payeeName}&tn={note}&am={amount}&cu={currency}"

// DefaultUPISettings is used when nothing valid is stored.
func DefaultUPISettings() UPISettings {
	return UPISettings{
		Currency:    "INR",
		URITemplate: DefaultUPITemplate,
	}
}

// Settings groups all three collections.
type Settings struct {
	Store   StoreSettings   `json:"store"`
	Printer PrinterSettings `json:"printer"`
	UPI     UPISettings     `json:"upi"`
}
