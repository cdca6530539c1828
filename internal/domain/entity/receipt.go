package entity

import "github.com/shopspring/decimal"

// ReceiptHeader holds the store header printed at the top of a receipt.
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	TaxID     string `json:"tax_id,omitempty"`
}

// ReceiptItem represents a single line item on a receipt.
type ReceiptItem struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

// Receipt is a value object representing a printable thermal receipt.
// It is not persisted; it is composed from an invoice at print time.
type Receipt struct {
	Header         ReceiptHeader   `json:"header"`
	InvoiceNo      string          `json:"invoice_no"`
	Date           string          `json:"date"`
	Customer       string          `json:"customer,omitempty"`
	CustomerPhone  string          `json:"customer_phone,omitempty"`
	Status         string          `json:"status"`
	Items          []ReceiptItem   `json:"items"`
	GSTEnabled     bool            `json:"gst_enabled"`
	SubTotal       decimal.Decimal `json:"sub_total"`
	Tax            decimal.Decimal `json:"tax"`
	Total          decimal.Decimal `json:"total"`
	CurrencySymbol string          `json:"currency_symbol"`
	PaymentURI     string          `json:"payment_uri,omitempty"`
	Footer         string          `json:"footer,omitempty"`
}
