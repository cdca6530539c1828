package request

// PrinterSettingsRequest represents a printer settings update
type PrinterSettingsRequest struct {
	PaperSize         string  `json:"paperSize" binding:"required,oneof=A4 A5"`
	Margins           float64 `json:"margins" binding:"gte=0,lte=50"`
	Template          string  `json:"template" binding:"required,oneof=normal thermal"`
	AutoMarkAsPrinted bool    `json:"autoMarkAsPrinted"`
}

// StoreSettingsRequest represents a store branding update
type StoreSettingsRequest struct {
	BusinessName string `json:"businessName" binding:"max=255"`
	Address      string `json:"address"`
	Phone        string `json:"phone" binding:"max=50"`
	Email        string `json:"email" binding:"omitempty,email"`
	TaxID        string `json:"taxId" binding:"max=20"`
	Website      string `json:"website" binding:"omitempty,url"`
	Logo         string `json:"logo"`
	PaymentQR    string `json:"paymentQR"`
}

// UPISettingsRequest represents a UPI settings update
type UPISettingsRequest struct {
	Enabled     bool   `json:"enabled"`
	PayeeID     string `json:"payeeId" binding:"max=100"`
	PayeeName   string `json:"payeeName" binding:"max=100"`
	Note        string `json:"note" binding:"max=100"`
	Currency    string `json:"currency" binding:"omitempty,len=3"`
	URITemplate string `json:"uriTemplate" binding:"max=512"`
}
