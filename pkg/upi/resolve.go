package upi

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// PaymentQR is the image shown in a document's payment section.
type PaymentQR struct {
	DataURI string // image source
	URI     string // encoded payment URI, empty for a static image
	Static  bool   // uploaded image; amount not embedded
	PNG     []byte // raw image, nil when the static image is not a PNG data URI
}

// Config is what Resolve needs from the store and UPI settings.
type Config struct {
	StaticImage string // uploaded QR, data URI
	Enabled     bool
	Template    string
	Params      Params
}

var ErrNotConfigured = errors.New("upi: payment qr not configured")

// Resolve picks the payment image for amount. A static uploaded image wins and is
// used verbatim. Otherwise the URI template is filled and encoded. Callers
// render without a payment section on any error.
func Resolve(cfg Config, amount decimal.Decimal, enc Encoder) (*PaymentQR, error) {
	if cfg.StaticImage != "" {
		return &PaymentQR{
			DataURI: cfg.StaticImage,
			Static:  true,
			PNG:     decodePNGDataURI(cfg.StaticImage),
		}, nil
	}
	if !cfg.Enabled || cfg.Params.Payee == "" {
		return nil, ErrNotConfigured
	}
	uri, err := BuildPaymentURI(cfg.Template, cfg.Params, amount)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nil, errors.New("upi: no encoder")
	}
	png, err := enc.Encode(uri)
	if err != nil {
		return nil, err
	}
	return &PaymentQR{DataURI: PNGDataURI(png), URI: uri, PNG: png}, nil
}

func decodePNGDataURI(s string) []byte {
	const prefix = "data:image/png;base64,"
	if !strings.HasPrefix(s, prefix) {
		return nil
	}
	b, err := base64.StdEncoding.DecodeString(s[len(prefix):])
	if err != nil {
		return nil
	}
	return b
}
