// Package upi builds UPI payment URIs and turns them into QR images.
package upi

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"
)

// AmountPlaceholder must appear in every payment URI template.
const AmountPlaceholder = "{amount}"

var ErrMissingAmount = errors.New("upi: uri template has no {amount} placeholder")

// Params fills the non-amount placeholders of a template.
type Params struct {
	Payee     string
	PayeeName string
	Note      string
	Currency  string
}

// BuildPaymentURI substitutes params and the amount (2 dp) into tmpl.
// Param values are query-escaped; the amount is written verbatim.
func BuildPaymentURI(tmpl string, p Params, amount decimal.Decimal) (string, error) {
	if !strings.Contains(tmpl, AmountPlaceholder) {
		return "", ErrMissingAmount
	}
	r := strings.NewReplacer(
		"{payee}", url.QueryEscape(p.Payee),
		"{payeeName}", url.QueryEscape(p.PayeeName),
		"{note}", url.QueryEscape(p.Note),
		"{currency}", url.QueryEscape(p.Currency),
		AmountPlaceholder, amount.StringFixed(2),
	)
	return r.Replace(tmpl), nil
}

// Encoder renders a payload into a PNG image.
type Encoder interface {
	Encode(payload string) ([]byte, error)
}

// QREncoder encodes with go-qrcode.
type QREncoder struct {
	Size  int
	Level qrcode.RecoveryLevel
}

// NewQREncoder returns an encoder producing size×size PNGs at medium recovery.
func NewQREncoder(size int) *QREncoder {
	if size <= 0 {
		size = 256
	}
	return &QREncoder{Size: size, Level: qrcode.Medium}
}

func (e *QREncoder) Encode(payload string) ([]byte, error) {
	png, err := qrcode.Encode(payload, e.Level, e.Size)
	if err != nil {
		return nil, fmt.Errorf("upi: encode qr: %w", err)
	}
	return png, nil
}

// PNGDataURI wraps a PNG as a data URI suitable for an <img> src.
func PNGDataURI(png []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}
