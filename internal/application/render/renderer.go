// Package render turns a finalized invoice into printable documents.
// Every renderer here is pure: identical input yields identical bytes.
package render

import (
	"html/template"
	"strconv"
	"strings"

	"github.com/sangkips/billbook-api/internal/domain/billing"
	"github.com/sangkips/billbook-api/internal/domain/entity"
	"github.com/sangkips/billbook-api/internal/domain/enum"
	"github.com/sangkips/billbook-api/pkg/upi"
)

const dateLayout = "02/01/2006"

// Input is everything a document depends on.
type Input struct {
	Invoice        *entity.Invoice
	Store          entity.StoreSnapshot
	Printer        entity.PrinterSettings
	Template       enum.PrintTemplate
	QR             *upi.PaymentQR // nil renders without a payment section
	CurrencySymbol string
}

type pageView struct {
	Title      string
	Number     string
	Date       string
	Status     string
	Store      storeView
	Customer   entity.CustomerSnapshot
	Items      []itemView
	GSTEnabled bool
	Subtotal   string
	Tax        string
	GrandTotal string
	Notes      string
	QR         *qrView

	PaperSize string
	Margin    string
}

type storeView struct {
	Name    string
	Address string
	Phone   string
	Email   string
	TaxID   string
	Website string
	Logo    template.URL
}

type itemView struct {
	Index int
	Name  string
	Qty   int
	Rate  string
	Total string
}

type qrView struct {
	Src     template.URL
	Caption string
}

func buildView(in Input) pageView {
	inv := in.Invoice
	symbol := in.CurrencySymbol
	if symbol == "" {
		symbol = "₹"
	}

	items := make([]itemView, 0, len(inv.Items))
	for i, it := range inv.Items {
		items = append(items, itemView{
			Index: i + 1,
			Name:  billing.ItemDisplayName(it),
			Qty:   it.Quantity,
			Rate:  it.UnitRate.StringFixed(2),
			Total: billing.LineTotal(it.Quantity, it.UnitRate).StringFixed(2),
		})
	}
	totals := billing.ComputeTotals(inv.Items, inv.GSTEnabled)

	store := storeView{
		Name:    in.Store.BusinessName,
		Address: in.Store.Address,
		Phone:   in.Store.Phone,
		Email:   in.Store.Email,
		TaxID:   in.Store.TaxID,
		Website: in.Store.Website,
		Logo:    safeImageURL(in.Store.Logo),
	}
	if store.Name == "" {
		store.Name = "Invoice"
	}

	view := pageView{
		Title:      "Invoice " + inv.InvoiceNumber,
		Number:     inv.InvoiceNumber,
		Date:       inv.IssueDate.Format(dateLayout),
		Status:     strings.ToUpper(inv.Status.String()),
		Store:      store,
		Customer:   inv.Customer,
		Items:      items,
		GSTEnabled: inv.GSTEnabled,
		Subtotal:   billing.FormatMoney(symbol, totals.Subtotal),
		Tax:        billing.FormatMoney(symbol, totals.TaxAmount),
		GrandTotal: billing.FormatMoney(symbol, totals.GrandTotal),
		PaperSize:  string(in.Printer.PaperSize.OrDefault()),
		Margin:     strconv.FormatFloat(in.Printer.Normalize().Margins, 'f', -1, 64) + "mm",
	}
	if inv.Notes != nil {
		view.Notes = *inv.Notes
	}
	if in.QR != nil {
		if src := safeImageURL(in.QR.DataURI); src != "" {
			caption := "Scan to pay via UPI"
			if in.QR.Static {
				caption = "Scan to pay"
			}
			view.QR = &qrView{Src: src, Caption: caption}
		}
	}
	return view
}

// safeImageURL admits inline images and http(s) links only.
func safeImageURL(s string) template.URL {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "data:image/"),
		strings.HasPrefix(s, "https://"),
		strings.HasPrefix(s, "http://"):
		return template.URL(s)
	}
	return ""
}
