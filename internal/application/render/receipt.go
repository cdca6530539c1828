package render

import (
	"github.com/sangkips/billbook-api/internal/domain/billing"
	"github.com/sangkips/billbook-api/internal/domain/entity"
)

// ReceiptFromInvoice builds the thermal receipt value object for ESC/POS printing.
func ReceiptFromInvoice(in Input) *entity.Receipt {
	inv := in.Invoice
	totals := billing.ComputeTotals(inv.Items, inv.GSTEnabled)

	symbol := in.CurrencySymbol
	if symbol == "" {
		symbol = "₹"
	}

	items := make([]entity.ReceiptItem, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, entity.ReceiptItem{
			Name:      billing.ItemDisplayName(it),
			Quantity:  it.Quantity,
			UnitPrice: it.UnitRate,
			Total:     billing.LineTotal(it.Quantity, it.UnitRate),
		})
	}

	r := &entity.Receipt{
		Header: entity.ReceiptHeader{
			StoreName: in.Store.BusinessName,
			Address:   in.Store.Address,
			Phone:     in.Store.Phone,
			TaxID:     in.Store.TaxID,
		},
		InvoiceNo:      inv.InvoiceNumber,
		Date:           inv.IssueDate.Format(dateLayout),
		Customer:       inv.Customer.Name,
		CustomerPhone:  inv.Customer.Phone,
		Status:         inv.Status.String(),
		Items:          items,
		GSTEnabled:     inv.GSTEnabled,
		SubTotal:       totals.Subtotal,
		Tax:            totals.TaxAmount,
		Total:          totals.GrandTotal,
		CurrencySymbol: symbol,
		Footer:         "Thank you! Visit again",
	}
	if in.QR != nil && !in.QR.Static {
		r.PaymentURI = in.QR.URI
	}
	return r
}
