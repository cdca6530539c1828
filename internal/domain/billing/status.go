package billing

import (
	"fmt"

	"github.com/sangkips/billbook-api/internal/domain/enum"
)

// InitialStatus is the status assigned on creation.
func InitialStatus(paymentReceived bool) enum.InvoiceStatus {
	if paymentReceived {
		return enum.InvoiceStatusPaid
	}
	return enum.InvoiceStatusSent
}

// StatusAfterPrint returns the status an invoice takes after its document was
// delivered successfully. Only draft moves, and only with auto-mark enabled.
func StatusAfterPrint(current enum.InvoiceStatus, autoMarkAsPrinted bool) enum.InvoiceStatus {
	if autoMarkAsPrinted && current == enum.InvoiceStatusDraft {
		return enum.InvoiceStatusSent
	}
	return current
}

// ValidateTransition checks a manual status change. Any known status may be
// chosen by the user; unknown values are rejected.
func ValidateTransition(from, to enum.InvoiceStatus) error {
	if !to.Valid() {
		return fmt.Errorf("unknown invoice status %d", int(to))
	}
	if !from.Valid() {
		return fmt.Errorf("invoice has unknown status %d", int(from))
	}
	return nil
}
