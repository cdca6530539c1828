package billing

import (
	"strings"

	"github.com/sangkips/billbook-api/internal/domain/entity"
)

// ItemDisplayName returns the override when present, otherwise the product name
// followed by " - color" and " - volume" for each non-empty variant.
func ItemDisplayName(it entity.InvoiceItem) string {
	if name := strings.TrimSpace(it.DisplayName); name != "" {
		return name
	}
	var b strings.Builder
	b.WriteString(it.ProductName)
	if it.ColorVariant != "" {
		b.WriteString(" - ")
		b.WriteString(it.ColorVariant)
	}
	if it.VolumeVariant != "" {
		b.WriteString(" - ")
		b.WriteString(it.VolumeVariant)
	}
	return b.String()
}
