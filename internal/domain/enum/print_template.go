package enum

// PrintTemplate selects the invoice document layout.
type PrintTemplate string

const (
	PrintTemplateNormal  PrintTemplate = "normal"
	PrintTemplateThermal PrintTemplate = "thermal"
)

// Valid reports whether t is a known template.
func (t PrintTemplate) Valid() bool {
	return t == PrintTemplateNormal || t == PrintTemplateThermal
}

// OrDefault returns t, or the full-page template when t is unknown.
func (t PrintTemplate) OrDefault() PrintTemplate {
	if t.Valid() {
		return t
	}
	return PrintTemplateNormal
}

// PaperSize is the page size used by the full-page layout.
type PaperSize string

const (
	PaperSizeA4 PaperSize = "A4"
	PaperSizeA5 PaperSize = "A5"
)

// Valid reports whether p is a known paper size.
func (p PaperSize) Valid() bool {
	return p == PaperSizeA4 || p == PaperSizeA5
}

// OrDefault returns p, or A4 when p is unknown.
func (p PaperSize) OrDefault() PaperSize {
	if p.Valid() {
		return p
	}
	return PaperSizeA4
}
