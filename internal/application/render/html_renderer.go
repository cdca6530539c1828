package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/sangkips/billbook-api/internal/domain/entity"
	"github.com/sangkips/billbook-api/internal/domain/enum"
)

const normalHTMLTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>{{.Title}}</title>
  <style>
    @page { size: {{.PaperSize}}; margin: {{.Margin}}; }
    * { box-sizing: border-box; }
    body { margin: 0; font-family: "Helvetica Neue", Arial, sans-serif; color: #111827; font-size: 13px; }
    .header { display: flex; justify-content: space-between; align-items: flex-start; border-bottom: 2px solid #111827; padding-bottom: 12px; margin-bottom: 16px; }
    .brand img { max-height: 56px; display: block; margin-bottom: 6px; }
    .brand h1 { font-size: 20px; margin: 0 0 4px; }
    .muted { color: #6b7280; }
    .meta { text-align: right; }
    .meta .label { color: #6b7280; text-transform: uppercase; font-size: 10px; letter-spacing: 0.04em; }
    .billto { margin-bottom: 16px; }
    table { width: 100%; border-collapse: collapse; }
    th, td { padding: 8px; border-bottom: 1px solid #e5e7eb; text-align: left; }
    th { text-transform: uppercase; font-size: 10px; color: #6b7280; }
    td.num, th.num { text-align: right; }
    .summary { display: flex; justify-content: space-between; margin-top: 16px; }
    .totals { min-width: 240px; }
    .totals div { display: flex; justify-content: space-between; padding: 4px 0; }
    .totals .grand { font-size: 16px; font-weight: bold; border-top: 2px solid #111827; }
    .summary, .qr { break-inside: avoid; page-break-inside: avoid; }
    .qr { text-align: center; }
    .qr img { width: 128px; height: 128px; }
    .notes, .footer { margin-top: 24px; font-size: 12px; color: #6b7280; }
  </style>
</head>
<body>
  <div class="header">
    <div class="brand">
      {{if .Store.Logo}}<img src="{{.Store.Logo}}" alt="logo" />{{end}}
      <h1>{{.Store.Name}}</h1>
      {{if .Store.Address}}<div class="muted">{{.Store.Address}}</div>{{end}}
      {{if .Store.Phone}}<div class="muted">Phone: {{.Store.Phone}}</div>{{end}}
      {{if .Store.Email}}<div class="muted">{{.Store.Email}}</div>{{end}}
      {{if .Store.TaxID}}<div class="muted">GSTIN: {{.Store.TaxID}}</div>{{end}}
    </div>
    <div class="meta">
      <div class="label">Invoice</div>
      <div><strong>#{{.Number}}</strong></div>
      <div class="label">Date</div>
      <div>{{.Date}}</div>
      <div class="label">Status</div>
      <div>{{.Status}}</div>
    </div>
  </div>
  <div class="billto">
    <div class="label muted">Bill to</div>
    <div><strong>{{.Customer.Name}}</strong></div>
    {{if .Customer.Phone}}<div>{{.Customer.Phone}}</div>{{end}}
    {{if .Customer.Address}}<div>{{.Customer.Address}}</div>{{end}}
    {{if .Customer.Email}}<div>{{.Customer.Email}}</div>{{end}}
  </div>
  <table>
    <thead>
      <tr><th>#</th><th>Item</th><th class="num">Qty</th><th class="num">Rate</th><th class="num">Amount</th></tr>
    </thead>
    <tbody>
      {{range .Items}}<tr><td>{{.Index}}</td><td>{{.Name}}</td><td class="num">{{.Qty}}</td><td class="num">{{.Rate}}</td><td class="num">{{.Total}}</td></tr>
      {{end}}
    </tbody>
  </table>
  <div class="summary">
    <div class="qr">
      {{with .QR}}<img src="{{.Src}}" alt="payment qr" />
      <div class="muted">{{.Caption}}</div>{{end}}
    </div>
    <div class="totals">
      <div><span>Subtotal</span><span>{{.Subtotal}}</span></div>
      {{if .GSTEnabled}}<div><span>GST (18%)</span><span>{{.Tax}}</span></div>
      {{end}}<div class="grand"><span>Grand Total</span><span>{{.GrandTotal}}</span></div>
    </div>
  </div>
  {{if .Notes}}<div class="notes">{{.Notes}}</div>{{end}}
  <div class="footer">Thank you for your business!{{if .Store.Website}} {{.Store.Website}}{{end}}</div>
</body>
</html>
`

const thermalHTMLTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>{{.Title}}</title>
  <style>
    @page { size: 72mm auto; margin: 0; }
    * { box-sizing: border-box; }
    body { width: 72mm; margin: 0; padding: 2mm; font-family: "Courier New", monospace; font-size: 11px; color: #000; }
    .center { text-align: center; }
    .sep { border-top: 1px dashed #000; margin: 4px 0; }
    .row { display: flex; justify-content: space-between; }
    .item .line { padding-left: 4px; }
    .grand { font-weight: bold; font-size: 13px; }
    .qr img { width: 96px; height: 96px; }
  </style>
</head>
<body>
  <div class="center">
    <strong>{{.Store.Name}}</strong>
    {{if .Store.Address}}<div>{{.Store.Address}}</div>{{end}}
    {{if .Store.Phone}}<div>Ph: {{.Store.Phone}}</div>{{end}}
    {{if .Store.TaxID}}<div>GSTIN: {{.Store.TaxID}}</div>{{end}}
  </div>
  <div class="sep"></div>
  <div class="row"><span>Bill: {{.Number}}</span><span>{{.Date}}</span></div>
  <div>To: {{.Customer.Name}}</div>
  {{if .Customer.Phone}}<div>Ph: {{.Customer.Phone}}</div>{{end}}
  <div class="sep"></div>
  {{range .Items}}<div class="item"><div>{{.Name}}</div><div class="line">{{.Qty}} &times; {{.Rate}} = {{.Total}}</div></div>
  {{end}}<div class="sep"></div>
  {{if .GSTEnabled}}<div class="row"><span>Subtotal</span><span>{{.Subtotal}}</span></div>
  <div class="row"><span>GST 18%</span><span>{{.Tax}}</span></div>
  {{end}}<div class="row grand"><span>TOTAL</span><span>{{.GrandTotal}}</span></div>
  <div class="sep"></div>
  {{with .QR}}<div class="center qr"><img src="{{.Src}}" alt="payment qr" /><div>{{.Caption}}</div></div>
  <div class="sep"></div>
  {{end}}<div class="center">Thank you! Visit again</div>
</body>
</html>
`

// HTMLRenderer renders the full-page and thermal HTML documents.
type HTMLRenderer struct {
	normal  *template.Template
	thermal *template.Template
}

func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{
		normal:  template.Must(template.New("normal").Parse(normalHTMLTemplate)),
		thermal: template.Must(template.New("thermal").Parse(thermalHTMLTemplate)),
	}
}

// RenderHTML renders in with the template named by in.Template.
func (r *HTMLRenderer) RenderHTML(in Input) ([]byte, error) {
	if in.Invoice == nil {
		return nil, fmt.Errorf("render: nil invoice")
	}
	tpl := r.normal
	if in.Template.OrDefault() == enum.PrintTemplateThermal {
		tpl = r.thermal
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, buildView(in)); err != nil {
		return nil, fmt.Errorf("render %s: %w", in.Template.OrDefault(), err)
	}
	return buf.Bytes(), nil
}

// Document renders in and wraps it as an HTML document named after the invoice.
// Thermal documents also carry the receipt used by ESC/POS printers.
func (r *HTMLRenderer) Document(in Input) (*entity.Document, error) {
	content, err := r.RenderHTML(in)
	if err != nil {
		return nil, err
	}
	tmpl := in.Template.OrDefault()
	doc := &entity.Document{
		FileName:    in.Invoice.FileName("html"),
		ContentType: "text/html; charset=utf-8",
		Template:    tmpl,
		Content:     content,
	}
	if tmpl == enum.PrintTemplateThermal {
		doc.Receipt = ReceiptFromInvoice(in)
	}
	return doc, nil
}
