package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sangkips/billbook-api/internal/application/service"
	"github.com/sangkips/billbook-api/internal/bootstrap"
	"github.com/sangkips/billbook-api/internal/config"
	"github.com/sangkips/billbook-api/internal/domain/billing"
	"github.com/sangkips/billbook-api/internal/domain/entity"
	"github.com/sangkips/billbook-api/internal/domain/enum"
	"github.com/sangkips/billbook-api/pkg/utils"
	"github.com/urfave/cli/v2"
)

// withApp wires the application for one command and closes it afterwards.
func withApp(c *cli.Context, migrate bool, fn func(*bootstrap.App) error) error {
	app, err := bootstrap.New(config.Load(), newLogger(c), bootstrap.Options{
		Migrate:    migrate,
		Registerer: prometheus.NewRegistry(),
	})
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(app)
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "create or update the database schema",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "seed", Usage: "load the demo catalog when empty"},
		},
		Action: func(c *cli.Context) error {
			return withApp(c, true, func(app *bootstrap.App) error {
				if c.Bool("seed") {
					if err := app.Seed(); err != nil {
						return err
					}
				}
				fmt.Fprintln(c.App.Writer, "schema up to date")
				return nil
			})
		},
	}
}

func nextNumberCommand() *cli.Command {
	return &cli.Command{
		Name:  "next-number",
		Usage: "preview the next invoice number without reserving it",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "date", Usage: "issue date as YYYY-MM-DD, default today"},
		},
		Action: func(c *cli.Context) error {
			return withApp(c, false, func(app *bootstrap.App) error {
				date := app.Invoices.Now()
				if raw := c.String("date"); raw != "" {
					parsed, err := app.Invoices.ParseDate(raw)
					if err != nil {
						return fmt.Errorf("invalid --date: %w", err)
					}
					date = parsed
				}
				number, err := app.Invoices.PreviewNumber(c.Context, date)
				if err != nil {
					return err
				}
				fmt.Fprintln(c.App.Writer, number)
				return nil
			})
		},
	}
}

var invoiceFlag = &cli.StringFlag{
	Name:     "id",
	Usage:    "invoice id or invoice number",
	Required: true,
}

var templateFlag = &cli.StringFlag{
	Name:  "template",
	Usage: "normal or thermal, default from printer settings",
}

func renderCommand() *cli.Command {
	return &cli.Command{
		Name:  "render",
		Usage: "render an invoice to a file",
		Flags: []cli.Flag{
			invoiceFlag,
			templateFlag,
			&cli.BoolFlag{Name: "pdf", Usage: "write a PDF instead of HTML"},
			&cli.StringFlag{Name: "out", Usage: "output path, default the document file name"},
		},
		Action: func(c *cli.Context) error {
			tmpl, err := parseTemplate(c.String("template"))
			if err != nil {
				return err
			}
			return withApp(c, false, func(app *bootstrap.App) error {
				invoice, err := findInvoice(c, app.Invoices)
				if err != nil {
					return err
				}
				var doc *entity.Document
				if c.Bool("pdf") {
					doc, err = app.Invoices.ExportPDF(c.Context, invoice.ID)
				} else {
					doc, err = app.Invoices.RenderInvoice(c.Context, invoice.ID, tmpl)
				}
				if err != nil {
					return err
				}
				out := c.String("out")
				if out == "" {
					out = doc.FileName
				}
				if err := os.WriteFile(out, doc.Content, 0o644); err != nil {
					return err
				}
				fmt.Fprintln(c.App.Writer, out)
				return nil
			})
		},
	}
}

func printCommand() *cli.Command {
	return &cli.Command{
		Name:  "print",
		Usage: "render an invoice and send it to the configured sinks",
		Flags: []cli.Flag{invoiceFlag, templateFlag},
		Action: func(c *cli.Context) error {
			tmpl, err := parseTemplate(c.String("template"))
			if err != nil {
				return err
			}
			return withApp(c, false, func(app *bootstrap.App) error {
				invoice, err := findInvoice(c, app.Invoices)
				if err != nil {
					return err
				}
				result, err := app.Invoices.PrintInvoice(c.Context, invoice.ID, tmpl)
				if err != nil {
					return err
				}
				if !result.Delivered {
					fmt.Fprintf(c.App.ErrWriter, "warning: %s\n", result.Warning)
				}
				fmt.Fprintf(c.App.Writer, "%s %s\n", result.Invoice.InvoiceNumber, result.Invoice.Status)
				return nil
			})
		},
	}
}

func emailCommand() *cli.Command {
	return &cli.Command{
		Name:  "email",
		Usage: "email an invoice PDF over the configured SMTP relay",
		Flags: []cli.Flag{
			invoiceFlag,
			&cli.StringFlag{Name: "to", Usage: "recipient, default the customer email on the invoice"},
		},
		Action: func(c *cli.Context) error {
			return withApp(c, false, func(app *bootstrap.App) error {
				invoice, err := findInvoice(c, app.Invoices)
				if err != nil {
					return err
				}
				result, err := app.Mail.EmailInvoice(c.Context, invoice.ID, c.String("to"))
				if err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "%s sent to %s\n", result.InvoiceNumber, result.To)
				return nil
			})
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "export invoices and a summary to an XLSX workbook",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Value: "invoices.xlsx", Usage: "output path"},
			&cli.StringFlag{Name: "from", Usage: "first issue date, YYYY-MM-DD"},
			&cli.StringFlag{Name: "to", Usage: "last issue date, YYYY-MM-DD"},
		},
		Action: func(c *cli.Context) error {
			var r service.ReportRange
			for _, bound := range []struct {
				flag string
				dst  **time.Time
			}{{"from", &r.From}, {"to", &r.To}} {
				raw := c.String(bound.flag)
				if raw == "" {
					continue
				}
				t, err := time.Parse(billing.DayLayout, raw)
				if err != nil {
					return fmt.Errorf("invalid --%s: %w", bound.flag, err)
				}
				*bound.dst = &t
			}
			return withApp(c, false, func(app *bootstrap.App) error {
				content, err := app.Reports.ExportXLSX(c.Context, r)
				if err != nil {
					return err
				}
				if err := os.WriteFile(c.String("out"), content, 0o644); err != nil {
					return err
				}
				fmt.Fprintln(c.App.Writer, c.String("out"))
				return nil
			})
		},
	}
}

func hashPasswordCommand() *cli.Command {
	return &cli.Command{
		Name:      "hash-password",
		Usage:     "print a bcrypt hash for REPORTS_PASSWORD_HASH",
		ArgsUsage: "[password]",
		Action: func(c *cli.Context) error {
			password := c.Args().First()
			if password == "" {
				line, err := bufio.NewReader(c.App.Reader).ReadString('\n')
				if err != nil && line == "" {
					return errors.New("password required as argument or on stdin")
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if password == "" {
				return errors.New("password must not be empty")
			}
			hash, err := utils.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, hash)
			return nil
		},
	}
}

func purgeKeysCommand() *cli.Command {
	return &cli.Command{
		Name:  "purge-keys",
		Usage: "delete expired idempotency keys",
		Action: func(c *cli.Context) error {
			return withApp(c, false, func(app *bootstrap.App) error {
				n, err := app.PurgeIdempotencyKeys(c.Context)
				if err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "%d keys removed\n", n)
				return nil
			})
		},
	}
}

func parseTemplate(s string) (*enum.PrintTemplate, error) {
	if s == "" {
		return nil, nil
	}
	t := enum.PrintTemplate(s)
	if !t.Valid() {
		return nil, fmt.Errorf("unknown template %q (use normal or thermal)", s)
	}
	return &t, nil
}

func findInvoice(c *cli.Context, invoices *service.InvoiceService) (*entity.Invoice, error) {
	ref := c.String("id")
	if id, err := uuid.Parse(ref); err == nil {
		return invoices.GetInvoice(c.Context, id)
	}
	return invoices.GetInvoiceByNumber(c.Context, ref)
}
