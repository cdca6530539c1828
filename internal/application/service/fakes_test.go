package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/billbook-api/internal/domain/entity"
	"github.com/sangkips/billbook-api/internal/domain/enum"
	"github.com/sangkips/billbook-api/internal/domain/repository"
	"github.com/sangkips/billbook-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

var errFakeNotFound = errors.New("record not found")

type memInvoices struct {
	mu        sync.Mutex
	invoices  []*entity.Invoice
	createErr error
}

func (m *memInvoices) Create(_ context.Context, inv *entity.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	cp := *inv
	m.invoices = append(m.invoices, &cp)
	return nil
}

func (m *memInvoices) find(match func(*entity.Invoice) bool) *entity.Invoice {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, inv := range m.invoices {
		if match(inv) {
			cp := *inv
			return &cp
		}
	}
	return nil
}

func (m *memInvoices) GetByID(_ context.Context, id uuid.UUID) (*entity.Invoice, error) {
	return m.find(func(inv *entity.Invoice) bool { return inv.ID == id }), nil
}

func (m *memInvoices) GetByNumber(_ context.Context, number string) (*entity.Invoice, error) {
	return m.find(func(inv *entity.Invoice) bool { return inv.InvoiceNumber == number }), nil
}

func (m *memInvoices) UpdateStatus(_ context.Context, id uuid.UUID, status enum.InvoiceStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, inv := range m.invoices {
		if inv.ID == id {
			inv.Status = status
			return nil
		}
	}
	return errFakeNotFound
}

func (m *memInvoices) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, inv := range m.invoices {
		if inv.ID == id {
			m.invoices = append(m.invoices[:i], m.invoices[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memInvoices) List(_ context.Context, params *repository.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.Invoice
	for _, inv := range m.invoices {
		if params.Status != nil && inv.Status != *params.Status {
			continue
		}
		if params.Search != "" &&
			!strings.Contains(inv.InvoiceNumber, params.Search) &&
			!strings.Contains(strings.ToLower(inv.Customer.Name), strings.ToLower(params.Search)) {
			continue
		}
		out = append(out, *inv)
	}
	return out, int64(len(out)), nil
}

func (m *memInvoices) ListAll(_ context.Context, from, to *time.Time) ([]entity.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.Invoice
	for _, inv := range m.invoices {
		if from != nil && inv.IssueDate.Before(*from) {
			continue
		}
		if to != nil && inv.IssueDate.After(*to) {
			continue
		}
		out = append(out, *inv)
	}
	return out, nil
}

func (m *memInvoices) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.invoices)), nil
}

// GetTopItems and GetStatusCounts let memInvoices stand in for the analytics repository.
func (m *memInvoices) GetTopItems(ctx context.Context, from, to *time.Time, limit int) ([]repository.TopItemResult, error) {
	invoices, _ := m.ListAll(ctx, from, to)
	byKey := map[string]*repository.TopItemResult{}
	var order []string
	for _, inv := range invoices {
		for _, it := range inv.Items {
			key := it.ProductName + "|" + it.ColorVariant + "|" + it.VolumeVariant + "|" + it.DisplayName
			r, ok := byKey[key]
			if !ok {
				r = &repository.TopItemResult{
					ProductName:   it.ProductName,
					ColorVariant:  it.ColorVariant,
					VolumeVariant: it.VolumeVariant,
					DisplayName:   it.DisplayName,
					Revenue:       decimal.Zero,
				}
				byKey[key] = r
				order = append(order, key)
			}
			r.QuantitySold += it.Quantity
			r.Revenue = r.Revenue.Add(it.LineTotal)
		}
	}
	out := make([]repository.TopItemResult, 0, len(order))
	for _, k := range order {
		out = append(out, *byKey[k])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Revenue.GreaterThan(out[j].Revenue) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memInvoices) GetStatusCounts(ctx context.Context, from, to *time.Time) ([]repository.StatusCountResult, error) {
	invoices, _ := m.ListAll(ctx, from, to)
	counts := map[enum.InvoiceStatus]int64{}
	for _, inv := range invoices {
		counts[inv.Status]++
	}
	var out []repository.StatusCountResult
	for _, st := range enum.InvoiceStatuses() {
		if counts[st] > 0 {
			out = append(out, repository.StatusCountResult{Status: st, Count: counts[st]})
		}
	}
	return out, nil
}

type memSequences struct {
	mu   sync.Mutex
	last map[string]int
}

func (m *memSequences) Next(_ context.Context, day string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.last == nil {
		m.last = map[string]int{}
	}
	m.last[day]++
	return m.last[day], nil
}

func (m *memSequences) Peek(_ context.Context, day string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last[day] + 1, nil
}

type memCustomers struct {
	items map[uuid.UUID]*entity.Customer
}

func newMemCustomers(cs ...entity.Customer) *memCustomers {
	m := &memCustomers{items: map[uuid.UUID]*entity.Customer{}}
	for i := range cs {
		c := cs[i]
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		m.items[c.ID] = &c
	}
	return m
}

func (m *memCustomers) Create(_ context.Context, c *entity.Customer) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cp := *c
	m.items[c.ID] = &cp
	return nil
}

func (m *memCustomers) GetByID(_ context.Context, id uuid.UUID) (*entity.Customer, error) {
	c, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (m *memCustomers) Update(_ context.Context, c *entity.Customer) error {
	cp := *c
	m.items[c.ID] = &cp
	return nil
}

func (m *memCustomers) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

func (m *memCustomers) List(_ context.Context, _ *pagination.PaginationParams, search string) ([]entity.Customer, int64, error) {
	var out []entity.Customer
	for _, c := range m.items {
		if search == "" || strings.Contains(strings.ToLower(c.Name), strings.ToLower(search)) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, int64(len(out)), nil
}

func (m *memCustomers) Count(context.Context) (int64, error) {
	return int64(len(m.items)), nil
}

type memProducts struct {
	items map[uuid.UUID]*entity.Product
}

func newMemProducts(ps ...entity.Product) *memProducts {
	m := &memProducts{items: map[uuid.UUID]*entity.Product{}}
	for i := range ps {
		p := ps[i]
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		m.items[p.ID] = &p
	}
	return m
}

func (m *memProducts) Create(_ context.Context, p *entity.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	m.items[p.ID] = &cp
	return nil
}

func (m *memProducts) GetByID(_ context.Context, id uuid.UUID) (*entity.Product, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *memProducts) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	var out []entity.Product
	for _, id := range ids {
		if p, _ := m.GetByID(ctx, id); p != nil {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memProducts) Update(_ context.Context, p *entity.Product) error {
	cp := *p
	m.items[p.ID] = &cp
	return nil
}

func (m *memProducts) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

func (m *memProducts) List(_ context.Context, params *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	var out []entity.Product
	for _, p := range m.items {
		if params.Search == "" || strings.Contains(strings.ToLower(p.Name), strings.ToLower(params.Search)) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, int64(len(out)), nil
}

func (m *memProducts) Count(context.Context) (int64, error) {
	return int64(len(m.items)), nil
}

type memCatalog struct {
	customers *memCustomers
	products  *memProducts
}

func (c memCatalog) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	return c.customers.GetByID(ctx, id)
}

func (c memCatalog) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	return c.products.GetByID(ctx, id)
}

type staticSettings struct {
	store   entity.StoreSettings
	printer entity.PrinterSettings
	upi     entity.UPISettings
}

func newStaticSettings() *staticSettings {
	return &staticSettings{
		store:   entity.StoreSettings{BusinessName: "Ravi Paints", Address: "MG Road"},
		printer: entity.DefaultPrinterSettings(),
		upi:     entity.DefaultUPISettings(),
	}
}

func (s *staticSettings) StoreSettings(context.Context) entity.StoreSettings     { return s.store }
func (s *staticSettings) PrinterSettings(context.Context) entity.PrinterSettings { return s.printer }
func (s *staticSettings) UPISettings(context.Context) entity.UPISettings         { return s.upi }

type recordingSink struct {
	mu   sync.Mutex
	docs []*entity.Document
	err  error
}

func (s *recordingSink) Deliver(_ context.Context, doc *entity.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.docs = append(s.docs, doc)
	return nil
}

type stubEncoder struct {
	uris []string
	err  error
}

func (e *stubEncoder) Encode(uri string) ([]byte, error) {
	e.uris = append(e.uris, uri)
	if e.err != nil {
		return nil, e.err
	}
	return []byte("\x89PNG" + uri), nil
}
