package repository

import (
	"context"

	"github.com/sangkips/billbook-api/internal/domain/entity"
)

// SettingsRepository stores each settings collection as one JSON value.
type SettingsRepository interface {
	// Load decodes the value stored under key into dst.
	// found is false when nothing is stored.
	Load(ctx context.Context, key string, dst any) (found bool, err error)
	Save(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
	// Usage returns the stored size in bytes per key.
	Usage(ctx context.Context) (map[string]int, error)
}

// SettingsProvider supplies branding, printer and UPI configuration.
// Read failures resolve to defaults, so none of these return an error.
type SettingsProvider interface {
	StoreSettings(ctx context.Context) entity.StoreSettings
	PrinterSettings(ctx context.Context) entity.PrinterSettings
	UPISettings(ctx context.Context) entity.UPISettings
}

// DocumentSink accepts a rendered document and persists or prints it.
type DocumentSink interface {
	Deliver(ctx context.Context, doc *entity.Document) error
}
