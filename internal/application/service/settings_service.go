package service

import (
	"context"
	"strings"

	"github.com/sangkips/billbook-api/internal/domain/entity"
	"github.com/sangkips/billbook-api/internal/domain/repository"
	"github.com/sangkips/billbook-api/pkg/apperror"
	"github.com/sangkips/billbook-api/pkg/upi"
	"go.uber.org/zap"
)

// SettingsService reads and writes the store, printer and UPI settings.
// Reads never fail: missing or unreadable values resolve to defaults.
type SettingsService struct {
	settingsRepo  repository.SettingsRepository
	maxImageBytes int64
	log           *zap.Logger
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo repository.SettingsRepository, maxImageBytes int64, log *zap.Logger) *SettingsService {
	if log == nil {
		log = zap.NewNop()
	}
	return &SettingsService{
		settingsRepo:  settingsRepo,
		maxImageBytes: maxImageBytes,
		log:           log,
	}
}

var _ repository.SettingsProvider = (*SettingsService)(nil)

// load decodes key into dst and reports whether dst holds a usable value.
func (s *SettingsService) load(ctx context.Context, key string, dst any) bool {
	found, err := s.settingsRepo.Load(ctx, key, dst)
	if err != nil {
		s.log.Warn("settings unreadable, using defaults", zap.String("key", key), zap.Error(err))
		return false
	}
	return found
}

func (s *SettingsService) StoreSettings(ctx context.Context) entity.StoreSettings {
	var v entity.StoreSettings
	if !s.load(ctx, entity.StoreSettingsKey, &v) {
		return entity.StoreSettings{}
	}
	return v
}

func (s *SettingsService) PrinterSettings(ctx context.Context) entity.PrinterSettings {
	v := entity.DefaultPrinterSettings()
	if !s.load(ctx, entity.PrinterSettingsKey, &v) {
		return entity.DefaultPrinterSettings()
	}
	return v.Normalize()
}

func (s *SettingsService) UPISettings(ctx context.Context) entity.UPISettings {
	v := entity.DefaultUPISettings()
	if !s.load(ctx, entity.UPISettingsKey, &v) {
		return entity.DefaultUPISettings()
	}
	if v.URITemplate == "" {
		v.URITemplate = entity.DefaultUPITemplate
	}
	return v
}

// GetSettings returns all three collections.
func (s *SettingsService) GetSettings(ctx context.Context) entity.Settings {
	return entity.Settings{
		Store:   s.StoreSettings(ctx),
		Printer: s.PrinterSettings(ctx),
		UPI:     s.UPISettings(ctx),
	}
}

// UpdateStoreSettings validates and replaces the store settings.
func (s *SettingsService) UpdateStoreSettings(ctx context.Context, input entity.StoreSettings) (entity.StoreSettings, error) {
	input.BusinessName = strings.TrimSpace(input.BusinessName)

	var errs []apperror.FieldError
	if input.Logo != "" {
		if msg := s.checkImage(input.Logo, true); msg != "" {
			errs = append(errs, apperror.FieldError{Field: "logo", Message: msg})
		}
	}
	if input.PaymentQR != "" {
		if msg := s.checkImage(input.PaymentQR, false); msg != "" {
			errs = append(errs, apperror.FieldError{Field: "paymentQR", Message: msg})
		}
	}
	if len(errs) > 0 {
		return entity.StoreSettings{}, apperror.NewValidationError(errs)
	}

	if err := s.settingsRepo.Save(ctx, entity.StoreSettingsKey, input); err != nil {
		return entity.StoreSettings{}, err
	}
	return input, nil
}

// UpdatePrinterSettings validates and replaces the printer settings.
func (s *SettingsService) UpdatePrinterSettings(ctx context.Context, input entity.PrinterSettings) (entity.PrinterSettings, error) {
	var errs []apperror.FieldError
	if !input.PaperSize.Valid() {
		errs = append(errs, apperror.FieldError{Field: "paperSize", Message: "must be A4 or A5"})
	}
	if !input.Template.Valid() {
		errs = append(errs, apperror.FieldError{Field: "template", Message: "must be normal or thermal"})
	}
	if input.Margins < 0 || input.Margins > 50 {
		errs = append(errs, apperror.FieldError{Field: "margins", Message: "must be between 0 and 50 mm"})
	}
	if len(errs) > 0 {
		return entity.PrinterSettings{}, apperror.NewValidationError(errs)
	}

	if err := s.settingsRepo.Save(ctx, entity.PrinterSettingsKey, input); err != nil {
		return entity.PrinterSettings{}, err
	}
	return input, nil
}

// UpdateUPISettings validates and replaces the UPI settings.
func (s *SettingsService) UpdateUPISettings(ctx context.Context, input entity.UPISettings) (entity.UPISettings, error) {
	input.PayeeID = strings.TrimSpace(input.PayeeID)
	if input.URITemplate == "" {
		input.URITemplate = entity.DefaultUPITemplate
	}

	var errs []apperror.FieldError
	if !strings.Contains(input.URITemplate, upi.AmountPlaceholder) {
		errs = append(errs, apperror.FieldError{Field: "uriTemplate", Message: "must contain the {amount} placeholder"})
	}
	if input.Enabled && input.PayeeID == "" {
		errs = append(errs, apperror.FieldError{Field: "payeeId", Message: "is required when UPI is enabled"})
	}
	if len(errs) > 0 {
		return entity.UPISettings{}, apperror.NewValidationError(errs)
	}

	if err := s.settingsRepo.Save(ctx, entity.UPISettingsKey, input); err != nil {
		return entity.UPISettings{}, err
	}
	return input, nil
}

// ResetSettings removes a stored collection so defaults apply again.
func (s *SettingsService) ResetSettings(ctx context.Context, key string) error {
	switch key {
	case entity.StoreSettingsKey, entity.PrinterSettingsKey, entity.UPISettingsKey:
		return s.settingsRepo.Delete(ctx, key)
	}
	return apperror.NewNotFoundError("Settings collection")
}

func (s *SettingsService) checkImage(v string, allowURL bool) string {
	switch {
	case strings.HasPrefix(v, "data:image/"):
	case allowURL && (strings.HasPrefix(v, "https://") || strings.HasPrefix(v, "http://")):
		return ""
	default:
		if allowURL {
			return "must be an image data URI or an http(s) URL"
		}
		return "must be an image data URI"
	}
	if s.maxImageBytes > 0 && int64(len(v)) > s.maxImageBytes*4/3+64 {
		return "image is too large"
	}
	return ""
}
