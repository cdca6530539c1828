package service

import (
	"context"
	"time"

	"github.com/sangkips/billbook-api/pkg/apperror"
	"github.com/sangkips/billbook-api/pkg/utils"
	"go.uber.org/zap"
)

const (
	ReportsSubject = "reports"
	ScopeReports   = "reports:read"
)

// AuthService gates the report dashboards behind a single password.
type AuthService struct {
	passwordHash string
	jwtManager   *utils.JWTManager
	log          *zap.Logger
}

// NewAuthService creates a new auth service. A bcrypt passwordHash takes
// precedence; otherwise the plain password is hashed once at startup.
func NewAuthService(passwordHash, password string, jwtManager *utils.JWTManager, log *zap.Logger) (*AuthService, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if passwordHash == "" {
		if password == "" {
			return nil, apperror.NewBadRequestError("reports password is not configured")
		}
		log.Warn("reports password configured in plain text; set REPORTS_PASSWORD_HASH instead")
		hashed, err := utils.HashPassword(password)
		if err != nil {
			return nil, err
		}
		passwordHash = hashed
	}
	return &AuthService{
		passwordHash: passwordHash,
		jwtManager:   jwtManager,
		log:          log,
	}, nil
}

// LoginOutput represents the login output
type LoginOutput struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Login checks the reports password and issues a token for the report routes.
func (s *AuthService) Login(ctx context.Context, password string) (*LoginOutput, error) {
	if !utils.CheckPasswordHash(password, s.passwordHash) {
		s.log.Warn("reports login rejected")
		return nil, apperror.ErrInvalidPassword
	}

	token, expiresAt, err := s.jwtManager.GenerateAccessToken(ReportsSubject, []string{ScopeReports})
	if err != nil {
		return nil, err
	}

	return &LoginOutput{AccessToken: token, ExpiresAt: expiresAt}, nil
}
