package request

// LoginRequest represents a reports login request
type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}
