package entity

import "github.com/sangkips/billbook-api/internal/domain/enum"

// Document is a rendered invoice ready for a sink.
type Document struct {
	FileName    string             `json:"file_name"`
	ContentType string             `json:"content_type"`
	Template    enum.PrintTemplate `json:"template"`
	Content     []byte             `json:"-"`

	// Receipt is set for thermal documents so printer sinks can emit ESC/POS.
	Receipt *Receipt `json:"-"`
}
