package models

// OutboundMessageRequest represents a text message pushed to a WhatsApp
// recipient, such as the scheduled season digest.
type OutboundMessageRequest struct {
	To         string `json:"to" binding:"required"`
	Message    string `json:"message" binding:"required"`
	PreviewURL bool   `json:"preview_url"`
}
