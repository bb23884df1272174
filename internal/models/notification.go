// internal/models/notification.go
package models

// Dossier is a rendered lead ready for dispatch.
type Dossier struct {
	Category   Category `json:"category"`
	Subject    string   `json:"subject"`
	Body       string   `json:"body"`
	Recipients []string `json:"recipients"`
}

// Message is the outbound email handed to a sender.
type Message struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`

	// Category tags fan-out publications; it is not part of the email.
	Category Category `json:"-"`
}
