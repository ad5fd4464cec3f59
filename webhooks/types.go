package webhooks

// WebhookEvent represents the main webhook payload from the Cloud API
type WebhookEvent struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

// Entry represents one business-account entry in the webhook
type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes,omitempty"`
}

// Change represents a field change event
type Change struct {
	Field string `json:"field"`
	Value Value  `json:"value"`
}

// Value carries the user messages when the change field is "messages"
type Value struct {
	MessagingProduct string    `json:"messaging_product,omitempty"`
	Metadata         Metadata  `json:"metadata,omitempty"`
	Messages         []Message `json:"messages,omitempty"`
}

// Metadata identifies which phone number the delivery is addressed to
type Metadata struct {
	DisplayPhoneNumber string `json:"display_phone_number,omitempty"`
	PhoneNumberID      string `json:"phone_number_id,omitempty"`
}

// Message represents one user-sent message
type Message struct {
	From      string `json:"from"`
	ID        string `json:"id,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Type      string `json:"type"`
	Text      *Text  `json:"text,omitempty"`
	Audio     *Audio `json:"audio,omitempty"`
}

// Text is the payload of a text message
type Text struct {
	Body string `json:"body"`
}

// Audio is the payload of a voice-note message
type Audio struct {
	ID       string `json:"id"`
	MimeType string `json:"mime_type,omitempty"`
}
