package notify

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Notification types, matching the toast styles.
const (
	TypeSuccess = "success"
	TypeError   = "error"
	TypeInfo    = "info"
)

// Notification is a toast-style message about something the user did.
type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message,omitempty"`
	Profile   string    `json:"profile,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func New(typ, title, message string) Notification {
	return Notification{
		ID:        uuid.NewString(),
		Type:      typ,
		Title:     title,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

func Success(title, message string) Notification { return New(TypeSuccess, title, message) }
func Failure(title, message string) Notification { return New(TypeError, title, message) }

// ToJSON converts the notification to JSON bytes
func (n Notification) ToJSON() ([]byte, error) {
	return json.Marshal(n)
}

// FromJSON parses a notification published by ToJSON.
func FromJSON(data []byte) (Notification, error) {
	var n Notification
	if err := json.Unmarshal(data, &n); err != nil {
		return Notification{}, err
	}
	return n, nil
}
