package domain

import "time"

type ToastVariant string

const (
	ToastDefault     ToastVariant = "default"
	ToastDestructive ToastVariant = "destructive"
)

// Toast is a transient, auto-dismissing notification attached to a session.
type Toast struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Variant     ToastVariant `json:"variant"`
	CreatedAt   time.Time    `json:"created_at"`
	ExpiresAt   time.Time    `json:"expires_at"`
}

func (t Toast) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
