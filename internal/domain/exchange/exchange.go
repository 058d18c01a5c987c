// Package exchange models one persisted chat turn.
package exchange

import (
	"time"

	"github.com/google/uuid"
)

// Exchange is a chat query and the answer given to it.
type Exchange struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id,omitempty"`
	Query     string    `json:"query"`
	Language  string    `json:"language"`
	Intent    string    `json:"intent"`
	Category  string    `json:"category,omitempty"`
	ResultIDs []string  `json:"result_ids"`
	Answer    string    `json:"answer"`
	Provider  string    `json:"provider,omitempty"`
	Model     string    `json:"model,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// New creates an exchange with a fresh ID stamped at now.
func New(sessionID, query string, now time.Time) Exchange {
	return Exchange{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Query:     query,
		CreatedAt: now.UTC(),
	}
}
