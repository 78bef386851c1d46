// Package session keeps the per-operator state of the register: the check-in
// draft and the staff login flag.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mamadbah2/portaria/internal/domain/models"
)

// ErrSessionNotFound is returned when a session ID is unknown or expired.
var ErrSessionNotFound = errors.New("session not found")

// Session is the state carried between operator interactions.
type Session struct {
	ID        string       `json:"id"`
	Draft     models.Draft `json:"draft"`
	LoggedIn  bool         `json:"logged_in"`
	Operator  string       `json:"operator,omitempty"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// New returns a logged-out session with an empty draft.
func New() *Session {
	return &Session{
		ID:        uuid.NewString(),
		Draft:     models.NewDraft(),
		UpdatedAt: time.Now(),
	}
}

// ResetDraft restores the check-in form defaults.
func (s *Session) ResetDraft() {
	s.Draft = models.NewDraft()
}

// LogIn marks the session as authenticated for operator.
func (s *Session) LogIn(operator string) {
	s.LoggedIn = true
	s.Operator = operator
}

// LogOut drops the authentication unconditionally.
func (s *Session) LogOut() {
	s.LoggedIn = false
	s.Operator = ""
}

// Store persists sessions between requests.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, sess *Session) error
	Delete(ctx context.Context, id string) error
}
