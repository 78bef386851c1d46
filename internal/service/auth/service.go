// Package auth gates the check-out view behind the singleton staff credential.
package auth

import (
	"context"
	"crypto/subtle"

	"go.uber.org/zap"

	"github.com/mamadbah2/portaria/internal/domain/models"
	"github.com/mamadbah2/portaria/internal/repository"
	"github.com/mamadbah2/portaria/internal/service/session"
)

// credentialRow holds the username and password digest.
const credentialRow = 1

// Service moves sessions between the logged-out and logged-in states.
type Service struct {
	creds  repository.CellReader
	logger *zap.Logger
}

// NewService wires the auth gate to the credential cells.
func NewService(creds repository.CellReader, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{creds: creds, logger: logger}
}

// Login checks username and password against the stored pair and marks the
// session as logged in. Any mismatch yields models.ErrAuth; store failures are
// returned as they come.
func (s *Service) Login(ctx context.Context, sess *session.Session, username, password string) error {
	storedUser, err := s.creds.ReadCell(ctx, credentialRow, repository.ColumnUsername)
	if err != nil {
		s.logger.Error("failed to read username cell", zap.Error(err))
		return err
	}
	storedHash, err := s.creds.ReadCell(ctx, credentialRow, repository.ColumnPasswordHash)
	if err != nil {
		s.logger.Error("failed to read password cell", zap.Error(err))
		return err
	}

	userOK := storedUser != "" && subtle.ConstantTimeCompare([]byte(storedUser), []byte(username)) == 1
	passOK := MatchPassword(storedHash, password)
	if !userOK || !passOK {
		s.logger.Warn("staff login rejected", zap.String("username", username))
		return models.ErrAuth
	}

	sess.LogIn(username)
	s.logger.Info("staff logged in", zap.String("username", username))
	return nil
}

// Logout returns the session to the logged-out state.
func (s *Service) Logout(sess *session.Session) {
	if sess.LoggedIn {
		s.logger.Info("staff logged out", zap.String("username", sess.Operator))
	}
	sess.LogOut()
}
