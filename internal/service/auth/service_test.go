package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mamadbah2/portaria/internal/domain/models"
	"github.com/mamadbah2/portaria/internal/repository"
	"github.com/mamadbah2/portaria/internal/repository/memory"
	"github.com/mamadbah2/portaria/internal/service/session"
)

type failingCells struct{}

func (failingCells) ReadCell(context.Context, int, repository.Column) (string, error) {
	return "", errors.Join(models.ErrStoreRead, errors.New("timeout"))
}

func newStore(username, hash string) *memory.Store {
	store := memory.New(time.UTC)
	store.SetCredentials(username, hash)
	return store
}

func TestHashPasswordIsSHA256Hex(t *testing.T) {
	assert.Equal(t, "5e884898da28047151d0e56f8dc6292773603d0d6aabbdd62a11ef721d1542d8", HashPassword("password"))
}

func TestLoginWithCorrectPassword(t *testing.T) {
	svc := NewService(newStore("portaria", HashPassword("cachoeira")), nil)
	sess := session.New()

	require.NoError(t, svc.Login(context.Background(), sess, "portaria", "cachoeira"))
	assert.True(t, sess.LoggedIn)
	assert.Equal(t, "portaria", sess.Operator)
}

func TestLoginRejectsAnyOtherPassword(t *testing.T) {
	svc := NewService(newStore("portaria", HashPassword("cachoeira")), nil)

	for _, attempt := range []string{"", "Cachoeira", "cachoeira ", "cachoeir", HashPassword("cachoeira")} {
		sess := session.New()
		err := svc.Login(context.Background(), sess, "portaria", attempt)
		assert.True(t, errors.Is(err, models.ErrAuth), attempt)
		assert.False(t, sess.LoggedIn, attempt)
	}
}

func TestLoginSameErrorForBadUsername(t *testing.T) {
	svc := NewService(newStore("portaria", HashPassword("cachoeira")), nil)
	sess := session.New()

	errUser := svc.Login(context.Background(), sess, "admin", "cachoeira")
	errPass := svc.Login(context.Background(), sess, "portaria", "nope")
	assert.Equal(t, errUser, errPass)
	assert.False(t, sess.LoggedIn)
}

func TestLoginNeverUnlocksWithEmptyCredentials(t *testing.T) {
	svc := NewService(newStore("", ""), nil)
	sess := session.New()

	err := svc.Login(context.Background(), sess, "", "")
	assert.True(t, errors.Is(err, models.ErrAuth))
	assert.False(t, sess.LoggedIn)
}

func TestLoginAcceptsBcryptDigest(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("cachoeira"), bcrypt.MinCost)
	require.NoError(t, err)
	svc := NewService(newStore("portaria", string(hash)), nil)

	sess := session.New()
	require.NoError(t, svc.Login(context.Background(), sess, "portaria", "cachoeira"))
	assert.True(t, errors.Is(svc.Login(context.Background(), session.New(), "portaria", "x"), models.ErrAuth))
}

func TestLoginSurfacesStoreErrors(t *testing.T) {
	svc := NewService(failingCells{}, nil)
	sess := session.New()

	err := svc.Login(context.Background(), sess, "portaria", "cachoeira")
	assert.True(t, errors.Is(err, models.ErrStoreRead))
	assert.False(t, errors.Is(err, models.ErrAuth))
	assert.False(t, sess.LoggedIn)
}

func TestLogoutIsUnconditional(t *testing.T) {
	svc := NewService(newStore("portaria", HashPassword("x")), nil)
	sess := session.New()

	svc.Logout(sess)
	assert.False(t, sess.LoggedIn)

	sess.LogIn("portaria")
	svc.Logout(sess)
	assert.False(t, sess.LoggedIn)
}
