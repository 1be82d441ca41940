package store

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sixcities/internal/api"
	"sixcities/internal/domain"
)

var testAuthInfo = domain.AuthInfo{
	UserProfile: domain.UserProfile{Name: "Oliver", Email: "oliver@example.com", AvatarURL: "img/avatar.jpg"},
	Token:       "T1",
}

func TestAuth_InitialStatusUnknown(t *testing.T) {
	s, _, _ := newTestStore(t)
	assert.Equal(t, domain.AuthUnknown, s.Auth.Status())
	assert.False(t, s.Auth.IsAuthorized())
}

func TestAuth_CheckAuthSuccess(t *testing.T) {
	s, m, tokens := newTestStore(t)
	ctx := context.Background()
	m.On("CheckAuth", mock.Anything).Return(testAuthInfo, nil)

	require.NoError(t, s.Auth.CheckAuth(ctx))

	st := s.Auth.State()
	assert.Equal(t, domain.AuthAuth, st.Status)
	require.NotNil(t, st.User)
	assert.Equal(t, testAuthInfo.Profile(), *st.User)
	tok, err := tokens.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "T1", tok)
}

func TestAuth_CheckAuthFailureClearsToken(t *testing.T) {
	s, m, tokens := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, tokens.SetToken(ctx, "stale"))
	m.On("CheckAuth", mock.Anything).Return(domain.AuthInfo{}, &api.Error{StatusCode: http.StatusUnauthorized})

	require.Error(t, s.Auth.CheckAuth(ctx))

	assert.Equal(t, domain.AuthNoAuth, s.Auth.Status())
	assert.Nil(t, s.Auth.State().User)
	tok, err := tokens.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestAuth_LoginSuccessPublishes(t *testing.T) {
	s, m, tokens := newTestStore(t)
	ctx := context.Background()
	m.On("Login", mock.Anything, "oliver@example.com", "secret1").Return(testAuthInfo, nil)

	var events []Event
	s.Bus.On(EventLoggedIn, func(e Event) { events = append(events, e) })

	require.NoError(t, s.Auth.Login(ctx, "oliver@example.com", "secret1"))

	assert.True(t, s.Auth.IsAuthorized())
	tok, _ := tokens.Token(ctx)
	assert.Equal(t, "T1", tok)
	require.Len(t, events, 1)
	assert.Equal(t, "Oliver", events[0].User.Name)
}

func TestAuth_LoginFailureFallbackMessage(t *testing.T) {
	s, m, _ := newTestStore(t)
	m.On("Login", mock.Anything, "a@b.c", "x").Return(domain.AuthInfo{}, &api.Error{StatusCode: http.StatusBadRequest})

	require.Error(t, s.Auth.Login(context.Background(), "a@b.c", "x"))

	st := s.Auth.State()
	assert.Equal(t, "Failed to login", st.Error)
	assert.Equal(t, domain.AuthUnknown, st.Status, "prior status is kept")
	assert.False(t, st.Loading)

	s.Auth.ClearError()
	assert.Empty(t, s.Auth.State().Error)
}

func TestAuth_LoginFailureServerMessage(t *testing.T) {
	s, m, _ := newTestStore(t)
	m.On("CheckAuth", mock.Anything).Return(domain.AuthInfo{}, &api.Error{StatusCode: http.StatusUnauthorized})
	m.On("Login", mock.Anything, "a@b.c", "x").
		Return(domain.AuthInfo{}, &api.Error{StatusCode: http.StatusBadRequest, Message: "Invalid password"})

	_ = s.Auth.CheckAuth(context.Background())
	require.Error(t, s.Auth.Login(context.Background(), "a@b.c", "x"))

	st := s.Auth.State()
	assert.Equal(t, "Invalid password", st.Error)
	assert.Equal(t, domain.AuthNoAuth, st.Status)
}

func TestAuth_LogoutAlwaysResets(t *testing.T) {
	s, m, tokens := newTestStore(t)
	ctx := context.Background()
	m.On("Login", mock.Anything, mock.Anything, mock.Anything).Return(testAuthInfo, nil)
	m.On("Favorites", mock.Anything).Return([]domain.Offer{offer("A", "Paris", 100, 4, true)}, nil)
	m.On("Logout", mock.Anything).Return(errors.New("connection reset"))

	require.NoError(t, s.Auth.Login(ctx, "oliver@example.com", "secret1"))
	require.NoError(t, s.Favorites.Fetch(ctx))
	require.Equal(t, 1, s.Favorites.Count())

	err := s.Auth.Logout(ctx)
	assert.Error(t, err)

	st := s.Auth.State()
	assert.Equal(t, domain.AuthNoAuth, st.Status)
	assert.Nil(t, st.User)
	tok, _ := tokens.Token(ctx)
	assert.Empty(t, tok)
	assert.Zero(t, s.Favorites.Count(), "favorites are cleared on logout")
}
