package session

import (
	"context"
	"testing"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/jlasky/marquee/internal/domain"
)

// fakeBackend implements domain.CatalogueBackend with overridable behavior
type fakeBackend struct {
	domain.CatalogueBackend

	refresh       func(ctx context.Context) (string, error)
	login         func(ctx context.Context, in domain.LoginInput) (string, error)
	register      func(ctx context.Context, in domain.RegisterInput) error
	logout        func(ctx context.Context, userID string) error
	updateProfile func(ctx context.Context, in domain.ProfileUpdate) (domain.Identity, error)
	profile       func(ctx context.Context) (domain.Identity, error)
}

func (f *fakeBackend) Refresh(ctx context.Context) (string, error) { return f.refresh(ctx) }

func (f *fakeBackend) Login(ctx context.Context, in domain.LoginInput) (string, error) {
	return f.login(ctx, in)
}

func (f *fakeBackend) Register(ctx context.Context, in domain.RegisterInput) error {
	return f.register(ctx, in)
}

func (f *fakeBackend) Logout(ctx context.Context, userID string) error {
	return f.logout(ctx, userID)
}

func (f *fakeBackend) UpdateProfile(ctx context.Context, in domain.ProfileUpdate) (domain.Identity, error) {
	return f.updateProfile(ctx, in)
}

func (f *fakeBackend) Profile(ctx context.Context) (domain.Identity, error) {
	return f.profile(ctx)
}

func bearerFor(t *testing.T, claims jwtlib.MapClaims) string {
	t.Helper()
	tok := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func adaClaims() jwtlib.MapClaims {
	return jwtlib.MapClaims{
		"UserId":    "u-42",
		"FirstName": "Ada",
		"Email":     "ada@example.com",
		"Role":      "ADMIN",
	}
}

func TestRecover(t *testing.T) {
	t.Run("starts unknown", func(t *testing.T) {
		m := NewManager(&fakeBackend{}, nil)
		require.Equal(t, StateUnknown, m.State())
		_, ok := m.Current()
		require.False(t, ok)
	})

	t.Run("success transitions to authenticated with decoded claims", func(t *testing.T) {
		b := &fakeBackend{refresh: func(ctx context.Context) (string, error) {
			return bearerFor(t, adaClaims()), nil
		}}
		m := NewManager(b, nil)

		require.Equal(t, StateAuthenticated, m.Recover(context.Background()))

		id, ok := m.Current()
		require.True(t, ok)
		require.Equal(t, "u-42", id.ID)
		require.Equal(t, "Ada", id.DisplayName)
		require.Equal(t, "ada@example.com", id.Email)
	})

	t.Run("refresh failure lands anonymous without error", func(t *testing.T) {
		b := &fakeBackend{refresh: func(ctx context.Context) (string, error) {
			return "", domain.ErrServerOffline
		}}
		m := NewManager(b, nil)

		require.Equal(t, StateAnonymous, m.Recover(context.Background()))
		_, ok := m.Current()
		require.False(t, ok)
	})

	t.Run("undecodable token lands anonymous without error", func(t *testing.T) {
		b := &fakeBackend{refresh: func(ctx context.Context) (string, error) {
			return "garbage", nil
		}}
		m := NewManager(b, nil)

		require.Equal(t, StateAnonymous, m.Recover(context.Background()))
	})
}

func TestLogin(t *testing.T) {
	t.Run("identity equals the decoded claims of the returned bearer", func(t *testing.T) {
		b := &fakeBackend{login: func(ctx context.Context, in domain.LoginInput) (string, error) {
			require.Equal(t, "ada@example.com", in.Email)
			return bearerFor(t, adaClaims()), nil
		}}
		m := NewManager(b, nil)

		err := m.Login(context.Background(), domain.LoginInput{Email: "ada@example.com", Password: "pw"})
		require.NoError(t, err)
		require.Equal(t, StateAuthenticated, m.State())

		id, ok := m.Current()
		require.True(t, ok)
		require.Equal(t, "u-42", id.ID)
		require.Equal(t, "ADMIN", id.Role)
	})

	t.Run("rejection stays anonymous and keeps the backend message", func(t *testing.T) {
		b := &fakeBackend{login: func(ctx context.Context, in domain.LoginInput) (string, error) {
			return "", domain.ErrAuthenticationFailed
		}}
		m := NewManager(b, nil)

		err := m.Login(context.Background(), domain.LoginInput{Email: "x", Password: "y"})
		require.ErrorIs(t, err, domain.ErrAuthenticationFailed)
		require.Equal(t, StateAnonymous, m.State())
	})

	t.Run("rejection leaves an existing session untouched", func(t *testing.T) {
		accept := true
		b := &fakeBackend{login: func(ctx context.Context, in domain.LoginInput) (string, error) {
			if !accept {
				return "", domain.ErrAuthenticationFailed
			}
			return bearerFor(t, adaClaims()), nil
		}}
		m := NewManager(b, nil)

		require.NoError(t, m.Login(context.Background(), domain.LoginInput{Email: "ada@example.com", Password: "pw"}))

		accept = false
		err := m.Login(context.Background(), domain.LoginInput{Email: "ada@example.com", Password: "typo"})
		require.ErrorIs(t, err, domain.ErrAuthenticationFailed)

		require.Equal(t, StateAuthenticated, m.State())
		id, ok := m.Current()
		require.True(t, ok)
		require.Equal(t, "u-42", id.ID)
	})
}

func TestRegister(t *testing.T) {
	t.Run("password mismatch never issues a network call", func(t *testing.T) {
		called := false
		b := &fakeBackend{register: func(ctx context.Context, in domain.RegisterInput) error {
			called = true
			return nil
		}}
		m := NewManager(b, nil)

		err := m.Register(context.Background(), domain.RegisterInput{
			Password:        "one",
			ConfirmPassword: "two",
		})
		require.ErrorIs(t, err, domain.ErrPasswordMismatch)
		require.False(t, called)
	})

	t.Run("success does not authenticate the caller", func(t *testing.T) {
		b := &fakeBackend{register: func(ctx context.Context, in domain.RegisterInput) error {
			return nil
		}}
		m := NewManager(b, nil)

		err := m.Register(context.Background(), domain.RegisterInput{
			FirstName:       "Ada",
			Email:           "ada@example.com",
			Password:        "pw",
			ConfirmPassword: "pw",
		})
		require.NoError(t, err)
		_, ok := m.Current()
		require.False(t, ok)
	})
}

func TestLogout(t *testing.T) {
	t.Run("ends anonymous even when the backend errors", func(t *testing.T) {
		var loggedOutUser string
		b := &fakeBackend{
			refresh: func(ctx context.Context) (string, error) {
				return bearerFor(t, adaClaims()), nil
			},
			logout: func(ctx context.Context, userID string) error {
				loggedOutUser = userID
				return domain.ErrServerOffline
			},
		}
		m := NewManager(b, nil)
		m.Recover(context.Background())

		m.Logout(context.Background())

		require.Equal(t, "u-42", loggedOutUser)
		require.Equal(t, StateAnonymous, m.State())
		_, ok := m.Current()
		require.False(t, ok)
	})

	t.Run("is a no-op call upstream when already anonymous", func(t *testing.T) {
		called := false
		b := &fakeBackend{logout: func(ctx context.Context, userID string) error {
			called = true
			return nil
		}}
		m := NewManager(b, nil)

		m.Logout(context.Background())
		require.False(t, called)
		require.Equal(t, StateAnonymous, m.State())
	})
}

func TestUpdateIdentity(t *testing.T) {
	t.Run("requires authentication", func(t *testing.T) {
		m := NewManager(&fakeBackend{}, nil)
		err := m.UpdateIdentity(context.Background(), domain.ProfileUpdate{})
		require.ErrorIs(t, err, domain.ErrNotAuthenticated)
	})

	t.Run("merges accepted fields into the current identity", func(t *testing.T) {
		newEmail := "ada@newmail.com"
		b := &fakeBackend{
			refresh: func(ctx context.Context) (string, error) {
				return bearerFor(t, adaClaims()), nil
			},
			updateProfile: func(ctx context.Context, in domain.ProfileUpdate) (domain.Identity, error) {
				return domain.Identity{
					Email:           *in.Email,
					FavouriteGenres: []domain.Genre{{GenreID: 28, GenreName: "Action"}},
				}, nil
			},
		}
		m := NewManager(b, nil)
		m.Recover(context.Background())

		err := m.UpdateIdentity(context.Background(), domain.ProfileUpdate{Email: &newEmail})
		require.NoError(t, err)

		id, ok := m.Current()
		require.True(t, ok)
		require.Equal(t, "ada@newmail.com", id.Email)
		require.Equal(t, "u-42", id.ID, "token-decoded fields survive the merge")
		require.Len(t, id.FavouriteGenres, 1)
	})
}

func TestSubscribe(t *testing.T) {
	b := &fakeBackend{refresh: func(ctx context.Context) (string, error) {
		return bearerFor(t, adaClaims()), nil
	}}
	m := NewManager(b, nil)
	ch := m.Subscribe()

	m.Recover(context.Background())

	select {
	case <-ch:
	default:
		t.Fatal("expected a transition notification")
	}
}
