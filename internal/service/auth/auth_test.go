package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/apperrors"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/models"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/repository/postgres"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/testutil"
)

func Test_Auth(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	// Begin new db transaction and create new AuthService
	// Rollback transaction when test stops
	withTx := func(dbpool *pgxpool.Pool, t *testing.T, fn func(s *AuthService)) {
		testutil.InTx(dbpool, t, func(tx pgx.Tx) {
			userRepo := &postgres.UserRepo{DB: tx}

			s, err := NewService(Config{SecretKey: "test-secret-key"}, userRepo)
			require.NoError(t, err, "auth service could't be started", err)

			fn(s)
		})
	}

	t.Run("new auth service defaults", func(t *testing.T) {
		s, err := NewService(Config{SecretKey: "key"}, &postgres.UserRepo{})
		require.NoError(t, err, "auth service should be created without errors")

		require.Equal(t, BcryptHasher{}, s.hasher, "default hasher should be set to BcryptHasher")
		require.Equal(t, defaultAccessTokenTTL, s.token.accessTTL, "default access TTL should be set")
	})

	t.Run("fail without secret key", func(t *testing.T) {
		_, err := NewService(Config{}, &postgres.UserRepo{})

		require.Error(t, err, "empty secret key must be rejected")
	})

	t.Run("Register", func(t *testing.T) {
		t.Run("new user ok", func(t *testing.T) {
			withTx(pg.Pool, t, func(s *AuthService) {
				user, token, err := s.Register(t.Context(), "Andi Wijaya", "andi@example.com", "pwd")

				require.NoError(t, err, "registering new user should be ok")
				require.NotEmpty(t, token, "access token should not be empty")
				require.Equal(t, models.RoleStudent, user.Role, "registration always creates students")
				require.NotEqual(t, "pwd", user.HashedPassword, "password must be stored hashed")
			})
		})

		t.Run("fail if user exists", func(t *testing.T) {
			withTx(pg.Pool, t, func(s *AuthService) {
				_, _, err := s.Register(t.Context(), "Andi Wijaya", "andi@example.com", "pwd")
				require.NoError(t, err, "no error has should happen if user not exists")

				_, _, err = s.Register(t.Context(), "Other Name", "andi@example.com", "other-pwd")

				require.Error(t, err)
				require.ErrorIs(t, err, apperrors.ErrUserAlreadyExists)
			})
		})
	})

	t.Run("Login", func(t *testing.T) {
		t.Run("valid credentials ok", func(t *testing.T) {
			withTx(pg.Pool, t, func(s *AuthService) {
				_, _, err := s.Register(t.Context(), "Andi Wijaya", "andi@example.com", "pwd")
				require.NoError(t, err)

				user, token, err := s.Login(t.Context(), "andi@example.com", "pwd")

				require.NoError(t, err)
				require.NotEmpty(t, token)
				require.Equal(t, "andi@example.com", user.Email)
			})
		})

		t.Run("wrong password", func(t *testing.T) {
			withTx(pg.Pool, t, func(s *AuthService) {
				_, _, err := s.Register(t.Context(), "Andi Wijaya", "andi@example.com", "pwd")
				require.NoError(t, err)

				_, _, err = s.Login(t.Context(), "andi@example.com", "wrong")

				require.ErrorIs(t, err, apperrors.ErrUserNotFound)
			})
		})

		t.Run("unknown email", func(t *testing.T) {
			withTx(pg.Pool, t, func(s *AuthService) {
				_, _, err := s.Login(t.Context(), "nobody@example.com", "pwd")

				require.ErrorIs(t, err, apperrors.ErrUserNotFound, "unknown email and wrong password should be indistinguishable")
			})
		})
	})

	t.Run("Auth", func(t *testing.T) {
		t.Run("valid bearer token", func(t *testing.T) {
			withTx(pg.Pool, t, func(s *AuthService) {
				registered, token, err := s.Register(t.Context(), "Andi Wijaya", "andi@example.com", "pwd")
				require.NoError(t, err)

				r := httptest.NewRequest("GET", "/users/me", nil)
				r.Header.Set("Authorization", "Bearer "+token)

				user, err := s.Auth(t.Context(), r)

				require.NoError(t, err)
				require.Equal(t, registered.ID, user.ID)
			})
		})

		t.Run("missing header", func(t *testing.T) {
			withTx(pg.Pool, t, func(s *AuthService) {
				r := httptest.NewRequest("GET", "/users/me", nil)

				_, err := s.Auth(t.Context(), r)

				require.Error(t, err)
			})
		})

		t.Run("garbage token", func(t *testing.T) {
			withTx(pg.Pool, t, func(s *AuthService) {
				r := httptest.NewRequest("GET", "/users/me", nil)
				r.Header.Set("Authorization", "Bearer not-a-token")

				_, err := s.Auth(t.Context(), r)

				require.Error(t, err)
			})
		})
	})
}
