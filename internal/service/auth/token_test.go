package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/models"
)

func Test_TokenManager(t *testing.T) {
	t.Parallel()

	testUser := models.User{
		ID:   uuid.New(),
		Name: "testuser",
		Role: models.RoleStudent,
	}

	manager := tokenManager{
		key:       "test-secret-key",
		alg:       jwt.GetSigningMethod("HS256"),
		accessTTL: 15 * time.Minute,
	}

	t.Run("generate ok", func(t *testing.T) {
		token, err := manager.Generate(testUser)

		require.NoError(t, err)
		assert.NotEmpty(t, token, "access token should not be empty")
	})

	t.Run("access token has correct claims", func(t *testing.T) {
		tokenString, err := manager.Generate(testUser)
		require.NoError(t, err)

		// Parse and verify the access token
		token, err := jwt.ParseWithClaims(tokenString, &AccessTokenClaims{}, func(token *jwt.Token) (any, error) {
			return []byte("test-secret-key"), nil
		})
		require.NoError(t, err)
		require.True(t, token.Valid, "access token should be valid")

		claims, ok := token.Claims.(*AccessTokenClaims)
		require.True(t, ok, "claims should be of type AccessTokenClaims")
		assert.Equal(t, testUser.ID, claims.UserID, "user ID in token should match")
		assert.Equal(t, models.RoleStudent, claims.Role, "role should be carried in the token")
		assert.NotEmpty(t, claims.ID, "token has to has jti")
		assert.WithinDuration(t, time.Now(), claims.IssuedAt.Time, time.Second, "issued at should be close to now")
		assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt.Time, time.Second, "expires at should be 15 minutes from now")
	})

	t.Run("parse ok", func(t *testing.T) {
		tokenString, err := manager.Generate(testUser)
		require.NoError(t, err)

		claims, err := manager.Parse(tokenString)

		require.NoError(t, err)
		assert.Equal(t, testUser.ID, claims.UserID)
	})

	t.Run("parse fails with wrong key", func(t *testing.T) {
		tokenString, err := manager.Generate(testUser)
		require.NoError(t, err)

		other := tokenManager{key: "other-key", alg: manager.alg, accessTTL: manager.accessTTL}
		_, err = other.Parse(tokenString)

		require.Error(t, err, "token signed with a different key must not parse")
	})

	t.Run("parse fails when expired", func(t *testing.T) {
		expired := tokenManager{key: manager.key, alg: manager.alg, accessTTL: -time.Minute}
		tokenString, err := expired.Generate(testUser)
		require.NoError(t, err)

		_, err = manager.Parse(tokenString)

		require.Error(t, err, "expired token must not parse")
	})

	t.Run("parse rejects none algorithm", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, AccessTokenClaims{UserID: testUser.ID})
		tokenString, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = manager.Parse(tokenString)

		require.Error(t, err, "tokens without a signature must be rejected")
	})
}
