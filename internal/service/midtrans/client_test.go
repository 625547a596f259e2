package midtrans

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/apperrors"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/logger"
)

func TestSignature(t *testing.T) {
	t.Parallel()

	t.Run("known digest", func(t *testing.T) {
		// SHA-512 over the plain concatenation of the four parts
		got := Signature("order-1", "200", "50000.00", "server-key")

		require.Len(t, got, 128, "hex encoded sha512 is 128 chars")
		require.Equal(t, got, Signature("order-1", "200", "50000.00", "server-key"), "same input same digest")
		require.NotEqual(t, got, Signature("order-2", "200", "50000.00", "server-key"))
		require.NotEqual(t, got, Signature("order-1", "200", "50000.00", "other-key"))
	})

	t.Run("verify", func(t *testing.T) {
		c := NewClient(Config{ServerKey: "server-key"}, logger.NewNoOpLogger())
		valid := Signature("order-1", "200", "50000.00", "server-key")

		require.True(t, c.VerifySignature("order-1", "200", "50000.00", valid))
		require.False(t, c.VerifySignature("order-1", "200", "50000.00", "tampered"))
		require.False(t, c.VerifySignature("order-1", "200", "60000.00", valid), "amount is part of the signature")
	})
}

func TestCreateTransaction(t *testing.T) {
	t.Parallel()

	paymentID := uuid.New()

	t.Run("create ok", func(t *testing.T) {
		var gotPath, gotAuth string
		var gotBody map[string]any

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotAuth = r.Header.Get("Authorization")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"token":        "snap-token",
				"redirect_url": "https://app.sandbox.midtrans.com/snap/v4/redirection/snap-token",
			})
		}))
		t.Cleanup(srv.Close)

		c := NewClient(Config{BaseURL: srv.URL, ServerKey: "server-key"}, logger.NewNoOpLogger())

		transaction, err := c.CreateTransaction(t.Context(), CreateTransactionRequest{
			PaymentID:   paymentID,
			GrossAmount: 50000,
			Customer:    CustomerDetails{FirstName: "Dewi", LastName: "Lestari", Email: "dewi@example.com"},
			BaseURL:     "https://frontend.example.com",
		})

		require.NoError(t, err)
		require.Equal(t, "snap-token", transaction.Token)
		require.Equal(t, paymentID, transaction.PaymentID, "internal id should be merged into the response")

		require.Equal(t, "/snap/v1/transactions", gotPath)
		wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("server-key:"))
		require.Equal(t, wantAuth, gotAuth, "server key goes out as basic auth user without password")

		details := gotBody["transaction_details"].(map[string]any)
		require.Equal(t, paymentID.String(), details["order_id"], "payment id doubles as gateway order id")
		require.Equal(t, float64(50000), details["gross_amount"])

		callbacks := gotBody["callbacks"].(map[string]any)
		require.Equal(t, "https://frontend.example.com/payments/success", callbacks["finish"])
	})

	t.Run("gateway rejects", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		t.Cleanup(srv.Close)

		c := NewClient(Config{BaseURL: srv.URL, ServerKey: "wrong-key"}, logger.NewNoOpLogger())

		_, err := c.CreateTransaction(t.Context(), CreateTransactionRequest{PaymentID: paymentID, GrossAmount: 50000})

		require.ErrorIs(t, err, apperrors.ErrGateway)
	})

	t.Run("gateway unreachable", func(t *testing.T) {
		c := NewClient(Config{BaseURL: "http://127.0.0.1:1", ServerKey: "key"}, logger.NewNoOpLogger())

		_, err := c.CreateTransaction(t.Context(), CreateTransactionRequest{PaymentID: paymentID, GrossAmount: 50000})

		require.ErrorIs(t, err, apperrors.ErrGateway)
	})
}
