package midtrans

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/apperrors"
	"github.com/Frhaanaziz/tabungan-wisata-backend/internal/logger"
)

const defaultRequestTimeout = 5 * time.Second

// Config holds everything the gateway integration needs. It is built once
// at startup and injected; nothing here reads the process environment.
type Config struct {
	// Base URL of the Midtrans API, e.g. https://app.sandbox.midtrans.com
	BaseURL string

	// Merchant server key. Secret: used for Basic auth and webhook
	// signature checks, must never be logged.
	ServerKey string
}

type Client struct {
	baseURL   string
	serverKey string

	client *http.Client
	logger logger.Logger
}

func NewClient(cfg Config, l logger.Logger) *Client {
	return &Client{
		baseURL:   cfg.BaseURL,
		serverKey: cfg.ServerKey,
		client:    &http.Client{},
		logger:    l,
	}
}

type TransactionDetails struct {
	OrderID     string `json:"order_id"`
	GrossAmount int64  `json:"gross_amount"`
}

type CustomerDetails struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email"`
}

type ItemDetail struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
}

type CreateTransactionRequest struct {
	// Internal payment id, reused as the gateway order id
	PaymentID uuid.UUID

	GrossAmount int64
	Customer    CustomerDetails
	Items       []ItemDetail

	// Frontend origin the gateway redirects back to after checkout
	BaseURL string
}

// Transaction is the gateway's hosted-checkout handle merged with the
// internal payment id for client consumption.
type Transaction struct {
	PaymentID   uuid.UUID `json:"paymentId"`
	Token       string    `json:"token"`
	RedirectURL string    `json:"redirect_url"`
}

// CreateTransaction opens a hosted Snap transaction at the gateway.
// Any non-201 answer is fatal for the in-flight payment creation and is
// reported as apperrors.ErrGateway.
func (c *Client) CreateTransaction(ctx context.Context, arg CreateTransactionRequest) (Transaction, error) {
	type callbacks struct {
		Finish  string `json:"finish"`
		Error   string `json:"error"`
		Pending string `json:"pending"`
	}
	type creditCard struct {
		Secure bool `json:"secure"`
	}
	type snapRequest struct {
		TransactionDetails TransactionDetails `json:"transaction_details"`
		CustomerDetails    CustomerDetails    `json:"customer_details"`
		ItemDetails        []ItemDetail       `json:"item_details,omitempty"`
		CreditCard         creditCard         `json:"credit_card"`
		Callbacks          callbacks          `json:"callbacks"`
	}

	var transaction Transaction

	ctx, cancel := context.WithTimeout(ctx, defaultRequestTimeout)
	defer cancel()

	body := &bytes.Buffer{}
	err := json.NewEncoder(body).Encode(snapRequest{
		TransactionDetails: TransactionDetails{
			OrderID:     arg.PaymentID.String(),
			GrossAmount: arg.GrossAmount,
		},
		CustomerDetails: arg.Customer,
		ItemDetails:     arg.Items,
		CreditCard:      creditCard{Secure: true},
		Callbacks: callbacks{
			Finish:  arg.BaseURL + "/payments/success",
			Error:   arg.BaseURL + "/payments/failed",
			Pending: arg.BaseURL + "/payments/pending",
		},
	})
	if err != nil {
		return transaction, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/snap/v1/transactions", body)
	if err != nil {
		return transaction, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(c.serverKey+":")))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return transaction, fmt.Errorf("%w: %w", apperrors.ErrGateway, err)
	}
	defer resp.Body.Close() // nolint:errcheck

	if resp.StatusCode != http.StatusCreated {
		c.logger.Warn("Gateway rejected transaction", "status_code", resp.StatusCode, "order_id", arg.PaymentID)
		return transaction, fmt.Errorf("%w: unexpected status code %d", apperrors.ErrGateway, resp.StatusCode)
	}

	err = json.NewDecoder(resp.Body).Decode(&transaction)
	if err != nil {
		return transaction, fmt.Errorf("%w: failed to decode response: %w", apperrors.ErrGateway, err)
	}
	transaction.PaymentID = arg.PaymentID

	c.logger.Debug("Gateway transaction created", "order_id", arg.PaymentID)
	return transaction, nil
}
