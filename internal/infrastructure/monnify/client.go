package monnify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/partycurrency/payment-service/internal/config"
	"github.com/partycurrency/payment-service/internal/domain/models"
	apperrors "github.com/partycurrency/payment-service/internal/errors"
	"github.com/partycurrency/payment-service/pkg/log"
	"github.com/rs/zerolog"
)

// tokenSafetyMargin is subtracted from the provider-reported expiry so a
// token is never used right at its deadline.
const tokenSafetyMargin = 60 * time.Second

// Client wraps the Monnify REST API. All outbound calls go through here so
// the rest of the system never sees the provider's auth scheme or response
// envelope. Network failures and malformed responses are translated into
// *apperrors.ProviderUnavailableError at this boundary.
type Client struct {
	cfg        config.Monnify
	httpClient *http.Client
	logger     *zerolog.Logger

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func NewClient(cfg config.Monnify) *Client {
	l := log.Component("monnify")
	timeout, err := strconv.Atoi(cfg.TimeoutSeconds)
	if err != nil || timeout <= 0 {
		timeout = 30
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Duration(timeout) * time.Second},
		logger:     &l,
	}
}

type envelope struct {
	RequestSuccessful bool            `json:"requestSuccessful"`
	ResponseMessage   string          `json:"responseMessage"`
	ResponseCode      string          `json:"responseCode"`
	ResponseBody      json.RawMessage `json:"responseBody"`
}

type loginBody struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// token returns a cached bearer token, exchanging the merchant credentials
// for a fresh one when the cache is empty or expired.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/api/v1/auth/login", nil)
	if err != nil {
		return "", apperrors.NewProviderUnavailableError("login", err)
	}
	req.SetBasicAuth(c.cfg.APIKey, c.cfg.SecretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperrors.NewProviderUnavailableError("login", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err = json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return "", apperrors.NewProviderUnavailableError("login", err)
	}
	if !env.RequestSuccessful {
		return "", apperrors.NewUnauthorizedError(env.ResponseMessage)
	}

	var body loginBody
	if err = json.Unmarshal(env.ResponseBody, &body); err != nil {
		return "", apperrors.NewProviderUnavailableError("login", err)
	}

	c.accessToken = body.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(body.ExpiresIn)*time.Second - tokenSafetyMargin)
	return c.accessToken, nil
}

// invalidate drops the cached token if it is still the one that just failed,
// so concurrent callers holding a newer token keep it.
func (c *Client) invalidate(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.accessToken == token {
		c.accessToken = ""
	}
}

// call issues one authenticated request. An unauthorized response causes a
// single token refresh and retry, never a permanent failure. UnauthorizedError
// is only the internal retry signal: a credential problem with the provider is
// not the caller's, so whatever survives the retry leaves this boundary as
// ProviderUnavailableError.
func (c *Client) call(ctx context.Context, op, method, path string, payload interface{}) (*envelope, error) {
	env, err := c.callOnce(ctx, op, method, path, payload, false)
	if err == nil {
		return env, nil
	}
	if _, retryable := err.(*apperrors.UnauthorizedError); !retryable {
		return nil, err
	}

	env, err = c.callOnce(ctx, op, method, path, payload, true)
	if err != nil {
		if unauthorized, ok := err.(*apperrors.UnauthorizedError); ok {
			return nil, apperrors.NewProviderUnavailableError(op, unauthorized)
		}
		return nil, err
	}
	return env, nil
}

func (c *Client) callOnce(ctx context.Context, op, method, path string, payload interface{}, refreshed bool) (*envelope, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, apperrors.NewProviderUnavailableError(op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	if err != nil {
		return nil, apperrors.NewProviderUnavailableError(op, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewProviderUnavailableError(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && !refreshed {
		c.invalidate(token)
		return nil, apperrors.NewUnauthorizedError("provider token expired")
	}

	var env envelope
	if err = json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, apperrors.NewProviderUnavailableError(op, err)
	}

	if !env.RequestSuccessful {
		c.logger.Warn().
			Str("op", op).
			Str("code", env.ResponseCode).
			Str("message", env.ResponseMessage).
			Msg("provider declined request")
		return nil, apperrors.NewProviderDeclinedError(env.ResponseCode, env.ResponseMessage)
	}

	return &env, nil
}

// InitTransactionResult is what the rest of the system needs from a
// successful initialization.
type InitTransactionResult struct {
	TransactionReference string `json:"transactionReference"`
	PaymentReference     string `json:"paymentReference"`
	CheckoutURL          string `json:"checkoutUrl"`
}

var defaultPaymentMethods = []string{"CARD", "ACCOUNT_TRANSFER"}

// InitTransaction registers the payment intent with Monnify and returns the
// provider-assigned reference plus the hosted checkout URL.
func (c *Client) InitTransaction(ctx context.Context, tx *models.Transaction, redirectURL string, paymentMethods []string) (*InitTransactionResult, error) {
	if len(paymentMethods) == 0 {
		paymentMethods = defaultPaymentMethods
	}

	amount, _ := tx.Amount.Float64()
	payload := map[string]interface{}{
		"amount":             amount,
		"customerName":       tx.CustomerName,
		"customerEmail":      tx.CustomerEmail,
		"paymentReference":   tx.PaymentReference,
		"paymentDescription": tx.PaymentDescription,
		"currencyCode":       tx.CurrencyCode,
		"contractCode":       tx.ContractCode,
		"redirectUrl":        redirectURL,
		"paymentMethods":     paymentMethods,
	}

	env, err := c.call(ctx, "init-transaction", http.MethodPost, "/api/v1/merchant/transactions/init-transaction", payload)
	if err != nil {
		return nil, err
	}

	var result InitTransactionResult
	if err = json.Unmarshal(env.ResponseBody, &result); err != nil {
		return nil, apperrors.NewProviderUnavailableError("init-transaction", err)
	}
	return &result, nil
}

// QueryResult is the authoritative state of a payment as reported by the
// provider's query endpoint.
type QueryResult struct {
	PaymentStatus        ProviderStatus `json:"paymentStatus"`
	TransactionReference string         `json:"transactionReference"`
	PaymentReference     string         `json:"paymentReference"`
	AmountPaid           json.Number    `json:"amountPaid"`
}

// QueryTransactionStatus asks Monnify for the authoritative status of a
// payment. Callback notifications are only a trigger to call this; their
// payload is never trusted directly.
func (c *Client) QueryTransactionStatus(ctx context.Context, paymentReference string) (*QueryResult, error) {
	path := "/api/v1/merchant/transactions/query?paymentReference=" + url.QueryEscape(paymentReference)
	env, err := c.call(ctx, "query-transaction", http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var result QueryResult
	if err = json.Unmarshal(env.ResponseBody, &result); err != nil {
		return nil, apperrors.NewProviderUnavailableError("query-transaction", err)
	}
	return &result, nil
}

// ReservedAccount are the details of a dedicated virtual account Monnify
// provisions for an event.
type ReservedAccount struct {
	AccountReference string `json:"accountReference"`
	AccountName      string `json:"accountName"`
	AccountNumber    string `json:"accountNumber"`
	AccountBank      string `json:"bankName"`
	AccountCurrency  string `json:"currencyCode"`
	AccountStatus    string `json:"status"`
}

// CreateReservedAccount provisions a virtual account keyed by the event id.
func (c *Client) CreateReservedAccount(ctx context.Context, event *models.Event, customerName, bvn string) (*ReservedAccount, error) {
	payload := map[string]interface{}{
		"accountReference":     event.EventID,
		"accountName":          event.EventName,
		"currencyCode":         "NGN",
		"contractCode":         c.cfg.ContractCode,
		"customerEmail":        event.EventAuthor,
		"customerName":         customerName,
		"bvn":                  bvn,
		"getAllAvailableBanks": true,
	}

	env, err := c.call(ctx, "create-reserved-account", http.MethodPost, "/api/v1/bank-transfer/reserved-accounts", payload)
	if err != nil {
		return nil, err
	}

	var account ReservedAccount
	if err = json.Unmarshal(env.ResponseBody, &account); err != nil {
		return nil, apperrors.NewProviderUnavailableError("create-reserved-account", err)
	}
	return &account, nil
}

// DeleteReservedAccount deallocates a previously reserved virtual account.
func (c *Client) DeleteReservedAccount(ctx context.Context, accountReference string) error {
	path := "/api/v1/bank-transfer/reserved-accounts/" + url.PathEscape(accountReference)
	_, err := c.call(ctx, "delete-reserved-account", http.MethodDelete, path, nil)
	return err
}

// AccountTransaction is one inbound transfer on a reserved account.
type AccountTransaction struct {
	Amount             json.Number `json:"amount"`
	CurrencyCode       string      `json:"currencyCode"`
	PaymentStatus      string      `json:"paymentStatus"`
	PaymentReference   string      `json:"paymentReference"`
	PaymentDescription string      `json:"paymentDescription"`
	PaymentMethod      string      `json:"paymentMethod"`
	CompletedOn        string      `json:"completedOn"`
}

type accountTransactionsBody struct {
	Content []AccountTransaction `json:"content"`
}

// GetReservedAccountTransactions lists the transfers received on a reserved
// account.
func (c *Client) GetReservedAccountTransactions(ctx context.Context, accountReference string, page, size int) ([]AccountTransaction, error) {
	path := fmt.Sprintf("/api/v1/bank-transfer/reserved-accounts/transactions?accountReference=%s&page=%d&size=%d",
		url.QueryEscape(accountReference), page, size)

	env, err := c.call(ctx, "account-transactions", http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var body accountTransactionsBody
	if err = json.Unmarshal(env.ResponseBody, &body); err != nil {
		return nil, apperrors.NewProviderUnavailableError("account-transactions", err)
	}
	return body.Content, nil
}
