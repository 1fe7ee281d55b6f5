// Package mpesa is a client for the Safaricom Daraja STK push API.
package mpesa

import (
	"apex/config"
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

type Config struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	ShortCode      string
	PassKey        string
	CallbackURL    string
	Timeout        time.Duration
}

func ConfigFrom(cfg *config.Config) Config {
	return Config{
		BaseURL:        cfg.MpesaBaseURL,
		ConsumerKey:    cfg.MpesaConsumerKey,
		ConsumerSecret: cfg.MpesaConsumerSecret,
		ShortCode:      cfg.MpesaShortCode,
		PassKey:        cfg.MpesaPassKey,
		CallbackURL:    cfg.MpesaCallbackURL,
		Timeout:        cfg.MpesaTimeout,
	}
}

// APIError is a non-2xx answer from Daraja.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mpesa: status %d: %s %s", e.Status, e.Code, e.Message)
}

type STKPushRequest struct {
	Phone            string
	Amount           float64
	AccountReference string
	Description      string
}

type STKPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
}

type Client struct {
	cfg  Config
	http *resty.Client
	now  func() time.Time

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		cfg: cfg,
		http: resty.New().
			SetBaseURL(cfg.BaseURL).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json"),
		now: time.Now,
	}
}

type errorBody struct {
	RequestID    string `json:"requestId"`
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

func apiError(resp *resty.Response) error {
	e := &APIError{Status: resp.StatusCode(), Message: resp.String()}
	if body, ok := resp.Error().(*errorBody); ok && body.ErrorMessage != "" {
		e.Code = body.ErrorCode
		e.Message = body.ErrorMessage
	}
	return e
}

// accessToken returns a cached OAuth token, fetching a new one a minute
// before the old one expires.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	var out struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   string `json:"expires_in"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBasicAuth(c.cfg.ConsumerKey, c.cfg.ConsumerSecret).
		SetQueryParam("grant_type", "client_credentials").
		SetResult(&out).
		SetError(&errorBody{}).
		Get("/oauth/v1/generate")
	if err != nil {
		return "", errors.Wrap(err, "mpesa: request access token")
	}
	if resp.IsError() {
		return "", apiError(resp)
	}
	if out.AccessToken == "" {
		return "", errors.New("mpesa: empty access token")
	}

	ttl, err := strconv.Atoi(out.ExpiresIn)
	if err != nil || ttl <= 0 {
		ttl = 3599
	}
	c.token = out.AccessToken
	c.tokenExpiry = c.now().Add(time.Duration(ttl)*time.Second - time.Minute)
	return c.token, nil
}

// Password is base64(shortcode + passkey + timestamp).
func (c *Client) Password(timestamp string) string {
	return base64.StdEncoding.EncodeToString([]byte(c.cfg.ShortCode + c.cfg.PassKey + timestamp))
}

// STKPush asks the customer's phone to authorize a payment. The returned
// CheckoutRequestID identifies the asynchronous callback.
func (c *Client) STKPush(ctx context.Context, req STKPushRequest) (*STKPushResponse, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	timestamp := c.now().Format("20060102150405")
	// Daraja only accepts whole shillings
	amount := int64(math.Ceil(req.Amount))

	payload := map[string]any{
		"BusinessShortCode": c.cfg.ShortCode,
		"Password":          c.Password(timestamp),
		"Timestamp":         timestamp,
		"TransactionType":   "CustomerPayBillOnline",
		"Amount":            amount,
		"PartyA":            req.Phone,
		"PartyB":            c.cfg.ShortCode,
		"PhoneNumber":       req.Phone,
		"CallBackURL":       c.cfg.CallbackURL,
		"AccountReference":  req.AccountReference,
		"TransactionDesc":   req.Description,
	}

	var out STKPushResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(payload).
		SetResult(&out).
		SetError(&errorBody{}).
		Post("/mpesa/stkpush/v1/processrequest")
	if err != nil {
		return nil, errors.Wrap(err, "mpesa: stk push")
	}
	if resp.IsError() {
		if resp.StatusCode() == 401 {
			c.invalidateToken()
		}
		return nil, apiError(resp)
	}
	if out.ResponseCode != "0" {
		return &out, &APIError{Status: resp.StatusCode(), Code: out.ResponseCode, Message: out.ResponseDescription}
	}

	log.Printf("[MPESA] STK push accepted: checkout=%s merchant=%s", out.CheckoutRequestID, out.MerchantRequestID)
	return &out, nil
}

func (c *Client) invalidateToken() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}
