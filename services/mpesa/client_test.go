package mpesa

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDaraja struct {
	tokenCalls int32
	lastPush   map[string]any
	pushStatus int
}

func (f *fakeDaraja) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/v1/generate", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.tokenCalls, 1)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "key", user)
		assert.Equal(t, "secret", pass)
		assert.Equal(t, "client_credentials", r.URL.Query().Get("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok123","expires_in":"3599"}`))
	})
	mux.HandleFunc("/mpesa/stkpush/v1/processrequest", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok123", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&f.lastPush))
		w.Header().Set("Content-Type", "application/json")
		if f.pushStatus != 0 {
			w.WriteHeader(f.pushStatus)
			w.Write([]byte(`{"requestId":"r-1","errorCode":"400.002.02","errorMessage":"Bad Request - Invalid PhoneNumber"}`))
			return
		}
		w.Write([]byte(`{"MerchantRequestID":"m-1","CheckoutRequestID":"ws_CO_1","ResponseCode":"0","ResponseDescription":"Success. Request accepted for processing","CustomerMessage":"Success. Request accepted for processing"}`))
	})
	return mux
}

func newTestClient(t *testing.T, f *fakeDaraja) *Client {
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)
	c := NewClient(Config{
		BaseURL:        srv.URL,
		ConsumerKey:    "key",
		ConsumerSecret: "secret",
		ShortCode:      "174379",
		PassKey:        "pass",
		CallbackURL:    "https://example.com/mpesa/callback",
		Timeout:        2 * time.Second,
	})
	c.now = func() time.Time { return time.Date(2026, 3, 15, 10, 4, 5, 0, time.UTC) }
	return c
}

func TestSTKPushSendsDarajaPayload(t *testing.T) {
	f := &fakeDaraja{}
	c := newTestClient(t, f)

	resp, err := c.STKPush(context.Background(), STKPushRequest{
		Phone:            "254712345678",
		Amount:           1499.5,
		AccountReference: "ORD-1",
		Description:      "Payment for Apex Merchandise",
	})
	require.NoError(t, err)
	assert.Equal(t, "ws_CO_1", resp.CheckoutRequestID)
	assert.Equal(t, "m-1", resp.MerchantRequestID)

	assert.Equal(t, "20260315100405", f.lastPush["Timestamp"])
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("174379pass20260315100405")), f.lastPush["Password"])
	assert.Equal(t, "CustomerPayBillOnline", f.lastPush["TransactionType"])
	assert.Equal(t, float64(1500), f.lastPush["Amount"])
	assert.Equal(t, "254712345678", f.lastPush["PartyA"])
	assert.Equal(t, "174379", f.lastPush["PartyB"])
	assert.Equal(t, "https://example.com/mpesa/callback", f.lastPush["CallBackURL"])
}

func TestAccessTokenIsCached(t *testing.T) {
	f := &fakeDaraja{}
	c := newTestClient(t, f)

	for i := 0; i < 3; i++ {
		_, err := c.STKPush(context.Background(), STKPushRequest{Phone: "254712345678", Amount: 10})
		require.NoError(t, err)
	}
	assert.EqualValues(t, 1, atomic.LoadInt32(&f.tokenCalls))
}

func TestSTKPushSurfacesAPIErrors(t *testing.T) {
	f := &fakeDaraja{pushStatus: http.StatusBadRequest}
	c := newTestClient(t, f)

	_, err := c.STKPush(context.Background(), STKPushRequest{Phone: "254700000000", Amount: 10})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "400.002.02", apiErr.Code)
	assert.Contains(t, apiErr.Message, "Invalid PhoneNumber")
}

func TestSTKPushUnreachable(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://127.0.0.1:1", Timeout: 200 * time.Millisecond})
	_, err := c.STKPush(context.Background(), STKPushRequest{Phone: "254712345678", Amount: 1})
	assert.Error(t, err)
}
