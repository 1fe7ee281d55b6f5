package shop

import (
	"apex/internal/testdb"
	"apex/models"
	"apex/models/shop"
	"apex/services/email"
	"apex/services/mpesa"
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

type fakeGateway struct {
	mu       sync.Mutex
	requests []mpesa.STKPushRequest
	err      error
	seq      int
}

func (g *fakeGateway) STKPush(_ context.Context, req mpesa.STKPushRequest) (*mpesa.STKPushResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests = append(g.requests, req)
	if g.err != nil {
		return nil, g.err
	}
	g.seq++
	return &mpesa.STKPushResponse{
		MerchantRequestID: fmt.Sprintf("m-%d", g.seq),
		CheckoutRequestID: fmt.Sprintf("ws_CO_%d", g.seq),
		ResponseCode:      "0",
		CustomerMessage:   "Success. Request accepted for processing",
	}, nil
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []email.Message
}

func (m *recordingMailer) Send(msg email.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func newTestService(t *testing.T) (*Service, *gorm.DB, *fakeGateway, *recordingMailer) {
	t.Helper()
	db := testdb.New(t)
	gw := &fakeGateway{}
	mailer := &recordingMailer{}
	svc := NewService(db, gw, mailer)
	svc.SetClock(func() time.Time { return fixedNow })
	return svc, db, gw, mailer
}

func createUser(t *testing.T, db *gorm.DB, name string) uint {
	t.Helper()
	u := models.User{Name: name, Email: name + "@example.com"}
	require.NoError(t, db.Create(&u).Error)
	return u.ID
}

func createProduct(t *testing.T, db *gorm.DB, name string, price float64, active bool) shop.Product {
	t.Helper()
	p := shop.Product{Name: name, Category: "apparel", Price: price, Stock: 10, IsActive: active}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func successCallback(checkoutID, receipt string) mpesa.Callback {
	var cb mpesa.Callback
	cb.Body.StkCallback = mpesa.STKCallback{
		MerchantRequestID: "m-1",
		CheckoutRequestID: checkoutID,
		ResultCode:        0,
		ResultDesc:        "The service request is processed successfully.",
		CallbackMetadata: &mpesa.CallbackMetadata{Item: []mpesa.CallbackItem{
			{Name: "Amount", Value: 1.0},
			{Name: "MpesaReceiptNumber", Value: receipt},
		}},
	}
	return cb
}

func failedCallback(checkoutID string) mpesa.Callback {
	var cb mpesa.Callback
	cb.Body.StkCallback = mpesa.STKCallback{
		CheckoutRequestID: checkoutID,
		ResultCode:        1032,
		ResultDesc:        "Request cancelled by user",
	}
	return cb
}
