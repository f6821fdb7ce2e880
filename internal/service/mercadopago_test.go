package service_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nandoesporte/gut59/backend/internal/apperr"
	"github.com/nandoesporte/gut59/backend/internal/models"
	"github.com/nandoesporte/gut59/backend/internal/service"
)

func newTestMercadoPago(url string) *service.MercadoPagoClient {
	return service.NewMercadoPagoClient(service.MercadoPagoConfig{
		BaseURL:         url + "/",
		AccessToken:     "TEST-token",
		SuccessURL:      "https://app.test/ok",
		FailureURL:      "https://app.test/fail",
		NotificationURL: "https://api.test/webhooks/payment",
		Timeout:         2 * time.Second,
	})
}

func TestMercadoPagoCreatePreference(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/checkout/preferences", r.URL.Path)
		assert.Equal(t, "Bearer TEST-token", r.Header.Get("Authorization"))

		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "workout:abc", body["external_reference"])
		assert.Equal(t, "approved", body["auto_return"])
		items, _ := body["items"].([]interface{})
		if assert.Len(t, items, 1) {
			item := items[0].(map[string]interface{})
			assert.Equal(t, "BRL", item["currency_id"])
			assert.Equal(t, 19.9, item["unit_price"])
		}
		_, _ = w.Write([]byte(`{"id": "pref-1", "init_point": "https://mp.test/checkout/pref-1"}`))
	}))
	defer srv.Close()

	pref, err := newTestMercadoPago(srv.URL).CreatePreference(context.Background(), service.CheckoutItem{
		Title:             "Plano de treino personalizado",
		Amount:            19.9,
		ExternalReference: "workout:abc",
		PayerEmail:        "a@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "pref-1", pref.ID)
	assert.Equal(t, "https://mp.test/checkout/pref-1", pref.InitPoint)
}

func TestMercadoPagoPayments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/v1/payments/123":
			_, _ = w.Write([]byte(`{"id": 123, "status": "approved", "status_detail": "accredited", "external_reference": "nutrition:u:1", "transaction_amount": 19.9}`))
		case r.URL.Path == "/v1/payments/search" && r.URL.Query().Get("external_reference") == "nutrition:u:1":
			assert.Equal(t, "desc", r.URL.Query().Get("criteria"))
			_, _ = w.Write([]byte(`{"results": [{"id": 124, "status": "rejected", "external_reference": "nutrition:u:1"}, {"id": 123, "status": "approved"}]}`))
		case r.URL.Path == "/v1/payments/search":
			_, _ = w.Write([]byte(`{"results": []}`))
		case r.URL.Path == "/v1/payments/500":
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"message": "internal"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	client := newTestMercadoPago(srv.URL)
	ctx := context.Background()

	p, err := client.GetPayment(ctx, "123")
	require.NoError(t, err)
	assert.Equal(t, "123", p.ID)
	assert.Equal(t, models.PaymentApproved, p.LocalStatus())
	assert.Equal(t, 19.9, p.Amount)

	p, err = client.SearchByReference(ctx, "nutrition:u:1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "124", p.ID)
	assert.Equal(t, models.PaymentRejected, p.LocalStatus())

	p, err = client.SearchByReference(ctx, "workout:u:2")
	require.NoError(t, err)
	assert.Nil(t, p)

	_, err = client.GetPayment(ctx, "999")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = client.GetPayment(ctx, "500")
	assert.Equal(t, apperr.KindUpstream, apperr.KindOf(err))
	assert.Equal(t, http.StatusInternalServerError, apperr.DetailsOf(err)["status"])
}

func TestProviderStatusMapping(t *testing.T) {
	cases := map[string]models.PaymentStatus{
		"approved":     models.PaymentApproved,
		"authorized":   models.PaymentApproved,
		"rejected":     models.PaymentRejected,
		"refunded":     models.PaymentRejected,
		"charged_back": models.PaymentRejected,
		"cancelled":    models.PaymentCancelled,
		"in_process":   models.PaymentPending,
		"pending":      models.PaymentPending,
		"":             models.PaymentPending,
	}
	for status, want := range cases {
		p := service.ProviderPayment{Status: status}
		assert.Equal(t, want, p.LocalStatus(), status)
	}
}

func TestWebhookSignature(t *testing.T) {
	const secret = "whsec"
	header := service.SignWebhook(secret, "req-1", "ABC123", 1760000000)

	assert.True(t, service.VerifyWebhookSignature(secret, header, "req-1", "ABC123"))
	assert.True(t, service.VerifyWebhookSignature(secret, header, "req-1", "abc123"))
	assert.False(t, service.VerifyWebhookSignature(secret, header, "req-2", "ABC123"))
	assert.False(t, service.VerifyWebhookSignature(secret, header, "req-1", "other"))
	assert.False(t, service.VerifyWebhookSignature("wrong", header, "req-1", "ABC123"))
	assert.False(t, service.VerifyWebhookSignature(secret, "", "req-1", "ABC123"))
	assert.False(t, service.VerifyWebhookSignature("", header, "req-1", "ABC123"))
	assert.False(t, service.VerifyWebhookSignature(secret, "ts=1760000000,v1=zz", "req-1", "ABC123"))
	assert.False(t, service.VerifyWebhookSignature(secret, "v1=00", "req-1", "ABC123"))
}
