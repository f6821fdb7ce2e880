package service

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nandoesporte/gut59/backend/internal/apperr"
	"github.com/nandoesporte/gut59/backend/internal/logging"
	"github.com/nandoesporte/gut59/backend/internal/models"
)

// CheckoutItem is what a checkout sells
type CheckoutItem struct {
	Title             string
	Amount            float64
	ExternalReference string
	PayerEmail        string
}

// Preference is a created provider checkout
type Preference struct {
	ID        string `json:"id"`
	InitPoint string `json:"init_point"`
}

// ProviderPayment is the provider's view of a payment
type ProviderPayment struct {
	ID                string  `json:"id"`
	Status            string  `json:"status"`
	StatusDetail      string  `json:"status_detail"`
	ExternalReference string  `json:"external_reference"`
	Amount            float64 `json:"transaction_amount"`
}

// LocalStatus maps the provider status onto the payment record lifecycle
func (p *ProviderPayment) LocalStatus() models.PaymentStatus {
	switch p.Status {
	case "approved", "authorized":
		return models.PaymentApproved
	case "rejected", "refunded", "charged_back":
		return models.PaymentRejected
	case "cancelled":
		return models.PaymentCancelled
	default:
		return models.PaymentPending
	}
}

// MercadoPagoConfig configures the checkout provider client
type MercadoPagoConfig struct {
	BaseURL         string
	AccessToken     string
	SuccessURL      string
	FailureURL      string
	NotificationURL string
	Timeout         time.Duration
}

// MercadoPagoClient talks to the Mercado Pago REST API
type MercadoPagoClient struct {
	cfg        MercadoPagoConfig
	httpClient *http.Client
}

// Ensure MercadoPagoClient implements IPaymentProvider
var _ IPaymentProvider = (*MercadoPagoClient)(nil)

// NewMercadoPagoClient creates a new MercadoPagoClient instance
func NewMercadoPagoClient(cfg MercadoPagoConfig) *MercadoPagoClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &MercadoPagoClient{cfg: cfg, httpClient: &http.Client{Timeout: cfg.Timeout}}
}

type preferenceItem struct {
	Title      string  `json:"title"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	CurrencyID string  `json:"currency_id"`
}

type preferenceRequest struct {
	Items             []preferenceItem  `json:"items"`
	ExternalReference string            `json:"external_reference"`
	Payer             map[string]string `json:"payer,omitempty"`
	BackURLs          map[string]string `json:"back_urls,omitempty"`
	AutoReturn        string            `json:"auto_return,omitempty"`
	NotificationURL   string            `json:"notification_url,omitempty"`
}

type rawPayment struct {
	ID                json.Number `json:"id"`
	Status            string      `json:"status"`
	StatusDetail      string      `json:"status_detail"`
	ExternalReference string      `json:"external_reference"`
	Amount            float64     `json:"transaction_amount"`
}

func (r rawPayment) toPayment() *ProviderPayment {
	return &ProviderPayment{
		ID:                r.ID.String(),
		Status:            r.Status,
		StatusDetail:      r.StatusDetail,
		ExternalReference: r.ExternalReference,
		Amount:            r.Amount,
	}
}

// CreatePreference creates a checkout preference for one item
func (c *MercadoPagoClient) CreatePreference(ctx context.Context, item CheckoutItem) (*Preference, error) {
	body := preferenceRequest{
		Items: []preferenceItem{{
			Title:      item.Title,
			Quantity:   1,
			UnitPrice:  item.Amount,
			CurrencyID: "BRL",
		}},
		ExternalReference: item.ExternalReference,
		NotificationURL:   c.cfg.NotificationURL,
	}
	if item.PayerEmail != "" {
		body.Payer = map[string]string{"email": item.PayerEmail}
	}
	if c.cfg.SuccessURL != "" {
		body.BackURLs = map[string]string{"success": c.cfg.SuccessURL, "failure": c.cfg.FailureURL}
		body.AutoReturn = "approved"
	}

	var pref Preference
	if err := c.do(ctx, "create preference", http.MethodPost, "/checkout/preferences", body, &pref); err != nil {
		return nil, err
	}
	if pref.ID == "" || pref.InitPoint == "" {
		return nil, apperr.New(apperr.KindInvalidPayload, "create preference", "provider returned an incomplete preference")
	}
	return &pref, nil
}

// GetPayment fetches one payment by provider id
func (c *MercadoPagoClient) GetPayment(ctx context.Context, paymentID string) (*ProviderPayment, error) {
	var raw rawPayment
	if err := c.do(ctx, "get payment", http.MethodGet, "/v1/payments/"+url.PathEscape(paymentID), nil, &raw); err != nil {
		return nil, err
	}
	return raw.toPayment(), nil
}

// SearchByReference returns the newest payment for an external reference, or nil when none exists yet
func (c *MercadoPagoClient) SearchByReference(ctx context.Context, externalReference string) (*ProviderPayment, error) {
	q := url.Values{}
	q.Set("external_reference", externalReference)
	q.Set("sort", "date_created")
	q.Set("criteria", "desc")

	var res struct {
		Results []rawPayment `json:"results"`
	}
	if err := c.do(ctx, "search payments", http.MethodGet, "/v1/payments/search?"+q.Encode(), nil, &res); err != nil {
		return nil, err
	}
	if len(res.Results) == 0 {
		return nil, nil
	}
	return res.Results[0].toPayment(), nil
}

func (c *MercadoPagoClient) do(ctx context.Context, op, method, path string, in, out interface{}) error {
	var reader io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return apperr.Wrap(apperr.KindInternal, op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyTransport(ctx, op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return classifyTransport(ctx, op, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return apperr.New(apperr.KindNotFound, op, "payment not found at provider")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logging.Component(ctx, "payments").WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"path":   path,
		}).Warn("payment provider returned an error")
		return apperr.New(apperr.KindUpstream, op, "payment provider returned an error").
			WithDetail("status", resp.StatusCode).
			WithDetail("body", truncate(string(raw), maxErrorBody))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apperr.Wrapf(apperr.KindInvalidPayload, op, err, "failed to decode provider response")
	}
	return nil
}

// VerifyWebhookSignature checks the x-signature header of a provider notification.
// The header carries "ts=<unix>,v1=<hex hmac>" over "id:<dataID>;request-id:<requestID>;ts:<ts>;".
func VerifyWebhookSignature(secret, signature, requestID, dataID string) bool {
	if secret == "" || signature == "" {
		return false
	}
	var ts, v1 string
	for _, part := range strings.Split(signature, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch key {
		case "ts":
			ts = value
		case "v1":
			v1 = value
		}
	}
	if ts == "" || v1 == "" {
		return false
	}
	expected, err := hex.DecodeString(v1)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "id:%s;request-id:%s;ts:%s;", strings.ToLower(dataID), requestID, ts)
	return hmac.Equal(mac.Sum(nil), expected)
}

// SignWebhook produces a signature header accepted by VerifyWebhookSignature
func SignWebhook(secret, requestID, dataID string, ts int64) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "id:%s;request-id:%s;ts:%d;", strings.ToLower(dataID), requestID, ts)
	return fmt.Sprintf("ts=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}
