// Package cardpay confirms card payments with the payment provider using the
// publishable key, the way the provider's browser SDK does.
package cardpay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/wolfman30/cozyhotel-client/pkg/logging"
)

var stripeTracer = otel.Tracer("cozyhotel.internal.cardpay.stripe")

const (
	DefaultStripeBaseURL = "https://api.stripe.com"
	stripeAPIVersion     = "2024-12-18.acacia"
)

var (
	// ErrMissingKey means no publishable key was configured.
	ErrMissingKey = errors.New("cardpay: stripe publishable key not configured")
	// ErrActionRequired means the card needs 3-D Secure or similar, which a
	// headless client cannot complete.
	ErrActionRequired = errors.New("cardpay: card requires additional authentication")
)

// Card identifies the card to charge. PaymentMethod is a provider payment
// method id (pm_...), typically produced by the provider's card element.
type Card struct {
	PaymentMethod string
	HolderName    string
	Email         string
}

// Confirmation is the provider's view of the intent after confirmation.
type Confirmation struct {
	PaymentIntentID string
	Status          string
}

// Stripe confirms payment intents against the Stripe API.
type Stripe struct {
	publishableKey string
	baseURL        string
	httpClient     *http.Client
	logger         *logging.Logger
}

func NewStripe(publishableKey string, logger *logging.Logger) *Stripe {
	if logger == nil {
		logger = logging.Default()
	}
	return &Stripe{
		publishableKey: strings.TrimSpace(publishableKey),
		baseURL:        DefaultStripeBaseURL,
		httpClient:     &http.Client{Timeout: 15 * time.Second},
		logger:         logger,
	}
}

// WithBaseURL overrides the Stripe API base URL (for testing).
func (s *Stripe) WithBaseURL(baseURL string) *Stripe {
	if baseURL != "" {
		s.baseURL = strings.TrimRight(baseURL, "/")
	}
	return s
}

type stripeIntent struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type stripeError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// ConfirmCardPayment confirms the intent behind clientSecret with card.
func (s *Stripe) ConfirmCardPayment(ctx context.Context, clientSecret string, card Card) (*Confirmation, error) {
	ctx, span := stripeTracer.Start(ctx, "stripe.confirm_payment_intent")
	defer span.End()

	if s.publishableKey == "" {
		return nil, ErrMissingKey
	}
	intentID, err := IntentIDFromSecret(clientSecret)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(card.PaymentMethod) == "" {
		return nil, fmt.Errorf("cardpay: payment method is required")
	}
	span.SetAttributes(attribute.String("cozyhotel.payment_intent_id", intentID))

	form := url.Values{}
	form.Set("key", s.publishableKey)
	form.Set("client_secret", clientSecret)
	form.Set("payment_method", card.PaymentMethod)
	form.Set("expected_payment_method_type", "card")
	if card.HolderName != "" {
		form.Set("payment_method_data[billing_details][name]", card.HolderName)
	}
	if card.Email != "" {
		form.Set("payment_method_data[billing_details][email]", card.Email)
	}

	apiURL := s.baseURL + "/v1/payment_intents/" + url.PathEscape(intentID) + "/confirm"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("cardpay: stripe request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Stripe-Version", stripeAPIVersion)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("cardpay: stripe http: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= http.StatusMultipleChoices {
		var se stripeError
		msg := strings.TrimSpace(string(body))
		if json.Unmarshal(body, &se) == nil && se.Error.Message != "" {
			msg = se.Error.Message
		}
		span.SetStatus(codes.Error, msg)
		s.logger.Warn("stripe confirm failed", "payment_intent_id", intentID, "status", resp.StatusCode, "code", se.Error.Code)
		return nil, fmt.Errorf("cardpay: %s", msg)
	}

	var parsed stripeIntent
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("cardpay: stripe decode: %w", err)
	}
	span.SetAttributes(attribute.String("cozyhotel.payment_status", parsed.Status))
	conf := &Confirmation{PaymentIntentID: parsed.ID, Status: parsed.Status}
	if conf.PaymentIntentID == "" {
		conf.PaymentIntentID = intentID
	}
	if parsed.Status == "requires_action" || parsed.Status == "requires_payment_method" {
		return conf, ErrActionRequired
	}
	s.logger.Info("stripe payment confirmed", "payment_intent_id", conf.PaymentIntentID, "status", conf.Status)
	return conf, nil
}

// IntentIDFromSecret extracts "pi_x" from "pi_x_secret_y".
func IntentIDFromSecret(clientSecret string) (string, error) {
	id, _, ok := strings.Cut(strings.TrimSpace(clientSecret), "_secret_")
	if !ok || !strings.HasPrefix(id, "pi_") {
		return "", fmt.Errorf("cardpay: malformed client secret")
	}
	return id, nil
}
