package hotelapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// PaymentService wraps /Payment.
type PaymentService struct {
	client *Client
}

func (s *PaymentService) CreateIntent(ctx context.Context, req PaymentIntentRequest) (*PaymentIntent, error) {
	intent, err := Do[PaymentIntent](ctx, s.client, Call{
		Method: http.MethodPost,
		Path:   "/Payment/create-payment-intent",
		Body:   req,
	})
	if err != nil {
		return nil, err
	}
	return &intent, nil
}

// ProcessCardPayment asks the server to settle an intent that the card
// tokenizer already confirmed.
func (s *PaymentService) ProcessCardPayment(ctx context.Context, paymentIntentID string) (*PaymentStatus, error) {
	q := url.Values{"PaymentIntentId": []string{paymentIntentID}}
	return s.status(ctx, http.MethodPost, "/Payment/process-card-payment?"+q.Encode())
}

func (s *PaymentService) CheckStatus(ctx context.Context, paymentIntentID string) (*PaymentStatus, error) {
	return s.status(ctx, http.MethodPost, "/Payment/check-payment-status/"+url.PathEscape(paymentIntentID))
}

func (s *PaymentService) Status(ctx context.Context, paymentIntentID string) (*PaymentStatus, error) {
	return s.status(ctx, http.MethodGet, "/Payment/status/"+url.PathEscape(paymentIntentID))
}

// Refund refunds amount of the intent. amount <= 0 refunds in full.
func (s *PaymentService) Refund(ctx context.Context, paymentIntentID string, amount float64) (*MessageResponse, error) {
	path := "/Payment/refund/" + url.PathEscape(paymentIntentID)
	if amount > 0 {
		path += "?" + url.Values{"amount": []string{strconv.FormatFloat(amount, 'f', -1, 64)}}.Encode()
	}
	resp, err := Do[MessageResponse](ctx, s.client, Call{Method: http.MethodPost, Path: path})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *PaymentService) status(ctx context.Context, method, path string) (*PaymentStatus, error) {
	st, err := Do[PaymentStatus](ctx, s.client, Call{Method: method, Path: path})
	if err != nil {
		return nil, err
	}
	return &st, nil
}
