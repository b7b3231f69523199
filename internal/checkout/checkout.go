// Package checkout runs the booking + payment flow of the booking page.
package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/wolfman30/cozyhotel-client/internal/cardpay"
	"github.com/wolfman30/cozyhotel-client/internal/hotelapi"
	"github.com/wolfman30/cozyhotel-client/internal/observability/metrics"
	"github.com/wolfman30/cozyhotel-client/internal/offline"
	"github.com/wolfman30/cozyhotel-client/internal/validate"
	"github.com/wolfman30/cozyhotel-client/pkg/logging"
)

var tracer = otel.Tracer("cozyhotel.internal.checkout")

const DefaultCurrency = "usd"

// ErrPaymentNotCompleted is returned when the provider reports the payment
// as anything other than settled after confirmation.
var ErrPaymentNotCompleted = errors.New("checkout: payment was not completed")

// ErrNoCardConfirmer means online checkout was attempted without a card
// provider configured.
var ErrNoCardConfirmer = errors.New("checkout: card payments are not configured")

// BookingAPI is the part of the bookings client the flow uses.
type BookingAPI interface {
	Create(ctx context.Context, req hotelapi.CreateBookingRequest, idempotencyKey string) (*hotelapi.Booking, error)
	Cancel(ctx context.Context, id int) error
}

// PaymentAPI is the part of the payments client the flow uses.
type PaymentAPI interface {
	CreateIntent(ctx context.Context, req hotelapi.PaymentIntentRequest) (*hotelapi.PaymentIntent, error)
	CheckStatus(ctx context.Context, paymentIntentID string) (*hotelapi.PaymentStatus, error)
}

// CardConfirmer confirms a payment intent with the card provider.
type CardConfirmer interface {
	ConfirmCardPayment(ctx context.Context, clientSecret string, card cardpay.Card) (*cardpay.Confirmation, error)
}

type Options struct {
	Bookings BookingAPI
	Payments PaymentAPI
	Card     CardConfirmer
	Offline  *offline.Cache
	Demo     bool
	Currency string
	Logger   *logging.Logger
	Metrics  *metrics.APIMetrics
}

// Flow validates the form, books the room, pays for it and rolls the
// booking back when a later step fails.
type Flow struct {
	bookings BookingAPI
	payments PaymentAPI
	card     CardConfirmer
	offline  *offline.Cache
	demo     bool
	currency string
	logger   *logging.Logger
	metrics  *metrics.APIMetrics
}

func New(opts Options) *Flow {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}
	currency := opts.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	cache := opts.Offline
	if cache == nil {
		cache = offline.New(nil)
	}
	return &Flow{
		bookings: opts.Bookings,
		payments: opts.Payments,
		card:     opts.Card,
		offline:  cache,
		demo:     opts.Demo,
		currency: currency,
		logger:   logger,
		metrics:  opts.Metrics,
	}
}

// Request is one booking-page submission.
type Request struct {
	Form           validate.BookingForm
	Card           cardpay.Card
	RoomType       string
	PricePerNight  float64
	IdempotencyKey string
}

// Receipt reports what the flow did.
type Receipt struct {
	Demo    bool                    `json:"demo"`
	Booking *hotelapi.Booking       `json:"booking,omitempty"`
	Intent  *hotelapi.PaymentIntent `json:"-"`
	Payment *hotelapi.PaymentStatus `json:"payment,omitempty"`
	Offline *offline.Booking        `json:"offline,omitempty"`
}

// Submit runs the flow. Validation failures return before any network call.
func (f *Flow) Submit(ctx context.Context, req Request) (*Receipt, error) {
	if err := validate.Booking(req.Form); err != nil {
		return nil, err
	}
	if f.demo {
		return f.submitDemo(ctx, req)
	}

	if f.card == nil {
		return nil, ErrNoCardConfirmer
	}

	ctx, span := tracer.Start(ctx, "checkout.submit")
	defer span.End()
	span.SetAttributes(attribute.Int("cozyhotel.room_id", req.Form.RoomID))

	key := req.IdempotencyKey
	if key == "" {
		key = uuid.NewString()
	}
	booking, err := f.bookings.Create(ctx, hotelapi.CreateBookingRequest{
		RoomID:          req.Form.RoomID,
		CheckInDate:     req.Form.CheckIn,
		CheckOutDate:    req.Form.CheckOut,
		NumberOfGuests:  req.Form.Guests,
		SpecialRequests: req.Form.SpecialRequests,
	}, key)
	if err != nil {
		span.SetStatus(codes.Error, "create booking")
		return nil, fmt.Errorf("checkout: create booking: %w", err)
	}
	span.SetAttributes(attribute.Int("cozyhotel.booking_id", booking.ID))
	receipt := &Receipt{Booking: booking}

	amount := booking.TotalPrice
	if amount <= 0 {
		amount = req.PricePerNight * float64(validate.Nights(req.Form.CheckIn, req.Form.CheckOut))
	}
	intent, err := f.payments.CreateIntent(ctx, hotelapi.PaymentIntentRequest{
		BookingID: booking.ID,
		Amount:    amount,
		Currency:  f.currency,
	})
	if err != nil {
		span.SetStatus(codes.Error, "create payment intent")
		return receipt, f.compensate(ctx, booking.ID, fmt.Errorf("checkout: create payment intent: %w", err))
	}
	receipt.Intent = intent

	if _, err := f.card.ConfirmCardPayment(ctx, intent.ClientSecret, req.Card); err != nil {
		span.SetStatus(codes.Error, "confirm card")
		return receipt, f.compensate(ctx, booking.ID, fmt.Errorf("checkout: confirm card: %w", err))
	}

	status, err := f.payments.CheckStatus(ctx, intent.PaymentIntentID)
	if err != nil {
		span.SetStatus(codes.Error, "check payment status")
		return receipt, f.compensate(ctx, booking.ID, fmt.Errorf("checkout: check payment status: %w", err))
	}
	receipt.Payment = status
	if !settled(status.Status) {
		span.SetStatus(codes.Error, "payment not completed")
		return receipt, f.compensate(ctx, booking.ID, fmt.Errorf("%w (status %q)", ErrPaymentNotCompleted, status.Status))
	}

	f.logger.Info("checkout: booking paid",
		"booking_id", booking.ID,
		"payment_intent_id", intent.PaymentIntentID,
		"amount", amount,
	)
	return receipt, nil
}

func (f *Flow) submitDemo(ctx context.Context, req Request) (*Receipt, error) {
	nights := validate.Nights(req.Form.CheckIn, req.Form.CheckOut)
	rec, err := f.offline.Record(ctx, offline.Booking{
		RoomID:   req.Form.RoomID,
		Room:     req.RoomType,
		Price:    req.PricePerNight * float64(nights),
		CheckIn:  req.Form.CheckIn,
		CheckOut: req.Form.CheckOut,
		Guests:   req.Form.Guests,
	})
	if err != nil {
		return nil, fmt.Errorf("checkout: demo booking: %w", err)
	}
	f.logger.Info("checkout: demo booking recorded", "id", rec.ID, "room_id", req.Form.RoomID)
	return &Receipt{Demo: true, Offline: &rec}, nil
}

// compensate cancels the booking after a failed payment step. A failed
// cancellation is joined to cause. An authentication failure skips the
// cancel because the credential is already gone.
func (f *Flow) compensate(ctx context.Context, bookingID int, cause error) error {
	if hotelapi.IsKind(cause, hotelapi.KindAuthenticationRequired) {
		f.logger.Warn("checkout: session expired, booking left pending", "booking_id", bookingID)
		return cause
	}
	ctx = context.WithoutCancel(ctx)
	err := f.bookings.Cancel(ctx, bookingID)
	f.metrics.ObserveCompensation(err == nil)
	if err != nil {
		f.logger.Error("checkout: compensating cancel failed", "booking_id", bookingID, "error", err)
		return errors.Join(cause, fmt.Errorf("checkout: cancel booking %d: %w", bookingID, err))
	}
	f.logger.Warn("checkout: booking cancelled after failed payment", "booking_id", bookingID, "cause", cause)
	return cause
}

func settled(status string) bool {
	switch status {
	case "succeeded", "processing", "requires_capture":
		return true
	default:
		return false
	}
}
