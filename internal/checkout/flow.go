// Package checkout runs the delay-then-submit checkout sequence and keeps the
// state of the latest attempt.
package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/drstein77/plantcart/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInProgress   = errors.New("checkout already in progress")
	ErrEmptyCart    = errors.New("cart is empty")
	ErrCartNotReady = errors.New("cart is not loaded")
)

// Messages shown to the shopper.
const (
	MessageProcessing = "Processing your order..."
	MessageSuccess    = "Thank you! Your order has been placed."
	MessageRetry      = "Something went wrong while placing your order. Please try again."
)

type Log interface {
	Info(string, ...zap.Field)
	Error(string, ...zap.Field)
}

// Cart is the part of the cart state the flow reads.
type Cart interface {
	Items() []models.LineItem
	Ready() bool
}

// Submitter delivers a composed order to the order service.
type Submitter interface {
	Submit(ctx context.Context, idempotencyKey string, order any) (json.RawMessage, error)
}

// Flow is the Idle → Submitting → Success | Failed state machine.
type Flow struct {
	mx    sync.Mutex
	state models.CheckoutState

	cart      Cart
	submitter Submitter
	variant   models.OrderVariant
	delay     time.Duration
	log       Log

	now    func() time.Time
	newKey func() string
}

func NewFlow(cart Cart, submitter Submitter, variant models.OrderVariant, delay time.Duration, log Log) *Flow {
	f := &Flow{
		cart:      cart,
		submitter: submitter,
		variant:   variant,
		delay:     delay,
		log:       log,
		now:       time.Now,
		newKey:    uuid.NewString,
	}
	f.state = models.CheckoutState{Status: models.CheckoutIdle, UpdatedAt: f.now()}
	return f
}

// State returns the latest checkout state.
func (f *Flow) State() models.CheckoutState {
	f.mx.Lock()
	defer f.mx.Unlock()

	return f.state
}

// Checkout waits the processing delay, then posts the current cart to the
// order service. It blocks until the attempt resolves and returns the
// resolved state. Cancelling ctx does not abort an attempt once started.
func (f *Flow) Checkout(ctx context.Context) (models.CheckoutState, error) {
	if !f.cart.Ready() {
		return f.State(), ErrCartNotReady
	}
	if len(f.cart.Items()) == 0 {
		return f.State(), ErrEmptyCart
	}

	attempt, err := f.begin()
	if err != nil {
		return f.State(), err
	}
	attemptField := zap.String("attempt", attempt)
	f.log.Info("checkout started", attemptField, zap.Duration("delay", f.delay))

	ctx = context.WithoutCancel(ctx)
	if f.delay > 0 {
		timer := time.NewTimer(f.delay)
		<-timer.C
	}

	items := f.cart.Items()
	if len(items) == 0 {
		f.log.Error("cart emptied while processing", attemptField)
		return f.finish(models.CheckoutFailed, MessageRetry, nil), ErrEmptyCart
	}

	order := models.ComposeOrder(f.variant, items, f.now())
	result, err := f.submitter.Submit(ctx, attempt, order)
	if err != nil {
		f.log.Error("checkout failed", attemptField, zap.Error(err))
		return f.finish(models.CheckoutFailed, MessageRetry, nil), fmt.Errorf("submit order: %w", err)
	}

	f.log.Info("checkout succeeded", attemptField, zap.Int("items", len(items)))
	return f.finish(models.CheckoutSuccess, MessageSuccess, result), nil
}

func (f *Flow) begin() (string, error) {
	f.mx.Lock()
	defer f.mx.Unlock()

	if f.state.Status == models.CheckoutSubmitting {
		return "", ErrInProgress
	}

	attempt := f.newKey()
	f.state = models.CheckoutState{
		Status:     models.CheckoutSubmitting,
		Submitting: true,
		Message:    MessageProcessing,
		AttemptID:  attempt,
		UpdatedAt:  f.now(),
	}
	return attempt, nil
}

func (f *Flow) finish(status models.CheckoutStatus, message string, result json.RawMessage) models.CheckoutState {
	f.mx.Lock()
	defer f.mx.Unlock()

	f.state.Status = status
	f.state.Submitting = false
	f.state.Message = message
	f.state.Result = result
	f.state.UpdatedAt = f.now()
	return f.state
}
