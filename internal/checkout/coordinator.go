// Package checkout coordinates the reviewing/checking-out transition
// and dispatches a finished cart to one of two fulfillment paths: the
// payment-gateway redirect or the WhatsApp order handoff.
package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Nikolino98/SillonesCordoba/internal/domain"
	"github.com/Nikolino98/SillonesCordoba/internal/handoff"
	"github.com/Nikolino98/SillonesCordoba/internal/payment"
)

var (
	ErrNameRequired          = errors.New("customer name is required")
	ErrPhoneRequired         = errors.New("customer phone is required")
	ErrPaymentMethodRequired = errors.New("payment method is required")
	ErrEmptyCart             = errors.New("cart is empty")
)

// CartAPI is the slice of the cart service the coordinator needs.
type CartAPI interface {
	GetCart(ctx context.Context, sessionID string) (*domain.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

// PreferenceCreator creates payment-gateway preferences.
type PreferenceCreator interface {
	CreatePreference(ctx context.Context, items []domain.CartItem, customer domain.CustomerData) (*payment.Preference, error)
}

type Coordinator struct {
	carts     CartAPI
	phases    *PhaseStore
	snapshots SnapshotStore
	prefs     PreferenceCreator
	formatter *handoff.Formatter
	log       *logrus.Entry
}

func NewCoordinator(
	carts CartAPI,
	phases *PhaseStore,
	snapshots SnapshotStore,
	prefs PreferenceCreator,
	formatter *handoff.Formatter,
	log *logrus.Logger,
) *Coordinator {
	return &Coordinator{
		carts:     carts,
		phases:    phases,
		snapshots: snapshots,
		prefs:     prefs,
		formatter: formatter,
		log:       log.WithField("component", "checkout"),
	}
}

// Phase returns the session's current coordinator phase.
func (c *Coordinator) Phase(sessionID string) domain.CheckoutPhase {
	return c.phases.Get(sessionID)
}

// Begin moves the session to the customer-data form. The transition is
// user-initiated and unconditional.
func (c *Coordinator) Begin(sessionID string) {
	c.phases.Set(sessionID, domain.PhaseCheckingOut)
}

// Back returns the session to the editable cart.
func (c *Coordinator) Back(sessionID string) {
	c.phases.Set(sessionID, domain.PhaseReviewing)
}

// PayWithGateway validates the customer data, creates a payment
// preference and writes the best-effort purchase snapshot. The cart is
// left untouched: only the success page clears it, on an approved
// return. Any gateway failure aborts with no partial mutation.
func (c *Coordinator) PayWithGateway(ctx context.Context, sessionID string, customer domain.CustomerData) (*payment.Preference, error) {
	if customer.Name == "" {
		return nil, ErrNameRequired
	}
	if customer.Phone == "" {
		return nil, ErrPhoneRequired
	}

	cart, err := c.carts.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	pref, err := c.prefs.CreatePreference(ctx, cart.Items, customer)
	if err != nil {
		return nil, err
	}

	snap := &domain.PurchaseSnapshot{
		Customer:   customer,
		Items:      cart.Items,
		TotalPrice: cart.TotalPrice(),
		CapturedAt: time.Now(),
	}
	// Best effort: the success page degrades gracefully without it
	if err := c.snapshots.Save(ctx, sessionID, snap); err != nil {
		c.log.WithError(err).Warn("failed to save purchase snapshot")
	}

	return pref, nil
}

// SubmitManualOrder validates the customer data, builds the WhatsApp
// order link, clears the cart and resets the phase. There is no server
// confirmation on this path: the order counts as submitted the moment
// the link is handed back.
func (c *Coordinator) SubmitManualOrder(ctx context.Context, sessionID string, customer domain.CustomerData) (string, error) {
	if customer.Name == "" {
		return "", ErrNameRequired
	}
	if customer.Phone == "" {
		return "", ErrPhoneRequired
	}
	if customer.PaymentMethod == "" {
		return "", ErrPaymentMethodRequired
	}

	cart, err := c.carts.GetCart(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if cart.IsEmpty() {
		return "", ErrEmptyCart
	}

	message := c.formatter.OrderMessage(cart.Items, cart.TotalPrice(), customer)
	link := c.formatter.OrderLink(message)

	if err := c.carts.Clear(ctx, sessionID); err != nil {
		// The handoff link already exists; losing the clear only leaves
		// a stale cart behind
		c.log.WithError(err).Error("failed to clear cart after handoff")
	}
	c.phases.Set(sessionID, domain.PhaseReviewing)

	return link, nil
}

// CompleteReturn handles the gateway redirect. An approved status
// clears the cart and loads the purchase snapshot for display; a
// missing snapshot is not an error. Any other status leaves all state
// untouched.
func (c *Coordinator) CompleteReturn(ctx context.Context, sessionID string, ret domain.PaymentReturn) (*domain.PurchaseSnapshot, error) {
	if !ret.Approved() {
		return nil, nil
	}

	if err := c.carts.Clear(ctx, sessionID); err != nil {
		return nil, err
	}

	snap, err := c.snapshots.Load(ctx, sessionID)
	if errors.Is(err, ErrSnapshotNotFound) {
		return nil, nil
	}
	if err != nil {
		c.log.WithError(err).Warn("failed to load purchase snapshot")
		return nil, nil
	}

	return snap, nil
}

// SupportLink builds the WhatsApp support deep link for a completed
// payment, from the snapshot when available and from the bare payment
// id otherwise.
func (c *Coordinator) SupportLink(ret domain.PaymentReturn, snap *domain.PurchaseSnapshot) string {
	return c.formatter.SupportLink(c.formatter.SupportMessage(ret, snap))
}
