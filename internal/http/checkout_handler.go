package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Nikolino98/SillonesCordoba/internal/checkout"
	"github.com/Nikolino98/SillonesCordoba/internal/domain"
	"github.com/Nikolino98/SillonesCordoba/internal/payment"
)

// CheckoutCoordinator drives the review/checkout phases and the two
// order dispatch paths.
type CheckoutCoordinator interface {
	Phase(sessionID string) domain.CheckoutPhase
	Begin(sessionID string)
	Back(sessionID string)
	PayWithGateway(ctx context.Context, sessionID string, customer domain.CustomerData) (*payment.Preference, error)
	SubmitManualOrder(ctx context.Context, sessionID string, customer domain.CustomerData) (string, error)
	CompleteReturn(ctx context.Context, sessionID string, ret domain.PaymentReturn) (*domain.PurchaseSnapshot, error)
	SupportLink(ret domain.PaymentReturn, snap *domain.PurchaseSnapshot) string
}

type CheckoutHandler struct {
	coordinator CheckoutCoordinator
}

func NewCheckoutHandler(coordinator CheckoutCoordinator) *CheckoutHandler {
	return &CheckoutHandler{coordinator: coordinator}
}

func (h *CheckoutHandler) GetPhase(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "no_session", "missing session")
		return
	}

	respondJSON(w, http.StatusOK, map[string]domain.CheckoutPhase{"phase": h.coordinator.Phase(sessionID)})
}

func (h *CheckoutHandler) Begin(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "no_session", "missing session")
		return
	}

	h.coordinator.Begin(sessionID)
	respondJSON(w, http.StatusOK, map[string]domain.CheckoutPhase{"phase": domain.PhaseCheckingOut})
}

func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "no_session", "missing session")
		return
	}

	h.coordinator.Back(sessionID)
	respondJSON(w, http.StatusOK, map[string]domain.CheckoutPhase{"phase": domain.PhaseReviewing})
}

// Pay requests a gateway preference for the current cart. The cart is
// left untouched; it only clears once the gateway confirms approval on
// the return page.
func (h *CheckoutHandler) Pay(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "no_session", "missing session")
		return
	}

	var customer domain.CustomerData
	if err := json.NewDecoder(r.Body).Decode(&customer); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	pref, err := h.coordinator.PayWithGateway(r.Context(), sessionID, customer)
	if err != nil {
		if code, ok := checkoutErrorCode(err); ok {
			respondError(w, http.StatusBadRequest, code, err.Error())
			return
		}
		respondError(w, http.StatusBadGateway, "gateway_unavailable", "payment gateway request failed")
		return
	}

	respondJSON(w, http.StatusOK, pref)
}

// SubmitOrder dispatches the order over the messaging handoff and
// returns the deep link the client should open.
func (h *CheckoutHandler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "no_session", "missing session")
		return
	}

	var customer domain.CustomerData
	if err := json.NewDecoder(r.Body).Decode(&customer); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	link, err := h.coordinator.SubmitManualOrder(r.Context(), sessionID, customer)
	if err != nil {
		if code, ok := checkoutErrorCode(err); ok {
			respondError(w, http.StatusBadRequest, code, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to submit order")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"whatsapp_url": link})
}

type paymentReturnResponse struct {
	Status     string                   `json:"status"`
	PaymentID  string                   `json:"payment_id,omitempty"`
	Order      *domain.PurchaseSnapshot `json:"order,omitempty"`
	SupportURL string                   `json:"support_url,omitempty"`
}

// PaymentSuccess handles the gateway redirect after an approved (or
// supposedly approved) payment. Only a confirmed approval clears the
// cart; the order details come from the pre-redirect snapshot.
func (h *CheckoutHandler) PaymentSuccess(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "no_session", "missing session")
		return
	}

	ret := paymentReturnFromQuery(r)

	snap, err := h.coordinator.CompleteReturn(r.Context(), sessionID, ret)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to finalize payment return")
		return
	}

	respondJSON(w, http.StatusOK, paymentReturnResponse{
		Status:     ret.Status,
		PaymentID:  ret.PaymentID,
		Order:      snap,
		SupportURL: h.coordinator.SupportLink(ret, snap),
	})
}

// PaymentFailure and PaymentPending never touch the cart; they only
// hand the customer a support contact link.
func (h *CheckoutHandler) PaymentFailure(w http.ResponseWriter, r *http.Request) {
	h.paymentNonSuccess(w, r)
}

func (h *CheckoutHandler) PaymentPending(w http.ResponseWriter, r *http.Request) {
	h.paymentNonSuccess(w, r)
}

func (h *CheckoutHandler) paymentNonSuccess(w http.ResponseWriter, r *http.Request) {
	ret := paymentReturnFromQuery(r)

	respondJSON(w, http.StatusOK, paymentReturnResponse{
		Status:     ret.Status,
		PaymentID:  ret.PaymentID,
		SupportURL: h.coordinator.SupportLink(ret, nil),
	})
}

func paymentReturnFromQuery(r *http.Request) domain.PaymentReturn {
	q := r.URL.Query()
	return domain.PaymentReturn{
		PaymentID:         q.Get("payment_id"),
		Status:            q.Get("status"),
		StatusDetail:      q.Get("status_detail"),
		ExternalReference: q.Get("external_reference"),
	}
}

func checkoutErrorCode(err error) (string, bool) {
	switch {
	case errors.Is(err, checkout.ErrNameRequired):
		return "missing_name", true
	case errors.Is(err, checkout.ErrPhoneRequired):
		return "missing_phone", true
	case errors.Is(err, checkout.ErrPaymentMethodRequired):
		return "missing_payment_method", true
	case errors.Is(err, checkout.ErrEmptyCart):
		return "empty_cart", true
	}
	return "", false
}
