package domain

import "time"

// PaymentMethod is the customer's selected payment path. MercadoPago
// routes through the gateway redirect; everything else is settled
// offline via the WhatsApp order handoff.
type PaymentMethod string

const (
	PaymentMercadoPago  PaymentMethod = "mercadopago"
	PaymentCash         PaymentMethod = "efectivo"
	PaymentBankTransfer PaymentMethod = "transferencia"
	PaymentDebitCard    PaymentMethod = "tarjeta_debito"
	PaymentCreditCard   PaymentMethod = "tarjeta_credito"
)

// Label returns the human-readable name used in order messages.
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentMercadoPago:
		return "Mercado Pago"
	case PaymentCash:
		return "Efectivo"
	case PaymentBankTransfer:
		return "Transferencia Bancaria"
	case PaymentDebitCard:
		return "Tarjeta de Débito"
	case PaymentCreditCard:
		return "Tarjeta de Crédito"
	default:
		return string(m)
	}
}

// CustomerData is the transient checkout form state. It is never stored
// beyond the best-effort purchase snapshot written right before the
// gateway redirect.
type CustomerData struct {
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	Phone         string        `json:"phone"`
	Address       string        `json:"address"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Notes         string        `json:"notes"`
}

// CheckoutPhase is the coordinator state for one session.
type CheckoutPhase string

const (
	PhaseReviewing   CheckoutPhase = "reviewing"
	PhaseCheckingOut CheckoutPhase = "checking_out"
)

// PurchaseSnapshot captures cart and customer state at the moment a
// payment preference is requested. The gateway redirect only carries
// payment id/status/reference, so this is the sole source the success
// page has for reconstructing order details.
type PurchaseSnapshot struct {
	Customer   CustomerData `json:"customer_data"`
	Items      []CartItem   `json:"items"`
	TotalPrice float64      `json:"total_price"`
	CapturedAt time.Time    `json:"captured_at"`
}

// PaymentReturn holds the query parameters appended by the payment
// gateway on its redirect back to the store. Not every parameter is
// present on every return path.
type PaymentReturn struct {
	PaymentID         string `json:"payment_id"`
	Status            string `json:"status"`
	StatusDetail      string `json:"status_detail"`
	ExternalReference string `json:"external_reference"`
}

// PaymentStatusApproved is the gateway status that confirms a purchase
// and allows the cart to be cleared.
const PaymentStatusApproved = "approved"

// Approved reports whether the gateway confirmed the payment.
func (r PaymentReturn) Approved() bool {
	return r.Status == PaymentStatusApproved
}
