// Package handoff builds the plain-text order summaries sent through
// WhatsApp deep links, both for manual-payment orders and for
// post-purchase support requests.
package handoff

import (
	"fmt"
	"math"
	"net/url"
	"strings"

	"github.com/Nikolino98/SillonesCordoba/internal/domain"
)

type Formatter struct {
	orderRecipient   string
	supportRecipient string
}

// NewFormatter takes the WhatsApp numbers for new orders and for
// support requests (digits only, country code included).
func NewFormatter(orderRecipient, supportRecipient string) *Formatter {
	return &Formatter{
		orderRecipient:   orderRecipient,
		supportRecipient: supportRecipient,
	}
}

// FormatPrice renders an amount the way the store displays ARS prices:
// no decimals, dots as thousands separators, e.g. "$ 12.500".
func FormatPrice(amount float64) string {
	n := int64(math.Round(amount))
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}

	digits := fmt.Sprintf("%d", n)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	return "$ " + sign + b.String()
}

func lineDetail(item domain.CartItem) string {
	colorText := ""
	if item.SelectedColor != "" {
		colorText = fmt.Sprintf(" - Color: %s", item.SelectedColor)
	}
	return fmt.Sprintf("• %s%s - Cantidad: %d - %s",
		item.Product.Name, colorText, item.Quantity, FormatPrice(item.Subtotal()))
}

// OrderMessage builds the structured order summary for the
// manual-payment handoff path.
func (f *Formatter) OrderMessage(items []domain.CartItem, total float64, customer domain.CustomerData) string {
	details := make([]string, 0, len(items))
	for _, item := range items {
		details = append(details, lineDetail(item))
	}

	notes := ""
	if customer.Notes != "" {
		notes = fmt.Sprintf("📝 *NOTAS ADICIONALES*\n%s\n\n", customer.Notes)
	}

	return fmt.Sprintf(`¡Hola! Quiero realizar el siguiente pedido:

📋 *DETALLES DEL PEDIDO*
%s

💰 *TOTAL: %s*

👤 *DATOS DEL CLIENTE*
Nombre: %s
Email: %s
Teléfono: %s
Dirección: %s

💳 *MÉTODO DE PAGO*
%s

%s¡Gracias!`,
		strings.Join(details, "\n"),
		FormatPrice(total),
		customer.Name,
		customer.Email,
		customer.Phone,
		customer.Address,
		customer.PaymentMethod.Label(),
		notes,
	)
}

// SupportMessage builds the post-purchase support request. With a
// snapshot it enumerates the purchased lines; without one it degrades
// to a minimal message carrying at least the payment id.
func (f *Formatter) SupportMessage(ret domain.PaymentReturn, snap *domain.PurchaseSnapshot) string {
	if snap == nil {
		return fmt.Sprintf("Hola, necesito ayuda con mi pago. ID de pago: %s", orDefault(ret.PaymentID))
	}

	details := make([]string, 0, len(snap.Items))
	for _, item := range snap.Items {
		details = append(details, lineDetail(item))
	}

	address := snap.Customer.Address
	if address == "" {
		address = "No especificada"
	}

	return fmt.Sprintf(`Hola, necesito soporte para mi compra:

🧾 *INFORMACIÓN DEL PAGO*
ID de Pago: %s
Estado: %s
Referencia: %s

📋 *PRODUCTOS COMPRADOS*
%s

💰 *TOTAL PAGADO: %s*

👤 *DATOS DEL CLIENTE*
Nombre: %s
Email: %s
Teléfono: %s
Dirección: %s

💳 *MÉTODO DE PAGO*
Mercado Pago

📅 *FECHA DE COMPRA*
%s

Por favor, ayúdenme con mi consulta.
¡Gracias!`,
		orDefault(ret.PaymentID),
		orDefault(ret.Status),
		orDefault(ret.ExternalReference),
		strings.Join(details, "\n"),
		FormatPrice(snap.TotalPrice),
		snap.Customer.Name,
		snap.Customer.Email,
		snap.Customer.Phone,
		address,
		snap.CapturedAt.Format("02/01/2006 15:04"),
	)
}

// OrderLink wraps the message into a WhatsApp deep link to the order
// recipient.
func (f *Formatter) OrderLink(message string) string {
	return deepLink(f.orderRecipient, message)
}

// SupportLink wraps the message into a WhatsApp deep link to the
// support recipient.
func (f *Formatter) SupportLink(message string) string {
	return deepLink(f.supportRecipient, message)
}

func deepLink(recipient, message string) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", recipient, url.QueryEscape(message))
}

func orDefault(v string) string {
	if v == "" {
		return "No disponible"
	}
	return v
}
