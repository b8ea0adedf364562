// Package notify renders the completion message sent to a customer and
// builds the messaging deep link. Composition is pure; opening the link
// is the caller's side effect and is never tied to the state transition.
package notify

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/taller-manrubia/workshop-service/internal/domain"
	"github.com/taller-manrubia/workshop-service/internal/phone"
)

// LinkMode selects between the two interchangeable WhatsApp URL schemes.
type LinkMode string

const (
	// LinkModeDirect opens the app directly (wa.me).
	LinkModeDirect LinkMode = "direct"
	// LinkModeWeb goes through the web client (api.whatsapp.com).
	LinkModeWeb LinkMode = "web"
)

// Message is the rendered notification: the text body and the deep link
// that opens a messaging client pre-filled with it.
type Message struct {
	Text     string `json:"text"`
	DeepLink string `json:"deep_link"`
}

// Composer renders completion messages for one shop.
type Composer struct {
	ShopName      string
	CallbackPhone string
	LinkMode      LinkMode
}

// NewComposer builds a Composer, defaulting to the direct link scheme.
func NewComposer(shopName, callbackPhone string, mode LinkMode) *Composer {
	if mode != LinkModeWeb {
		mode = LinkModeDirect
	}
	return &Composer{ShopName: shopName, CallbackPhone: callbackPhone, LinkMode: mode}
}

// Compose renders the pickup message for a finished ticket. Itemized
// invoices get one bulleted line per breakdown entry and a bolded total;
// flat ones just the total line.
func (c *Composer) Compose(ticket *domain.Ticket) (Message, error) {
	if ticket == nil || ticket.Status != domain.TicketStatusFinished || ticket.Billing == nil {
		return Message{}, errors.New("ticket has no billing to notify about")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "¡Hola! Tu bici ya está lista para recoger en %s 🚴‍♂️\n\n", c.ShopName)
	if len(ticket.Billing.Breakdown) > 0 {
		for _, item := range ticket.Billing.Breakdown {
			fmt.Fprintf(&b, "- %s: %s€\n", item.Label, formatAmount(item.Amount))
		}
		fmt.Fprintf(&b, "\n*Total: %s€*\n\n", formatAmount(ticket.Billing.Total))
	} else {
		fmt.Fprintf(&b, "Total: %s€\n\n", formatAmount(ticket.Billing.Total))
	}
	fmt.Fprintf(&b, "Por favor, no respondas a este mensaje. Para cualquier duda, llámanos al %s.", c.CallbackPhone)

	text := b.String()
	return Message{Text: text, DeepLink: c.deepLink(ticket.CustomerPhone, text)}, nil
}

func (c *Composer) deepLink(rawPhone, text string) string {
	recipient := phone.Display(rawPhone)
	escaped := url.QueryEscape(text)
	if c.LinkMode == LinkModeWeb {
		return fmt.Sprintf("https://api.whatsapp.com/send?phone=%s&text=%s", recipient, escaped)
	}
	return fmt.Sprintf("https://wa.me/%s?text=%s", recipient, escaped)
}

// formatAmount trims trailing zeros so 25.50 renders as "25.5" and 10.00
// as "10", matching what the operator typed.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
