// Package billing composes the invoice attached to a ticket when the
// repair finishes: either a single flat price or an itemized breakdown.
package billing

import (
	"math"
	"strconv"
	"strings"

	"github.com/taller-manrubia/workshop-service/internal/domain"
	apperrors "github.com/taller-manrubia/workshop-service/pkg/util"
)

// Mode selects how the operator priced the repair.
type Mode string

const (
	ModeFlat     Mode = "FLAT"
	ModeItemized Mode = "ITEMIZED"
)

// ItemInput is one line item as typed by the operator. Amount arrives as
// the raw input string and is parsed during composition.
type ItemInput struct {
	Label  string
	Amount string
}

// Input carries the operator's pricing for a finish request.
type Input struct {
	Mode  Mode
	Price string
	Items []ItemInput
}

// Compose turns operator input into a Billing. In itemized mode, items
// missing a label or carrying an unparseable or negative amount are
// silently excluded from both the total and the breakdown; composition
// fails only when no valid item remains. Totals are rounded to cents.
func Compose(input Input) (*domain.Billing, error) {
	switch input.Mode {
	case ModeItemized:
		return composeItemized(input.Items)
	default:
		return composeFlat(input.Price)
	}
}

func composeFlat(price string) (*domain.Billing, error) {
	amount, ok := parseAmount(price)
	if !ok {
		return nil, apperrors.NewValidationError("a valid price is required", nil)
	}
	return &domain.Billing{Total: roundCents(amount)}, nil
}

func composeItemized(items []ItemInput) (*domain.Billing, error) {
	breakdown := make([]domain.LineItem, 0, len(items))
	var total float64
	for _, item := range items {
		label := strings.TrimSpace(item.Label)
		amount, ok := parseAmount(item.Amount)
		if label == "" || !ok {
			continue
		}
		breakdown = append(breakdown, domain.LineItem{Label: label, Amount: amount})
		total += amount
	}
	if len(breakdown) == 0 {
		return nil, apperrors.NewValidationError("at least one complete line item is required", nil)
	}
	return &domain.Billing{Total: roundCents(total), Breakdown: breakdown}, nil
}

// parseAmount accepts zero or positive amounts, with comma or dot as the
// decimal separator.
func parseAmount(raw string) (float64, bool) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if raw == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value < 0 || math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, false
	}
	return value, true
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
