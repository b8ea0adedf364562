package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/taller-manrubia/workshop-service/internal/api/dto"
	"github.com/taller-manrubia/workshop-service/internal/billing"
	apperrors "github.com/taller-manrubia/workshop-service/pkg/util"
)

// BillingHandler serves invoice previews so the UI can recompute the
// running total on every edit without committing anything.
type BillingHandler struct{}

// NewBillingHandler constructs handler.
func NewBillingHandler() *BillingHandler {
	return &BillingHandler{}
}

// Preview POST /billing/preview.
func (h *BillingHandler) Preview(c *fiber.Ctx) error {
	var req dto.BillingPreviewRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	bill, err := billing.Compose(billingInput(req.Mode, req.Price, req.Items))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.BillingResponse{
		Total:     bill.Total,
		Breakdown: bill.Breakdown,
	}})
}
