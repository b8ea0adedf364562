package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/taller-manrubia/workshop-service/internal/api/dto"
	"github.com/taller-manrubia/workshop-service/internal/service"
	apperrors "github.com/taller-manrubia/workshop-service/pkg/util"
)

// The UI starts looking up customers once the operator has typed this
// many characters; shorter queries are rejected so misfires stay cheap.
const minLookupLength = 9

// CustomersHandler exposes the customer directory.
type CustomersHandler struct {
	directory *service.DirectoryService
}

// NewCustomersHandler constructs handler.
func NewCustomersHandler(directory *service.DirectoryService) *CustomersHandler {
	return &CustomersHandler{directory: directory}
}

// Lookup GET /customers/lookup?phone=. Returns 204 when no prior customer
// matches, so the UI leaves the name field alone.
func (h *CustomersHandler) Lookup(c *fiber.Ctx) error {
	rawPhone := c.Query("phone")
	if len(rawPhone) < minLookupLength {
		return apperrors.NewValidationError("phone query too short", map[string]any{"min_length": minLookupLength})
	}
	record, err := h.directory.Lookup(c.UserContext(), rawPhone)
	if err != nil {
		return err
	}
	if record == nil {
		return c.SendStatus(http.StatusNoContent)
	}
	return c.JSON(fiber.Map{"data": dto.CustomerLookupResponse{
		Name:  record.Name,
		Phone: record.Phone,
	}})
}

// ListCustomers GET /customers.
func (h *CustomersHandler) ListCustomers(c *fiber.Ctx) error {
	records, err := h.directory.ListCustomers(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.CustomerResponse, 0, len(records))
	for _, record := range records {
		items = append(items, dto.CustomerResponse{
			ID:        record.ID,
			Name:      record.Name,
			Phone:     record.Phone,
			CreatedAt: record.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}
