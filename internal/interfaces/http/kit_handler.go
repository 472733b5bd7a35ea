package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/hidrosur/comercial-api/internal/application/dto"
	"github.com/hidrosur/comercial-api/internal/application/kit"
	"github.com/hidrosur/comercial-api/internal/domain"
)

// KitHandler maneja la expansión de kits a demanda concreta (protegido).
type KitHandler struct {
	resolver *kit.ResolverUseCase
}

// NewKitHandler construye el handler.
func NewKitHandler(resolver *kit.ResolverUseCase) *KitHandler {
	return &KitHandler{resolver: resolver}
}

// Resolve godoc
// @Summary      Resolver un kit a componentes concretos
// @Description  Expande la lista de materiales del kit con las selecciones del vendedor (base o sustituto por línea) a una demanda plana por producto.
// @Tags         kits
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        kitProductId  path  string            true  "ID del producto kit"
// @Param        body  body  dto.ResolveKitRequest  true  "kit_qty y selecciones por línea del BOM"
// @Success      200   {object}  dto.ResolveKitResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/kits/{kitProductId}/resolve [post]
func (h *KitHandler) Resolve(c *fiber.Ctx) error {
	kitProductID := c.Params("kitProductId")
	var in dto.ResolveKitRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.KitQty.IsZero() {
		in.KitQty = decimal.NewFromInt(1)
	}
	if !in.KitQty.GreaterThan(decimal.Zero) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "kit_qty debe ser positivo"})
	}

	components, err := h.resolver.Resolve(c.Context(), kitProductID, in.KitQty, in.Selections)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
		case errors.Is(err, domain.ErrIncompleteKit):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "INCOMPLETE_KIT", Message: "configuración de kit incompleta"})
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "selección inválida"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	out := make([]dto.ResolvedComponent, 0, len(components))
	for _, comp := range components {
		out = append(out, dto.ResolvedComponent{
			ProductID: comp.ProductID,
			Quantity:  comp.Quantity,
			UnitPrice: comp.UnitPrice,
		})
	}
	return c.JSON(dto.ResolveKitResponse{
		KitProductID: kitProductID,
		KitQty:       in.KitQty,
		Components:   out,
	})
}
