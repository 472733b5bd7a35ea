package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hidrosur/comercial-api/internal/application/dto"
	"github.com/hidrosur/comercial-api/internal/application/inventory"
	"github.com/hidrosur/comercial-api/internal/domain"
	"github.com/hidrosur/comercial-api/internal/domain/entity"
	"github.com/hidrosur/comercial-api/pkg/validator"
)

const dateLayout = "2006-01-02"

// InventoryHandler maneja las peticiones HTTP del libro de inventario (protegido).
type InventoryHandler struct {
	uc *inventory.UseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.UseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Description  Apenda un movimiento al libro. IN/OUT con cantidad positiva; ADJUST con cantidad con signo. Un OUT nunca deja saldo negativo.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "product_id, type (IN|OUT|ADJUST), quantity, note"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if fieldErrs := validator.ValidateStruct(in); fieldErrs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos", Details: fieldErrs})
	}

	date := time.Now()
	if in.Date != "" {
		var err error
		if date, err = time.Parse(dateLayout, in.Date); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha inválida (YYYY-MM-DD)"})
		}
	}

	id, err := h.uc.RegisterMovement(c.Context(), inventory.MovementInput{
		ProductID: in.ProductID,
		Date:      date,
		Type:      in.Type,
		Quantity:  in.Quantity,
		Note:      in.Note,
		Origin: entity.MovementOrigin{
			Module:  in.OriginModule,
			RefType: in.OriginType,
			RefID:   in.OriginRefID,
		},
		UserID: userID,
	})
	if err != nil {
		return inventoryError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id, "message": "movimiento registrado"})
}

// GetBalance godoc
// @Summary      Saldo derivado de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {object}  dto.BalanceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/balances/{productId} [get]
func (h *InventoryHandler) GetBalance(c *fiber.Ctx) error {
	productID := c.Params("productId")
	balance, err := h.uc.GetBalance(c.Context(), productID)
	if err != nil {
		return inventoryError(c, err)
	}
	return c.JSON(dto.BalanceResponse{ProductID: productID, Balance: balance})
}

// GetBalances godoc
// @Summary      Saldos derivados en lote
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BalancesRequest  true  "IDs de productos"
// @Success      200   {array}   dto.BalanceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/balances [post]
func (h *InventoryHandler) GetBalances(c *fiber.Ctx) error {
	var in dto.BalancesRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if fieldErrs := validator.ValidateStruct(in); fieldErrs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos", Details: fieldErrs})
	}
	balances, err := h.uc.GetBalances(c.Context(), in.ProductIDs)
	if err != nil {
		return inventoryError(c, err)
	}
	out := make([]dto.BalanceResponse, 0, len(in.ProductIDs))
	for _, id := range in.ProductIDs {
		out = append(out, dto.BalanceResponse{ProductID: id, Balance: balances[id]})
	}
	return c.JSON(out)
}

// GetKardex godoc
// @Summary      Kardex de un producto
// @Description  Movimientos del producto, más reciente primero, con filtro opcional de fechas.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        productId  path   string  true   "ID del producto"
// @Param        from       query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to         query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        limit      query  int     false  "Límite (por defecto 20)"
// @Param        offset     query  int     false  "Offset"
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/kardex/{productId} [get]
func (h *InventoryHandler) GetKardex(c *fiber.Ctx) error {
	productID := c.Params("productId")

	var from, to *time.Time
	if s := c.Query("from"); s != "" {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido (YYYY-MM-DD)"})
		}
		from = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido (YYYY-MM-DD)"})
		}
		to = &t
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	movements, err := h.uc.ListKardex(c.Context(), productID, from, to, page.Limit, page.Offset)
	if err != nil {
		return inventoryError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.MovementResponse{
			ID:           m.ID,
			ProductID:    m.ProductID,
			Date:         m.Date.Format(dateLayout),
			Type:         m.Type,
			Quantity:     m.Quantity,
			Note:         m.Note,
			OriginModule: m.Origin.Module,
			OriginRefID:  m.Origin.RefID,
		})
	}
	return c.JSON(out)
}

// inventoryError mapea errores de dominio a HTTP.
func inventoryError(c *fiber.Ctx, err error) error {
	var shortage *domain.StockShortageError
	if errors.As(err, &shortage) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "INSUFFICIENT_STOCK",
			Message: "stock insuficiente",
			Details: fiber.Map{
				"product_id": shortage.ProductID,
				"requested":  shortage.Requested,
				"available":  shortage.Available,
			},
		})
	}
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
