package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hidrosur/comercial-api/internal/application/dto"
	"github.com/hidrosur/comercial-api/internal/application/services"
	"github.com/hidrosur/comercial-api/internal/domain"
	"github.com/hidrosur/comercial-api/pkg/validator"
)

// ServicesHandler maneja los contratos de servicio recurrente (protegido).
type ServicesHandler struct {
	uc *services.UseCase
}

// NewServicesHandler construye el handler.
func NewServicesHandler(uc *services.UseCase) *ServicesHandler {
	return &ServicesHandler{uc: uc}
}

// Create godoc
// @Summary      Crear un contrato de servicio manual
// @Tags         services
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateContractRequest  true  "cliente, producto, fecha de inicio e intervalo en meses"
// @Success      201   {object}  dto.ContractResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/service-contracts [post]
func (h *ServicesHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateContractRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if fieldErrs := validator.ValidateStruct(in); fieldErrs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos", Details: fieldErrs})
	}
	contract, err := h.uc.CreateObligation(c.Context(), in)
	if err != nil {
		return servicesError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(contract)
}

// List godoc
// @Summary      Listar contratos por urgencia
// @Description  Contratos ordenados por próxima fecha de servicio ascendente, cada uno con días restantes y estado derivado (vencido, por_vencer, pendiente).
// @Tags         services
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite (por defecto 20)"
// @Param        offset  query  int  false  "Offset"
// @Success      200  {array}   dto.ContractResponse
// @Router       /api/service-contracts [get]
func (h *ServicesHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	contracts, err := h.uc.List(c.Context(), page)
	if err != nil {
		return servicesError(c, err)
	}
	return c.JSON(contracts)
}

// GetByID godoc
// @Summary      Detalle de un contrato
// @Tags         services
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del contrato"
// @Success      200  {object}  dto.ContractResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/service-contracts/{id} [get]
func (h *ServicesHandler) GetByID(c *fiber.Ctx) error {
	contract, err := h.uc.GetContract(c.Context(), c.Params("id"))
	if err != nil {
		return servicesError(c, err)
	}
	return c.JSON(contract)
}

// Status godoc
// @Summary      Estado derivado de un contrato a una fecha
// @Tags         services
// @Security     Bearer
// @Produce      json
// @Param        id     path   string  true   "ID del contrato"
// @Param        as_of  query  string  false  "Fecha de corte (YYYY-MM-DD, hoy por defecto)"
// @Success      200  {object}  dto.ContractStatusResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/service-contracts/{id}/status [get]
func (h *ServicesHandler) Status(c *fiber.Ctx) error {
	asOf := time.Now()
	if s := c.Query("as_of"); s != "" {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "as_of inválido (YYYY-MM-DD)"})
		}
		asOf = t
	}
	status, err := h.uc.Status(c.Context(), c.Params("id"), asOf)
	if err != nil {
		return servicesError(c, err)
	}
	return c.JSON(status)
}

// Attend godoc
// @Summary      Registrar la atención de un contrato
// @Description  Fija la última fecha de servicio, avanza la próxima un intervalo desde la fecha de atención y deja una nota de cambio en el historial.
// @Tags         services
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true   "ID del contrato"
// @Param        body  body  dto.AttendContractRequest  false  "fecha de atención y nota opcionales"
// @Success      200   {object}  dto.ContractResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/service-contracts/{id}/attend [post]
func (h *ServicesHandler) Attend(c *fiber.Ctx) error {
	userID := GetUserID(c)
	var in dto.AttendContractRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	contract, err := h.uc.Attend(c.Context(), c.Params("id"), userID, in)
	if err != nil {
		return servicesError(c, err)
	}
	return c.JSON(contract)
}

// AddNote godoc
// @Summary      Agregar una observación al historial
// @Tags         services
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del contrato"
// @Param        body  body  dto.ContractNoteRequest  true  "texto de la observación"
// @Success      201   {object}  dto.ContractNoteResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/service-contracts/{id}/notes [post]
func (h *ServicesHandler) AddNote(c *fiber.Ctx) error {
	userID := GetUserID(c)
	var in dto.ContractNoteRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if fieldErrs := validator.ValidateStruct(in); fieldErrs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos", Details: fieldErrs})
	}
	note, err := h.uc.AddObservation(c.Context(), c.Params("id"), userID, in)
	if err != nil {
		return servicesError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(note)
}

// ListNotes godoc
// @Summary      Historial de un contrato
// @Description  Atenciones y observaciones, más reciente primero.
// @Tags         services
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del contrato"
// @Success      200  {array}   dto.ContractNoteResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/service-contracts/{id}/notes [get]
func (h *ServicesHandler) ListNotes(c *fiber.Ctx) error {
	notes, err := h.uc.NoteHistory(c.Context(), c.Params("id"))
	if err != nil {
		return servicesError(c, err)
	}
	return c.JSON(notes)
}

// servicesError mapea errores de dominio a HTTP.
func servicesError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "contrato no encontrado"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
