package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Stock-api/internal/application/commande"
	"github.com/jhoicas/Stock-api/internal/application/dto"
)

// CommandeHandler demanda de clientes.
type CommandeHandler struct {
	uc *commande.UseCase
}

// NewCommandeHandler construye el handler.
func NewCommandeHandler(uc *commande.UseCase) *CommandeHandler {
	return &CommandeHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar commande
// @Tags         commandes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CommandeRequest  true  "Commande"
// @Success      201   {object}  dto.CommandeDetailResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/commandes [post]
func (h *CommandeHandler) Create(c *fiber.Ctx) error {
	var in dto.CommandeRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener commande con cantidades entregada y pendiente
// @Tags         commandes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la commande"
// @Success      200  {object}  dto.CommandeDetailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/commandes/{id} [get]
func (h *CommandeHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Buscar commandes (por defecto solo activas)
// @Tags         commandes
// @Security     Bearer
// @Produce      json
// @Param        article           query  string  false  "Referencia del artículo"
// @Param        client            query  string  false  "Nombre del cliente"
// @Param        date_souhaitee    query  string  false  "Fecha deseada (YYYY-MM-DD)"
// @Param        date_ajout        query  string  false  "Fecha de alta (YYYY-MM-DD)"
// @Param        include_inactive  query  bool    false  "Incluir commandes cumplidas"
// @Param        limit             query  int     false  "Límite"  default(20)
// @Param        offset            query  int     false  "Offset"  default(0)
// @Success      200               {object}  dto.CommandeListResponse
// @Failure      400               {object}  dto.ErrorResponse
// @Router       /api/commandes [get]
func (h *CommandeHandler) List(c *fiber.Ctx) error {
	var q dto.CommandeQuery
	if err := c.QueryParser(&q); err != nil {
		return badQuery(c)
	}
	out, err := h.uc.List(c.UserContext(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Totales de commandes (mismos filtros que la búsqueda)
// @Tags         commandes
// @Security     Bearer
// @Produce      json
// @Param        article           query  string  false  "Referencia del artículo"
// @Param        client            query  string  false  "Nombre del cliente"
// @Param        date_souhaitee    query  string  false  "Fecha deseada (YYYY-MM-DD)"
// @Param        date_ajout        query  string  false  "Fecha de alta (YYYY-MM-DD)"
// @Param        include_inactive  query  bool    false  "Incluir commandes cumplidas"
// @Success      200               {object}  dto.CommandeSummaryResponse
// @Router       /api/commandes/summary [get]
func (h *CommandeHandler) Summary(c *fiber.Ctx) error {
	var q dto.CommandeQuery
	if err := c.QueryParser(&q); err != nil {
		return badQuery(c)
	}
	out, err := h.uc.Summary(c.UserContext(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Reemplazar commande y recalcular su estado
// @Tags         commandes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la commande"
// @Param        body  body  dto.CommandeRequest  true  "Commande"
// @Success      200   {object}  dto.CommandeDetailResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/commandes/{id} [put]
func (h *CommandeHandler) Update(c *fiber.Ctx) error {
	var in dto.CommandeRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar commande sin livraisons
// @Tags         commandes
// @Security     Bearer
// @Param        id   path  string  true  "ID de la commande"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/commandes/{id} [delete]
func (h *CommandeHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
