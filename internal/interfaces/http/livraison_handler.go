package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Stock-api/internal/application/dto"
	"github.com/jhoicas/Stock-api/internal/application/livraison"
)

// LivraisonHandler salidas de stock y bons de livraison.
type LivraisonHandler struct {
	uc  *livraison.UseCase
	pdf *livraison.PDFUseCase
}

// NewLivraisonHandler construye el handler. pdf puede ser nil (la descarga responde 501).
func NewLivraisonHandler(uc *livraison.UseCase, pdf *livraison.PDFUseCase) *LivraisonHandler {
	return &LivraisonHandler{uc: uc, pdf: pdf}
}

// Create godoc
// @Summary      Registrar livraison
// @Description  Resuelve la commande por (article_ref, client_name, numero_commande_client), descuenta el stock y asigna el número de BL.
// @Tags         livraisons
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LivraisonRequest  true  "Livraison"
// @Success      201   {object}  dto.LivraisonResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "INSUFFICIENT_STOCK o QUANTITY_EXCEEDED"
// @Router       /api/livraisons [post]
func (h *LivraisonHandler) Create(c *fiber.Ctx) error {
	var in dto.LivraisonRequest
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
// @Summary      Obtener livraison
// @Tags         livraisons
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la livraison"
// @Success      200  {object}  dto.LivraisonResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/livraisons/{id} [get]
func (h *LivraisonHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Buscar livraisons
// @Tags         livraisons
// @Security     Bearer
// @Produce      json
// @Param        article   query  string  false  "Referencia del artículo"
// @Param        client    query  string  false  "Nombre del cliente"
// @Param        commande  query  string  false  "Número de commande del cliente"
// @Param        from      query  string  false  "Desde (inclusive)"
// @Param        to        query  string  false  "Hasta (inclusive)"
// @Param        limit     query  int     false  "Límite"  default(20)
// @Param        offset    query  int     false  "Offset"  default(0)
// @Success      200       {object}  dto.LivraisonListResponse
// @Failure      400       {object}  dto.ErrorResponse
// @Router       /api/livraisons [get]
func (h *LivraisonHandler) List(c *fiber.Ctx) error {
	var q dto.LivraisonQuery
	if err := c.QueryParser(&q); err != nil {
		return badQuery(c)
	}
	out, err := h.uc.List(c.UserContext(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Reemplazar livraison (el número de BL no cambia)
// @Tags         livraisons
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la livraison"
// @Param        body  body  dto.LivraisonRequest  true  "Livraison"
// @Success      200   {object}  dto.LivraisonResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/livraisons/{id} [put]
func (h *LivraisonHandler) Update(c *fiber.Ctx) error {
	var in dto.LivraisonRequest
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
// @Summary      Eliminar livraison (devuelve el stock y reabre la commande)
// @Tags         livraisons
// @Security     Bearer
// @Param        id   path  string  true  "ID de la livraison"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/livraisons/{id} [delete]
func (h *LivraisonHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DownloadPDF godoc
// @Summary      Descargar bon de livraison en PDF
// @Tags         livraisons
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la livraison"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/livraisons/{id}/pdf [get]
func (h *LivraisonHandler) DownloadPDF(c *fiber.Ctx) error {
	if h.pdf == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(dto.ErrorResponse{Code: "NOT_IMPLEMENTED", Message: "generación de PDF no configurada"})
	}
	out, filename, err := h.pdf.DownloadDeliveryNote(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(out)
}
