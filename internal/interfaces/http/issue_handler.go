package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/fulfillment-api/internal/application/dto"
	"github.com/jhoicas/fulfillment-api/internal/application/picking"
	"github.com/jhoicas/fulfillment-api/internal/domain/entity"
	dompicking "github.com/jhoicas/fulfillment-api/internal/domain/picking"
)

// IssueHandler maneja las incidencias de picking y la búsqueda de ubicaciones
// candidatas para reasignación (protegido).
type IssueHandler struct {
	uc *picking.IssueUseCase
}

// NewIssueHandler construye el handler.
func NewIssueHandler(uc *picking.IssueUseCase) *IssueHandler {
	return &IssueHandler{uc: uc}
}

// Report godoc
// @Summary      Reportar una incidencia en la ubicación actual
// @Tags         issues
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        orderId  path  string                  true  "ID de la orden"
// @Param        body     body  dto.ReportIssueRequest  true  "sku, bin_code, issue_type (not_found|insufficient|relocated), cantidades"
// @Success      201  {object}  dto.IssueResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/picking/{orderId}/issues [post]
func (h *IssueHandler) Report(c *fiber.Ctx) error {
	var in dto.ReportIssueRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	issue, err := h.uc.ReportIssue(c.Context(), c.Params("orderId"), dompicking.IssueReport{
		SKU:              in.SKU,
		ProductName:      in.ProductName,
		BinCode:          in.BinCode,
		Type:             entity.IssueType(in.IssueType),
		ExpectedQuantity: in.ExpectedQuantity,
		FoundQuantity:    in.FoundQuantity,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToIssueResponse(issue))
}

// Plan godoc
// @Summary      Calcular las instrucciones de resolución de una incidencia
// @Description  No muta la sesión: devuelve el ajuste de cantidad o las
//
//	reasignaciones que el sistema de pedidos debe ejecutar antes de confirmar.
//
// @Tags         issues
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        orderId  path  string                   true  "ID de la orden"
// @Param        body     body  dto.ResolveIssueRequest  true  "sku, bin_code y asignaciones a ubicaciones alternativas"
// @Success      200  {object}  dto.ResolutionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/picking/{orderId}/issues/plan [post]
func (h *IssueHandler) Plan(c *fiber.Ctx) error {
	var in dto.ResolveIssueRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.uc.PlanResolution(c.Context(), c.Params("orderId"), in.SKU, in.BinCode, in.Allocations())
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ToResolutionResponse(res))
}

// Confirm godoc
// @Summary      Confirmar la resolución de una incidencia
// @Description  Se invoca cuando el colaborador confirmó la ejecución del plan;
//
//	solo entonces la sesión refleja la resolución.
//
// @Tags         issues
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        orderId  path  string                   true  "ID de la orden"
// @Param        body     body  dto.ResolveIssueRequest  true  "sku, bin_code y asignaciones confirmadas"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/picking/{orderId}/issues/confirm [post]
func (h *IssueHandler) Confirm(c *fiber.Ctx) error {
	var in dto.ResolveIssueRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	issue, res, err := h.uc.ConfirmResolution(c.Context(), c.Params("orderId"), in.SKU, in.BinCode, in.Allocations())
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(fiber.Map{
		"issue":      dto.ToIssueResponse(issue),
		"resolution": dto.ToResolutionResponse(res),
	})
}

// Candidates godoc
// @Summary      Buscar ubicaciones candidatas con stock de un SKU
// @Tags         issues
// @Security     Bearer
// @Produce      json
// @Param        sku          query  string  true   "SKU a buscar"
// @Param        exclude_bin  query  string  false  "Ubicación a excluir (la de la incidencia)"
// @Param        limit        query  int     false  "Máximo de resultados (defecto 50)"
// @Param        offset       query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.BinCandidateResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/bins/candidates [get]
func (h *IssueHandler) Candidates(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()

	candidates, err := h.uc.FindCandidates(c.Context(), c.Query("sku"), c.Query("exclude_bin"), page.Limit, page.Offset)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.BinCandidateResponse, len(candidates))
	for i, cand := range candidates {
		out[i] = dto.ToBinCandidateResponse(cand)
	}
	return c.JSON(fiber.Map{
		"total":      len(out),
		"candidates": out,
	})
}
