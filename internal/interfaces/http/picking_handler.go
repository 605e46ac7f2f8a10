package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/fulfillment-api/internal/application/dto"
	"github.com/jhoicas/fulfillment-api/internal/application/picking"
)

// PickingHandler maneja las peticiones HTTP de la sesión de picking (protegido).
type PickingHandler struct {
	uc *picking.SessionUseCase
}

// NewPickingHandler construye el handler.
func NewPickingHandler(uc *picking.SessionUseCase) *PickingHandler {
	return &PickingHandler{uc: uc}
}

// Create godoc
// @Summary      Crear sesión de picking para una orden
// @Tags         picking
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSessionRequest  true  "order_id y líneas de la orden con su ubicación asignada"
// @Success      201   {object}  dto.SessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/picking [post]
func (h *PickingHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSessionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	session, err := h.uc.CreateSession(c.Context(), in.OrderID, dto.ToLineItems(in.LineItems))
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToSessionResponse(session))
}

// Get godoc
// @Summary      Obtener el snapshot de la sesión de una orden
// @Tags         picking
// @Security     Bearer
// @Produce      json
// @Param        orderId  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.SessionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/picking/{orderId} [get]
func (h *PickingHandler) Get(c *fiber.Ctx) error {
	session, err := h.uc.Get(c.Context(), c.Params("orderId"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ToSessionResponse(session))
}

// Reset godoc
// @Summary      Reiniciar (eliminar) la sesión de una orden
// @Tags         picking
// @Security     Bearer
// @Produce      json
// @Param        orderId  path  string  true  "ID de la orden"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/picking/{orderId} [delete]
func (h *PickingHandler) Reset(c *fiber.Ctx) error {
	if err := h.uc.Reset(c.Context(), c.Params("orderId")); err != nil {
		return domainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "sesión reiniciada"})
}

// ScanBin godoc
// @Summary      Escanear el código de la ubicación actual
// @Description  Un código distinto al esperado responde 200 con outcome WRONG_BIN;
//
//	no es un error HTTP, el operario simplemente reintenta.
//
// @Tags         picking
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        orderId  path  string               true  "ID de la orden"
// @Param        body     body  dto.ScanBinRequest   true  "código escaneado"
// @Success      200  {object}  dto.ScanResultResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/picking/{orderId}/scan-bin [post]
func (h *PickingHandler) ScanBin(c *fiber.Ctx) error {
	var in dto.ScanBinRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	session, out, err := h.uc.ScanBin(c.Context(), c.Params("orderId"), in.Code)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ToScanResultResponse(out, session))
}

// ScanProduct godoc
// @Summary      Escanear una unidad de un SKU en la ubicación actual
// @Tags         picking
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        orderId  path  string                  true  "ID de la orden"
// @Param        body     body  dto.ScanProductRequest  true  "SKU escaneado"
// @Success      200  {object}  dto.ScanResultResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/picking/{orderId}/scan-product [post]
func (h *PickingHandler) ScanProduct(c *fiber.Ctx) error {
	var in dto.ScanProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	session, out, err := h.uc.ScanProduct(c.Context(), c.Params("orderId"), in.SKU)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ToScanResultResponse(out, session))
}

// NextBin godoc
// @Summary      Avanzar a la siguiente ubicación de la ruta
// @Tags         picking
// @Security     Bearer
// @Produce      json
// @Param        orderId  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.ScanResultResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/picking/{orderId}/next-bin [post]
func (h *PickingHandler) NextBin(c *fiber.Ctx) error {
	session, out, err := h.uc.MoveToNextBin(c.Context(), c.Params("orderId"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ToScanResultResponse(out, session))
}

// StartVerification godoc
// @Summary      Iniciar el pase de verificación de la orden
// @Tags         verification
// @Security     Bearer
// @Produce      json
// @Param        orderId  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.SessionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/picking/{orderId}/verification/start [post]
func (h *PickingHandler) StartVerification(c *fiber.Ctx) error {
	session, err := h.uc.StartVerification(c.Context(), c.Params("orderId"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ToSessionResponse(session))
}

// ScanForVerification godoc
// @Summary      Escanear una unidad durante la verificación
// @Tags         verification
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        orderId  path  string                  true  "ID de la orden"
// @Param        body     body  dto.ScanProductRequest  true  "SKU escaneado"
// @Success      200  {object}  dto.ScanResultResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/picking/{orderId}/verification/scan [post]
func (h *PickingHandler) ScanForVerification(c *fiber.Ctx) error {
	var in dto.ScanProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	session, out, err := h.uc.ScanForVerification(c.Context(), c.Params("orderId"), in.SKU)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ToScanResultResponse(out, session))
}

// PickSheet godoc
// @Summary      Hoja de ruta imprimible de la sesión (PDF)
// @Tags         picking
// @Security     Bearer
// @Produce      application/pdf
// @Param        orderId  path  string  true  "ID de la orden"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/picking/{orderId}/sheet [get]
func (h *PickingHandler) PickSheet(c *fiber.Ctx) error {
	orderID := c.Params("orderId")
	pdf, err := h.uc.PickSheet(c.Context(), orderID)
	if err != nil {
		return domainError(c, err)
	}
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="picking-%s.pdf"`, orderID))
	return c.Send(pdf)
}
