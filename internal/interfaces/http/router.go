package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/fulfillment-api/internal/application/picking"
)

// Roles que emite la plataforma en el claim "role".
const (
	RolePicker     = "picker"
	RoleSupervisor = "supervisor"
	RoleAdmin      = "admin"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	SessionUC *picking.SessionUseCase
	IssueUC   *picking.IssueUseCase
	JWTSecret string
}

// Router registra las rutas de la API. Todas las operaciones de picking
// requieren Bearer Token; la resolución de incidencias además exige rol
// supervisor o admin.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Sesión de picking (protegido)
	pickingGroup := protected.Group("/picking")
	pickingHandler := NewPickingHandler(deps.SessionUC)
	pickingGroup.Post("/", pickingHandler.Create)
	pickingGroup.Get("/:orderId", pickingHandler.Get)
	pickingGroup.Delete("/:orderId", pickingHandler.Reset)
	pickingGroup.Post("/:orderId/scan-bin", pickingHandler.ScanBin)
	pickingGroup.Post("/:orderId/scan-product", pickingHandler.ScanProduct)
	pickingGroup.Post("/:orderId/next-bin", pickingHandler.NextBin)
	pickingGroup.Post("/:orderId/verification/start", pickingHandler.StartVerification)
	pickingGroup.Post("/:orderId/verification/scan", pickingHandler.ScanForVerification)
	pickingGroup.Get("/:orderId/sheet", pickingHandler.PickSheet)

	// Incidencias (protegido; plan/confirm requieren supervisor)
	issueHandler := NewIssueHandler(deps.IssueUC)
	pickingGroup.Post("/:orderId/issues", issueHandler.Report)
	pickingGroup.Post("/:orderId/issues/plan", RequireRole(RoleSupervisor, RoleAdmin), issueHandler.Plan)
	pickingGroup.Post("/:orderId/issues/confirm", RequireRole(RoleSupervisor, RoleAdmin), issueHandler.Confirm)

	// Ubicaciones candidatas (protegido)
	bins := protected.Group("/bins")
	bins.Get("/candidates", issueHandler.Candidates)
}
