package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Contabilidad-api/internal/application/auth"
	"github.com/jhoicas/Contabilidad-api/internal/application/ledger"
	"github.com/jhoicas/Contabilidad-api/internal/application/usecase"
	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppName   string
	AuthUC    *auth.AuthUseCase
	PreviewUC *ledger.PreviewUseCase
	AccountUC *usecase.AccountUseCase
	ItemUC    *usecase.ItemUseCase
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})

	api := app.Group("/api")
	authn := AuthMiddleware(deps.JWTSecret)
	writers := RequireRole(entity.RoleAdmin, entity.RoleContador)
	anyRole := RequireRole(entity.RoleAdmin, entity.RoleContador, entity.RoleConsulta)

	// Auth: login público, registro solo admin
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)
	api.Post("/auth/register", authn, RequireRole(entity.RoleAdmin), authHandler.Register)

	// Vista previa de partidas
	previewHandler := NewPreviewHandler(deps.PreviewUC)
	api.Post("/splits/preview", authn, anyRole, previewHandler.Preview)

	// Plan de cuentas
	accountHandler := NewAccountHandler(deps.AccountUC)
	accounts := api.Group("/accounts", authn)
	accounts.Get("/", anyRole, accountHandler.List)
	accounts.Get("/:id", anyRole, accountHandler.GetByID)
	accounts.Post("/", writers, accountHandler.Create)

	// Catálogo de ítems
	itemHandler := NewItemHandler(deps.ItemUC)
	items := api.Group("/items", authn)
	items.Get("/", anyRole, itemHandler.List)
	items.Get("/:id", anyRole, itemHandler.GetByID)
	items.Post("/", writers, itemHandler.Create)
	items.Put("/:id", writers, itemHandler.Update)
}
