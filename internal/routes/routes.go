package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"

	authHandlers "github.com/evn/eom_hradmin/internal/handlers/auth"
	clientHandlers "github.com/evn/eom_hradmin/internal/handlers/client"
	pageHandlers "github.com/evn/eom_hradmin/internal/handlers/page"
	shiftHandlers "github.com/evn/eom_hradmin/internal/handlers/shift"
	"github.com/evn/eom_hradmin/internal/middleware"
	"github.com/evn/eom_hradmin/internal/models"
	"github.com/evn/eom_hradmin/internal/pkg/response"
	"github.com/evn/eom_hradmin/internal/repositories"
	authService "github.com/evn/eom_hradmin/internal/services/auth"
	shiftService "github.com/evn/eom_hradmin/internal/services/shift"
	"github.com/evn/eom_hradmin/internal/services/ws"
)

// Dependencies собирается в main и содержит всё, что нужно маршрутизатору.
type Dependencies struct {
	Admin       models.Admin
	JWTService  *authService.JWTService
	KeyVerifier authService.KeyVerifier
	ClientStore repositories.ClientStore
	ShiftStore  shiftHandlers.ShiftStore
	Sheets      shiftService.SheetsReader
	Hub         *ws.Hub
	StaticDir   string
}

// Setup инициализирует и возвращает настроенный маршрутизатор.
func Setup(deps Dependencies) *chi.Mux {
	jwtAuth := deps.JWTService.JWTAuth()

	authHandler := authHandlers.NewAuthHandler(deps.Admin, deps.JWTService)
	clientHandler := clientHandlers.NewHandler(deps.KeyVerifier, deps.ClientStore)
	shiftHandler := shiftHandlers.NewShiftHandler(deps.ShiftStore, deps.Hub, deps.Sheets)

	router := chi.NewRouter()

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	// OPTIONS на любой путь отвечает здесь, до маршрутизации и авторизации
	router.Use(middleware.CORS())

	// Публичные маршруты
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.Handle("/api/client", clientHandler)
	router.Post("/api/auth/login", authHandler.LoginHandler)
	router.Get("/admin/shifts", pageHandlers.ShiftManagementHandler(pageHandlers.DefaultShiftPageData()))
	if deps.StaticDir != "" {
		router.Handle("/static/*", http.StripPrefix("/static", http.FileServer(http.Dir(deps.StaticDir))))
	}

	// Админские маршруты
	router.Group(func(r chi.Router) {
		// браузерный websocket не умеет заголовки, поэтому токен принимается и из ?jwt=
		r.Use(jwtauth.Verify(jwtAuth, jwtauth.TokenFromHeader, jwtauth.TokenFromCookie, jwtauth.TokenFromQuery))
		r.Use(jwtauth.Authenticator(jwtAuth))
		r.Use(middleware.AddUserIDToContext())
		r.Use(middleware.AdminOnly())

		r.Post("/api/logout", authHandler.LogoutHandler)

		r.Get("/api/admin/shifts", shiftHandler.ListShiftsHandler)
		r.Post("/api/admin/shifts", shiftHandler.CreateShiftHandler)
		r.Get("/api/admin/shifts/export", shiftHandler.ExportShiftsHandler)
		r.Post("/api/admin/shifts/import", shiftHandler.ImportShiftsHandler)
		r.Get("/api/admin/shifts/{id}", shiftHandler.GetShiftHandler)
		r.Put("/api/admin/shifts/{id}", shiftHandler.UpdateShiftHandler)
		r.Post("/api/admin/shifts/{id}/deactivate", shiftHandler.DeactivateShiftHandler)

		r.Get("/ws/shifts", shiftHandlers.ShiftEventsHandler(deps.Hub))
	})

	return router
}
