package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/swimboards/recordboard/handlers"
	"github.com/swimboards/recordboard/middleware"
)

// SetupRoutes wires every handler into the router. The public embed API
// and the websocket endpoint allow any origin; everything else requires
// a Bearer token.
func SetupRoutes(
	router *chi.Mux,
	auth *middleware.Authenticator,
	authHandler *handlers.AuthHandler,
	clubHandler *handlers.ClubHandler,
	memberHandler *handlers.MemberHandler,
	listHandler *handlers.RecordListHandler,
	recordHandler *handlers.RecordHandler,
	importHandler *handlers.ImportHandler,
	publicHandler *handlers.PublicHandler,
	wsHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)
	router.Post("/auth/forgot-password", authHandler.ForgotPassword)
	router.Post("/auth/reset-password", authHandler.ResetPassword)

	router.Get("/csv/template", listHandler.Template)

	publicCORS := cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})

	router.Route("/api", func(r chi.Router) {
		r.Use(publicCORS)
		r.Get("/clubs/{clubSlug}", publicHandler.ClubPage)
		r.Get("/clubs/{clubSlug}/records", publicHandler.ClubRecords)
	})

	router.Route("/ws", func(r chi.Router) {
		r.Use(publicCORS)
		r.Get("/clubs/{clubSlug}", wsHandler.ServeWs)
	})

	// Dashboard API, authenticated. Role checks happen in the services.
	router.Group(func(r chi.Router) {
		r.Use(auth.Authenticate)

		r.Get("/me/selected-club", clubHandler.GetSelected)
		r.Put("/me/selected-club", clubHandler.SetSelected)

		r.Route("/clubs", func(r chi.Router) {
			r.Get("/", clubHandler.ListMine)
			r.Post("/", clubHandler.Create)

			r.Route("/{clubID}", func(r chi.Router) {
				r.Get("/", clubHandler.Get)
				r.Patch("/", clubHandler.Update)
				r.Post("/logo", clubHandler.UploadLogo)

				r.Get("/members", memberHandler.List)
				r.Post("/members", memberHandler.Add)
				r.Patch("/members/{userID}", memberHandler.UpdateRole)
				r.Delete("/members/{userID}", memberHandler.Remove)
				r.Post("/transfer-ownership", memberHandler.TransferOwnership)

				r.Get("/lists", listHandler.ListForClub)
				r.Post("/lists", listHandler.Create)
				r.Get("/export.csv", listHandler.ExportClub)
				r.Post("/import", importHandler.Run)
			})
		})

		r.Route("/lists/{listID}", func(r chi.Router) {
			r.Get("/", listHandler.Get)
			r.Patch("/", listHandler.Update)
			r.Delete("/", listHandler.Delete)
			r.Get("/export.csv", listHandler.ExportList)

			r.Get("/records", recordHandler.ListWithHistory)
			r.Put("/records", recordHandler.Save)
			r.Post("/records/{recordID}/break", recordHandler.Break)
		})

		r.Delete("/records/{recordID}", recordHandler.Delete)
	})
}
