package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rallydesk/rallydesk/handlers"
	"github.com/rallydesk/rallydesk/middleware"
	"github.com/rallydesk/rallydesk/models"
)

// SetupRoutes wires every handler onto the router. Reads are public;
// anything that mutates a draw or a result requires an organizer or
// scorer token.
func SetupRoutes(
	router *chi.Mux,
	jwtSecret []byte,
	authHandler *handlers.AuthHandler,
	tournamentHandler *handlers.TournamentHandler,
	playerHandler *handlers.PlayerHandler,
	competitionHandler *handlers.CompetitionHandler,
	matchHandler *handlers.MatchHandler,
	dashboardHandler *handlers.DashboardHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(jwtSecret)
	organizerOnly := middleware.Authorize(models.RoleOrganizer)
	canScore := middleware.Authorize(models.RoleOrganizer, models.RoleScorer)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/verify", authHandler.VerifyEmail)
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/me", authHandler.Me)
		})
	})

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", tournamentHandler.List)
		r.Get("/{tournamentID}", tournamentHandler.Get)
		r.Get("/{tournamentID}/divisions", tournamentHandler.ListDivisions)
		r.Get("/{tournamentID}/resources", tournamentHandler.ListResources)
		r.Get("/{tournamentID}/players", playerHandler.List)
		r.Get("/{tournamentID}/teams", playerHandler.ListTeams)
		r.Get("/{tournamentID}/competitions", competitionHandler.List)
		r.Get("/{tournamentID}/players/export", playerHandler.ExportCSV)

		r.Group(func(r chi.Router) {
			r.Use(authenticate, organizerOnly)

			r.Post("/", tournamentHandler.Create)
			r.Put("/{tournamentID}", tournamentHandler.Update)
			r.Post("/{tournamentID}/logo", tournamentHandler.UploadLogo)

			r.Post("/{tournamentID}/divisions", tournamentHandler.CreateDivision)
			r.Post("/{tournamentID}/resources", tournamentHandler.CreateResource)

			r.Post("/{tournamentID}/players", playerHandler.Create)
			r.Post("/{tournamentID}/players/import", playerHandler.ImportCSV)
			r.Post("/{tournamentID}/teams", playerHandler.CreateTeam)

			r.Post("/{tournamentID}/competitions", competitionHandler.Create)
		})
	})

	router.Route("/divisions", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authenticate, organizerOnly)
			r.Delete("/{divisionID}", tournamentHandler.DeleteDivision)
		})
	})

	router.Route("/resources", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authenticate, organizerOnly)
			r.Patch("/{resourceID}/status", tournamentHandler.UpdateResourceStatus)
			r.Delete("/{resourceID}", tournamentHandler.DeleteResource)
		})
	})

	router.Route("/players", func(r chi.Router) {
		r.Get("/{playerID}", playerHandler.Get)
		r.Group(func(r chi.Router) {
			r.Use(authenticate, organizerOnly)
			r.Put("/{playerID}", playerHandler.Update)
			r.Delete("/{playerID}", playerHandler.Delete)
		})
	})

	router.Route("/teams", func(r chi.Router) {
		r.Get("/{teamID}", playerHandler.GetTeam)
		r.Group(func(r chi.Router) {
			r.Use(authenticate, organizerOnly)
			r.Delete("/{teamID}", playerHandler.DeleteTeam)
		})
	})

	router.Route("/competitions", func(r chi.Router) {
		r.Get("/{competitionID}", competitionHandler.Get)
		r.Get("/{competitionID}/draw", competitionHandler.ListDraw)
		r.Get("/{competitionID}/standings", competitionHandler.Standings)
		r.Get("/{competitionID}/qualifiers", competitionHandler.Qualifiers)

		r.Group(func(r chi.Router) {
			r.Use(authenticate, organizerOnly)
			r.Post("/{competitionID}/participants", competitionHandler.AddParticipant)
			r.Delete("/{competitionID}/participants/{participantID}", competitionHandler.RemoveParticipant)
			r.Post("/{competitionID}/draw", competitionHandler.GenerateDraw)
			r.Post("/{competitionID}/knockout", competitionHandler.GenerateKnockout)
			r.Delete("/{competitionID}/draw", competitionHandler.ResetDraw)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/{matchID}", matchHandler.Get)
		r.Group(func(r chi.Router) {
			r.Use(authenticate, canScore)
			r.Post("/{matchID}/result", matchHandler.RecordResult)
			r.Patch("/{matchID}/status", matchHandler.UpdateStatus)
		})
		r.Group(func(r chi.Router) {
			r.Use(authenticate, organizerOnly)
			r.Post("/{matchID}/advance", matchHandler.ManualAdvance)
			r.Put("/{matchID}/schedule", matchHandler.UpdateSchedule)
			r.Post("/swap", matchHandler.SwapParticipants)
			r.Post("/move", matchHandler.MoveParticipant)
		})
	})

	router.Get("/dashboard/stats", dashboardHandler.Stats)
	router.Get("/dashboard/leaderboard", dashboardHandler.Leaderboard)

	router.Get("/ws/competitions/{competitionID}", webSocketHandler.ServeWs)
}
