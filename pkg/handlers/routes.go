package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"task-board-backend/pkg/config"
	"task-board-backend/pkg/core"
	"task-board-backend/pkg/middleware"
	"task-board-backend/pkg/utils"
)

// NewRouter wires the full HTTP surface. Auth routes are public; everything
// else sits behind the bearer-token middleware.
func NewRouter(cfg *config.Config, svc *core.Service, jwtService *utils.JWTService, logger *log.Logger) http.Handler {
	authHandler := NewAuthHandler(cfg, svc, jwtService)
	usersHandler := NewUsersHandler(cfg, svc)
	boardsHandler := NewBoardsHandler(cfg, svc)
	columnsHandler := NewColumnsHandler(cfg, svc)
	tasksHandler := NewTasksHandler(cfg, svc)

	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteNotFoundResponse(w, "resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteErrorResponseWithCode(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})

	r.Get("/health", authHandler.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.RefreshToken)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(jwtService, svc))

			r.Route("/users/me", func(r chi.Router) {
				r.Get("/", usersHandler.GetMe)
				r.Patch("/", usersHandler.UpdateMe)
			})

			r.Route("/boards", func(r chi.Router) {
				r.Get("/", boardsHandler.ListBoards)
				r.Post("/", boardsHandler.CreateBoard)

				r.Route("/{board_id}", func(r chi.Router) {
					r.Get("/", boardsHandler.GetBoard)
					r.Patch("/", boardsHandler.UpdateBoard)
					r.Delete("/", boardsHandler.DeleteBoard)

					r.Get("/members", boardsHandler.ListMembers)
					r.Post("/members", boardsHandler.AddMember)
					r.Delete("/members/{user_id}", boardsHandler.RemoveMember)

					r.Get("/columns", columnsHandler.ListColumns)
					r.Post("/columns", columnsHandler.CreateColumn)
				})
			})

			r.Route("/columns/{column_id}", func(r chi.Router) {
				r.Get("/", columnsHandler.GetColumn)
				r.Patch("/", columnsHandler.UpdateColumn)
				r.Delete("/", columnsHandler.DeleteColumn)

				r.Get("/tasks", tasksHandler.ListTasks)
				r.Post("/tasks", tasksHandler.CreateTask)
			})

			r.Route("/tasks/{task_id}", func(r chi.Router) {
				r.Get("/", tasksHandler.GetTask)
				r.Patch("/", tasksHandler.UpdateTask)
				r.Delete("/", tasksHandler.DeleteTask)
				r.Get("/logs", tasksHandler.ListTaskLogs)
			})
		})
	})

	return r
}
