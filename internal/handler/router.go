package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/zhouzirui/chair-yoga/backend/internal/handler/events"
	"github.com/zhouzirui/chair-yoga/backend/internal/handler/quiz"
	middlewarePkg "github.com/zhouzirui/chair-yoga/backend/internal/middleware"
	"github.com/zhouzirui/chair-yoga/backend/internal/service/analytics"
	"github.com/zhouzirui/chair-yoga/backend/internal/service/insight"
	quizService "github.com/zhouzirui/chair-yoga/backend/internal/service/quiz"
	"github.com/zhouzirui/chair-yoga/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services. hub may be nil, in which case
// the live event endpoints are not registered.
func NewRouter(quizSvc *quizService.Service, insights *insight.Service, hub *analytics.Hub, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	// 落地页部署在其他域名上
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	quizHandler := quiz.New(quizSvc, insights, logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_ = utils.RespondJSON(w, http.StatusOK, map[string]any{
			"status":   "ok",
			"sessions": quizSvc.Len(),
		})
	})

	r.Route("/api", func(api chi.Router) {
		quizHandler.RegisterRoutes(api)

		if hub != nil {
			events.New(hub, logger).RegisterRoutes(api)
		}
	})

	return r
}
