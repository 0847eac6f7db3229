package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	questionsHandler "github.com/linzhe/interview-forge/internal/handler/questions"
	resumeHandler "github.com/linzhe/interview-forge/internal/handler/resume"
	streamHandler "github.com/linzhe/interview-forge/internal/handler/stream"
	middlewarePkg "github.com/linzhe/interview-forge/internal/middleware"
	"github.com/linzhe/interview-forge/internal/service/generator"
	resumeService "github.com/linzhe/interview-forge/internal/service/resume"
	"github.com/linzhe/interview-forge/internal/storage"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(gen *generator.Service, store *storage.Engine, parser *resumeService.Parser) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	questions := questionsHandler.New(gen, store)
	resume := resumeHandler.New(parser, gen, store)
	stream := streamHandler.New(gen)
	ws := streamHandler.NewWebSocketHandler(gen)

	r.Route("/api", func(api chi.Router) {
		questions.RegisterRoutes(api)
		resume.RegisterRoutes(api)
		stream.RegisterRoutes(api)
		ws.RegisterWebSocketRoutes(api)
	})

	return r
}
