package handler

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/surajkumar989/NeuralSync/internal/handler/chat"
	"github.com/surajkumar989/NeuralSync/internal/handler/dashboard"
	"github.com/surajkumar989/NeuralSync/internal/handler/history"
	"github.com/surajkumar989/NeuralSync/internal/handler/stream"
	middlewarePkg "github.com/surajkumar989/NeuralSync/internal/middleware"
	chatService "github.com/surajkumar989/NeuralSync/internal/service/chat"
	statsService "github.com/surajkumar989/NeuralSync/internal/service/stats"
	"github.com/surajkumar989/NeuralSync/internal/store"
	"github.com/surajkumar989/NeuralSync/pkg/utils"
)

// Version is the service version reported by the about endpoint.
const Version = "1.0.0"

// NewRouter wires HTTP routes to core services.
func NewRouter(turns store.ConversationStore, chatSvc *chatService.Service, statsSvc *statsService.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	chatHandler := chat.New(chatSvc)
	wsHandler := chat.NewWebSocketHandler(chatSvc)
	historyHandler := history.New(turns, chatSvc)
	dashboardHandler := dashboard.New(statsSvc)
	streamHandler := stream.New(chatSvc)

	r.Route("/api", func(api chi.Router) {
		chatHandler.RegisterRoutes(api)
		wsHandler.RegisterWebSocketRoutes(api)
		historyHandler.RegisterRoutes(api)
		dashboardHandler.RegisterRoutes(api)

		api.Get("/stream/{sessionID}", func(w http.ResponseWriter, r *http.Request) {
			sessionID := chi.URLParam(r, "sessionID")
			userMessage := r.URL.Query().Get("message")

			if userMessage == "" {
				utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
				return
			}

			if err := streamHandler.HandleStreamRequest(r.Context(), w, sessionID, userMessage); err != nil {
				log.Printf("[stream] error handling request: %v", err)
			}
		})

		api.Get("/about", handleAbout)
	})

	return r
}

// handleAbout reports service metadata for the about page.
func handleAbout(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"name":      "NeuralSync",
		"version":   Version,
		"digest":    "SHA-256",
		"encoding":  "UTF-8",
		"described": "educational chatbot with tamper-evident conversation history",
	})
}
