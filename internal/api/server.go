package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"google.golang.org/adk/agent"

	"github.com/soochol/viscribe/internal/tools"
)

type Server struct {
	toolReg   *tools.Registry
	agent     agent.Agent
	mcp       http.Handler
	jwtSecret []byte
}

func NewServer(toolReg *tools.Registry) *Server {
	return &Server{toolReg: toolReg}
}

// SetAgent enables POST /api/chat.
func (s *Server) SetAgent(a agent.Agent) {
	s.agent = a
}

// SetMCPHandler mounts an MCP streamable HTTP handler at /mcp.
func (s *Server) SetMCPHandler(h http.Handler) {
	s.mcp = h
}

// SetJWTSecret enables HS256 bearer-token auth on /api and /mcp.
func (s *Server) SetJWTSecret(secret string) {
	if secret == "" {
		s.jwtSecret = nil
		return
	}
	s.jwtSecret = []byte(secret)
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE"},
		AllowedHeaders: []string{"Content-Type", "Authorization", "Mcp-Session-Id"},
	}))

	r.Get("/healthz", s.healthz)

	r.Group(func(r chi.Router) {
		if s.jwtSecret != nil {
			r.Use(s.requireJWT)
		}
		r.Route("/api", func(r chi.Router) {
			r.Get("/tools", s.listTools)
			r.Get("/tools/{name}", s.getTool)
			r.Post("/tools/{name}", s.executeTool)
			if s.agent != nil {
				r.Post("/chat", s.chat)
			}
		})
		if s.mcp != nil {
			r.Handle("/mcp", s.mcp)
		}
	})

	return r
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "tools": len(s.toolReg.List())})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "err", err)
	}
}
