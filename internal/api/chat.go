package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/soochol/viscribe/internal/agents"
	"github.com/soochol/viscribe/internal/apperrors"
	"github.com/soochol/viscribe/internal/model"
)

type chatRequest struct {
	Prompt string `json:"prompt"`
}

type chatResponse struct {
	Answer    string   `json:"answer"`
	ToolCalls []string `json:"tool_calls"`
}

func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.NewValidationError("invalid request body", err))
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, apperrors.NewValidationError("prompt is required", nil))
		return
	}

	ctx := model.WithLogFunc(r.Context(), func(msg string) {
		slog.Debug(msg, "request_id", middleware.GetReqID(r.Context()))
	})
	res, err := agents.Chat(ctx, s.agent, req.Prompt)
	if err != nil {
		writeError(w, err)
		return
	}
	calls := res.ToolCalls
	if calls == nil {
		calls = []string{}
	}
	writeJSON(w, http.StatusOK, chatResponse{Answer: res.Answer, ToolCalls: calls})
}
