package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/soochol/viscribe/internal/apperrors"
	"github.com/soochol/viscribe/internal/tools"
	"github.com/soochol/viscribe/internal/viscribe"
)

// maxBodyBytes bounds tool input; inline base64 images make it large.
const maxBodyBytes = 32 << 20

func (s *Server) listTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.toolReg.AllTools())
}

func (s *Server) getTool(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	t, ok := s.toolReg.Get(name)
	if !ok {
		writeError(w, unknownTool(name))
		return
	}
	writeJSON(w, http.StatusOK, tools.ToolInfo{Name: t.Name(), Description: t.Description(), InputSchema: t.InputSchema()})
}

// executeTool runs a tool with the request body as its input object.
func (s *Server) executeTool(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if _, ok := s.toolReg.Get(name); !ok {
		writeError(w, unknownTool(name))
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, apperrors.NewValidationError("request body too large or unreadable", err))
		return
	}
	var input map[string]any
	if len(body) > 0 {
		if err := json.Unmarshal(body, &input); err != nil {
			writeError(w, apperrors.NewValidationError("request body must be a JSON object", err))
			return
		}
	}

	out, err := s.toolReg.Execute(r.Context(), name, input)
	if err != nil {
		slog.Info("tool call failed", "tool", name, "err", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func unknownTool(name string) error {
	return apperrors.NewNotFoundError("unknown tool: "+name, tools.ErrUnknownTool)
}

type errorResponse struct {
	Error   string `json:"error"`
	Type    string `json:"type,omitempty"`
	Details string `json:"details,omitempty"`
	// UpstreamStatus is the Viscribe API status for 502 responses.
	UpstreamStatus int `json:"upstream_status,omitempty"`
}

// statusFor maps tool errors to HTTP status codes.
func statusFor(err error) (int, errorResponse) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode, errorResponse{Error: appErr.Message, Type: string(appErr.Type), Details: appErr.Details}
	}
	if apiErr, ok := viscribe.AsAPIError(err); ok {
		return http.StatusBadGateway, errorResponse{Error: apiErr.Message, Type: "upstream", UpstreamStatus: apiErr.StatusCode}
	}
	if errors.Is(err, tools.ErrUnknownTool) {
		return http.StatusNotFound, errorResponse{Error: err.Error(), Type: string(apperrors.ErrorTypeNotFound)}
	}
	if errors.Is(err, viscribe.ErrMissingAPIKey) {
		return http.StatusServiceUnavailable, errorResponse{Error: err.Error(), Type: "configuration"}
	}
	return http.StatusInternalServerError, errorResponse{Error: err.Error(), Type: string(apperrors.ErrorTypeInternal)}
}

func writeError(w http.ResponseWriter, err error) {
	status, body := statusFor(err)
	writeJSON(w, status, body)
}
