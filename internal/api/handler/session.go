package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tripmind/tripmind/internal/api/middleware"
	"github.com/tripmind/tripmind/internal/api/response"
	"github.com/tripmind/tripmind/internal/repository/mongo"
	"github.com/tripmind/tripmind/internal/service"
)

// SessionHandler handles chat session endpoints
type SessionHandler struct {
	chatService *service.ChatService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(chatService *service.ChatService) *SessionHandler {
	return &SessionHandler{chatService: chatService}
}

// List returns the caller's chat sessions
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "user ID not found")
		return
	}

	limit := 20
	offset := 0

	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			limit = v
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if v, err := strconv.Atoi(o); err == nil && v >= 0 {
			offset = v
		}
	}

	sessions, err := h.chatService.ListSessions(r.Context(), userID, limit, offset)
	if err != nil {
		response.InternalError(w, "failed to list sessions")
		return
	}

	response.OK(w, sessions)
}

// GetMessages returns paginated message history for a session
func (h *SessionHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "user ID not found")
		return
	}

	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		response.BadRequest(w, "invalid session ID")
		return
	}

	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			limit = v
		}
	}

	var before time.Time
	if b := r.URL.Query().Get("before"); b != "" {
		before, err = time.Parse(time.RFC3339, b)
		if err != nil {
			response.BadRequest(w, "invalid before timestamp")
			return
		}
	}

	messages, err := h.chatService.GetMessages(r.Context(), userID, sessionID, limit, before)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	response.OK(w, messages)
}

// PostMessage appends a message to a group session
func (h *SessionHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "user ID not found")
		return
	}

	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		response.BadRequest(w, "invalid session ID")
		return
	}

	var input struct {
		Content  string `json:"content" validate:"required_without=MediaURL,max=2000"`
		MediaURL string `json:"media_url" validate:"omitempty,url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, "content or media_url is required")
		return
	}

	msg, err := h.chatService.PostMessage(r.Context(), userID, sessionID, input.Content, input.MediaURL)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	response.Created(w, msg)
}

func writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, mongo.ErrNotFound):
		response.NotFound(w, "session not found")
	case errors.Is(err, service.ErrAccessDenied):
		response.Forbidden(w, "not a participant of this session")
	default:
		response.InternalError(w, "failed to access session")
	}
}
