package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/tripmind/tripmind/internal/api/middleware"
	"github.com/tripmind/tripmind/internal/api/response"
	"github.com/tripmind/tripmind/internal/service"
)

var validate = validator.New()

// ChatHandler handles assistant conversation endpoints
type ChatHandler struct {
	chatService *service.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Message sends a message to the trip assistant and returns its reply
func (h *ChatHandler) Message(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "user ID not found")
		return
	}

	var input struct {
		Content string `json:"content" validate:"required,max=2000"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			errors := make(map[string]string)
			for _, e := range validationErrors {
				field := e.Field()
				tag := e.Tag()
				switch tag {
				case "required":
					errors[field] = "field is required"
				case "max":
					errors[field] = "must be at most " + e.Param() + " characters"
				default:
					errors[field] = "validation failed on " + tag
				}
			}
			response.BadRequest(w, errors)
			return
		}
		response.BadRequest(w, err.Error())
		return
	}

	reply, err := h.chatService.HandleInbound(r.Context(), userID, input.Content)
	if err != nil {
		response.InternalError(w, "failed to process message")
		return
	}

	response.OK(w, reply)
}
