package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/usersvc/usersvc/internal/model"
	"github.com/usersvc/usersvc/internal/service"
)

// UserHandler handles HTTP requests for user operations.
type UserHandler struct {
	svc    *service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /api/users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input model.CreateUserInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, Envelope{
			Success: false,
			Message: "invalid request body",
		})
		return
	}

	user, err := h.svc.Create(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("user_created", "user_id", user.ID)

	writeJSON(w, http.StatusCreated, Envelope{
		Success: true,
		Message: "User created successfully",
		Data:    user,
	})
}

// List handles GET /api/users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.GetAll(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	count := len(users)
	writeJSON(w, http.StatusOK, Envelope{
		Success: true,
		Count:   &count,
		Data:    users,
	})
}

// Get handles GET /api/users/{id}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	user, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Envelope{
		Success: true,
		Data:    user,
	})
}

// handleServiceError maps service errors to HTTP responses.
func (h *UserHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNameRequired), errors.Is(err, service.ErrEmailRequired):
		writeJSON(w, http.StatusBadRequest, Envelope{
			Success: false,
			Message: err.Error(),
		})
	case errors.Is(err, service.ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, Envelope{
			Success: false,
			Message: "User not found",
		})
	default:
		h.logger.Error("internal_error", "error", err)
		writeJSON(w, http.StatusInternalServerError, Envelope{
			Success: false,
			Message: "Internal Server Error",
		})
	}
}
