package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"todoapi/internal/service"
	"todoapi/internal/transport/http/middleware"
	"todoapi/pkg/logger"
	"todoapi/pkg/validator"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var input service.SignupInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if errs := validator.ValidateSignup(input.Name, input.Username, input.Password); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	user, err := h.userService.Signup(r.Context(), input)
	if err != nil {
		// Uniqueness violations and store failures look the same to the
		// client, so a signup probe cannot enumerate usernames.
		if !errors.Is(err, service.ErrUsernameTaken) {
			logger.Error(r.Context(), "signup failed", "error", err)
		}
		writeMessage(w, http.StatusBadRequest, "Signup failed!")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Signup has done successfully!",
		"user":    user.Public(),
	})
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input service.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if input.Username == "" || input.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	token, err := h.userService.Login(r.Context(), input)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCreds) {
			writeError(w, http.StatusUnauthorized, "Authentication failed")
		} else {
			logger.Error(r.Context(), "login failed", "error", err)
			writeError(w, http.StatusInternalServerError, "There was a server-side error!")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"access_token": token,
		"message":      "Login successful!",
	})
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	targetID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var input service.UpdateUserInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var errs validator.FieldErrors
	if input.Status != nil && !validator.AllowedStatus(*input.Status) {
		errs.Add("status", "Invalid status value")
	}
	if errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	user, err := h.userService.Update(r.Context(), identity.UserID, targetID, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotSelf):
			writeError(w, http.StatusForbidden, "You can only update your own account")
		case errors.Is(err, service.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "User not found!")
		case errors.Is(err, service.ErrUsernameTaken):
			writeError(w, http.StatusBadRequest, "Username is already taken")
		default:
			logger.Error(r.Context(), "update user failed", "error", err)
			writeError(w, http.StatusInternalServerError, "There was a server-side error!")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User has been updated successfully!",
		"data":    user.Public(),
	})
}
