package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"todoapi/internal/service"
	"todoapi/internal/transport/http/middleware"
	"todoapi/pkg/logger"
	"todoapi/pkg/validator"
)

type TodoHandler struct {
	todoService *service.TodoService
}

func NewTodoHandler(todoService *service.TodoService) *TodoHandler {
	return &TodoHandler{todoService: todoService}
}

// List returns a page of the caller's todos: ?page= and ?limit= default
// to 1 and 10 and are floored at 1.
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	result, err := h.todoService.List(r.Context(), identity.UserID, page, limit)
	if err != nil {
		logger.Error(r.Context(), "list todos failed", "error", err)
		writeError(w, http.StatusInternalServerError, "There was a server-side error!")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *TodoHandler) ListByStatus(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	status := r.PathValue("status")
	if !validator.AllowedStatus(status) {
		writeError(w, http.StatusBadRequest, "Invalid status value")
		return
	}

	todos, err := h.todoService.ListByStatus(r.Context(), identity.UserID, status)
	if err != nil {
		logger.Error(r.Context(), "list todos by status failed", "error", err)
		writeError(w, http.StatusInternalServerError, "There was a server-side error!")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"todos": todos})
}

func (h *TodoHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	// An unparseable id cannot match any owned todo.
	todoID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Todo not found!")
		return
	}

	todo, err := h.todoService.Get(r.Context(), identity.UserID, todoID)
	if err != nil {
		if errors.Is(err, service.ErrTodoNotFound) {
			writeError(w, http.StatusNotFound, "Todo not found!")
		} else {
			logger.Error(r.Context(), "get todo failed", "error", err)
			writeError(w, http.StatusInternalServerError, "There was a server-side error!")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"todo": todo})
}

func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	var input service.TodoInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if errs := validator.ValidateTodo(input.Title, input.Description, input.Status); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	todo, err := h.todoService.Create(r.Context(), identity.UserID, input)
	if err != nil {
		logger.Error(r.Context(), "create todo failed", "error", err)
		writeError(w, http.StatusInternalServerError, "There was a server-side error!")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Todo has been inserted successfully!",
		"todo":    todo,
	})
}

// CreateAll inserts a batch of todos. The whole array is validated first
// and a single bad element fails the entire request with per-element
// errors; nothing is inserted in that case.
func (h *TodoHandler) CreateAll(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	var inputs []service.TodoInput
	if err := json.NewDecoder(r.Body).Decode(&inputs); err != nil || len(inputs) == 0 {
		writeError(w, http.StatusBadRequest, "Request body must be a non-empty array of todos!")
		return
	}

	var batchErrs []validator.BatchFieldError
	for i, input := range inputs {
		for _, fe := range validator.ValidateTodo(input.Title, input.Description, input.Status) {
			batchErrs = append(batchErrs, validator.BatchFieldError{
				Index:   i,
				Field:   fe.Field,
				Message: fe.Message,
			})
		}
	}
	if len(batchErrs) > 0 {
		writeValidationErrors(w, batchErrs)
		return
	}

	todos, err := h.todoService.CreateAll(r.Context(), identity.UserID, inputs)
	if err != nil {
		logger.Error(r.Context(), "create todos failed", "error", err)
		writeError(w, http.StatusInternalServerError, "There was a server-side error!")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Todos has been inserted successfully!",
		"todo":    todos,
	})
}

func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	todoID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid todo ID")
		return
	}

	var input service.TodoInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if errs := validator.ValidateTodo(input.Title, input.Description, input.Status); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	todo, err := h.todoService.Update(r.Context(), identity.UserID, todoID, input)
	if err != nil {
		if errors.Is(err, service.ErrTodoNotFound) {
			writeError(w, http.StatusNotFound, "Todo not found!")
		} else {
			logger.Error(r.Context(), "update todo failed", "error", err)
			writeError(w, http.StatusInternalServerError, "There was a server-side error!")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Todo has been updated successfully!",
		"todo":    todo,
	})
}

func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	todoID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid todo ID")
		return
	}

	todo, err := h.todoService.Delete(r.Context(), identity.UserID, todoID)
	if err != nil {
		if errors.Is(err, service.ErrTodoNotFound) {
			writeError(w, http.StatusNotFound, "Todo not found!")
		} else {
			logger.Error(r.Context(), "delete todo failed", "error", err)
			writeError(w, http.StatusInternalServerError, "There was a server-side error!")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Todo has been deleted successfully!",
		"todo":    todo,
	})
}
