package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/expensekeeper/internal/common"
	"github.com/dmitrijs2005/expensekeeper/internal/server/expenses"
)

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type registerResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"userId"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type loginResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    userResponse `json:"user"`
}

type expenseResponse struct {
	Message string            `json:"message"`
	Expense *expenses.Expense `json:"expense"`
}

func (s *HTTPServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Name, a valid email and a password of at least 6 characters are required")
		return
	}

	user, err := s.users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			writeError(w, http.StatusBadRequest, "User already exists")
			return
		}
		s.logger.Error(r.Context(), "register", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal error")
		return
	}

	s.logger.Info(r.Context(), "Registered", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, registerResponse{Message: "User registered successfully", UserID: user.ID})
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, token, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		s.logger.Error(r.Context(), "login", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal error")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Message: "Login successful",
		Token:   token,
		User:    userResponse{ID: user.ID, Email: user.Email, Name: user.Name},
	})
}

// handleListExpenses serves GET /expenses/{id}, where id is the owner's
// user id. Only the token's own ledger is readable.
func (s *HTTPServer) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := pathID(w, r)
	if !ok {
		return
	}
	if ownerID != userIDFrom(r.Context()) {
		writeError(w, http.StatusForbidden, "Forbidden")
		return
	}

	list, err := s.expenses.List(r.Context(), ownerID)
	if err != nil {
		s.logger.Error(r.Context(), "list expenses", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal error")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *HTTPServer) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	in, ok := s.decodeExpense(w, r)
	if !ok {
		return
	}

	e, err := s.expenses.Create(r.Context(), userIDFrom(r.Context()), in)
	if err != nil {
		s.logger.Error(r.Context(), "create expense", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal error")
		return
	}
	writeJSON(w, http.StatusCreated, expenseResponse{Message: "Expense added successfully", Expense: e})
}

func (s *HTTPServer) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	in, ok := s.decodeExpense(w, r)
	if !ok {
		return
	}

	e, err := s.expenses.Update(r.Context(), userIDFrom(r.Context()), id, in)
	if err != nil {
		s.expenseError(w, r, "update expense", err)
		return
	}
	writeJSON(w, http.StatusOK, expenseResponse{Message: "Expense updated successfully", Expense: e})
}

func (s *HTTPServer) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.expenses.Delete(r.Context(), userIDFrom(r.Context()), id); err != nil {
		s.expenseError(w, r, "delete expense", err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Expense deleted successfully"})
}

func (s *HTTPServer) decodeExpense(w http.ResponseWriter, r *http.Request) (expenses.Input, bool) {
	var in expenses.Input
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return in, false
	}
	if err := s.validate.Struct(in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid expense")
		return in, false
	}
	return in, true
}

func (s *HTTPServer) expenseError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, common.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Expense not found")
		return
	}
	s.logger.Error(r.Context(), op, "error", err)
	writeError(w, http.StatusInternalServerError, "Internal error")
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return id, true
}
