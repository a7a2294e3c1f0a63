package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/anquilosaurios/backend-core/internal/database"
	"github.com/anquilosaurios/backend-core/internal/models"
	"github.com/anquilosaurios/backend-core/internal/service"
)

// UserHandlers maps the user management endpoints onto the user service.
type UserHandlers struct {
	users  *service.UserService
	logger *logrus.Logger
}

func NewUserHandlers(users *service.UserService, logger *logrus.Logger) *UserHandlers {
	if logger == nil {
		logger = logrus.New()
	}
	return &UserHandlers{users: users, logger: logger}
}

// List returns users matching the query-string filters.
func (h *UserHandlers) List(w http.ResponseWriter, r *http.Request) {
	filters, err := filtersFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	users, err := h.users.GetUsers(r.Context(), filters)
	if err != nil {
		h.logger.WithError(err).Error("failed to list users")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

// Create registers a user without issuing a token (admin-side creation).
func (h *UserHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterInput
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "invalid request payload", http.StatusBadRequest)
		return
	}

	user, err := h.users.CreateUser(r.Context(), req)
	if err != nil {
		h.logger.WithError(err).Error("failed to create user")
		http.Error(w, "error creating user", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// Update applies a partial profile update.
func (h *UserHandlers) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "id")
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	var req service.UpdateInput
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "invalid request payload", http.StatusBadRequest)
		return
	}

	h.mutate(w, r, h.users.UpdateUser(r.Context(), userID, req), "user updated")
}

type statusRequest struct {
	Active bool `json:"active"`
}

// UpdateStatus enables or disables the account.
func (h *UserHandlers) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "id")
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	var req statusRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "invalid request payload", http.StatusBadRequest)
		return
	}

	h.mutate(w, r, h.users.UpdateAccountStatus(r.Context(), userID, req.Active), "account status updated")
}

type adminRequest struct {
	Admin bool `json:"admin"`
}

// ChangeAdmin grants or revokes admin privileges.
func (h *UserHandlers) ChangeAdmin(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "id")
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	var req adminRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "invalid request payload", http.StatusBadRequest)
		return
	}

	h.mutate(w, r, h.users.ChangeAdminPrivileges(r.Context(), userID, req.Admin), "admin privileges updated")
}

// VerifyEmail marks the user's email as verified.
func (h *UserHandlers) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "id")
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	h.mutate(w, r, h.users.VerifyEmail(r.Context(), userID), "email verified")
}

type achievementsRequest struct {
	Achievements []string `json:"achievements"`
}

// AddAchievements grants one achievement entry per listed type.
func (h *UserHandlers) AddAchievements(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "id")
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	var req achievementsRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "invalid request payload", http.StatusBadRequest)
		return
	}

	types := make([]models.AchievementType, 0, len(req.Achievements))
	for _, s := range req.Achievements {
		t, err := models.ParseAchievementType(s)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		types = append(types, t)
	}

	h.mutate(w, r, h.users.AddAchievements(r.Context(), userID, types), "achievements added")
}

func (h *UserHandlers) mutate(w http.ResponseWriter, r *http.Request, err error, message string) {
	if errors.Is(err, service.ErrUserNotFound) {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("user mutation failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": message})
}

func filtersFromQuery(r *http.Request) (database.UserFilters, error) {
	q := r.URL.Query()
	filters := database.UserFilters{
		Name:     q.Get("name"),
		Email:    q.Get("email"),
		Username: q.Get("username"),
	}

	if v := q.Get("activeStatus"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return filters, errors.New("activeStatus must be a boolean")
		}
		filters.ActiveStatus = &b
	}
	if v := q.Get("adminPrivilege"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return filters, errors.New("adminPrivilege must be a boolean")
		}
		filters.AdminPrivilege = &b
	}
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return filters, errors.New("page must be an integer")
		}
		filters.Page = n
	}
	if v := q.Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return filters, errors.New("size must be an integer")
		}
		filters.Size = n
	}
	if v := q.Get("startDate"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filters, errors.New("startDate must be RFC3339")
		}
		filters.StartDate = &t
	}
	if v := q.Get("endDate"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filters, errors.New("endDate must be RFC3339")
		}
		filters.EndDate = &t
	}

	return filters, nil
}
