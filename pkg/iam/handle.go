package iam

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tendant/simple-account/pkg/client"
	"github.com/tendant/simple-account/pkg/errors"
	"github.com/tendant/simple-account/pkg/response"
)

type CreateUserRequest struct {
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Roles    RolesField `json:"roles"`
}

type UpdateUserRequest struct {
	Name     *string    `json:"name"`
	Email    *string    `json:"email"`
	Password *string    `json:"password"`
	Roles    RolesField `json:"roles"`
}

type Handle struct {
	iamService *IamService
}

func NewHandle(iamService *IamService) *Handle {
	return &Handle{iamService: iamService}
}

// RegisterRoutes mounts the user management routes. Callers are expected to wrap r
// with client.AuthMiddleware and client.RequireAdmin.
func (h *Handle) RegisterRoutes(r chi.Router) {
	r.Post("/users", h.CreateUser)
	r.Get("/users", h.GetUsers)
	r.Put("/users/{id}", h.UpdateUser)
	r.Delete("/users/{id}", h.DeleteUser)
}

// CreateUser handles POST /admin/users
func (h *Handle) CreateUser(w http.ResponseWriter, r *http.Request) {
	caller, err := client.RequireCaller(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	req := response.Decode[CreateUserRequest](r)
	a, err := h.iamService.CreateUser(r.Context(), caller, CreateUserParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Roles:    req.Roles,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.Success(w, r, http.StatusCreated, "User created successfully", a)
}

// GetUsers handles GET /admin/users
func (h *Handle) GetUsers(w http.ResponseWriter, r *http.Request) {
	caller, err := client.RequireCaller(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	users, err := h.iamService.FindUsers(r.Context(), caller)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.Success(w, r, http.StatusOK, "Users retrieved successfully", users)
}

// UpdateUser handles PUT /admin/users/{id}
func (h *Handle) UpdateUser(w http.ResponseWriter, r *http.Request) {
	caller, err := client.RequireCaller(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	id, err := userID(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	req := response.Decode[UpdateUserRequest](r)
	a, err := h.iamService.UpdateUser(r.Context(), caller, id, UpdateUserParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Roles:    req.Roles,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.Success(w, r, http.StatusOK, "User updated successfully", a)
}

// DeleteUser handles DELETE /admin/users/{id}
func (h *Handle) DeleteUser(w http.ResponseWriter, r *http.Request) {
	caller, err := client.RequireCaller(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	id, err := userID(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	if err := h.iamService.DeleteUser(r.Context(), caller, id); err != nil {
		response.Error(w, r, err)
		return
	}
	response.Success(w, r, http.StatusOK, "User deleted successfully", nil)
}

// userID parses the {id} path parameter. An id that is not a uuid cannot name an
// account, so it is reported as not found.
func userID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, errors.NotFound(errors.MsgUserNotFound)
	}
	return id, nil
}
