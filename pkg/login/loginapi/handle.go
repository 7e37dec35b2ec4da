package loginapi

import (
	"net/http"

	"github.com/tendant/simple-account/pkg/client"
	"github.com/tendant/simple-account/pkg/login"
	"github.com/tendant/simple-account/pkg/response"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Handle struct {
	loginService *login.LoginService
}

func NewHandle(loginService *login.LoginService) *Handle {
	return &Handle{loginService: loginService}
}

// Login handles POST /authentication/login
func (h *Handle) Login(w http.ResponseWriter, r *http.Request) {
	req := response.Decode[LoginRequest](r)

	result, err := h.loginService.Login(r.Context(), login.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.Success(w, r, http.StatusOK, "Login successful", result)
}

// Logout handles POST /logout
func (h *Handle) Logout(w http.ResponseWriter, r *http.Request) {
	caller, err := client.RequireCaller(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	if err := h.loginService.Logout(r.Context(), caller); err != nil {
		response.Error(w, r, err)
		return
	}
	response.Success(w, r, http.StatusOK, "Logged out successfully", nil)
}

// Profile handles GET /profile
func (h *Handle) Profile(w http.ResponseWriter, r *http.Request) {
	caller, err := client.RequireCaller(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	a, err := h.loginService.Profile(r.Context(), caller)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.Success(w, r, http.StatusOK, "User profile retrieved successfully", a)
}
