package signup

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tendant/simple-account/pkg/response"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Handle struct {
	signupService *SignupService
}

func NewHandle(signupService *SignupService) *Handle {
	return &Handle{signupService: signupService}
}

// RegisterRoutes mounts the public registration route
func (h *Handle) RegisterRoutes(r chi.Router) {
	r.Post("/authentication/register", h.Register)
}

// Register handles POST /authentication/register
func (h *Handle) Register(w http.ResponseWriter, r *http.Request) {
	req := response.Decode[RegisterRequest](r)

	a, err := h.signupService.Register(r.Context(), RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.Success(w, r, http.StatusCreated, "User registered successfully", a)
}
