package profile

import (
	"net/http"

	"github.com/tendant/simple-account/pkg/client"
	"github.com/tendant/simple-account/pkg/response"
)

type UpdateProfileRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type Handle struct {
	profileService *ProfileService
}

func NewHandle(profileService *ProfileService) *Handle {
	return &Handle{profileService: profileService}
}

// UpdateProfile handles PUT /profile/update
func (h *Handle) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	caller, err := client.RequireCaller(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	req := response.Decode[UpdateProfileRequest](r)
	updated, err := h.profileService.UpdateProfile(r.Context(), caller, UpdateProfileParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.Success(w, r, http.StatusOK, "Profile updated successfully", updated)
}

// UpdatePassword handles PUT /profile/password
func (h *Handle) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	caller, err := client.RequireCaller(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	req := response.Decode[UpdatePasswordRequest](r)
	err = h.profileService.UpdatePassword(r.Context(), caller, UpdatePasswordParams{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.Success(w, r, http.StatusOK, "Password updated successfully", nil)
}
