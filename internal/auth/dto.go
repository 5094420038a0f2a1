package auth

import (
	"net/http"
	"strings"
	"time"

	errors "github.com/rosterly/roster-management/internal"
	"github.com/rosterly/roster-management/internal/validation"
)

type LoginDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func LoginDTOFromForm(r *http.Request) LoginDTO {
	return LoginDTO{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Password: strings.TrimSpace(r.PostFormValue("password")),
	}
}

func (d LoginDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("username", d.Username).Required()
	v.Field("password", d.Password).Required()
	return v.Validate()
}

type ChangePasswordDTO struct {
	OldPassword     string
	NewPassword     string
	ConfirmPassword string
}

func ChangePasswordDTOFromForm(r *http.Request) ChangePasswordDTO {
	return ChangePasswordDTO{
		OldPassword:     r.PostFormValue("old_password"),
		NewPassword:     r.PostFormValue("new_password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
	}
}

type APITokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}
