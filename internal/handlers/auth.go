package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusfind/lostfound/internal/services"
	"github.com/campusfind/lostfound/pkg/response"
)

// AuthHandler exposes registration, login, and logout endpoints.
type AuthHandler struct {
	auth *services.AuthService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type registerRequest struct {
	FullName string `json:"nama_lengkap" validate:"required,min=3,max=100"`
	NIM      string `json:"nim" validate:"required,nim,min=5,max=20"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Phone    string `json:"nomor_telepon" validate:"omitempty,max=15"`
}

type loginRequest struct {
	Identifier string `json:"identifier" validate:"omitempty"`
	Email      string `json:"email" validate:"omitempty"`
	NIM        string `json:"nim" validate:"omitempty"`
	Password   string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string `json:"token"`
	User  any    `json:"user"`
}

// Register handles POST /api/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindAndValidate(c, &req) {
		return
	}

	result, err := h.auth.Register(requestContext(c), services.RegisterInput{
		FullName: req.FullName,
		NIM:      req.NIM,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, authResponse{Token: result.Token, User: result.User})
}

// Login handles POST /api/login. The identifier may be an email or a NIM;
// clients that send a dedicated email or nim field work too.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	identifier := req.Identifier
	if identifier == "" {
		identifier = req.Email
	}
	if identifier == "" {
		identifier = req.NIM
	}

	result, err := h.auth.Login(requestContext(c), services.LoginInput{
		Identifier: identifier,
		Password:   req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, authResponse{Token: result.Token, User: result.User})
}

// Logout handles POST /api/logout by revoking the presented token.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, _ := currentClaims(c)
	if err := h.auth.Logout(requestContext(c), claims); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Logged out"})
}
