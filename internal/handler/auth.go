package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cabbook/internal/domain"
	"cabbook/internal/middleware"
	"cabbook/internal/service"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest is the HTTP request body for logging in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// SignupRequest is the HTTP request body for creating an account.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Phone    string `json:"phone,omitempty"`
}

// AuthResponse is the HTTP response for successful authentication.
type AuthResponse struct {
	User  PrincipalResponse `json:"user"`
	Token string            `json:"token"`
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "email and password are required"})
		return
	}

	result, err := h.authService.Login(c.Request.Context(), service.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, AuthResponse{
		User:  principalResponse(result.Principal),
		Token: result.Token,
	})
}

// Signup handles POST /v1/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "name, email and password are required"})
		return
	}

	result, err := h.authService.Signup(c.Request.Context(), service.SignupRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.Role(req.Role),
		Phone:    req.Phone,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, AuthResponse{
		User:  principalResponse(result.Principal),
		Token: result.Token,
	})
}

// Logout handles POST /v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	principal := middleware.Principal(c)
	if principal == nil {
		respondError(c, service.ErrNotAuthenticated)
		return
	}

	if err := h.authService.Logout(c.Request.Context(), principal.ID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Me handles GET /v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	principal := middleware.Principal(c)
	if principal == nil {
		respondError(c, service.ErrNotAuthenticated)
		return
	}

	respondJSON(c, http.StatusOK, principalResponse(principal))
}

// ListUsers handles GET /v1/users (admin directory listing)
func (h *AuthHandler) ListUsers(c *gin.Context) {
	principal := middleware.Principal(c)
	if principal == nil {
		respondError(c, service.ErrNotAuthenticated)
		return
	}
	if principal.Role != domain.RoleAdmin {
		respondError(c, service.ErrForbidden)
		return
	}

	users, err := h.authService.Directory(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]PrincipalResponse, 0, len(users))
	for _, u := range users {
		response = append(response, principalResponse(u))
	}
	respondJSON(c, http.StatusOK, response)
}
