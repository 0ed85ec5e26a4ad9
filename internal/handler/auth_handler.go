package handler

import (
	"errors"
	"net/http"

	"github.com/WandevPB/brisagenda-backend/internal/middleware"
	"github.com/WandevPB/brisagenda-backend/internal/model"
	"github.com/WandevPB/brisagenda-backend/internal/service"
	"github.com/WandevPB/brisagenda-backend/pkg/apperror"
	"github.com/WandevPB/brisagenda-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler sets up the routing dependencies for auth endpoints
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	anyRole := middleware.RequireRole(model.RoleAdmin, model.RoleInstitution, model.RoleConsultivo)
	admin := middleware.RequireRole(model.RoleAdmin)

	auth := router.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/change-password", anyRole, h.ChangePassword)
		auth.POST("/reset-password", admin, h.ResetPassword)
		auth.GET("/users", admin, h.ListUsers)
		auth.POST("/users", admin, h.CreateUser)
		auth.GET("/validate", anyRole, h.Validate)
	}
}

// Login handles POST /auth/login
// @Summary      Login
// @Description  Authenticates by username and password, returning a bearer token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.LoginRequest  true  "Credentials"
// @Success      200      {object}  response.Response{data=service.LoginResponse}
// @Failure      401      {object}  response.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, apperror.Validation("invalid request payload"))
		return
	}

	res, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, err.Error()))
			return
		}
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

// ChangePassword handles POST /auth/change-password
// @Summary      Change own password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.ChangePasswordRequest  true  "Password change payload"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req service.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, apperror.Validation("invalid request payload: "+err.Error()))
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), actorFrom(c), req); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"changed": true}))
}

// ResetPassword handles POST /auth/reset-password
// @Summary      Reset a user's password
// @Description  Sets a new password for the target account and forces a change on next login.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.ResetPasswordRequest  true  "Reset payload"
// @Success      200      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req service.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, apperror.Validation("invalid request payload: "+err.Error()))
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), req); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"reset": true}))
}

// CreateUser handles POST /auth/users
// @Summary      Create account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateUserRequest  true  "Account payload"
// @Success      201      {object}  response.Response{data=service.UserResponse}
// @Failure      400      {object}  response.Response
// @Router       /auth/users [post]
func (h *AuthHandler) CreateUser(c *gin.Context) {
	var req service.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, apperror.Validation("invalid request payload: "+err.Error()))
		return
	}

	user, err := h.authService.CreateUser(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, user))
}

// ListUsers handles GET /auth/users
// @Summary      List accounts
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.UserResponse}
// @Router       /auth/users [get]
func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.authService.ListUsers(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, users))
}

// Validate handles GET /auth/validate
// @Summary      Validate token
// @Description  Echoes the verified claims of the presented bearer token.
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /auth/validate [get]
func (h *AuthHandler) Validate(c *gin.Context) {
	actor := actorFrom(c)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"id":                  actor.ID,
		"username":            actor.Username,
		"role":                actor.Role,
		"centro_distribuicao": actor.Center,
	}))
}
