package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"salary-api/internal/domain"
	"salary-api/internal/service"
)

// UserHandler mantiene dependencias para endpoints de autenticacion.
type UserHandler struct {
	logger   *zap.Logger
	userServ *service.UserService
	jwtServ  *service.JWTService
}

// NewUserHandler crea una instancia de UserHandler con dependencias necesarias.
func NewUserHandler(logger *zap.Logger, userServ *service.UserService, jwtServ *service.JWTService) *UserHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserHandler{
		logger:   logger,
		userServ: userServ,
		jwtServ:  jwtServ,
	}
}

type authResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        domain.User `json:"user"`
}

// Register maneja POST /api/auth/register.
func (h *UserHandler) Register(c *gin.Context) {
	var req struct {
		FirstName string `json:"first_name" binding:"required"`
		LastName  string `json:"last_name" binding:"required"`
		Email     string `json:"email" binding:"required,email"`
		Password  string `json:"password" binding:"required"`
		Location  string `json:"location"`
		Role      string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid register request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.userServ.Register(c.Request.Context(), service.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Role:      req.Role,
		Location:  req.Location,
	})
	if err != nil {
		h.writeError(c, "register failed", err)
		return
	}
	h.respondWithToken(c, http.StatusCreated, user)
}

// Login maneja POST /api/auth/login.
func (h *UserHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.userServ.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(c, "login failed", err)
		return
	}
	h.respondWithToken(c, http.StatusOK, user)
}

// Me maneja GET /api/auth/me.
func (h *UserHandler) Me(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	user, err := h.userServ.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}
		h.writeError(c, "get user failed", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfile maneja PUT /api/auth/profile.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	var req struct {
		FirstName string `json:"first_name" binding:"required"`
		LastName  string `json:"last_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.userServ.UpdateProfile(c.Request.Context(), claims.UserID, req.FirstName, req.LastName)
	if err != nil {
		h.writeError(c, "update profile failed", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// ChangePassword maneja POST /api/auth/change-password.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	var req struct {
		OldPassword string `json:"old_password" binding:"required"`
		NewPassword string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.userServ.ChangePassword(c.Request.Context(), claims.UserID, req.OldPassword, req.NewPassword); err != nil {
		h.writeError(c, "change password failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// ChangeRole maneja POST /api/auth/change-role.
func (h *UserHandler) ChangeRole(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.userServ.ChangeRole(c.Request.Context(), claims.UserID, req.Role)
	if err != nil {
		h.writeError(c, "change role failed", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// ForgotPassword maneja POST /api/auth/forgot-password.
func (h *UserHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	delivery, err := h.userServ.RequestPasswordReset(c.Request.Context(), req.Email)
	if err != nil {
		h.writeError(c, "forgot password failed", err)
		return
	}
	c.JSON(http.StatusOK, delivery)
}

// ResetPassword maneja POST /api/auth/reset-password.
func (h *UserHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Email       string `json:"email" binding:"required,email"`
		Code        string `json:"code" binding:"required"`
		NewPassword string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.userServ.ResetPassword(c.Request.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		h.writeError(c, "reset password failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
}

// SendVerification maneja POST /api/auth/send-verification.
func (h *UserHandler) SendVerification(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	delivery, err := h.userServ.SendVerificationCode(c.Request.Context(), req.Email)
	if err != nil {
		h.writeError(c, "send verification failed", err)
		return
	}
	c.JSON(http.StatusOK, delivery)
}

// VerifyEmail maneja POST /api/auth/verify-email.
func (h *UserHandler) VerifyEmail(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
		Code  string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.userServ.VerifyEmailCode(c.Request.Context(), req.Email, req.Code); err != nil {
		h.writeError(c, "verify email failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Email verified successfully"})
}

func (h *UserHandler) respondWithToken(c *gin.Context, status int, user domain.User) {
	if h.jwtServ == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "jwt not configured"})
		return
	}
	token, err := h.jwtServ.Issue(user)
	if err != nil {
		h.logger.Error("jwt issue failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
		return
	}
	c.JSON(status, authResponse{
		AccessToken: token.Token,
		TokenType:   token.TokenType,
		User:        user,
	})
}

func (h *UserHandler) writeError(c *gin.Context, msg string, err error) {
	status, ok := statusForError(err)
	if !ok {
		h.logger.Error(msg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// statusForError traduce errores de servicio a codigos HTTP.
func statusForError(err error) (int, bool) {
	switch {
	case errors.Is(err, service.ErrDuplicateEmail):
		return http.StatusConflict, true
	case errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrInvalidCurrentPassword),
		errors.Is(err, service.ErrCodeNotFound),
		errors.Is(err, service.ErrCodeExpired),
		errors.Is(err, service.ErrCodeMismatch):
		return http.StatusBadRequest, true
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrTokenExpired),
		errors.Is(err, service.ErrTokenInvalid):
		return http.StatusUnauthorized, true
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrOfferNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, service.ErrRateLimited):
		return http.StatusTooManyRequests, true
	}
	return 0, false
}
