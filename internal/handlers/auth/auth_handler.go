// internal/handlers/auth/auth_handler.go
package auth

import (
	"errors"
	"net/http"
	"strings"

	authDomain "kynix-service/internal/domain/auth"
	"kynix-service/internal/middleware"
	xerrors "kynix-service/internal/pkg/errors"
	"kynix-service/internal/pkg/ratelimit"
	"kynix-service/internal/pkg/response"
	"kynix-service/internal/pkg/token"
	authService "kynix-service/internal/service/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	service *authService.AuthService
	limiter *ratelimit.Limiter
	logger  *zap.Logger
}

func NewAuthHandler(service *authService.AuthService, limiter *ratelimit.Limiter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		limiter: limiter,
		logger:  logger,
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req authDomain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid registration payload", err)
		return
	}

	resp, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, xerrors.ErrDuplicateEntry) {
			response.Error(c, http.StatusConflict, "email already registered", nil)
			return
		}
		h.logger.Error("registration failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "registration failed", err)
		return
	}

	response.Success(c, http.StatusCreated, "account created", resp)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req authDomain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid login payload", err)
		return
	}

	allowed, remaining, err := h.limiter.CheckLoginAttempt(c.Request.Context(), c.ClientIP(), req.Email)
	if err != nil {
		h.logger.Warn("rate limiter unavailable", zap.Error(err))
	} else if !allowed {
		response.Error(c, http.StatusTooManyRequests, "too many login attempts", xerrors.ErrRateLimited, map[string]interface{}{
			"remaining_attempts": remaining,
		})
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, authService.ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, "invalid email or password", nil)
		case errors.Is(err, authService.ErrAccountInactive):
			response.Error(c, http.StatusForbidden, "account is inactive", nil)
		default:
			h.logger.Error("login failed", zap.Error(err))
			response.Error(c, http.StatusInternalServerError, "login failed", err)
		}
		return
	}

	if err := h.limiter.ResetLoginAttempts(c.Request.Context(), c.ClientIP(), req.Email); err != nil {
		h.logger.Warn("failed to reset login attempts", zap.Error(err))
	}

	response.Success(c, http.StatusOK, "login successful", resp)
}

// Refresh handles POST /api/auth/refresh. The bearer token may be expired;
// its signature must still check out, and the account must still be active.
func (h *AuthHandler) Refresh(c *gin.Context) {
	raw := bearerToken(c)
	if raw == "" {
		response.Unauthorized(c, "no token provided")
		return
	}

	resp, err := h.service.Refresh(c.Request.Context(), raw)
	if err != nil {
		switch {
		case errors.Is(err, token.ErrInvalidSignature):
			response.Unauthorized(c, "invalid token")
		case errors.Is(err, authService.ErrUserNotFound), errors.Is(err, authService.ErrAccountInactive):
			response.Unauthorized(c, "user not found or inactive")
		default:
			h.logger.Error("token refresh failed", zap.Error(err))
			response.Error(c, http.StatusInternalServerError, "token refresh failed", err)
		}
		return
	}

	response.Success(c, http.StatusOK, "token refreshed", resp)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	account, err := h.service.GetProfile(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		if errors.Is(err, authService.ErrUserNotFound) {
			response.NotFound(c, "account not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to load profile", err)
		return
	}

	response.Success(c, http.StatusOK, "profile", account)
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}
