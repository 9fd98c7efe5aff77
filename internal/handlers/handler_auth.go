package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hrplane/approval_flow_app/internal/apperrors"
	"github.com/hrplane/approval_flow_app/internal/core/domain"
	portssvc "github.com/hrplane/approval_flow_app/internal/core/ports/services"
	"github.com/hrplane/approval_flow_app/internal/dto"
	"github.com/hrplane/approval_flow_app/internal/middleware"
	"github.com/hrplane/approval_flow_app/internal/platform/config"
	"github.com/hrplane/approval_flow_app/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// ErrorResponse is a generic error response structure for handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// AuthHandler handles login, registration and refresh-token rotation.
type AuthHandler struct {
	employeeService portssvc.EmployeeSvcFacade
	tokenService    portssvc.TokenSvcFacade
	cfg             *config.Config
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(es portssvc.EmployeeSvcFacade, ts portssvc.TokenSvcFacade, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		employeeService: es,
		tokenService:    ts,
		cfg:             cfg,
	}
}

// registerAuthRoutes sets up the public authentication routes.
func registerAuthRoutes(rg *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := NewAuthHandler(services.Employee, services.Token, cfg)

	// Login is rate limited per IP to slow credential stuffing.
	rate, _ := limiter.NewRateFromFormatted("5-M")
	store := memory.NewStore()
	ipLimiter := limiter.New(store, rate)

	auth := rg.Group("/api/v1/auth")
	{
		auth.POST("/login", middleware.RateLimit(ipLimiter), h.Login)
		auth.POST("/register", h.Register)
		auth.POST("/refresh", h.Refresh)
		auth.POST("/logout", h.Logout)
	}
}

func (h *AuthHandler) setRefreshTokenCookie(c *gin.Context, rawToken string, maxAgeSeconds int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(
		h.cfg.RefreshTokenCookieName,
		rawToken,
		maxAgeSeconds,
		h.cfg.RefreshTokenCookiePath,
		"",
		h.cfg.IsProduction,
		true,
	)
}

// issueTokens generates the access/refresh token pair, persists the refresh
// token hash and sets the cookie.
func (h *AuthHandler) issueTokens(c *gin.Context, employee *domain.Employee) (*dto.LoginResponse, error) {
	accessToken, expiresAt, err := h.tokenService.GenerateAccessToken(c.Request.Context(), employee)
	if err != nil {
		return nil, err
	}

	rawRefreshToken, refreshExpiry, err := h.tokenService.GenerateRefreshToken(c.Request.Context(), employee)
	if err != nil {
		return nil, err
	}
	if err := h.employeeService.UpdateRefreshToken(c.Request.Context(), employee.EmployeeID, utils.HashRefreshToken(rawRefreshToken), refreshExpiry); err != nil {
		return nil, err
	}

	h.setRefreshTokenCookie(c, rawRefreshToken, int(h.cfg.RefreshTokenExpiryDuration.Seconds()))

	return &dto.LoginResponse{
		EmployeeID:  employee.EmployeeID,
		Name:        employee.Name,
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
	}, nil
}

// Login godoc
// @Summary Employee login
// @Description Authenticates an employee, returns a JWT access token and sets a refresh-token cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	employee, err := h.employeeService.AuthenticateEmployee(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid username or password"})
			return
		}
		logger.Error("Login failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to log in"})
		return
	}

	resp, err := h.issueTokens(c, employee)
	if err != nil {
		logger.Error("Failed to issue tokens", slog.String("error", err.Error()), slog.String("employee_id", employee.EmployeeID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}

	logger.Info("Employee logged in", slog.String("employee_id", employee.EmployeeID))
	c.JSON(http.StatusOK, resp)
}

// Register godoc
// @Summary Register a new employee
// @Description Creates a new employee account.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.CreateEmployeeRequest true "Employee Registration Info"
// @Success 201 {object} dto.EmployeeResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Username already taken"
// @Failure 500 {object} ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	employee, err := h.employeeService.CreateEmployee(c.Request.Context(), req, "")
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) || errors.Is(err, apperrors.ErrDuplicate) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Username already taken"})
			return
		}
		logger.Error("Registration failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to register"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToEmployeeResponse(employee))
}

// RefreshRequest carries the employee whose refresh cookie should rotate.
type RefreshRequest struct {
	EmployeeID string `json:"employeeID" binding:"required"`
}

// Refresh godoc
// @Summary Rotate the refresh token
// @Description Validates the refresh-token cookie and issues a fresh access/refresh pair.
// @Tags auth
// @Accept json
// @Produce json
// @Param refresh body RefreshRequest true "Employee whose session to refresh"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	rawToken, err := c.Cookie(h.cfg.RefreshTokenCookieName)
	if err != nil || rawToken == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Missing refresh token"})
		return
	}

	employee, err := h.tokenService.ValidateAndParseRefreshToken(c.Request.Context(), req.EmployeeID, rawToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) || errors.Is(err, apperrors.ErrRefreshTokenExpired) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid or expired refresh token"})
			return
		}
		logger.Error("Refresh token validation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to refresh session"})
		return
	}

	resp, err := h.issueTokens(c, employee)
	if err != nil {
		logger.Error("Failed to rotate tokens", slog.String("error", err.Error()), slog.String("employee_id", employee.EmployeeID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Logout godoc
// @Summary Log out
// @Description Clears the stored refresh token and expires the cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param logout body RefreshRequest true "Employee to log out"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := h.employeeService.ClearRefreshToken(c.Request.Context(), req.EmployeeID); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		logger.Error("Failed to clear refresh token on logout", slog.String("error", err.Error()), slog.String("employee_id", req.EmployeeID))
	}

	h.setRefreshTokenCookie(c, "", -1)
	c.Status(http.StatusNoContent)
}
