package handlers

import (
	"errors"
	"strings"

	"schoolrec/internal/core/domain"
	"schoolrec/internal/core/services"
	"schoolrec/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// LoginRequest represents password login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SendOTPRequest represents OTP request body
type SendOTPRequest struct {
	Email string `json:"email"`
}

// VerifyOTPRequest represents OTP confirmation body
type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// Login handles password login
// @Summary Login with email and password
// @Description Authenticate a teacher or student and return a session token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	// Validate required fields
	if req.Email == "" || req.Password == "" {
		return response.UnprocessableEntity(c, "Email and password are required")
	}

	input := &services.LoginInput{
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
	}

	result, err := h.authService.Login(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			// Same message for unknown email and wrong password
			return response.Unauthorized(c, "Invalid credentials")
		default:
			return response.InternalServerError(c, "An error occurred during login")
		}
	}

	return response.SuccessWithToken(c, "Login successful", result.Principal, result.Token)
}

// SendOTP handles OTP issuance
// @Summary Request a one-time passcode
// @Description Issue a 6-digit code and deliver it to the principal's email
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body SendOTPRequest true "Principal email"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /auth/send-otp [post]
func (h *AuthHandler) SendOTP(c *fiber.Ctx) error {
	var req SendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Email == "" {
		return response.UnprocessableEntity(c, "Email is required")
	}

	err := h.authService.RequestOTP(c.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPrincipalNotFound):
			return response.NotFound(c, "User not found")
		default:
			return response.InternalServerError(c, "An error occurred while sending OTP")
		}
	}

	return response.Success(c, "OTP sent to your email", nil)
}

// VerifyOTP handles OTP confirmation
// @Summary Confirm a one-time passcode
// @Description Verify the code and return a session token on success
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body VerifyOTPRequest true "Email and code"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /auth/verify-otp [post]
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req VerifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Email == "" || req.OTP == "" {
		return response.UnprocessableEntity(c, "Email and OTP are required")
	}

	result, err := h.authService.VerifyOTP(c.Context(), strings.TrimSpace(req.Email), strings.TrimSpace(req.OTP))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOTPNotFound):
			return response.BadRequest(c, "OTP not found or expired")
		case errors.Is(err, domain.ErrOTPExpired):
			return response.BadRequest(c, "OTP has expired")
		case errors.Is(err, domain.ErrOTPMismatch):
			return response.BadRequest(c, "Invalid OTP")
		case errors.Is(err, domain.ErrPrincipalNotFound):
			return response.NotFound(c, "User not found")
		default:
			return response.InternalServerError(c, "An error occurred while verifying OTP")
		}
	}

	return response.SuccessWithToken(c, "OTP verified, login successful", result.Principal, result.Token)
}

// Me returns the current principal
// @Summary Get current principal
// @Description Get the currently authenticated principal's information
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principalID, ok := c.Locals("principalID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	role, ok := c.Locals("role").(string)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	principal, err := h.authService.GetPrincipal(c.Context(), principalID, role)
	if err != nil {
		return response.NotFound(c, "User not found")
	}

	return response.Success(c, "Principal retrieved successfully", principal.Summary())
}
