package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mambagroup/inventory-backend/internal/auth"
	"github.com/mambagroup/inventory-backend/internal/config"
	"github.com/mambagroup/inventory-backend/internal/constants"
	"github.com/mambagroup/inventory-backend/internal/models"
	"github.com/mambagroup/inventory-backend/internal/utils"
)

// AuthHandler handles the /api/users routes
type AuthHandler struct {
	authService AuthServiceInterface
	cookie      *config.CookieSettings
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService AuthServiceInterface, cookie *config.CookieSettings) *AuthHandler {
	if authService == nil {
		panic("authService cannot be nil")
	}
	return &AuthHandler{
		authService: authService,
		cookie:      cookie,
	}
}

// Register handles user registration
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	resp, expiresAt, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	auth.SetSessionCookie(w, resp.Token, expiresAt, h.cookie)
	utils.JSON(w, http.StatusCreated, resp)
}

// Login handles user authentication. The cookie is only written on success.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	resp, expiresAt, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	auth.SetSessionCookie(w, resp.Token, expiresAt, h.cookie)
	utils.JSON(w, http.StatusOK, resp)
}

// Logout clears the session cookie. It succeeds whether or not a session exists.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w, h.cookie)
	utils.LogAuth(constants.LogEventLogout, "", "", true, "")
	utils.Message(w, http.StatusOK, constants.MsgLogoutSuccess)
}

// LoginStatus answers with a bare true or false
func (h *AuthHandler) LoginStatus(w http.ResponseWriter, r *http.Request) {
	token := auth.TokenFromRequest(r, h.cookie)
	utils.Bool(w, h.authService.LoginStatus(token))
}

// GetUser returns the profile of the authenticated user
func (h *AuthHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	profile, err := h.authService.GetProfile(r.Context(), userID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, profile)
}

// UpdateUser updates the profile of the authenticated user
func (h *AuthHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	var req models.UpdateProfileRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	profile, err := h.authService.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, profile)
}

// ChangePassword changes the password of the authenticated user
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	var req models.ChangePasswordRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	if err := h.authService.ChangePassword(r.Context(), userID, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.Message(w, http.StatusOK, constants.MsgPasswordChanged)
}

// ForgotPassword emails a reset link
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	if err := h.authService.RequestPasswordReset(r.Context(), req.Email); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.Message(w, http.StatusOK, constants.MsgResetEmailSent)
}

// ResetPassword sets a new password using the token from the URL
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, constants.ParamResetToken)

	var req models.ResetPasswordRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	if err := h.authService.ResetPassword(r.Context(), token, req.Password); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.Message(w, http.StatusOK, constants.MsgPasswordResetDone)
}
