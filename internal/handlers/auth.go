package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"clinic-records-server/internal/middleware"
	"clinic-records-server/internal/store"
	"clinic-records-server/internal/utils"
)

// AuthHandler handles registration, login and profile requests.
type AuthHandler struct {
	Accounts AccountRepository
	Tokens   TokenIssuer
	Metrics  Counters
	Log      zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler. counters may be nil.
func NewAuthHandler(accounts AccountRepository, tokens TokenIssuer, counters Counters, log zerolog.Logger) *AuthHandler {
	if counters == nil {
		counters = noopCounters{}
	}
	return &AuthHandler{Accounts: accounts, Tokens: tokens, Metrics: counters, Log: log}
}

// RegisterRequest represents the request body for account registration.
type RegisterRequest struct {
	FullName string `json:"fullName" validate:"required" label:"Full name"`
	Email    string `json:"email" validate:"required" label:"Email"`
	Password string `json:"password" validate:"required" label:"Password"`
}

// Register handles POST /create-account.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !utils.BindAndValidate(c, &req) {
		return // Error response handled by BindAndValidate
	}
	ctx := c.Request.Context()

	// An existing email is reported in the envelope with a 200 status.
	_, err := h.Accounts.FindByEmail(ctx, req.Email)
	if err == nil {
		utils.Respond(c, http.StatusOK, true, "User already exists", nil)
		return
	}
	if !errors.Is(err, store.ErrNotFound) {
		internalError(c, h.Log, err, "look up account by email")
		return
	}

	account, err := h.Accounts.Create(ctx, req.FullName, req.Email, req.Password)
	if errors.Is(err, store.ErrDuplicateKey) {
		utils.Respond(c, http.StatusOK, true, "User already exists", nil)
		return
	}
	if err != nil {
		internalError(c, h.Log, err, "create account")
		return
	}

	accessToken, err := h.Tokens.Issue(account.ID)
	if err != nil {
		internalError(c, h.Log, err, "issue access token")
		return
	}

	h.Metrics.AccountRegistered()
	h.Log.Info().Str("account_id", account.ID).Msg("account registered")
	utils.Success(c, "Registration Successful", utils.Payload{
		"user":        account.Sanitize(),
		"accessToken": accessToken,
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required" label:"Email"`
	Password string `json:"password" validate:"required" label:"Password"`
}

// Login handles POST /login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	account, err := h.Accounts.FindByEmail(c.Request.Context(), req.Email)
	if errors.Is(err, store.ErrNotFound) {
		utils.BadRequest(c, "User not found")
		return
	}
	if err != nil {
		internalError(c, h.Log, err, "look up account by email")
		return
	}

	// Database collations may match case-insensitively; the stored email must
	// match exactly.
	if account.Email != req.Email || !account.CheckPassword(req.Password) {
		utils.BadRequest(c, "Invalid Credentials")
		return
	}

	accessToken, err := h.Tokens.Issue(account.ID)
	if err != nil {
		internalError(c, h.Log, err, "issue access token")
		return
	}

	utils.Success(c, "Login Successful", utils.Payload{
		"email":       account.Email,
		"accessToken": accessToken,
	})
}

// GetProfile handles GET /get-user for the authenticated account.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	accountID, ok := middleware.GetAccountIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	account, err := h.Accounts.FindByID(c.Request.Context(), accountID)
	if errors.Is(err, store.ErrNotFound) {
		utils.NotFound(c, "User not found")
		return
	}
	if err != nil {
		internalError(c, h.Log, err, "load account profile")
		return
	}

	utils.Success(c, "User details retrieved successfully", utils.Payload{
		"user": account.Sanitize(),
	})
}
