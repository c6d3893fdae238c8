package server

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/rezoom/internal/logging"
	"github.com/jonathan/rezoom/internal/types"
)

// maxAuthBody bounds credential and account payloads
const maxAuthBody = 16 << 10

var requestValidator = validator.New()

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	userService *UserService
	jwtService  *JWTService
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(userService *UserService, jwtService *JWTService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		jwtService:  jwtService,
		logger:      logging.OrNop(logger).Named("auth"),
	}
}

// Register handles user registration requests.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req types.CreateUserRequest
	if err := decodeJSON(w, r, &req, maxAuthBody); err != nil {
		h.fail(w, &ErrValidation{Field: "body", Message: "invalid JSON"})
		return
	}
	if err := req.Validate(); err != nil {
		h.fail(w, validationError(err))
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.issue(w, http.StatusCreated, user)
}

// Login handles user login requests.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := decodeJSON(w, r, &req, maxAuthBody); err != nil {
		h.fail(w, &ErrValidation{Field: "body", Message: "invalid JSON"})
		return
	}
	if err := req.Validate(); err != nil {
		h.fail(w, validationError(err))
		return
	}

	user, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.issue(w, http.StatusOK, user)
}

// UpdatePasswordWithUserID handles password update requests with an explicit user ID.
func (h *AuthHandler) UpdatePasswordWithUserID(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	var req types.UpdatePasswordRequest
	if err := decodeJSON(w, r, &req, maxAuthBody); err != nil {
		h.fail(w, &ErrValidation{Field: "body", Message: "invalid JSON"})
		return
	}
	if err := req.Validate(); err != nil {
		h.fail(w, validationError(err))
		return
	}

	if err := h.userService.UpdatePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		h.fail(w, err)
		return
	}

	h.logger.Info("password updated", zap.String("user_id", userID.String()))
	writeJSON(w, h.logger, http.StatusOK, map[string]string{
		"message": "Password updated successfully",
	})
}

func (h *AuthHandler) issue(w http.ResponseWriter, status int, user *types.User) {
	token, err := h.jwtService.GenerateToken(user.ID)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, h.logger, status, types.LoginResponse{
		User:      user,
		Token:     token,
		ExpiresIn: int64(h.jwtService.TTL().Seconds()),
	})
}

func (h *AuthHandler) fail(w http.ResponseWriter, err error) {
	e := classify(err)
	if e.Status >= http.StatusInternalServerError {
		h.logger.Error("auth request failed", zap.Error(err))
	}
	writeJSON(w, h.logger, e.Status, map[string]string{"error": e.Code, "message": e.Message})
}

// validationError turns the first validator failure into an ErrValidation
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		ve := verrs[0]
		return &ErrValidation{Field: lowerFirst(ve.Field()), Message: ve.Tag()}
	}
	return &ErrValidation{Field: "request", Message: "invalid request"}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'A' && b[0] <= 'Z' {
		b[0] += 'a' - 'A'
	}
	return string(b)
}
