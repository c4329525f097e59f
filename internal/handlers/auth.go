package handlers

import (
	"net/http"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/notepass/backend/internal/models"
	"github.com/notepass/backend/internal/repositories"
)

// AuthHandler bridges the external identity provider to local accounts. The
// core only ever sees the verified email; passwords and provider tokens stay
// at this boundary.
type AuthHandler struct {
	userRepository repositories.UserRepository
	firebaseAuth   *auth.Client
	jwtSecret      string
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository, firebaseAuthClient *auth.Client, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		firebaseAuth:   firebaseAuthClient,
		jwtSecret:      jwtSecret,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/login", h.Login)
	g.POST("/create-account", h.CreateAccount)
}

// LoginRequest defines the request body for logging in with a provider token
type LoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// verifyEmail verifies the provider ID token and extracts the verified email.
func (h *AuthHandler) verifyEmail(c echo.Context, idToken string) (string, error) {
	token, err := h.firebaseAuth.VerifyIDToken(c.Request().Context(), idToken)
	if err != nil {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired ID token")
	}
	email, ok := token.Claims["email"].(string)
	if !ok || email == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "ID token carries no email")
	}
	return email, nil
}

// Login verifies a provider ID token and issues a session token for the
// matching account. When the email has no account yet, the response asks the
// client to complete account creation instead.
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	email, err := h.verifyEmail(c, req.IDToken)
	if err != nil {
		return err
	}

	user, err := h.userRepository.GetByEmail(email)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if user == nil {
		return c.JSON(http.StatusOK, echo.Map{"accountRequired": true, "email": email})
	}
	if user.IsDeleted {
		return echo.NewHTTPError(http.StatusForbidden, "Account has been deactivated")
	}

	token, err := h.generateJWT(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}
	return c.JSON(http.StatusOK, echo.Map{"token": token})
}

// CreateAccount completes signup for a verified email that has no account
// yet, then issues the session token.
func (h *AuthHandler) CreateAccount(c echo.Context) error {
	var req models.CreateAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	email, err := h.verifyEmail(c, req.IDToken)
	if err != nil {
		return err
	}

	existing, err := h.userRepository.GetByEmail(email)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if existing != nil {
		return echo.NewHTTPError(http.StatusConflict, "An account already exists for this email")
	}

	user, err := h.userRepository.Create(email, req.Username, req.DisplayName)
	if err != nil {
		return domainError(err)
	}

	token, err := h.generateJWT(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}
	return c.JSON(http.StatusCreated, echo.Map{"token": token})
}

// generateJWT generates a session token for a given user
func (h *AuthHandler) generateJWT(user *models.User) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 72)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}
