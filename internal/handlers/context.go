package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/notepass/backend/internal/models"
)

// getUserIDFromContext returns the acting user's id stored by the auth
// middleware, or 0 when unauthenticated.
func getUserIDFromContext(c echo.Context) uint {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok {
		return 0
	}
	return claims.UserID
}

// domainError maps a repository failure onto an HTTP error: domain-rule
// violations become 400s with the reason, anything else is internal.
func domainError(err error) error {
	if models.IsInvalidOperation(err) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
