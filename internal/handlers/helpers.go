package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "ledgerly/internal/errors"
	"ledgerly/internal/middleware"
	"ledgerly/internal/uuid"
)

const dateOnlyLayout = "2006-01-02"

// getUserID extracts the authenticated user ID from the Gin context.
// Returns ErrUnauthorized if not present.
func getUserID(c *gin.Context) (string, error) {
	userID := c.GetString(middleware.UserIDKey)
	if userID == "" {
		return "", apperrors.ErrUnauthorized
	}
	return userID, nil
}

// parsePathID reads a UUID path parameter. An id that cannot exist is
// reported with notFound.
func parsePathID(c *gin.Context, param string, notFound *apperrors.AppError) (string, error) {
	id := c.Param(param)
	if !uuid.IsValid(id) {
		return "", notFound
	}
	return id, nil
}

// parseFlexibleTime accepts RFC3339 timestamps or YYYY-MM-DD dates. Dates
// are taken as midnight in the server's local time zone; dateOnly reports
// which form was given.
func parseFlexibleTime(s string) (t time.Time, dateOnly bool, err error) {
	if t, err = time.Parse(time.RFC3339, s); err == nil {
		return t, false, nil
	}
	if t, err = time.ParseInLocation(dateOnlyLayout, s, time.Local); err == nil {
		return t, true, nil
	}
	return time.Time{}, false, errors.New("invalid date format, use RFC3339 or YYYY-MM-DD")
}

// respondWithError writes the JSON error body for err.
func respondWithError(c *gin.Context, err error) {
	middleware.WriteError(c, err)
}

// MessageResponse is the body returned by delete routes.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
