package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/airline-booking/internal/domain"
	"github.com/Domenick1991/airline-booking/internal/logger"
	"github.com/gin-gonic/gin"
)

// outcome is the body of every state changing response.
type outcome struct {
	Message  string `json:"message"`
	Redirect string `json:"redirect,omitempty"`
}

func dashboardPath(role domain.Role) string {
	switch role {
	case domain.RoleCustomer, domain.RoleAgent, domain.RoleStaff:
		return "/" + string(role) + "/dashboard"
	}
	return "/"
}

func searchPath(role domain.Role) string {
	return "/" + string(role) + "/search"
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrCustomerNotFound),
		errors.Is(err, domain.ErrAgentNotFound),
		errors.Is(err, domain.ErrFlightNotFound),
		errors.Is(err, domain.ErrAirplaneNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNoSeats), errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// fail writes the user facing message of err. Internal details only reach the log.
func fail(c *gin.Context, err error, redirect string) {
	code := statusCode(err)
	if code == http.StatusInternalServerError {
		logger.FromContext(c.Request.Context()).WithError(err).Error("request failed")
		_ = c.Error(err)
	}
	c.JSON(code, outcome{Message: domain.UserMessage(err), Redirect: redirect})
}

func badRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, outcome{Message: "Invalid request."})
}
