package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/airline-booking/internal/domain"
	"github.com/Domenick1991/airline-booking/internal/logger"
	"github.com/Domenick1991/airline-booking/internal/service/accounts"
	"github.com/Domenick1991/airline-booking/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const identityKey = "identity"

// Sessions resolves the session cookie into an identity once per request.
// Requests without a valid session continue as anonymous.
func Sessions(service accounts.AccountUseCase, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(cookieName)
		if err != nil || id == "" {
			c.Next()
			return
		}

		identity, err := service.Identity(c.Request.Context(), id)
		if err != nil {
			if !errors.Is(err, session.ErrNotFound) {
				logger.FromContext(c.Request.Context()).WithError(err).Warn("session lookup failed")
			}
			c.Next()
			return
		}

		c.Set(identityKey, identity)
		entry := logger.FromContext(c.Request.Context()).WithFields(logrus.Fields{
			"role": identity.Role,
			"user": identity.UserID,
		})
		c.Request = c.Request.WithContext(logger.ToContext(c.Request.Context(), entry))
		c.Next()
	}
}

// CurrentIdentity returns the identity of the request, nil when anonymous.
func CurrentIdentity(c *gin.Context) *domain.Identity {
	value, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	identity, _ := value.(*domain.Identity)
	if !identity.Authenticated() {
		return nil
	}
	return identity
}

func RequireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := CurrentIdentity(c)
		if identity == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, outcome{Message: "Please log in.", Redirect: "/login"})
			return
		}
		if identity.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, outcome{Message: "Access denied.", Redirect: dashboardPath(identity.Role)})
			return
		}
		c.Next()
	}
}

// RequirePermission admits staff holding p. Use after RequireRole(domain.RoleStaff).
func RequirePermission(p domain.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := CurrentIdentity(c)
		if !identity.Has(p) {
			c.AbortWithStatusJSON(http.StatusForbidden, outcome{Message: "Permission denied.", Redirect: dashboardPath(domain.RoleStaff)})
			return
		}
		c.Next()
	}
}
