package api

import (
	"context"
	"net/http"
	"time"

	"github.com/Domenick1991/airline-booking/internal/domain"
	"github.com/Domenick1991/airline-booking/internal/logger"
	"github.com/gin-gonic/gin"
)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

type Handlers struct {
	Auth       *AuthHandler
	Public     *PublicHandler
	Customer   *CustomerHandler
	Agent      *AgentHandler
	Staff      *StaffHandler
	CookieName string
	Checks     map[string]HealthCheck
}

func NewRouter(h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), logger.Middleware(), Sessions(h.Auth.service, h.CookieName))

	router.GET("/healthz", health(h.Checks))
	h.Auth.Register(router)
	h.Public.Register(router.Group("/api"))
	h.Customer.Register(router.Group("/customer", RequireRole(domain.RoleCustomer)))
	h.Agent.Register(router.Group("/agent", RequireRole(domain.RoleAgent)))

	staff := router.Group("/staff", RequireRole(domain.RoleStaff))
	h.Staff.Register(staff)
	h.Staff.RegisterAdmin(staff.Group("/admin", RequirePermission(domain.PermissionAdmin)))
	h.Staff.RegisterOperator(staff.Group("/operator", RequirePermission(domain.PermissionOperator)))

	return router
}

func health(checks map[string]HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		code := http.StatusOK
		result := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				logger.FromContext(ctx).WithError(err).WithField("dependency", name).Warn("health check failed")
				result[name] = "down"
				code = http.StatusServiceUnavailable
				continue
			}
			result[name] = "ok"
		}
		c.JSON(code, gin.H{"status": http.StatusText(code), "checks": result})
	}
}
