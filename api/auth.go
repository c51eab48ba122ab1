package api

import (
	"net/http"

	"github.com/Domenick1991/airline-booking/config"
	"github.com/Domenick1991/airline-booking/internal/logger"
	"github.com/Domenick1991/airline-booking/internal/service/accounts"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service accounts.AccountUseCase
	cookie  config.SessionConfig
}

func NewAuthHandler(service accounts.AccountUseCase, cookie config.SessionConfig) *AuthHandler {
	return &AuthHandler{service: service, cookie: cookie}
}

func (h *AuthHandler) Register(router gin.IRouter) {
	router.POST("/register", h.register)
	router.POST("/login", h.login)
	router.POST("/logout", h.logout)
	router.GET("/me", h.me)
}

func (h *AuthHandler) register(c *gin.Context) {
	var input accounts.RegisterInput
	if err := c.ShouldBind(&input); err != nil {
		badRequest(c)
		return
	}
	if err := h.service.Register(c.Request.Context(), input); err != nil {
		fail(c, err, "/register")
		return
	}
	c.JSON(http.StatusCreated, outcome{Message: "Registration successful. Please log in.", Redirect: "/login"})
}

func (h *AuthHandler) login(c *gin.Context) {
	var input accounts.LoginInput
	if err := c.ShouldBind(&input); err != nil {
		badRequest(c)
		return
	}
	sess, err := h.service.Login(c.Request.Context(), input)
	if err != nil {
		fail(c, err, "/login")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.CookieName, sess.ID, int(h.cookie.TTL().Seconds()), "/", "", h.cookie.Secure, true)
	c.JSON(http.StatusOK, gin.H{
		"message":  "Welcome, " + sess.Identity.DisplayName + ".",
		"redirect": dashboardPath(sess.Identity.Role),
		"identity": sess.Identity,
	})
}

func (h *AuthHandler) logout(c *gin.Context) {
	if id, err := c.Cookie(h.cookie.CookieName); err == nil && id != "" {
		if err := h.service.Logout(c.Request.Context(), id); err != nil {
			logger.FromContext(c.Request.Context()).WithError(err).Warn("failed to delete session")
		}
	}
	c.SetCookie(h.cookie.CookieName, "", -1, "/", "", h.cookie.Secure, true)
	c.JSON(http.StatusOK, outcome{Message: "You have been logged out.", Redirect: "/"})
}

func (h *AuthHandler) me(c *gin.Context) {
	identity := CurrentIdentity(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, outcome{Message: "Please log in.", Redirect: "/login"})
		return
	}
	c.JSON(http.StatusOK, identity)
}
