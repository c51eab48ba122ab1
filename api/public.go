package api

import (
	"net/http"

	"github.com/Domenick1991/airline-booking/internal/service/flights"
	"github.com/gin-gonic/gin"
)

// PublicHandler serves the anonymous flight lookups.
type PublicHandler struct {
	flights flights.FlightUseCase
}

func NewPublicHandler(flights flights.FlightUseCase) *PublicHandler {
	return &PublicHandler{flights: flights}
}

func (h *PublicHandler) Register(router gin.IRouter) {
	router.GET("/airports", h.airports)
	router.GET("/live_search", h.liveSearch)
	router.GET("/check_status", h.checkStatus)
}

func (h *PublicHandler) airports(c *gin.Context) {
	options, err := h.flights.AirportOptions(c.Request.Context())
	if err != nil {
		fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, options)
}

func (h *PublicHandler) liveSearch(c *gin.Context) {
	var input flights.LiveSearchInput
	if err := c.ShouldBindQuery(&input); err != nil {
		badRequest(c)
		return
	}
	found, err := h.flights.LiveSearch(c.Request.Context(), input)
	if err != nil {
		fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"flights": found})
}

func (h *PublicHandler) checkStatus(c *gin.Context) {
	var input flights.StatusInput
	if err := c.ShouldBindQuery(&input); err != nil {
		badRequest(c)
		return
	}
	found, err := h.flights.CheckStatus(c.Request.Context(), input)
	if err != nil {
		fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"flights": found})
}
