package api

import (
	"net/http"

	"github.com/Domenick1991/airline-booking/internal/domain"
	"github.com/Domenick1991/airline-booking/internal/service/flights"
	"github.com/Domenick1991/airline-booking/internal/service/purchase"
	"github.com/Domenick1991/airline-booking/internal/service/reports"
	"github.com/gin-gonic/gin"
)

// AgentHandler serves booking agents. Searches and sales are limited to the
// airlines the agent works with.
type AgentHandler struct {
	flights   flights.FlightUseCase
	purchases purchase.PurchaseUseCase
	reports   reports.ReportUseCase
}

func NewAgentHandler(flights flights.FlightUseCase, purchases purchase.PurchaseUseCase, reports reports.ReportUseCase) *AgentHandler {
	return &AgentHandler{flights: flights, purchases: purchases, reports: reports}
}

func (h *AgentHandler) Register(router gin.IRouter) {
	router.GET("/dashboard", h.dashboard)
	router.POST("/flights", h.sales)
	router.POST("/search", h.search)
	router.POST("/purchase", h.purchase)
	router.GET("/analytics", h.analytics)
}

func (h *AgentHandler) dashboard(c *gin.Context) {
	identity := CurrentIdentity(c)
	recent, err := h.reports.AgentDashboard(c.Request.Context(), identity.UserID)
	if err != nil {
		fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"email": identity.UserID, "flights": recent})
}

func (h *AgentHandler) sales(c *gin.Context) {
	var input reports.HistoryInput
	if err := c.ShouldBind(&input); err != nil {
		badRequest(c)
		return
	}
	found, err := h.reports.AgentSales(c.Request.Context(), CurrentIdentity(c).UserID, input)
	if err != nil {
		fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"flights": found})
}

func (h *AgentHandler) search(c *gin.Context) {
	var input flights.SearchInput
	if err := c.ShouldBind(&input); err != nil {
		badRequest(c)
		return
	}
	found, err := h.flights.AgentSearch(c.Request.Context(), CurrentIdentity(c).UserID, input)
	if err != nil {
		fail(c, err, searchPath(domain.RoleAgent))
		return
	}
	c.JSON(http.StatusOK, gin.H{"flights": found})
}

func (h *AgentHandler) purchase(c *gin.Context) {
	var req purchaseRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c)
		return
	}
	bought, err := h.purchases.Purchase(c.Request.Context(), purchase.PurchaseInput{
		CustomerEmail: req.CustomerEmail,
		AgentEmail:    CurrentIdentity(c).UserID,
		AirlineName:   req.AirlineName,
		FlightNumber:  req.FlightNumber,
	})
	if err != nil {
		fail(c, err, searchPath(domain.RoleAgent))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  purchaseSucceeded,
		"redirect": dashboardPath(domain.RoleAgent),
		"purchase": bought,
	})
}

func (h *AgentHandler) analytics(c *gin.Context) {
	stats, err := h.reports.AgentAnalytics(c.Request.Context(), CurrentIdentity(c).UserID)
	if err != nil {
		fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, stats)
}
