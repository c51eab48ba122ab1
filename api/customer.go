package api

import (
	"net/http"

	"github.com/Domenick1991/airline-booking/internal/domain"
	"github.com/Domenick1991/airline-booking/internal/service/flights"
	"github.com/Domenick1991/airline-booking/internal/service/purchase"
	"github.com/Domenick1991/airline-booking/internal/service/reports"
	"github.com/gin-gonic/gin"
)

type purchaseRequest struct {
	CustomerEmail string `form:"customer_email" json:"customer_email"`
	AirlineName   string `form:"airline_name" json:"airline_name"`
	FlightNumber  string `form:"flight_number" json:"flight_number"`
}

const purchaseSucceeded = "Ticket purchased successfully."

type CustomerHandler struct {
	flights   flights.FlightUseCase
	purchases purchase.PurchaseUseCase
	reports   reports.ReportUseCase
}

func NewCustomerHandler(flights flights.FlightUseCase, purchases purchase.PurchaseUseCase, reports reports.ReportUseCase) *CustomerHandler {
	return &CustomerHandler{flights: flights, purchases: purchases, reports: reports}
}

func (h *CustomerHandler) Register(router gin.IRouter) {
	router.GET("/dashboard", h.dashboard)
	router.POST("/flights", h.history)
	router.POST("/search", h.search)
	router.POST("/purchase", h.purchase)
	router.GET("/spending", h.spending)
	router.POST("/spending", h.spending)
}

func (h *CustomerHandler) dashboard(c *gin.Context) {
	identity := CurrentIdentity(c)
	upcoming, err := h.reports.CustomerDashboard(c.Request.Context(), identity.UserID)
	if err != nil {
		fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": identity.DisplayName, "flights": upcoming})
}

func (h *CustomerHandler) history(c *gin.Context) {
	var input reports.HistoryInput
	if err := c.ShouldBind(&input); err != nil {
		badRequest(c)
		return
	}
	found, err := h.reports.CustomerFlights(c.Request.Context(), CurrentIdentity(c).UserID, input)
	if err != nil {
		fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"flights": found})
}

func (h *CustomerHandler) search(c *gin.Context) {
	var input flights.SearchInput
	if err := c.ShouldBind(&input); err != nil {
		badRequest(c)
		return
	}
	found, err := h.flights.Search(c.Request.Context(), input)
	if err != nil {
		fail(c, err, searchPath(domain.RoleCustomer))
		return
	}
	c.JSON(http.StatusOK, gin.H{"flights": found})
}

func (h *CustomerHandler) purchase(c *gin.Context) {
	var req purchaseRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c)
		return
	}
	bought, err := h.purchases.Purchase(c.Request.Context(), purchase.PurchaseInput{
		CustomerEmail: CurrentIdentity(c).UserID,
		AirlineName:   req.AirlineName,
		FlightNumber:  req.FlightNumber,
	})
	if err != nil {
		fail(c, err, searchPath(domain.RoleCustomer))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  purchaseSucceeded,
		"redirect": dashboardPath(domain.RoleCustomer),
		"purchase": bought,
	})
}

func (h *CustomerHandler) spending(c *gin.Context) {
	var input reports.SpendingInput
	if err := c.ShouldBind(&input); err != nil {
		badRequest(c)
		return
	}
	spent, err := h.reports.CustomerSpending(c.Request.Context(), CurrentIdentity(c).UserID, input)
	if err != nil {
		fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, spent)
}
