package api

import (
	"net/http"

	"github.com/Domenick1991/airline-booking/internal/domain"
	"github.com/Domenick1991/airline-booking/internal/service/flights"
	"github.com/Domenick1991/airline-booking/internal/service/purchase"
	"github.com/Domenick1991/airline-booking/internal/service/reports"
	"github.com/gin-gonic/gin"
)

type passengersRequest struct {
	FlightNumber string `form:"flight_number" json:"flight_number"`
}

type customerFlightsRequest struct {
	CustomerEmail string `form:"customer_email" json:"customer_email"`
}

type airportRequest struct {
	Name string `form:"name" json:"name"`
	City string `form:"city" json:"city"`
}

type agentRequest struct {
	AgentEmail string `form:"agent_email" json:"agent_email"`
}

// StaffHandler serves airline staff. Every call is scoped to the staff
// member's own airline.
type StaffHandler struct {
	flights   flights.FlightUseCase
	purchases purchase.PurchaseUseCase
	reports   reports.ReportUseCase
}

func NewStaffHandler(flights flights.FlightUseCase, purchases purchase.PurchaseUseCase, reports reports.ReportUseCase) *StaffHandler {
	return &StaffHandler{flights: flights, purchases: purchases, reports: reports}
}

func (h *StaffHandler) Register(router gin.IRouter) {
	router.GET("/dashboard", h.dashboard)
	router.POST("/passengers", h.passengers)
	router.POST("/customer_flights", h.customerFlights)
	router.GET("/analytics", h.analytics)
	router.GET("/flights/:flight_number/audit", h.audit)
}

// RegisterAdmin mounts the calls that need the Admin permission.
func (h *StaffHandler) RegisterAdmin(router gin.IRouter) {
	router.POST("/airport", h.createAirport)
	router.GET("/airplanes", h.airplanes)
	router.POST("/airplane", h.createAirplane)
	router.POST("/flight", h.createFlight)
	router.POST("/agent", h.addAgent)
}

// RegisterOperator mounts the calls that need the Operator permission.
func (h *StaffHandler) RegisterOperator(router gin.IRouter) {
	router.POST("/status", h.updateStatus)
}

func (h *StaffHandler) dashboard(c *gin.Context) {
	var input flights.RangeInput
	if err := c.ShouldBindQuery(&input); err != nil {
		badRequest(c)
		return
	}
	identity := CurrentIdentity(c)
	found, err := h.flights.StaffFlights(c.Request.Context(), identity.AirlineName, input)
	if err != nil {
		fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"name":        identity.DisplayName,
		"airline":     identity.AirlineName,
		"permissions": identity.Permissions,
		"flights":     found,
	})
}

func (h *StaffHandler) passengers(c *gin.Context) {
	var req passengersRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c)
		return
	}
	key := domain.FlightKey{AirlineName: CurrentIdentity(c).AirlineName, FlightNumber: req.FlightNumber}
	found, err := h.reports.Passengers(c.Request.Context(), key)
	if err != nil {
		fail(c, err, dashboardPath(domain.RoleStaff))
		return
	}
	c.JSON(http.StatusOK, gin.H{"flight": key, "passengers": found})
}

func (h *StaffHandler) customerFlights(c *gin.Context) {
	var req customerFlightsRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c)
		return
	}
	found, err := h.reports.CustomerFlightsOnAirline(c.Request.Context(), CurrentIdentity(c).AirlineName, req.CustomerEmail)
	if err != nil {
		fail(c, err, dashboardPath(domain.RoleStaff))
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer_email": req.CustomerEmail, "flights": found})
}

func (h *StaffHandler) analytics(c *gin.Context) {
	stats, err := h.reports.StaffAnalytics(c.Request.Context(), CurrentIdentity(c).AirlineName)
	if err != nil {
		fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *StaffHandler) audit(c *gin.Context) {
	key := domain.FlightKey{AirlineName: CurrentIdentity(c).AirlineName, FlightNumber: c.Param("flight_number")}
	rec, err := h.purchases.Audit(c.Request.Context(), key)
	if err != nil {
		fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *StaffHandler) createAirport(c *gin.Context) {
	var req airportRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c)
		return
	}
	if err := h.flights.CreateAirport(c.Request.Context(), domain.Airport{Name: req.Name, City: req.City}); err != nil {
		fail(c, err, dashboardPath(domain.RoleStaff))
		return
	}
	c.JSON(http.StatusCreated, outcome{Message: "Airport added successfully.", Redirect: dashboardPath(domain.RoleStaff)})
}

func (h *StaffHandler) airplanes(c *gin.Context) {
	found, err := h.flights.Airplanes(c.Request.Context(), CurrentIdentity(c).AirlineName)
	if err != nil {
		fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"airplanes": found})
}

func (h *StaffHandler) createAirplane(c *gin.Context) {
	var input flights.AirplaneInput
	if err := c.ShouldBind(&input); err != nil {
		badRequest(c)
		return
	}
	plane, err := h.flights.CreateAirplane(c.Request.Context(), CurrentIdentity(c).AirlineName, input)
	if err != nil {
		fail(c, err, dashboardPath(domain.RoleStaff))
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":  "Airplane added successfully.",
		"redirect": dashboardPath(domain.RoleStaff),
		"airplane": plane,
	})
}

func (h *StaffHandler) createFlight(c *gin.Context) {
	var input flights.FlightInput
	if err := c.ShouldBind(&input); err != nil {
		badRequest(c)
		return
	}
	created, err := h.flights.CreateFlight(c.Request.Context(), CurrentIdentity(c).AirlineName, input)
	if err != nil {
		fail(c, err, dashboardPath(domain.RoleStaff))
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":  "Flight created successfully.",
		"redirect": dashboardPath(domain.RoleStaff),
		"flight":   created,
	})
}

func (h *StaffHandler) addAgent(c *gin.Context) {
	var req agentRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c)
		return
	}
	if err := h.flights.AddAgent(c.Request.Context(), CurrentIdentity(c).AirlineName, req.AgentEmail); err != nil {
		fail(c, err, dashboardPath(domain.RoleStaff))
		return
	}
	c.JSON(http.StatusOK, outcome{Message: "Agent added to airline successfully.", Redirect: dashboardPath(domain.RoleStaff)})
}

func (h *StaffHandler) updateStatus(c *gin.Context) {
	var input flights.StatusUpdate
	if err := c.ShouldBind(&input); err != nil {
		badRequest(c)
		return
	}
	if err := h.flights.UpdateStatus(c.Request.Context(), CurrentIdentity(c).AirlineName, input); err != nil {
		fail(c, err, dashboardPath(domain.RoleStaff))
		return
	}
	c.JSON(http.StatusOK, outcome{Message: "Flight status updated successfully.", Redirect: dashboardPath(domain.RoleStaff)})
}
