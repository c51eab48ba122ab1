package inventory_service_api

import (
	"context"
	"errors"
	"time"

	"github.com/Domenick1991/airline-booking/internal/domain"
	"github.com/Domenick1991/airline-booking/internal/logger"
	"github.com/Domenick1991/airline-booking/internal/service/purchase"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// Server exposes the purchase executor and capacity checks over gRPC.
type Server struct {
	purchases purchase.PurchaseUseCase
}

func NewServer(purchases purchase.PurchaseUseCase) *Server {
	return &Server{purchases: purchases}
}

func (s *Server) CheckCapacity(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	capacity, err := s.purchases.CheckCapacity(ctx, flightKey(req))
	if err != nil {
		return nil, toStatus(err)
	}
	return newStruct(map[string]any{
		"allowed":         capacity.Allowed,
		"reason":          capacity.Reason,
		"remaining_seats": capacity.RemainingSeats,
	})
}

// Purchase buys a ticket on behalf of the caller. Customers always buy for
// themselves. Agents name the customer and are recorded as the seller.
func (s *Server) Purchase(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	identity, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}

	in := purchase.PurchaseInput{
		AirlineName:  stringField(req, "airline_name"),
		FlightNumber: stringField(req, "flight_number"),
	}
	switch identity.Role {
	case domain.RoleCustomer:
		in.CustomerEmail = identity.UserID
	case domain.RoleAgent:
		in.CustomerEmail = stringField(req, "customer_email")
		in.AgentEmail = identity.UserID
	default:
		return nil, status.Error(codes.PermissionDenied, "Only customers and booking agents can purchase tickets.")
	}

	bought, err := s.purchases.Purchase(ctx, in)
	if err != nil {
		return nil, toStatus(err)
	}
	return newStruct(map[string]any{
		"ticket_id":       bought.Ticket.ID,
		"price_cents":     bought.Ticket.PriceCents,
		"ticket_status":   bought.Ticket.Status,
		"airline_name":    bought.Ticket.AirlineName,
		"flight_number":   bought.Ticket.FlightNumber,
		"customer_email":  bought.CustomerEmail,
		"agent_email":     bought.AgentEmail,
		"purchase_date":   bought.PurchasedAt.Format(time.RFC3339),
		"remaining_seats": bought.RemainingSeats,
	})
}

// Audit is limited to staff of the airline operating the flight.
func (s *Server) Audit(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	identity, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	key := flightKey(req)
	if identity.Role != domain.RoleStaff || identity.AirlineName != key.AirlineName {
		return nil, status.Error(codes.PermissionDenied, "Access denied.")
	}

	rec, err := s.purchases.Audit(ctx, key)
	if err != nil {
		return nil, toStatus(err)
	}
	return newStruct(map[string]any{
		"airline_name":            rec.AirlineName,
		"flight_number":           rec.FlightNumber,
		"seat_capacity":           rec.SeatCapacity,
		"tickets_sold":            rec.TicketsSold,
		"derived_remaining_seats": rec.DerivedSeats,
		"remaining_seats":         rec.RemainingSeats,
		"consistent":              rec.Consistent,
	})
}

// LoggingInterceptor logs every unary call with its outcome code.
func LoggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	entry := logrus.WithField("method", info.FullMethod)
	resp, err := handler(logger.ToContext(ctx, entry), req)

	entry = entry.WithFields(logrus.Fields{
		"code":     status.Code(err).String(),
		"duration": time.Since(start).String(),
	})
	if status.Code(err) == codes.Internal {
		entry.WithError(err).Error("grpc call failed")
	} else {
		entry.Debug("grpc call handled")
	}
	return resp, err
}

func toStatus(err error) error {
	msg := domain.UserMessage(err)
	switch {
	case errors.Is(err, domain.ErrValidation):
		return status.Error(codes.InvalidArgument, msg)
	case errors.Is(err, domain.ErrCustomerNotFound),
		errors.Is(err, domain.ErrAgentNotFound),
		errors.Is(err, domain.ErrFlightNotFound),
		errors.Is(err, domain.ErrAirplaneNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		return status.Error(codes.NotFound, msg)
	case errors.Is(err, domain.ErrNotAuthorized):
		return status.Error(codes.PermissionDenied, msg)
	case errors.Is(err, domain.ErrNoSeats):
		return status.Error(codes.ResourceExhausted, msg)
	case errors.Is(err, domain.ErrAlreadyExists):
		return status.Error(codes.AlreadyExists, msg)
	}
	return status.Error(codes.Internal, msg)
}

func flightKey(req *structpb.Struct) domain.FlightKey {
	return domain.FlightKey{
		AirlineName:  stringField(req, "airline_name"),
		FlightNumber: stringField(req, "flight_number"),
	}
}

func stringField(req *structpb.Struct, name string) string {
	return req.GetFields()[name].GetStringValue()
}

func newStruct(fields map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Error(codes.Internal, "encode response")
	}
	return out, nil
}

var _ InventoryServiceServer = (*Server)(nil)
