package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/Domenick1991/airline-booking/config"
	inventoryapi "github.com/Domenick1991/airline-booking/internal/api/inventory_service_api"
	"github.com/Domenick1991/airline-booking/internal/service/purchase"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/sirupsen/logrus"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const (
	shutdownTimeout = 5 * time.Second
	swaggerDocument = "airline.swagger.json"
)

type Servers struct {
	grpcServer    *grpc.Server
	httpServer    *http.Server
	gatewayServer *http.Server
	gatewayConn   *grpc.ClientConn
}

// Run serves the JSON API, the inventory gRPC API and its REST gateway until
// ctx is cancelled or one of them fails, then stops all three.
func Run(ctx context.Context, cfg *config.Config, api http.Handler, purchases purchase.PurchaseUseCase, sessions inventoryapi.IdentityResolver) error {
	s, err := newServers(cfg, api, purchases, sessions)
	if err != nil {
		return err
	}
	defer s.gatewayConn.Close()

	lis, err := net.Listen("tcp", cfg.GRPC.Address)
	if err != nil {
		return fmt.Errorf("listen gRPC %s: %w", cfg.GRPC.Address, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logrus.WithField("address", cfg.GRPC.Address).Info("gRPC server started")
		return s.grpcServer.Serve(lis)
	})
	g.Go(func() error { return listenAndServe(s.httpServer, "http") })
	g.Go(func() error { return listenAndServe(s.gatewayServer, "gateway") })
	g.Go(func() error {
		<-gctx.Done()
		return s.shutdown()
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func listenAndServe(srv *http.Server, name string) error {
	logrus.WithFields(logrus.Fields{"server": name, "address": srv.Addr}).Info("http server started")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s server: %w", name, err)
	}
	return nil
}

func (s *Servers) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.grpcServer.GracefulStop()
	return errors.Join(
		s.httpServer.Shutdown(ctx),
		s.gatewayServer.Shutdown(ctx),
	)
}

func newServers(cfg *config.Config, api http.Handler, purchases purchase.PurchaseUseCase, sessions inventoryapi.IdentityResolver) (*Servers, error) {
	grpcSrv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		inventoryapi.LoggingInterceptor,
		inventoryapi.SessionInterceptor(sessions),
	))
	inventoryapi.RegisterInventoryServiceServer(grpcSrv, inventoryapi.NewServer(purchases))

	conn, err := grpc.NewClient(dialTarget(cfg.GRPC.Address), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial gRPC for gateway: %w", err)
	}
	gateway, err := newGatewayHandler(conn, cfg.HTTP.SwaggerDir, cfg.Session.CookieName)
	if err != nil {
		conn.Close()
		return nil, err
	}

	return &Servers{
		grpcServer:    grpcSrv,
		httpServer:    &http.Server{Addr: cfg.HTTP.Address, Handler: api, ReadHeaderTimeout: 10 * time.Second},
		gatewayServer: &http.Server{Addr: cfg.Gateway.Address, Handler: gateway, ReadHeaderTimeout: 10 * time.Second},
		gatewayConn:   conn,
	}, nil
}

// newGatewayHandler serves the REST gateway and, when swaggerDir is set, the
// OpenAPI document with a swagger UI on top of it. The session cookie named
// cookieName is forwarded to the gRPC server.
func newGatewayHandler(conn grpc.ClientConnInterface, swaggerDir, cookieName string) (http.Handler, error) {
	mux := runtime.NewServeMux(runtime.WithMetadata(inventoryapi.SessionMetadata(cookieName)))
	if err := inventoryapi.RegisterGateway(mux, conn); err != nil {
		return nil, fmt.Errorf("register inventory gateway: %w", err)
	}

	handler := http.NewServeMux()
	handler.Handle("/", mux)

	if swaggerDir != "" {
		handler.Handle("/docs/", http.StripPrefix("/docs/", http.FileServer(http.Dir(swaggerDir))))
		handler.Handle("/swagger/", httpSwagger.Handler(httpSwagger.URL("/docs/"+swaggerDocument)))
	}
	return handler, nil
}

func dialTarget(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "localhost" + addr
	}
	return addr
}
