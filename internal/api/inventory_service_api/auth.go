package inventory_service_api

import (
	"context"
	"errors"
	"strings"

	"github.com/Domenick1991/airline-booking/internal/domain"
	"github.com/Domenick1991/airline-booking/internal/logger"
	"github.com/Domenick1991/airline-booking/internal/session"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// SessionMetadataKey carries the session id of the caller. A bearer token in
// the authorization header is accepted as well.
const SessionMetadataKey = "x-session-id"

// IdentityResolver turns a session id into the identity that owns it.
type IdentityResolver interface {
	Identity(ctx context.Context, sessionID string) (*domain.Identity, error)
}

type identityKey struct{}

// SessionInterceptor resolves the caller's session once per call. Calls
// without a valid session continue as anonymous.
func SessionInterceptor(resolver IdentityResolver) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		id := sessionID(ctx)
		if id == "" {
			return handler(ctx, req)
		}

		identity, err := resolver.Identity(ctx, id)
		if err != nil {
			if !errors.Is(err, session.ErrNotFound) {
				logger.FromContext(ctx).WithError(err).Warn("session lookup failed")
			}
			return handler(ctx, req)
		}

		entry := logger.FromContext(ctx).WithFields(logrus.Fields{
			"role": identity.Role,
			"user": identity.UserID,
		})
		ctx = context.WithValue(logger.ToContext(ctx, entry), identityKey{}, identity)
		return handler(ctx, req)
	}
}

func sessionID(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if values := md.Get(SessionMetadataKey); len(values) > 0 && values[0] != "" {
		return values[0]
	}
	for _, value := range md.Get("authorization") {
		if token, found := strings.CutPrefix(value, "Bearer "); found {
			return strings.TrimSpace(token)
		}
	}
	return ""
}

// CallerIdentity returns the identity attached by SessionInterceptor, nil
// when the call is anonymous.
func CallerIdentity(ctx context.Context) *domain.Identity {
	identity, _ := ctx.Value(identityKey{}).(*domain.Identity)
	if !identity.Authenticated() {
		return nil
	}
	return identity
}

func requireIdentity(ctx context.Context) (*domain.Identity, error) {
	identity := CallerIdentity(ctx)
	if identity == nil {
		return nil, status.Error(codes.Unauthenticated, "Please log in.")
	}
	return identity, nil
}
